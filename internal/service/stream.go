package service

import (
	"StreamVault/config"
	"StreamVault/internal/storage"
	"context"
	"io"
	"strconv"
	"strings"
	"time"
)

// StreamContent loads the full payload of a completed video. Range
// slicing happens in the handler over the in-memory copy.
func StreamContent(ctx context.Context, videoID string) ([]byte, string, error) {
	video, err := GetVideoById(ctx, videoID)
	if err != nil {
		return nil, "", err
	}
	if !video.IsReady() {
		return nil, "", &NotReadyError{Msg: "video is not ready for streaming"}
	}
	reader, info, err := storage.Default.GetObject(ctx, config.AppConfig.BucketName, video.FilePath)
	if err != nil {
		return nil, "", &StorageError{Op: "get", Transient: true, Err: err}
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", &StorageError{Op: "get", Transient: true, Err: err}
	}
	contentType := video.FileType
	if contentType == "" {
		contentType = info.ContentType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// GetThumbnailContent loads the stored thumbnail bytes for a video.
// Returns NotFoundError when no thumbnail has been generated yet.
func GetThumbnailContent(ctx context.Context, videoID string) ([]byte, error) {
	video, err := GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.ThumbnailPath == "" {
		return nil, &NotFoundError{Msg: "thumbnail not generated yet"}
	}
	reader, _, err := storage.Default.GetObject(ctx, config.AppConfig.BucketName, video.ThumbnailPath)
	if err != nil {
		return nil, &StorageError{Op: "get", Transient: true, Err: err}
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &StorageError{Op: "get", Transient: true, Err: err}
	}
	return data, nil
}

// GetPresignedURL returns a time-limited direct download URL for a
// completed video.
func GetPresignedURL(ctx context.Context, videoID string, expiry time.Duration) (string, error) {
	video, err := GetVideoById(ctx, videoID)
	if err != nil {
		return "", err
	}
	if !video.IsReady() {
		return "", &NotReadyError{Msg: "video is not ready for download"}
	}
	if expiry <= 0 {
		expiry = config.AppConfig.PresignDefaultTTL
	}
	params := map[string]string{
		"response-content-disposition": `attachment; filename="` + video.OriginalFilename + `"`,
	}
	url, err := storage.Default.PresignedGetObjectWithResponse(
		ctx, config.AppConfig.BucketName, video.FilePath, expiry, params)
	if err != nil {
		return "", &StorageError{Op: "presign", Transient: true, Err: err}
	}
	return url, nil
}

// ParseRange interprets a Range header against a payload of total
// bytes. It returns ok=false when the header is absent, malformed or
// unsatisfiable, in which case the caller serves the full payload.
func ParseRange(header string, total int64) (start, end int64, ok bool) {
	if header == "" || total <= 0 {
		return 0, 0, false
	}
	if !strings.HasPrefix(header, "bytes=") {
		return 0, 0, false
	}
	value := strings.TrimPrefix(header, "bytes=")
	if strings.Contains(value, ",") {
		return 0, 0, false
	}
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	start = 0
	if parts[0] != "" {
		parsed, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || parsed < 0 {
			return 0, 0, false
		}
		start = parsed
	}
	end = total - 1
	if parts[1] != "" {
		parsed, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || parsed < 0 {
			return 0, 0, false
		}
		end = parsed
	}
	if end > total-1 {
		end = total - 1
	}
	if start > end || start >= total {
		return 0, 0, false
	}
	return start, end, true
}
