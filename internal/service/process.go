package service

import (
	"StreamVault/config"
	"StreamVault/internal/inspector"
	"StreamVault/internal/repo"
	"StreamVault/internal/storage"
	"StreamVault/model"
	"StreamVault/utils"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
)

// Processing progress checkpoints. Progress only moves forward so a
// redelivered job cannot roll a video back.
const (
	progressMetadata  = 60
	progressThumbnail = 80
	progressDone      = 100
)

// ProcessVideo runs the full processing pipeline for an uploaded video:
// probe metadata, extract a thumbnail at the temporal midpoint, and
// mark the record completed. Safe to call again for the same video.
func ProcessVideo(ctx context.Context, videoID string) error {
	var video model.Video
	err := repo.Db.WithContext(ctx).First(&video, "id = ?", videoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Msg: "video not found"}
	}
	if err != nil {
		return err
	}
	if video.Status == model.StatusDeleted {
		log.Println("skipping processing of deleted video", videoID)
		return nil
	}

	err = repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Updates(map[string]interface{}{
			"status":              model.StatusProcessing,
			"processing_progress": 0,
			"error_message":       "",
		}).Error
	if err != nil {
		return err
	}
	invalidateCache(ctx, videoID)

	localPath, cleanup, err := fetchToTempFile(ctx, video.FilePath, video.FileExtension)
	if err != nil {
		return markProcessingFailed(ctx, videoID, err)
	}
	defer cleanup()

	meta, err := inspector.Default.Inspect(ctx, localPath)
	if err != nil {
		return markProcessingFailed(ctx, videoID, &ProcessingError{Msg: "probe failed", Err: err})
	}
	err = repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Updates(map[string]interface{}{
			"duration":    meta.Duration,
			"width":       meta.Width,
			"height":      meta.Height,
			"fps":         meta.FPS,
			"frame_count": meta.FrameCount,
			"codec":       meta.Codec,
		}).Error
	if err != nil {
		return markProcessingFailed(ctx, videoID, err)
	}
	if err := advanceProgress(ctx, videoID, progressMetadata); err != nil {
		return markProcessingFailed(ctx, videoID, err)
	}

	if config.AppConfig.EnableThumbnails {
		thumbPath, err := extractAndStoreThumbnail(ctx, videoID, localPath, meta)
		if err != nil {
			return markProcessingFailed(ctx, videoID, err)
		}
		err = repo.Db.WithContext(ctx).Model(&model.Video{}).
			Where("id = ?", videoID).
			Update("thumbnail_path", thumbPath).Error
		if err != nil {
			return markProcessingFailed(ctx, videoID, err)
		}
		if err := advanceProgress(ctx, videoID, progressThumbnail); err != nil {
			return markProcessingFailed(ctx, videoID, err)
		}
	}

	now := time.Now()
	err = repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Updates(map[string]interface{}{
			"status":              model.StatusCompleted,
			"processing_progress": progressDone,
			"processed_at":        &now,
		}).Error
	if err != nil {
		return markProcessingFailed(ctx, videoID, err)
	}
	invalidateCache(ctx, videoID)
	return nil
}

// GenerateThumbnail extracts a thumbnail for an already completed
// video without touching its lifecycle state or progress.
func GenerateThumbnail(ctx context.Context, videoID string) error {
	var video model.Video
	err := repo.Db.WithContext(ctx).First(&video, "id = ?", videoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Msg: "video not found"}
	}
	if err != nil {
		return err
	}
	if video.Status == model.StatusDeleted {
		return nil
	}

	localPath, cleanup, err := fetchToTempFile(ctx, video.FilePath, video.FileExtension)
	if err != nil {
		return err
	}
	defer cleanup()

	meta := inspector.Metadata{
		Duration: video.Duration,
		Width:    video.Width,
		Height:   video.Height,
	}
	if meta.Duration == 0 || meta.Width == 0 {
		meta, err = inspector.Default.Inspect(ctx, localPath)
		if err != nil {
			return &ProcessingError{Msg: "probe failed", Err: err}
		}
	}
	thumbPath, err := extractAndStoreThumbnail(ctx, videoID, localPath, meta)
	if err != nil {
		return err
	}

	// A full processing run may have written its own thumbnail while
	// this job was extracting; re-check right before committing.
	var current model.Video
	if err := repo.Db.WithContext(ctx).Select("thumbnail_path").First(&current, "id = ?", videoID).Error; err != nil {
		return err
	}
	if current.ThumbnailPath != "" && current.ThumbnailPath != thumbPath {
		return nil
	}
	err = repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Update("thumbnail_path", thumbPath).Error
	if err != nil {
		return err
	}
	invalidateCache(ctx, videoID)
	return nil
}

func extractAndStoreThumbnail(ctx context.Context, videoID, localPath string, meta inspector.Metadata) (string, error) {
	width, height := inspector.ThumbnailSize(meta.Width, meta.Height, config.AppConfig.ThumbnailMaxEdge)
	outPath := localPath + ".thumb.jpg"
	err := inspector.Default.ExtractFrame(
		ctx,
		localPath,
		meta.Duration/2,
		width,
		height,
		config.AppConfig.ThumbnailQuality,
		outPath,
	)
	if err != nil {
		return "", &ProcessingError{Msg: "thumbnail extraction failed", Err: err}
	}
	defer os.Remove(outPath)

	thumb, err := os.Open(outPath)
	if err != nil {
		return "", &ProcessingError{Msg: "thumbnail read failed", Err: err}
	}
	defer thumb.Close()
	info, err := thumb.Stat()
	if err != nil {
		return "", &ProcessingError{Msg: "thumbnail read failed", Err: err}
	}

	objectPath := "thumbnails/" + videoID + "/thumbnail_" + videoID + ".jpg"
	err = storage.Default.PutObject(
		ctx,
		config.AppConfig.BucketName,
		objectPath,
		thumb,
		info.Size(),
		storage.PutOptions{ContentType: "image/jpeg"},
	)
	if err != nil {
		return "", &StorageError{Op: "put", Transient: true, Err: err}
	}
	return objectPath, nil
}

// fetchToTempFile copies the stored object to a local temp file so
// ffmpeg can seek in it. The caller must invoke cleanup.
func fetchToTempFile(ctx context.Context, objectPath, ext string) (string, func(), error) {
	reader, _, err := storage.Default.GetObject(ctx, config.AppConfig.BucketName, objectPath)
	if err != nil {
		return "", nil, &StorageError{Op: "get", Transient: true, Err: err}
	}
	defer reader.Close()

	tmp, err := os.CreateTemp("", "process-*"+ext)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, &StorageError{Op: "get", Transient: true, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

// advanceProgress moves processing progress forward. The conditional
// keeps progress monotonic under duplicate deliveries.
func advanceProgress(ctx context.Context, videoID string, progress int) error {
	return repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ? AND processing_progress < ?", videoID, progress).
		Update("processing_progress", progress).Error
}

func markProcessingFailed(ctx context.Context, videoID string, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		cause = &TimeoutError{Msg: "processing exceeded the time limit"}
	}
	reason := cause.Error()
	// The job context may already be expired; the failure must still be
	// recorded.
	ctx = context.Background()
	err := repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Updates(map[string]interface{}{
			"status":        model.StatusFailed,
			"error_message": reason,
		}).Error
	if err != nil {
		log.Println("mark processing failed:", err)
	}
	invalidateCache(ctx, videoID)
	return cause
}

func invalidateCache(ctx context.Context, videoID string) {
	if err := utils.InvalidateVideoCache(ctx, videoID); err != nil {
		log.Println("invalidate video cache failed:", err)
	}
}
