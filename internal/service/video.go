package service

import (
	"StreamVault/config"
	"StreamVault/internal/dto"
	"StreamVault/internal/repo"
	"StreamVault/internal/storage"
	"StreamVault/model"
	"StreamVault/utils"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/context"

	"gorm.io/gorm"
)

const videoCacheTTL = 5 * time.Minute

func cacheVideo(ctx context.Context, video *model.Video) {
	if err := utils.SetVideoToCache(ctx, video, videoCacheTTL); err != nil {
		log.Println("cache video failed:", err)
	}
}

// GetVideoById loads a video record, trying the cache before the
// database. Records in the deleted state are reported as not found.
func GetVideoById(ctx context.Context, id string) (*model.Video, error) {
	if video, ok := utils.GetVideoFromCache(ctx, id); ok {
		if video.Status == model.StatusDeleted {
			return nil, &NotFoundError{Msg: "video not found"}
		}
		return video, nil
	}
	var video model.Video
	err := repo.Db.WithContext(ctx).First(&video, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Msg: "video not found"}
	}
	if err != nil {
		return nil, err
	}
	if video.Status == model.StatusDeleted {
		return nil, &NotFoundError{Msg: "video not found"}
	}
	cacheVideo(ctx, &video)
	return &video, nil
}

// CreateVideo registers a new video record in the pending state. The
// payload itself arrives later through BeginUpload.
func CreateVideo(ctx context.Context, req *dto.CreateVideoRequest) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Msg: "title must not be empty", Status: http.StatusBadRequest}
	}
	if req.FileSize > config.AppConfig.MaxUploadSize {
		return nil, &ValidationError{Msg: "file exceeds the maximum upload size", Status: http.StatusRequestEntityTooLarge}
	}
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !containsString(config.AppConfig.AllowedExtensions, ext) {
		return nil, &ValidationError{Msg: "unsupported file extension " + ext, Status: http.StatusUnsupportedMediaType}
	}
	if req.FileType != "" && !containsString(config.AppConfig.AllowedMimeTypes, strings.ToLower(req.FileType)) {
		return nil, &ValidationError{Msg: "unsupported content type " + req.FileType, Status: http.StatusUnsupportedMediaType}
	}

	id := utils.GetToken()
	storedName := utils.GetToken() + ext
	video := model.Video{
		ID:               id,
		Title:            title,
		Description:      req.Description,
		Filename:         storedName,
		OriginalFilename: req.Filename,
		FilePath:         "videos/" + id + "/" + storedName,
		FileSize:         req.FileSize,
		FileType:         req.FileType,
		FileExtension:    ext,
		Status:           model.StatusPending,
	}
	if err := repo.Db.WithContext(ctx).Create(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// ListVideos returns a page of videos matching the optional status and
// title filters, newest first. Deleted records never appear.
func ListVideos(ctx context.Context, req *dto.VideoListRequest) ([]model.Video, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("status <> ?", model.StatusDeleted)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var videos []model.Video
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// DeleteVideo removes the stored payload and thumbnail and marks the
// record deleted. View sessions are kept for historical statistics.
func DeleteVideo(ctx context.Context, id string) error {
	video, err := GetVideoById(ctx, id)
	if err != nil {
		return err
	}
	bucket := config.AppConfig.BucketName
	if video.FilePath != "" {
		if err := storage.Default.RemoveObject(ctx, bucket, video.FilePath); err != nil {
			log.Println("remove video object failed:", err)
		}
	}
	if video.ThumbnailPath != "" {
		if err := storage.Default.RemoveObject(ctx, bucket, video.ThumbnailPath); err != nil {
			log.Println("remove thumbnail object failed:", err)
		}
	}
	err = repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", id).
		Update("status", model.StatusDeleted).Error
	if err != nil {
		return err
	}
	if err := utils.InvalidateVideoCache(ctx, id); err != nil {
		log.Println("invalidate video cache failed:", err)
	}
	return nil
}

// GetVideoStatistics aggregates viewing figures for one video.
func GetVideoStatistics(ctx context.Context, id string) (*dto.VideoStatsResponse, error) {
	video, err := GetVideoById(ctx, id)
	if err != nil {
		return nil, err
	}

	var sessions []model.ViewSession
	err = repo.Db.WithContext(ctx).
		Where("video_id = ?", id).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	stats := dto.VideoStatsResponse{
		VideoID:    id,
		TotalViews: int(video.ViewCount),
		Duration:   video.Duration,
		Resolution: video.Resolution(),
		FileSize:   video.FileSize,
	}
	var completed int
	for _, session := range sessions {
		stats.UniqueViewers++
		stats.TotalWatchTime += session.WatchDuration
		if session.IsCompleted {
			completed++
		}
	}
	if stats.UniqueViewers > 0 {
		stats.AverageWatchTime = stats.TotalWatchTime / float64(stats.UniqueViewers)
		stats.CompletionRate = float64(completed) / float64(stats.UniqueViewers) * 100
	}
	return &stats, nil
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
