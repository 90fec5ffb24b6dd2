package service

import (
	"StreamVault/internal/dto"
	"StreamVault/internal/repo"
	"StreamVault/model"
	"StreamVault/utils"
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// completionThreshold is the watch percentage at which a view session
// counts as completed. Completion is irreversible after that.
const completionThreshold = 95.0

// RecordView registers a playback start for a (video, session) pair and
// bumps the view counter exactly once per pair. Repeat plays from the
// same session do not inflate the count.
func RecordView(ctx context.Context, videoID, sessionID, userID, ipAddress, userAgent string) error {
	video, err := GetVideoById(ctx, videoID)
	if err != nil {
		return err
	}

	session := model.ViewSession{
		ID:           utils.GetToken(),
		VideoID:      video.ID,
		SessionID:    sessionID,
		UserID:       userID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		IsActive:     true,
		LastAccessed: time.Now(),
	}
	result := repo.Db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}, {Name: "session_id"}},
			DoNothing: true,
		}).
		Create(&session)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	err = repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", video.ID).
		Update("view_count", gorm.Expr("view_count + ?", 1)).Error
	if err != nil {
		return err
	}
	if err := utils.InvalidateVideoCache(ctx, video.ID); err != nil {
		log.Println("invalidate video cache failed:", err)
	}
	return nil
}

// UpdateProgress records the playback position for a view session,
// creating the session if the viewer never triggered RecordView.
func UpdateProgress(ctx context.Context, videoID string, req *dto.ProgressUpdateRequest) (*dto.ProgressResponse, error) {
	video, err := GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var session model.ViewSession
	err = repo.Db.WithContext(ctx).
		Where("video_id = ? AND session_id = ?", videoID, req.SessionID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = model.ViewSession{
			ID:        utils.GetToken(),
			VideoID:   videoID,
			SessionID: req.SessionID,
			UserID:    req.UserID,
			IsActive:  true,
		}
		err = repo.Db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "video_id"}, {Name: "session_id"}},
				DoNothing: true,
			}).
			Create(&session).Error
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	currentTime := req.CurrentTime
	if video.Duration > 0 && currentTime > video.Duration {
		currentTime = video.Duration
	}

	completion := session.CompletionPercentage
	if video.Duration > 0 {
		completion = currentTime / video.Duration * 100
		if completion > 100 {
			completion = 100
		}
		if completion < 0 {
			completion = 0
		}
	}

	// Watch duration only accumulates forward movement; rewinding and
	// rewatching does not shrink it.
	watchDuration := session.WatchDuration
	if delta := currentTime - session.CurrentTime; delta > 0 {
		watchDuration += delta
	}

	completed := session.IsCompleted || completion >= completionThreshold

	now := time.Now()
	err = repo.Db.WithContext(ctx).Model(&model.ViewSession{}).
		Where("video_id = ? AND session_id = ?", videoID, req.SessionID).
		Updates(map[string]interface{}{
			"current_time_s":        currentTime,
			"watch_duration":        watchDuration,
			"completion_percentage": completion,
			"is_completed":          completed,
			"last_accessed":         now,
		}).Error
	if err != nil {
		return nil, err
	}

	return &dto.ProgressResponse{
		VideoID:              videoID,
		CurrentTime:          currentTime,
		CompletionPercentage: completion,
		ResumePosition:       currentTime,
		IsCompleted:          completed,
	}, nil
}

// GetProgress returns the saved playback position for a session, or
// nil when the session never reported progress.
func GetProgress(ctx context.Context, videoID, sessionID string) (*dto.ProgressResponse, error) {
	if _, err := GetVideoById(ctx, videoID); err != nil {
		return nil, err
	}
	var session model.ViewSession
	err := repo.Db.WithContext(ctx).
		Where("video_id = ? AND session_id = ?", videoID, sessionID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.ProgressResponse{
		VideoID:              videoID,
		CurrentTime:          session.CurrentTime,
		CompletionPercentage: session.CompletionPercentage,
		ResumePosition:       session.ResumePosition(),
		IsCompleted:          session.IsCompleted,
	}, nil
}
