package service

import (
	"StreamVault/config"
	"StreamVault/internal/repo"
	"StreamVault/internal/storage"
	"StreamVault/internal/task"
	"StreamVault/model"
	"StreamVault/utils"
	"context"
	"io"
	"log"
	"net/http"
	"time"
)

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// BeginUpload claims the single upload slot for a video, streams the
// payload into object storage and hands the video to the processing
// queue. Only one upload can be active per video; the claim is a
// conditional status flip so two concurrent callers cannot both win.
func BeginUpload(ctx context.Context, videoID string, payload io.Reader) (*model.UploadSession, error) {
	video, err := GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}

	claim := repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ? AND status IN ?", videoID, []string{model.StatusPending, model.StatusFailed}).
		Updates(map[string]interface{}{
			"status":        model.StatusUploading,
			"error_message": "",
		})
	if claim.Error != nil {
		return nil, claim.Error
	}
	if claim.RowsAffected == 0 {
		return nil, &ConflictError{Msg: "an upload is already in progress for this video"}
	}
	if err := utils.InvalidateVideoCache(ctx, videoID); err != nil {
		log.Println("invalidate video cache failed:", err)
	}

	now := time.Now()
	session := model.UploadSession{
		ID:           utils.GetToken(),
		VideoID:      videoID,
		SessionToken: utils.GetToken(),
		Status:       model.StatusUploading,
		StartedAt:    &now,
	}
	if err := repo.Db.WithContext(ctx).Create(&session).Error; err != nil {
		failUpload(ctx, videoID, &session, "could not create upload session: "+err.Error())
		return nil, err
	}

	counter := &countingReader{r: io.LimitReader(payload, video.FileSize)}
	err = storage.Default.PutObject(
		ctx,
		config.AppConfig.BucketName,
		video.FilePath,
		counter,
		video.FileSize,
		storage.PutOptions{ContentType: video.FileType},
	)
	if err != nil {
		failUpload(ctx, videoID, &session, "upload to storage failed: "+err.Error())
		return nil, &StorageError{Op: "put", Transient: true, Err: err}
	}
	if counter.n < video.FileSize {
		failUpload(ctx, videoID, &session, "payload shorter than the declared file size")
		return nil, &ValidationError{Msg: "payload shorter than the declared file size", Status: http.StatusBadRequest}
	}
	// Probe one extra byte to catch payloads longer than declared.
	var overflow [1]byte
	if n, _ := payload.Read(overflow[:]); n > 0 {
		failUpload(ctx, videoID, &session, "payload longer than the declared file size")
		return nil, &ValidationError{Msg: "payload longer than the declared file size", Status: http.StatusBadRequest}
	}

	elapsed := time.Since(now).Seconds()
	speed := float64(counter.n)
	if elapsed > 0 {
		speed = float64(counter.n) / elapsed
	}
	completed := time.Now()
	err = repo.Db.WithContext(ctx).Model(&model.UploadSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"status":          model.StatusCompleted,
			"bytes_uploaded":  counter.n,
			"upload_progress": 100.0,
			"upload_speed":    speed,
			"completed_at":    &completed,
		}).Error
	if err != nil {
		return nil, err
	}
	err = repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Updates(map[string]interface{}{
			"status":      model.StatusProcessing,
			"uploaded_at": &completed,
		}).Error
	if err != nil {
		return nil, err
	}
	if err := utils.InvalidateVideoCache(ctx, videoID); err != nil {
		log.Println("invalidate video cache failed:", err)
	}

	if err := task.EnqueueProcessing(ctx, videoID); err != nil {
		failUpload(ctx, videoID, &session, "could not enqueue processing: "+err.Error())
		return nil, err
	}

	session.Status = model.StatusCompleted
	session.BytesUploaded = counter.n
	session.Progress = 100
	session.UploadSpeed = speed
	session.CompletedAt = &completed
	return &session, nil
}

// failUpload marks the video and its session failed. Partially written
// objects are left in storage; re-uploads overwrite the same path.
func failUpload(ctx context.Context, videoID string, session *model.UploadSession, reason string) {
	err := repo.Db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Updates(map[string]interface{}{
			"status":        model.StatusFailed,
			"error_message": reason,
		}).Error
	if err != nil {
		log.Println("mark video failed:", err)
	}
	if session != nil {
		err = repo.Db.WithContext(ctx).Model(&model.UploadSession{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"status":        model.StatusFailed,
				"error_message": reason,
			}).Error
		if err != nil {
			log.Println("mark upload session failed:", err)
		}
	}
	if err := utils.InvalidateVideoCache(ctx, videoID); err != nil {
		log.Println("invalidate video cache failed:", err)
	}
}
