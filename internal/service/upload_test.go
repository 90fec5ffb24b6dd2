package service

import (
	"StreamVault/config"
	"StreamVault/internal/dto"
	"StreamVault/internal/repo"
	"StreamVault/model"
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestCreateVideoValidation(t *testing.T) {
	setupDB(t)

	cases := []struct {
		name   string
		req    dto.CreateVideoRequest
		status int
	}{
		{
			"empty title",
			dto.CreateVideoRequest{Title: "  ", Filename: "a.mp4", FileSize: 10},
			http.StatusBadRequest,
		},
		{
			"oversized file",
			dto.CreateVideoRequest{Title: "big", Filename: "a.mp4", FileSize: config.AppConfig.MaxUploadSize + 1},
			http.StatusRequestEntityTooLarge,
		},
		{
			"bad extension",
			dto.CreateVideoRequest{Title: "doc", Filename: "a.pdf", FileSize: 10},
			http.StatusUnsupportedMediaType,
		},
		{
			"bad mime type",
			dto.CreateVideoRequest{Title: "odd", Filename: "a.mp4", FileSize: 10, FileType: "application/pdf"},
			http.StatusUnsupportedMediaType,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateVideo(context.Background(), &tc.req)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if validation.Status != tc.status {
				t.Fatalf("status = %d, want %d", validation.Status, tc.status)
			}
		})
	}
}

func TestCreateVideo(t *testing.T) {
	setupDB(t)

	req := dto.CreateVideoRequest{
		Title:    "launch recap",
		Filename: "Recap Final.MP4",
		FileSize: 1024,
		FileType: "video/mp4",
	}
	video, err := CreateVideo(context.Background(), &req)
	if err != nil {
		t.Fatal("create:", err)
	}
	if video.Status != model.StatusPending {
		t.Fatalf("status = %q, want pending", video.Status)
	}
	if video.OriginalFilename != "Recap Final.MP4" {
		t.Fatalf("original filename = %q", video.OriginalFilename)
	}
	if video.Filename == video.OriginalFilename {
		t.Fatal("stored filename must not reuse the client filename")
	}
	wantPrefix := "videos/" + video.ID + "/"
	if !strings.HasPrefix(video.FilePath, wantPrefix) {
		t.Fatalf("file path = %q, want prefix %q", video.FilePath, wantPrefix)
	}
	if video.FileExtension != ".mp4" {
		t.Fatalf("extension = %q, want .mp4", video.FileExtension)
	}
}

func TestBeginUpload(t *testing.T) {
	setupDB(t)
	store := setupStore(t)
	broker := setupBroker(t)

	video := seedVideo(t, &model.Video{Status: model.StatusPending, FileSize: 64})
	payload := bytes.Repeat([]byte("x"), 64)

	session, err := BeginUpload(context.Background(), video.ID, bytes.NewReader(payload))
	if err != nil {
		t.Fatal("upload:", err)
	}
	if session.Status != model.StatusCompleted {
		t.Fatalf("session status = %q, want completed", session.Status)
	}
	if session.BytesUploaded != 64 {
		t.Fatalf("bytes uploaded = %d, want 64", session.BytesUploaded)
	}
	if !store.has(config.AppConfig.BucketName, video.FilePath) {
		t.Fatal("payload not stored")
	}

	after := reloadVideo(t, video.ID)
	if after.Status != model.StatusProcessing {
		t.Fatalf("video status = %q, want processing", after.Status)
	}
	if after.UploadedAt == nil {
		t.Fatal("uploaded_at not set")
	}
	if broker.taskCount() != 1 {
		t.Fatalf("enqueued %d jobs, want 1", broker.taskCount())
	}
}

func TestBeginUploadRejectsConcurrentUpload(t *testing.T) {
	setupDB(t)
	setupStore(t)
	setupBroker(t)

	video := seedVideo(t, &model.Video{Status: model.StatusUploading, FileSize: 16})
	_, err := BeginUpload(context.Background(), video.ID, bytes.NewReader(make([]byte, 16)))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestBeginUploadAllowsRetryAfterFailure(t *testing.T) {
	setupDB(t)
	store := setupStore(t)
	broker := setupBroker(t)

	video := seedVideo(t, &model.Video{
		Status:       model.StatusFailed,
		ErrorMessage: "previous upload died",
		FileSize:     32,
	})
	_, err := BeginUpload(context.Background(), video.ID, bytes.NewReader(make([]byte, 32)))
	if err != nil {
		t.Fatal("retry upload:", err)
	}
	after := reloadVideo(t, video.ID)
	if after.Status != model.StatusProcessing {
		t.Fatalf("video status = %q, want processing", after.Status)
	}
	if after.ErrorMessage != "" {
		t.Fatalf("error message not cleared: %q", after.ErrorMessage)
	}
	if !store.has(config.AppConfig.BucketName, video.FilePath) {
		t.Fatal("payload not stored")
	}
	if broker.taskCount() != 1 {
		t.Fatalf("enqueued %d jobs, want 1", broker.taskCount())
	}
}

func TestBeginUploadShortPayload(t *testing.T) {
	setupDB(t)
	setupStore(t)
	setupBroker(t)

	video := seedVideo(t, &model.Video{Status: model.StatusPending, FileSize: 100})
	_, err := BeginUpload(context.Background(), video.ID, bytes.NewReader(make([]byte, 40)))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	after := reloadVideo(t, video.ID)
	if after.Status != model.StatusFailed {
		t.Fatalf("video status = %q, want failed", after.Status)
	}
	if after.ErrorMessage == "" {
		t.Fatal("error message not recorded")
	}
}

func TestBeginUploadOversizedPayload(t *testing.T) {
	setupDB(t)
	setupStore(t)
	setupBroker(t)

	video := seedVideo(t, &model.Video{Status: model.StatusPending, FileSize: 10})
	_, err := BeginUpload(context.Background(), video.ID, bytes.NewReader(make([]byte, 50)))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	after := reloadVideo(t, video.ID)
	if after.Status != model.StatusFailed {
		t.Fatalf("video status = %q, want failed", after.Status)
	}
}

func TestBeginUploadEnqueueFailure(t *testing.T) {
	setupDB(t)
	setupStore(t)
	broker := setupBroker(t)
	broker.publishErr = errors.New("rabbitmq is down")

	video := seedVideo(t, &model.Video{Status: model.StatusPending, FileSize: 16})
	_, err := BeginUpload(context.Background(), video.ID, bytes.NewReader(make([]byte, 16)))
	if err == nil {
		t.Fatal("expected error when enqueue fails")
	}

	after := reloadVideo(t, video.ID)
	if after.Status != model.StatusFailed {
		t.Fatalf("video status = %q, want failed", after.Status)
	}

	var session model.UploadSession
	if err := repo.Db.First(&session, "video_id = ?", video.ID).Error; err != nil {
		t.Fatal("load session:", err)
	}
	if session.Status != model.StatusFailed {
		t.Fatalf("session status = %q, want failed", session.Status)
	}
	if session.ErrorMessage == "" {
		t.Fatal("session error message not recorded")
	}
}

func TestBeginUploadStorageFailure(t *testing.T) {
	setupDB(t)
	store := setupStore(t)
	setupBroker(t)
	store.putErr = errors.New("minio is down")

	video := seedVideo(t, &model.Video{Status: model.StatusPending, FileSize: 8})
	_, err := BeginUpload(context.Background(), video.ID, bytes.NewReader(make([]byte, 8)))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("err = %v, want StorageError", err)
	}
	after := reloadVideo(t, video.ID)
	if after.Status != model.StatusFailed {
		t.Fatalf("video status = %q, want failed", after.Status)
	}

	var session model.UploadSession
	if err := repo.Db.First(&session, "video_id = ?", video.ID).Error; err != nil {
		t.Fatal("load session:", err)
	}
	if session.Status != model.StatusFailed {
		t.Fatalf("session status = %q, want failed", session.Status)
	}
}
