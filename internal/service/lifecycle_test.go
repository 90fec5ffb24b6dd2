package service

import (
	"StreamVault/internal/dto"
	"StreamVault/internal/inspector"
	"StreamVault/model"
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

// Walks a video through its whole life: create, upload, process,
// stream, watch to completion.
func TestVideoLifecycle(t *testing.T) {
	setupDB(t)
	setupStore(t)
	broker := setupBroker(t)
	setupInspector(t, inspector.Metadata{
		Duration:   12.5,
		Width:      640,
		Height:     360,
		FPS:        25,
		FrameCount: 312,
		Codec:      "h264",
	})

	ctx := context.Background()
	video, err := CreateVideo(ctx, &dto.CreateVideoRequest{
		Title:    "lifecycle",
		Filename: "clip.mp4",
		FileSize: 512,
		FileType: "video/mp4",
	})
	if err != nil {
		t.Fatal("create:", err)
	}
	if video.Status != model.StatusPending {
		t.Fatalf("status after create = %q, want pending", video.Status)
	}

	payload := bytes.Repeat([]byte("m"), 512)
	if _, err := BeginUpload(ctx, video.ID, bytes.NewReader(payload)); err != nil {
		t.Fatal("upload:", err)
	}
	if reloadVideo(t, video.ID).Status != model.StatusProcessing {
		t.Fatal("status after upload is not processing")
	}

	// Run the job the broker received, like the worker would.
	if broker.taskCount() != 1 {
		t.Fatalf("enqueued %d jobs, want 1", broker.taskCount())
	}
	var msg struct {
		VideoID string `json:"video_id"`
	}
	if err := json.Unmarshal(broker.tasks[0], &msg); err != nil {
		t.Fatal("decode job:", err)
	}
	if msg.VideoID != video.ID {
		t.Fatalf("job video id = %q, want %q", msg.VideoID, video.ID)
	}
	if err := ProcessVideo(ctx, msg.VideoID); err != nil {
		t.Fatal("process:", err)
	}

	completed := reloadVideo(t, video.ID)
	if completed.Status != model.StatusCompleted || completed.ProcessingProgress != 100 {
		t.Fatalf("after processing: status=%q progress=%d", completed.Status, completed.ProcessingProgress)
	}
	if completed.Duration != 12.5 || completed.Resolution() != "640x360" {
		t.Fatalf("metadata: %+v", completed)
	}

	data, _, err := StreamContent(ctx, video.ID)
	if err != nil {
		t.Fatal("stream:", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatal("streamed bytes differ from the uploaded payload")
	}

	if err := RecordView(ctx, video.ID, "viewer-1", "", "", ""); err != nil {
		t.Fatal("record view:", err)
	}
	resp, err := UpdateProgress(ctx, video.ID, &dto.ProgressUpdateRequest{
		SessionID:   "viewer-1",
		CurrentTime: 12.5,
	})
	if err != nil {
		t.Fatal("update progress:", err)
	}
	if !resp.IsCompleted {
		t.Fatal("watching to the end must complete the session")
	}

	stats, err := GetVideoStatistics(ctx, video.ID)
	if err != nil {
		t.Fatal("stats:", err)
	}
	if stats.TotalViews != 1 || stats.CompletionRate != 100 {
		t.Fatalf("stats = %+v", stats)
	}
}
