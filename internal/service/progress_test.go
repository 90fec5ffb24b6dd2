package service

import (
	"StreamVault/internal/dto"
	"StreamVault/internal/repo"
	"StreamVault/model"
	"context"
	"math"
	"testing"
)

func TestUpdateProgress(t *testing.T) {
	setupDB(t)

	video := seedVideo(t, &model.Video{Status: model.StatusCompleted, Duration: 100})
	resp, err := UpdateProgress(context.Background(), video.ID, &dto.ProgressUpdateRequest{
		SessionID:   "sess-1",
		CurrentTime: 25,
	})
	if err != nil {
		t.Fatal("update:", err)
	}
	if resp.CompletionPercentage != 25 {
		t.Fatalf("completion = %v, want 25", resp.CompletionPercentage)
	}
	if resp.IsCompleted {
		t.Fatal("a quarter watched must not be completed")
	}
	if resp.ResumePosition != 25 {
		t.Fatalf("resume position = %v, want 25", resp.ResumePosition)
	}
}

func TestUpdateProgressCompletionIsIrreversible(t *testing.T) {
	setupDB(t)

	video := seedVideo(t, &model.Video{Status: model.StatusCompleted, Duration: 100})
	req := func(at float64) *dto.ProgressUpdateRequest {
		return &dto.ProgressUpdateRequest{SessionID: "sess-1", CurrentTime: at}
	}

	resp, err := UpdateProgress(context.Background(), video.ID, req(96))
	if err != nil {
		t.Fatal("update:", err)
	}
	if !resp.IsCompleted {
		t.Fatal("watching past the threshold must complete the session")
	}

	resp, err = UpdateProgress(context.Background(), video.ID, req(10))
	if err != nil {
		t.Fatal("rewind:", err)
	}
	if !resp.IsCompleted {
		t.Fatal("rewinding must not clear completion")
	}
	if resp.CurrentTime != 10 {
		t.Fatalf("current time = %v, want 10", resp.CurrentTime)
	}
}

func TestUpdateProgressAccumulatesForwardWatchTime(t *testing.T) {
	setupDB(t)

	video := seedVideo(t, &model.Video{Status: model.StatusCompleted, Duration: 100})
	steps := []float64{10, 30, 5, 20}
	for _, at := range steps {
		_, err := UpdateProgress(context.Background(), video.ID, &dto.ProgressUpdateRequest{
			SessionID:   "sess-1",
			CurrentTime: at,
		})
		if err != nil {
			t.Fatal("update:", err)
		}
	}

	var session model.ViewSession
	if err := repo.Db.First(&session, "video_id = ? AND session_id = ?", video.ID, "sess-1").Error; err != nil {
		t.Fatal("load session:", err)
	}
	// 0→10, 10→30 and 5→20 move forward; 30→5 does not.
	if math.Abs(session.WatchDuration-45) > 1e-9 {
		t.Fatalf("watch duration = %v, want 45", session.WatchDuration)
	}
}

func TestUpdateProgressClampsPastDuration(t *testing.T) {
	setupDB(t)

	video := seedVideo(t, &model.Video{Status: model.StatusCompleted, Duration: 60})
	resp, err := UpdateProgress(context.Background(), video.ID, &dto.ProgressUpdateRequest{
		SessionID:   "sess-1",
		CurrentTime: 500,
	})
	if err != nil {
		t.Fatal("update:", err)
	}
	if resp.CurrentTime != 60 {
		t.Fatalf("current time = %v, want 60", resp.CurrentTime)
	}
	if resp.CompletionPercentage != 100 {
		t.Fatalf("completion = %v, want 100", resp.CompletionPercentage)
	}
}

func TestRecordViewCountsOncePerSession(t *testing.T) {
	setupDB(t)

	video := seedVideo(t, &model.Video{Status: model.StatusCompleted})
	for i := 0; i < 3; i++ {
		err := RecordView(context.Background(), video.ID, "sess-1", "", "127.0.0.1", "test-agent")
		if err != nil {
			t.Fatal("record view:", err)
		}
	}
	after := reloadVideo(t, video.ID)
	if after.ViewCount != 1 {
		t.Fatalf("view count = %d, want 1", after.ViewCount)
	}

	if err := RecordView(context.Background(), video.ID, "sess-2", "", "127.0.0.1", "test-agent"); err != nil {
		t.Fatal("record view:", err)
	}
	after = reloadVideo(t, video.ID)
	if after.ViewCount != 2 {
		t.Fatalf("view count = %d, want 2", after.ViewCount)
	}
}

func TestGetProgressUnknownSession(t *testing.T) {
	setupDB(t)

	video := seedVideo(t, &model.Video{Status: model.StatusCompleted})
	resp, err := GetProgress(context.Background(), video.ID, "never-seen")
	if err != nil {
		t.Fatal("get progress:", err)
	}
	if resp != nil {
		t.Fatalf("resp = %+v, want nil", resp)
	}
}

func TestGetProgressRoundTrip(t *testing.T) {
	setupDB(t)

	video := seedVideo(t, &model.Video{Status: model.StatusCompleted, Duration: 200})
	_, err := UpdateProgress(context.Background(), video.ID, &dto.ProgressUpdateRequest{
		SessionID:   "sess-1",
		CurrentTime: 50,
	})
	if err != nil {
		t.Fatal("update:", err)
	}

	resp, err := GetProgress(context.Background(), video.ID, "sess-1")
	if err != nil {
		t.Fatal("get progress:", err)
	}
	if resp == nil {
		t.Fatal("progress missing")
	}
	if resp.CurrentTime != 50 || resp.ResumePosition != 50 {
		t.Fatalf("resume = %+v, want current time 50", resp)
	}
	if resp.CompletionPercentage != 25 {
		t.Fatalf("completion = %v, want 25", resp.CompletionPercentage)
	}
}
