package service

import (
	"StreamVault/config"
	"StreamVault/model"
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	const total = 1000
	cases := []struct {
		name   string
		header string
		start  int64
		end    int64
		ok     bool
	}{
		{"absent", "", 0, 0, false},
		{"full interval", "bytes=100-199", 100, 199, true},
		{"open end", "bytes=900-", 900, 999, true},
		{"open start", "bytes=-199", 0, 199, true},
		{"end clamped", "bytes=950-2000", 950, 999, true},
		{"whole file", "bytes=0-", 0, 999, true},
		{"start past end of file", "bytes=1000-", 0, 0, false},
		{"start after end", "bytes=200-100", 0, 0, false},
		{"not bytes unit", "chunks=0-100", 0, 0, false},
		{"garbage", "bytes=abc-def", 0, 0, false},
		{"multiple ranges", "bytes=0-1,5-6", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, ok := ParseRange(tc.header, total)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if start != tc.start || end != tc.end {
				t.Fatalf("range = %d-%d, want %d-%d", start, end, tc.start, tc.end)
			}
		})
	}
}

func TestStreamContent(t *testing.T) {
	setupDB(t)
	store := setupStore(t)

	payload := bytes.Repeat([]byte("v"), 1000)
	video := seedVideo(t, &model.Video{Status: model.StatusCompleted, FileSize: 1000})
	store.objects[store.key(config.AppConfig.BucketName, video.FilePath)] = payload

	data, contentType, err := StreamContent(context.Background(), video.ID)
	if err != nil {
		t.Fatal("stream:", err)
	}
	if len(data) != 1000 {
		t.Fatalf("got %d bytes, want 1000", len(data))
	}
	if contentType != "video/mp4" {
		t.Fatalf("content type = %q", contentType)
	}
}

func TestStreamContentNotReady(t *testing.T) {
	setupDB(t)
	setupStore(t)

	video := seedVideo(t, &model.Video{Status: model.StatusProcessing})
	_, _, err := StreamContent(context.Background(), video.ID)
	var notReady *NotReadyError
	if !errors.As(err, &notReady) {
		t.Fatalf("err = %v, want NotReadyError", err)
	}
}

func TestStreamContentUnknownVideo(t *testing.T) {
	setupDB(t)
	setupStore(t)

	_, _, err := StreamContent(context.Background(), "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestGetPresignedURLRequiresCompleted(t *testing.T) {
	setupDB(t)
	setupStore(t)

	video := seedVideo(t, &model.Video{Status: model.StatusCompleted})
	url, err := GetPresignedURL(context.Background(), video.ID, 0)
	if err != nil {
		t.Fatal("presign:", err)
	}
	if url == "" {
		t.Fatal("empty presigned url")
	}

	pending := seedVideo(t, &model.Video{Status: model.StatusPending})
	_, err = GetPresignedURL(context.Background(), pending.ID, 0)
	var notReady *NotReadyError
	if !errors.As(err, &notReady) {
		t.Fatalf("err = %v, want NotReadyError", err)
	}
}
