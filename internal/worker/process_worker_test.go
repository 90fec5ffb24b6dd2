package worker

import (
	"StreamVault/config"
	"StreamVault/internal/service"
	"errors"
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	config.InitConfig()
	os.Exit(m.Run())
}

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"missing video", &service.NotFoundError{Msg: "video not found"}, false},
		{"invalid input", &service.ValidationError{Msg: "bad payload"}, false},
		{"storage outage", &service.StorageError{Op: "get", Transient: true, Err: errors.New("dial tcp")}, true},
		{"probe failure", &service.ProcessingError{Msg: "probe failed"}, true},
		{"timeout", &service.TimeoutError{Msg: "too slow"}, true},
		{"plain error", errors.New("something else"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldRetry(tc.err); got != tc.want {
				t.Fatalf("shouldRetry = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPickRetryDelay(t *testing.T) {
	delays := config.AppConfig.ProcessRetryDelays
	if len(delays) == 0 {
		t.Fatal("no retry delays configured")
	}
	if got := pickRetryDelay(0); got != delays[0] {
		t.Fatalf("delay for attempt 0 = %v, want %v", got, delays[0])
	}
	if got := pickRetryDelay(1); got != delays[0] {
		t.Fatalf("delay for attempt 1 = %v, want %v", got, delays[0])
	}
	if got := pickRetryDelay(2); got != delays[1] {
		t.Fatalf("delay for attempt 2 = %v, want %v", got, delays[1])
	}
	if got := pickRetryDelay(100); got != delays[len(delays)-1] {
		t.Fatalf("delay for huge attempt = %v, want %v", got, delays[len(delays)-1])
	}
	saved := config.AppConfig.ProcessRetryDelays
	config.AppConfig.ProcessRetryDelays = nil
	defer func() { config.AppConfig.ProcessRetryDelays = saved }()
	if got := pickRetryDelay(1); got != 30*time.Second {
		t.Fatalf("fallback delay = %v, want 30s", got)
	}
}
