package utils

import (
	"StreamVault/internal/repo"
	"StreamVault/model"
	"context"
	"encoding/json"
	"time"
)

const videoCachePrefix = "video:id:"

// GetVideoFromCache reads a cached video record. A missing Redis client
// behaves as a cache miss so tests and the worker can run without it.
func GetVideoFromCache(ctx context.Context, id string) (*model.Video, bool) {
	if repo.Redis == nil {
		return nil, false
	}
	val, err := repo.Redis.Get(ctx, videoCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}
	var video model.Video
	if err := json.Unmarshal([]byte(val), &video); err != nil {
		return nil, false
	}
	return &video, true
}

// SetVideoToCache caches a video record with a TTL.
func SetVideoToCache(ctx context.Context, video *model.Video, ttl time.Duration) error {
	if repo.Redis == nil || video == nil {
		return nil
	}
	data, err := json.Marshal(video)
	if err != nil {
		return err
	}
	return repo.Redis.Set(ctx, videoCachePrefix+video.ID, string(data), ttl).Err()
}

// InvalidateVideoCache removes a cached video record. Called on every
// status mutation so no component acts on a stale lifecycle state.
func InvalidateVideoCache(ctx context.Context, id string) error {
	if repo.Redis == nil {
		return nil
	}
	return repo.Redis.Del(ctx, videoCachePrefix+id).Err()
}
