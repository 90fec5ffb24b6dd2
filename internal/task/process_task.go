package task

import (
	"StreamVault/internal/mq"
	"context"
	"encoding/json"
	"time"
)

// ProcessMessage is the payload delivered to the processing worker.
// ThumbnailOnly jobs regenerate the thumbnail without touching the
// video lifecycle state.
type ProcessMessage struct {
	VideoID       string `json:"video_id"`
	Attempt       int    `json:"attempt"`
	ThumbnailOnly bool   `json:"thumbnail_only"`
}

// Broker is the queue surface the service layer publishes through.
// The RabbitMQ client satisfies it; tests install an in-memory fake.
type Broker interface {
	PublishTask(ctx context.Context, body []byte) error
	PublishRetry(ctx context.Context, body []byte, delay time.Duration) error
	PublishDLQ(ctx context.Context, body []byte) error
}

// Queue is the broker used for enqueueing jobs.
var Queue Broker

type rabbitBroker struct{}

func (rabbitBroker) PublishTask(ctx context.Context, body []byte) error {
	publisher, err := mq.GetPublisher()
	if err != nil {
		return err
	}
	return publisher.PublishTask(ctx, body)
}

func (rabbitBroker) PublishRetry(ctx context.Context, body []byte, delay time.Duration) error {
	publisher, err := mq.GetPublisher()
	if err != nil {
		return err
	}
	return publisher.PublishRetry(ctx, body, delay)
}

func (rabbitBroker) PublishDLQ(ctx context.Context, body []byte) error {
	publisher, err := mq.GetPublisher()
	if err != nil {
		return err
	}
	return publisher.PublishDLQ(ctx, body)
}

// InitBroker wires the queue to RabbitMQ.
func InitBroker() {
	Queue = rabbitBroker{}
}

// EnqueueProcessing publishes a full processing job for a video.
// Delivery is at-least-once; the worker tolerates duplicates.
func EnqueueProcessing(ctx context.Context, videoID string) error {
	return enqueue(ctx, ProcessMessage{VideoID: videoID})
}

// EnqueueThumbnail publishes a thumbnail-only job for a video.
func EnqueueThumbnail(ctx context.Context, videoID string) error {
	return enqueue(ctx, ProcessMessage{VideoID: videoID, ThumbnailOnly: true})
}

func enqueue(ctx context.Context, msg ProcessMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return Queue.PublishTask(ctx, body)
}
