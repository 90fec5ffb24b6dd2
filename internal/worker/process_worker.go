package worker

import (
	"StreamVault/config"
	"StreamVault/internal/mq"
	"StreamVault/internal/repo"
	"StreamVault/internal/service"
	"StreamVault/internal/task"
	"StreamVault/model"
	"StreamVault/utils"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

// RunProcessWorker consumes processing jobs until ctx is cancelled.
// Concurrency is bounded by a semaphore and job starts are paced by a
// rate limiter so a burst of uploads cannot saturate ffmpeg.
func RunProcessWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}
	if err := client.Channel.Qos(config.AppConfig.RabbitMQPrefetch, 0, false); err != nil {
		return err
	}
	deliveries, err := client.Channel.Consume(mq.QueueTasks, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Limit(config.AppConfig.ProcessRate), config.AppConfig.ProcessBurst)
	sem := make(chan struct{}, config.AppConfig.ProcessWorkerConcurrency)

	log.Println("process worker started, queue:", mq.QueueTasks)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := limiter.Wait(ctx); err != nil {
				_ = delivery.Nack(false, true)
				return err
			}
			sem <- struct{}{}
			go func(delivery amqp.Delivery) {
				defer func() { <-sem }()
				handleDelivery(ctx, delivery)
			}(delivery)
		}
	}
}

func handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	var msg task.ProcessMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Println("dropping malformed job:", err)
		_ = delivery.Ack(false)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, config.AppConfig.ProcessTimeout)
	defer cancel()
	softTimer := time.AfterFunc(config.AppConfig.ProcessSoftTimeout, func() {
		log.Println("processing of", msg.VideoID, "is approaching its time limit")
	})
	defer softTimer.Stop()

	var err error
	if msg.ThumbnailOnly {
		err = service.GenerateThumbnail(jobCtx, msg.VideoID)
	} else {
		err = service.ProcessVideo(jobCtx, msg.VideoID)
	}
	if err == nil {
		_ = delivery.Ack(false)
		return
	}

	log.Printf("job for video %s (attempt %d) failed: %v", msg.VideoID, msg.Attempt, err)
	if !shouldRetry(err) {
		_ = delivery.Ack(false)
		return
	}
	if msg.Attempt+1 >= config.AppConfig.ProcessRetryMax {
		deadLetter(msg, err)
		_ = delivery.Ack(false)
		return
	}
	scheduleRetry(msg)
	_ = delivery.Ack(false)
}

// shouldRetry decides whether a failure is worth another attempt.
// Missing videos and invalid input never heal on retry.
func shouldRetry(err error) bool {
	var notFound *service.NotFoundError
	var validation *service.ValidationError
	if errors.As(err, &notFound) || errors.As(err, &validation) {
		return false
	}
	return true
}

func scheduleRetry(msg task.ProcessMessage) {
	next := task.ProcessMessage{
		VideoID:       msg.VideoID,
		Attempt:       msg.Attempt + 1,
		ThumbnailOnly: msg.ThumbnailOnly,
	}
	body, err := json.Marshal(next)
	if err != nil {
		log.Println("marshal retry job:", err)
		return
	}
	delay := pickRetryDelay(next.Attempt)
	if err := task.Queue.PublishRetry(context.Background(), body, delay); err != nil {
		log.Println("schedule retry:", err)
	}
}

func pickRetryDelay(attempt int) time.Duration {
	delays := config.AppConfig.ProcessRetryDelays
	if len(delays) == 0 {
		return 30 * time.Second
	}
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(delays) {
		attempt = len(delays)
	}
	return delays[attempt-1]
}

// deadLetter parks an exhausted job and notifies the admin by mail.
func deadLetter(msg task.ProcessMessage, cause error) {
	body, err := json.Marshal(msg)
	if err == nil {
		if err := task.Queue.PublishDLQ(context.Background(), body); err != nil {
			log.Println("publish to DLQ:", err)
		}
	}

	var video model.Video
	title := msg.VideoID
	if err := repo.Db.First(&video, "id = ?", msg.VideoID).Error; err == nil {
		title = video.Title
	}
	err = utils.SendProcessingFailedMail(
		config.AppConfig.AdminEmail,
		msg.VideoID,
		title,
		cause.Error(),
	)
	if err != nil {
		log.Println("send failure mail:", err)
	}
}
