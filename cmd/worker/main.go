package main

import (
	"StreamVault/config"
	"StreamVault/internal/inspector"
	"StreamVault/internal/repo"
	"StreamVault/internal/storage"
	"StreamVault/internal/task"
	"StreamVault/internal/worker"
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	task.InitBroker()
	inspector.InitFFmpeg()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := worker.RunProcessWorker(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("worker stopped:", err)
	}
	log.Println("worker shut down")
}
