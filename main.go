package main

import (
	"StreamVault/config"
	"StreamVault/internal/repo"
	"StreamVault/internal/service"
	"StreamVault/internal/storage"
	"StreamVault/internal/task"
	"StreamVault/router"
	"log"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	task.InitBroker()
	service.InitUserStore()

	r := router.SetupRouter()
	if err := r.Run(":8000"); err != nil {
		log.Fatal("server stopped:", err)
	}
}
