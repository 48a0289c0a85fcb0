package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messagely/internal/api"
	"messagely/internal/app/service"
	"messagely/internal/app/worker"
	"messagely/internal/common/security"
	"messagely/internal/domain/repository"
	"messagely/internal/platform/config"
	"messagely/internal/platform/database"
	"messagely/internal/platform/logging"
	"messagely/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	log := logging.New("messagely", config.AppConfig.AppEnv)

	// 2. Initialize JWT and password hashing
	security.InitJWT()
	security.InitHasher(config.AppConfig.BcryptCost)

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate()
	log.Info("database connected and migrated")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	log.Info("redis connected")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	messageRepo := repository.NewPgMessageRepository(database.DB)

	// 6. Initialize Services
	notifier := queue.NewMessageQueue(queue.RDB, config.AppConfig.NotifyQueueName)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	messageService := service.NewMessageService(messageRepo, notifier, log)

	// 7. Initialize Notification Worker (as a goroutine)
	notifyWorker := worker.NewNotifyWorker(queue.RDB, userRepo, log)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notifyWorker.Start(workerCtx)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, messageService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("port", config.AppConfig.APIPort).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("could not start server")
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("shutting down server")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server shutdown failed")
	}

	log.Info("server and worker stopped gracefully")
}
