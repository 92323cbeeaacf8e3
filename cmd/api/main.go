package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"fitfusion-users/internal/config"
	"fitfusion-users/internal/db"
	apihttp "fitfusion-users/internal/http"
	"fitfusion-users/internal/repository"
	"fitfusion-users/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	client, err := db.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	database := client.Database(cfg.MongoDB)

	if err := repository.EnsureUserIndexes(ctx, database); err != nil {
		logger.Fatal("ensure user indexes", zap.Error(err))
	}

	userRepo := repository.NewMongoUserRepository(database)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, 24*time.Hour)
	userSvc := service.NewUserService(logger, userRepo)
	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	router := apihttp.NewRouter(logger, userHandler, jwtSvc, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
