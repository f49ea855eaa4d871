package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"riftory-api/internal/cache"
	"riftory-api/internal/config"
	"riftory-api/internal/database"
	"riftory-api/internal/logger"
	"riftory-api/internal/media"
	"riftory-api/internal/middleware"
	"riftory-api/internal/routes"
)

func main() {
	log, err := logger.Init()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.LoadConfig()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		zap.S().Fatalw("MongoDB connection failed", "error", err)
	}
	db := client.Database(cfg.MongoDB)

	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		zap.S().Fatalw("Index creation failed", "error", err)
	}

	store, err := media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		zap.S().Fatalw("Cloudinary configuration failed", "error", err)
	}

	cache.Init(5 * time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(), middleware.BodyLimit())

	routes.RegisterRoutes(router, db, store, cfg.CloudinaryFolder)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zap.S().Infow("🚀 Riftory API Server running", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("Server failed", "error", err)
		}
	}()

	// Shutdown ordenado: primero el server HTTP, después la conexión a Mongo
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zap.S().Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorw("Server shutdown error", "error", err)
	}

	database.Disconnect(client)
}
