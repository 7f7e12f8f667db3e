package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediroom/config"
	"mediroom/controllers"
	"mediroom/rooms"
	"mediroom/routes"
	"mediroom/services/assistant"
	"mediroom/sources/psql"
	"mediroom/sources/psql/dao"
	"mediroom/sources/storage"
	"mediroom/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	sessionDAO := dao.NewSessionDAO(db.DB)
	progressDAO := dao.NewProgressDAO(db.DB)

	variants := assistant.LoadVariants(cfg.AssistantVariantsFile, cfg.AssistantDefaultID)
	gateway := assistant.NewClient(cfg, variants)

	registry := rooms.NewRegistry()
	coord := rooms.NewCoordinator(db.DB, gateway, registry, progressDAO)

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	roomCtrl := controllers.NewRoomController(coord)
	sessionCtrl := controllers.NewSessionController(sessionDAO, gateway, progressDAO)
	healthCtrl := controllers.NewHealthController()

	objectStore, err := storage.NewObjectStore(cfg)
	if err != nil {
		logging.ErrorLogger.Error("object store connection error", zap.Error(err))
		os.Exit(1)
	}
	uploadCtrl := controllers.NewUploadController(objectStore)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/rooms", routes.RoomRoutes(roomCtrl, cfg))
	r.Mount("/sessions", routes.SessionRoutes(sessionCtrl, cfg))
	r.Mount("/uploads", routes.UploadRoutes(uploadCtrl, cfg))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.HandleFunc("/ws", routes.WSHandler(coord, cfg))

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("server started", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
