package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	kafka_impl "vibe-capture/internal/broker/kafka"
	"vibe-capture/internal/camera"
	"vibe-capture/internal/capture"
	"vibe-capture/internal/config"
	"vibe-capture/internal/filter"
	capture_h "vibe-capture/internal/http-server/handler/capture"
	render_h "vibe-capture/internal/http-server/handler/render"
	"vibe-capture/internal/http-server/preview"
	"vibe-capture/internal/http-server/router"
	"vibe-capture/internal/overlay"
	minio_repo "vibe-capture/internal/repository/artifact/cloud/minio"
	postgres_repo "vibe-capture/internal/repository/artifact/db/postgres"
	"vibe-capture/internal/share"
	render_uc "vibe-capture/internal/usecase/render"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg        *config.Config
	server     *http.Server
	logger     *zlog.Zerolog
	db         *dbpg.DB
	producer   *kafka_impl.ProducerClient
	controller *capture.Controller
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}

	db, err := dbpg.New(cfg.DBDSN(), []string{}, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	fileRepo, err := minio_repo.NewMinIORepository(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file repository: %w", err)
	}

	artifactRepo := postgres_repo.NewArtifactsRepository(db, retries)

	producer := kafka_impl.NewProducerClient(cfg)
	publisher := kafka_impl.NewPublisher(producer, retries)

	registry := filter.NewRegistry()
	renderer := overlay.NewRenderer(overlay.NewImageCache(), logger)

	renderUsecase := render_uc.NewRenderUsecase(artifactRepo, fileRepo, publisher, renderer, registry, logger)
	renderHandler := render_h.NewRenderHandler(renderUsecase, logger)

	session := camera.NewSession(func() camera.Device {
		return camera.NewFFmpegDevice()
	}, logger)

	constraints := camera.Constraints{
		DeviceID:     cfg.Camera.DeviceID,
		Width:        cfg.Camera.Width,
		Height:       cfg.Camera.Height,
		FPS:          cfg.Camera.FPS,
		IncludeAudio: cfg.Camera.RecordingSupported,
	}

	photo := capture.NewPhotoPipeline(session, renderer, logger)
	newVideo := func() *capture.VideoPipeline {
		p := capture.NewVideoPipeline(session, renderer, capture.NewMJPEGRecorder(cfg.Capture.JPEGQuality), logger)
		p.SetLimits(cfg.Capture.OutputFPS, cfg.Capture.RecordLimit)
		return p
	}
	controller := capture.NewController(session, registry, photo, newVideo, constraints, logger)

	sharer := share.NewAdapter(nil, nil, cfg.Share.SaveDir, logger)
	captureHandler := capture_h.NewCaptureHandler(controller, registry, sharer, logger)

	hub := preview.NewHub(session, controller, registry, logger)

	h := &router.Handler{
		RenderHandler:  renderHandler,
		CaptureHandler: captureHandler,
		PreviewHub:     hub,
	}

	mux := router.SetupRouter(h)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		server:     server,
		logger:     logger,
		db:         db,
		producer:   producer,
		controller: controller,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		a.controller.Close()

		if a.db != nil && a.db.Master != nil {
			a.db.Master.Close()
		}

		if a.producer != nil {
			a.producer.Close()
		}

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
