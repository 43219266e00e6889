package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"vibe-capture/internal/broker"
	kafka_impl "vibe-capture/internal/broker/kafka"
	"vibe-capture/internal/config"
	"vibe-capture/internal/domain"
	"vibe-capture/internal/filter"
	"vibe-capture/internal/overlay"
	minio_repo "vibe-capture/internal/repository/artifact/cloud/minio"
	postgres_repo "vibe-capture/internal/repository/artifact/db/postgres"
	render_uc "vibe-capture/internal/usecase/render"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

// Worker consumes render tasks and produces finished artifacts. Failed
// renders stay uncommitted so another consumer can pick them up.
type Worker struct {
	cfg         *config.Config
	logger      *zlog.Zerolog
	db          *dbpg.DB
	consumer    broker.Consumer
	usecase     *render_uc.RenderUsecase
	concurrency int
	wg          sync.WaitGroup
}

func NewWorker(cfg *config.Config, logger *zlog.Zerolog) (*Worker, error) {
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

	consumer := kafka_impl.NewConsumerClient(cfg)
	producer := kafka_impl.NewProducerClient(cfg)
	publisher := kafka_impl.NewPublisher(producer, retries)

	registry := filter.NewRegistry()
	renderer := overlay.NewRenderer(overlay.NewImageCache(), logger)
	usecase := render_uc.NewRenderUsecase(artifactRepo, fileRepo, publisher, renderer, registry, logger)

	concurrency := cfg.Worker.Concurrency
	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.RendersTopic).
		Str("group", cfg.Kafka.GroupID).
		Int("concurrency", concurrency).
		Msg("Worker configuration")

	return &Worker{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		consumer:    consumer,
		usecase:     usecase,
		concurrency: concurrency,
	}, nil
}

func (w *Worker) Run() error {
	w.logger.Info().Int("concurrency", w.concurrency).Msg("Starting worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		w.logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal, stopping worker...")
		cancel()
	}()

	messages := make(chan *broker.Message, w.concurrency*2)
	w.consumer.Start(ctx, messages, w.cfg.DefaultRetryStrategy())

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			w.processWorker(ctx, id, messages)
		}(i)
	}

	w.logger.Info().Msg("Worker started successfully")
	<-ctx.Done()

	w.logger.Info().Msg("Shutting down worker gracefully...")
	close(messages)
	w.wg.Wait()

	if w.db != nil && w.db.Master != nil {
		w.db.Master.Close()
	}
	if w.consumer != nil {
		w.consumer.Close()
	}
	w.logger.Info().Msg("Worker stopped gracefully")
	return nil
}

func (w *Worker) processWorker(ctx context.Context, id int, messages <-chan *broker.Message) {
	w.logger.Info().Int("worker_id", id).Msg("Worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Int("worker_id", id).Msg("Worker stopping")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			startTime := time.Now()
			if err := w.safeProcessMessage(ctx, id, msg); err != nil {
				w.logger.Error().
					Err(err).
					Int("worker_id", id).
					Int64("offset", msg.Offset).
					Msg("Failed to process message")
				continue
			}
			if err := w.consumer.Commit(ctx, msg.Key, msg.Offset); err != nil {
				w.logger.Error().
					Err(err).
					Int64("offset", msg.Offset).
					Int("worker_id", id).
					Msg("Failed to commit message after successful processing")
				continue
			}
			w.logger.Debug().
				Int("worker_id", id).
				Int64("offset", msg.Offset).
				Dur("duration", time.Since(startTime)).
				Msg("Message processed and committed")
		}
	}
}

func (w *Worker) safeProcessMessage(ctx context.Context, workerID int, msg *broker.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().
				Int("worker_id", workerID).
				Interface("panic", r).
				Int64("offset", msg.Offset).
				Msg("Panic recovered while processing message")
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processMessage(ctx, msg)
}

func (w *Worker) processMessage(ctx context.Context, msg *broker.Message) error {
	var task domain.RenderTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		w.logger.Error().Err(err).Str("message", string(msg.Value)).Int64("offset", msg.Offset).Msg("Failed to unmarshal task")
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	w.logger.Info().
		Str("task_id", task.ID).
		Str("venue", task.VenueName).
		Str("vibe", string(task.Vibe)).
		Str("filter", task.FilterID).
		Int64("offset", msg.Offset).
		Msg("Render task started")

	result, err := w.usecase.Process(ctx, &task)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	w.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(result.Status)).
		Msg("Render task finished")
	return nil
}
