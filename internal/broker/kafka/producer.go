package kafka

import (
	"context"
	"errors"

	"vibe-capture/internal/config"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type ProducerClient struct {
	tasks   *wbkafka.Producer
	results *wbkafka.Producer
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		tasks:   wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.RendersTopic),
		results: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ResultsTopic),
	}
}

func (p *ProducerClient) SendTask(ctx context.Context, strategy retry.Strategy, key, value []byte) error {
	return p.tasks.SendWithRetry(ctx, strategy, key, value)
}

func (p *ProducerClient) SendResult(ctx context.Context, strategy retry.Strategy, key, value []byte) error {
	return p.results.SendWithRetry(ctx, strategy, key, value)
}

func (p *ProducerClient) Close() error {
	var errs []error
	if err := p.tasks.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.results.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
