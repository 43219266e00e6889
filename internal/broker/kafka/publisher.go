package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"vibe-capture/internal/domain"

	"github.com/wb-go/wbf/retry"
)

// Publisher adapts the byte-level producer to the domain task/result
// types the usecase speaks.
type Publisher struct {
	producer *ProducerClient
	strategy retry.Strategy
}

func NewPublisher(producer *ProducerClient, strategy retry.Strategy) *Publisher {
	return &Publisher{producer: producer, strategy: strategy}
}

func (p *Publisher) SendTask(ctx context.Context, task *domain.RenderTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal render task: %w", err)
	}
	return p.producer.SendTask(ctx, p.strategy, []byte(task.ID), data)
}

func (p *Publisher) SendResult(ctx context.Context, result *domain.RenderResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal render result: %w", err)
	}
	return p.producer.SendResult(ctx, p.strategy, []byte(result.ArtifactID), data)
}
