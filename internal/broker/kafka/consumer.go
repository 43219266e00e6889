package kafka

import (
	"context"

	"vibe-capture/internal/broker"
	"vibe-capture/internal/config"

	kafka "github.com/segmentio/kafka-go"
	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type ConsumerClient struct {
	consumer *wbkafka.Consumer
}

func NewConsumerClient(cfg *config.Config) *ConsumerClient {
	return &ConsumerClient{
		consumer: wbkafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.RendersTopic, cfg.Kafka.GroupID),
	}
}

func (c *ConsumerClient) Start(ctx context.Context, out chan<- *broker.Message, strategy retry.Strategy) {
	raw := make(chan kafka.Message)
	go c.consumer.StartConsuming(ctx, raw, strategy)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-raw:
				if !ok {
					return
				}
				out <- &broker.Message{Key: msg.Key, Value: msg.Value, Offset: msg.Offset}
			}
		}
	}()
}

func (c *ConsumerClient) Commit(ctx context.Context, key []byte, offset int64) error {
	return c.consumer.Commit(ctx, kafka.Message{Key: key, Offset: offset})
}

func (c *ConsumerClient) Close() error {
	return c.consumer.Close()
}
