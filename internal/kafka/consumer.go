package kafka

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/sescandon/nevexp/internal/agent"
	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
)

// Consumer feeds push-delivery events from the broker into the agent. The
// message value is the opaque push body; no validation happens here, the
// decoder owns malformed input.
type Consumer struct {
	reader *kafka.Reader
	agent  *agent.Agent
	logger *logging.Logger
}

func NewConsumer(cfg config.Config, a *agent.Agent, logger *logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Kafka.Broker},
		Topic:    cfg.Kafka.Topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, agent: a, logger: logger}
}

func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started on topic %s", c.reader.Config().Topic)
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					c.logger.Infof("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}
			c.agent.Dispatch(models.Event{
				Kind:    models.EventPush,
				Payload: msg.Value,
			})
		}
	}()
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Close Kafka reader failed: %v", err)
	}
}
