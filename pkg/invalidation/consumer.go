package invalidation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// ConsumerConfig holds configuration for the Pub/Sub invalidation consumer.
type ConsumerConfig struct {
	SubscriptionID         string
	MaxOutstandingMessages int
	NumGoroutines          int
}

// LoadDefaultConsumerConfig returns a config with sensible defaults for the
// given subscription. Invalidation traffic is tiny; one goroutine is plenty.
func LoadDefaultConsumerConfig(subID string) *ConsumerConfig {
	return &ConsumerConfig{
		SubscriptionID:         subID,
		MaxOutstandingMessages: 10,
		NumGoroutines:          1,
	}
}

// Consumer subscribes to catalog-changed events and applies them to the
// shared fetch cache through a Handler.
type Consumer struct {
	subscription *pubsub.Subscription
	handler      *Handler
	logger       zerolog.Logger

	stopOnce           sync.Once
	cancelSubscription context.CancelFunc
	wg                 sync.WaitGroup
	doneChan           chan struct{}
}

// NewConsumer creates a Consumer. It verifies the subscription exists before
// returning.
func NewConsumer(cfg *ConsumerConfig, client *pubsub.Client, handler *Handler, logger zerolog.Logger) (*Consumer, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	sub := client.Subscription(cfg.SubscriptionID)

	existsCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	exists, err := sub.Exists(existsCtx)
	if !exists || err != nil {
		return nil, fmt.Errorf("subscription %s does not exist: %w", cfg.SubscriptionID, err)
	}

	sub.ReceiveSettings.MaxOutstandingMessages = cfg.MaxOutstandingMessages
	sub.ReceiveSettings.NumGoroutines = cfg.NumGoroutines

	return &Consumer{
		subscription: sub,
		handler:      handler,
		logger:       logger.With().Str("component", "InvalidationConsumer").Str("subscription_id", cfg.SubscriptionID).Logger(),
		doneChan:     make(chan struct{}),
	}, nil
}

// Start begins consuming catalog events in a background goroutine.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().Msg("Starting catalog event consumption...")
	receiveCtx, cancel := context.WithCancel(ctx)
	c.cancelSubscription = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.doneChan)
		defer c.logger.Info().Msg("Catalog event receive goroutine stopped.")

		err := c.subscription.Receive(receiveCtx, func(msgCtx context.Context, msg *pubsub.Message) {
			if err := c.handler.Handle(msgCtx, msg.Data); err != nil {
				// An undecodable event would redeliver forever; drop it. A
				// failed clear is retryable, so Nack those.
				if !errors.Is(err, ErrUndecodableEvent) {
					msg.Nack()
					return
				}
				c.logger.Warn().Err(err).Str("msg_id", msg.ID).Msg("Dropping undecodable catalog event.")
			}
			msg.Ack()
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error().Err(err).Msg("Receive call exited with error")
		}
	}()
	return nil
}

// Stop halts consumption and waits for the receive goroutine to exit.
func (c *Consumer) Stop() error {
	c.stopOnce.Do(func() {
		c.logger.Info().Msg("Stopping invalidation consumer...")
		if c.cancelSubscription != nil {
			c.cancelSubscription()
		}
		select {
		case <-c.doneChan:
			c.logger.Info().Msg("Receive goroutine confirmed stopped.")
		case <-time.After(30 * time.Second):
			c.logger.Warn().Msg("Timed out waiting for receive goroutine to stop.")
		}
	})
	return nil
}
