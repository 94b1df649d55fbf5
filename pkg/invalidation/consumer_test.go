package invalidation_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/illmade-knight/go-storefront-cache/pkg/invalidation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// flakyStore counts Clear calls and fails the first failBefore of them.
type flakyStore struct {
	failBefore int32
	clearCalls atomic.Int32
}

func (s *flakyStore) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (s *flakyStore) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (s *flakyStore) Clear(_ context.Context) error {
	if s.clearCalls.Add(1) <= s.failBefore {
		return errors.New("store unavailable")
	}
	return nil
}

func (s *flakyStore) Close() error { return nil }

// setupConsumerTest creates a full in-memory Pub/Sub environment for consumer
// testing.
func setupConsumerTest(t *testing.T, projectID, topicID, subID string) (*pubsub.Client, *pubsub.Topic, *pstest.Server) {
	t.Helper()
	ctx := context.Background()
	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client, err := pubsub.NewClient(ctx, projectID, option.WithGRPCConn(conn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	topic, err := client.CreateTopic(ctx, topicID)
	require.NoError(t, err)
	_, err = client.CreateSubscription(ctx, subID, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 10 * time.Second,
	})
	require.NoError(t, err)

	return client, topic, srv
}

func publishEvent(t *testing.T, ctx context.Context, topic *pubsub.Topic, payload []byte) {
	t.Helper()
	res := topic.Publish(ctx, &pubsub.Message{Data: payload})
	_, err := res.Get(ctx)
	require.NoError(t, err)
}

func TestConsumer_ClearFailureIsRedelivered(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client, topic, _ := setupConsumerTest(t, "test-project", "catalog-events", "cache-invalidation")
	defer topic.Stop()

	// The first clear fails; the Nack must bring the event back until the
	// store recovers.
	store := &flakyStore{failBefore: 1}
	handler := invalidation.NewHandler(store, zerolog.Nop())

	consumer, err := invalidation.NewConsumer(invalidation.LoadDefaultConsumerConfig("cache-invalidation"), client, handler, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, consumer.Start(ctx))
	t.Cleanup(func() { _ = consumer.Stop() })

	// Act
	payload, err := invalidation.NewCatalogEvent(invalidation.EventProductUpdated, "42").Marshal()
	require.NoError(t, err)
	publishEvent(t, ctx, topic, payload)

	// Assert: redelivery means the clear is attempted again and succeeds.
	require.Eventually(t, func() bool {
		return store.clearCalls.Load() >= 2
	}, 5*time.Second, 20*time.Millisecond, "a nacked event should be redelivered until the clear succeeds")
}

func TestConsumer_UndecodableEventIsDroppedOnce(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client, topic, srv := setupConsumerTest(t, "test-project", "catalog-events-bad", "cache-invalidation-bad")
	defer topic.Stop()

	store := &flakyStore{}
	handler := invalidation.NewHandler(store, zerolog.Nop())

	consumer, err := invalidation.NewConsumer(invalidation.LoadDefaultConsumerConfig("cache-invalidation-bad"), client, handler, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, consumer.Start(ctx))
	t.Cleanup(func() { _ = consumer.Stop() })

	// Act
	publishEvent(t, ctx, topic, []byte("not json"))

	// Assert: the event is acked so it is never redelivered, and the cache is
	// left alone.
	require.Eventually(t, func() bool {
		msgs := srv.Messages()
		return len(msgs) == 1 && msgs[0].Acks >= 1
	}, 5*time.Second, 20*time.Millisecond, "an undecodable event should be acked away")

	assert.Equal(t, 1, srv.Messages()[0].Deliveries, "an undecodable event should only ever be delivered once")
	assert.Equal(t, int32(0), store.clearCalls.Load(), "an undecodable event must not clear the cache")
}

func TestNewConsumer_MissingSubscription(t *testing.T) {
	client, _, _ := setupConsumerTest(t, "test-project", "catalog-events-missing", "cache-invalidation-exists")

	handler := invalidation.NewHandler(&flakyStore{}, zerolog.Nop())
	_, err := invalidation.NewConsumer(invalidation.LoadDefaultConsumerConfig("no-such-subscription"), client, handler, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("subscription %s does not exist", "no-such-subscription"))
}
