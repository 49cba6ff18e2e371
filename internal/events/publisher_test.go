package events_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/keymint/keymint/internal/events"
	"github.com/keymint/keymint/pkg/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(t *testing.T) (*events.RedisPublisher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub, err := events.NewRedisPublisher("redis://"+mr.Addr(), 5*time.Second, logger)
	require.NoError(t, err)
	t.Cleanup(func() { pub.Close() })

	return pub, mr
}

func TestNewRedisPublisher_BadURL(t *testing.T) {
	_, err := events.NewRedisPublisher("not-a-url", time.Second, nil)
	require.Error(t, err)
}

func TestRedisPublisher_Ping(t *testing.T) {
	pub, _ := newTestPublisher(t)
	require.NoError(t, pub.Ping(context.Background()))
}

func TestRedisPublisher_EmitDeliversPayload(t *testing.T) {
	pub, mr := newTestPublisher(t)
	ctx := context.Background()

	sub := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { sub.Close() })

	ps := sub.Subscribe(ctx, events.KeyCreated)
	t.Cleanup(func() { ps.Close() })

	// Wait for the subscription to be established before emitting.
	_, err := ps.Receive(ctx)
	require.NoError(t, err)

	want := &models.AccessKey{
		ID:        uuid.New(),
		Key:       uuid.NewString(),
		RateLimit: 100,
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	pub.Emit(events.KeyCreated, want)

	select {
	case msg := <-ps.Channel():
		assert.Equal(t, events.KeyCreated, msg.Channel)

		var got models.AccessKey
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Key, got.Key)
		assert.Equal(t, want.RateLimit, got.RateLimit)
		assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestRedisPublisher_EmitDoesNotBlockWhenRedisDown(t *testing.T) {
	pub, mr := newTestPublisher(t)
	mr.Close()

	done := make(chan struct{})
	go func() {
		pub.Emit(events.KeyDeleted, &models.AccessKey{ID: uuid.New()})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked the caller")
	}
}
