package nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"plant-sync/internal/core/plants"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	srv, err := server.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()
	t.Cleanup(srv.Shutdown)

	if !srv.ReadyForConnections(10 * time.Second) {
		t.Fatalf("embedded NATS server not ready for connections")
	}

	require.Eventually(t, func() bool {
		return srv.JetStreamEnabled()
	}, 5*time.Second, 50*time.Millisecond, "embedded NATS server not ready for JetStream")

	return srv
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := runJetStreamServer(t)
	c, err := New(srv.ClientURL(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestPublisher_WritesToStream(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.EnsureStream("plants.events", "PLANT_EVENTS"))
	require.NoError(t, c.EnsureStream("plants.events", "PLANT_EVENTS"), "second call is a no-op")

	pub := c.Publisher("plants.events")
	sum := plants.ChangeSummary{Added: 1}
	ev := plants.Event{ID: "ev-1", Type: plants.EventPlantReconciled, Plant: "PLANT-1", Summary: &sum, At: time.Now().UTC()}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pub.Publish(ctx, ev))
	require.NoError(t, pub.Publish(ctx, ev), "duplicate ids are accepted and deduplicated")

	info, err := c.js.StreamInfo("PLANT_EVENTS")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.State.Msgs)

	msg, err := c.js.GetLastMsg("PLANT_EVENTS", "plants.events.plant.reconciled")
	require.NoError(t, err)
	var got plants.Event
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, "PLANT-1", got.Plant)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 1, got.Summary.Added)
}

func TestPublisher_NoStreamFails(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := c.Publisher("nowhere").Publish(ctx, plants.Event{Type: plants.EventPlantCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), plants.EventPlantCreated)
}

func TestTokenStore(t *testing.T) {
	c := newTestClient(t)
	kv, err := c.EnsureBucket("oss_tokens", time.Hour)
	require.NoError(t, err)
	_, err = c.EnsureBucket("oss_tokens", time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	s := NewTokenStore(kv)

	token, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.Put(ctx, "tok-1"))
	token, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, s.Delete(ctx))
	token, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}
