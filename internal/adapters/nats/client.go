package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"plant-sync/internal/core/plants"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Alias external types so callers import only our package.
type KeyValue = natsgo.KeyValue

var ErrKeyNotFound = natsgo.ErrKeyNotFound

type Client struct {
	nc *natsgo.Conn
	js natsgo.JetStreamContext
	lg zerolog.Logger
}

func New(url string, lg zerolog.Logger) (*Client, error) {
	nc, err := natsgo.Connect(url, natsgo.Name("plant-sync"))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Client{nc: nc, js: js, lg: lg.With().Str("adapter", "nats").Logger()}, nil
}

// EnsureStream idempotently creates a stream capturing everything under subject.
func (c *Client) EnsureStream(subject, name string) error {
	_, err := c.js.AddStream(&natsgo.StreamConfig{
		Name:     name,
		Subjects: []string{subject + ".>"},
		Storage:  natsgo.FileStorage,
		Replicas: 1,
	})
	if err != nil && !errors.Is(err, natsgo.ErrStreamNameAlreadyInUse) {
		return fmt.Errorf("ensure stream %s: %w", name, err)
	}
	return nil
}

// -------- Key-value bucket (shared OSS token) --------

// EnsureBucket opens the bucket, creating it with the given entry TTL when missing.
func (c *Client) EnsureBucket(name string, ttl time.Duration) (KeyValue, error) {
	kv, err := c.js.KeyValue(name)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, natsgo.ErrBucketNotFound) {
		return nil, err
	}
	return c.js.CreateKeyValue(&natsgo.KeyValueConfig{
		Bucket:      name,
		Description: "OSS access token",
		History:     1,
		TTL:         ttl,
		Replicas:    1,
	})
}

func (c *Client) Close() { _ = c.nc.Drain() }

// -------- Plant events --------

// Publisher writes plant events to <prefix>.<event type>.
type Publisher struct {
	js     natsgo.JetStreamContext
	prefix string
}

var _ plants.EventPublisher = (*Publisher)(nil)

func (c *Client) Publisher(prefix string) *Publisher {
	return &Publisher{js: c.js, prefix: prefix}
}

func (p *Publisher) Publish(ctx context.Context, ev plants.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	opts := []natsgo.PubOpt{natsgo.Context(ctx)}
	if ev.ID != "" {
		opts = append(opts, natsgo.MsgId(ev.ID))
	}
	if _, err := p.js.Publish(p.prefix+"."+ev.Type, b, opts...); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// -------- OSS token store --------

const tokenKey = "oss_token"

// TokenStore keeps the OSS token in a KV bucket so every replica reuses one login.
type TokenStore struct {
	kv KeyValue
}

func NewTokenStore(kv KeyValue) *TokenStore { return &TokenStore{kv: kv} }

func (s *TokenStore) Get(context.Context) (string, error) {
	entry, err := s.kv.Get(tokenKey)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(entry.Value()), nil
}

func (s *TokenStore) Put(_ context.Context, token string) error {
	_, err := s.kv.PutString(tokenKey, token)
	return err
}

func (s *TokenStore) Delete(context.Context) error {
	err := s.kv.Delete(tokenKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	return err
}
