package oss

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTokenTTL is how long an OSS login token is reused.
const DefaultTokenTTL = 12 * time.Hour

// TokenProvider performs a fresh login.
type TokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// TokenStore shares the token between processes. Get returns "" when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// CachedTokenProvider wraps a TokenProvider and caches the token in process and in a
// shared TokenStore.
type CachedTokenProvider struct {
	provider TokenProvider
	store    TokenStore
	ttl      time.Duration

	mu     sync.RWMutex
	token  string
	expiry time.Time

	lg zerolog.Logger
}

func NewCachedTokenProvider(provider TokenProvider, store TokenStore, ttl time.Duration, lg zerolog.Logger) *CachedTokenProvider {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if store == nil {
		store = NewMemoryTokenStore(ttl)
	}
	return &CachedTokenProvider{
		provider: provider,
		store:    store,
		ttl:      ttl,
		lg:       lg,
	}
}

// GetAccessToken returns a cached token if valid, otherwise fetches a new one.
func (c *CachedTokenProvider) GetAccessToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.token != "" && time.Now().Before(c.expiry) {
		token := c.token
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// another goroutine may have refreshed it meanwhile
	if c.token != "" && time.Now().Before(c.expiry) {
		return c.token, nil
	}

	token, err := c.store.Get(ctx)
	if err != nil {
		c.lg.Warn().Err(err).Msg("read shared token")
	}
	if token == "" {
		token, err = c.provider.GetAccessToken(ctx)
		if err != nil {
			return "", err
		}
		if err := c.store.Put(ctx, token); err != nil {
			c.lg.Warn().Err(err).Msg("store shared token")
		}
		c.lg.Info().Msg("oss token refreshed")
	}

	c.token = token
	c.expiry = time.Now().Add(c.ttl)
	return token, nil
}

// InvalidateToken clears the cached token everywhere.
func (c *CachedTokenProvider) InvalidateToken(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiry = time.Time{}
	if err := c.store.Delete(ctx); err != nil {
		c.lg.Warn().Err(err).Msg("delete shared token")
	}
}

// MemoryTokenStore keeps the token in process only, expiring it after ttl.
type MemoryTokenStore struct {
	ttl time.Duration

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewMemoryTokenStore(ttl time.Duration) *MemoryTokenStore {
	return &MemoryTokenStore{ttl: ttl}
}

func (s *MemoryTokenStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Now().After(s.expires) {
		return "", nil
	}
	return s.token, nil
}

func (s *MemoryTokenStore) Put(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expires = time.Now().Add(s.ttl)
	return nil
}

func (s *MemoryTokenStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
