package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sony/gobreaker/v2"
)

// ErrKeyNotFound is returned when no published key matches the requested key id.
var ErrKeyNotFound = errors.New("signing key not found")

// KeySource resolves the public keys the identity provider signs tokens with.
type KeySource interface {
	LookupKey(ctx context.Context, kid string) (jwk.Key, error)
}

// JWKSCache fetches the identity provider's JWKS and caches it for a minimum
// interval. Fetches go through a circuit breaker; when a refresh fails the
// previously cached set keeps being served.
type JWKSCache struct {
	mu sync.RWMutex

	jwksURL      string
	fetchTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker[jwk.Set]

	cachedSet     jwk.Set
	lastRefreshed time.Time
	minInterval   time.Duration
	missCooldown  time.Duration
}

// NewJWKSCache creates a JWKSCache and performs the initial fetch.
func NewJWKSCache(ctx context.Context, cfg config.IdP, cbCfg config.CircuitBreakerConfig) (*JWKSCache, error) {
	c := &JWKSCache{
		jwksURL:      cfg.JwksURL,
		fetchTimeout: cfg.FetchTimeout,
		minInterval:  cfg.MinInterval,
		missCooldown: cfg.MissCooldown,
		breaker:      newBreaker(cbCfg),
	}
	// Fail-Fast: Immediately fetch the JWKS to ensure the configuration is valid.
	if _, err := c.getKeySet(ctx, false); err != nil {
		return nil, fmt.Errorf("initial JWKS fetch failed: %w", err)
	}
	return c, nil
}

func newBreaker(cfg config.CircuitBreakerConfig) *gobreaker.CircuitBreaker[jwk.Set] {
	st := gobreaker.Settings{
		Name:        "jwks-fetch-cb",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
				(counts.TotalSuccesses+counts.TotalFailures > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.TotalSuccesses+counts.TotalFailures)*100 > float64(cfg.ErrorRatePercent))
		},
	}
	return gobreaker.NewCircuitBreaker[jwk.Set](st)
}

// LookupKey returns the key with the given key id. An unknown kid triggers a
// refetch (at most once per miss cooldown) to pick up rotated keys.
func (c *JWKSCache) LookupKey(ctx context.Context, kid string) (jwk.Key, error) {
	set, err := c.getKeySet(ctx, false)
	if err != nil {
		return nil, err
	}
	if key, ok := set.LookupKeyID(kid); ok {
		return key, nil
	}

	c.mu.RLock()
	recent := time.Since(c.lastRefreshed) < c.missCooldown
	c.mu.RUnlock()
	if recent {
		return nil, fmt.Errorf("kid %q: %w", kid, ErrKeyNotFound)
	}

	set, err = c.getKeySet(ctx, true)
	if err != nil {
		return nil, err
	}
	if key, ok := set.LookupKeyID(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("kid %q: %w", kid, ErrKeyNotFound)
}

// getKeySet retrieves the JWKS set, caching it for subsequent calls.
func (c *JWKSCache) getKeySet(ctx context.Context, force bool) (jwk.Set, error) {
	if !force {
		c.mu.RLock()
		if c.cachedSet != nil && time.Since(c.lastRefreshed) < c.minInterval {
			set := c.cachedSet
			c.mu.RUnlock()
			return set, nil
		}
		c.mu.RUnlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have refreshed the set while we waited for the lock.
	if c.cachedSet != nil && time.Since(c.lastRefreshed) < c.minInterval && !force {
		return c.cachedSet, nil
	}
	set, err := c.breaker.Execute(func() (jwk.Set, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
		return jwk.Fetch(fetchCtx, c.jwksURL)
	})
	if err != nil {
		if c.cachedSet != nil {
			return c.cachedSet, nil
		}
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", c.jwksURL, err)
	}
	c.cachedSet = set
	c.lastRefreshed = time.Now()
	return c.cachedSet, nil
}
