package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/require"
)

const (
	testKID      = "test-kid"
	testIssuer   = "https://idp.example.com/"
	testAudience = "storefront"
)

// fakeIdP serves a JWKS document with a single RSA public key and signs tokens with its private half.
type fakeIdP struct {
	server  *httptest.Server
	private jwk.Key
	hits    atomic.Int32
	failing atomic.Bool
}

func newRSAKey(t *testing.T, kid string) jwk.Key {
	t.Helper()
	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	key, err := jwk.Import(raw)
	require.NoError(t, err)
	if kid != "" {
		require.NoError(t, key.Set(jwk.KeyIDKey, kid))
	}
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.RS256()))
	return key
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()
	p := &fakeIdP{private: newRSAKey(t, testKID)}

	public, err := jwk.PublicKeyOf(p.private)
	require.NoError(t, err)
	set := jwk.NewSet()
	require.NoError(t, set.AddKey(public))
	body, err := json.Marshal(set)
	require.NoError(t, err)

	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		p.hits.Add(1)
		if p.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeIdP) config() config.IdP {
	return config.IdP{
		Issuer:       testIssuer,
		JwksURL:      p.server.URL,
		Audience:     testAudience,
		Algorithm:    "RS256",
		MinInterval:  time.Minute,
		FetchTimeout: 2 * time.Second,
		MissCooldown: 30 * time.Second,
	}
}

func testBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		ConsecutiveFailures: 5,
		ErrorRatePercent:    50,
		OpenTimeout:         time.Second,
	}
}

// tokenBuilder returns a builder pre-filled with valid registered claims.
func tokenBuilder(permissions ...string) *jwt.Builder {
	now := time.Now()
	b := jwt.NewBuilder().
		Subject("auth0|user-123").
		Issuer(testIssuer).
		Audience([]string{testAudience}).
		IssuedAt(now).
		Expiration(now.Add(time.Hour))
	if permissions != nil {
		b = b.Claim(PermissionsClaim, permissions)
	}
	return b
}

func sign(t *testing.T, b *jwt.Builder, key any) string {
	t.Helper()
	token, err := b.Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256(), key))
	require.NoError(t, err)
	return string(signed)
}
