package remote

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"creature-registry/internal/ports/auth"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/blake2b"
)

const (
	DefaultCacheTTL        = 2 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Verifier implementa auth.AuthVerifier. Los tokens válidos se cachean por TTL
// (la clave es el hash del token, nunca el token en claro). Los rechazos no se cachean.
type Verifier struct {
	client *Client
	cache  *gocache.Cache
}

func NewVerifier(client *Client, ttl time.Duration) *Verifier {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Verifier{
		client: client,
		cache:  gocache.New(ttl, DefaultCleanupInterval),
	}
}

var _ auth.AuthVerifier = (*Verifier)(nil)

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	key := cacheKey(token)
	if cached, ok := v.cache.Get(key); ok {
		if claims, ok := cached.(auth.Claims); ok {
			return claims, nil
		}
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("verify token: %w", err)
	}

	v.cache.SetDefault(key, claims)
	return claims, nil
}

func cacheKey(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
