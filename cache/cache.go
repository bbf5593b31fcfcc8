/*
Package cache stores encoded simulation results keyed by their inputs.

PURPOSE:
  cashflow.Run is deterministic, so a result can be reused for identical
  inputs. Keys are the SHA-256 of the inputs' JSON encoding; values are the
  encoded result. Entries expire after a TTL.

BACKENDS:
  Memory: in-process map with lazy expiry
  Redis:  shared cache for several API instances
  Nop:    always misses (caching disabled)

SEE ALSO:
  - api/handlers.go: Simulate consults the cache before running
*/
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-value cache with per-entry TTL. A zero TTL never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key derives a cache key from v's JSON encoding. Equal values give equal
// keys because encoding/json writes struct fields in declaration order.
func Key(namespace string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return namespace + ":" + hex.EncodeToString(sum[:]), nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
