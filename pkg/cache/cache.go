// Package cache stores built matrices keyed by input content and options.
//
// A build is a pure function of the input bytes and [connectivity.Options],
// so its encoded result can be reused across runs. The CLI uses a
// [FileCache] under the XDG cache directory; shared deployments point at a
// [RedisCache]. [NullCache] disables caching.
//
// Cache faults are never fatal to callers: the pipeline treats a failing Get
// as a miss and ignores a failing Set.
//
// [connectivity.Options]: github.com/matzehuels/connmat/pkg/connectivity.Options
package cache

import (
	"context"
	"time"
)

// TTLMatrix is how long a built matrix stays cached.
const TTLMatrix = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MatrixKeyOpts holds the options that change a build's output.
type MatrixKeyOpts struct {
	ZeroDiagonal bool `json:"zero_diagonal"`
}

// Keyer derives cache keys.
type Keyer interface {
	// MatrixKey returns the key for a matrix built from input with the
	// given content hash.
	MatrixKey(inputHash string, opts MatrixKeyOpts) string
}

// DefaultKeyer produces keys of the form "matrix:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MatrixKey hashes the input hash together with the options.
func (DefaultKeyer) MatrixKey(inputHash string, opts MatrixKeyOpts) string {
	return hashKey("matrix", inputHash, opts)
}

// PrefixKeyer namespaces another keyer, e.g. per tenant on a shared Redis.
type PrefixKeyer struct {
	inner  Keyer
	prefix string
}

// NewPrefixKeyer wraps inner with prefix. A nil inner uses [DefaultKeyer].
func NewPrefixKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &PrefixKeyer{inner: inner, prefix: prefix}
}

// MatrixKey returns the prefixed key.
func (k *PrefixKeyer) MatrixKey(inputHash string, opts MatrixKeyOpts) string {
	return k.prefix + k.inner.MatrixKey(inputHash, opts)
}
