// Package cache stores placement reports so replaying an unchanged scenario
// is free.
//
// Three backends implement [Cache]:
//   - [FileCache] keeps entries as JSON files, for the CLI
//   - [RedisCache] shares entries between serve instances
//   - [NullCache] disables caching
//
// Keys come from a [Keyer], which hashes the scenario together with
// everything else that influences the report. Use [NewScopedKeyer] to give
// a deployment its own namespace.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey returns the key of a placement report for a scenario.
	ReportKey(scenarioHash string, opts ReportKeyOpts) string
}

// ReportKeyOpts holds everything besides the scenario that changes a report.
type ReportKeyOpts struct {
	// EngineVersion invalidates reports produced by other builds.
	EngineVersion string `json:"engine_version"`
	// Validation is the validation level the scenario ran with.
	Validation string `json:"validation,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReportKey hashes the scenario hash together with opts.
func (DefaultKeyer) ReportKey(scenarioHash string, opts ReportKeyOpts) string {
	return hashKey("report", scenarioHash, opts)
}

// Default TTLs.
const (
	ReportTTL = 7 * 24 * time.Hour
)
