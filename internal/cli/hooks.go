package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tether/pkg/observability"
)

// cacheLogHooks reports cache traffic at debug level.
type cacheLogHooks struct {
	logger *log.Logger
}

func (h cacheLogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "backend", keyType)
}

func (h cacheLogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "backend", keyType)
}

func (h cacheLogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "backend", keyType, "bytes", size)
}

var _ observability.CacheHooks = cacheLogHooks{}
