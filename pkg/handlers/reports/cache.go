package reports

import (
	"net/http"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/adapters"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/cache"
	"github.com/rs/zerolog"
)

type StatsReader interface {
	Stats() cache.Stats
}

type CacheHandler struct {
	cache StatsReader
}

func NewCacheHandler(c StatsReader) *CacheHandler {
	return &CacheHandler{cache: c}
}

func (h *CacheHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	stats := h.cache.Stats()
	logger.Debug().
		Uint64("hits", stats.Hits).
		Uint64("misses", stats.Misses).
		Int("entries", stats.Entries).
		Msg("cache stats requested")

	writeJSON(w, http.StatusOK, adapters.MapCacheStatsDomainToApi(stats), logger)
}
