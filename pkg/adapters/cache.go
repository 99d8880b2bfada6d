package adapters

import (
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/api"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/cache"
)

func MapCacheStatsDomainToApi(stats cache.Stats) api.CacheStats {
	return api.CacheStats{
		Hits:    stats.Hits,
		Misses:  stats.Misses,
		Entries: stats.Entries,
	}
}
