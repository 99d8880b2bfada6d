package reports

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/api"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats cache.Stats

func (f fixedStats) Stats() cache.Stats { return cache.Stats(f) }

func TestCacheHandler_GetStats(t *testing.T) {
	handler := NewCacheHandler(fixedStats{Hits: 7, Misses: 3, Entries: 2})

	rec := httptest.NewRecorder()
	handler.GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cache", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var stats api.CacheStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, api.CacheStats{Hits: 7, Misses: 3, Entries: 2}, stats)
}
