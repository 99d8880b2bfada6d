package analytics

import (
	"testing"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_Table(t *testing.T) {
	tests := []struct {
		kind       ReportKind
		metrics    []string
		dimensions []string
		limit      int64
	}{
		{KindPages, []string{"screenPageViews", "sessions", "totalUsers"}, []string{"pagePath", "pageTitle"}, 10},
		{KindSources, []string{"sessions", "totalUsers", "conversions"}, []string{"sessionDefaultChannelGroup"}, 10},
		{KindGeographic, []string{"sessions", "totalUsers", "screenPageViews"}, []string{"country", "city"}, 20},
		{KindDevices, []string{"sessions", "totalUsers", "screenPageViews"}, []string{"deviceCategory", "browser", "operatingSystem"}, 50},
		{KindRealtime, []string{"activeUsers", "screenPageViews"}, nil, 50},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			p, ok := PresetFor(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.metrics, p.Metrics)
			assert.Equal(t, tt.dimensions, p.Dimensions)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestPreset_Request(t *testing.T) {
	period := domain.NewDateRange(time.Now().AddDate(0, 0, -7), time.Now())

	pages, _ := PresetFor(KindPages)
	req := pages.Request(&period, 0)
	assert.Equal(t, int64(10), req.Limit)
	assert.Equal(t, &period, req.Period)
	assert.NoError(t, req.Validate(domain.ModeStandard))

	realtime, _ := PresetFor(KindRealtime)
	req = realtime.Request(&period, 5)
	assert.Equal(t, int64(5), req.Limit)
	assert.Nil(t, req.Period)
	assert.NoError(t, req.Validate(domain.ModeRealtime))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Pages ")
	require.NoError(t, err)
	assert.Equal(t, KindPages, kind)

	_, err = ParseKind("funnels")
	assert.EqualError(t, err, `unsupported report kind "funnels"`)

	assert.Len(t, Kinds(), 6)
}
