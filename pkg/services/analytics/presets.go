package analytics

import (
	"fmt"
	"strings"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
)

// GA4 API names used by the presets.
const (
	MetricSessions        = "sessions"
	MetricTotalUsers      = "totalUsers"
	MetricActiveUsers     = "activeUsers"
	MetricScreenPageViews = "screenPageViews"
	MetricBounceRate      = "bounceRate"
	MetricConversions     = "conversions"

	DimensionDate           = "date"
	DimensionPagePath       = "pagePath"
	DimensionPageTitle      = "pageTitle"
	DimensionChannelGroup   = "sessionDefaultChannelGroup"
	DimensionCountry        = "country"
	DimensionCity           = "city"
	DimensionDeviceCategory = "deviceCategory"
	DimensionBrowser        = "browser"
	DimensionOS             = "operatingSystem"
)

type ReportKind string

const (
	KindBasic      ReportKind = "basic"
	KindPages      ReportKind = "pages"
	KindSources    ReportKind = "sources"
	KindGeographic ReportKind = "geographic"
	KindDevices    ReportKind = "devices"
	KindRealtime   ReportKind = "realtime"
)

// Preset is a fixed metric and dimension set.
type Preset struct {
	Metrics    []string
	Dimensions []string
	Limit      int64
	Mode       domain.Mode
}

func (p Preset) Request(period *domain.DateRange, limit int64) domain.ReportRequest {
	if limit <= 0 {
		limit = p.Limit
	}
	req := domain.ReportRequest{
		Metrics:    p.Metrics,
		Dimensions: p.Dimensions,
		Limit:      limit,
	}
	if p.Mode == domain.ModeStandard {
		req.Period = period
	}
	return req
}

var kindOrder = []ReportKind{KindBasic, KindPages, KindSources, KindGeographic, KindDevices, KindRealtime}

var presets = map[ReportKind]Preset{
	KindBasic: {
		Metrics:    []string{MetricSessions, MetricTotalUsers, MetricScreenPageViews, MetricBounceRate},
		Dimensions: []string{DimensionDate},
		Limit:      100,
	},
	KindPages: {
		Metrics:    []string{MetricScreenPageViews, MetricSessions, MetricTotalUsers},
		Dimensions: []string{DimensionPagePath, DimensionPageTitle},
		Limit:      10,
	},
	KindSources: {
		Metrics:    []string{MetricSessions, MetricTotalUsers, MetricConversions},
		Dimensions: []string{DimensionChannelGroup},
		Limit:      10,
	},
	KindGeographic: {
		Metrics:    []string{MetricSessions, MetricTotalUsers, MetricScreenPageViews},
		Dimensions: []string{DimensionCountry, DimensionCity},
		Limit:      20,
	},
	KindDevices: {
		Metrics:    []string{MetricSessions, MetricTotalUsers, MetricScreenPageViews},
		Dimensions: []string{DimensionDeviceCategory, DimensionBrowser, DimensionOS},
		Limit:      50,
	},
	KindRealtime: {
		Metrics: []string{MetricActiveUsers, MetricScreenPageViews},
		Limit:   50,
		Mode:    domain.ModeRealtime,
	},
}

// dashboardLimits overrides preset limits for kinds the dashboard shows
// with more rows than the preset default.
var dashboardLimits = map[ReportKind]int64{
	KindPages: 15,
}

func Kinds() []ReportKind {
	out := make([]ReportKind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

func PresetFor(kind ReportKind) (Preset, bool) {
	p, ok := presets[kind]
	return p, ok
}

func ParseKind(s string) (ReportKind, error) {
	kind := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presets[kind]; !ok {
		return "", fmt.Errorf("unsupported report kind %q", s)
	}
	return kind, nil
}
