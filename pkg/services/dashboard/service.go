// Package dashboard maps a tab and a date range to cached report lookups and
// turns the resulting tables into view models.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/cache"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/rs/zerolog"
)

const (
	DefaultLookbackDays = 30

	pagesTableRows = 15
	pagesChartRows = 10
	countryBars    = 10
	cityTableRows  = 20
	browserBars    = 8

	sessionsColor = "#1f77b4"
	usersColor    = "#ff7f0e"
)

// Source hands out the memoized client and the tables fetched through it.
type Source interface {
	Client(ctx context.Context) (cache.Reporter, error)
	Report(ctx context.Context, client cache.Reporter, period *domain.DateRange, kind analytics.ReportKind) domain.Table
}

type Service struct {
	*Ranges
	source Source
}

func NewService(source Source, lookbackDays int, now func() time.Time) *Service {
	return &Service{
		Ranges: NewRanges(lookbackDays, now),
		source: source,
	}
}

// Build fetches the reports behind tab and assembles its view. The only error
// returned is a failure to obtain a client; fetch failures surface as notices
// and empty sections.
func (s *Service) Build(ctx context.Context, tab Tab, period domain.DateRange) (View, error) {
	info, ok := lookupTab(tab)
	if !ok {
		return View{}, fmt.Errorf("unknown dashboard tab %q", tab)
	}

	client, err := s.source.Client(ctx)
	if err != nil {
		return View{}, err
	}

	var reportPeriod *domain.DateRange
	if tab != TabRealtime {
		reportPeriod = &period
	}

	tables := make(map[analytics.ReportKind]domain.Table, len(info.Kinds))
	for _, kind := range info.Kinds {
		tables[kind] = s.source.Report(ctx, client, reportPeriod, kind)
	}

	zerolog.Ctx(ctx).Debug().
		Str("tab", string(tab)).
		Str("client_id", client.ID()).
		Msg("dashboard tables loaded")

	var view View
	switch tab {
	case TabOverview:
		view = overviewView(ctx, tables[analytics.KindBasic], tables[analytics.KindSources])
	case TabPages:
		view = pagesView(ctx, tables[analytics.KindPages])
	case TabGeography:
		view = geographyView(ctx, tables[analytics.KindGeographic])
	case TabDevices:
		view = devicesView(ctx, tables[analytics.KindDevices])
	case TabRealtime:
		view = realtimeView(ctx, tables[analytics.KindRealtime])
	}

	view.Tab = info
	view.Period = reportPeriod
	return view, nil
}

func overviewView(ctx context.Context, basic, sources domain.Table) View {
	board := notice.FromContext(ctx)
	var view View

	if basic.Empty() {
		board.Warn("No data available for the selected period")
	} else {
		view.Cards = metricCards(basic)
		if trend, ok := trendChart(basic); ok {
			view.Charts = append(view.Charts, trend)
		} else {
			board.Warn("No trend data available")
		}
	}

	if slices := groupSum(sources, analytics.DimensionChannelGroup, analytics.MetricSessions); len(slices) > 0 {
		view.Charts = append(view.Charts,
			sliceChart("sources", "🎯 Traffic sources", ChartPie, "Sessions", slices))
	}
	return view
}

func metricCards(basic domain.Table) []Card {
	bounce := "N/A"
	if avg := basic.Mean(analytics.MetricBounceRate); avg > 0 {
		bounce = fmt.Sprintf("%.1f%%", avg*100)
	}
	return []Card{
		{Label: "Total sessions", Icon: "🎯", Value: formatNumber(basic.Sum(analytics.MetricSessions))},
		{Label: "Total users", Icon: "👥", Value: formatNumber(basic.Sum(analytics.MetricTotalUsers))},
		{Label: "Page views", Icon: "📄", Value: formatNumber(basic.Sum(analytics.MetricScreenPageViews))},
		{Label: "Bounce rate", Icon: "📉", Value: bounce},
	}
}

// trendChart plots sessions and users per day, oldest first.
func trendChart(basic domain.Table) (Chart, bool) {
	dateIdx, ok := basic.Index(analytics.DimensionDate)
	if !ok {
		return Chart{}, false
	}

	records := make([]domain.Record, len(basic.Records))
	copy(records, basic.Records)
	sort.SliceStable(records, func(i, j int) bool {
		return dateKey(records[i][dateIdx]) < dateKey(records[j][dateIdx])
	})

	chart := Chart{ID: "trend", Title: "📈 Traffic trend", Kind: ChartLine}
	for _, r := range records {
		chart.Labels = append(chart.Labels, r[dateIdx].String())
	}

	series := []struct {
		metric, label, color string
	}{
		{analytics.MetricSessions, "Sessions", sessionsColor},
		{analytics.MetricTotalUsers, "Users", usersColor},
	}
	for _, s := range series {
		idx, ok := basic.Index(s.metric)
		if !ok {
			continue
		}
		ds := Dataset{Label: s.label, Color: s.color, Data: make([]float64, 0, len(records))}
		for _, r := range records {
			n, _ := r[idx].Number()
			ds.Data = append(ds.Data, n)
		}
		chart.Datasets = append(chart.Datasets, ds)
	}
	return chart, true
}

// dateKey orders parsed dates chronologically. Raw values that failed to
// parse sort by their text.
func dateKey(v domain.Value) string {
	if v.Kind == domain.KindDate {
		return v.Date.Format("20060102")
	}
	return v.Str
}

func pagesView(ctx context.Context, pages domain.Table) View {
	var view View
	if pages.Empty() {
		notice.FromContext(ctx).Warn("No page data available")
		return view
	}

	view.Tables = append(view.Tables, tableView("", pages, []columnSpec{
		{Name: analytics.DimensionPageTitle, Header: "Page title"},
		{Name: analytics.DimensionPagePath, Header: "Path"},
		{Name: analytics.MetricScreenPageViews, Header: "Views"},
		{Name: analytics.MetricSessions, Header: "Sessions"},
		{Name: analytics.MetricTotalUsers, Header: "Users"},
	}, pagesTableRows))

	if slices := perRecord(pages, analytics.DimensionPageTitle, analytics.MetricScreenPageViews); len(slices) > 0 {
		chart := sliceChart("top-pages", "Top 10 pages by views", ChartBar, "Views", top(slices, pagesChartRows))
		chart.Horizontal = true
		view.Charts = append(view.Charts, chart)
	}
	return view
}

func geographyView(ctx context.Context, geo domain.Table) View {
	var view View
	if geo.Empty() {
		notice.FromContext(ctx).Warn("No geographic data available")
		return view
	}

	if slices := groupSum(geo, analytics.DimensionCountry, analytics.MetricSessions); len(slices) > 0 {
		view.Charts = append(view.Charts,
			sliceChart("countries", "🌍 Top countries by sessions", ChartBar, "Sessions", top(slices, countryBars)))
	}

	view.Tables = append(view.Tables, tableView("📍 Breakdown by city", geo, []columnSpec{
		{Name: analytics.DimensionCountry, Header: "Country"},
		{Name: analytics.DimensionCity, Header: "City"},
		{Name: analytics.MetricSessions, Header: "Sessions"},
		{Name: analytics.MetricTotalUsers, Header: "Users"},
		{Name: analytics.MetricScreenPageViews, Header: "Views"},
	}, cityTableRows))
	return view
}

func devicesView(ctx context.Context, devices domain.Table) View {
	var view View
	if devices.Empty() {
		notice.FromContext(ctx).Warn("No device data available")
		return view
	}

	if slices := groupSum(devices, analytics.DimensionDeviceCategory, analytics.MetricSessions); len(slices) > 0 {
		view.Charts = append(view.Charts,
			sliceChart("devices", "📱 Sessions by device", ChartPie, "Sessions", byLabel(slices)))
	}
	if slices := groupSum(devices, analytics.DimensionBrowser, analytics.MetricSessions); len(slices) > 0 {
		view.Charts = append(view.Charts,
			sliceChart("browsers", "🌐 Top browsers", ChartBar, "Sessions", top(slices, browserBars)))
	}
	return view
}

func realtimeView(ctx context.Context, realtime domain.Table) View {
	board := notice.FromContext(ctx)
	var view View
	if realtime.Empty() {
		board.Warn("No realtime data available")
		return view
	}

	view.Cards = []Card{
		{Label: "Active users now", Icon: "👥", Value: formatNumber(realtime.Sum(analytics.MetricActiveUsers))},
		{Label: "Page views (realtime)", Icon: "📄", Value: formatNumber(realtime.Sum(analytics.MetricScreenPageViews))},
	}
	view.Summary = "Realtime figures cover roughly the last 30 minutes and refresh every few minutes"
	return view
}
