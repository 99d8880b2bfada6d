package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/rs/zerolog"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

const ReadonlyScope = analyticsdata.AnalyticsReadonlyScope

var ErrUnsupportedKind = errors.New("unsupported report kind")

// FetchError describes a failed remote report run.
type FetchError struct {
	Mode domain.Mode
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s report failed: %v", e.Mode, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type reportRunner interface {
	RunReport(
		ctx context.Context,
		property string,
		req *analyticsdata.RunReportRequest,
	) (*analyticsdata.RunReportResponse, error)
	RunRealtimeReport(
		ctx context.Context,
		property string,
		req *analyticsdata.RunRealtimeReportRequest,
	) (*analyticsdata.RunRealtimeReportResponse, error)
}

type serviceRunner struct {
	svc *analyticsdata.Service
}

func (s serviceRunner) RunReport(
	ctx context.Context,
	property string,
	req *analyticsdata.RunReportRequest,
) (*analyticsdata.RunReportResponse, error) {
	return s.svc.Properties.RunReport(property, req).Context(ctx).Do()
}

func (s serviceRunner) RunRealtimeReport(
	ctx context.Context,
	property string,
	req *analyticsdata.RunRealtimeReportRequest,
) (*analyticsdata.RunRealtimeReportResponse, error) {
	return s.svc.Properties.RunRealtimeReport(property, req).Context(ctx).Do()
}

// Client runs reports against one GA4 property. It is safe for concurrent use.
type Client struct {
	id         string
	propertyID string
	runner     reportRunner
}

func NewClient(ctx context.Context, propertyID string, opts ...option.ClientOption) (*Client, error) {
	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics data service: %w", err)
	}
	return newClient(propertyID, serviceRunner{svc: svc}), nil
}

func newClient(propertyID string, runner reportRunner) *Client {
	return &Client{
		id:         uuid.NewString(),
		propertyID: propertyID,
		runner:     runner,
	}
}

// ID identifies this client instance; a rebuilt client gets a new one.
func (c *Client) ID() string {
	return c.id
}

func (c *Client) PropertyID() string {
	return c.propertyID
}

// Fetch runs a report and normalizes the result. Failures are logged, posted
// to the notice board in ctx and reported as an empty table.
func (c *Client) Fetch(ctx context.Context, req domain.ReportRequest, mode domain.Mode) domain.Table {
	table, err := c.run(ctx, req, mode)
	if err != nil {
		PostFailure(ctx, err)
		return domain.Table{}
	}
	return table
}

// PostFailure puts the user-facing message for a failed report run on the
// notice board in ctx.
func PostFailure(ctx context.Context, err error) {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Mode == domain.ModeRealtime {
		notice.FromContext(ctx).Error("Failed to fetch realtime data: %v", err)
		return
	}
	notice.FromContext(ctx).Error("Failed to fetch report data: %v", err)
}

// run logs failures but leaves the notice board alone.
func (c *Client) run(ctx context.Context, req domain.ReportRequest, mode domain.Mode) (domain.Table, error) {
	table, err := c.fetch(ctx, req, mode)
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("property", c.propertyID).
			Str("mode", mode.String()).
			Strs("metrics", req.Metrics).
			Strs("dimensions", req.Dimensions).
			Msg("report fetch failed")
	}
	return table, err
}

func (c *Client) fetch(ctx context.Context, req domain.ReportRequest, mode domain.Mode) (domain.Table, error) {
	if err := req.Validate(mode); err != nil {
		return domain.Table{}, &FetchError{Mode: mode, Err: err}
	}

	property := "properties/" + c.propertyID
	if mode == domain.ModeRealtime {
		resp, err := c.runner.RunRealtimeReport(ctx, property, &analyticsdata.RunRealtimeReportRequest{
			Dimensions: dimensions(req.Dimensions),
			Metrics:    metrics(req.Metrics),
			Limit:      req.Limit,
		})
		if err != nil {
			return domain.Table{}, &FetchError{Mode: mode, Err: err}
		}
		return Normalize(ctx, FromRealtimeReport(resp)), nil
	}

	resp, err := c.runner.RunReport(ctx, property, &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{
			StartDate: req.Period.StartString(),
			EndDate:   req.Period.EndString(),
		}},
		Dimensions: dimensions(req.Dimensions),
		Metrics:    metrics(req.Metrics),
		Limit:      req.Limit,
	})
	if err != nil {
		return domain.Table{}, &FetchError{Mode: mode, Err: err}
	}
	return Normalize(ctx, FromReport(resp)), nil
}

// BasicReport runs an arbitrary standard report.
func (c *Client) BasicReport(
	ctx context.Context,
	period domain.DateRange,
	metricNames, dimensionNames []string,
	limit int64,
) domain.Table {
	return c.Fetch(ctx, domain.ReportRequest{
		Metrics:    metricNames,
		Dimensions: dimensionNames,
		Period:     &period,
		Limit:      limit,
	}, domain.ModeStandard)
}

func (c *Client) TopPages(ctx context.Context, period domain.DateRange, limit int64) domain.Table {
	return c.runPreset(ctx, KindPages, &period, limit)
}

func (c *Client) TrafficSources(ctx context.Context, period domain.DateRange, limit int64) domain.Table {
	return c.runPreset(ctx, KindSources, &period, limit)
}

func (c *Client) Geographic(ctx context.Context, period domain.DateRange, limit int64) domain.Table {
	return c.runPreset(ctx, KindGeographic, &period, limit)
}

func (c *Client) Devices(ctx context.Context, period domain.DateRange) domain.Table {
	return c.runPreset(ctx, KindDevices, &period, 0)
}

func (c *Client) Realtime(ctx context.Context, limit int64) domain.Table {
	return c.runPreset(ctx, KindRealtime, nil, limit)
}

// Report runs the preset behind kind with the row limits the dashboard uses.
// period is ignored for realtime reports.
func (c *Client) Report(ctx context.Context, kind ReportKind, period *domain.DateRange) domain.Table {
	return c.runPreset(ctx, kind, period, dashboardLimits[kind])
}

// Run is Report without the fail-soft handling: the error is logged and
// returned, and nothing is posted to the notice board.
func (c *Client) Run(ctx context.Context, kind ReportKind, period *domain.DateRange) (domain.Table, error) {
	p, ok := PresetFor(kind)
	if !ok {
		zerolog.Ctx(ctx).Error().Str("kind", string(kind)).Msg("unsupported report kind")
		return domain.Table{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	return c.run(ctx, p.Request(period, dashboardLimits[kind]), p.Mode)
}

func (c *Client) runPreset(ctx context.Context, kind ReportKind, period *domain.DateRange, limit int64) domain.Table {
	p, ok := PresetFor(kind)
	if !ok {
		zerolog.Ctx(ctx).Error().Str("kind", string(kind)).Msg("unsupported report kind")
		notice.FromContext(ctx).Error("Unsupported report kind: %s", kind)
		return domain.Table{}
	}
	return c.Fetch(ctx, p.Request(period, limit), p.Mode)
}

func dimensions(names []string) []*analyticsdata.Dimension {
	out := make([]*analyticsdata.Dimension, 0, len(names))
	for _, n := range names {
		out = append(out, &analyticsdata.Dimension{Name: n})
	}
	return out
}

func metrics(names []string) []*analyticsdata.Metric {
	out := make([]*analyticsdata.Metric, 0, len(names))
	for _, n := range names {
		out = append(out, &analyticsdata.Metric{Name: n})
	}
	return out
}
