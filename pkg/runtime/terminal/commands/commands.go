package commands

import (
	"context"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
)

// Client is the part of the analytics client the commands use.
type Client interface {
	PropertyID() string
	Report(ctx context.Context, kind analytics.ReportKind, period *domain.DateRange) domain.Table
	BasicReport(
		ctx context.Context,
		period domain.DateRange,
		metricNames, dimensionNames []string,
		limit int64,
	) domain.Table
}

type ConnectFunc func(ctx context.Context) (Client, error)

// RangeResolver decides the report period from the --from/--to flags.
type RangeResolver interface {
	ResolveRange(ctx context.Context, from, to string) domain.DateRange
}
