package analytics

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/rs/zerolog"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

const compactDateLayout = "20060102"

// Response is the part of a GA4 report response the normalizer reads. Both the
// standard and the realtime responses share this shape.
type Response struct {
	DimensionHeaders []*analyticsdata.DimensionHeader
	MetricHeaders    []*analyticsdata.MetricHeader
	Rows             []*analyticsdata.Row
}

func FromReport(r *analyticsdata.RunReportResponse) *Response {
	if r == nil {
		return nil
	}
	return &Response{
		DimensionHeaders: r.DimensionHeaders,
		MetricHeaders:    r.MetricHeaders,
		Rows:             r.Rows,
	}
}

func FromRealtimeReport(r *analyticsdata.RunRealtimeReportResponse) *Response {
	if r == nil {
		return nil
	}
	return &Response{
		DimensionHeaders: r.DimensionHeaders,
		MetricHeaders:    r.MetricHeaders,
		Rows:             r.Rows,
	}
}

// Normalize turns a column-described response into a row-oriented table.
// A response without rows yields a table with no columns and no records.
func Normalize(ctx context.Context, resp *Response) domain.Table {
	if resp == nil || len(resp.Rows) == 0 {
		return domain.Table{}
	}

	columns := make([]domain.Column, 0, len(resp.DimensionHeaders)+len(resp.MetricHeaders))
	for _, h := range resp.DimensionHeaders {
		columns = append(columns, domain.Column{Name: headerName(h), Kind: domain.ColumnDimension})
	}
	for _, h := range resp.MetricHeaders {
		columns = append(columns, domain.Column{Name: metricName(h), Kind: domain.ColumnMetric})
	}

	records := make([]domain.Record, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		record := make(domain.Record, 0, len(columns))
		for i := range resp.DimensionHeaders {
			record = append(record, domain.StringValue(dimensionValue(row, i)))
		}
		for i := range resp.MetricHeaders {
			record = append(record, coerceMetric(metricValue(row, i)))
		}
		records = append(records, record)
	}

	table := domain.Table{Columns: columns, Records: records}
	if idx, ok := table.Index(DimensionDate); ok {
		parseDates(ctx, table, idx)
	}
	return table
}

// coerceMetric parses values with a decimal point as floats and everything
// else as integers. Unparsable values are kept as they came.
func coerceMetric(raw string) domain.Value {
	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.FloatValue(f)
		}
		return domain.StringValue(raw)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return domain.IntValue(i)
	}
	return domain.StringValue(raw)
}

// parseDates rewrites the date column in place. Values that are not YYYYMMDD
// stay as strings.
func parseDates(ctx context.Context, table domain.Table, idx int) {
	for _, record := range table.Records {
		raw := record[idx].Str
		d, err := time.Parse(compactDateLayout, raw)
		if err != nil {
			zerolog.Ctx(ctx).Warn().
				Err(err).
				Str("value", raw).
				Msg("unparsable date value kept as string")
			continue
		}
		record[idx] = domain.DateValue(d)
	}
}

func headerName(h *analyticsdata.DimensionHeader) string {
	if h == nil {
		return ""
	}
	return h.Name
}

func metricName(h *analyticsdata.MetricHeader) string {
	if h == nil {
		return ""
	}
	return h.Name
}

func dimensionValue(row *analyticsdata.Row, i int) string {
	if row == nil || i >= len(row.DimensionValues) || row.DimensionValues[i] == nil {
		return ""
	}
	return row.DimensionValues[i].Value
}

func metricValue(row *analyticsdata.Row, i int) string {
	if row == nil || i >= len(row.MetricValues) || row.MetricValues[i] == nil {
		return ""
	}
	return row.MetricValues[i].Value
}
