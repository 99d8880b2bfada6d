package adapters

import (
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/api"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
)

func MapTableDomainToApi(
	kind analytics.ReportKind,
	period *domain.DateRange,
	table domain.Table,
	notices []notice.Notice,
	generatedAt time.Time,
) api.Report {
	report := api.Report{
		Kind:        string(kind),
		Columns:     make([]api.Column, 0, len(table.Columns)),
		Rows:        make([][]any, 0, table.Len()),
		GeneratedAt: generatedAt,
	}

	if period != nil {
		report.Period = &api.Period{
			Start:    period.StartString(),
			End:      period.EndString(),
			Duration: period.Days(),
		}
	}

	for _, c := range table.Columns {
		report.Columns = append(report.Columns, api.Column{Name: c.Name, Kind: string(c.Kind)})
	}

	for _, r := range table.Records {
		row := make([]any, 0, len(r))
		for _, v := range r {
			row = append(row, mapValueDomainToApi(v))
		}
		report.Rows = append(report.Rows, row)
	}

	for _, n := range notices {
		report.Notices = append(report.Notices, api.Notice{Level: string(n.Level), Message: n.Message})
	}

	return report
}

func mapValueDomainToApi(v domain.Value) any {
	if v.Kind == domain.KindDate {
		return v.Date.Format(domain.DateLayout)
	}
	return v.Interface()
}

func MapPresetDomainToApi(kind analytics.ReportKind, p analytics.Preset) api.ReportKind {
	return api.ReportKind{
		Name:         string(kind),
		Mode:         p.Mode.String(),
		Metrics:      append([]string{}, p.Metrics...),
		Dimensions:   append([]string{}, p.Dimensions...),
		DefaultLimit: p.Limit,
	}
}
