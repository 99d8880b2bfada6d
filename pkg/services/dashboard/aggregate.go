package dashboard

import (
	"math"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
)

type slice struct {
	Label string
	Value float64
}

type columnSpec struct {
	Name   string
	Header string
}

// groupSum adds up metric per distinct value of by, in first-seen order.
func groupSum(t domain.Table, by, metric string) []slice {
	byIdx, ok := t.Index(by)
	if !ok {
		return nil
	}
	metricIdx, ok := t.Index(metric)
	if !ok {
		return nil
	}

	var out []slice
	pos := make(map[string]int)
	for _, r := range t.Records {
		label := r[byIdx].String()
		n, _ := r[metricIdx].Number()
		i, seen := pos[label]
		if !seen {
			pos[label] = len(out)
			out = append(out, slice{Label: label})
			i = len(out) - 1
		}
		out[i].Value += n
	}
	return out
}

// perRecord pairs label and metric for every record without grouping.
func perRecord(t domain.Table, label, metric string) []slice {
	labelIdx, ok := t.Index(label)
	if !ok {
		return nil
	}
	metricIdx, ok := t.Index(metric)
	if !ok {
		return nil
	}

	out := make([]slice, 0, t.Len())
	for _, r := range t.Records {
		n, _ := r[metricIdx].Number()
		out = append(out, slice{Label: r[labelIdx].String(), Value: n})
	}
	return out
}

// top keeps the n largest slices, largest first. Ties keep their order.
func top(slices []slice, n int) []slice {
	sorted := make([]slice, len(slices))
	copy(sorted, slices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func byLabel(slices []slice) []slice {
	sorted := make([]slice, len(slices))
	copy(sorted, slices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Label < sorted[j].Label
	})
	return sorted
}

func sliceChart(id, title string, kind ChartKind, metricLabel string, slices []slice) Chart {
	chart := Chart{
		ID:       id,
		Title:    title,
		Kind:     kind,
		Labels:   make([]string, 0, len(slices)),
		Datasets: []Dataset{{Label: metricLabel, Data: make([]float64, 0, len(slices))}},
	}
	for _, s := range slices {
		chart.Labels = append(chart.Labels, s.Label)
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, s.Value)
	}
	return chart
}

// tableView renders up to limit records of the listed columns. Columns the
// table lacks are left out.
func tableView(title string, t domain.Table, cols []columnSpec, limit int) TableView {
	view := TableView{Title: title}

	var idx []int
	for _, c := range cols {
		if i, ok := t.Index(c.Name); ok {
			idx = append(idx, i)
			view.Headers = append(view.Headers, c.Header)
		}
	}

	for n, r := range t.Records {
		if n == limit {
			break
		}
		row := make([]string, 0, len(idx))
		for _, i := range idx {
			row = append(row, formatValue(r[i]))
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

func formatValue(v domain.Value) string {
	switch v.Kind {
	case domain.KindInt:
		return humanize.Comma(v.Int)
	case domain.KindFloat:
		return formatNumber(v.Float)
	default:
		return v.String()
	}
}

// formatNumber prints whole numbers with thousands separators and keeps up to
// two decimals otherwise.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return humanize.Comma(int64(f))
	}
	return humanize.FormatFloat("#,###.##", f)
}
