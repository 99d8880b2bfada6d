package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
)

type TableConfig struct {
	MaxColumnWidth int
	PlotHeight     int
	PlotWidth      int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MaxColumnWidth: 40,
		PlotHeight:     10,
		PlotWidth:      60,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type tableData struct {
	Title   string
	Period  *domain.DateRange
	Headers []string
	Rows    [][]string
}

const tableTemplate = `
{{.Title}}
{{if .Period}}Period: {{.Period.StartString}} to {{.Period.EndString}} ({{.Period.Days}} days)
{{end}}Rows: {{len .Rows}}

{{separator}}
{{formatRow .Headers}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
`

// Table prints t as a fixed-width text table.
func (r *Reporter) Table(title string, period *domain.DateRange, t domain.Table) error {
	data := tableData{Title: title, Period: period, Headers: t.ColumnNames()}
	for _, rec := range t.Records {
		row := make([]string, 0, len(rec))
		for _, v := range rec {
			row = append(row, formatCell(v))
		}
		data.Rows = append(data.Rows, row)
	}

	widths := r.columnWidths(data)
	funcMap := template.FuncMap{
		"formatRow": func(cells []string) string {
			parts := make([]string, 0, len(widths))
			for i, w := range widths {
				cell := ""
				if i < len(cells) {
					cell = fit(cells[i], w)
				}
				parts = append(parts, cell+strings.Repeat(" ", w-utf8.RuneCountInString(cell)))
			}
			return "| " + strings.Join(parts, " | ") + " |"
		},
		"separator": func() string {
			parts := make([]string, 0, len(widths))
			for _, w := range widths {
				parts = append(parts, strings.Repeat("-", w+2))
			}
			return "+" + strings.Join(parts, "+") + "+"
		},
	}

	tmpl, err := template.New("table").Funcs(funcMap).Parse(tableTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl.Execute(r.writer, data)
}

// Trend plots metric per day. Tables without a date column are skipped.
func (r *Reporter) Trend(t domain.Table, dateColumn, metric string) error {
	dateIdx, ok := t.Index(dateColumn)
	if !ok {
		return nil
	}
	metricIdx, ok := t.Index(metric)
	if !ok || t.Len() < 2 {
		return nil
	}

	records := make([]domain.Record, len(t.Records))
	copy(records, t.Records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i][dateIdx].String() < records[j][dateIdx].String()
	})

	data := make([]float64, 0, len(records))
	for _, rec := range records {
		n, _ := rec[metricIdx].Number()
		data = append(data, n)
	}

	caption := fmt.Sprintf("%s per day, %s to %s",
		metric, records[0][dateIdx].String(), records[len(records)-1][dateIdx].String())
	graph := asciigraph.Plot(data,
		asciigraph.Height(r.config.PlotHeight),
		asciigraph.Width(r.config.PlotWidth),
		asciigraph.Caption(caption),
	)
	_, err := fmt.Fprintf(r.writer, "\n%s\n", graph)
	return err
}

func (r *Reporter) JSON(v any) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Reporter) Notices(notices []notice.Notice) {
	for _, n := range notices {
		fmt.Fprintf(r.writer, "%s %s\n", noticePrefix(n.Level), n.Message)
	}
}

func (r *Reporter) Printf(format string, args ...any) {
	fmt.Fprintf(r.writer, format, args...)
}

func (r *Reporter) columnWidths(data tableData) []int {
	widths := make([]int, len(data.Headers))
	for i, h := range data.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range data.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], r.config.MaxColumnWidth)
	}
	return widths
}

func fit(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}

func formatCell(v domain.Value) string {
	switch v.Kind {
	case domain.KindInt:
		return humanize.Comma(v.Int)
	case domain.KindFloat:
		return humanize.FormatFloat("#,###.##", v.Float)
	default:
		return v.String()
	}
}

func noticePrefix(level notice.Level) string {
	switch level {
	case notice.LevelError:
		return "❌"
	case notice.LevelWarning:
		return "⚠️ "
	default:
		return "ℹ️ "
	}
}
