package dashboard

import (
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
)

type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
	ChartBar  ChartKind = "bar"
)

// Card is a single headline figure.
type Card struct {
	Label string
	Icon  string
	Value string
}

type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	Color string    `json:"color,omitempty"`
}

// Chart is rendered client side; its fields are serialized as-is.
type Chart struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Kind       ChartKind `json:"kind"`
	Horizontal bool      `json:"horizontal,omitempty"`
	Labels     []string  `json:"labels"`
	Datasets   []Dataset `json:"datasets"`
}

type TableView struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// View is everything one tab renders for one period.
type View struct {
	Tab     TabInfo
	Period  *domain.DateRange
	Cards   []Card
	Charts  []Chart
	Tables  []TableView
	Summary string
}

func (v View) Empty() bool {
	return len(v.Cards) == 0 && len(v.Charts) == 0 && len(v.Tables) == 0
}
