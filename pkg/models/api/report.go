package api

import "time"

type Column struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Period struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int    `json:"duration_days"`
}

// Report is a normalized table. Rows are positionally aligned with Columns;
// dates are encoded as YYYY-MM-DD strings.
type Report struct {
	Kind        string    `json:"kind"`
	Period      *Period   `json:"period,omitempty"`
	Columns     []Column  `json:"columns"`
	Rows        [][]any   `json:"rows"`
	Notices     []Notice  `json:"notices,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ReportKind struct {
	Name         string   `json:"name"`
	Mode         string   `json:"mode"`
	Metrics      []string `json:"metrics"`
	Dimensions   []string `json:"dimensions"`
	DefaultLimit int64    `json:"default_limit"`
}

type Error struct {
	Error string `json:"error"`
}
