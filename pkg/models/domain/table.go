package domain

import (
	"strconv"
	"time"
)

type ColumnKind string

const (
	ColumnDimension ColumnKind = "dimension"
	ColumnMetric    ColumnKind = "metric"
)

type Column struct {
	Name string
	Kind ColumnKind
}

type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindDate
)

// Value is a single typed cell of a Table.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Date  time.Time
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Date: t} }

// Number reports the numeric value of v. Strings and dates are not numeric.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

func (v Value) Interface() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindDate:
		return v.Date
	default:
		return v.Str
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindDate:
		return v.Date.Format(DateLayout)
	default:
		return v.Str
	}
}

// Record holds one row, positionally aligned with Table.Columns.
type Record []Value

// Table is the normalized, row-oriented form of a report. A Table handed out
// by the report client or the cache must be treated as read-only.
type Table struct {
	Columns []Column
	Records []Record
}

func (t Table) Len() int {
	return len(t.Records)
}

func (t Table) Empty() bool {
	return len(t.Records) == 0
}

func (t Table) Index(name string) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (t Table) Has(name string) bool {
	_, ok := t.Index(name)
	return ok
}

func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Values returns the cells of the named column, or nil when it is absent.
func (t Table) Values(name string) []Value {
	idx, ok := t.Index(name)
	if !ok {
		return nil
	}
	values := make([]Value, 0, len(t.Records))
	for _, r := range t.Records {
		values = append(values, r[idx])
	}
	return values
}

// Sum adds up the numeric cells of a column, skipping non-numeric ones.
func (t Table) Sum(name string) float64 {
	var total float64
	for _, v := range t.Values(name) {
		if n, ok := v.Number(); ok {
			total += n
		}
	}
	return total
}

// Mean averages the numeric cells of a column; zero when there are none.
func (t Table) Mean(name string) float64 {
	var (
		total float64
		count int
	)
	for _, v := range t.Values(name) {
		if n, ok := v.Number(); ok {
			total += n
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
