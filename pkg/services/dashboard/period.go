package dashboard

import (
	"context"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/rs/zerolog"
)

// Ranges decides which calendar days a selection covers.
type Ranges struct {
	lookbackDays int
	now          func() time.Time
}

func NewRanges(lookbackDays int, now func() time.Time) *Ranges {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if now == nil {
		now = time.Now
	}
	return &Ranges{lookbackDays: lookbackDays, now: now}
}

// DefaultRange covers the configured lookback window and ends yesterday,
// the most recent day GA4 has fully processed.
func (s *Ranges) DefaultRange() domain.DateRange {
	today := domain.TruncateDay(s.now())
	return domain.NewDateRange(today.AddDate(0, 0, -s.lookbackDays), today.AddDate(0, 0, -1))
}

// ResolveRange turns the raw from/to selection into the range to report on.
// Empty values take the defaults, an end date past yesterday is clamped and a
// start date after the end falls back to the default range.
func (s *Ranges) ResolveRange(ctx context.Context, from, to string) domain.DateRange {
	board := notice.FromContext(ctx)
	def := s.DefaultRange()
	period := def

	if from != "" {
		start, err := domain.ParseDate(from)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("ignoring start date")
			board.Error("Invalid start date %q, using %s", from, def.StartString())
		} else {
			period.Start = start
		}
	}
	if to != "" {
		end, err := domain.ParseDate(to)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("ignoring end date")
			board.Error("Invalid end date %q, using %s", to, def.EndString())
		} else {
			period.End = end
		}
	}

	if period.End.After(def.End) {
		board.Warn("GA4 data lags by one day: end date moved from %s to %s",
			period.EndString(), def.EndString())
		period.End = def.End
	}

	if period.Start.After(period.End) {
		zerolog.Ctx(ctx).Warn().
			Str("start", period.StartString()).
			Str("end", period.EndString()).
			Msg("start date after end date, using default range")
		board.Error("Start date %s is after end date %s, showing the last %d days instead",
			period.StartString(), period.EndString(), s.lookbackDays)
		return def
	}

	return period
}
