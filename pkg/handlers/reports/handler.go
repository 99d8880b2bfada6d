package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/adapters"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/api"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/dashboard"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/rs/zerolog"
)

type RangeResolver interface {
	ResolveRange(ctx context.Context, from, to string) domain.DateRange
}

type Handler struct {
	source dashboard.Source
	ranges RangeResolver
	now    func() time.Time
}

func NewHandler(source dashboard.Source, ranges RangeResolver) *Handler {
	return &Handler{
		source: source,
		ranges: ranges,
		now:    time.Now,
	}
}

func (h *Handler) ListKinds(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	response := make([]api.ReportKind, 0, len(analytics.Kinds()))
	for _, kind := range analytics.Kinds() {
		preset, _ := analytics.PresetFor(kind)
		response = append(response, adapters.MapPresetDomainToApi(kind, preset))
	}

	writeJSON(w, http.StatusOK, response, logger)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	board := notice.NewBoard()
	ctx := notice.WithBoard(r.Context(), board)
	logger := zerolog.Ctx(ctx)

	kind, err := analytics.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, api.Error{Error: err.Error()}, logger)
		return
	}

	var period *domain.DateRange
	if preset, _ := analytics.PresetFor(kind); preset.Mode == domain.ModeStandard {
		resolved := h.ranges.ResolveRange(ctx, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		period = &resolved
	}

	client, err := h.source.Client(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Str("kind", string(kind)).
			Msg("failed to obtain analytics client")
		writeJSON(w, http.StatusServiceUnavailable, api.Error{Error: err.Error()}, logger)
		return
	}

	table := h.source.Report(ctx, client, period, kind)
	response := adapters.MapTableDomainToApi(kind, period, table, board.Notices(), h.now().UTC())

	writeJSON(w, http.StatusOK, response, logger)
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode response")
	}
}
