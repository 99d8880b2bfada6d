// Package dashboard serves the HTML dashboard: one page per tab, a refresh
// action and the embedded assets they use.
package dashboard

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/config"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/dashboard"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

const credentialsErrorMessage = "❌ Error connecting to GA4. Check your configuration."

// Builder resolves the selected range and assembles tab views.
type Builder interface {
	DefaultRange() domain.DateRange
	ResolveRange(ctx context.Context, from, to string) domain.DateRange
	Build(ctx context.Context, tab dashboard.Tab, period domain.DateRange) (dashboard.View, error)
}

// Refresher drops cached report data.
type Refresher interface {
	Clear()
}

type PageData struct {
	Title   string
	Icon    string
	Layout  string
	Tabs    []dashboard.TabInfo
	Current dashboard.Tab
	From    string
	To      string
	MaxDate string
	Notices []notice.Notice
	View    dashboard.View
	Error   string
	Detail  string
}

type Handler struct {
	builder   Builder
	refresher Refresher
	page      config.PageSettings
	templates *template.Template
}

func NewHandler(builder Builder, refresher Refresher, page config.PageSettings) (*Handler, error) {
	funcMap := template.FuncMap{
		"noticeClass": noticeClass,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		builder:   builder,
		refresher: refresher,
		page:      page,
		templates: tmpl,
	}, nil
}

// Static serves the embedded stylesheet and scripts.
func (h *Handler) Static() http.Handler {
	content, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(content))
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, tabURL(dashboard.TabOverview, r.URL.Query()), http.StatusFound)
}

func (h *Handler) ShowTab(w http.ResponseWriter, r *http.Request) {
	board := notice.NewBoard()
	ctx := notice.WithBoard(r.Context(), board)
	logger := zerolog.Ctx(ctx)

	tab, err := dashboard.ParseTab(chi.URLParam(r, "tab"))
	if err != nil {
		h.renderError(w, r, http.StatusNotFound, "Page not found", err.Error())
		return
	}

	q := r.URL.Query()
	period := h.builder.ResolveRange(ctx, q.Get("from"), q.Get("to"))

	view, err := h.builder.Build(ctx, tab, period)
	if err != nil {
		logger.Error().
			Err(err).
			Str("tab", string(tab)).
			Msg("failed to connect to GA4")
		h.renderError(w, r, http.StatusServiceUnavailable, credentialsErrorMessage, err.Error())
		return
	}

	if view.Empty() {
		logger.Debug().
			Str("tab", string(tab)).
			Str("period", period.String()).
			Msg("nothing to render for tab")
	}

	data := h.pageData(tab, period)
	data.View = view
	data.Notices = board.Notices()
	h.render(w, r, http.StatusOK, data)
}

// Refresh clears every cached report, not only the ones of the current tab,
// then sends the user back to where they were.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid refresh request", err.Error())
		return
	}

	tab, err := dashboard.ParseTab(r.PostForm.Get("tab"))
	if err != nil {
		tab = dashboard.TabOverview
	}

	h.refresher.Clear()
	logger.Info().Str("tab", string(tab)).Msg("report cache cleared")

	http.Redirect(w, r, tabURL(tab, r.PostForm), http.StatusSeeOther)
}

func (h *Handler) pageData(tab dashboard.Tab, period domain.DateRange) PageData {
	return PageData{
		Title:   h.page.Title,
		Icon:    h.page.Icon,
		Layout:  h.page.Layout,
		Tabs:    dashboard.Tabs(),
		Current: tab,
		From:    period.StartString(),
		To:      period.EndString(),
		MaxDate: h.builder.DefaultRange().EndString(),
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("template render error")
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message, detail string) {
	def := h.builder.DefaultRange()
	data := h.pageData(dashboard.TabOverview, def)
	data.Current = ""
	data.Error = message
	data.Detail = detail
	h.render(w, r, status, data)
}

// tabURL links to tab, carrying over only the selected date range.
func tabURL(tab dashboard.Tab, q url.Values) string {
	keep := url.Values{}
	for _, key := range []string{"from", "to"} {
		if v := q.Get(key); v != "" {
			keep.Set(key, v)
		}
	}
	u := url.URL{Path: "/dashboard/" + string(tab), RawQuery: keep.Encode()}
	return u.String()
}

func noticeClass(level notice.Level) string {
	switch level {
	case notice.LevelError:
		return "notice-error"
	case notice.LevelWarning:
		return "notice-warning"
	default:
		return "notice-info"
	}
}
