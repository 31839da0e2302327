package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/pipeline"
	"market-summary-bot/internal/store"
	"market-summary-bot/internal/types"
)

// Server renders the market summary dashboard. All data fetching goes
// through the orchestrator, so repeat page loads are absorbed by the
// service caches instead of hammering the upstream APIs.
type Server struct {
	orch *pipeline.Orchestrator
	cfg  *store.Config
	tmpl *template.Template
}

func NewServer(orch *pipeline.Orchestrator, cfg *store.Config) *Server {
	return &Server{
		orch: orch,
		cfg:  cfg,
		tmpl: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// Handler returns the routing for the dashboard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/summary", s.handleSummary)
	return mux
}

// ListenAndServe runs the dashboard until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Dashboard.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info(ctx, "dashboard listening", "addr", srv.Addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// pageData is everything the template needs for one render.
type pageData struct {
	Query     string
	Tickers   string
	RangeDays int
	Headlines []types.Headline
	Quotes    []quoteView
	Errors    []string
	Summary   string
	Generated bool
}

type quoteView struct {
	Ticker    string
	Price     string
	ChangePct string
	Up        bool
	Chart     template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, false)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, r, true)
}

// render runs the pipeline for the requested tickers and renders the page.
// Failures are shown inline so the dashboard stays up through upstream
// outages.
func (s *Server) render(w http.ResponseWriter, r *http.Request, summarize bool) {
	query := formValue(r, "query", s.cfg.News.Query)
	tickersField := formValue(r, "tickers", strings.Join(s.cfg.Market.Tickers, ","))
	rangeDays := formInt(r, "range_days", s.cfg.Market.RangeDays)

	tickers := parseTickers(tickersField)
	data := pageData{
		Query:     query,
		Tickers:   strings.Join(tickers, ", "),
		RangeDays: rangeDays,
	}

	if len(tickers) == 0 {
		data.Errors = append(data.Errors, "enter at least one ticker")
		s.write(w, data)
		return
	}

	now := time.Now()
	req := pipeline.Request{
		Query:   query,
		Tickers: tickers,
		Range: &types.DateRange{
			From: now.AddDate(0, 0, -rangeDays),
			To:   now,
		},
	}

	res, err := s.orch.Run(r.Context(), req)
	if res != nil {
		data.Headlines = res.Headlines
		data.Quotes = quoteViews(res.Quotes)
		for ticker, terr := range res.QuoteErrors {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", ticker, terr))
		}
		sort.Strings(data.Errors)
		if summarize && err == nil {
			data.Summary = res.Summary.Text
			data.Generated = true
		}
	}
	if err != nil {
		logger.ErrorWithErr(r.Context(), "dashboard run failed", err)
		data.Errors = append(data.Errors, err.Error())
	}

	s.write(w, data)
}

func (s *Server) write(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		logger.ErrorWithErr(context.Background(), "template render failed", err)
	}
}

func formValue(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}

func formInt(r *http.Request, key string, fallback int) int {
	if v := r.FormValue(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func parseTickers(field string) []string {
	parts := strings.FieldsFunc(field, func(r rune) bool {
		return r == ',' || r == ' '
	})
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func quoteViews(quotes map[string]types.Quote) []quoteView {
	tickers := make([]string, 0, len(quotes))
	for t := range quotes {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	views := make([]quoteView, 0, len(tickers))
	for _, t := range tickers {
		q := quotes[t]
		views = append(views, quoteView{
			Ticker:    q.Ticker,
			Price:     fmt.Sprintf("%.2f %s", q.Price, q.Currency),
			ChangePct: fmt.Sprintf("%+.2f%%", q.ChangePct),
			Up:        q.ChangePct >= 0,
			Chart:     sparkline(q.Series),
		})
	}
	return views
}

// sparkline renders a close-price series as a small inline SVG polyline.
func sparkline(series []types.PricePoint) template.HTML {
	if len(series) < 2 {
		return ""
	}
	const width, height = 280.0, 60.0
	min, max := series[0].Close, series[0].Close
	for _, p := range series[1:] {
		if p.Close < min {
			min = p.Close
		}
		if p.Close > max {
			max = p.Close
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	var points []string
	step := width / float64(len(series)-1)
	for i, p := range series {
		x := float64(i) * step
		y := height - (p.Close-min)/span*height
		points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	svg := fmt.Sprintf(
		`<svg viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f"><polyline fill="none" stroke="currentColor" stroke-width="1.5" points="%s"/></svg>`,
		width, height, width, height, strings.Join(points, " "),
	)
	return template.HTML(svg)
}
