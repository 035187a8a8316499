package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/breedlens/internal/analysis"
	"github.com/KaramelBytes/breedlens/internal/charts"
	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/export"
	"github.com/KaramelBytes/breedlens/internal/filter"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options controls presentation details of the dashboard.
type Options struct {
	ChartSize      charts.Size
	ExportFilename string
	// PageSize caps the rows rendered in the dataset table; 0 means all.
	PageSize     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the dashboard over one immutable dataset.
type Server struct {
	ds     *dataset.Dataset
	opt    Options
	log    *zap.Logger
	tmpl   *template.Template
	bounds map[filter.Field]filter.Range
}

// New builds a server for ds. A nil logger disables logging.
func New(ds *dataset.Dataset, opt Options, log *zap.Logger) (*Server, error) {
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opt.ExportFilename == "" {
		opt.ExportFilename = export.DefaultFilename
	}
	if opt.ChartSize.Width <= 0 || opt.ChartSize.Height <= 0 {
		opt.ChartSize = charts.Size{Width: 900, Height: 480}
	}
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"measure": func(m dataset.Measure) string { return m.String() },
		"fmtnum":  func(v float64) string { return fmt.Sprintf("%g", v) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{ds: ds, opt: opt, log: log, tmpl: tmpl, bounds: filter.AllBounds(ds)}, nil
}

// Handler returns the HTTP routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /download", s.handleDownload)
	mux.HandleFunc("GET /charts/{name}", s.handleChart)
	mux.HandleFunc("GET /api/records", s.handleRecords)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return s.withRequestLog(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opt.ReadTimeout,
		WriteTimeout: s.opt.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Dashboard listening", zap.String("addr", addr), zap.Int("records", s.ds.Len()))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		s.log.Info("Shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// filtered parses the sidebar criteria and applies them.
func (s *Server) filtered(r *http.Request) (filter.Criteria, filter.View, error) {
	c, err := ParseCriteria(r.URL.Query(), s.bounds)
	if err != nil {
		return c, filter.View{}, err
	}
	return c, filter.Apply(s.ds, c), nil
}

type rangeInput struct {
	Label     string
	Prefix    string
	Bounds    filter.Range
	HasBounds bool
	Active    *filter.Range
}

type indexPage struct {
	Source        string
	Total         int
	Duplicates    int
	Filtered      int
	Groups        []string
	Group         string
	Ranges        []rangeInput
	Breeds        []string
	Selected      map[string]bool
	Unknown       bool
	Rows          []dataset.Record
	Truncated     bool
	Query         template.URL // encoded sidebar filters
	FilterParams  map[string][]string
	ExportName    string
	Report        *analysis.Report
	Compare       []dataset.Record
	CompareSel    map[string]bool
	CompareNotice string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c, view, err := s.filtered(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := r.URL.Query()
	page := indexPage{
		Source:       s.ds.Source(),
		Total:        s.ds.Len(),
		Duplicates:   s.ds.Duplicates(),
		Filtered:     view.Len(),
		Groups:       filter.GroupOptions(s.ds),
		Group:        c.Group,
		Breeds:       filter.BreedOptions(s.ds),
		Selected:     map[string]bool{},
		Unknown:      includeUnknown(q),
		Query:        template.URL(filterQuery(q).Encode()),
		FilterParams: filterQuery(q),
		ExportName:   s.opt.ExportFilename,
		CompareSel:   map[string]bool{},
	}
	if page.Group == "" {
		page.Group = filter.AllGroups
	}
	for _, b := range c.Breeds {
		page.Selected[b] = true
	}
	for _, f := range filter.Fields {
		b, ok := s.bounds[f]
		active := c.RangeFor(f)
		// a range at its full bounds renders empty, as if unset
		if active != nil && ok && *active == b {
			active = nil
		}
		page.Ranges = append(page.Ranges, rangeInput{
			Label:     f.Label(),
			Prefix:    rangeParams[f],
			Bounds:    b,
			HasBounds: ok,
			Active:    active,
		})
	}
	recs := view.Records()
	page.Rows = recs
	if s.opt.PageSize > 0 && len(recs) > s.opt.PageSize {
		page.Rows = recs[:s.opt.PageSize]
		page.Truncated = true
	}
	page.Report = analysis.Describe(s.ds.Source(), s.ds.Len(), recs)

	sel := q["compare"]
	if len(sel) == 0 {
		sel = filter.DefaultComparison(s.ds)
	}
	for _, b := range sel {
		page.CompareSel[b] = true
	}
	if cmpView, err := filter.Compare(s.ds, sel); err != nil {
		page.CompareNotice = err.Error()
	} else {
		page.Compare = cmpView.Records()
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		s.log.Error("Render index failed", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	_, view, err := s.filtered(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, view.Records()); err != nil {
		s.log.Error("Export failed", zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.opt.ExportFilename))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	_, view, err := s.filtered(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	recs := view.Records()
	name := r.PathValue("name")
	var buf bytes.Buffer
	switch name {
	case "box.png":
		err = charts.Render(&buf, charts.BoxChart(recs, s.opt.ChartSize))
	case "height.png", "weight.png":
		spec := charts.Scatters[name[:len(name)-len(".png")]]
		err = charts.Render(&buf, charts.ScatterChart(recs, spec, s.opt.ChartSize))
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error("Chart render failed", zap.String("chart", name), zap.Error(err))
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

type recordsResponse struct {
	Total    int              `json:"total"`
	Filtered int              `json:"filtered"`
	Records  []dataset.Record `json:"records"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	_, view, err := s.filtered(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp := recordsResponse{Total: s.ds.Len(), Filtered: view.Len(), Records: view.Records()}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("Encode records failed", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.log.Debug("Request served",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)))
	})
}
