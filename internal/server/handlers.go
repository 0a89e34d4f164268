package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hupe1980/pokedash/internal/aggregate"
	"github.com/hupe1980/pokedash/internal/dashboard"
	"github.com/hupe1980/pokedash/internal/filter"
	"github.com/hupe1980/pokedash/internal/logging"
	"github.com/hupe1980/pokedash/internal/pokedex"
	"github.com/hupe1980/pokedash/internal/render"
	"github.com/hupe1980/pokedash/internal/version"
)

type creaturesResponse struct {
	Count     int           `json:"count"`
	Creatures []pokedex.Row `json:"creatures"`
}

type reloadResponse struct {
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loadedAt"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Loaded  bool   `json:"loaded"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeView(w, r, "html")
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = "json"
	}

	s.writeView(w, r, name)
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, format string) {
	f, err := s.formats.Format(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	v, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf, v); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.MediaType)
	_, _ = w.Write(buf.Bytes())

	logging.FromContext(r.Context()).Debug("rendered dashboard",
		slog.String("format", f.Name),
		slog.Int("count", v.Count),
		slog.Any("filters", v.Active),
	)
}

func (s *Server) handleCreatures(w http.ResponseWriter, r *http.Request) {
	full, c, err := s.criteria(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rows := filter.Apply(full, c).Rows()
	writeJSON(w, http.StatusOK, creaturesResponse{Count: len(rows), Creatures: rows})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	full, err := s.cache.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard.OptionsFor(full))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	v, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := mux.Vars(r)["name"]

	c, ok := v.Chart(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown chart " + name})
		return
	}

	svg, err := render.SVG(c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	t, err := s.cache.Reload(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reloadResponse{Rows: t.Len(), LoadedAt: s.cache.LoadedAt()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.GetInfo().Version,
		Loaded:  s.cache.Loaded(),
	})
}

// criteria loads the table and parses the filter from the query string.
// Half-open Total bounds are completed from the data.
func (s *Server) criteria(r *http.Request) (*pokedex.Table, filter.Criteria, error) {
	full, err := s.cache.Get(r.Context())
	if err != nil {
		return nil, filter.Criteria{}, err
	}

	var bounds filter.Range
	if lo, hi, err := aggregate.Bounds(full, pokedex.Total); err == nil {
		bounds = filter.Range{Lo: lo, Hi: hi}
	}

	c, err := filter.FromQuery(r.URL.Query(), bounds)
	if err != nil {
		return nil, filter.Criteria{}, err
	}

	return full, c, nil
}

func (s *Server) view(r *http.Request) (*dashboard.View, error) {
	full, c, err := s.criteria(r)
	if err != nil {
		return nil, err
	}

	return dashboard.Build(full, c)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pokedex.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, pokedex.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.Int("status", status), slog.String("error", err.Error()))
	} else {
		logger.Warn("bad request", slog.String("error", err.Error()))
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
