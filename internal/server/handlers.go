package server

import (
	"bytes"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
	"github.com/sanspareilsmyn/orderlens/internal/pipeline"
	orender "github.com/sanspareilsmyn/orderlens/internal/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, dataset.Summarize(ds))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, report)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := orender.WriteHTML(&buf, report); err != nil {
		s.logger.Error("Failed to render dashboard", zap.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	ds, err := s.loader.Load(r.Context(), s.source)
	if err != nil {
		s.logger.Error("Dataset unavailable", zap.String("source", s.source), zap.Error(err))
		s.writeError(w, r, http.StatusServiceUnavailable, err)
		return nil, false
	}
	return ds, true
}

// report resolves the start and end query parameters against the loaded
// dataset and runs the reporter. An inverted range is not an error here.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (*pipeline.Report, bool) {
	ds, ok := s.load(w, r)
	if !ok {
		return nil, false
	}

	q := r.URL.Query()
	rng, err := pipeline.ParseDayRange(ds, s.reporter.FilterField(), q.Get("start"), q.Get("end"), s.boundary)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, false
	}

	report, err := s.reporter.Run(ds, rng)
	if err != nil {
		s.logger.Error("Report generation failed", zap.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, err)
		return nil, false
	}
	return report, true
}
