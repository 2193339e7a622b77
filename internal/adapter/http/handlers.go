package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/domain"
	"github.com/civicsignal/econdash/internal/export"
	"github.com/civicsignal/econdash/internal/report"
	"github.com/civicsignal/econdash/internal/session"
)

// fetchParams holds the decoded query parameters shared by the data, chart,
// export, and report endpoints.
type fetchParams struct {
	source catalog.Source
	loc    domain.Location
	years  []string
	codes  []string
}

func parseFetchParams(r *http.Request, source string) fetchParams {
	q := r.URL.Query()
	return fetchParams{
		source: catalog.Source(source),
		loc: domain.Location{
			StateCode:  q.Get("state"),
			CountyFIPS: q.Get("county"),
			Name:       q.Get("location"),
		},
		years: splitParam(q.Get("years")),
		codes: splitParam(q.Get("vars")),
	}
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// fetchSeries runs the fetch and maps errors onto HTTP semantics: 400 for
// validation, 502 for total upstream failure, partial success passes through
// with a warning string. Returns ok=false after writing the error response.
func (s *Server) fetchSeries(w http.ResponseWriter, r *http.Request, p fetchParams) (domain.YearSeries, string, bool) {
	series, err := s.service.FetchYears(r.Context(), p.source, p.loc, p.years, p.codes, nil)

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, err)
		return nil, "", false
	}
	if err != nil && len(series) == 0 {
		writeError(w, http.StatusBadGateway, err)
		return nil, "", false
	}

	var warning string
	if err != nil {
		warning = err.Error()
	}
	return series, warning, true
}

// fetchSession resolves a request to a dashboard session. A valid session
// query parameter returns the stored fetch, so view switches (table to chart
// to export to report) reuse the fetched results. Otherwise the selection is
// fetched and stored as a new session. Returns ok=false after writing the
// error response.
func (s *Server) fetchSession(w http.ResponseWriter, r *http.Request, p fetchParams) (*session.Session, bool) {
	if raw := r.URL.Query().Get("session"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			if sess, ok := s.sessions.Get(id); ok {
				return sess, true
			}
		}
		// Unknown or expired session: fall through and fetch fresh.
	}

	series, warning, ok := s.fetchSeries(w, r, p)
	if !ok {
		return nil, false
	}

	sess := session.NewSession(p.source, p.loc, p.years, p.codes)
	sess.Results = series
	sess.Warnings = warning
	s.sessions.Save(sess)
	return sess, true
}

// handleCatalog returns the variable categories for a source.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	source := catalog.Source(r.URL.Query().Get("source"))
	categories := catalog.Categories(source)
	if categories == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown source %q", source))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"source": source, "categories": categories})
}

// handleData returns the aggregated year series plus per-year table groups.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	p := parseFetchParams(r, r.PathValue("source"))
	sess, ok := s.fetchSession(w, r, p)
	if !ok {
		return
	}

	tables := make(map[string][]domain.CategoryGroup, len(sess.Results))
	for _, result := range sess.Results {
		tables[result.Year] = domain.CategoryGroups(result)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": sess.ID,
		"series":    sess.Results,
		"tables":    tables,
		"warning":   sess.Warnings,
	})
}

// handleChart returns transformed chart rows plus the renderer config map.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := parseFetchParams(r, q.Get("source"))
	sess, ok := s.fetchSession(w, r, p)
	if !ok {
		return
	}

	opts := domain.ChartOptions{
		Normalize:     q.Get("normalize") == "true",
		PercentChange: q.Get("percentChange") == "true",
	}
	rows := domain.ToChartRows(sess.Results, sess.Codes, opts)

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": sess.ID,
		"rows":      rows,
		"config":    s.index.ChartConfig(sess.Codes),
		"warning":   sess.Warnings,
	})
}

// handleCorrelate pairs one variable from each of two sources across their
// common years.
func (s *Server) handleCorrelate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pa := parseFetchParams(r, q.Get("sourceA"))
	pa.codes = splitParam(q.Get("varA"))
	pb := parseFetchParams(r, q.Get("sourceB"))
	pb.codes = splitParam(q.Get("varB"))

	if len(pa.codes) != 1 || len(pb.codes) != 1 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("varA and varB must each name exactly one variable"))
		return
	}

	seriesA, warnA, ok := s.fetchSeries(w, r, pa)
	if !ok {
		return
	}
	seriesB, warnB, ok := s.fetchSeries(w, r, pb)
	if !ok {
		return
	}

	points := domain.PairByYear(seriesA, seriesB, pa.codes[0], pb.codes[0])

	warning := strings.TrimSpace(strings.Join([]string{warnA, warnB}, "\n"))
	writeJSON(w, http.StatusOK, map[string]any{
		"points":     points,
		"sufficient": len(points) > 0,
		"warning":    warning,
		"codeA":      pa.codes[0],
		"codeB":      pb.codes[0],
	})
}

// handleCompare fetches each county slot, then returns the slots with gap
// analysis between the first two counties with data and the radar rows.
//
// Slots arrive as repeated slot=state:county:name parameters.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year := q.Get("year")
	codes := splitParam(q.Get("vars"))

	var slots []domain.ComparisonSlot
	for _, raw := range q["slot"] {
		parts := strings.SplitN(raw, ":", 3)
		slot := domain.ComparisonSlot{}
		if len(parts) > 0 {
			slot.StateCode = parts[0]
		}
		if len(parts) > 1 {
			slot.CountyFIPS = parts[1]
		}
		if len(parts) > 2 {
			slot.CountyName = parts[2]
		}
		if slot.CountyName == "" {
			slot.CountyName = slot.StateCode + "-" + slot.CountyFIPS
		}
		slots = append(slots, slot)
	}

	source := catalog.Source(q.Get("source"))
	if source == "" {
		source = catalog.SourceCensus
	}

	fetched, err := s.service.FetchComparison(r.Context(), source, slots, year, codes, nil)
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	var gaps []domain.GapRecord
	if first, second, ok := firstTwoWithData(fetched); ok {
		gaps = domain.GapAnalysis(first, second, codes)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slots": fetched,
		"gaps":  gaps,
		"radar": domain.NormalizeForRadar(fetched, codes),
	})
}

func firstTwoWithData(slots []domain.ComparisonSlot) (domain.ComparisonSlot, domain.ComparisonSlot, bool) {
	var withData []domain.ComparisonSlot
	for _, slot := range slots {
		if slot.Data != nil {
			withData = append(withData, slot)
			if len(withData) == 2 {
				return withData[0], withData[1], true
			}
		}
	}
	return domain.ComparisonSlot{}, domain.ComparisonSlot{}, false
}

// handleExportCSV streams the chart rows of the selection as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := parseFetchParams(r, q.Get("source"))
	sess, ok := s.fetchSession(w, r, p)
	if !ok {
		return
	}

	opts := domain.ChartOptions{
		Normalize:     q.Get("normalize") == "true",
		PercentChange: q.Get("percentChange") == "true",
	}
	rows := domain.ToChartRows(sess.Results, sess.Codes, opts)

	labels := make(map[string]string, len(sess.Codes))
	for code, style := range s.index.ChartConfig(sess.Codes) {
		labels[code] = style.Label
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="econdash-export.csv"`)
	if err := export.ChartRows(w, rows, sess.Codes, labels); err != nil {
		s.logger.Error("csv export failed", "error", err)
	}
}

// handleReport fetches the selection and returns generated report content.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := report.Kind(q.Get("kind"))

	switch kind {
	case report.KindCensus, report.KindFRED, report.KindHUD, report.KindVisualization:
		p := parseFetchParams(r, string(sourceForKind(kind, q.Get("source"))))
		sess, ok := s.fetchSession(w, r, p)
		if !ok {
			return
		}
		content := s.reports.Build(report.Payload{
			Kind:     kind,
			Location: sess.Location.Name,
			Series:   sess.Results,
		})
		writeJSON(w, http.StatusOK, map[string]any{
			"sessionId": sess.ID,
			"content":   content,
			"warning":   sess.Warnings,
		})
	case report.KindComparison:
		writeError(w, http.StatusBadRequest, fmt.Errorf("comparison reports are built from /api/v1/compare results"))
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown report kind %q", kind))
	}
}

// sourceForKind maps the single-source report kinds onto their data source;
// visualization reports carry an explicit source parameter.
func sourceForKind(kind report.Kind, explicit string) catalog.Source {
	switch kind {
	case report.KindCensus:
		return catalog.SourceCensus
	case report.KindFRED:
		return catalog.SourceFRED
	case report.KindHUD:
		return catalog.SourceHUD
	default:
		return catalog.Source(explicit)
	}
}
