package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/domain"
	"github.com/civicsignal/econdash/internal/observability"
)

// Publisher receives every successfully fetched year result. Used for the
// optional Kafka snapshot sink; publish failures never fail a fetch.
type Publisher interface {
	PublishSnapshot(ctx context.Context, source catalog.Source, result domain.YearResult) error
}

// Progress is invoked after each year or comparison slot completes, letting
// the caller surface in-flight state between sequential fetches.
type Progress func(item string, err error)

// Service coordinates fetching across the registered source adapters.
type Service struct {
	fetchers  map[catalog.Source]domain.Fetcher
	publisher Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	served    atomic.Bool
}

// NewService wires the fetch service. publisher may be nil.
func NewService(fetchers []domain.Fetcher, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger) *Service {
	bySource := make(map[catalog.Source]domain.Fetcher, len(fetchers))
	for _, f := range fetchers {
		bySource[f.Source()] = f
	}
	return &Service{
		fetchers:  bySource,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// CheckReadiness reports nil once the service has completed at least one
// fetch, mirroring the readiness contract of the HTTP layer.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.served.Load() {
		return fmt.Errorf("no fetch completed yet")
	}
	return nil
}

// FetchYears fetches the requested years one at a time and aggregates the
// successes into a YearSeries.
//
// Validation failures abort before any upstream call. Per-year failures are
// collected; the returned error is a *domain.PartialFetchError listing them.
// Only when zero years succeed is the series empty. Callers treat a non-empty
// series with a non-nil error as partial success with a warning.
func (s *Service) FetchYears(ctx context.Context, source catalog.Source, loc domain.Location, years, codes []string, progress Progress) (domain.YearSeries, error) {
	fetcher, err := s.fetcher(source)
	if err != nil {
		return nil, err
	}
	if err := validateSelection(source, loc, years, codes); err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]domain.YearResult, 0, len(years))
	var failures []string

	for _, year := range years {
		result, err := fetcher.FetchYear(ctx, loc, year, codes)
		if progress != nil {
			progress(year, err)
		}
		if err != nil {
			s.logger.Warn("year fetch failed", "source", source, "year", year, "error", err)
			s.metrics.YearFailures.Inc()
			failures = append(failures, fmt.Sprintf("%s: %v", year, err))
			continue
		}
		s.metrics.YearsFetched.Inc()
		results = append(results, result)
		s.publish(ctx, source, result)
	}

	s.metrics.FetchDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())

	if len(results) == 0 {
		s.metrics.FetchRequests.WithLabelValues(string(source), "error").Inc()
		return nil, &domain.PartialFetchError{Failures: failures}
	}

	s.served.Store(true)
	if len(failures) > 0 {
		s.metrics.FetchRequests.WithLabelValues(string(source), "partial").Inc()
		return domain.Aggregate(results), &domain.PartialFetchError{Failures: failures}
	}
	s.metrics.FetchRequests.WithLabelValues(string(source), "success").Inc()
	return domain.Aggregate(results), nil
}

// FetchComparison fetches one year of data for every comparison slot, one
// slot at a time. A slot's failure fills its Err field and leaves Data nil
// without aborting the remaining slots.
func (s *Service) FetchComparison(ctx context.Context, source catalog.Source, slots []domain.ComparisonSlot, year string, codes []string, progress Progress) ([]domain.ComparisonSlot, error) {
	fetcher, err := s.fetcher(source)
	if err != nil {
		return nil, err
	}
	if err := validateComparison(slots, year, codes); err != nil {
		return nil, err
	}

	out := make([]domain.ComparisonSlot, len(slots))
	copy(out, slots)

	succeeded := 0
	for i := range out {
		out[i].Loading = false
		out[i].Err = ""
		out[i].Data = nil

		loc := domain.Location{
			StateCode:  out[i].StateCode,
			CountyFIPS: out[i].CountyFIPS,
			Name:       out[i].CountyName,
		}
		result, err := fetcher.FetchYear(ctx, loc, year, codes)
		if progress != nil {
			progress(out[i].CountyName, err)
		}
		if err != nil {
			s.logger.Warn("comparison slot fetch failed",
				"source", source, "county", out[i].CountyName, "year", year, "error", err)
			out[i].Err = err.Error()
			continue
		}
		out[i].Data = &result
		succeeded++
		s.publish(ctx, source, result)
	}

	if succeeded == 0 {
		s.metrics.FetchRequests.WithLabelValues(string(source), "error").Inc()
		return out, fmt.Errorf("all %d comparison counties failed", len(out))
	}
	s.served.Store(true)
	if succeeded < len(out) {
		s.metrics.FetchRequests.WithLabelValues(string(source), "partial").Inc()
	} else {
		s.metrics.FetchRequests.WithLabelValues(string(source), "success").Inc()
	}
	return out, nil
}

func (s *Service) fetcher(source catalog.Source) (domain.Fetcher, error) {
	fetcher, ok := s.fetchers[source]
	if !ok {
		return nil, &domain.ValidationError{Field: "source", Reason: fmt.Sprintf("unknown source %q", source)}
	}
	return fetcher, nil
}

func (s *Service) publish(ctx context.Context, source catalog.Source, result domain.YearResult) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSnapshot(ctx, source, result); err != nil {
		s.logger.Warn("snapshot publish failed",
			"source", source, "year", result.Year, "location", result.Location, "error", err)
		s.metrics.SnapshotErrors.Inc()
		return
	}
	s.metrics.SnapshotsPublished.Inc()
}

// validateSelection rejects incomplete selections before any network call.
// FRED series are national, so geography is not required for them.
func validateSelection(source catalog.Source, loc domain.Location, years, codes []string) error {
	if len(years) == 0 {
		return &domain.ValidationError{Field: "years", Reason: "select at least one year"}
	}
	if len(codes) == 0 {
		return &domain.ValidationError{Field: "variables", Reason: "select at least one variable"}
	}
	if source == catalog.SourceFRED {
		return nil
	}
	if loc.StateCode == "" {
		return &domain.ValidationError{Field: "state", Reason: "state is required"}
	}
	if loc.CountyFIPS == "" && source == catalog.SourceCensus {
		return &domain.ValidationError{Field: "county", Reason: "county is required"}
	}
	return nil
}

func validateComparison(slots []domain.ComparisonSlot, year string, codes []string) error {
	if len(slots) < domain.MinComparisonSlots || len(slots) > domain.MaxComparisonSlots {
		return &domain.ValidationError{
			Field:  "slots",
			Reason: fmt.Sprintf("comparison requires %d-%d counties, got %d", domain.MinComparisonSlots, domain.MaxComparisonSlots, len(slots)),
		}
	}
	if year == "" {
		return &domain.ValidationError{Field: "year", Reason: "year is required"}
	}
	if len(codes) == 0 {
		return &domain.ValidationError{Field: "variables", Reason: "select at least one variable"}
	}
	for _, slot := range slots {
		if slot.StateCode == "" || slot.CountyFIPS == "" {
			return &domain.ValidationError{Field: "slots", Reason: "every county needs state and county codes"}
		}
	}
	return nil
}
