package market

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"kvadrat/server/config"
	"kvadrat/server/internal/analysis"
	"kvadrat/server/internal/forecast"
	"kvadrat/server/internal/ingest"
	"kvadrat/server/internal/models"
	"kvadrat/server/internal/sheets"
)

var (
	// ErrNotReady means no refresh has produced an analysis yet.
	ErrNotReady = errors.New("analysis not ready")

	// ErrUnknownClass means the requested class has no entities in the
	// current snapshot.
	ErrUnknownClass = errors.New("unknown housing class")
)

// Status is the refresh lifecycle state exposed to consumers.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher provides the raw sheet table for one refresh.
type Fetcher interface {
	FetchTable(ctx context.Context) (*sheets.Table, error)
}

// Service runs the sequential fetch, ingest, aggregate pass and holds
// the latest analysis snapshot. Each refresh builds a fully new set of
// derived structures; a newer refresh wins over a slower older one.
type Service struct {
	fetcher         Fetcher
	pipeline        *ingest.Pipeline
	aggregator      *analysis.Aggregator
	model           *forecast.Model
	logger          *logrus.Logger
	defaultActivity float64

	mu         sync.RWMutex
	status     Status
	analysis   *models.Analysis
	lastErr    error
	generation uint64
}

// NewService wires the pipeline stages from the application config.
func NewService(fetcher Fetcher, cfg *config.Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	pipeline := ingest.NewPipeline(ingest.Columns{
		Name:        cfg.Sheet.NameColumn,
		Class:       cfg.Sheet.ClassColumn,
		District:    cfg.Sheet.DistrictColumn,
		PricePrefix: cfg.Sheet.PricePrefix,
	}, logger)

	return &Service{
		fetcher:         fetcher,
		pipeline:        pipeline,
		aggregator:      analysis.NewAggregator(logger),
		model:           forecast.NewModel(),
		logger:          logger,
		defaultActivity: cfg.Forecast.MarketActivity,
		status:          StatusIdle,
	}
}

// Refresh runs one full pass. All escalated errors are terminal for
// this attempt; the only recovery path is another refresh.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.status = StatusLoading
	s.mu.Unlock()

	started := time.Now()

	table, err := s.fetcher.FetchTable(ctx)
	if err != nil {
		s.fail(gen, err)
		return err
	}

	dataset, err := s.pipeline.Ingest(table.Headers, table.Rows)
	if err != nil {
		s.fail(gen, err)
		return err
	}

	result := s.aggregator.Aggregate(dataset)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// A newer refresh superseded this one while it was running.
		s.logger.Debug("Discarding superseded refresh result")
		return nil
	}

	s.analysis = result
	s.status = StatusReady
	s.lastErr = nil

	s.logger.WithFields(logrus.Fields{
		"entities": len(result.AllEntities),
		"duration": time.Since(started).String(),
	}).Info("Refresh completed")

	return nil
}

func (s *Service) fail(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.status = StatusFailed
	s.lastErr = err
	s.logger.WithError(err).Error("Refresh failed")
}

// Analysis returns the latest snapshot, or ErrNotReady before the
// first successful refresh.
func (s *Service) Analysis() (*models.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.analysis == nil {
		return nil, ErrNotReady
	}
	return s.analysis, nil
}

// State is the queryable view of the refresh lifecycle.
type State struct {
	Status    string    `json:"status"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// CurrentState reports the lifecycle status, the last refresh error
// and the time of the last successful refresh.
func (s *Service) CurrentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := State{Status: s.status.String()}
	if s.lastErr != nil {
		state.LastError = s.lastErr.Error()
	}
	if s.analysis != nil {
		state.UpdatedAt = s.analysis.UpdatedAt
	}
	return state
}

// ClassForecast projects the class's current average price over the
// fixed horizons. A non-positive activity falls back to the configured
// default.
func (s *Service) ClassForecast(class string, activity float64) (*models.ClassForecast, error) {
	snapshot, err := s.Analysis()
	if err != nil {
		return nil, err
	}

	stats, ok := snapshot.ClassStats[class]
	if !ok {
		return nil, ErrUnknownClass
	}

	if activity <= 0 {
		activity = s.defaultActivity
	}

	return &models.ClassForecast{
		Class:    class,
		Current:  stats.AvgPrice,
		Count:    stats.Count,
		Trend:    stats.AvgTrend,
		Forecast: s.model.Forecast(float64(stats.AvgPrice), class, stats.AvgTrend, activity),
	}, nil
}
