// Package dashboard implements the filter → aggregate → link pipeline of
// KeyIP-Dashboard.  Filter, TopApplicants, StageCounts, YearlyPublications
// and BuildLinks are pure functions over a patent.Dataset; Service wires
// them to a dataset source, logging and metrics for one refresh cycle.
package dashboard

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/turtacn/KeyIP-Dashboard/internal/domain/patent"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// DatasetLoader reads and validates a Dataset from a source.
type DatasetLoader interface {
	Load(ctx context.Context, src dataset.Source) (*patent.Dataset, error)
}

// MetricsRecorder receives refresh telemetry.  Implementations must be safe
// for concurrent use.
type MetricsRecorder interface {
	ObserveRefresh(source, status string, elapsed time.Duration)
	ObserveSnapshot(source string, snap *Snapshot)
}

// Service runs refresh cycles.
type Service interface {
	// Refresh loads in.Source and computes a Snapshot.  A nil source (or one
	// that reports dataset.ErrNoInput) yields an awaiting-input Snapshot and
	// no error.  Load failures are returned as *errors.AppError and no
	// partial Snapshot is produced.
	Refresh(ctx context.Context, in *RefreshInput) (*Snapshot, error)
}

// RefreshInput carries everything one refresh depends on.
type RefreshInput struct {
	Source      dataset.Source
	Selection   FilterSelection
	StripPrefix bool
	// TopN limits TopApplicants; non-positive means DefaultTopN.
	TopN int
}

// Refresh status labels.
const (
	statusOK       = "ok"
	statusError    = "error"
	statusAwaiting = "awaiting_input"
)

type service struct {
	loader  DatasetLoader
	metrics MetricsRecorder
	logger  logging.Logger
	now     func() time.Time
}

// Option customises NewService.
type Option func(*service)

// WithMetrics attaches a MetricsRecorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the clock used for Snapshot.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a dashboard Service.
func NewService(loader DatasetLoader, logger logging.Logger, opts ...Option) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &service{
		loader:  loader,
		metrics: nopMetrics{},
		logger:  logger.Named("dashboard"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Refresh(ctx context.Context, in *RefreshInput) (*Snapshot, error) {
	start := time.Now()

	if in == nil || in.Source == nil {
		s.metrics.ObserveRefresh("none", statusAwaiting, time.Since(start))
		return AwaitingInput(s.now()), nil
	}
	kind := in.Source.Kind()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "refresh cancelled")
	}

	ds, err := s.loader.Load(ctx, in.Source)
	if err != nil {
		if stderrors.Is(err, dataset.ErrNoInput) {
			s.metrics.ObserveRefresh(kind, statusAwaiting, time.Since(start))
			return AwaitingInput(s.now()), nil
		}
		s.metrics.ObserveRefresh(kind, statusError, time.Since(start))
		s.logger.Warn("dataset load failed",
			logging.String("source", kind),
			logging.String("name", in.Source.Name()),
			logging.String("code", errors.GetCode(err).String()),
			logging.Err(err))
		return nil, err
	}

	snap := Compute(ds, in.Selection, ComputeOptions{StripPrefix: in.StripPrefix, TopN: in.TopN})
	snap.Source = kind
	snap.GeneratedAt = s.now()

	elapsed := time.Since(start)
	s.metrics.ObserveRefresh(kind, statusOK, elapsed)
	s.metrics.ObserveSnapshot(kind, snap)
	s.logger.Debug("refresh completed",
		logging.String("source", kind),
		logging.Int("records", snap.TotalRecords),
		logging.Int("filtered", snap.FilteredRecords),
		logging.Int("undated", snap.UndatedCount),
		logging.Duration("elapsed", elapsed))
	return snap, nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveRefresh(string, string, time.Duration) {}
func (nopMetrics) ObserveSnapshot(string, *Snapshot)             {}

//Personal.AI order the ending
