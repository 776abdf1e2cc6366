package analytics

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stellarplus/docsearch/internal/metrics"
)

// settings are shared by Tracker and History
type settings struct {
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*settings)

// WithClock overrides the time source used for event timestamps
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithIDGenerator overrides UUID event ids
func WithIDGenerator(newID func() string) Option {
	return func(s *settings) { s.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMetrics counts persistence failures on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

func newSettings(opts []Option) settings {
	s := settings{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
