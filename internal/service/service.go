// Package service holds the sprint business rules: the lifecycle guards, the
// close-time reconciliation, the create/start/move wizards and the derived
// metrics. Every mutating action runs inside exactly one database transaction.
package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/database"
)

// Service implements the sprint actions on top of a Database.
type Service struct {
	db              *database.Database
	logger          *zap.Logger
	now             func() time.Time
	loc             *time.Location
	months          [12]string
	defaultDuration string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone generated sprint names are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLocale selects the month table used for generated sprint names.
func WithLocale(locale string) Option {
	return func(s *Service) {
		s.months = MonthNames(locale)
	}
}

// WithDefaultDuration sets the wizard duration used when a request leaves it empty.
func WithDefaultDuration(duration string) Option {
	return func(s *Service) {
		if duration != "" {
			s.defaultDuration = duration
		}
	}
}

func New(db *database.Database, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		db:              db,
		logger:          logger,
		now:             time.Now,
		loc:             time.Local,
		months:          MonthNames(config.DefaultLocale),
		defaultDuration: config.DurationTwoWeeks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying database.
func (s *Service) DB() *database.Database {
	return s.db
}
