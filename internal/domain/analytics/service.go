package analytics

import (
	"context"

	"github.com/rs/zerolog"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

const (
	DefaultPeriodDays = 30
	MaxPeriodDays     = 365
)

// ClaimStats aggregates claims created in the last days days. Out-of-range
// values fall back to the default window.
func (s *Service) ClaimStats(ctx context.Context, days int) (*ClaimStats, error) {
	if days <= 0 || days > MaxPeriodDays {
		days = DefaultPeriodDays
	}
	return s.repo.ClaimStats(ctx, days)
}

func (s *Service) UserStats(ctx context.Context) (*UserStats, error) {
	return s.repo.UserStats(ctx)
}
