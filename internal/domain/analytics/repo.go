package analytics

import "context"

// Repository runs the aggregate queries. Stats are computed in the database;
// nothing is cached.
type Repository interface {
	ClaimStats(ctx context.Context, days int) (*ClaimStats, error)
	UserStats(ctx context.Context) (*UserStats, error)
}
