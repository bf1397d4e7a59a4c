package analytics

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimdesk/claimdesk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) ClaimStats(ctx context.Context, days int) (*ClaimStats, error) {
	stats := &ClaimStats{PeriodDays: days, ClaimsByStatus: make(map[string]int)}

	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM((extracted_data->>'claim_amount')::numeric), 0),
			COALESCE(SUM((extracted_data->>'claim_amount')::numeric)
				FILTER (WHERE status IN ('approved', 'payment_processing', 'completed')), 0),
			COALESCE(AVG(estimated_processing_days), 0)
		FROM claims
		WHERE created_at >= NOW() - make_interval(days => $1)`, days).Scan(
		&stats.TotalClaims, &stats.TotalClaimAmount,
		&stats.ApprovedAmount, &stats.AverageProcessingDays)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT status, COUNT(*)
		FROM claims
		WHERE created_at >= NOW() - make_interval(days => $1)
		GROUP BY status`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ClaimsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalClaims > 0 {
		stats.RejectionRate = float64(stats.ClaimsByStatus["rejected"]) / float64(stats.TotalClaims)
	}
	return stats, nil
}

func (r *repoPG) UserStats(ctx context.Context) (*UserStats, error) {
	stats := &UserStats{UsersByRole: make(map[string]int)}

	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', NOW()))
		FROM users`).Scan(
		&stats.TotalUsers, &stats.ActiveUsers, &stats.NewRegistrationsThisMonth)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		stats.UsersByRole[role] = count
	}
	return stats, rows.Err()
}
