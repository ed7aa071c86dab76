package activityrepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// LockCompletions takes a transaction scoped advisory lock on the
// account and activity pair, so concurrent grants see each other's rows.
func (r *Repository) LockCompletions(ctx context.Context, accountID, activityID string) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1 || '/' || $2))`
	if _, err := r.db.Exec(ctx, query, accountID, activityID); err != nil {
		zap.L().Error("can't lock completions", zap.Error(err))
		return err
	}
	return nil
}

// CompletionStats counts completions overall and since dayStart.
func (r *Repository) CompletionStats(ctx context.Context, accountID, activityID string, dayStart time.Time) (domain.CompletionStats, error) {
	query := `
		SELECT count(*), count(*) FILTER (WHERE completed_at >= $3), max(completed_at)
		FROM activity_completions
		WHERE account_id = $1 AND activity_id = $2
	`
	var (
		stats domain.CompletionStats
		total int64
		today int64
	)
	err := r.db.QueryRow(ctx, query, accountID, activityID, dayStart).Scan(&total, &today, &stats.Last)
	if err != nil {
		zap.L().Error("can't get completion stats", zap.Error(err))
		return domain.CompletionStats{}, err
	}
	stats.Total = int(total)
	stats.Today = int(today)
	return stats, nil
}

func (r *Repository) AddCompletion(ctx context.Context, accountID, activityID string, points decimal.Decimal, at time.Time) error {
	query := `
		INSERT INTO activity_completions (account_id, activity_id, points, completed_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, query, accountID, activityID, points, at); err != nil {
		zap.L().Error("can't save completion", zap.Error(err))
		return err
	}
	return nil
}
