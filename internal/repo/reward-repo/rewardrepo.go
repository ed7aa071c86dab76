package rewardrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
)

const rewardColumns = `id, name, brand, category, cost, expires_at, active, max_redemptions, current_redemptions, code_validity_days`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// UpsertReward writes catalog fields and leaves current_redemptions alone.
func (r *Repository) UpsertReward(ctx context.Context, reward *domain.Reward) error {
	query := `
		INSERT INTO rewards (id, name, brand, category, cost, expires_at, active, max_redemptions, code_validity_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			cost = EXCLUDED.cost,
			expires_at = EXCLUDED.expires_at,
			active = EXCLUDED.active,
			max_redemptions = EXCLUDED.max_redemptions,
			code_validity_days = EXCLUDED.code_validity_days
	`
	_, err := r.db.Exec(ctx, query,
		reward.ID, reward.Name, reward.Brand, reward.Category, reward.Cost,
		reward.ExpiresAt, reward.Active, reward.MaxRedemptions, reward.CodeValidityDays,
	)
	if err != nil {
		zap.L().Error("can't upsert reward", zap.String("reward", reward.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) GetReward(ctx context.Context, rewardID string) (*domain.Reward, error) {
	return r.getReward(ctx, `SELECT `+rewardColumns+` FROM rewards WHERE id = $1`, rewardID)
}

// LockReward must run inside a transaction; the row stays locked until it ends.
func (r *Repository) LockReward(ctx context.Context, rewardID string) (*domain.Reward, error) {
	return r.getReward(ctx, `SELECT `+rewardColumns+` FROM rewards WHERE id = $1 FOR UPDATE`, rewardID)
}

func (r *Repository) getReward(ctx context.Context, query, rewardID string) (*domain.Reward, error) {
	reward, err := scanReward(r.db.QueryRow(ctx, query, rewardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't get reward", zap.String("reward", rewardID), zap.Error(err))
		return nil, err
	}
	return reward, nil
}

func (r *Repository) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	rows, err := r.db.Query(ctx, `SELECT `+rewardColumns+` FROM rewards ORDER BY id`)
	if err != nil {
		zap.L().Error("can't list rewards", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	rewards := make([]domain.Reward, 0)
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			zap.L().Error("can't scan reward row", zap.Error(err))
			return nil, err
		}
		rewards = append(rewards, *reward)
	}
	return rewards, rows.Err()
}

// IncrementRedemptions takes one unit of capacity. It reports false when the
// reward is sold out.
func (r *Repository) IncrementRedemptions(ctx context.Context, rewardID string) (bool, error) {
	query := `
		UPDATE rewards
		SET current_redemptions = current_redemptions + 1
		WHERE id = $1 AND (max_redemptions = 0 OR current_redemptions < max_redemptions)
	`
	tag, err := r.db.Exec(ctx, query, rewardID)
	if err != nil {
		zap.L().Error("can't increment redemptions", zap.String("reward", rewardID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanReward(row pgx.Row) (*domain.Reward, error) {
	var reward domain.Reward
	err := row.Scan(
		&reward.ID, &reward.Name, &reward.Brand, &reward.Category, &reward.Cost,
		&reward.ExpiresAt, &reward.Active, &reward.MaxRedemptions, &reward.CurrentRedemptions, &reward.CodeValidityDays,
	)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}
