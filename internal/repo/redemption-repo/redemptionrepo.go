package redemptionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
)

const redemptionColumns = `id, reward_id, account_id, points_spent, code, redeemed_at, expires_at, used, used_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// CreateRedemption returns domain.ErrCodeTaken when the code already exists.
// The conflict is absorbed by the statement so the surrounding transaction
// stays usable for a retry.
func (r *Repository) CreateRedemption(ctx context.Context, redemption *domain.Redemption) error {
	query := `
		INSERT INTO redemptions (id, reward_id, account_id, points_spent, code, redeemed_at, expires_at, used, used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO NOTHING
		RETURNING id
	`
	var id string
	err := r.db.QueryRow(ctx, query,
		redemption.ID, redemption.RewardID, redemption.AccountID, redemption.PointsSpent, redemption.Code,
		redemption.RedeemedAt, redemption.ExpiresAt, redemption.Used, redemption.UsedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCodeTaken
		}
		zap.L().Error("can't save redemption", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) GetRedemption(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	row := r.db.QueryRow(ctx, `SELECT `+redemptionColumns+` FROM redemptions WHERE id = $1`, redemptionID)
	redemption, err := scanRedemption(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find redemption", zap.Error(err))
		return nil, err
	}
	return redemption, nil
}

func (r *Repository) ListRedemptions(ctx context.Context, accountID string) ([]domain.Redemption, error) {
	query := `
        SELECT ` + redemptionColumns + `
        FROM redemptions
        WHERE account_id = $1
        ORDER BY redeemed_at DESC, id
    `
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		zap.L().Error("can't get redemptions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	redemptions := make([]domain.Redemption, 0)
	for rows.Next() {
		redemption, err := scanRedemption(rows)
		if err != nil {
			zap.L().Error("can't scan redemption row", zap.Error(err))
			return nil, err
		}
		redemptions = append(redemptions, *redemption)
	}
	return redemptions, rows.Err()
}

// MarkRedemptionUsed flips the used flag once. It reports false when the
// redemption is missing or was already used.
func (r *Repository) MarkRedemptionUsed(ctx context.Context, redemptionID string, at time.Time) (bool, error) {
	query := `
		UPDATE redemptions
		SET used = TRUE, used_at = $2
		WHERE id = $1 AND NOT used
	`
	tag, err := r.db.Exec(ctx, query, redemptionID, at)
	if err != nil {
		zap.L().Error("can't mark redemption used", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) DeleteExpiredRedemptions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM redemptions WHERE NOT used AND expires_at <= $1`, now)
	if err != nil {
		zap.L().Error("can't purge expired redemptions", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRedemption(row pgx.Row) (*domain.Redemption, error) {
	var red domain.Redemption
	err := row.Scan(&red.ID, &red.RewardID, &red.AccountID, &red.PointsSpent, &red.Code,
		&red.RedeemedAt, &red.ExpiresAt, &red.Used, &red.UsedAt)
	if err != nil {
		return nil, err
	}
	return &red, nil
}
