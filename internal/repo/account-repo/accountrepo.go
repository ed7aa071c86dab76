package accountrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

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

// LockAccount must run inside a transaction; the row stays locked until it ends.
func (r *Repository) LockAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := r.db.Exec(ctx, `INSERT INTO accounts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, accountID); err != nil {
		zap.L().Error("failed to create account", zap.Error(err))
		return decimal.Zero, err
	}
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&balance)
	if err != nil {
		zap.L().Error("failed to lock account", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *Repository) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = now()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, balance, accountID)
	if err != nil {
		zap.L().Error("failed to update account balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() != 1 {
		return errors.New("account not found: " + accountID)
	}
	return nil
}

func (r *Repository) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		zap.L().Error("failed to get account balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}
