package stakerepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
)

const positionColumns = `id, account_id, principal, tier, apy, lock_days, started_at, release_at, status, closed_at, reward`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CreatePosition(ctx context.Context, p *domain.StakePosition) error {
	query := `
		INSERT INTO stake_positions (id, account_id, principal, tier, apy, lock_days, started_at, release_at, status, reward)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.AccountID, p.Principal, p.Tier, p.APY, p.LockDays, p.StartedAt, p.ReleaseAt, string(p.Status), p.Reward,
	)
	if err != nil {
		zap.L().Error("can't save stake position", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (*domain.StakePosition, error) {
	row := r.db.QueryRow(ctx, `SELECT `+positionColumns+` FROM stake_positions WHERE id = $1`, positionID)
	p, err := scanPosition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find stake position", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) ListActivePositions(ctx context.Context, accountID string) ([]domain.StakePosition, error) {
	query := `
        SELECT ` + positionColumns + `
        FROM stake_positions
        WHERE account_id = $1 AND status = 'active'
        ORDER BY started_at, id
    `
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		zap.L().Error("can't get stake positions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	positions := make([]domain.StakePosition, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			zap.L().Error("can't scan stake position row", zap.Error(err))
			return nil, err
		}
		positions = append(positions, *p)
	}
	return positions, rows.Err()
}

// ClosePosition moves an active position to closed. It reports false when the
// position was already closed by someone else.
func (r *Repository) ClosePosition(ctx context.Context, positionID string, closedAt time.Time, reward decimal.Decimal) (bool, error) {
	query := `
		UPDATE stake_positions
		SET status = 'closed', closed_at = $2, reward = $3
		WHERE id = $1 AND status = 'active'
	`
	tag, err := r.db.Exec(ctx, query, positionID, closedAt, reward)
	if err != nil {
		zap.L().Error("can't close stake position", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanPosition(row pgx.Row) (*domain.StakePosition, error) {
	var p domain.StakePosition
	err := row.Scan(&p.ID, &p.AccountID, &p.Principal, &p.Tier, &p.APY, &p.LockDays,
		&p.StartedAt, &p.ReleaseAt, &p.Status, &p.ClosedAt, &p.Reward)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
