package entryrepo

import (
	"context"

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

func (r *Repository) CreateEntry(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	query := `
		INSERT INTO ledger_entries (id, account_id, kind, amount, balance_after, source, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq
	`
	metadata := entry.Metadata
	if metadata == nil {
		metadata = domain.Metadata{}
	}
	err := r.db.QueryRow(ctx, query,
		entry.ID, entry.AccountID, string(entry.Kind), entry.Amount, entry.BalanceAfter,
		entry.Source, metadata, entry.CreatedAt,
	).Scan(&entry.Seq)
	if err != nil {
		zap.L().Error("can't save ledger entry", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func (r *Repository) ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	query := `
        SELECT seq, id, account_id, kind, amount, balance_after, source, metadata, created_at
        FROM ledger_entries
        WHERE account_id = $1
        ORDER BY seq
    `
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		zap.L().Error("failed to fetch ledger entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var e domain.LedgerEntry
		err := rows.Scan(&e.Seq, &e.ID, &e.AccountID, &e.Kind, &e.Amount, &e.BalanceAfter, &e.Source, &e.Metadata, &e.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan ledger entry row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("failed to iterate ledger entries", zap.Error(err))
		return nil, err
	}
	return entries, nil
}
