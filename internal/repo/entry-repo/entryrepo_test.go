package entryrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func TestRepository_CreateEntry(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("INSERT INTO ledger_entries (id, account_id, kind, amount, balance_after, source, metadata, created_at)")
	entry := func() *domain.LedgerEntry {
		return &domain.LedgerEntry{
			ID:           "e-1",
			AccountID:    "acc-1",
			Kind:         domain.EntryEarned,
			Amount:       decimal.NewFromInt(50),
			BalanceAfter: decimal.NewFromInt(50),
			Source:       "Daily check-in",
			CreatedAt:    at,
		}
	}

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
	}{
		{
			name: "saved",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).
					WithArgs("e-1", "acc-1", "earned", pgxmock.AnyArg(), pgxmock.AnyArg(), "Daily check-in", domain.Metadata{}, at).
					WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(7)))
			},
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).
					WithArgs("e-1", "acc-1", "earned", pgxmock.AnyArg(), pgxmock.AnyArg(), "Daily check-in", domain.Metadata{}, at).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)
			created, err := repo.CreateEntry(context.Background(), entry())
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), created.Seq)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_ListEntries(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT seq, id, account_id, kind, amount, balance_after, source, metadata, created_at FROM ledger_entries WHERE account_id = $1 ORDER BY seq")
	columns := []string{"seq", "id", "account_id", "kind", "amount", "balance_after", "source", "metadata", "created_at"}

	t.Run("entries in order", func(t *testing.T) {
		repo, mock := NewMock(t)
		rows := pgxmock.NewRows(columns).
			AddRow(int64(1), "e-1", "acc-1", domain.EntryEarned, decimal.NewFromInt(50), decimal.NewFromInt(50), "Daily check-in", domain.Metadata{}, at).
			AddRow(int64(2), "e-2", "acc-1", domain.EntrySpent, decimal.NewFromInt(-20), decimal.NewFromInt(30), "Coffee", domain.Metadata{"reward_id": "r-1"}, at)
		mock.ExpectQuery(query).WithArgs("acc-1").WillReturnRows(rows)

		entries, err := repo.ListEntries(context.Background(), "acc-1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, domain.EntrySpent, entries[1].Kind)
		assert.Equal(t, "-20", entries[1].Amount.String())
		assert.Equal(t, "r-1", entries[1].Metadata["reward_id"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(query).WithArgs("acc-1").WillReturnError(errors.New("database error"))
		_, err := repo.ListEntries(context.Background(), "acc-1")
		assert.Error(t, err)
	})

	t.Run("scan error", func(t *testing.T) {
		repo, mock := NewMock(t)
		rows := pgxmock.NewRows(columns).
			AddRow(int64(1), "e-1", "acc-1", domain.EntryEarned, decimal.NewFromInt(50), decimal.NewFromInt(50), "x", domain.Metadata{}, at).
			RowError(0, errors.New("broken row"))
		mock.ExpectQuery(query).WithArgs("acc-1").WillReturnRows(rows)
		_, err := repo.ListEntries(context.Background(), "acc-1")
		assert.Error(t, err)
	})
}
