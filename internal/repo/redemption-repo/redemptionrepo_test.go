package redemptionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
)

var columns = []string{"id", "reward_id", "account_id", "points_spent", "code", "redeemed_at", "expires_at", "used", "used_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func TestRepository_CreateRedemption(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("INSERT INTO redemptions") + ".*" + regexp.QuoteMeta("ON CONFLICT (code) DO NOTHING RETURNING id")
	red := &domain.Redemption{
		ID: "red-1", RewardID: "coffee", AccountID: "acc-1", PointsSpent: decimal.NewFromInt(100),
		Code: "BEAN-123456789012", RedeemedAt: at, ExpiresAt: at.AddDate(0, 0, 30),
	}

	anyArgs := make([]any, 9)
	for i := range anyArgs {
		anyArgs[i] = pgxmock.AnyArg()
	}

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
		anyErr    bool
	}{
		{
			name: "saved",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).
					WithArgs("red-1", "coffee", "acc-1", pgxmock.AnyArg(), "BEAN-123456789012", at, at.AddDate(0, 0, 30), false, pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("red-1"))
			},
		},
		{
			name: "code taken",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(anyArgs...).WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrCodeTaken,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(anyArgs...).WillReturnError(errors.New("database error"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)
			err := repo.CreateRedemption(context.Background(), red)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, domain.ErrCodeTaken)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetRedemption(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	usedAt := at.Add(time.Hour)
	query := regexp.QuoteMeta("FROM redemptions WHERE id = $1")

	t.Run("found", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(query).WithArgs("red-1").WillReturnRows(pgxmock.NewRows(columns).
			AddRow("red-1", "coffee", "acc-1", decimal.NewFromInt(100), "BEAN-1", at, at.AddDate(0, 0, 30), true, &usedAt))
		red, err := repo.GetRedemption(context.Background(), "red-1")
		require.NoError(t, err)
		assert.True(t, red.Used)
		assert.Equal(t, &usedAt, red.UsedAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(query).WithArgs("nope").WillReturnError(pgx.ErrNoRows)
		red, err := repo.GetRedemption(context.Background(), "nope")
		assert.NoError(t, err)
		assert.Nil(t, red)
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(query).WithArgs("red-1").WillReturnError(errors.New("database error"))
		_, err := repo.GetRedemption(context.Background(), "red-1")
		assert.Error(t, err)
	})
}

func TestRepository_ListRedemptions(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM redemptions WHERE account_id = $1 ORDER BY redeemed_at DESC, id")

	repo, mock := NewMock(t)
	mock.ExpectQuery(query).WithArgs("acc-1").WillReturnRows(pgxmock.NewRows(columns).
		AddRow("red-2", "tea", "acc-1", decimal.NewFromInt(50), "T-2", at.Add(time.Hour), at.AddDate(0, 0, 30), false, nil).
		AddRow("red-1", "coffee", "acc-1", decimal.NewFromInt(100), "B-1", at, at.AddDate(0, 0, 30), false, nil))

	list, err := repo.ListRedemptions(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "red-2", list[0].ID)
	assert.Nil(t, list[0].UsedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkRedemptionUsed(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("UPDATE redemptions SET used = TRUE, used_at = $2 WHERE id = $1 AND NOT used")

	tests := []struct {
		name string
		rows int64
		err  error
		want bool
	}{
		{name: "marked", rows: 1, want: true},
		{name: "already used", rows: 0},
		{name: "database error", err: errors.New("database error")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			exp := mock.ExpectExec(query).WithArgs("red-1", at)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("UPDATE", tt.rows))
			}
			ok, err := repo.MarkRedemptionUsed(context.Background(), "red-1", at)
			if tt.err != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRepository_DeleteExpiredRedemptions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("DELETE FROM redemptions WHERE NOT used AND expires_at <= $1")

	repo, mock := NewMock(t)
	mock.ExpectExec(query).WithArgs(now).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	n, err := repo.DeleteExpiredRedemptions(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
