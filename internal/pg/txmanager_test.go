package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTXManager_Begin(t *testing.T) {
	errFn := errors.New("fn failed")
	tests := []struct {
		name        string
		prepareMock func(mock pgxmock.PgxPoolIface)
		fn          TransactionalFn
		wantErr     error
	}{
		{
			name: "commit",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE accounts").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "rollback on error",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE accounts").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectRollback()
			},
			wantErr: errFn,
		},
		{
			name: "begin fails",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("no connection"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.prepareMock(mock)

			conn := New(mock)
			txm := NewTXManager(mock)
			err = txm.Begin(context.Background(), func(ctx context.Context) error {
				if _, err := conn.Exec(ctx, "UPDATE accounts SET balance = 0"); err != nil {
					return err
				}
				return tt.wantErr
			})

			switch {
			case tt.name == "begin fails":
				assert.ErrorContains(t, err, "begin transaction")
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTXManager_NestedJoins(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	txm := NewTXManager(mock)
	calls := 0
	err = txm.Begin(context.Background(), func(ctx context.Context) error {
		return txm.Begin(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
