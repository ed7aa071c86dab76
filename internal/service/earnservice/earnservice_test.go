package earnservice

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/keylock"
	"github.com/GlebRadaev/rewardsengine/internal/notifier"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
	activityrepo "github.com/GlebRadaev/rewardsengine/internal/repo/activity-repo"
	memoryrepo "github.com/GlebRadaev/rewardsengine/internal/repo/memory-repo"
	"github.com/GlebRadaev/rewardsengine/internal/service/ledgerservice"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
	"github.com/GlebRadaev/rewardsengine/pkg/idgen"
)

// Friday.
var start = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

var activities = []domain.Activity{
	{ID: "sign-up", Name: "Account created", Category: "onboarding", Points: decimal.NewFromInt(100)},
	{ID: "daily-check-in", Name: "Daily check-in", Category: "engagement", Points: decimal.NewFromInt(50), Repeatable: true, MaxPerDay: 1},
	{ID: "verify", Name: "Product verified", Category: "authentication", Points: decimal.NewFromInt(20), Repeatable: true, MaxPerDay: 3},
	{ID: "share", Name: "Product shared", Category: "social", Points: decimal.NewFromInt(10), Repeatable: true, CooldownMinutes: 30},
}

type fixture struct {
	svc    *Service
	ledger *ledgerservice.Service
	clock  *clock.Manual
}

func newFixture(t *testing.T, bonuses []domain.BonusRule, n notifier.Notifier) *fixture {
	t.Helper()
	store := memoryrepo.New()
	locks := keylock.New(time.Second)
	clk := clock.NewManual(start)
	ledger := ledgerservice.New(store, store, store.TXManager(), locks, clk, idgen.UUID{})
	svc := New(activities, bonuses, Deps{
		Completions: store,
		Ledger:      ledger,
		TXManager:   store.TXManager(),
		Locks:       locks,
		Clock:       clk,
		Notifier:    n,
	})
	return &fixture{svc: svc, ledger: ledger, clock: clk}
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.Balance(context.Background(), accountID)
	require.NoError(t, err)
	return b
}

func TestService_Grant(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	grant, err := f.svc.Grant(ctx, "acc", "daily-check-in", domain.Metadata{"device": "nfc"})
	require.NoError(t, err)
	assert.True(t, grant.Points.Equal(decimal.NewFromInt(50)))
	assert.True(t, grant.Base.Equal(decimal.NewFromInt(50)))
	assert.Empty(t, grant.Bonuses)
	require.NotNil(t, grant.Entry)
	assert.Equal(t, domain.EntryEarned, grant.Entry.Kind)
	assert.Equal(t, "Daily check-in", grant.Entry.Source)
	assert.Equal(t, "daily-check-in", grant.Entry.Metadata["activity_id"])
	assert.Equal(t, "nfc", grant.Entry.Metadata["device"])
	assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(50)))
}

func TestService_Grant_Validation(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.svc.Grant(context.Background(), "acc", "missing", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownActivity)

	_, err = f.svc.Grant(context.Background(), "", "sign-up", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownAccount)
}

func TestService_Grant_NonRepeatableIsIdempotent(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, "acc", "sign-up", nil)
	require.NoError(t, err)

	f.clock.Advance(72 * time.Hour)
	_, err = f.svc.Grant(ctx, "acc", "sign-up", nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	assert.Equal(t, domain.KindPolicyViolation, domain.KindOf(err))

	assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(100)))
	history, err := f.ledger.History(ctx, "acc")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = f.svc.Grant(ctx, "other", "sign-up", nil)
	assert.NoError(t, err)
}

func TestService_Grant_DailyCap(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	var granted, capped int
	for i := 0; i < 5; i++ {
		_, err := f.svc.Grant(ctx, "acc", "verify", nil)
		if err == nil {
			granted++
			continue
		}
		require.ErrorIs(t, err, domain.ErrDailyLimitReached)
		capped++
	}
	assert.Equal(t, 3, granted)
	assert.Equal(t, 2, capped)
	assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(60)))

	f.clock.Set(time.Date(2024, 3, 2, 0, 0, 1, 0, time.UTC))
	_, err := f.svc.Grant(ctx, "acc", "verify", nil)
	assert.NoError(t, err)
}

func TestService_Grant_DailyCapUnderConcurrency(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Grant(ctx, "acc", "verify", nil); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, granted)
	assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(60)))
}

func TestService_Grant_Cooldown(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, "acc", "share", nil)
	require.NoError(t, err)

	f.clock.Advance(10*time.Minute + 30*time.Second)
	_, err = f.svc.Grant(ctx, "acc", "share", nil)
	require.ErrorIs(t, err, domain.ErrCooldownActive)
	assert.Contains(t, err.Error(), "20 minutes")

	f.clock.Advance(19*time.Minute + 30*time.Second)
	_, err = f.svc.Grant(ctx, "acc", "share", nil)
	assert.NoError(t, err)
}

func TestService_Grant_DayBoundaryUsesLocation(t *testing.T) {
	store := memoryrepo.New()
	locks := keylock.New(time.Second)
	// 23:30 in UTC is already the next day in Tokyo.
	clk := clock.NewManual(time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC))
	tokyo := time.FixedZone("JST", 9*60*60)
	ledger := ledgerservice.New(store, store, store.TXManager(), locks, clk, idgen.UUID{})
	svc := New(activities, nil, Deps{
		Completions: store,
		Ledger:      ledger,
		TXManager:   store.TXManager(),
		Locks:       locks,
		Clock:       clk,
		Location:    tokyo,
	})
	ctx := context.Background()

	_, err := svc.Grant(ctx, "acc", "daily-check-in", nil)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	_, err = svc.Grant(ctx, "acc", "daily-check-in", nil)
	assert.NoError(t, err)

	clk.Advance(time.Hour)
	_, err = svc.Grant(ctx, "acc", "daily-check-in", nil)
	assert.ErrorIs(t, err, domain.ErrDailyLimitReached)
}

func TestService_Grant_Bonuses(t *testing.T) {
	bonuses := []domain.BonusRule{
		{Name: "weekend", Category: "authentication", Weekdays: []time.Weekday{time.Saturday, time.Sunday}, Multiplier: decimal.RequireFromString("1.5")},
		{Name: "first of day", ActivityID: "verify", FirstOfDay: true, Addend: decimal.NewFromInt(5)},
	}
	f := newFixture(t, bonuses, nil)
	ctx := context.Background()

	grant, err := f.svc.Grant(ctx, "acc", "verify", nil)
	require.NoError(t, err)
	assert.True(t, grant.Points.Equal(decimal.NewFromInt(25)))
	require.Len(t, grant.Bonuses, 1)
	assert.Equal(t, "first of day", grant.Bonuses[0].Rule)

	grant, err = f.svc.Grant(ctx, "acc", "verify", nil)
	require.NoError(t, err)
	assert.True(t, grant.Points.Equal(decimal.NewFromInt(20)))

	f.clock.Set(time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC))
	grant, err = f.svc.Grant(ctx, "acc", "verify", nil)
	require.NoError(t, err)
	// 20 base + 10 weekend + 5 first of day
	assert.True(t, grant.Points.Equal(decimal.NewFromInt(35)), grant.Points.String())
	assert.Len(t, grant.Bonuses, 2)

	grant, err = f.svc.Grant(ctx, "acc", "daily-check-in", nil)
	require.NoError(t, err)
	assert.True(t, grant.Points.Equal(decimal.NewFromInt(50)))
}

func TestService_Grant_Notifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := notifier.NewMockNotifier(ctrl)
	f := newFixture(t, nil, n)

	n.EXPECT().Notify(gomock.Any(), "acc", domain.EventPointsEarned, gomock.Any()).
		Do(func(_ context.Context, _ string, _ domain.EventKind, payload map[string]any) {
			assert.Equal(t, "daily-check-in", payload["activity_id"])
			assert.Equal(t, "50", payload["points"])
		})

	_, err := f.svc.Grant(context.Background(), "acc", "daily-check-in", nil)
	require.NoError(t, err)

	// rejected grants stay silent
	_, err = f.svc.Grant(context.Background(), "acc", "daily-check-in", nil)
	assert.Error(t, err)
}

func TestService_AvailableActivities(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, "acc", "sign-up", nil)
	require.NoError(t, err)
	_, err = f.svc.Grant(ctx, "acc", "share", nil)
	require.NoError(t, err)

	statuses, err := f.svc.AvailableActivities(ctx, "acc")
	require.NoError(t, err)
	require.Len(t, statuses, len(activities))

	byID := make(map[string]domain.ActivityStatus)
	for i, s := range statuses {
		assert.Equal(t, activities[i].ID, s.Activity.ID)
		byID[s.Activity.ID] = s
	}

	assert.False(t, byID["sign-up"].CanEarnNow)
	assert.Equal(t, "already_completed", byID["sign-up"].Reason)
	assert.False(t, byID["share"].CanEarnNow)
	assert.Equal(t, "cooldown_active", byID["share"].Reason)
	assert.NotEmpty(t, byID["share"].Message)
	assert.True(t, byID["verify"].CanEarnNow)
	assert.True(t, byID["verify"].PointsNow.Equal(decimal.NewFromInt(20)))

	// read-only
	assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(110)))
}

func TestService_Activity(t *testing.T) {
	f := newFixture(t, nil, nil)

	a, ok := f.svc.Activity("share")
	assert.True(t, ok)
	assert.Equal(t, 30, a.CooldownMinutes)

	_, ok = f.svc.Activity("missing")
	assert.False(t, ok)
}

func TestService_Grant_RoundsBonusesToLedgerPrecision(t *testing.T) {
	bonuses := []domain.BonusRule{
		{Name: "boost", Category: "authentication", Multiplier: decimal.RequireFromString("1.3333")},
	}
	f := newFixture(t, bonuses, nil)

	grant, err := f.svc.Grant(context.Background(), "acc", "verify", nil)
	require.NoError(t, err)
	require.Len(t, grant.Bonuses, 1)
	assert.Equal(t, "6.67", grant.Bonuses[0].Points.String())
	assert.Equal(t, "26.67", grant.Points.String())
	assert.True(t, f.balance(t, "acc").Equal(grant.Points))
}

type ledgerFunc func(ctx context.Context, accountID string, kind domain.EntryKind, amount decimal.Decimal, source string, metadata domain.Metadata) (*domain.LedgerEntry, error)

func (f ledgerFunc) Append(ctx context.Context, accountID string, kind domain.EntryKind, amount decimal.Decimal, source string, metadata domain.Metadata) (*domain.LedgerEntry, error) {
	return f(ctx, accountID, kind, amount, source, metadata)
}

func TestService_Grant_LocksCompletionsBeforeReadingStats(t *testing.T) {
	lockQuery := regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1 || '/' || $2))")
	statsQuery := regexp.QuoteMeta("FROM activity_completions WHERE account_id = $1 AND activity_id = $2")
	insertQuery := regexp.QuoteMeta("INSERT INTO activity_completions (account_id, activity_id, points, completed_at)")
	dayStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		prepareMock func(mock pgxmock.PgxPoolIface)
		expectErr   error
	}{
		{
			name: "granted",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(lockQuery).WithArgs("acc", "daily-check-in").WillReturnResult(pgxmock.NewResult("SELECT", 1))
				mock.ExpectQuery(statsQuery).WithArgs("acc", "daily-check-in", dayStart).
					WillReturnRows(pgxmock.NewRows([]string{"count", "count", "max"}).AddRow(int64(0), int64(0), nil))
				mock.ExpectExec(insertQuery).WithArgs("acc", "daily-check-in", pgxmock.AnyArg(), start).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "cap reached after waiting for the lock",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				last := start.Add(-time.Minute)
				mock.ExpectExec(lockQuery).WithArgs("acc", "daily-check-in").WillReturnResult(pgxmock.NewResult("SELECT", 1))
				mock.ExpectQuery(statsQuery).WithArgs("acc", "daily-check-in", dayStart).
					WillReturnRows(pgxmock.NewRows([]string{"count", "count", "max"}).AddRow(int64(1), int64(1), &last))
			},
			expectErr: domain.ErrDailyLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mockDB.Close()
			tt.prepareMock(mockDB)

			tx := pg.NewMockTXManager(ctrl)
			tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
				return fn(ctx)
			})
			ledger := ledgerFunc(func(_ context.Context, accountID string, kind domain.EntryKind, amount decimal.Decimal, source string, metadata domain.Metadata) (*domain.LedgerEntry, error) {
				return &domain.LedgerEntry{ID: "e1", AccountID: accountID, Kind: kind, Amount: amount, BalanceAfter: amount, Source: source, Metadata: metadata}, nil
			})
			svc := New(activities, nil, Deps{
				Completions: activityrepo.New(mockDB),
				Ledger:      ledger,
				TXManager:   tx,
				Locks:       keylock.New(time.Second),
				Clock:       clock.NewManual(start),
			})

			grant, err := svc.Grant(context.Background(), "acc", "daily-check-in", nil)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				require.NoError(t, err)
				assert.True(t, grant.Points.Equal(decimal.NewFromInt(50)))
			}
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}
