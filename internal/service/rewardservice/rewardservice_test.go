package rewardservice

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/keylock"
	"github.com/GlebRadaev/rewardsengine/internal/notifier"
	memoryrepo "github.com/GlebRadaev/rewardsengine/internal/repo/memory-repo"
	"github.com/GlebRadaev/rewardsengine/internal/service/ledgerservice"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
	"github.com/GlebRadaev/rewardsengine/pkg/idgen"
	"github.com/GlebRadaev/rewardsengine/pkg/validate"
)

var start = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fixedCodes struct {
	idgen.UUID
}

func (fixedCodes) NewRedemptionCode(string) string {
	return "FIX-000000000000"
}

type fixture struct {
	svc    *Service
	store  *memoryrepo.Store
	ledger *ledgerservice.Service
	clock  *clock.Manual
}

func newFixture(t *testing.T, ids idgen.Generator, n notifier.Notifier) *fixture {
	t.Helper()
	store := memoryrepo.New()
	locks := keylock.New(time.Second)
	clk := clock.NewManual(start)
	ledger := ledgerservice.New(store, store, store.TXManager(), locks, clk, idgen.UUID{})
	svc := New(Deps{
		RewardRepo:     store,
		RedemptionRepo: store,
		Ledger:         ledger,
		TXManager:      store.TXManager(),
		Locks:          locks,
		Clock:          clk,
		IDs:            ids,
		Notifier:       n,
	})
	return &fixture{svc: svc, store: store, ledger: ledger, clock: clk}
}

func (f *fixture) seed(t *testing.T, rewards ...domain.Reward) {
	t.Helper()
	require.NoError(t, f.svc.SeedCatalog(context.Background(), rewards))
}

func (f *fixture) fund(t *testing.T, accountID string, points int64) {
	t.Helper()
	_, err := f.ledger.Append(context.Background(), accountID, domain.EntryEarned, decimal.NewFromInt(points), "seed", nil)
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.Balance(context.Background(), accountID)
	require.NoError(t, err)
	return b
}

func coffee() domain.Reward {
	return domain.Reward{
		ID:     "coffee",
		Name:   "Free coffee",
		Brand:  "Bean Street",
		Cost:   decimal.NewFromInt(300),
		Active: true,
	}
}

func TestService_SeedCatalog(t *testing.T) {
	f := newFixture(t, idgen.UUID{}, nil)
	ctx := context.Background()

	r := coffee()
	r.MaxRedemptions = 2
	f.seed(t, r)
	f.fund(t, "acc", 300)
	_, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)

	r.Name = "Free large coffee"
	f.seed(t, r)

	got, err := f.store.GetReward(ctx, "coffee")
	require.NoError(t, err)
	assert.Equal(t, "Free large coffee", got.Name)
	assert.Equal(t, 1, got.CurrentRedemptions)
	assert.Equal(t, 30, got.CodeValidityDays)
}

func TestService_Redeem(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := notifier.NewMockNotifier(ctrl)
	f := newFixture(t, idgen.UUID{}, n)
	ctx := context.Background()

	f.seed(t, coffee())
	f.fund(t, "acc", 500)

	n.EXPECT().Notify(gomock.Any(), "acc", domain.EventRewardRedeemed, gomock.Any())

	red, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)
	assert.Equal(t, "coffee", red.RewardID)
	assert.Equal(t, "acc", red.AccountID)
	assert.True(t, red.PointsSpent.Equal(decimal.NewFromInt(300)))
	assert.True(t, validate.IsRedemptionCode(red.Code), red.Code)
	assert.Equal(t, start, red.RedeemedAt)
	assert.Equal(t, start.AddDate(0, 0, 30), red.ExpiresAt)
	assert.False(t, red.Used)

	assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(200)))

	history, err := f.ledger.History(ctx, "acc")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.EntrySpent, history[1].Kind)
	assert.Equal(t, red.ID, history[1].Metadata["redemption_id"])

	reward, err := f.store.GetReward(ctx, "coffee")
	require.NoError(t, err)
	assert.Equal(t, 1, reward.CurrentRedemptions)

	list, err := f.svc.Redemptions(ctx, "acc")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, red.ID, list[0].ID)
}

func TestService_Redeem_ExpiryCappedByReward(t *testing.T) {
	f := newFixture(t, idgen.UUID{}, nil)
	ctx := context.Background()

	rewardEnds := start.Add(48 * time.Hour)
	r := coffee()
	r.ExpiresAt = &rewardEnds
	f.seed(t, r)
	f.fund(t, "acc", 300)

	red, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)
	assert.Equal(t, rewardEnds, red.ExpiresAt)
}

func TestService_Redeem_Rejections(t *testing.T) {
	past := start.Add(-time.Hour)

	tests := []struct {
		name     string
		reward   func() domain.Reward
		prepare  func(t *testing.T, f *fixture)
		rewardID string
		want     *domain.Reason
	}{
		{
			name:     "unknown reward",
			reward:   coffee,
			rewardID: "tea",
			want:     domain.ErrRewardUnavailable,
		},
		{
			name: "inactive",
			reward: func() domain.Reward {
				r := coffee()
				r.Active = false
				return r
			},
			rewardID: "coffee",
			want:     domain.ErrRewardUnavailable,
		},
		{
			name: "expired",
			reward: func() domain.Reward {
				r := coffee()
				r.ExpiresAt = &past
				return r
			},
			rewardID: "coffee",
			want:     domain.ErrRewardExpired,
		},
		{
			name: "sold out",
			reward: func() domain.Reward {
				r := coffee()
				r.MaxRedemptions = 1
				return r
			},
			prepare: func(t *testing.T, f *fixture) {
				f.fund(t, "someone", 300)
				_, err := f.svc.Redeem(context.Background(), "someone", "coffee")
				require.NoError(t, err)
			},
			rewardID: "coffee",
			want:     domain.ErrCapacityReached,
		},
		{
			name:     "not enough points",
			reward:   coffee,
			rewardID: "coffee",
			want:     domain.ErrInsufficientPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, idgen.UUID{}, nil)
			f.seed(t, tt.reward())
			f.fund(t, "acc", 100)
			if tt.prepare != nil {
				tt.prepare(t, f)
			}

			_, err := f.svc.Redeem(context.Background(), "acc", tt.rewardID)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(100)))

			list, err := f.svc.Redemptions(context.Background(), "acc")
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestService_Redeem_LastUnitUnderConcurrency(t *testing.T) {
	f := newFixture(t, idgen.UUID{}, nil)
	ctx := context.Background()

	r := coffee()
	r.MaxRedemptions = 1
	f.seed(t, r)

	const accounts = 10
	for i := 0; i < accounts; i++ {
		f.fund(t, "acc-"+strconv.Itoa(i), 1000)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []string
	)
	for i := 0; i < accounts; i++ {
		wg.Add(1)
		go func(accountID string) {
			defer wg.Done()
			_, err := f.svc.Redeem(ctx, accountID, "coffee")
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrCapacityReached)
				return
			}
			mu.Lock()
			succeeded = append(succeeded, accountID)
			mu.Unlock()
		}("acc-" + strconv.Itoa(i))
	}
	wg.Wait()

	require.Len(t, succeeded, 1)
	reward, err := f.store.GetReward(ctx, "coffee")
	require.NoError(t, err)
	assert.Equal(t, 1, reward.CurrentRedemptions)

	charged := 0
	for i := 0; i < accounts; i++ {
		if f.balance(t, "acc-"+strconv.Itoa(i)).Equal(decimal.NewFromInt(700)) {
			charged++
		}
	}
	assert.Equal(t, 1, charged)
}

func TestService_Redeem_CodeConflictRollsBack(t *testing.T) {
	f := newFixture(t, fixedCodes{}, nil)
	ctx := context.Background()

	f.seed(t, coffee())
	f.fund(t, "acc", 1000)

	_, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)

	_, err = f.svc.Redeem(ctx, "acc", "coffee")
	require.ErrorIs(t, err, domain.ErrCodeConflict)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(700)))
	reward, err := f.store.GetReward(ctx, "coffee")
	require.NoError(t, err)
	assert.Equal(t, 1, reward.CurrentRedemptions)
	list, err := f.svc.Redemptions(ctx, "acc")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_MarkUsed(t *testing.T) {
	f := newFixture(t, idgen.UUID{}, nil)
	ctx := context.Background()

	r := coffee()
	r.CodeValidityDays = 7
	f.seed(t, r)
	f.fund(t, "acc", 900)

	red, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	used, err := f.svc.MarkUsed(ctx, red.ID)
	require.NoError(t, err)
	assert.True(t, used.Used)
	require.NotNil(t, used.UsedAt)
	assert.Equal(t, start.Add(time.Hour), *used.UsedAt)

	_, err = f.svc.MarkUsed(ctx, red.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyUsed)

	_, err = f.svc.MarkUsed(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRedemptionNotFound)

	stale, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)
	f.clock.Advance(8 * 24 * time.Hour)
	_, err = f.svc.MarkUsed(ctx, stale.ID)
	assert.ErrorIs(t, err, domain.ErrRedemptionExpired)

	got, err := f.svc.GetRedemption(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, got.Used)
}

type malformedCodes struct {
	idgen.UUID
}

func (malformedCodes) NewRedemptionCode(string) string {
	return "BEAN-123456789012"
}

func TestService_Redeem_RejectsMalformedCode(t *testing.T) {
	f := newFixture(t, malformedCodes{}, nil)
	ctx := context.Background()

	require.False(t, validate.IsRedemptionCode(malformedCodes{}.NewRedemptionCode("")))
	f.seed(t, coffee())
	f.fund(t, "acc", 1000)

	_, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	assert.True(t, f.balance(t, "acc").Equal(decimal.NewFromInt(1000)))
	list, err := f.svc.Redemptions(ctx, "acc")
	require.NoError(t, err)
	assert.Empty(t, list)
}

// racingStore runs interleave between the redemption read and the update.
type racingStore struct {
	*memoryrepo.Store
	interleave func(redemptionID string)
}

func (r *racingStore) MarkRedemptionUsed(ctx context.Context, redemptionID string, at time.Time) (bool, error) {
	if r.interleave != nil {
		r.interleave(redemptionID)
	}
	return r.Store.MarkRedemptionUsed(ctx, redemptionID, at)
}

func TestService_MarkUsed_LostRace(t *testing.T) {
	tests := []struct {
		name       string
		interleave func(t *testing.T, f *fixture, redemptionID string)
		wantErr    error
	}{
		{
			name: "purged in between",
			interleave: func(t *testing.T, f *fixture, _ string) {
				_, err := f.store.DeleteExpiredRedemptions(context.Background(), start.AddDate(1, 0, 0))
				require.NoError(t, err)
			},
			wantErr: domain.ErrRedemptionNotFound,
		},
		{
			name: "used in between",
			interleave: func(t *testing.T, f *fixture, redemptionID string) {
				ok, err := f.store.MarkRedemptionUsed(context.Background(), redemptionID, start)
				require.NoError(t, err)
				require.True(t, ok)
			},
			wantErr: domain.ErrAlreadyUsed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, idgen.UUID{}, nil)
			ctx := context.Background()
			f.seed(t, coffee())
			f.fund(t, "acc", 1000)
			red, err := f.svc.Redeem(ctx, "acc", "coffee")
			require.NoError(t, err)

			racing := &racingStore{Store: f.store}
			racing.interleave = func(id string) { tt.interleave(t, f, id) }
			f.svc.RedemptionRepo = racing

			_, err = f.svc.MarkUsed(ctx, red.ID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_PurgeExpired(t *testing.T) {
	f := newFixture(t, idgen.UUID{}, nil)
	ctx := context.Background()

	r := coffee()
	r.CodeValidityDays = 1
	f.seed(t, r)
	f.fund(t, "acc", 900)

	used, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)
	_, err = f.svc.MarkUsed(ctx, used.ID)
	require.NoError(t, err)
	expired, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)

	f.clock.Advance(12 * time.Hour)
	fresh, err := f.svc.Redeem(ctx, "acc", "coffee")
	require.NoError(t, err)

	f.clock.Advance(13 * time.Hour)
	n, err := f.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.svc.GetRedemption(ctx, expired.ID)
	assert.ErrorIs(t, err, domain.ErrRedemptionNotFound)
	_, err = f.svc.GetRedemption(ctx, used.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetRedemption(ctx, fresh.ID)
	assert.NoError(t, err)

	assert.True(t, f.balance(t, "acc").IsZero())
	history, err := f.ledger.History(ctx, "acc")
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestService_AvailableRewards(t *testing.T) {
	f := newFixture(t, idgen.UUID{}, nil)
	past := start.Add(-time.Minute)
	future := start.Add(time.Hour)

	inactive := coffee()
	inactive.ID, inactive.Active = "a-inactive", false
	expired := coffee()
	expired.ID, expired.ExpiresAt = "b-expired", &past
	soldOut := coffee()
	soldOut.ID, soldOut.MaxRedemptions = "c-sold-out", 1
	open := coffee()
	open.ID, open.ExpiresAt = "d-open", &future
	f.seed(t, inactive, expired, soldOut, open)

	f.fund(t, "acc", 300)
	_, err := f.svc.Redeem(context.Background(), "acc", "c-sold-out")
	require.NoError(t, err)

	rewards, err := f.svc.AvailableRewards(context.Background())
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, "d-open", rewards[0].ID)
}

func TestService_CheckInThenRedeemTooExpensive(t *testing.T) {
	f := newFixture(t, idgen.UUID{}, nil)
	ctx := context.Background()

	r := coffee()
	r.Cost = decimal.NewFromInt(500)
	f.seed(t, r)
	f.fund(t, "A", 50)

	_, err := f.svc.Redeem(ctx, "A", "coffee")
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	assert.True(t, f.balance(t, "A").Equal(decimal.NewFromInt(50)))
}
