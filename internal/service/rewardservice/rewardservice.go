package rewardservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/keylock"
	"github.com/GlebRadaev/rewardsengine/internal/metrics"
	"github.com/GlebRadaev/rewardsengine/internal/notifier"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
	"github.com/GlebRadaev/rewardsengine/pkg/idgen"
	"github.com/GlebRadaev/rewardsengine/pkg/validate"
)

const (
	codeAttempts        = 5
	defaultValidityDays = 30
)

type RewardRepo interface {
	UpsertReward(ctx context.Context, reward *domain.Reward) error
	GetReward(ctx context.Context, rewardID string) (*domain.Reward, error)
	LockReward(ctx context.Context, rewardID string) (*domain.Reward, error)
	ListRewards(ctx context.Context) ([]domain.Reward, error)
	IncrementRedemptions(ctx context.Context, rewardID string) (bool, error)
}

type RedemptionRepo interface {
	CreateRedemption(ctx context.Context, redemption *domain.Redemption) error
	GetRedemption(ctx context.Context, redemptionID string) (*domain.Redemption, error)
	ListRedemptions(ctx context.Context, accountID string) ([]domain.Redemption, error)
	MarkRedemptionUsed(ctx context.Context, redemptionID string, at time.Time) (bool, error)
	DeleteExpiredRedemptions(ctx context.Context, now time.Time) (int64, error)
}

type Ledger interface {
	Append(ctx context.Context, accountID string, kind domain.EntryKind, amount decimal.Decimal, source string, metadata domain.Metadata) (*domain.LedgerEntry, error)
	Balance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

type Deps struct {
	RewardRepo     RewardRepo
	RedemptionRepo RedemptionRepo
	Ledger         Ledger
	TXManager      pg.TXManager
	Locks          *keylock.Locker
	Clock          clock.Clock
	IDs            idgen.Generator
	Notifier       notifier.Notifier
}

type Service struct {
	Deps
}

func New(deps Deps) *Service {
	if deps.Notifier == nil {
		deps.Notifier = notifier.Nop{}
	}
	return &Service{Deps: deps}
}

// SeedCatalog upserts catalog rewards without touching redemption counters.
func (s *Service) SeedCatalog(ctx context.Context, rewards []domain.Reward) error {
	return s.TXManager.Begin(ctx, func(ctx context.Context) error {
		for i := range rewards {
			r := rewards[i]
			if r.CodeValidityDays <= 0 {
				r.CodeValidityDays = defaultValidityDays
			}
			if err := s.RewardRepo.UpsertReward(ctx, &r); err != nil {
				return fmt.Errorf("seed reward %s: %w", r.ID, err)
			}
		}
		zap.L().Info("reward catalog seeded", zap.Int("rewards", len(rewards)))
		return nil
	})
}

// Redeem spends points on a reward and issues a unique code. Nothing is
// written unless every step succeeds.
func (s *Service) Redeem(ctx context.Context, accountID, rewardID string) (*domain.Redemption, error) {
	if accountID == "" {
		return nil, domain.Fail(domain.ErrUnknownAccount, "account id is required")
	}

	ctx, unlock, err := s.Locks.Lock(ctx, keylock.AccountKey(accountID), keylock.RewardKey(rewardID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var redemption *domain.Redemption
	err = s.TXManager.Begin(ctx, func(ctx context.Context) error {
		now := s.Clock.Now()
		reward, err := s.RewardRepo.LockReward(ctx, rewardID)
		if err != nil {
			return fmt.Errorf("load reward: %w", err)
		}
		switch {
		case reward == nil || !reward.Active:
			return domain.Fail(domain.ErrRewardUnavailable, "reward %q is not available", rewardID)
		case reward.Expired(now):
			return domain.Fail(domain.ErrRewardExpired, "%s expired", reward.Name)
		case !reward.HasCapacity():
			return domain.Fail(domain.ErrCapacityReached, "%s is sold out", reward.Name)
		}

		balance, err := s.Ledger.Balance(ctx, accountID)
		if err != nil {
			return fmt.Errorf("load balance: %w", err)
		}
		if balance.LessThan(reward.Cost) {
			return domain.Fail(domain.ErrInsufficientPoints, "%s costs %s points, balance is %s", reward.Name, reward.Cost, balance)
		}

		redemption, err = s.issue(ctx, accountID, reward, now)
		if err != nil {
			return err
		}

		_, err = s.Ledger.Append(ctx, accountID, domain.EntrySpent, reward.Cost, reward.Name, domain.Metadata{
			"reward_id":     reward.ID,
			"redemption_id": redemption.ID,
		})
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return domain.Fail(domain.ErrInsufficientPoints, "%s costs %s points", reward.Name, reward.Cost)
		}
		if err != nil {
			return err
		}

		ok, err := s.RewardRepo.IncrementRedemptions(ctx, reward.ID)
		if err != nil {
			return fmt.Errorf("increment redemptions: %w", err)
		}
		if !ok {
			return domain.Fail(domain.ErrCapacityReached, "%s is sold out", reward.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("reward redeemed",
		zap.String("account", accountID),
		zap.String("reward", rewardID),
		zap.String("redemption", redemption.ID))
	metrics.Redemptions.WithLabelValues(rewardID).Inc()
	s.Notifier.Notify(ctx, accountID, domain.EventRewardRedeemed, map[string]any{
		"reward_id":     rewardID,
		"redemption_id": redemption.ID,
		"code":          redemption.Code,
		"points_spent":  redemption.PointsSpent.String(),
	})
	return redemption, nil
}

// issue stores a redemption, drawing a new code while the previous one is taken.
func (s *Service) issue(ctx context.Context, accountID string, reward *domain.Reward, now time.Time) (*domain.Redemption, error) {
	validity := reward.CodeValidityDays
	if validity <= 0 {
		validity = defaultValidityDays
	}
	expiresAt := now.AddDate(0, 0, validity)
	if reward.ExpiresAt != nil && reward.ExpiresAt.Before(expiresAt) {
		expiresAt = *reward.ExpiresAt
	}

	red := &domain.Redemption{
		ID:          s.IDs.NewID(),
		RewardID:    reward.ID,
		AccountID:   accountID,
		PointsSpent: reward.Cost,
		RedeemedAt:  now,
		ExpiresAt:   expiresAt,
	}
	for attempt := 1; attempt <= codeAttempts; attempt++ {
		red.Code = s.IDs.NewRedemptionCode(reward.Brand)
		if !validate.IsRedemptionCode(red.Code) {
			zap.L().Error("generated malformed redemption code", zap.String("reward", reward.ID), zap.String("code", red.Code))
			return nil, fmt.Errorf("malformed redemption code %q", red.Code)
		}
		err := s.RedemptionRepo.CreateRedemption(ctx, red)
		if err == nil {
			return red, nil
		}
		if !errors.Is(err, domain.ErrCodeTaken) {
			return nil, fmt.Errorf("create redemption: %w", err)
		}
		zap.L().Warn("redemption code collision", zap.String("reward", reward.ID), zap.Int("attempt", attempt))
	}
	return nil, domain.Fail(domain.ErrCodeConflict, "no unique code after %d attempts", codeAttempts)
}

// MarkUsed consumes a redemption code. Used is a one-way state.
func (s *Service) MarkUsed(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	ctx, unlock, err := s.Locks.Lock(ctx, keylock.RedemptionKey(redemptionID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	red, err := s.RedemptionRepo.GetRedemption(ctx, redemptionID)
	if err != nil {
		return nil, fmt.Errorf("load redemption: %w", err)
	}
	if red == nil {
		return nil, domain.Fail(domain.ErrRedemptionNotFound, "redemption %q not found", redemptionID)
	}
	if red.Used {
		return nil, domain.Fail(domain.ErrAlreadyUsed, "code %s was already used", red.Code)
	}
	now := s.Clock.Now()
	if !now.Before(red.ExpiresAt) {
		return nil, domain.Fail(domain.ErrRedemptionExpired, "code %s expired", red.Code)
	}

	ok, err := s.RedemptionRepo.MarkRedemptionUsed(ctx, redemptionID, now)
	if err != nil {
		return nil, fmt.Errorf("mark redemption used: %w", err)
	}
	if !ok {
		return nil, s.markFailure(ctx, red, now)
	}
	red.Used = true
	red.UsedAt = &now

	s.Notifier.Notify(ctx, red.AccountID, domain.EventRedemptionUsed, map[string]any{
		"redemption_id": red.ID,
		"reward_id":     red.RewardID,
	})
	return red, nil
}

// markFailure explains a lost update by reading the redemption again: the
// purge may have removed it, or another caller may have consumed it.
func (s *Service) markFailure(ctx context.Context, red *domain.Redemption, now time.Time) error {
	cur, err := s.RedemptionRepo.GetRedemption(ctx, red.ID)
	switch {
	case err != nil:
		return fmt.Errorf("reload redemption: %w", err)
	case cur == nil:
		return domain.Fail(domain.ErrRedemptionNotFound, "redemption %q not found", red.ID)
	case !cur.Used && !now.Before(cur.ExpiresAt):
		return domain.Fail(domain.ErrRedemptionExpired, "code %s expired", red.Code)
	default:
		return domain.Fail(domain.ErrAlreadyUsed, "code %s was already used", red.Code)
	}
}

// PurgeExpired deletes expired unused redemptions. The ledger is not touched.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.RedemptionRepo.DeleteExpiredRedemptions(ctx, s.Clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		zap.L().Info("expired redemptions purged", zap.Int64("count", n))
		metrics.RedemptionsPurged.Add(float64(n))
	}
	return n, nil
}

// AvailableRewards lists active, unexpired rewards that still have capacity.
func (s *Service) AvailableRewards(ctx context.Context) ([]domain.Reward, error) {
	all, err := s.RewardRepo.ListRewards(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	out := make([]domain.Reward, 0, len(all))
	for _, r := range all {
		if r.Active && !r.Expired(now) && r.HasCapacity() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) Redemptions(ctx context.Context, accountID string) ([]domain.Redemption, error) {
	return s.RedemptionRepo.ListRedemptions(ctx, accountID)
}

func (s *Service) GetRedemption(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	red, err := s.RedemptionRepo.GetRedemption(ctx, redemptionID)
	if err != nil {
		return nil, err
	}
	if red == nil {
		return nil, domain.Fail(domain.ErrRedemptionNotFound, "redemption %q not found", redemptionID)
	}
	return red, nil
}
