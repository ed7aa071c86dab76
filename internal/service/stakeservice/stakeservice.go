package stakeservice

import (
	"context"
	"fmt"
	"math"
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
)

const rewardSource = "staking reward"

type PositionRepo interface {
	CreatePosition(ctx context.Context, position *domain.StakePosition) error
	GetPosition(ctx context.Context, positionID string) (*domain.StakePosition, error)
	ListActivePositions(ctx context.Context, accountID string) ([]domain.StakePosition, error)
	ClosePosition(ctx context.Context, positionID string, closedAt time.Time, reward decimal.Decimal) (bool, error)
}

type Ledger interface {
	Append(ctx context.Context, accountID string, kind domain.EntryKind, amount decimal.Decimal, source string, metadata domain.Metadata) (*domain.LedgerEntry, error)
	Balance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

type Deps struct {
	PositionRepo PositionRepo
	Ledger       Ledger
	TXManager    pg.TXManager
	Locks        *keylock.Locker
	Clock        clock.Clock
	IDs          idgen.Generator
	Notifier     notifier.Notifier
}

type Service struct {
	Deps
	tiers domain.StakingTiers
	bonus domain.LockBonus
}

func New(tiers domain.StakingTiers, bonus domain.LockBonus, deps Deps) *Service {
	if deps.Notifier == nil {
		deps.Notifier = notifier.Nop{}
	}
	return &Service{
		Deps:  deps,
		tiers: tiers.Sorted(),
		bonus: bonus,
	}
}

// Tiers are ordered by minimum amount.
func (s *Service) Tiers() domain.StakingTiers {
	out := make(domain.StakingTiers, len(s.tiers))
	copy(out, s.tiers)
	return out
}

// Estimate quotes the reward at release for the terms OpenPosition would apply.
func (s *Service) Estimate(amount decimal.Decimal, lockDays int) (*domain.StakeQuote, error) {
	if !amount.IsPositive() || lockDays < 0 {
		return nil, domain.Fail(domain.ErrInvalidAmount, "amount must be positive and lock days non-negative")
	}
	return s.quote(amount, lockDays)
}

func (s *Service) quote(amount decimal.Decimal, lockDays int) (*domain.StakeQuote, error) {
	if len(s.tiers) == 0 {
		return nil, domain.Fail(domain.ErrNoQualifyingTier, "staking is not configured")
	}
	tier, ok := s.tiers.Qualify(amount)
	if !ok {
		return nil, domain.Fail(domain.ErrNoQualifyingTier, "minimum stake is %s", s.tiers[0].MinAmount)
	}
	if lockDays < tier.MinLockDays {
		lockDays = tier.MinLockDays
	}
	apy := tier.APY.Add(s.bonus.For(tier, lockDays))
	return &domain.StakeQuote{
		Tier:     tier,
		Amount:   amount,
		APY:      apy,
		LockDays: lockDays,
		Reward:   domain.StakeReward(amount, apy, lockDays),
	}, nil
}

// OpenPosition escrows amount from the balance into a new locked position.
func (s *Service) OpenPosition(ctx context.Context, accountID string, amount decimal.Decimal, lockDays int) (*domain.StakePosition, error) {
	if accountID == "" {
		return nil, domain.Fail(domain.ErrUnknownAccount, "account id is required")
	}
	if !amount.IsPositive() {
		return nil, domain.Fail(domain.ErrInvalidAmount, "amount must be positive, got %s", amount)
	}
	if lockDays < 0 {
		return nil, domain.Fail(domain.ErrInvalidAmount, "lock days must not be negative")
	}
	q, err := s.quote(amount, lockDays)
	if err != nil {
		return nil, err
	}

	ctx, unlock, err := s.Locks.Lock(ctx, keylock.AccountKey(accountID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var position *domain.StakePosition
	err = s.TXManager.Begin(ctx, func(ctx context.Context) error {
		balance, err := s.Ledger.Balance(ctx, accountID)
		if err != nil {
			return fmt.Errorf("load balance: %w", err)
		}
		if amount.GreaterThan(balance) {
			return domain.Fail(domain.ErrInsufficientBalance, "cannot stake %s with a balance of %s", amount, balance)
		}

		now := s.Clock.Now()
		p := &domain.StakePosition{
			ID:        s.IDs.NewID(),
			AccountID: accountID,
			Principal: amount,
			Tier:      q.Tier.Name,
			APY:       q.APY,
			LockDays:  q.LockDays,
			StartedAt: now,
			ReleaseAt: now.AddDate(0, 0, q.LockDays),
			Status:    domain.PositionActive,
			Reward:    decimal.Zero,
		}
		if err := s.PositionRepo.CreatePosition(ctx, p); err != nil {
			return fmt.Errorf("create position: %w", err)
		}
		_, err = s.Ledger.Append(ctx, accountID, domain.EntrySpent, amount, "stake:"+q.Tier.Name, domain.Metadata{"position_id": p.ID})
		if err != nil {
			return err
		}
		position = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("stake opened",
		zap.String("account", accountID),
		zap.String("position", position.ID),
		zap.String("tier", position.Tier),
		zap.String("principal", position.Principal.String()))
	metrics.StakesOpened.WithLabelValues(position.Tier).Inc()
	metrics.StakedPoints.Add(position.Principal.InexactFloat64())
	s.Notifier.Notify(ctx, accountID, domain.EventStakeOpened, map[string]any{
		"position_id": position.ID,
		"tier":        position.Tier,
		"principal":   position.Principal.String(),
		"apy":         position.APY.String(),
		"release_at":  position.ReleaseAt,
	})
	return position, nil
}

// ClosePosition pays back the principal plus the reward accrued over whole
// elapsed days. A locked position is left untouched.
func (s *Service) ClosePosition(ctx context.Context, positionID string) (*domain.StakeClosure, error) {
	existing, err := s.PositionRepo.GetPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("load position: %w", err)
	}
	if existing == nil {
		return nil, domain.Fail(domain.ErrPositionNotFound, "position %q not found", positionID)
	}

	ctx, unlock, err := s.Locks.Lock(ctx, keylock.PositionKey(positionID), keylock.AccountKey(existing.AccountID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var closure *domain.StakeClosure
	err = s.TXManager.Begin(ctx, func(ctx context.Context) error {
		p, err := s.PositionRepo.GetPosition(ctx, positionID)
		if err != nil {
			return fmt.Errorf("load position: %w", err)
		}
		if p == nil {
			return domain.Fail(domain.ErrPositionNotFound, "position %q not found", positionID)
		}
		if p.Status != domain.PositionActive {
			return domain.Fail(domain.ErrPositionClosed, "position %s is already closed", positionID)
		}
		now := s.Clock.Now()
		if p.Locked(now) {
			left := p.ReleaseAt.Sub(now)
			return domain.Fail(domain.ErrStillLocked, "position unlocks at %s (%d days left)",
				p.ReleaseAt.Format(time.RFC3339), int(math.Ceil(left.Hours()/24)))
		}

		reward := p.AccruedReward(now)
		ok, err := s.PositionRepo.ClosePosition(ctx, positionID, now, reward)
		if err != nil {
			return fmt.Errorf("close position: %w", err)
		}
		if !ok {
			return domain.Fail(domain.ErrPositionClosed, "position %s is already closed", positionID)
		}

		meta := domain.Metadata{"position_id": p.ID}
		if _, err := s.Ledger.Append(ctx, p.AccountID, domain.EntryRefund, p.Principal, "stake:"+p.Tier, meta); err != nil {
			return err
		}
		if reward.IsPositive() {
			if _, err := s.Ledger.Append(ctx, p.AccountID, domain.EntryEarned, reward, rewardSource, meta); err != nil {
				return err
			}
		}

		p.Status = domain.PositionClosed
		p.ClosedAt = &now
		p.Reward = reward
		closure = &domain.StakeClosure{Position: *p, PrincipalReturned: p.Principal, RewardGranted: reward}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p := closure.Position
	zap.L().Info("stake closed",
		zap.String("account", p.AccountID),
		zap.String("position", p.ID),
		zap.String("reward", closure.RewardGranted.String()))
	metrics.StakesClosed.WithLabelValues(p.Tier).Inc()
	metrics.StakedPoints.Sub(p.Principal.InexactFloat64())
	s.Notifier.Notify(ctx, p.AccountID, domain.EventStakeClosed, map[string]any{
		"position_id":        p.ID,
		"principal_returned": closure.PrincipalReturned.String(),
		"reward":             closure.RewardGranted.String(),
	})
	return closure, nil
}

func (s *Service) ActivePositions(ctx context.Context, accountID string) ([]domain.StakePosition, error) {
	return s.PositionRepo.ListActivePositions(ctx, accountID)
}

func (s *Service) GetPosition(ctx context.Context, positionID string) (*domain.StakePosition, error) {
	p, err := s.PositionRepo.GetPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Fail(domain.ErrPositionNotFound, "position %q not found", positionID)
	}
	return p, nil
}
