package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/metrics"
	"github.com/GlebRadaev/rewardsengine/internal/service/earnservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/ledgerservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/rewardservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/stakeservice"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
)

// Engine is the single entry point the transport layer talks to.
type Engine struct {
	ledger  *ledgerservice.Service
	earn    *earnservice.Service
	rewards *rewardservice.Service
	staking *stakeservice.Service
	catalog domain.Catalog
	clock   clock.Clock
}

func (e *Engine) observe(operation string, err error) {
	if err != nil {
		metrics.Reject(operation, domain.CodeOf(err))
	}
}

func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

func (e *Engine) GrantPoints(ctx context.Context, accountID, activityID string, metadata domain.Metadata) (*domain.Grant, error) {
	grant, err := e.earn.Grant(ctx, accountID, activityID, metadata)
	e.observe("grant_points", err)
	return grant, err
}

func (e *Engine) RedeemReward(ctx context.Context, accountID, rewardID string) (*domain.Redemption, error) {
	red, err := e.rewards.Redeem(ctx, accountID, rewardID)
	e.observe("redeem_reward", err)
	return red, err
}

func (e *Engine) OpenStake(ctx context.Context, accountID string, amount decimal.Decimal, lockDays int) (*domain.StakePosition, error) {
	p, err := e.staking.OpenPosition(ctx, accountID, amount, lockDays)
	e.observe("open_stake", err)
	return p, err
}

// CloseStake answers position_not_found for positions owned by another account.
func (e *Engine) CloseStake(ctx context.Context, accountID, positionID string) (*domain.StakeClosure, error) {
	closure, err := e.closeStake(ctx, accountID, positionID)
	e.observe("close_stake", err)
	return closure, err
}

func (e *Engine) closeStake(ctx context.Context, accountID, positionID string) (*domain.StakeClosure, error) {
	p, err := e.staking.GetPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if p.AccountID != accountID {
		return nil, domain.Fail(domain.ErrPositionNotFound, "position %q not found", positionID)
	}
	return e.staking.ClosePosition(ctx, positionID)
}

func (e *Engine) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return e.ledger.Balance(ctx, accountID)
}

func (e *Engine) GetHistory(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	return e.ledger.History(ctx, accountID)
}

func (e *Engine) Reconcile(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return e.ledger.Reconcile(ctx, accountID)
}

func (e *Engine) GetAvailableActivities(ctx context.Context, accountID string) ([]domain.ActivityStatus, error) {
	return e.earn.AvailableActivities(ctx, accountID)
}

func (e *Engine) GetActivePositions(ctx context.Context, accountID string) ([]domain.StakePosition, error) {
	return e.staking.ActivePositions(ctx, accountID)
}

func (e *Engine) GetAvailableRewards(ctx context.Context) ([]domain.Reward, error) {
	return e.rewards.AvailableRewards(ctx)
}

func (e *Engine) GetTiers() domain.StakingTiers {
	return e.staking.Tiers()
}

func (e *Engine) EstimateReward(amount decimal.Decimal, lockDays int) (*domain.StakeQuote, error) {
	q, err := e.staking.Estimate(amount, lockDays)
	e.observe("estimate_reward", err)
	return q, err
}

func (e *Engine) GetRedemptions(ctx context.Context, accountID string) ([]domain.Redemption, error) {
	return e.rewards.Redemptions(ctx, accountID)
}

// UseRedemption answers redemption_not_found for codes owned by another account.
func (e *Engine) UseRedemption(ctx context.Context, accountID, redemptionID string) (*domain.Redemption, error) {
	red, err := e.useRedemption(ctx, accountID, redemptionID)
	e.observe("use_redemption", err)
	return red, err
}

func (e *Engine) useRedemption(ctx context.Context, accountID, redemptionID string) (*domain.Redemption, error) {
	red, err := e.rewards.GetRedemption(ctx, redemptionID)
	if err != nil {
		return nil, err
	}
	if red.AccountID != accountID {
		return nil, domain.Fail(domain.ErrRedemptionNotFound, "redemption %q not found", redemptionID)
	}
	return e.rewards.MarkUsed(ctx, redemptionID)
}

// SeedCatalog writes the configured rewards to storage.
func (e *Engine) SeedCatalog(ctx context.Context) error {
	return e.rewards.SeedCatalog(ctx, e.catalog.Rewards)
}

func (e *Engine) PurgeExpired(ctx context.Context) (int64, error) {
	return e.rewards.PurgeExpired(ctx)
}
