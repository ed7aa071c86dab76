package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
)

type TierDTO struct {
	Name        string          `json:"name" example:"silver"`
	MinAmount   decimal.Decimal `json:"min_amount" example:"1000"`
	APY         decimal.Decimal `json:"apy" example:"12"`
	MinLockDays int             `json:"min_lock_days" example:"90"`
}

type QuoteDTO struct {
	Tier     string          `json:"tier"`
	Amount   decimal.Decimal `json:"amount"`
	APY      decimal.Decimal `json:"apy"`
	LockDays int             `json:"lock_days"`
	Reward   decimal.Decimal `json:"reward" example:"29.59"`
}

type OpenStakeRequestDTO struct {
	Amount   decimal.Decimal `json:"amount" example:"1000"`
	LockDays int             `json:"lock_days" example:"90"`
}

type PositionDTO struct {
	ID            string          `json:"id"`
	Tier          string          `json:"tier"`
	Principal     decimal.Decimal `json:"principal"`
	APY           decimal.Decimal `json:"apy"`
	LockDays      int             `json:"lock_days"`
	StartedAt     time.Time       `json:"started_at"`
	ReleaseAt     time.Time       `json:"release_at"`
	Status        string          `json:"status"`
	AccruedReward decimal.Decimal `json:"accrued_reward"`
	Unlocked      bool            `json:"unlocked"`
}

type ClosureDTO struct {
	Position          PositionDTO     `json:"position"`
	PrincipalReturned decimal.Decimal `json:"principal_returned"`
	RewardGranted     decimal.Decimal `json:"reward_granted"`
}

func NewTierDTO(t domain.StakingTier) TierDTO {
	return TierDTO{
		Name:        t.Name,
		MinAmount:   t.MinAmount,
		APY:         t.APY,
		MinLockDays: t.MinLockDays,
	}
}

func NewQuoteDTO(q *domain.StakeQuote) QuoteDTO {
	return QuoteDTO{
		Tier:     q.Tier.Name,
		Amount:   q.Amount,
		APY:      q.APY,
		LockDays: q.LockDays,
		Reward:   q.Reward,
	}
}

// NewPositionDTO reports the reward accrued up to now. Closed positions
// report the reward that was paid.
func NewPositionDTO(p domain.StakePosition, now time.Time) PositionDTO {
	accrued := p.Reward
	if p.Status == domain.PositionActive {
		accrued = p.AccruedReward(now)
	}
	return PositionDTO{
		ID:            p.ID,
		Tier:          p.Tier,
		Principal:     p.Principal,
		APY:           p.APY,
		LockDays:      p.LockDays,
		StartedAt:     p.StartedAt,
		ReleaseAt:     p.ReleaseAt,
		Status:        string(p.Status),
		AccruedReward: accrued,
		Unlocked:      !p.Locked(now),
	}
}

func NewClosureDTO(c *domain.StakeClosure, now time.Time) ClosureDTO {
	return ClosureDTO{
		Position:          NewPositionDTO(c.Position, now),
		PrincipalReturned: c.PrincipalReturned,
		RewardGranted:     c.RewardGranted,
	}
}
