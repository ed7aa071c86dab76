package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	daysPerYear = 365
	// PointPlaces is the precision every ledger amount is stored with.
	PointPlaces  = 2
	rewardPlaces = PointPlaces
)

var hundred = decimal.NewFromInt(100)

type StakingTier struct {
	Name        string
	MinAmount   decimal.Decimal
	APY         decimal.Decimal
	MinLockDays int
}

type StakingTiers []StakingTier

// Sorted returns a copy ordered by minimum amount, lowest first.
func (t StakingTiers) Sorted() StakingTiers {
	out := make(StakingTiers, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinAmount.LessThan(out[j].MinAmount)
	})
	return out
}

// Qualify returns the tier with the highest minimum that amount still reaches.
func (t StakingTiers) Qualify(amount decimal.Decimal) (StakingTier, bool) {
	var (
		best  StakingTier
		found bool
	)
	for _, tier := range t {
		if tier.MinAmount.GreaterThan(amount) {
			continue
		}
		if !found || tier.MinAmount.GreaterThan(best.MinAmount) {
			best, found = tier, true
		}
	}
	return best, found
}

// LockBonus rewards voluntary locks longer than the tier minimum.
type LockBonus struct {
	StepDays int
	StepAPY  decimal.Decimal
	MaxAPY   decimal.Decimal
}

func (b LockBonus) For(tier StakingTier, lockDays int) decimal.Decimal {
	if b.StepDays <= 0 || lockDays <= tier.MinLockDays {
		return decimal.Zero
	}
	steps := (lockDays - tier.MinLockDays) / b.StepDays
	bonus := b.StepAPY.Mul(decimal.NewFromInt(int64(steps)))
	if b.MaxAPY.IsPositive() && bonus.GreaterThan(b.MaxAPY) {
		return b.MaxAPY
	}
	return bonus
}

// StakeReward is principal * apy/100 * days/365 rounded to cents.
func StakeReward(principal, apy decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !principal.IsPositive() || !apy.IsPositive() {
		return decimal.Zero
	}
	return principal.
		Mul(apy).
		Mul(decimal.NewFromInt(int64(days))).
		Div(hundred.Mul(decimal.NewFromInt(daysPerYear))).
		Round(rewardPlaces)
}

// StakeQuote is what a position opened now with these terms would earn at release.
type StakeQuote struct {
	Tier     StakingTier
	Amount   decimal.Decimal
	APY      decimal.Decimal
	LockDays int
	Reward   decimal.Decimal
}
