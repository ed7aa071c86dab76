package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BonusRule adds points on top of an activity's base value when it matches.
type BonusRule struct {
	Name       string
	Category   string
	ActivityID string
	Weekdays   []time.Weekday
	FirstOfDay bool
	Multiplier decimal.Decimal
	Addend     decimal.Decimal
}

// Matches evaluates the rule for a completion happening at local time now.
// stats are the completions recorded before this one.
func (r BonusRule) Matches(a Activity, now time.Time, stats CompletionStats) bool {
	if r.Category != "" && r.Category != a.Category {
		return false
	}
	if r.ActivityID != "" && r.ActivityID != a.ID {
		return false
	}
	if len(r.Weekdays) > 0 {
		found := false
		for _, d := range r.Weekdays {
			if d == now.Weekday() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.FirstOfDay && stats.Today > 0 {
		return false
	}
	return true
}

// Bonus is base*(multiplier-1) plus the addend. It never goes below zero.
func (r BonusRule) Bonus(base decimal.Decimal) decimal.Decimal {
	bonus := r.Addend
	if r.Multiplier.GreaterThan(decimal.NewFromInt(1)) {
		bonus = bonus.Add(base.Mul(r.Multiplier.Sub(decimal.NewFromInt(1))))
	}
	if bonus.IsNegative() {
		return decimal.Zero
	}
	return bonus
}

// Catalog is the static configuration the engine runs with.
type Catalog struct {
	Activities []Activity
	Bonuses    []BonusRule
	Rewards    []Reward
	Tiers      StakingTiers
	LockBonus  LockBonus
}
