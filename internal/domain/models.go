package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryEarned EntryKind = "earned"
	EntrySpent  EntryKind = "spent"
	EntryBonus  EntryKind = "bonus"
	EntryRefund EntryKind = "refund"
)

func (k EntryKind) Valid() bool {
	switch k {
	case EntryEarned, EntrySpent, EntryBonus, EntryRefund:
		return true
	}
	return false
}

// Sign is -1 for kinds that debit the account and +1 otherwise.
func (k EntryKind) Sign() int64 {
	if k == EntrySpent {
		return -1
	}
	return 1
}

type Metadata map[string]string

type User struct {
	ID           string    `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type LedgerEntry struct {
	ID           string          `db:"id"`
	Seq          int64           `db:"seq"`
	AccountID    string          `db:"account_id"`
	Kind         EntryKind       `db:"kind"`
	Amount       decimal.Decimal `db:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
	Source       string          `db:"source"`
	Metadata     Metadata        `db:"metadata"`
	CreatedAt    time.Time       `db:"created_at"`
}

type Activity struct {
	ID              string
	Name            string
	Description     string
	Category        string
	Points          decimal.Decimal
	Repeatable      bool
	CooldownMinutes int
	MaxPerDay       int
}

type CompletionStats struct {
	Total int
	Today int
	Last  *time.Time
}

type ActivityStatus struct {
	Activity   Activity
	CanEarnNow bool
	Reason     string
	Message    string
	PointsNow  decimal.Decimal
}

type AppliedBonus struct {
	Rule   string
	Points decimal.Decimal
}

type Grant struct {
	AccountID  string
	ActivityID string
	Base       decimal.Decimal
	Bonuses    []AppliedBonus
	Points     decimal.Decimal
	Entry      *LedgerEntry
}

type Reward struct {
	ID                 string          `db:"id"`
	Name               string          `db:"name"`
	Brand              string          `db:"brand"`
	Category           string          `db:"category"`
	Cost               decimal.Decimal `db:"cost"`
	ExpiresAt          *time.Time      `db:"expires_at"`
	Active             bool            `db:"active"`
	MaxRedemptions     int             `db:"max_redemptions"`
	CurrentRedemptions int             `db:"current_redemptions"`
	CodeValidityDays   int             `db:"code_validity_days"`
}

func (r *Reward) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

func (r *Reward) HasCapacity() bool {
	return r.MaxRedemptions == 0 || r.CurrentRedemptions < r.MaxRedemptions
}

type Redemption struct {
	ID          string          `db:"id"`
	RewardID    string          `db:"reward_id"`
	AccountID   string          `db:"account_id"`
	PointsSpent decimal.Decimal `db:"points_spent"`
	Code        string          `db:"code"`
	RedeemedAt  time.Time       `db:"redeemed_at"`
	ExpiresAt   time.Time       `db:"expires_at"`
	Used        bool            `db:"used"`
	UsedAt      *time.Time      `db:"used_at"`
}

type PositionStatus string

const (
	PositionActive PositionStatus = "active"
	PositionClosed PositionStatus = "closed"
)

type StakePosition struct {
	ID        string          `db:"id"`
	AccountID string          `db:"account_id"`
	Principal decimal.Decimal `db:"principal"`
	Tier      string          `db:"tier"`
	APY       decimal.Decimal `db:"apy"`
	LockDays  int             `db:"lock_days"`
	StartedAt time.Time       `db:"started_at"`
	ReleaseAt time.Time       `db:"release_at"`
	Status    PositionStatus  `db:"status"`
	ClosedAt  *time.Time      `db:"closed_at"`
	Reward    decimal.Decimal `db:"reward"`
}

func (p *StakePosition) Locked(now time.Time) bool {
	return now.Before(p.ReleaseAt)
}

// ElapsedDays counts whole days since the position was opened.
func (p *StakePosition) ElapsedDays(now time.Time) int {
	if !now.After(p.StartedAt) {
		return 0
	}
	return int(now.Sub(p.StartedAt) / (24 * time.Hour))
}

func (p *StakePosition) AccruedReward(now time.Time) decimal.Decimal {
	return StakeReward(p.Principal, p.APY, p.ElapsedDays(now))
}

type StakeClosure struct {
	Position          StakePosition
	PrincipalReturned decimal.Decimal
	RewardGranted     decimal.Decimal
}

type EventKind string

const (
	EventPointsEarned   EventKind = "points_earned"
	EventRewardRedeemed EventKind = "reward_redeemed"
	EventRedemptionUsed EventKind = "redemption_used"
	EventStakeOpened    EventKind = "stake_opened"
	EventStakeClosed    EventKind = "stake_closed"
)

type Event struct {
	AccountID  string         `json:"account_id"`
	Kind       EventKind      `json:"kind"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
