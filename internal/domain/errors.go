package domain

import (
	"errors"
	"fmt"
)

// ErrorKind groups reasons the way callers react to them.
type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindPolicyViolation   ErrorKind = "policy_violation"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindConflict          ErrorKind = "conflict"
	KindInternal          ErrorKind = "internal"
)

// Reason is a stable, machine-readable rejection code.
type Reason struct {
	Code string
	Kind ErrorKind
	text string
}

func (r *Reason) Error() string {
	return r.text
}

func newReason(code string, kind ErrorKind, text string) *Reason {
	return &Reason{Code: code, Kind: kind, text: text}
}

var (
	ErrInvalidAmount      = newReason("invalid_amount", KindInvalidInput, "amount must be positive")
	ErrInvalidInput       = newReason("invalid_input", KindInvalidInput, "invalid input")
	ErrUnknownAccount     = newReason("unknown_account", KindInvalidInput, "unknown account")
	ErrUnknownActivity    = newReason("unknown_activity", KindInvalidInput, "unknown activity")
	ErrRedemptionNotFound = newReason("redemption_not_found", KindInvalidInput, "redemption not found")
	ErrPositionNotFound   = newReason("position_not_found", KindInvalidInput, "staking position not found")
	ErrNoQualifyingTier   = newReason("no_qualifying_tier", KindInvalidInput, "amount is below the lowest staking tier")

	ErrAlreadyCompleted  = newReason("already_completed", KindPolicyViolation, "activity already completed")
	ErrCooldownActive    = newReason("cooldown_active", KindPolicyViolation, "activity is on cooldown")
	ErrDailyLimitReached = newReason("daily_limit_reached", KindPolicyViolation, "daily limit reached")
	ErrRewardUnavailable = newReason("reward_unavailable", KindPolicyViolation, "reward is unavailable")
	ErrRewardExpired     = newReason("reward_expired", KindPolicyViolation, "reward has expired")
	ErrCapacityReached   = newReason("capacity_reached", KindPolicyViolation, "reward is sold out")
	ErrAlreadyUsed       = newReason("already_used", KindPolicyViolation, "redemption already used")
	ErrRedemptionExpired = newReason("redemption_expired", KindPolicyViolation, "redemption code has expired")
	ErrStillLocked       = newReason("still_locked", KindPolicyViolation, "staking position is still locked")
	ErrPositionClosed    = newReason("position_closed", KindPolicyViolation, "staking position already closed")

	ErrInsufficientPoints  = newReason("insufficient_points", KindInsufficientFunds, "not enough points")
	ErrInsufficientBalance = newReason("insufficient_balance", KindInsufficientFunds, "insufficient balance")

	ErrCodeConflict = newReason("code_conflict", KindConflict, "could not allocate a unique redemption code")
	ErrLockTimeout  = newReason("lock_timeout", KindConflict, "resource is busy, try again")

	ErrInvariantViolation = newReason("invariant_violation", KindInternal, "ledger invariant violated")
)

var (
	// ErrCodeTaken is returned by stores when a redemption code is already in use.
	ErrCodeTaken = errors.New("redemption code already taken")

	ErrLoginTaken         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Failure is a rejected operation: a stable reason plus a human-readable message.
type Failure struct {
	Reason  *Reason
	Message string
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Reason.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Reason
}

func Fail(reason *Reason, format string, args ...any) error {
	return &Failure{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason, or nil for unexpected errors.
func ReasonOf(err error) *Reason {
	var r *Reason
	if errors.As(err, &r) {
		return r
	}
	return nil
}

func KindOf(err error) ErrorKind {
	if r := ReasonOf(err); r != nil {
		return r.Kind
	}
	return KindInternal
}

func CodeOf(err error) string {
	if r := ReasonOf(err); r != nil {
		return r.Code
	}
	return ""
}
