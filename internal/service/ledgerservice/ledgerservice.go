package ledgerservice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/keylock"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
	"github.com/GlebRadaev/rewardsengine/pkg/idgen"
)

//go:generate mockgen -source=ledgerservice.go -destination=mock_ledgerservice.go -package=ledgerservice

type AccountRepo interface {
	// LockAccount creates the account when missing and returns its balance,
	// holding it until the surrounding transaction ends.
	LockAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal) error
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

type EntryRepo interface {
	CreateEntry(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)
}

type Service struct {
	accounts  AccountRepo
	entries   EntryRepo
	txManager pg.TXManager
	locks     *keylock.Locker
	clock     clock.Clock
	ids       idgen.Generator
}

func New(accounts AccountRepo, entries EntryRepo, txManager pg.TXManager, locks *keylock.Locker, clk clock.Clock, ids idgen.Generator) *Service {
	return &Service{
		accounts:  accounts,
		entries:   entries,
		txManager: txManager,
		locks:     locks,
		clock:     clk,
		ids:       ids,
	}
}

// Append records a balance movement. amount is always positive; spent entries
// are stored negated. Callers that already hold the account lock and a
// transaction in ctx join them.
func (s *Service) Append(ctx context.Context, accountID string, kind domain.EntryKind, amount decimal.Decimal, source string, metadata domain.Metadata) (*domain.LedgerEntry, error) {
	if accountID == "" {
		return nil, domain.Fail(domain.ErrUnknownAccount, "account id is required")
	}
	if !kind.Valid() {
		return nil, domain.Fail(domain.ErrInvalidInput, "unknown entry kind %q", kind)
	}
	if !amount.IsPositive() {
		return nil, domain.Fail(domain.ErrInvalidAmount, "amount must be positive, got %s", amount)
	}

	ctx, unlock, err := s.locks.Lock(ctx, keylock.AccountKey(accountID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *domain.LedgerEntry
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		balance, err := s.accounts.LockAccount(ctx, accountID)
		if err != nil {
			zap.L().Error("failed to lock account", zap.String("account", accountID), zap.Error(err))
			return fmt.Errorf("lock account: %w", err)
		}
		if kind == domain.EntrySpent && amount.GreaterThan(balance) {
			return domain.Fail(domain.ErrInsufficientBalance, "balance %s is less than %s", balance, amount)
		}

		signed := amount.Mul(decimal.NewFromInt(kind.Sign()))
		next := balance.Add(signed)
		if next.IsNegative() {
			zap.L().Error("ledger append would make balance negative",
				zap.String("account", accountID),
				zap.String("balance", balance.String()),
				zap.String("amount", signed.String()))
			return domain.Fail(domain.ErrInvariantViolation, "balance of %s would become %s", accountID, next)
		}

		entry, err := s.entries.CreateEntry(ctx, &domain.LedgerEntry{
			ID:           s.ids.NewID(),
			AccountID:    accountID,
			Kind:         kind,
			Amount:       signed,
			BalanceAfter: next,
			Source:       source,
			Metadata:     metadata,
			CreatedAt:    s.clock.Now(),
		})
		if err != nil {
			zap.L().Error("failed to create ledger entry", zap.String("account", accountID), zap.Error(err))
			return fmt.Errorf("create entry: %w", err)
		}
		if err := s.accounts.UpdateBalance(ctx, accountID, next); err != nil {
			zap.L().Error("failed to update balance", zap.String("account", accountID), zap.Error(err))
			return fmt.Errorf("update balance: %w", err)
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Debug("ledger entry appended",
		zap.String("account", accountID),
		zap.String("kind", string(kind)),
		zap.String("amount", created.Amount.String()),
		zap.String("balance", created.BalanceAfter.String()))
	return created, nil
}

// Balance is zero for accounts that never had an entry.
func (s *Service) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	balance, err := s.accounts.GetBalance(ctx, accountID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.String("account", accountID), zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

// History returns entries in creation order.
func (s *Service) History(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	entries, err := s.entries.ListEntries(ctx, accountID)
	if err != nil {
		zap.L().Error("failed to list ledger entries", zap.String("account", accountID), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

// Reconcile checks that the cached balance equals the sum of entries and that
// the running balance never went negative.
func (s *Service) Reconcile(ctx context.Context, accountID string) (decimal.Decimal, error) {
	ctx, unlock, err := s.locks.Lock(ctx, keylock.AccountKey(accountID))
	if err != nil {
		return decimal.Zero, err
	}
	defer unlock()

	entries, err := s.History(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	cached, err := s.Balance(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
		if sum.IsNegative() {
			zap.L().Error("ledger went negative", zap.String("account", accountID), zap.String("entry", e.ID))
			return sum, domain.Fail(domain.ErrInvariantViolation, "running balance negative at entry %s", e.ID)
		}
		if !sum.Equal(e.BalanceAfter) {
			zap.L().Error("ledger balance_after mismatch", zap.String("account", accountID), zap.String("entry", e.ID))
			return sum, domain.Fail(domain.ErrInvariantViolation, "entry %s records %s, running sum is %s", e.ID, e.BalanceAfter, sum)
		}
	}
	if !sum.Equal(cached) {
		zap.L().Error("cached balance mismatch",
			zap.String("account", accountID),
			zap.String("cached", cached.String()),
			zap.String("sum", sum.String()))
		return sum, domain.Fail(domain.ErrInvariantViolation, "cached balance %s differs from ledger sum %s", cached, sum)
	}
	return sum, nil
}
