package earnservice

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
)

type CompletionRepo interface {
	// LockCompletions serialises grants of one activity for one account
	// until the surrounding transaction ends.
	LockCompletions(ctx context.Context, accountID, activityID string) error
	CompletionStats(ctx context.Context, accountID, activityID string, dayStart time.Time) (domain.CompletionStats, error)
	AddCompletion(ctx context.Context, accountID, activityID string, points decimal.Decimal, at time.Time) error
}

type Ledger interface {
	Append(ctx context.Context, accountID string, kind domain.EntryKind, amount decimal.Decimal, source string, metadata domain.Metadata) (*domain.LedgerEntry, error)
}

type Deps struct {
	Completions CompletionRepo
	Ledger      Ledger
	TXManager   pg.TXManager
	Locks       *keylock.Locker
	Clock       clock.Clock
	Location    *time.Location
	Notifier    notifier.Notifier
}

type Service struct {
	Deps
	activities map[string]domain.Activity
	order      []string
	bonuses    []domain.BonusRule
}

func New(activities []domain.Activity, bonuses []domain.BonusRule, deps Deps) *Service {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Notifier == nil {
		deps.Notifier = notifier.Nop{}
	}
	s := &Service{
		Deps:       deps,
		activities: make(map[string]domain.Activity, len(activities)),
		bonuses:    bonuses,
	}
	for _, a := range activities {
		if _, dup := s.activities[a.ID]; !dup {
			s.order = append(s.order, a.ID)
		}
		s.activities[a.ID] = a
	}
	return s
}

func (s *Service) Activity(activityID string) (domain.Activity, bool) {
	a, ok := s.activities[activityID]
	return a, ok
}

// Grant awards an activity's points once every rate limit allows it.
func (s *Service) Grant(ctx context.Context, accountID, activityID string, metadata domain.Metadata) (*domain.Grant, error) {
	activity, ok := s.activities[activityID]
	if !ok {
		return nil, domain.Fail(domain.ErrUnknownActivity, "activity %q does not exist", activityID)
	}
	if accountID == "" {
		return nil, domain.Fail(domain.ErrUnknownAccount, "account id is required")
	}

	ctx, unlock, err := s.Locks.Lock(ctx, keylock.ActivityKey(accountID, activityID), keylock.AccountKey(accountID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var grant *domain.Grant
	err = s.TXManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.Completions.LockCompletions(ctx, accountID, activityID); err != nil {
			zap.L().Error("failed to lock completions", zap.String("account", accountID), zap.Error(err))
			return fmt.Errorf("lock completions: %w", err)
		}
		now := s.Clock.Now()
		stats, err := s.Completions.CompletionStats(ctx, accountID, activityID, s.dayStart(now))
		if err != nil {
			zap.L().Error("failed to get completion stats", zap.String("account", accountID), zap.Error(err))
			return fmt.Errorf("completion stats: %w", err)
		}
		if err := s.check(activity, stats, now); err != nil {
			return err
		}

		points, bonuses := s.points(activity, stats, now)
		if err := s.Completions.AddCompletion(ctx, accountID, activityID, points, now); err != nil {
			zap.L().Error("failed to record completion", zap.String("account", accountID), zap.Error(err))
			return fmt.Errorf("record completion: %w", err)
		}

		meta := domain.Metadata{"activity_id": activityID}
		for k, v := range metadata {
			meta[k] = v
		}
		entry, err := s.Ledger.Append(ctx, accountID, domain.EntryEarned, points, activity.Name, meta)
		if err != nil {
			return err
		}
		grant = &domain.Grant{
			AccountID:  accountID,
			ActivityID: activityID,
			Base:       activity.Points,
			Bonuses:    bonuses,
			Points:     points,
			Entry:      entry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("points granted",
		zap.String("account", accountID),
		zap.String("activity", activityID),
		zap.String("points", grant.Points.String()))
	metrics.PointsGranted.WithLabelValues(activityID).Add(grant.Points.InexactFloat64())
	s.Notifier.Notify(ctx, accountID, domain.EventPointsEarned, map[string]any{
		"activity_id": activityID,
		"points":      grant.Points.String(),
		"entry_id":    grant.Entry.ID,
		"balance":     grant.Entry.BalanceAfter.String(),
	})
	return grant, nil
}

// AvailableActivities reports, per catalog activity, whether it can be earned right now.
func (s *Service) AvailableActivities(ctx context.Context, accountID string) ([]domain.ActivityStatus, error) {
	now := s.Clock.Now()
	dayStart := s.dayStart(now)
	out := make([]domain.ActivityStatus, 0, len(s.order))
	for _, id := range s.order {
		activity := s.activities[id]
		stats, err := s.Completions.CompletionStats(ctx, accountID, id, dayStart)
		if err != nil {
			zap.L().Error("failed to get completion stats", zap.String("account", accountID), zap.Error(err))
			return nil, err
		}
		status := domain.ActivityStatus{Activity: activity, CanEarnNow: true}
		if err := s.check(activity, stats, now); err != nil {
			status.CanEarnNow = false
			status.Reason = domain.CodeOf(err)
			status.Message = err.Error()
		} else {
			status.PointsNow, _ = s.points(activity, stats, now)
		}
		out = append(out, status)
	}
	return out, nil
}

// check applies the rate limits in order: one-shot, cooldown, daily cap.
func (s *Service) check(a domain.Activity, stats domain.CompletionStats, now time.Time) error {
	if !a.Repeatable && stats.Total > 0 {
		return domain.Fail(domain.ErrAlreadyCompleted, "%s can only be completed once", a.Name)
	}
	if a.CooldownMinutes > 0 && stats.Last != nil {
		readyAt := stats.Last.Add(time.Duration(a.CooldownMinutes) * time.Minute)
		if now.Before(readyAt) {
			minutes := int(math.Ceil(readyAt.Sub(now).Minutes()))
			return domain.Fail(domain.ErrCooldownActive, "%s is available again in %d minutes", a.Name, minutes)
		}
	}
	if a.MaxPerDay > 0 && stats.Today >= a.MaxPerDay {
		return domain.Fail(domain.ErrDailyLimitReached, "%s can be completed %d times per day", a.Name, a.MaxPerDay)
	}
	return nil
}

func (s *Service) points(a domain.Activity, stats domain.CompletionStats, now time.Time) (decimal.Decimal, []domain.AppliedBonus) {
	local := now.In(s.Location)
	total := a.Points
	var applied []domain.AppliedBonus
	for _, rule := range s.bonuses {
		if !rule.Matches(a, local, stats) {
			continue
		}
		bonus := rule.Bonus(a.Points).Round(domain.PointPlaces)
		if bonus.IsZero() {
			continue
		}
		total = total.Add(bonus)
		applied = append(applied, domain.AppliedBonus{Rule: rule.Name, Points: bonus})
	}
	return total, applied
}

func (s *Service) dayStart(now time.Time) time.Time {
	local := now.In(s.Location)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.Location)
}
