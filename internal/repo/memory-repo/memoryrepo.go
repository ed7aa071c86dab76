// Package memoryrepo keeps every repository in process memory. Writes made
// inside TXManager.Begin are journaled and undone when the function fails.
package memoryrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
)

type journalCtx struct{}

type journal struct {
	undo []func()
}

type completion struct {
	points decimal.Decimal
	at     time.Time
}

type completionKey struct {
	accountID  string
	activityID string
}

type Store struct {
	mu sync.RWMutex

	users        map[string]domain.User
	loginIndex   map[string]string
	accounts     map[string]decimal.Decimal
	entries      map[string][]domain.LedgerEntry
	seq          int64
	completions  map[completionKey][]completion
	rewards      map[string]domain.Reward
	redemptions  map[string]domain.Redemption
	codeIndex    map[string]string
	positions    map[string]domain.StakePosition
	positionSeq  map[string]int64
	nextPosition int64
}

func New() *Store {
	return &Store{
		users:       make(map[string]domain.User),
		loginIndex:  make(map[string]string),
		accounts:    make(map[string]decimal.Decimal),
		entries:     make(map[string][]domain.LedgerEntry),
		completions: make(map[completionKey][]completion),
		rewards:     make(map[string]domain.Reward),
		redemptions: make(map[string]domain.Redemption),
		codeIndex:   make(map[string]string),
		positions:   make(map[string]domain.StakePosition),
		positionSeq: make(map[string]int64),
	}
}

// TXManager returns a transaction manager bound to the store's journal.
func (s *Store) TXManager() pg.TXManager {
	return txManager{store: s}
}

type txManager struct {
	store *Store
}

func (m txManager) Begin(ctx context.Context, fn pg.TransactionalFn) error {
	if _, ok := ctx.Value(journalCtx{}).(*journal); ok {
		return fn(ctx)
	}
	j := &journal{}
	err := fn(context.WithValue(ctx, journalCtx{}, j))
	if err != nil {
		m.store.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		m.store.mu.Unlock()
	}
	return err
}

// record must be called with s.mu held.
func record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalCtx{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

// Users

func (s *Store) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.loginIndex[login]
	if !ok {
		return nil, nil
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loginIndex[user.Login]; ok {
		return nil, domain.ErrLoginTaken
	}
	u := *user
	s.users[u.ID] = u
	s.loginIndex[u.Login] = u.ID
	record(ctx, func() {
		delete(s.users, u.ID)
		delete(s.loginIndex, u.Login)
	})
	return &u, nil
}

// Accounts and ledger entries

func (s *Store) LockAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.accounts[accountID]
	if !ok {
		s.accounts[accountID] = decimal.Zero
		record(ctx, func() { delete(s.accounts, accountID) })
	}
	return balance, nil
}

func (s *Store) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.accounts[accountID]
	s.accounts[accountID] = balance
	record(ctx, func() { s.accounts[accountID] = prev })
	return nil
}

func (s *Store) GetBalance(_ context.Context, accountID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[accountID], nil
}

func (s *Store) CreateEntry(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	e := *entry
	e.Seq = s.seq
	e.Metadata = copyMetadata(entry.Metadata)
	s.entries[e.AccountID] = append(s.entries[e.AccountID], e)
	record(ctx, func() {
		list := s.entries[e.AccountID]
		s.entries[e.AccountID] = list[:len(list)-1]
	})
	return &e, nil
}

func (s *Store) ListEntries(_ context.Context, accountID string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.entries[accountID]
	out := make([]domain.LedgerEntry, len(list))
	copy(out, list)
	return out, nil
}

// Activity completions

// LockCompletions is a no-op: callers already hold the key lock for the pair.
func (s *Store) LockCompletions(context.Context, string, string) error {
	return nil
}

func (s *Store) CompletionStats(_ context.Context, accountID, activityID string, dayStart time.Time) (domain.CompletionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats domain.CompletionStats
	for _, c := range s.completions[completionKey{accountID, activityID}] {
		stats.Total++
		if !c.at.Before(dayStart) {
			stats.Today++
		}
		if stats.Last == nil || c.at.After(*stats.Last) {
			at := c.at
			stats.Last = &at
		}
	}
	return stats, nil
}

func (s *Store) AddCompletion(ctx context.Context, accountID, activityID string, points decimal.Decimal, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := completionKey{accountID, activityID}
	s.completions[key] = append(s.completions[key], completion{points: points, at: at})
	record(ctx, func() {
		list := s.completions[key]
		s.completions[key] = list[:len(list)-1]
	})
	return nil
}

// Rewards

func (s *Store) UpsertReward(ctx context.Context, reward *domain.Reward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.rewards[reward.ID]
	r := *reward
	if existed {
		r.CurrentRedemptions = prev.CurrentRedemptions
	}
	s.rewards[r.ID] = r
	record(ctx, func() {
		if existed {
			s.rewards[r.ID] = prev
			return
		}
		delete(s.rewards, r.ID)
	})
	return nil
}

func (s *Store) GetReward(_ context.Context, rewardID string) (*domain.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rewards[rewardID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// LockReward reads the reward; the caller's reward key lock provides exclusion.
func (s *Store) LockReward(ctx context.Context, rewardID string) (*domain.Reward, error) {
	return s.GetReward(ctx, rewardID)
}

func (s *Store) ListRewards(_ context.Context) ([]domain.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reward, 0, len(s.rewards))
	for _, r := range s.rewards {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) IncrementRedemptions(ctx context.Context, rewardID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rewards[rewardID]
	if !ok || !r.HasCapacity() {
		return false, nil
	}
	r.CurrentRedemptions++
	s.rewards[rewardID] = r
	record(ctx, func() {
		r := s.rewards[rewardID]
		r.CurrentRedemptions--
		s.rewards[rewardID] = r
	})
	return true, nil
}

// Redemptions

func (s *Store) CreateRedemption(ctx context.Context, redemption *domain.Redemption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.codeIndex[redemption.Code]; taken {
		return domain.ErrCodeTaken
	}
	r := *redemption
	s.redemptions[r.ID] = r
	s.codeIndex[r.Code] = r.ID
	record(ctx, func() {
		delete(s.redemptions, r.ID)
		delete(s.codeIndex, r.Code)
	})
	return nil
}

func (s *Store) GetRedemption(_ context.Context, redemptionID string) (*domain.Redemption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.redemptions[redemptionID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *Store) ListRedemptions(_ context.Context, accountID string) ([]domain.Redemption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Redemption, 0)
	for _, r := range s.redemptions {
		if r.AccountID == accountID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RedeemedAt.Equal(out[j].RedeemedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RedeemedAt.After(out[j].RedeemedAt)
	})
	return out, nil
}

func (s *Store) MarkRedemptionUsed(ctx context.Context, redemptionID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.redemptions[redemptionID]
	if !ok || r.Used {
		return false, nil
	}
	prev := r
	r.Used = true
	r.UsedAt = &at
	s.redemptions[redemptionID] = r
	record(ctx, func() { s.redemptions[redemptionID] = prev })
	return true, nil
}

func (s *Store) DeleteExpiredRedemptions(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.redemptions {
		if r.Used || now.Before(r.ExpiresAt) {
			continue
		}
		delete(s.redemptions, id)
		delete(s.codeIndex, r.Code)
		removed := r
		record(ctx, func() {
			s.redemptions[removed.ID] = removed
			s.codeIndex[removed.Code] = removed.ID
		})
		n++
	}
	return n, nil
}

// Stake positions

func (s *Store) CreatePosition(ctx context.Context, position *domain.StakePosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *position
	s.nextPosition++
	s.positions[p.ID] = p
	s.positionSeq[p.ID] = s.nextPosition
	record(ctx, func() {
		delete(s.positions, p.ID)
		delete(s.positionSeq, p.ID)
	})
	return nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (*domain.StakePosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[positionID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) ListActivePositions(_ context.Context, accountID string) ([]domain.StakePosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StakePosition, 0)
	for _, p := range s.positions {
		if p.AccountID == accountID && p.Status == domain.PositionActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.positionSeq[out[i].ID] < s.positionSeq[out[j].ID] })
	return out, nil
}

func (s *Store) ClosePosition(ctx context.Context, positionID string, closedAt time.Time, reward decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[positionID]
	if !ok || p.Status != domain.PositionActive {
		return false, nil
	}
	prev := p
	p.Status = domain.PositionClosed
	p.ClosedAt = &closedAt
	p.Reward = reward
	s.positions[positionID] = p
	record(ctx, func() { s.positions[positionID] = prev })
	return true, nil
}

func copyMetadata(m domain.Metadata) domain.Metadata {
	if m == nil {
		return nil
	}
	out := make(domain.Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
