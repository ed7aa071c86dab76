// Package keylock serializes work per key (account, reward, activity, position)
// without a global lock. Keys held by a context are re-entrant for that context.
package keylock

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

var ErrTimeout = errors.New("lock acquisition timed out")

type heldKeysCtx struct{}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

type Locker struct {
	mu         sync.Mutex
	entries    map[string]*entry
	timeout    time.Duration
	timeoutErr error
}

type Option func(*Locker)

// WithTimeoutError replaces ErrTimeout as the error returned when acquisition times out.
func WithTimeoutError(err error) Option {
	return func(l *Locker) {
		l.timeoutErr = err
	}
}

func New(timeout time.Duration, opts ...Option) *Locker {
	l := &Locker{
		entries:    make(map[string]*entry),
		timeout:    timeout,
		timeoutErr: ErrTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires every key that the context does not already hold, in sorted order.
// The returned context carries the held keys and must be used for nested calls.
func (l *Locker) Lock(ctx context.Context, keys ...string) (context.Context, func(), error) {
	held, _ := ctx.Value(heldKeysCtx{}).(map[string]struct{})
	need := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := held[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		need = append(need, k)
	}
	if len(need) == 0 {
		return ctx, func() {}, nil
	}
	sort.Strings(need)

	acquireCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	acquired := make([]string, 0, len(need))
	for _, k := range need {
		e := l.ref(k)
		if err := e.sem.Acquire(acquireCtx, 1); err != nil {
			l.unref(k)
			l.release(acquired)
			if ctx.Err() != nil {
				return ctx, nil, ctx.Err()
			}
			return ctx, nil, l.timeoutErr
		}
		acquired = append(acquired, k)
	}

	next := make(map[string]struct{}, len(held)+len(acquired))
	for k := range held {
		next[k] = struct{}{}
	}
	for _, k := range acquired {
		next[k] = struct{}{}
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() { l.release(acquired) })
	}
	return context.WithValue(ctx, heldKeysCtx{}, next), unlock, nil
}

// Held reports whether ctx holds key.
func Held(ctx context.Context, key string) bool {
	held, _ := ctx.Value(heldKeysCtx{}).(map[string]struct{})
	_, ok := held[key]
	return ok
}

func (l *Locker) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func (l *Locker) release(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.entries[keys[i]]
		l.mu.Unlock()
		e.sem.Release(1)
		l.unref(keys[i])
	}
}

func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func AccountKey(accountID string) string {
	return "account/" + accountID
}

func ActivityKey(accountID, activityID string) string {
	return "activity/" + accountID + "/" + activityID
}

func RewardKey(rewardID string) string {
	return "reward/" + rewardID
}

func RedemptionKey(redemptionID string) string {
	return "redemption/" + redemptionID
}

func PositionKey(positionID string) string {
	return "stake/" + positionID
}
