package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"golang.org/x/sync/semaphore"
)

// lockTable hands out one binary semaphore per account id. Semaphores are
// used instead of mutexes because acquisition must honour a deadline.
type lockTable struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

func newLockTable() *lockTable {
	return &lockTable{sems: make(map[string]*semaphore.Weighted)}
}

func (l *lockTable) get(id string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.sems[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[id] = sem
	}
	return sem
}

// acquire locks ids in ascending order. Either every lock is held when it
// returns, or none is.
func (l *lockTable) acquire(ctx context.Context, ids []string, timeout time.Duration) (func(), error) {
	ordered := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	held := make([]*semaphore.Weighted, 0, len(ordered))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}

	for _, id := range ordered {
		sem := l.get(id)
		if err := sem.Acquire(waitCtx, 1); err != nil {
			release()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: timed out waiting for account %s", apperrors.ErrBusy, id)
			}
			return nil, err
		}
		held = append(held, sem)
	}
	return release, nil
}
