package validation

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/learnmap/internal/helpers"
	"github.com/mohammad-safakhou/learnmap/internal/platform/logger"
	"golang.org/x/sync/singleflight"
)

// VerdictStore persists reachability verdicts by URL fingerprint.
type VerdictStore interface {
	GetVerdict(ctx context.Context, fingerprint string) (reachable bool, found bool, err error)
	SaveVerdict(ctx context.Context, fingerprint string, reachable bool, ttl time.Duration) error
}

// CachedChecker remembers verdicts of an underlying Checker. Concurrent
// checks of the same URL share one probe, which runs detached from the
// caller's cancellation. Store failures fall through to a live probe.
type CachedChecker struct {
	next        Checker
	store       VerdictStore
	ttl         time.Duration
	negativeTTL time.Duration
	group       singleflight.Group
	log         *logger.Logger
}

// NewCachedChecker wraps next. Reachable verdicts live for ttl, unreachable
// ones for negativeTTL.
func NewCachedChecker(next Checker, store VerdictStore, ttl, negativeTTL time.Duration, log *logger.Logger) *CachedChecker {
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedChecker{next: next, store: store, ttl: ttl, negativeTTL: negativeTTL, log: log}
}

func (c *CachedChecker) IsReachable(ctx context.Context, rawURL string) bool {
	key, err := helpers.URLFingerprint(rawURL)
	if err != nil {
		return c.next.IsReachable(ctx, rawURL)
	}

	if reachable, found, err := c.store.GetVerdict(ctx, key); err != nil {
		recordCacheLookup(ctx, "error")
		c.log.Warn("reachability cache read failed", "url", rawURL, "error", err)
	} else if found {
		recordCacheLookup(ctx, "hit")
		return reachable
	} else {
		recordCacheLookup(ctx, "miss")
	}

	// The shared check is detached from caller cancellation.
	checkCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		reachable := c.next.IsReachable(checkCtx, rawURL)
		ttl := c.ttl
		if !reachable {
			ttl = c.negativeTTL
		}
		if ttl > 0 {
			if err := c.store.SaveVerdict(checkCtx, key, reachable, ttl); err != nil {
				c.log.Warn("reachability cache write failed", "url", rawURL, "error", err)
			}
		}
		return reachable, nil
	})
	select {
	case res := <-ch:
		reachable, _ := res.Val.(bool)
		return reachable
	case <-ctx.Done():
		return false
	}
}
