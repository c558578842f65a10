package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ipotracker/internal/logger"
	"ipotracker/internal/models"
	"ipotracker/internal/pkg/investorgain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = time.Hour

// Fetcher retrieves the raw source page.
type Fetcher interface {
	Fetch(ctx context.Context) (*investorgain.RawResponse, error)
}

// Clock returns the current time.
type Clock func() time.Time

// Pipeline serves the current GMP snapshot, refetching the source at most
// once per freshness window.
type Pipeline struct {
	fetcher Fetcher
	now     Clock
	ttl     time.Duration
	log     *logrus.Entry

	mu    sync.RWMutex
	last  *models.Snapshot
	group singleflight.Group
}

type Option func(*Pipeline)

func WithClock(now Clock) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(p *Pipeline) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = logger.WithComponent(log, "pipeline")
		}
	}
}

func New(fetcher Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher: fetcher,
		now:     time.Now,
		ttl:     DefaultTTL,
		log:     logger.WithComponent(logger.Discard(), "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// result is the outcome of one refresh; err is set when the snapshot is
// empty because the fetch or the parse failed.
type result struct {
	snapshot models.Snapshot
	err      error
}

// Current returns the cached snapshot while it is fresh and otherwise
// refreshes it. It always returns a snapshot; failures yield an empty one.
func (p *Pipeline) Current(ctx context.Context) models.Snapshot {
	if snap, ok := p.fresh(); ok {
		return snap
	}

	v, _, _ := p.group.Do("snapshot", func() (any, error) {
		// another caller may have refreshed while we waited for the flight
		if snap, ok := p.fresh(); ok {
			return snap, nil
		}

		res := p.refresh(context.WithoutCancel(ctx))
		p.store(res.snapshot)

		entry := p.log.WithFields(logrus.Fields{
			"rows":       len(res.snapshot.Rows),
			"fetched_at": res.snapshot.FetchedAt,
		})
		if res.err != nil {
			entry.WithError(res.err).Warn("snapshot unavailable, serving empty result")
		} else {
			entry.Info("snapshot refreshed")
		}

		return res.snapshot, nil
	})

	return v.(models.Snapshot)
}

// Invalidate drops the cached snapshot so the next Current refetches.
func (p *Pipeline) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = nil
}

// LastFetchedAt reports when the cached snapshot was produced.
func (p *Pipeline) LastFetchedAt() (time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return time.Time{}, false
	}
	return p.last.FetchedAt, true
}

func (p *Pipeline) TTL() time.Duration { return p.ttl }

func (p *Pipeline) fresh() (models.Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.last == nil {
		return models.Snapshot{}, false
	}
	if p.now().Sub(p.last.FetchedAt) >= p.ttl {
		return models.Snapshot{}, false
	}
	return *p.last, true
}

func (p *Pipeline) store(snap models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = &snap
}

func (p *Pipeline) refresh(ctx context.Context) (res result) {
	defer func() {
		if r := recover(); r != nil {
			res = result{snapshot: models.EmptySnapshot(p.now()), err: fmt.Errorf("refresh panicked: %v", r)}
		}
	}()

	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return result{snapshot: models.EmptySnapshot(p.now()), err: err}
	}

	table, err := investorgain.Parse(raw.Body)
	if err != nil {
		return result{snapshot: models.EmptySnapshot(p.now()), err: err}
	}

	return result{snapshot: table.Snapshot(p.now())}
}
