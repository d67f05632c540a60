// Package poller refetches the owner dashboard on a fixed interval and feeds
// every result through the snapshot equality gate. It holds the current
// snapshot, shares adopted snapshots through the cache, and archives them.
package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bakeryconsole/backend/internal/apierror"
	"bakeryconsole/backend/internal/cache"
	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/snapshot"
	"bakeryconsole/backend/internal/store"
	"bakeryconsole/backend/internal/xid"
)

var ErrFetchInFlight = errors.New("dashboard fetch already in flight")

type FetchFunc func(ctx context.Context) (*domain.DashboardSnapshot, error)

// GateFunc returns the first differing field path, or "" to keep prev.
type GateFunc func(prev, next *domain.DashboardSnapshot) string

type Options struct {
	Interval time.Duration
	Gate     GateFunc
	Cache    cache.SnapshotCache
	CacheKey string
	CacheTTL time.Duration
	Lock     cache.PollLock
	Archive  store.SnapshotArchive
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

// State is what the poller currently holds. Snapshot keeps its pointer
// identity until the gate reports a change.
type State struct {
	Version      uint64                    `json:"version"`
	Snapshot     *domain.DashboardSnapshot `json:"snapshot"`
	CheckedAt    time.Time                 `json:"checkedAt"`
	ChangedAt    time.Time                 `json:"changedAt"`
	ChangedField string                    `json:"changedField,omitempty"`
	LastError    string                    `json:"lastError,omitempty"`
}

type Poller struct {
	fetch  FetchFunc
	opts   Options
	log    logrus.FieldLogger
	tracer trace.Tracer

	inFlight atomic.Bool

	mu    sync.RWMutex
	state State

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int
}

func New(fetch FetchFunc, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = 3 * time.Second
	}
	if opts.Gate == nil {
		opts.Gate = snapshot.Diff
	}
	if opts.Cache == nil {
		opts.Cache = cache.NoopSnapshotCache{}
	}
	if opts.CacheKey == "" {
		opts.CacheKey = "bakeryconsole:dashboard:owner"
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if opts.Lock == nil {
		opts.Lock = cache.NoopPollLock{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Poller{
		fetch:  fetch,
		opts:   opts,
		log:    opts.Logger.WithField("component", "poller"),
		tracer: otel.Tracer("bakeryconsole/poller"),
		subs:   make(map[int]chan State),
	}
}

func (p *Poller) Current() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Run polls immediately and then on every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.tick(ctx)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	_, err := p.Refresh(ctx)
	if errors.Is(err, ErrFetchInFlight) {
		p.log.Debug("skipping cycle, previous fetch still running")
	}
}

// Refresh runs one cycle now. It returns ErrFetchInFlight instead of
// starting a second concurrent fetch.
func (p *Poller) Refresh(ctx context.Context) (_ State, err error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return p.Current(), ErrFetchInFlight
	}
	defer p.inFlight.Store(false)

	ctx, span := p.tracer.Start(ctx, "poller.cycle")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	release, owner, err := p.opts.Lock.TryLock(ctx, p.opts.CacheKey+":lock", p.opts.Interval)
	if err != nil {
		p.log.WithError(err).Warn("poll lock unavailable, fetching locally")
		owner = true
		release = nil
	}
	if !owner {
		span.SetAttributes(attribute.String("poller.source", "cache"))
		return p.fromCache(ctx)
	}
	if release != nil {
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			if err := release(releaseCtx); err != nil {
				p.log.WithError(err).Warn("release poll lock")
			}
		}()
	}

	span.SetAttributes(attribute.String("poller.source", "backend"))
	fresh, err := p.fetch(ctx)
	if err != nil {
		return p.fail(err), err
	}

	state, adopted := p.adopt(fresh, 0)
	span.SetAttributes(attribute.Bool("poller.adopted", adopted), attribute.Int64("poller.version", int64(state.Version)))
	if adopted {
		p.publish(ctx, state)
	}
	return state, nil
}

// Warm seeds the poller from the shared cache, through the gate.
func (p *Poller) Warm(ctx context.Context) error {
	_, err := p.fromCache(ctx)
	return err
}

func (p *Poller) fromCache(ctx context.Context) (State, error) {
	record, ok, err := p.opts.Cache.Get(ctx, p.opts.CacheKey)
	if err != nil {
		p.log.WithError(err).Warn("read shared snapshot")
		return p.Current(), err
	}
	if !ok || record == nil || record.Snapshot == nil {
		return p.Current(), nil
	}
	state, _ := p.adopt(record.Snapshot, record.Version)
	return state, nil
}

// adopt runs the gate against the held snapshot. A non-zero version comes
// from another instance and wins when it is ahead of ours.
func (p *Poller) adopt(fresh *domain.DashboardSnapshot, version uint64) (State, bool) {
	if fresh == nil {
		return p.Current(), false
	}
	p.mu.Lock()
	now := p.opts.Now().UTC()
	field := p.opts.Gate(p.state.Snapshot, fresh)
	p.state.CheckedAt = now
	p.state.LastError = ""
	if field == "" {
		state := p.state
		p.mu.Unlock()
		return state, false
	}

	p.state.Snapshot = fresh
	p.state.ChangedAt = now
	p.state.ChangedField = field
	if version > p.state.Version {
		p.state.Version = version
	} else {
		p.state.Version++
	}
	state := p.state
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{"version": state.Version, "changed_field": field}).Info("dashboard snapshot changed")
	p.notify(state)
	return state, true
}

func (p *Poller) fail(err error) State {
	msg := apierror.Message(err)
	if errors.Is(err, context.Canceled) {
		msg = "fetch cancelled"
	}

	p.mu.Lock()
	p.state.LastError = msg
	state := p.state
	p.mu.Unlock()

	p.log.WithError(err).Warn("dashboard fetch failed, keeping current snapshot")
	return state
}

func (p *Poller) publish(ctx context.Context, state State) {
	record := domain.SnapshotRecord{
		ID:           xid.New("snap"),
		Version:      state.Version,
		ChangedField: state.ChangedField,
		CapturedAt:   state.ChangedAt,
		Snapshot:     state.Snapshot,
	}
	if err := p.opts.Cache.Set(ctx, p.opts.CacheKey, &record, p.opts.CacheTTL); err != nil {
		p.log.WithError(err).Warn("share snapshot")
	}
	if p.opts.Archive != nil {
		if err := p.opts.Archive.SaveSnapshot(ctx, record); err != nil {
			p.log.WithError(err).Warn("archive snapshot")
		}
	}
}

// Subscribe delivers every adopted state. Slow subscribers only see the most
// recent one. Call the returned func to unsubscribe.
func (p *Poller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.subMu.Unlock()

	return ch, func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		if _, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(ch)
		}
	}
}

func (p *Poller) notify(state State) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
