// Package resolver maps free-text locations and foreign reservation ids
// to canonical resource ids, backed by a TTL-refreshed alias snapshot.
package resolver

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"campus-ops/internal/logger"
	"campus-ops/internal/matching"
	"campus-ops/internal/repository"
)

// Store provides the alias and resource collections the resolver caches.
type Store interface {
	ListAliases(ctx context.Context) ([]repository.ResourceAlias, error)
	ListActive(ctx context.Context) ([]repository.Resource, error)
}

// snapshot is an immutable view of the alias table. Refreshes swap the
// whole snapshot atomically; readers never see a half-updated map.
type snapshot struct {
	aliases   map[string]int32
	byForeign map[int32]int32
	resources []repository.Resource
	loadedAt  time.Time
}

// Resolver resolves location text and foreign reservation ids to
// canonical resource ids. Safe for concurrent use.
type Resolver struct {
	store Store
	ttl   time.Duration

	snap       atomic.Pointer[snapshot]
	loadMu     sync.Mutex
	refreshing atomic.Bool
}

// New creates a resolver over the given store with the given cache TTL.
func New(store Store, ttl time.Duration) *Resolver {
	return &Resolver{store: store, ttl: ttl}
}

// Resolve maps free-text to a resource id by exact lookup on the
// normalized alias text. No fuzzy matching happens at this layer; that
// is deliberately confined to LocationFuzzyMatch.
func (r *Resolver) Resolve(ctx context.Context, text string) (int32, bool, error) {
	snap, err := r.current(ctx)
	if err != nil {
		return 0, false, err
	}

	id, ok := snap.aliases[matching.Normalize(text)]
	return id, ok, nil
}

// ResolveForeignReservation resolves a raw reservation record. A numeric
// foreign resource id is authoritative: when present but unknown,
// resolution fails without falling back to name matching, so similarly
// named but distinct rooms never cross-link.
func (r *Resolver) ResolveForeignReservation(ctx context.Context, ev repository.RawEvent) (int32, bool, error) {
	if foreignID, ok := numericForeignID(ev); ok {
		snap, err := r.current(ctx)
		if err != nil {
			return 0, false, err
		}
		id, found := snap.byForeign[foreignID]
		return id, found, nil
	}

	if ev.Resource != nil {
		return r.Resolve(ctx, *ev.Resource)
	}
	if ev.Location != nil {
		return r.Resolve(ctx, *ev.Location)
	}
	return 0, false, nil
}

// LocationFuzzyMatch is the legacy fallback for free-text locations that
// have no alias. It requires the location to contain the resource's
// description, or its abbreviation on a word boundary. Containment is
// one-directional so short generic strings cannot spuriously match.
func (r *Resolver) LocationFuzzyMatch(ctx context.Context, location string) (int32, bool, error) {
	snap, err := r.current(ctx)
	if err != nil {
		return 0, false, err
	}

	loc := matching.Normalize(location)
	if loc == "" {
		return 0, false, nil
	}

	for _, res := range snap.resources {
		if res.Description != nil && *res.Description != "" &&
			matching.ContainsWord(loc, *res.Description) {
			return res.ID, true, nil
		}
		if res.Abbreviation != nil && *res.Abbreviation != "" &&
			matching.ContainsWord(loc, *res.Abbreviation) {
			return res.ID, true, nil
		}
	}
	return 0, false, nil
}

// Invalidate drops the snapshot so the next resolve reloads. Callers
// that just wrote new aliases use this for read-your-writes freshness.
func (r *Resolver) Invalidate() {
	r.snap.Store(nil)
}

// current returns a usable snapshot. The first call loads synchronously;
// after that a stale snapshot is served while a background refresh runs,
// so resolves never block on the TTL.
func (r *Resolver) current(ctx context.Context) (*snapshot, error) {
	if snap := r.snap.Load(); snap != nil {
		if time.Since(snap.loadedAt) > r.ttl {
			r.refreshAsync()
		}
		return snap, nil
	}

	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	// Another caller may have loaded while we waited.
	if snap := r.snap.Load(); snap != nil {
		return snap, nil
	}

	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	r.snap.Store(snap)
	return snap, nil
}

func (r *Resolver) refreshAsync() {
	if !r.refreshing.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer r.refreshing.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		snap, err := r.load(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("alias cache refresh failed, serving stale snapshot")
			return
		}
		r.snap.Store(snap)
	}()
}

func (r *Resolver) load(ctx context.Context) (*snapshot, error) {
	aliases, err := r.store.ListAliases(ctx)
	if err != nil {
		return nil, err
	}
	resources, err := r.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		aliases:   make(map[string]int32, len(aliases)),
		byForeign: make(map[int32]int32),
		resources: resources,
		loadedAt:  time.Now(),
	}
	for _, a := range aliases {
		snap.aliases[matching.Normalize(a.Alias)] = a.ResourceID
	}
	for _, res := range resources {
		if res.ForeignID != nil {
			snap.byForeign[*res.ForeignID] = res.ID
		}
	}
	return snap, nil
}

func numericForeignID(ev repository.RawEvent) (int32, bool) {
	if ev.Resource == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(matching.Normalize(*ev.Resource), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
