// Package graph caches the waypoint population and serves immutable snapshots
// of it to the projection and search code.
package graph

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"wayfinder/internal/core"
)

// Source enumerates the current waypoint population
type Source interface {
	Nodes() []*core.Node
}

// SourceFunc adapts a function to Source
type SourceFunc func() []*core.Node

// Nodes calls f
func (f SourceFunc) Nodes() []*core.Node { return f() }

// Store holds the cached node set. The cache is rebuilt only by Refresh;
// callers decide when the world has changed enough to warrant one.
type Store struct {
	source     Source
	refreshMu  sync.Mutex
	current    atomic.Pointer[Snapshot]
	generation uint64
	logger     *slog.Logger
}

// NewStore creates a store reading from source. A nil source behaves as an
// empty world.
func NewStore(source Source) *Store {
	return &Store{
		source: source,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger used for refresh diagnostics
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Refresh re-enumerates the source and replaces the cached snapshot
func (s *Store) Refresh() *Snapshot {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	return s.refreshLocked()
}

// EnsureCache returns the cached snapshot, refreshing only if none exists yet
func (s *Store) EnsureCache() *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return s.refreshLocked()
}

func (s *Store) refreshLocked() *Snapshot {
	var nodes []*core.Node
	if s.source != nil {
		nodes = s.source.Nodes()
	}

	s.generation++
	snap := newSnapshot(s.generation, nodes)
	s.current.Store(snap)

	s.logger.Debug("graph cache refreshed",
		slog.Uint64("generation", snap.Generation()),
		slog.Int("nodes", snap.Len()))

	return snap
}

// Cached reports whether a snapshot exists
func (s *Store) Cached() bool {
	return s.current.Load() != nil
}

// Generation returns the generation of the cached snapshot, 0 if none
func (s *Store) Generation() uint64 {
	if snap := s.current.Load(); snap != nil {
		return snap.Generation()
	}
	return 0
}
