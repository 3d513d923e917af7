// Package follow runs the periodic poll, plan and emit cycle.
package follow

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"wayfinder/internal/core"
	"wayfinder/internal/feed"
	"wayfinder/internal/history"
	"wayfinder/internal/navigator"
	"wayfinder/internal/watch"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is the time between cycles
const DefaultInterval = time.Second

// PositionSource reports the current query position
type PositionSource interface {
	Position(ctx context.Context) (core.Vector3D, error)
}

// FixedPosition is a PositionSource that never moves
type FixedPosition core.Vector3D

// Position returns p
func (p FixedPosition) Position(context.Context) (core.Vector3D, error) {
	return core.Vector3D(p), nil
}

// Planner computes a route to a named goal
type Planner interface {
	Plan(position core.Vector3D, goalName string) (*navigator.Route, error)
}

// Recorder journals routes
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// Sink receives every planned route
type Sink func(ctx context.Context, route *navigator.Route) error

// Loop polls the goal feed and plans a route on every tick
type Loop struct {
	poller   *feed.Poller
	position PositionSource
	planner  Planner
	sinks    []Sink
	journal  Recorder
	interval time.Duration
	logger   *slog.Logger

	lastRoute string
}

// New creates a loop. A zero interval uses DefaultInterval.
func New(poller *feed.Poller, position PositionSource, planner Planner, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		poller:   poller,
		position: position,
		planner:  planner,
		interval: interval,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger used for cycle diagnostics
func (l *Loop) SetLogger(logger *slog.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// AddSink registers a route consumer
func (l *Loop) AddSink(sink Sink) {
	l.sinks = append(l.sinks, sink)
}

// SetJournal records each distinct route to r
func (l *Loop) SetJournal(r Recorder) {
	l.journal = r
}

// Cycle runs one poll, plan and emit step
func (l *Loop) Cycle(ctx context.Context) (*navigator.Route, error) {
	goal, _, err := l.poller.Poll(ctx)
	if goal == "" {
		if err == nil {
			err = feed.ErrNoGoal
		}
		return nil, err
	}

	pos, err := l.position.Position(ctx)
	if err != nil {
		return nil, err
	}

	route, err := l.planner.Plan(pos, goal)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, sink := range l.sinks {
		if err := sink(ctx, route); err != nil {
			errs = append(errs, err)
		}
	}

	if err := l.record(ctx, route); err != nil {
		errs = append(errs, err)
	}

	return route, errors.Join(errs...)
}

// record journals route unless it repeats the previous one
func (l *Loop) record(ctx context.Context, route *navigator.Route) error {
	if l.journal == nil {
		return nil
	}

	names := route.Path.Names()
	water := ""
	if route.Water != nil {
		water = route.Water.Name
	}
	signature := strings.Join([]string{
		route.Goal.Name, water, strconv.FormatBool(route.ViaWater), strings.Join(names, ","),
	}, "|")
	if signature == l.lastRoute {
		return nil
	}

	entry := history.Entry{
		Goal:     route.Goal.Name,
		ViaWater: route.ViaWater,
		Cost:     route.Cost,
		Water:    water,
		Nodes:    names,
	}

	if _, err := l.journal.Record(ctx, entry); err != nil {
		return err
	}
	l.lastRoute = signature
	return nil
}

// Run cycles until ctx is done. Failed cycles are logged and never stop it.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		l.runCycle(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (l *Loop) runCycle(ctx context.Context) {
	id := uuid.NewString()
	route, err := l.Cycle(ctx)
	if err != nil {
		l.logger.Warn("follow cycle failed", slog.String("cycle", id), slog.String("error", err.Error()))
		return
	}
	l.logger.Debug("follow cycle",
		slog.String("cycle", id),
		slog.String("goal", route.Goal.Name),
		slog.Float64("cost", route.Cost))
}

// Supervise runs the loop and, when w is non-nil, the graph watcher until ctx
// is done or one of them fails.
func Supervise(ctx context.Context, l *Loop, w *watch.Watcher, reload func() error) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return l.Run(ctx) })
	if w != nil {
		g.Go(func() error { return w.Run(ctx, reload) })
	}

	return g.Wait()
}
