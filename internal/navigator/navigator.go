// Package navigator turns a query position and a goal name into a route,
// choosing between the direct path and a path through the closest water node.
package navigator

import (
	"errors"
	"fmt"
	"log/slog"
	"wayfinder/internal/core"
	"wayfinder/internal/pathfinding"
)

var (
	// ErrGoalNotFound is returned when no cached node carries the goal name
	ErrGoalNotFound = errors.New("goal node not found")
	// ErrNoProjection is returned when the graph has no edge to project onto
	ErrNoProjection = errors.New("no graph edge to project onto")
	// ErrNoRoute is returned when neither the direct nor the via-water path exists
	ErrNoRoute = errors.New("no route to goal")
)

// Options controls route selection
type Options struct {
	WaterPrefix   string // Label prefix of water nodes
	ForceViaWater bool   // Prefer the via-water route whenever it exists
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{WaterPrefix: core.DefaultWaterPrefix}
}

// Route is one planning result
type Route struct {
	Position   core.Vector3D
	Projection core.Projection
	Goal       *core.Node
	Water      *core.Node // Closest water node by path, nil if none reachable
	Path       core.Path  // Chosen node path; prepend Projection.Point to draw it
	ViaWater   bool       // Path is the via-water candidate
	Forced     bool       // ForceViaWater was set for this plan
	Cost       float64    // Lead-in from the projection point plus the path length
	Generation uint64     // Graph snapshot the route was computed on
}

// ShowsWater reports whether the water node should be highlighted
func (r *Route) ShowsWater() bool {
	if r.Water == nil {
		return false
	}
	return r.Forced || r.Path.Contains(r.Water.ID)
}

// Navigator plans routes on top of a GraphPathfinder
type Navigator struct {
	pf     *pathfinding.GraphPathfinder
	opts   Options
	logger *slog.Logger
}

// New creates a navigator
func New(pf *pathfinding.GraphPathfinder, opts Options) *Navigator {
	if opts.WaterPrefix == "" {
		opts.WaterPrefix = core.DefaultWaterPrefix
	}
	return &Navigator{
		pf:     pf,
		opts:   opts,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger used for planning diagnostics
func (n *Navigator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		n.logger = logger
	}
}

// Options returns the navigator's default options
func (n *Navigator) Options() Options {
	return n.opts
}

// Plan computes a route from position to the node named goalName
func (n *Navigator) Plan(position core.Vector3D, goalName string) (*Route, error) {
	return n.PlanWithOptions(position, goalName, n.opts)
}

// PlanWithOptions is Plan with per-call options
func (n *Navigator) PlanWithOptions(position core.Vector3D, goalName string, opts Options) (*Route, error) {
	if opts.WaterPrefix == "" {
		opts.WaterPrefix = n.opts.WaterPrefix
	}

	view := n.pf.View()
	snap := view.Snapshot()
	goal, ok := snap.NodeByName(goalName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGoalNotFound, goalName)
	}

	proj := view.FindClosestProjection(position)
	if !proj.Valid() {
		return nil, ErrNoProjection
	}

	route := &Route{
		Position:   position,
		Projection: proj,
		Goal:       goal,
		Forced:     opts.ForceViaWater,
		Generation: snap.Generation(),
	}

	water, err := view.ClosestSpecialNodeByPath(goal, opts.WaterPrefix)
	if err != nil && !errors.Is(err, pathfinding.ErrNoSpecialNode) {
		return nil, err
	}
	route.Water = water

	direct, err := n.candidate(view.FindPathFromProjection(proj, goal))
	if err != nil {
		return nil, err
	}

	var via core.Path
	if water != nil {
		toWater, err := n.candidate(view.FindPathFromProjection(proj, water))
		if err != nil {
			return nil, err
		}
		toGoal, err := n.candidate(view.FindPath(water, goal))
		if err != nil {
			return nil, err
		}
		if toWater != nil && toGoal != nil {
			via = pathfinding.CombinePaths(toWater, toGoal)
		}
	}

	directCost := pathfinding.RouteCost(proj.Point, direct)
	viaCost := pathfinding.RouteCost(proj.Point, via)

	switch {
	case direct == nil && via == nil:
		return nil, fmt.Errorf("%w: %q unreachable from projection on %s-%s",
			ErrNoRoute, goalName, proj.A.Name, proj.B.Name)
	case via == nil:
		route.Path, route.Cost = direct, directCost
	case direct == nil, opts.ForceViaWater, viaCost < directCost:
		route.Path, route.Cost, route.ViaWater = via, viaCost, true
	default:
		route.Path, route.Cost = direct, directCost
	}

	n.logger.Info("route planned",
		slog.String("goal", goal.Name),
		slog.String("water", nodeName(water)),
		slog.Bool("via_water", route.ViaWater),
		slog.Float64("cost", route.Cost),
		slog.Int("nodes", len(route.Path)))

	return route, nil
}

// candidate turns an unreachable leg into an absent path and passes other
// errors through
func (n *Navigator) candidate(path core.Path, err error) (core.Path, error) {
	if errors.Is(err, pathfinding.ErrNoPath) {
		n.logger.Debug("route candidate unreachable", slog.String("error", err.Error()))
		return nil, nil
	}
	return path, err
}

func nodeName(n *core.Node) string {
	if n == nil {
		return ""
	}
	return n.Name
}
