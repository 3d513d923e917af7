package wayfinder

import (
	"errors"
	"fmt"
	"log/slog"
	"wayfinder/internal/core"
	"wayfinder/internal/graph"
	"wayfinder/internal/navigator"
	"wayfinder/internal/pathfinding"
	"wayfinder/internal/render"
	"wayfinder/internal/world"
	"wayfinder/internal/worldfile"
)

// ErrNodeNotFound is returned when a node name is not in the cached graph
var ErrNodeNotFound = errors.New("node not found")

// Engine is the main waypoint navigation engine
type Engine struct {
	world      *world.Manager
	store      *graph.Store
	pathfinder *pathfinding.GraphPathfinder
	navigator  *navigator.Navigator
	markers    *render.MarkerBoard
	config     *Config
}

// Config holds configuration for the engine
type Config struct {
	WaterPrefix    string
	ForceViaWater  bool
	MarkerYOffset  float64
	MaxSearchNodes int // 0 means unbounded
	Logger         *slog.Logger
}

// NewEngine creates a new wayfinder engine over an empty world
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if config.WaterPrefix == "" {
		config.WaterPrefix = core.DefaultWaterPrefix
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := world.NewManager()

	store := graph.NewStore(w)
	store.SetLogger(logger)

	pathfinder := pathfinding.NewGraphPathfinder(store)
	pathfinder.SetMaxNodes(config.MaxSearchNodes)
	pathfinder.SetLogger(logger)

	nav := navigator.New(pathfinder, navigator.Options{
		WaterPrefix:   config.WaterPrefix,
		ForceViaWater: config.ForceViaWater,
	})
	nav.SetLogger(logger)

	return &Engine{
		world:      w,
		store:      store,
		pathfinder: pathfinder,
		navigator:  nav,
		markers:    render.NewMarkerBoard(),
		config:     config,
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		WaterPrefix:    core.DefaultWaterPrefix,
		ForceViaWater:  false,
		MarkerYOffset:  render.DefaultMarkerYOffset,
		MaxSearchNodes: 0,
	}
}

// World Management

// AddNode adds a waypoint and returns its ID
func (e *Engine) AddNode(name string, position core.Vector3D) (core.NodeID, error) {
	return e.world.AddNode(name, position)
}

// RemoveNode removes a waypoint and every link to it
func (e *Engine) RemoveNode(id core.NodeID) error {
	return e.world.RemoveNode(id)
}

// MoveNode moves a waypoint
func (e *Engine) MoveNode(id core.NodeID, position core.Vector3D) error {
	return e.world.MoveNode(id, position)
}

// Link connects two waypoints both ways
func (e *Engine) Link(a, b core.NodeID) error {
	return e.world.Link(a, b)
}

// LinkOneWay adds to to from's neighbor list only
func (e *Engine) LinkOneWay(from, to core.NodeID) error {
	return e.world.LinkOneWay(from, to)
}

// Unlink removes the link between two waypoints in both directions
func (e *Engine) Unlink(a, b core.NodeID) error {
	return e.world.Unlink(a, b)
}

// GetNode returns a copy of the world node with the given ID
func (e *Engine) GetNode(id core.NodeID) (*core.Node, error) {
	return e.world.GetNode(id)
}

// GetNodeCount returns the number of nodes in the world
func (e *Engine) GetNodeCount() int {
	return e.world.GetNodeCount()
}

// ClearWorld removes every node
func (e *Engine) ClearWorld() {
	e.world.Clear()
}

// LoadGraph replaces the world with the graph file at path and refreshes the cache
func (e *Engine) LoadGraph(path string) error {
	f, err := worldfile.Load(path)
	if err != nil {
		return err
	}
	return e.ApplyGraph(f)
}

// ApplyGraph replaces the world with f and refreshes the cache
func (e *Engine) ApplyGraph(f *worldfile.File) error {
	if err := worldfile.Apply(e.world, f); err != nil {
		return err
	}
	e.store.Refresh()
	return nil
}

// SaveGraph writes the world to path
func (e *Engine) SaveGraph(path string) error {
	return worldfile.Save(path, worldfile.FromNodes(e.world.Nodes()))
}

// Graph Cache

// Refresh re-reads the world into the graph cache and returns the new generation.
// World changes are invisible to queries until the next Refresh.
func (e *Engine) Refresh() uint64 {
	return e.store.Refresh().Generation()
}

// Generation returns the generation of the cached graph, 0 before the first use
func (e *Engine) Generation() uint64 {
	return e.store.Generation()
}

// Lookup returns the cached node with the given name
func (e *Engine) Lookup(name string) (*core.Node, error) {
	return lookup(e.store.EnsureCache(), name)
}

func lookup(snap *graph.Snapshot, name string) (*core.Node, error) {
	n, ok := snap.NodeByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	return n, nil
}

// Queries

// FindClosestProjection projects point onto the nearest graph edge
func (e *Engine) FindClosestProjection(point core.Vector3D) core.Projection {
	return e.pathfinder.FindClosestProjection(point)
}

// FindPath finds the shortest path between two named nodes
func (e *Engine) FindPath(from, to string) (core.Path, error) {
	view := e.pathfinder.View()
	start, err := lookup(view.Snapshot(), from)
	if err != nil {
		return nil, err
	}
	goal, err := lookup(view.Snapshot(), to)
	if err != nil {
		return nil, err
	}
	return view.FindPath(start, goal)
}

// FindPathFromPoint projects point onto the graph and finds the shortest
// path from there to the named goal
func (e *Engine) FindPathFromPoint(point core.Vector3D, to string) (core.Projection, core.Path, error) {
	view := e.pathfinder.View()
	goal, err := lookup(view.Snapshot(), to)
	if err != nil {
		return core.NoProjection(), nil, err
	}
	proj := view.FindClosestProjection(point)
	if !proj.Valid() {
		return proj, nil, navigator.ErrNoProjection
	}
	path, err := view.FindPathFromProjection(proj, goal)
	return proj, path, err
}

// WaterNodes returns the cached water nodes
func (e *Engine) WaterNodes() []*core.Node {
	return e.pathfinder.SpecialNodes(e.config.WaterPrefix)
}

// ClosestWaterNode returns the water node with the shortest path from the named goal
func (e *Engine) ClosestWaterNode(goal string) (*core.Node, error) {
	view := e.pathfinder.View()
	g, err := lookup(view.Snapshot(), goal)
	if err != nil {
		return nil, err
	}
	return view.ClosestSpecialNodeByPath(g, e.config.WaterPrefix)
}

// NearestNode returns the cached node closest to point in a straight line
func (e *Engine) NearestNode(point core.Vector3D) *core.Node {
	return e.store.EnsureCache().NearestNode(point)
}

// SetPathfindingHeuristic sets the heuristic function for graph search
func (e *Engine) SetPathfindingHeuristic(heuristic core.HeuristicFunc3D) {
	e.pathfinder.SetHeuristic(heuristic)
}

// Navigation

// Plan computes the route from point to the named goal with the engine's options
func (e *Engine) Plan(point core.Vector3D, goal string) (*navigator.Route, error) {
	return e.navigator.Plan(point, goal)
}

// PlanWithOptions computes a route with per-call options
func (e *Engine) PlanWithOptions(point core.Vector3D, goal string, opts navigator.Options) (*navigator.Route, error) {
	return e.navigator.PlanWithOptions(point, goal, opts)
}

// Frame converts a route into renderer output and updates the marker board
func (e *Engine) Frame(route *navigator.Route) render.Frame {
	frame := render.NewFrame(route, e.config.MarkerYOffset)
	e.markers.Sync(frame.Markers)
	return frame
}

// Markers returns the currently placed markers
func (e *Engine) Markers() []render.Marker {
	return e.markers.All()
}

// Components

// Navigator returns the route planner
func (e *Engine) Navigator() *navigator.Navigator {
	return e.navigator
}

// Store returns the graph cache
func (e *Engine) Store() *graph.Store {
	return e.store
}

// GetConfig returns the current engine configuration
func (e *Engine) GetConfig() *Config {
	return e.config
}

// GetStats returns graph statistics from the cached snapshot
func (e *Engine) GetStats() Stats {
	snap := e.store.EnsureCache()
	return Stats{
		NodeCount:      snap.Len(),
		EdgeCount:      snap.EdgeCount(),
		WaterCount:     len(snap.Special(e.config.WaterPrefix)),
		WorldNodeCount: e.world.GetNodeCount(),
		Generation:     snap.Generation(),
	}
}

// Stats represents graph statistics
type Stats struct {
	NodeCount      int
	EdgeCount      int
	WaterCount     int
	WorldNodeCount int // Differs from NodeCount while the cache is stale
	Generation     uint64
}
