package pathfinding

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"wayfinder/internal/core"
	"wayfinder/internal/graph"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	// ErrNoPath is returned when the frontier empties before reaching the goal
	ErrNoPath = errors.New("no path found")
	// ErrMissingEndpoint is returned when start, goal or a projection endpoint is unset
	ErrMissingEndpoint = errors.New("path endpoint not set")
	// ErrUnknownNode is returned when an endpoint is not part of the cached graph
	ErrUnknownNode = errors.New("node not in graph cache")
	// ErrNoSpecialNode is returned when no special node exists or none is reachable
	ErrNoSpecialNode = errors.New("no reachable special node")
)

// DegenerateEdgeEpsilon is the squared length below which an edge is skipped
const DegenerateEdgeEpsilon = 1e-8

// DefaultSpecialCacheSize bounds the closest-special-node memo
const DefaultSpecialCacheSize = 256

// GraphPathfinder implements A* over the waypoint graph held by a graph.Store.
// Search state is allocated per call (pooled), so a single GraphPathfinder may
// serve concurrent callers.
type GraphPathfinder struct {
	store     *graph.Store
	heuristic core.HeuristicFunc3D
	maxNodes  int // 0 means unbounded
	logger    *slog.Logger
	special   *lru.Cache[specialKey, core.NodeID]
	states    sync.Pool
}

// searchState is the working area of one search
type searchState struct {
	cameFrom map[core.NodeID]*core.Node
	gScore   map[core.NodeID]float64
	open     map[core.NodeID]*frontierItem
	queue    frontier
	seq      uint64
}

// seed is a frontier entry present before the first expansion
type seed struct {
	node *core.Node
	g    float64
}

// NewGraphPathfinder creates a pathfinder reading from store
func NewGraphPathfinder(store *graph.Store) *GraphPathfinder {
	special, _ := lru.New[specialKey, core.NodeID](DefaultSpecialCacheSize)

	return &GraphPathfinder{
		store:     store,
		heuristic: EuclideanDistance3D,
		logger:    slog.Default(),
		special:   special,
		states: sync.Pool{
			New: func() interface{} {
				return &searchState{
					cameFrom: make(map[core.NodeID]*core.Node),
					gScore:   make(map[core.NodeID]float64),
					open:     make(map[core.NodeID]*frontierItem),
				}
			},
		},
	}
}

// SetHeuristic sets the heuristic function and drops memoized special-node answers
func (p *GraphPathfinder) SetHeuristic(heuristic core.HeuristicFunc3D) {
	if heuristic != nil {
		p.heuristic = heuristic
		p.special.Purge()
	}
}

// SetMaxNodes sets the maximum number of nodes to expand per search, 0 for no
// limit. Memoized special-node answers are dropped.
func (p *GraphPathfinder) SetMaxNodes(maxNodes int) {
	p.maxNodes = maxNodes
	p.special.Purge()
}

// SetLogger sets the logger used for search diagnostics
func (p *GraphPathfinder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Store returns the graph store the pathfinder reads from
func (p *GraphPathfinder) Store() *graph.Store {
	return p.store
}

// FindPath finds the shortest node-to-node path from start to goal
func (p *GraphPathfinder) FindPath(start, goal *core.Node) (core.Path, error) {
	return p.findPath(p.store.EnsureCache(), start, goal)
}

func (p *GraphPathfinder) findPath(snap *graph.Snapshot, start, goal *core.Node) (core.Path, error) {
	if start == nil || goal == nil {
		return nil, ErrMissingEndpoint
	}

	s, err := resolve(snap, start)
	if err != nil {
		return nil, err
	}
	g, err := resolve(snap, goal)
	if err != nil {
		return nil, err
	}

	return p.search(snap, []seed{{node: s, g: 0}}, g)
}

// FindPathFromProjection finds the shortest path from a projection point to
// goal. Both edge endpoints start on the frontier with their distance to the
// projection point as initial cost, so the returned path begins at A or B and
// the caller prepends proj.Point to obtain the full route.
func (p *GraphPathfinder) FindPathFromProjection(proj core.Projection, goal *core.Node) (core.Path, error) {
	return p.findPathFromProjection(p.store.EnsureCache(), proj, goal)
}

func (p *GraphPathfinder) findPathFromProjection(snap *graph.Snapshot, proj core.Projection, goal *core.Node) (core.Path, error) {
	if !proj.Valid() || goal == nil {
		return nil, ErrMissingEndpoint
	}

	a, err := resolve(snap, proj.A)
	if err != nil {
		return nil, err
	}
	b, err := resolve(snap, proj.B)
	if err != nil {
		return nil, err
	}
	g, err := resolve(snap, goal)
	if err != nil {
		return nil, err
	}

	return p.search(snap, []seed{{node: a, g: proj.DA}, {node: b, g: proj.DB}}, g)
}

// search runs A* from the given seeds to goal
func (p *GraphPathfinder) search(snap *graph.Snapshot, seeds []seed, goal *core.Node) (core.Path, error) {
	st := p.states.Get().(*searchState)
	defer p.release(st)

	for _, s := range seeds {
		st.gScore[s.node.ID] = s.g
		st.admit(s.node, s.g+p.heuristic(s.node.Position, goal.Position))
	}

	nodesExplored := 0

	for st.queue.Len() > 0 {
		if p.maxNodes > 0 && nodesExplored >= p.maxNodes {
			break
		}

		current := heap.Pop(&st.queue).(*frontierItem).node
		delete(st.open, current.ID)

		if current.ID == goal.ID {
			return st.reconstructPath(current), nil
		}
		nodesExplored++

		currentG := st.g(current.ID)
		for _, neighbor := range snap.Neighbors(current) {
			tentativeG := currentG + EuclideanDistance3D(current.Position, neighbor.Position)
			if tentativeG >= st.g(neighbor.ID) {
				continue
			}

			st.cameFrom[neighbor.ID] = current
			st.gScore[neighbor.ID] = tentativeG
			f := tentativeG + p.heuristic(neighbor.Position, goal.Position)

			if item, inOpen := st.open[neighbor.ID]; inOpen {
				st.queue.update(item, f)
			} else {
				st.admit(neighbor, f)
			}
		}
	}

	p.logger.Debug("graph search exhausted",
		slog.String("goal", goal.Name),
		slog.Int("explored", nodesExplored))

	return nil, fmt.Errorf("%w to %q (explored %d nodes)", ErrNoPath, goal.Name, nodesExplored)
}

func (p *GraphPathfinder) release(st *searchState) {
	clear(st.cameFrom)
	clear(st.gScore)
	clear(st.open)
	for i := range st.queue {
		st.queue[i] = nil
	}
	st.queue = st.queue[:0]
	st.seq = 0
	p.states.Put(st)
}

// g returns the best known cost to id; nodes never relaxed are unreachable
func (st *searchState) g(id core.NodeID) float64 {
	if g, ok := st.gScore[id]; ok {
		return g
	}
	return math.Inf(1)
}

// admit pushes a node onto the frontier
func (st *searchState) admit(node *core.Node, f float64) {
	item := &frontierItem{node: node, f: f, seq: st.seq}
	st.seq++
	st.open[node.ID] = item
	heap.Push(&st.queue, item)
}

// reconstructPath walks predecessors back from goal and reverses the result
func (st *searchState) reconstructPath(goal *core.Node) core.Path {
	path := core.Path{goal}
	current := goal

	for {
		prev, ok := st.cameFrom[current.ID]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}

	// Reverse path to go from start to goal
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// resolve maps a caller-held node onto the snapshot's copy. The ID must still
// carry the same name, otherwise the node belongs to another graph.
func resolve(snap *graph.Snapshot, n *core.Node) (*core.Node, error) {
	cached, ok := snap.Node(n.ID)
	if !ok || cached.Name != n.Name {
		return nil, fmt.Errorf("%w: %q (id %d)", ErrUnknownNode, n.Name, n.ID)
	}
	return cached, nil
}
