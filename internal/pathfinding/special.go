package pathfinding

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"wayfinder/internal/core"
	"wayfinder/internal/graph"
)

// specialKey identifies one memoized closest-special-node answer. The
// generation ties it to a snapshot, so a Refresh retires every entry.
type specialKey struct {
	generation uint64
	goal       core.NodeID
	prefix     string
}

// SpecialNodes returns the cached nodes whose label starts with prefix
func (p *GraphPathfinder) SpecialNodes(prefix string) []*core.Node {
	return p.store.EnsureCache().Special(prefix)
}

// ClosestSpecialNodeByPath returns the special node with the shortest path
// from goal. Every candidate costs one full search; the first minimum wins.
// A candidate equal to goal yields a one-node path of infinite length and is
// never chosen.
func (p *GraphPathfinder) ClosestSpecialNodeByPath(goal *core.Node, prefix string) (*core.Node, error) {
	return p.closestSpecialByPath(p.store.EnsureCache(), goal, prefix)
}

func (p *GraphPathfinder) closestSpecialByPath(snap *graph.Snapshot, goal *core.Node, prefix string) (*core.Node, error) {
	if goal == nil {
		return nil, ErrMissingEndpoint
	}

	g, err := resolve(snap, goal)
	if err != nil {
		return nil, err
	}

	key := specialKey{generation: snap.Generation(), goal: g.ID, prefix: prefix}
	if id, ok := p.special.Get(key); ok {
		return lookupSpecial(snap, id, g, prefix)
	}

	best, err := p.closestSpecial(snap, g, prefix)
	if err != nil && !errors.Is(err, ErrNoSpecialNode) {
		return nil, err
	}

	id := core.InvalidNodeID
	if best != nil {
		id = best.ID
	}
	p.special.Add(key, id)

	return best, err
}

func (p *GraphPathfinder) closestSpecial(snap *graph.Snapshot, goal *core.Node, prefix string) (*core.Node, error) {
	candidates := snap.Special(prefix)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no node labelled %q*", ErrNoSpecialNode, prefix)
	}

	var best *core.Node
	bestLength := math.Inf(1)

	for _, candidate := range candidates {
		path, err := p.findPath(snap, goal, candidate)
		if err != nil {
			if errors.Is(err, ErrNoPath) {
				continue
			}
			return nil, err
		}

		length := PathLength(path)
		if length < bestLength {
			best = candidate
			bestLength = length
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: none of %d %q* nodes reachable from %q",
			ErrNoSpecialNode, len(candidates), prefix, goal.Name)
	}

	p.logger.Debug("closest special node",
		slog.String("goal", goal.Name),
		slog.String("special", best.Name),
		slog.Float64("length", bestLength))

	return best, nil
}

func lookupSpecial(snap *graph.Snapshot, id core.NodeID, goal *core.Node, prefix string) (*core.Node, error) {
	if id == core.InvalidNodeID {
		return nil, fmt.Errorf("%w: none reachable from %q with prefix %q", ErrNoSpecialNode, goal.Name, prefix)
	}
	n, _ := snap.Node(id)
	return n, nil
}
