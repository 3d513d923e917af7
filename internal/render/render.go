// Package render converts planned routes into the values an external
// renderer draws: a polyline and a set of highlighted node markers.
package render

import (
	"sort"
	"sync"
	"wayfinder/internal/core"
	"wayfinder/internal/navigator"
)

// DefaultMarkerYOffset lifts markers above the node they highlight
const DefaultMarkerYOffset = 1.5

// MarkerKind identifies what a marker highlights
type MarkerKind string

const (
	MarkerGoal  MarkerKind = "goal"
	MarkerWater MarkerKind = "water"
)

// Marker is a highlight placed above a node
type Marker struct {
	Kind     MarkerKind    `json:"kind"`
	Node     string        `json:"node"`
	Position core.Vector3D `json:"position"`
}

// Polyline returns the projection point followed by the path's node
// positions. An empty path yields no polyline.
func Polyline(proj core.Projection, path core.Path) []core.Vector3D {
	if len(path) == 0 {
		return nil
	}

	points := make([]core.Vector3D, 0, len(path)+1)
	points = append(points, proj.Point)
	for _, n := range path {
		points = append(points, n.Position)
	}
	return points
}

// Markers returns the markers for a route: the goal always, the water node
// only when the route goes through it or was forced to
func Markers(route *navigator.Route, yOffset float64) []Marker {
	if route == nil || route.Goal == nil {
		return nil
	}

	markers := []Marker{markerAt(MarkerGoal, route.Goal, yOffset)}
	if route.ShowsWater() {
		markers = append(markers, markerAt(MarkerWater, route.Water, yOffset))
	}
	return markers
}

func markerAt(kind MarkerKind, n *core.Node, yOffset float64) Marker {
	pos := n.Position
	pos.Y += yOffset
	return Marker{Kind: kind, Node: n.Name, Position: pos}
}

// MarkerBoard keeps at most one placed marker per kind
type MarkerBoard struct {
	mu      sync.RWMutex
	markers map[MarkerKind]Marker
}

// NewMarkerBoard creates an empty board
func NewMarkerBoard() *MarkerBoard {
	return &MarkerBoard{markers: make(map[MarkerKind]Marker)}
}

// Place replaces the marker of the same kind
func (b *MarkerBoard) Place(m Marker) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markers[m.Kind] = m
}

// Clear removes the marker of the given kind
func (b *MarkerBoard) Clear(kind MarkerKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.markers, kind)
}

// Get returns the marker of the given kind
func (b *MarkerBoard) Get(kind MarkerKind) (Marker, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.markers[kind]
	return m, ok
}

// Sync makes the board show exactly the given markers
func (b *MarkerBoard) Sync(markers []Marker) {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.markers)
	for _, m := range markers {
		b.markers[m.Kind] = m
	}
}

// All returns the placed markers ordered by kind
func (b *MarkerBoard) All() []Marker {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Marker, 0, len(b.markers))
	for _, m := range b.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Frame is everything the renderer needs for one planning cycle
type Frame struct {
	Goal     string          `json:"goal"`
	Water    string          `json:"water,omitempty"`
	ViaWater bool            `json:"via_water"`
	Cost     float64         `json:"cost"`
	Nodes    []string        `json:"nodes"`
	Polyline []core.Vector3D `json:"polyline"`
	Markers  []Marker        `json:"markers"`
}

// NewFrame builds the frame for a route
func NewFrame(route *navigator.Route, yOffset float64) Frame {
	f := Frame{
		Goal:     route.Goal.Name,
		ViaWater: route.ViaWater,
		Cost:     route.Cost,
		Nodes:    route.Path.Names(),
		Polyline: Polyline(route.Projection, route.Path),
		Markers:  Markers(route, yOffset),
	}
	if route.Water != nil {
		f.Water = route.Water.Name
	}
	return f
}
