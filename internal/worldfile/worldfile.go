// Package worldfile reads and writes waypoint graphs as YAML:
//
//	nodes:
//	  - name: A
//	    position: [0, 0, 0]
//	    neighbors: [B, D]
package worldfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"wayfinder/internal/core"
	"wayfinder/internal/world"

	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateName is returned when two nodes share a name
	ErrDuplicateName = errors.New("duplicate node name")
	// ErrUnknownNeighbor is returned when a neighbor name matches no node
	ErrUnknownNeighbor = errors.New("unknown neighbor")
	// ErrInvalidNode is returned for nodes without a name or a 3-D position
	ErrInvalidNode = errors.New("invalid node")
)

// File is a decoded graph file
type File struct {
	Nodes []NodeSpec `yaml:"nodes"`
}

// NodeSpec describes one node
type NodeSpec struct {
	Name      string    `yaml:"name"`
	Position  []float64 `yaml:"position,flow"`
	Neighbors []string  `yaml:"neighbors,flow,omitempty"`
}

// Load reads and validates the graph file at path
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Decode reads and validates a graph file
func Decode(r io.Reader) (*File, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing graph file: %w", err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate checks names, positions and neighbor references
func (f *File) Validate() error {
	names := make(map[string]struct{}, len(f.Nodes))
	for i, n := range f.Nodes {
		if strings.TrimSpace(n.Name) == "" {
			return fmt.Errorf("%w: node %d has no name", ErrInvalidNode, i)
		}
		if len(n.Position) != 3 {
			return fmt.Errorf("%w: node %q needs 3 coordinates, got %d", ErrInvalidNode, n.Name, len(n.Position))
		}
		if _, dup := names[n.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, n.Name)
		}
		names[n.Name] = struct{}{}
	}

	for _, n := range f.Nodes {
		for _, nb := range n.Neighbors {
			if _, ok := names[nb]; !ok {
				return fmt.Errorf("%w: %q lists %q", ErrUnknownNeighbor, n.Name, nb)
			}
		}
	}
	return nil
}

// ToNodes converts the file to nodes with IDs assigned in file order from 1.
// Neighbor lists keep file order; one-directional entries stay one-directional.
func (f *File) ToNodes() []*core.Node {
	return f.toNodes(nil)
}

// toNodes converts the file keeping the ID of every name found in keep.
// Other names get fresh IDs above the largest kept one, in file order.
func (f *File) toNodes(keep map[string]core.NodeID) []*core.Node {
	ids := make(map[string]core.NodeID, len(f.Nodes))
	next := core.InvalidNodeID
	for _, n := range f.Nodes {
		if id, ok := keep[n.Name]; ok {
			ids[n.Name] = id
			next = max(next, id)
		}
	}
	for _, n := range f.Nodes {
		if _, ok := ids[n.Name]; !ok {
			next++
			ids[n.Name] = next
		}
	}

	nodes := make([]*core.Node, len(f.Nodes))
	for i, n := range f.Nodes {
		node := &core.Node{
			ID:       ids[n.Name],
			Name:     n.Name,
			Position: core.Vector3D{X: n.Position[0], Y: n.Position[1], Z: n.Position[2]},
		}
		for _, nb := range n.Neighbors {
			node.Neighbors = append(node.Neighbors, ids[nb])
		}
		nodes[i] = node
	}
	return nodes
}

// Apply replaces the world's population with the file's nodes. Names already
// in the world keep their IDs, so node identity survives a reload.
func Apply(w *world.Manager, f *File) error {
	keep := make(map[string]core.NodeID)
	for _, n := range w.Nodes() {
		keep[n.Name] = n.ID
	}
	return w.Replace(f.toNodes(keep))
}

// FromNodes builds a file from nodes, e.g. to save a world
func FromNodes(nodes []*core.Node) *File {
	names := make(map[core.NodeID]string, len(nodes))
	for _, n := range nodes {
		names[n.ID] = n.Name
	}

	f := &File{Nodes: make([]NodeSpec, 0, len(nodes))}
	for _, n := range nodes {
		spec := NodeSpec{
			Name:     n.Name,
			Position: []float64{n.Position.X, n.Position.Y, n.Position.Z},
		}
		for _, id := range n.Neighbors {
			if name, ok := names[id]; ok {
				spec.Neighbors = append(spec.Neighbors, name)
			}
		}
		f.Nodes = append(f.Nodes, spec)
	}
	return f
}

// Encode writes f as YAML
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes f to path
func Save(path string, f *File) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
