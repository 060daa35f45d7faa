package ds

import (
	"fmt"

	"github.com/matzehuels/bridges/pkg/document"
)

// VisualArray is the document tag of an [Array].
const VisualArray = "Array"

// Array is an ordered sequence of elements plus a three-dimensional shape
// descriptor. Dims is caller-managed metadata and is never derived from or
// checked against len(Nodes).
type Array[V any] struct {
	Dims  [3]int8
	Nodes []Element[V]
}

// NewArray returns an empty array with dims [0, 0, 0].
func NewArray[V any]() *Array[V] {
	return &Array[V]{}
}

// Append adds e after the last node. Dims is left unchanged.
func (a *Array[V]) Append(e Element[V]) { a.Nodes = append(a.Nodes, e) }

// Len returns the number of nodes.
func (a *Array[V]) Len() int { return len(a.Nodes) }

// Visual returns "Array".
func (a *Array[V]) Visual() string { return VisualArray }

// Document encodes the array as {visual, dims, nodes}.
func (a *Array[V]) Document() (document.Document, error) {
	nodes := make([]*Element[V], len(a.Nodes))
	for i := range a.Nodes {
		nodes[i] = &a.Nodes[i]
	}
	encoded, err := encodeNodes(nodes)
	if err != nil {
		return nil, fmt.Errorf("array: %w", err)
	}
	dims, err := document.Canonical(a.Dims)
	if err != nil {
		return nil, fmt.Errorf("array dims: %w", err)
	}
	return document.Document{
		"visual": VisualArray,
		"dims":   dims,
		"nodes":  encoded,
	}, nil
}
