package ds

import (
	"fmt"

	"github.com/matzehuels/bridges/pkg/document"
)

// Default style values for new elements.
const (
	DefaultSize  float32 = 10
	DefaultShape         = "circle"
)

// Style holds the visual attributes of a node.
type Style struct {
	Name     string     `json:"name"`
	Color    [4]float32 `json:"color"`
	Size     float32    `json:"size"`
	Location [2]float32 `json:"location"`
	Shape    string     `json:"shape"`
}

// DefaultStyle returns an opaque black circle of size 10 at the origin.
func DefaultStyle() Style {
	return Style{
		Color: ColorBlack,
		Size:  DefaultSize,
		Shape: DefaultShape,
	}
}

// Element is a single visualizable node: a value plus its style.
type Element[V any] struct {
	Value V `json:"value"`
	Style
}

// ElementOption configures an element's style in [NewElement].
type ElementOption func(*Style)

// WithName sets the node label.
func WithName(name string) ElementOption { return func(s *Style) { s.Name = name } }

// WithColor sets the node color.
func WithColor(c [4]float32) ElementOption { return func(s *Style) { s.Color = c } }

// WithSize sets the node size.
func WithSize(size float32) ElementOption { return func(s *Style) { s.Size = size } }

// WithLocation fixes the node at (x, y).
func WithLocation(x, y float32) ElementOption {
	return func(s *Style) { s.Location = [2]float32{x, y} }
}

// WithShape sets the node shape (e.g. "circle", "square", "diamond").
func WithShape(shape string) ElementOption { return func(s *Style) { s.Shape = shape } }

// NewElement returns an element holding v with the default style, then
// applies opts in order. No validation is performed.
func NewElement[V any](v V, opts ...ElementOption) Element[V] {
	e := Element[V]{Value: v, Style: DefaultStyle()}
	for _, opt := range opts {
		opt(&e.Style)
	}
	return e
}

// encodeNodes converts elements to their canonical document form. The first
// value that cannot be encoded aborts the conversion.
func encodeNodes[V any](nodes []*Element[V]) ([]any, error) {
	out := make([]any, 0, len(nodes))
	for i, n := range nodes {
		c, err := document.Canonical(n)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}
