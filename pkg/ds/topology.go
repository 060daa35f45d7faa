package ds

import (
	"strings"

	errs "github.com/matzehuels/bridges/pkg/errors"
)

// Topology determines which edges a [LinkedList] generates on append and which
// document tag it reports.
type Topology int

// Supported topologies.
const (
	Single Topology = iota
	Double
	CircleSingle
	CircleDouble
)

// Document tags reported by linked lists.
const (
	VisualSinglyLinkedList         = "SinglyLinkedList"
	VisualDoublyLinkedList         = "DoublyLinkedList"
	VisualCircularDoublyLinkedList = "CircularDoublyLinkedList"
)

// topologyRule is one row of the edge regeneration table.
type topologyRule struct {
	name     string // configuration name
	tag      string // document "visual" tag
	backward bool   // add (n-1, n-2) after (n-2, n-1)
	circular bool   // close the ring with (n-1, 0), and (0, n-1) when backward
}

var topologyRules = [...]topologyRule{
	Single:       {name: "single", tag: VisualSinglyLinkedList},
	Double:       {name: "double", tag: VisualDoublyLinkedList, backward: true},
	CircleSingle: {name: "circle-single", tag: VisualCircularDoublyLinkedList, circular: true},
	CircleDouble: {name: "circle-double", tag: VisualCircularDoublyLinkedList, backward: true, circular: true},
}

func (t Topology) rule() topologyRule {
	if t < 0 || int(t) >= len(topologyRules) {
		return topologyRules[Single]
	}
	return topologyRules[t]
}

// Valid reports whether t is one of the supported topologies.
func (t Topology) Valid() bool { return t >= 0 && int(t) < len(topologyRules) }

// String returns the configuration name ("single", "double", ...).
func (t Topology) String() string { return t.rule().name }

// Tag returns the document "visual" tag. Both circular topologies report
// "CircularDoublyLinkedList".
func (t Topology) Tag() string { return t.rule().tag }

// Circular reports whether the topology closes the list into a ring.
func (t Topology) Circular() bool { return t.rule().circular }

// Bidirectional reports whether every forward edge has a backward twin.
func (t Topology) Bidirectional() bool { return t.rule().backward }

// ClosingEdges is the number of wrap-around edges kept at the end of the edge
// list once the list has at least two nodes.
func (t Topology) ClosingEdges() int {
	r := t.rule()
	switch {
	case !r.circular:
		return 0
	case r.backward:
		return 2
	default:
		return 1
	}
}

var topologyAliases = map[string]Topology{
	"single":        Single,
	"singly":        Single,
	"double":        Double,
	"doubly":        Double,
	"circle-single": CircleSingle,
	"circlesingle":  CircleSingle,
	"circular":      CircleSingle,
	"circle-double": CircleDouble,
	"circledouble":  CircleDouble,
}

// ParseTopology resolves a topology name. Matching is case-insensitive and
// accepts "_" in place of "-".
func ParseTopology(s string) (Topology, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if t, ok := topologyAliases[key]; ok {
		return t, nil
	}
	return Single, errs.New(errs.ErrCodeInvalidTopology, "unknown topology %q (want single, double, circle-single or circle-double)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Topology) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, errs.New(errs.ErrCodeInvalidTopology, "invalid topology %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Topology) UnmarshalText(text []byte) error {
	parsed, err := ParseTopology(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
