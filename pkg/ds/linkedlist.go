package ds

import (
	"fmt"
	"iter"

	"github.com/matzehuels/bridges/pkg/document"
)

// none marks the absence of a node position.
const none = -1

// LinkedList is an ordered sequence of elements and the edges its topology
// implies.
//
// Nodes live in a single owned sequence. The chain is expressed with integer
// positions: next runs head→tail and prev is a lookup-only reverse index, so
// there are no reference cycles between nodes. Edges are regenerated on every
// append; for circular topologies the closing edge(s) are always the last
// entries of the edge list.
//
// A LinkedList is not safe for concurrent use.
type LinkedList[V any] struct {
	nodes    []*Element[V]
	next     []int
	prev     []int
	head     int
	tail     int
	links    []*Link
	closing  int // trailing entries of links that close the ring
	topology Topology
	equal    func(a, b V) bool
}

// NewLinkedList returns an empty list whose values are compared with ==.
func NewLinkedList[V comparable](t Topology) *LinkedList[V] {
	return NewLinkedListFunc[V](t, func(a, b V) bool { return a == b })
}

// NewLinkedListFunc returns an empty list whose values are compared with
// equal. Use it for value types that are not comparable.
func NewLinkedListFunc[V any](t Topology, equal func(a, b V) bool) *LinkedList[V] {
	return &LinkedList[V]{
		head:     none,
		tail:     none,
		topology: t,
		equal:    equal,
	}
}

// Topology returns the current topology.
func (l *LinkedList[V]) Topology() Topology { return l.topology }

// SetTopology changes the topology. Existing edges are kept; the new topology
// governs edge generation from the next append on and the document tag.
func (l *LinkedList[V]) SetTopology(t Topology) { l.topology = t }

// Visual returns the document tag of the current topology.
func (l *LinkedList[V]) Visual() string { return l.topology.Tag() }

// Len returns the number of nodes.
func (l *LinkedList[V]) Len() int { return len(l.nodes) }

// Append adds e at the tail and regenerates edges. The list stores its own
// copy of e. The first element becomes both head and tail and produces no
// edges.
func (l *LinkedList[V]) Append(e Element[V]) {
	pos := len(l.nodes)
	owned := e
	l.nodes = append(l.nodes, &owned)
	l.next = append(l.next, none)
	l.prev = append(l.prev, none)

	if pos == 0 {
		l.head, l.tail = pos, pos
		return
	}

	l.next[l.tail] = pos
	l.prev[pos] = l.tail
	l.tail = pos
	l.regenerate()
}

// regenerate applies the topology rule for the current node count n ≥ 2:
// retire the previous closing edges, link the new tail to its predecessor,
// then close the ring again if the topology is circular.
func (l *LinkedList[V]) regenerate() {
	n := uint32(len(l.nodes))
	rule := l.topology.rule()

	kept := len(l.links) - l.closing
	clear(l.links[kept:])
	l.links = l.links[:kept]
	l.closing = 0

	l.addLink(n-2, n-1)
	if rule.backward {
		l.addLink(n-1, n-2)
	}
	if rule.circular {
		l.addLink(n-1, 0)
		l.closing++
		if rule.backward {
			l.addLink(0, n-1)
			l.closing++
		}
	}
}

func (l *LinkedList[V]) addLink(source, target uint32) {
	link := NewLink(source, target)
	l.links = append(l.links, &link)
}

// Head returns the first node, or nil for an empty list.
func (l *LinkedList[V]) Head() *Element[V] { return l.Node(l.head) }

// Tail returns the last node, or nil for an empty list.
func (l *LinkedList[V]) Tail() *Element[V] { return l.Node(l.tail) }

// Node returns the node at position i, or nil if i is out of range. The
// element is owned by the list; changes to its style are reflected in the
// list's document.
func (l *LinkedList[V]) Node(i int) *Element[V] {
	if i < 0 || i >= len(l.nodes) {
		return nil
	}
	return l.nodes[i]
}

// Next returns the position following i in head→tail order.
func (l *LinkedList[V]) Next(i int) (int, bool) {
	if i < 0 || i >= len(l.next) || l.next[i] == none {
		return none, false
	}
	return l.next[i], true
}

// Prev returns the position preceding i in head→tail order.
func (l *LinkedList[V]) Prev(i int) (int, bool) {
	if i < 0 || i >= len(l.prev) || l.prev[i] == none {
		return none, false
	}
	return l.prev[i], true
}

// All iterates positions and nodes from head to tail.
func (l *LinkedList[V]) All() iter.Seq2[int, *Element[V]] {
	return func(yield func(int, *Element[V]) bool) {
		for i := l.head; i != none; i = l.next[i] {
			if !yield(i, l.nodes[i]) {
				return
			}
		}
	}
}

// Values iterates node values from head to tail.
func (l *LinkedList[V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, n := range l.All() {
			if !yield(n.Value) {
				return
			}
		}
	}
}

// Links returns a copy of the current edges in order.
func (l *LinkedList[V]) Links() []Link {
	out := make([]Link, len(l.links))
	for i, link := range l.links {
		out[i] = *link
	}
	return out
}

// Link returns the edge from the first node holding source to the first node
// holding target, in append order. It returns nil when either value is absent
// or no such edge currently exists. The returned edge is owned by the list;
// changing its style changes the list's document.
func (l *LinkedList[V]) Link(source, target V) *Link {
	s, ok := l.indexOf(source)
	if !ok {
		return nil
	}
	t, ok := l.indexOf(target)
	if !ok {
		return nil
	}
	return l.LinkAt(s, t)
}

// LinkAt returns the edge between two node positions, or nil. Like [Link],
// the edge is owned by the list.
func (l *LinkedList[V]) LinkAt(source, target int) *Link {
	if source < 0 || target < 0 {
		return nil
	}
	for _, link := range l.links {
		if link.Connects(uint32(source), uint32(target)) {
			return link
		}
	}
	return nil
}

// IndexOf returns the position of the first node holding v.
func (l *LinkedList[V]) IndexOf(v V) (int, bool) { return l.indexOf(v) }

func (l *LinkedList[V]) indexOf(v V) (int, bool) {
	for i, n := range l.nodes {
		if l.equal(n.Value, v) {
			return i, true
		}
	}
	return none, false
}

// Document encodes the list as {visual, nodes, links}.
func (l *LinkedList[V]) Document() (document.Document, error) {
	nodes, err := encodeNodes(l.nodes)
	if err != nil {
		return nil, fmt.Errorf("linked list: %w", err)
	}
	links, err := document.Canonical(l.Links())
	if err != nil {
		return nil, fmt.Errorf("linked list links: %w", err)
	}
	return document.Document{
		"visual": l.Visual(),
		"nodes":  nodes,
		"links":  links,
	}, nil
}
