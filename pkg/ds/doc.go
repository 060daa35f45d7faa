// Package ds provides visualizable data structures: styled nodes, arrays and
// linked lists whose edges are maintained according to a topology.
//
// # Elements
//
// An [Element] wraps a caller value with style attributes:
//
//	e := ds.NewElement(42, ds.WithName("answer"), ds.WithColor(ds.ColorRed))
//	e.Size = 20
//
// Values are encoded with encoding/json when a container builds its document.
// A value type customizes its encoded form by implementing json.Marshaler.
//
// # Containers
//
// [Array] is an ordered node sequence plus caller-managed dimensions. Nothing
// ties Dims to len(Nodes); callers describe the layout they want rendered.
//
// [LinkedList] owns its nodes and edges. Each [LinkedList.Append] regenerates
// the edges implied by the list's [Topology]:
//
//	list := ds.NewLinkedList[int](ds.CircleSingle)
//	for _, v := range []int{10, 20, 30} {
//	    list.Append(ds.NewElement(v))
//	}
//	// links: 0→1, 1→2, 2→0
//	if l := list.Link(20, 30); l != nil {
//	    l.Color = ds.ColorBlue
//	}
//
// Circular topologies keep their closing edge(s) as the last entries of the
// edge list so that an append replaces them instead of accumulating stale
// wrap-around edges.
//
// # Documents
//
// Both containers implement Visual and Document, producing the shapes
//
//	{visual: "Array", dims: [d0, d1, d2], nodes: [...]}
//	{visual: "<topology tag>", nodes: [...], links: [...]}
//
// where each node is {value, name, color, size, location, shape} and each link
// is {color, thickness, weight, source, target}.
package ds
