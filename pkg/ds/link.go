package ds

// Link is a directed, styled edge between two node positions of a container.
// Positions are indices into the container's node sequence in append order.
type Link struct {
	Color     [4]float32 `json:"color"`
	Thickness uint32     `json:"thickness"`
	Weight    uint32     `json:"weight"`
	Source    uint32     `json:"source"`
	Target    uint32     `json:"target"`
}

// NewLink returns an opaque black edge from source to target with thickness
// and weight 1.
func NewLink(source, target uint32) Link {
	return Link{
		Color:     ColorBlack,
		Thickness: 1,
		Weight:    1,
		Source:    source,
		Target:    target,
	}
}

// Connects reports whether l runs from source to target.
func (l *Link) Connects(source, target uint32) bool {
	return l.Source == source && l.Target == target
}
