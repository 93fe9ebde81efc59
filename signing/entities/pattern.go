package entities

// NodeKind distinguishes the glyph drawn for a pattern node.
type NodeKind string

const (
	NodeRing NodeKind = "ring"
	NodeDot  NodeKind = "dot"
)

// PatternNode is one digest segment placed on the canvas.
// Coordinates are in viewBox units (hundredths of a canvas unit).
type PatternNode struct {
	Kind    NodeKind
	Color   string
	Segment int
	X       int
	Y       int
}

// PatternEdge joins two nodes by index.
// Mask edges are cosmetic and never part of the canonical pattern.
type PatternEdge struct {
	Color string
	From  int
	To    int
	Mask  bool
}

// VisualPattern is the deterministic visual fingerprint of a digest.
type VisualPattern struct {
	SVG   string
	Nodes []PatternNode
	Edges []PatternEdge
}
