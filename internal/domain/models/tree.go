package models

// Node is a single node of a decision tree. A node is either a leaf
// (Leaf == true, carrying Value/Count/Weight) or a split (carrying
// Feature/Threshold and owning exactly two children). A node claiming both
// roles, or a split missing a branch, is a structural violation surfaced as
// ErrMalformedTree by the walker.
type Node struct {
	// Split fields.
	Feature   string
	Threshold float64
	LessEq    *Node // taken when value <= Threshold
	Greater   *Node // taken when value > Threshold

	// Leaf fields.
	Leaf   bool
	Value  float64 // predicted contribution of this leaf
	Count  int     // training samples routed to this leaf
	Weight float64 // leaf weight as exported by the trainer
}

// Tree is one member of a boosted ensemble, identified by its position in
// the boosting sequence.
type Tree struct {
	Index int
	Root  *Node
}

// Ensemble is an ordered, read-only collection of trees. It is owned by the
// caller and never mutated by the extraction pipeline.
type Ensemble struct {
	Trees []*Tree
}

// NumLeaves counts leaves reachable from the root. Walks child pointers
// without a cycle guard; intended for well-formed trees (tests, reporting).
func (t *Tree) NumLeaves() int {
	var count func(n *Node) int
	count = func(n *Node) int {
		if n == nil {
			return 0
		}
		if n.Leaf {
			return 1
		}
		return count(n.LessEq) + count(n.Greater)
	}
	return count(t.Root)
}
