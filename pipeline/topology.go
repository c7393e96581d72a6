package pipeline

// Topology describes the arrangement of blocks in a pipeline as an explicit
// tagged tree: a leaf holds one block, a series threads each member's
// output into the next member, and a parallel group feeds the same input to
// every member and collects the outputs into a Group. Topologies nest
// arbitrarily; a nested Pipeline is itself a Block wrapped in a Leaf.
type Topology struct {
	kind     topoKind
	block    Block
	children []Topology
}

type topoKind int

const (
	leafNode topoKind = iota
	seriesNode
	parallelNode
)

// Leaf wraps a single block as a topology node.
func Leaf(b Block) Topology {
	return Topology{kind: leafNode, block: b}
}

// Series arranges children so the output of member i feeds member i+1.
// This is the only place one block's output becomes another's input.
func Series(children ...Topology) Topology {
	return Topology{kind: seriesNode, children: children}
}

// Parallel feeds the same input to every child and collects the outputs
// into a Group in declared order. Members are processed sequentially; the
// grouping describes data fan-out, not concurrent execution.
func Parallel(children ...Topology) Topology {
	return Topology{kind: parallelNode, children: children}
}

// Chain is shorthand for a series of single blocks.
func Chain(blocks ...Block) Topology {
	children := make([]Topology, len(blocks))
	for i, b := range blocks {
		children[i] = Leaf(b)
	}
	return Series(children...)
}

// FanOut is shorthand for a parallel group of single blocks.
func FanOut(blocks ...Block) Topology {
	children := make([]Topology, len(blocks))
	for i, b := range blocks {
		children[i] = Leaf(b)
	}
	return Parallel(children...)
}
