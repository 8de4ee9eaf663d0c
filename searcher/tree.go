package searcher

import "slices"

// NodeID and EdgeID address nodes and edges inside a single Tree. They are
// stable for the lifetime of the tree.
type NodeID int
type EdgeID int

const (
	// Root is the ID of every tree's root node
	Root NodeID = 0

	noNode NodeID = -1
	noEdge EdgeID = -1
)

// node stores the actor expected to move (never the state itself) and a fixed
// set of outgoing edges created together with the node.
type node[P comparable] struct {
	label    P
	incoming EdgeID
	edges    []EdgeID
	stats    *NodeStatistics
}

// edge is dangling until target is set. target and reward are written once.
type edge[A comparable] struct {
	label    A
	source   NodeID
	target   NodeID
	reward   float64
	rewarded bool
}

// Tree is one player's search tree, held as an arena of nodes and edges.
// Nodes reference their incoming edge and edges their source node, so
// backpropagation walks upwards without re-deriving the path.
type Tree[A comparable, P comparable] struct {
	nodes []node[P]
	edges []edge[A]
}

// NewTree creates a tree whose root is labelled with label and has one
// dangling edge per action.
func NewTree[A comparable, P comparable](label P, actions []A) *Tree[A, P] {
	t := &Tree[A, P]{}
	t.addNode(label, actions, noEdge)
	return t
}

func (t *Tree[A, P]) addNode(label P, actions []A, incoming EdgeID) NodeID {
	id := NodeID(len(t.nodes))
	edges := make([]EdgeID, len(actions))
	for i, action := range actions {
		edges[i] = EdgeID(len(t.edges))
		t.edges = append(t.edges, edge[A]{
			label:  action,
			source: id,
			target: noNode,
		})
	}
	t.nodes = append(t.nodes, node[P]{
		label:    label,
		incoming: incoming,
		edges:    edges,
		stats:    &NodeStatistics{},
	})
	return id
}

func (t *Tree[A, P]) node(n NodeID) *node[P] {
	if n < 0 || int(n) >= len(t.nodes) {
		violate("node", "unknown node %d", n)
	}
	return &t.nodes[n]
}

func (t *Tree[A, P]) edge(e EdgeID) *edge[A] {
	if e < 0 || int(e) >= len(t.edges) {
		violate("edge", "unknown edge %d", e)
	}
	return &t.edges[e]
}

// Size returns the number of nodes in the tree.
func (t *Tree[A, P]) Size() int {
	return len(t.nodes)
}

// Label returns the actor recorded for node n.
func (t *Tree[A, P]) Label(n NodeID) P {
	return t.node(n).label
}

// IsTerminal reports whether n has no outgoing edges.
func (t *Tree[A, P]) IsTerminal(n NodeID) bool {
	return len(t.node(n).edges) == 0
}

// Edges returns a copy of the outgoing edges of n in construction order.
func (t *Tree[A, P]) Edges(n NodeID) []EdgeID {
	return slices.Clone(t.node(n).edges)
}

// Edge looks up the outgoing edge of n labelled action. An action that was
// not supplied when n was built is a contract violation.
func (t *Tree[A, P]) Edge(n NodeID, action A) EdgeID {
	for _, e := range t.node(n).edges {
		if t.edges[e].label == action {
			return e
		}
	}
	violate("get edge", "edge %v not found at node %d", action, n)
	return noEdge
}

// Statistics returns the lock-guarded statistics of n.
func (t *Tree[A, P]) Statistics(n NodeID) *NodeStatistics {
	return t.node(n).stats
}

// Parent returns the source node of n's incoming edge, or false for a root.
func (t *Tree[A, P]) Parent(n NodeID) (NodeID, bool) {
	incoming := t.node(n).incoming
	if incoming == noEdge {
		return noNode, false
	}
	return t.edges[incoming].source, true
}

// Incoming returns the edge leading into n, or false for a root.
func (t *Tree[A, P]) Incoming(n NodeID) (EdgeID, bool) {
	incoming := t.node(n).incoming
	return incoming, incoming != noEdge
}

// Depth returns the number of edges between n and the root.
func (t *Tree[A, P]) Depth(n NodeID) int {
	depth := 0
	for parent, ok := t.Parent(n); ok; parent, ok = t.Parent(parent) {
		depth++
	}
	return depth
}

// Action returns the label of e, as seen by the tree's owner.
func (t *Tree[A, P]) Action(e EdgeID) A {
	return t.edge(e).label
}

// Source returns the node owning e.
func (t *Tree[A, P]) Source(e EdgeID) NodeID {
	return t.edge(e).source
}

func (t *Tree[A, P]) IsDangling(e EdgeID) bool {
	return t.edge(e).target == noNode
}

// Target returns the child node of an expanded edge.
func (t *Tree[A, P]) Target(e EdgeID) NodeID {
	target := t.edge(e).target
	if target == noNode {
		violate("get target node", "edge %d is dangling", e)
	}
	return target
}

// CreateChild expands a dangling edge with a node labelled label carrying one
// dangling edge per action. Expansion is write-once.
func (t *Tree[A, P]) CreateChild(e EdgeID, label P, actions []A) NodeID {
	if !t.IsDangling(e) {
		violate("create child", "edge %d is already expanded", e)
	}
	child := t.addNode(label, actions, e)
	t.edges[e].target = child
	return child
}

// SetActionReward records the reward observed on first traversal of e.
func (t *Tree[A, P]) SetActionReward(e EdgeID, reward float64) {
	ed := t.edge(e)
	if ed.rewarded {
		violate("set action reward", "edge %d already has a reward", e)
	}
	ed.reward = reward
	ed.rewarded = true
}

func (t *Tree[A, P]) ActionReward(e EdgeID) float64 {
	return t.edge(e).reward
}
