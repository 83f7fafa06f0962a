package domain

import "fmt"

// NodeID identifies one node in a stage graph.
type NodeID string

// Node is one executable stage in the workflow graph.
type Node struct {
	ID      NodeID         `json:"id"`
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// StageSpec records one stage spliced into a graph: the reference node it
// was injected after, what it runs, and the context it carries forward.
type StageSpec struct {
	ID      NodeID         `json:"id"`
	After   NodeID         `json:"after"`
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// FlowComposer is the graph-mutation surface strategies compose against.
type FlowComposer interface {
	// InjectAfter splices a new stage between the reference node and its
	// current successors. Repeated calls against the same reference keep
	// invocation order: each new stage lands after the previously
	// injected one, not directly behind the reference.
	InjectAfter(after NodeID, name, stageType string, context map[string]any) (NodeID, error)
}

// StageGraph is an ID-keyed arena of stages with explicit successor
// edges. Every field is exported so a graph snapshot survives workflow
// serialization; mutation is not safe for concurrent use.
type StageGraph struct {
	Nodes map[NodeID]Node     `json:"nodes"`
	Edges map[NodeID][]NodeID `json:"edges,omitempty"`

	// Injected lists the stages added to this graph in injection order.
	Injected []StageSpec `json:"injected,omitempty"`

	// Tails remembers the last stage injected after each reference node.
	Tails map[NodeID]NodeID `json:"tails,omitempty"`

	// Seq numbers generated node IDs.
	Seq int `json:"seq"`
}

// NewStageGraph builds a graph from nodes already present in the host
// workflow, wiring them into a linear chain in the given order.
func NewStageGraph(nodes ...Node) *StageGraph {
	g := &StageGraph{
		Nodes: make(map[NodeID]Node, len(nodes)),
		Edges: make(map[NodeID][]NodeID),
	}
	var prev NodeID
	for i, n := range nodes {
		g.Nodes[n.ID] = n
		if i > 0 {
			g.Edges[prev] = append(g.Edges[prev], n.ID)
		}
		prev = n.ID
	}
	return g
}

// Node returns the node with the given ID.
func (g *StageGraph) Node(id NodeID) (Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// InjectAfter implements [FlowComposer].
func (g *StageGraph) InjectAfter(after NodeID, name, stageType string, context map[string]any) (NodeID, error) {
	if _, ok := g.Nodes[after]; !ok {
		return "", fmt.Errorf("%w: no node %q in graph", ErrInvalidArgument, after)
	}

	g.Seq++
	id := NodeID(fmt.Sprintf("%s-%d-%s", after, g.Seq, name))

	anchor := after
	if tail, ok := g.Tails[after]; ok {
		anchor = tail
	}

	g.Nodes[id] = Node{ID: id, Name: name, Type: stageType, Context: context}
	if g.Edges == nil {
		g.Edges = make(map[NodeID][]NodeID)
	}
	g.Edges[id] = g.Edges[anchor]
	g.Edges[anchor] = []NodeID{id}

	if g.Tails == nil {
		g.Tails = make(map[NodeID]NodeID)
	}
	g.Tails[after] = id

	g.Injected = append(g.Injected, StageSpec{ID: id, After: after, Name: name, Type: stageType, Context: context})
	return id, nil
}

// Chain walks successor edges from a node and returns the IDs visited in
// order. It stops where the path branches, ends, or loops back.
func (g *StageGraph) Chain(from NodeID) []NodeID {
	var out []NodeID
	seen := map[NodeID]bool{from: true}
	cur := from
	for {
		next := g.Edges[cur]
		if len(next) != 1 || seen[next[0]] {
			return out
		}
		cur = next[0]
		seen[cur] = true
		out = append(out, cur)
	}
}

// Flow is the slice of the graph one planning pass composes against: the
// deployment node being planned and the composer that splices stages
// after it.
type Flow struct {
	Stage NodeID
	Graph FlowComposer
}

// InjectAfter splices a stage after the flow's deployment node.
func (f Flow) InjectAfter(name, stageType string, context map[string]any) (NodeID, error) {
	return f.Graph.InjectAfter(f.Stage, name, stageType, context)
}
