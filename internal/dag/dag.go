// SPDX-License-Identifier: MPL-2.0

// Package dag orders pack names along their dependency edges and reports the
// cycles that prevent an ordering. The group resolver uses it to compute
// dependency-first install orders and to lint catalogs for cyclic packs.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle lists the nodes left unordered, in insertion order. It covers
		// every cycle plus the nodes that depend on one.
		Cycle []string
	}

	// Graph is a directed graph over string nodes. An edge from A to B means
	// A must be installed before B.
	Graph struct {
		adjacency map[string][]string
		// nodes keeps insertion order so results are deterministic.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds the edge from -> to, adding both nodes if needed.
// Repeated edges are stored once.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.adjacency[from], to) {
		return
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// HasNode reports whether name is in the graph.
func (g *Graph) HasNode(name string) bool { return g.nodeSet[name] }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// TopologicalSort returns an order in which every node follows its
// predecessors, using Kahn's algorithm. Nodes at the same level keep the
// order in which they were first added. Returns CycleError on a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var remaining []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				remaining = append(remaining, node)
			}
		}
		return nil, &CycleError{Cycle: remaining}
	}

	return result, nil
}

// Cycles returns each cycle of the graph as the set of nodes that form it
// (a strongly connected component with more than one node, or a node with an
// edge to itself). Nodes inside a cycle keep insertion order, and cycles are
// ordered by their first node.
func (g *Graph) Cycles() [][]string {
	t := tarjan{
		graph:   g,
		index:   make(map[string]int, len(g.nodes)),
		lowlink: make(map[string]int, len(g.nodes)),
		onStack: make(map[string]bool, len(g.nodes)),
	}
	for _, node := range g.nodes {
		if _, seen := t.index[node]; !seen {
			t.connect(node)
		}
	}

	position := make(map[string]int, len(g.nodes))
	for i, node := range g.nodes {
		position[node] = i
	}
	byPosition := func(a, b string) int { return position[a] - position[b] }

	var cycles [][]string
	for _, component := range t.components {
		if len(component) == 1 && !slices.Contains(g.adjacency[component[0]], component[0]) {
			continue
		}
		slices.SortFunc(component, byPosition)
		cycles = append(cycles, component)
	}
	slices.SortFunc(cycles, func(a, b []string) int { return byPosition(a[0], b[0]) })
	return cycles
}

// tarjan holds the state of Tarjan's strongly connected components search.
type tarjan struct {
	graph      *Graph
	counter    int
	index      map[string]int
	lowlink    map[string]int
	stack      []string
	onStack    map[string]bool
	components [][]string
}

func (t *tarjan) connect(node string) {
	t.index[node] = t.counter
	t.lowlink[node] = t.counter
	t.counter++
	t.stack = append(t.stack, node)
	t.onStack[node] = true

	for _, next := range t.graph.adjacency[node] {
		if _, seen := t.index[next]; !seen {
			t.connect(next)
			t.lowlink[node] = min(t.lowlink[node], t.lowlink[next])
		} else if t.onStack[next] {
			t.lowlink[node] = min(t.lowlink[node], t.index[next])
		}
	}

	if t.lowlink[node] != t.index[node] {
		return
	}

	var component []string
	for {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[top] = false
		component = append(component, top)
		if top == node {
			break
		}
	}
	t.components = append(t.components, component)
}
