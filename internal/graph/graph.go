package graph

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/gammazero/toposort"
)

// Graph is an immutable directed dependency graph.
// Nodes live in an arena and edges refer to them by NodeID, so dependents and
// dependencies never hold pointers to each other.
type Graph struct {
	nodes      []Node
	index      map[string]NodeID
	edges      []Edge
	dependsOn  [][]NodeID // node -> its dependencies
	dependents [][]NodeID // node -> tasks that depend on it
}

type buildOptions struct {
	strict     bool
	checkCycle bool
}

// Option configures Build.
type Option func(*buildOptions)

// WithStrictDependencies rejects dependencies that are not declared as tasks
// themselves instead of adding them as bare nodes.
func WithStrictDependencies() Option {
	return func(o *buildOptions) { o.strict = true }
}

// WithCycleCheck rejects graphs containing a dependency cycle.
func WithCycleCheck() Option {
	return func(o *buildOptions) { o.checkCycle = true }
}

// Build turns task definitions into a Graph with one edge per
// (task, dependency) pair. Nodes and edges are stored in lexicographic order
// so the result does not depend on the order of tasks.
func Build(tasks []Task, opts ...Option) (*Graph, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	declared := make(map[string][]string, len(tasks))
	for _, task := range tasks {
		if strings.TrimSpace(task.Name) == "" {
			return nil, &UpstreamDataError{Reason: "task with empty name"}
		}

		deps, err := normalizeDependencies(task)
		if err != nil {
			return nil, err
		}

		if prev, exists := declared[task.Name]; exists {
			if !slices.Equal(prev, deps) {
				return nil, &UpstreamDataError{Task: task.Name, Reason: "declared twice with different dependencies"}
			}
			continue
		}
		declared[task.Name] = deps
	}

	taskNames := make([]string, 0, len(declared))
	for name := range declared {
		taskNames = append(taskNames, name)
	}
	sort.Strings(taskNames)

	// Collect every referenced name, declared or not
	all := make(map[string]bool, len(declared))
	for _, name := range taskNames {
		all[name] = true
		for _, dep := range declared[name] {
			if _, ok := declared[dep]; !ok {
				if o.strict {
					return nil, &UpstreamDataError{Task: name, Reason: fmt.Sprintf("depends on undeclared task %q", dep)}
				}
				all[dep] = true
			}
		}
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	g := &Graph{
		nodes:      make([]Node, len(names)),
		index:      make(map[string]NodeID, len(names)),
		dependsOn:  make([][]NodeID, len(names)),
		dependents: make([][]NodeID, len(names)),
	}
	for i, name := range names {
		_, isTask := declared[name]
		g.nodes[i] = Node{ID: NodeID(i), Name: name, Declared: isTask}
		g.index[name] = NodeID(i)
	}

	// names is sorted and each dependency list is sorted, so edges come out
	// ordered by (From, To)
	for _, name := range names {
		from := g.index[name]
		for _, dep := range declared[name] {
			to := g.index[dep]
			g.edges = append(g.edges, Edge{From: from, To: to})
			g.dependsOn[from] = append(g.dependsOn[from], to)
			g.dependents[to] = append(g.dependents[to], from)
		}
	}

	if o.checkCycle {
		if _, err := g.Order(); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// normalizeDependencies validates a task's dependency names and returns them
// sorted with duplicates removed.
func normalizeDependencies(task Task) ([]string, error) {
	deps := make([]string, 0, len(task.DependsOn))
	for _, dep := range task.DependsOn {
		if strings.TrimSpace(dep) == "" {
			return nil, &UpstreamDataError{Task: task.Name, Reason: "empty dependency name"}
		}
		if dep == task.Name {
			return nil, &InvalidGraphError{Task: task.Name}
		}
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return slices.Compact(deps), nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in canonical order.
func (g *Graph) Nodes() []Node {
	return slices.Clone(g.nodes)
}

// Edges returns all edges in canonical order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Node returns the node behind a handle.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

// Lookup returns the handle for a task name.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.index[name]
	return id, ok
}

// DependenciesOf returns the names of the tasks that name depends on.
func (g *Graph) DependenciesOf(name string) []string {
	id, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.namesOf(g.dependsOn[id])
}

// DependentsOf returns the names of the tasks that depend on name.
func (g *Graph) DependentsOf(name string) []string {
	id, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.namesOf(g.dependents[id])
}

// Roots returns the tasks nothing else depends on, i.e. the top of the diagram.
func (g *Graph) Roots() []string {
	var roots []string
	for _, n := range g.nodes {
		if len(g.dependents[n.ID]) == 0 {
			roots = append(roots, n.Name)
		}
	}
	return roots
}

func (g *Graph) namesOf(ids []NodeID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = g.nodes[id].Name
	}
	return names
}

// Order returns task names with every dependency before its dependents.
// Returns an *InvalidGraphError if the graph contains a cycle.
func (g *Graph) Order() ([]string, error) {
	var edges []toposort.Edge
	for _, n := range g.nodes {
		if len(g.dependsOn[n.ID]) == 0 {
			// Task with no dependencies - add edge from nil to ensure it's included
			edges = append(edges, toposort.Edge{nil, n.Name})
			continue
		}
		for _, dep := range g.dependsOn[n.ID] {
			// Edge (dep, task) means dep must come before task
			edges = append(edges, toposort.Edge{g.nodes[dep].Name, n.Name})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, &InvalidGraphError{Cycle: g.cycleMembers()}
	}

	order := make([]string, 0, len(sorted))
	for _, name := range sorted {
		if name != nil {
			order = append(order, name.(string))
		}
	}

	if len(order) != len(g.nodes) {
		return nil, &InvalidGraphError{Cycle: g.cycleMembers()}
	}

	return order, nil
}

// cycleMembers returns the names of nodes that sit on, or between, cycles.
// Nodes that can be peeled off from either end of the graph are not involved.
func (g *Graph) cycleMembers() []string {
	alive := make([]bool, len(g.nodes))
	for i := range alive {
		alive[i] = true
	}

	countAlive := func(ids []NodeID) int {
		n := 0
		for _, id := range ids {
			if alive[id] {
				n++
			}
		}
		return n
	}

	for changed := true; changed; {
		changed = false
		for _, n := range g.nodes {
			if !alive[n.ID] {
				continue
			}
			if countAlive(g.dependsOn[n.ID]) == 0 || countAlive(g.dependents[n.ID]) == 0 {
				alive[n.ID] = false
				changed = true
			}
		}
	}

	var members []string
	for _, n := range g.nodes {
		if alive[n.ID] {
			members = append(members, n.Name)
		}
	}
	return members
}
