package graph

// Task is a unit of work as declared by the workflow definition.
type Task struct {
	Name      string   // Unique identifier
	DependsOn []string // Names of tasks that must run first
}

// NodeID is a handle into a Graph's node arena.
type NodeID int

// Node is a vertex of the dependency graph.
type Node struct {
	ID       NodeID
	Name     string
	Declared bool // False when the node only appears as someone's dependency
}

// Edge points from a dependent task to one of its dependencies.
type Edge struct {
	From NodeID // dependent
	To   NodeID // dependency
}
