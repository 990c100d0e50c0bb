package graph

// Visitor is the extension point for external analysis passes. A visitor
// receives the graph handle and performs an arbitrary sequence of reads
// and mark operations. Visitors run serially; the graph's mark operations
// are individually serialized, but a read-then-mark pair is only atomic
// when performed through Mutating.
type Visitor interface {
	Visit(g *Graph) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(g *Graph) error

// Visit implements Visitor.
func (f VisitorFunc) Visit(g *Graph) error {
	return f(g)
}
