package snapshot

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"vestige/internal/graph"
)

// Build populates g from the snapshot's translation units, one worker
// goroutine per unit up to the given limit. Each unit is inserted as one
// atomic compound edit, so a concurrently building worker never observes
// a half-registered unit. When all units are in, the root snapshots are
// taken and the graph is ready for analysis.
func Build(ctx context.Context, g *graph.Graph, snap *Snapshot, workers int, logger *slog.Logger) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, unit := range snap.Units {
		unit := unit
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buildUnit(g, unit)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	g.IdentifyRootDeclarations()
	g.IdentifyRootReferences()

	logger.Debug("graph built from snapshot",
		"units", len(snap.Units),
		"declarations", g.NumDeclarations(),
		"references", g.NumReferences())
	return nil
}

func buildUnit(g *graph.Graph, unit Unit) {
	// Construct the node trees outside the critical section; only the
	// registration itself needs it.
	var decls []*graph.Declaration
	for _, node := range unit.Declarations {
		decls = append(decls, buildDeclTree(unit.File, node, nil))
	}

	g.Mutating(func(m *graph.Mutation) {
		for _, d := range decls {
			registerDecl(m, d)
		}
		for _, node := range unit.References {
			registerRefTree(m, buildRefTree(unit.File, node))
		}
	})
}

// buildDeclTree converts a DeclNode and its nested declarations into
// detached graph nodes with parent/child wiring in place.
func buildDeclTree(file string, node DeclNode, parent *graph.Declaration) *graph.Declaration {
	d := graph.NewDeclaration(graph.ParseKind(node.Kind), node.Name, node.USRs...)
	d.IsImplicit = node.Implicit
	d.Location = graph.Location{File: file, Line: node.Line, Column: node.Column}
	if parent != nil {
		parent.AddChild(d)
	}
	for _, rn := range node.References {
		d.AttachReference(buildRefTree(file, rn))
	}
	for _, child := range node.Declarations {
		buildDeclTree(file, child, d)
	}
	return d
}

func buildRefTree(file string, node RefNode) *graph.Reference {
	var r *graph.Reference
	if node.Related {
		r = graph.NewRelatedReference(graph.ParseKind(node.Kind), node.USR, node.Name)
	} else {
		r = graph.NewReference(graph.ParseKind(node.Kind), node.USR, node.Name)
	}
	r.Location = graph.Location{File: file, Line: node.Line, Column: node.Column}
	for _, child := range node.References {
		r.AddDescendent(buildRefTree(file, child))
	}
	return r
}

// registerDecl adds a declaration, its references, and its children to
// the graph, depth first, inside the caller's critical section.
func registerDecl(m *graph.Mutation, d *graph.Declaration) {
	m.AddDeclaration(d)
	// Attachment happened while building the tree; only index
	// registration remains.
	for r := range d.References {
		registerRefTree(m, r)
	}
	for r := range d.Related {
		registerRefTree(m, r)
	}
	for child := range d.Declarations {
		registerDecl(m, child)
	}
}

func registerRefTree(m *graph.Mutation, r *graph.Reference) {
	m.AddReference(r)
	for child := range r.Descendents {
		registerRefTree(m, child)
	}
}
