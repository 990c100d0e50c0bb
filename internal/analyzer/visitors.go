package analyzer

import (
	"vestige/internal/config"
	"vestige/internal/graph"
)

// entryPointRetainer seeds reachability: declarations matching the
// configured entry-point patterns or retain kinds, (optionally)
// compiler-synthesized declarations, and (with RetainRoots) every
// top-level declaration from the build-phase root snapshot, are retained
// and given their first retaining path.
type entryPointRetainer struct {
	cfg *config.AnalysisConfig
}

func (v *entryPointRetainer) Visit(g *graph.Graph) error {
	retainKinds := make(map[graph.Kind]struct{}, len(v.cfg.RetainKinds))
	for _, k := range v.cfg.RetainKinds {
		retainKinds[graph.Kind(k)] = struct{}{}
	}

	var roots map[*graph.Declaration]struct{}
	if v.cfg.RetainRoots {
		rootDecls := g.RootDeclarations()
		roots = make(map[*graph.Declaration]struct{}, len(rootDecls))
		for _, d := range rootDecls {
			roots[d] = struct{}{}
		}
	}

	for _, d := range g.AllDeclarations() {
		if v.retains(d, retainKinds, roots) {
			g.MarkRetained(d)
			g.IncrementReachable(d)
		}
	}
	return nil
}

func (v *entryPointRetainer) retains(d *graph.Declaration, kinds map[graph.Kind]struct{}, roots map[*graph.Declaration]struct{}) bool {
	if _, ok := roots[d]; ok {
		return true
	}
	if v.cfg.RetainImplicit && d.IsImplicit {
		return true
	}
	if _, ok := kinds[d.Kind]; ok {
		return true
	}
	for usr := range d.USRs {
		if config.MatchesAny(v.cfg.EntryPoints, usr) {
			return true
		}
	}
	return false
}

// externalExtensionRetainer keeps extensions of types the index does not
// know about. An extension of an external type has no resolvable extended
// declaration, so usage propagation can never reach it, yet removing it
// would change behavior of the external type.
type externalExtensionRetainer struct{}

func (v *externalExtensionRetainer) Visit(g *graph.Graph) error {
	for _, ext := range g.DeclarationsOfKinds(graph.ExtensionKinds()...) {
		extended, err := g.ExtendedDeclaration(ext)
		if err != nil {
			return err
		}
		if extended == nil {
			g.MarkRetained(ext)
			g.IncrementReachable(ext)
		}
	}
	return nil
}

// usagePropagator walks outward from every currently reachable
// declaration. Each resolvable reference edge contributes one retaining
// path to its target; a declaration discovered via several independent
// edges accumulates a matching retain count. A reachable declaration also
// retains its lexical ancestors: a type cannot be removed while any of
// its members is alive.
type usagePropagator struct{}

func (v *usagePropagator) Visit(g *graph.Graph) error {
	worklist := g.ReachableDeclarations()

	for len(worklist) > 0 {
		d := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if p := d.Parent; p != nil {
			if g.IncrementReachable(p) == 1 {
				worklist = append(worklist, p)
			}
		}

		for r := range d.References {
			worklist = v.follow(g, r, worklist)
		}
		for r := range d.Related {
			worklist = v.follow(g, r, worklist)
		}
	}
	return nil
}

// follow resolves one reference edge and its nested descendents,
// appending newly reachable targets to the worklist.
func (v *usagePropagator) follow(g *graph.Graph, r *graph.Reference, worklist []*graph.Declaration) []*graph.Declaration {
	if target := g.ExplicitDeclarationWithUSR(r.USR); target != nil {
		if g.IncrementReachable(target) == 1 {
			worklist = append(worklist, target)
		}
	}
	for child := range r.Descendents {
		worklist = v.follow(g, child, worklist)
	}
	return worklist
}

// redundantOverrideMarker flags class members that shadow a same-named,
// same-kind member of a superclass while nothing references the override
// itself: callers bind to the inherited declaration, so the override
// duplicates it.
type redundantOverrideMarker struct{}

func (v *redundantOverrideMarker) Visit(g *graph.Graph) error {
	for _, class := range g.DeclarationsOfKind(graph.KindClass) {
		supers := g.Superclasses(class)
		if len(supers) == 0 {
			continue
		}

		for member := range class.Declarations {
			switch member.Kind {
			case graph.KindMethod, graph.KindProperty:
			default:
				continue
			}
			if g.HasReferencesTo(member) {
				continue
			}
			if shadowsMember(supers, member) {
				g.MarkRedundant(member)
			}
		}
	}
	return nil
}

func shadowsMember(supers []*graph.Declaration, member *graph.Declaration) bool {
	for _, super := range supers {
		for inherited := range super.Declarations {
			if inherited.Kind == member.Kind && inherited.Name == member.Name {
				return true
			}
		}
	}
	return false
}

// ignoreRuleApplier excludes identifier-matched declarations from the
// results. Applied last so it wins over every other classification.
type ignoreRuleApplier struct {
	cfg *config.AnalysisConfig
}

func (v *ignoreRuleApplier) Visit(g *graph.Graph) error {
	if len(v.cfg.IgnoredUSRs) == 0 {
		return nil
	}
	for _, d := range g.AllDeclarations() {
		for usr := range d.USRs {
			if config.MatchesAny(v.cfg.IgnoredUSRs, usr) {
				g.MarkIgnored(d)
				break
			}
		}
	}
	return nil
}
