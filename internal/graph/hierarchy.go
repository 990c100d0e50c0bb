package graph

// SuperclassReferences returns the ordered ancestor-reference chain of a
// class declaration, most distant ancestor first, immediate superclass
// last. An unresolvable reference (external superclass) terminates the
// chain at that link. Single inheritance is assumed but not enforced.
func (g *Graph) SuperclassReferences(d *Declaration) []*Reference {
	var chain []*Reference
	for r := range d.Related {
		if r.Kind != KindClass {
			continue
		}
		if super := g.ExplicitDeclarationWithUSR(r.USR); super != nil {
			chain = append(chain, g.SuperclassReferences(super)...)
		}
		chain = append(chain, r)
	}
	return chain
}

// Superclasses resolves the ancestor chain to declarations, dropping
// unresolvable links. Order follows SuperclassReferences: root first.
func (g *Graph) Superclasses(d *Declaration) []*Declaration {
	var supers []*Declaration
	for _, r := range g.SuperclassReferences(d) {
		if super := g.ExplicitDeclarationWithUSR(r.USR); super != nil {
			supers = append(supers, super)
		}
	}
	return supers
}

// ImmediateSubclasses returns the classes whose related set names d as
// superclass. There is no reverse index from superclass to subclasses;
// this is a linear scan over all class declarations.
func (g *Graph) ImmediateSubclasses(d *Declaration) []*Declaration {
	var subs []*Declaration
	for _, c := range g.DeclarationsOfKind(KindClass) {
		if c == d {
			continue
		}
		for r := range c.Related {
			if r.Kind == KindClass && d.HasUSR(r.USR) {
				subs = append(subs, c)
				break
			}
		}
	}
	SortDeclarations(subs)
	return subs
}

// Subclasses returns the transitive closure of ImmediateSubclasses,
// depth-first. It does not deduplicate: malformed related-edge data with
// multiple inheritance paths yields repeated entries.
func (g *Graph) Subclasses(d *Declaration) []*Declaration {
	var subs []*Declaration
	for _, c := range g.ImmediateSubclasses(d) {
		subs = append(subs, c)
		subs = append(subs, g.Subclasses(c)...)
	}
	return subs
}
