package graph

import (
	"testing"
)

// buildChain wires the class chain A <- B <- C (C's superclass is B, B's
// is A) and returns the declarations plus the superclass references.
func buildChain(g *Graph) (a, b, c *Declaration, refA, refB *Reference) {
	a = NewDeclaration(KindClass, "A", "usr:A")
	b = NewDeclaration(KindClass, "B", "usr:B")
	c = NewDeclaration(KindClass, "C", "usr:C")
	g.AddDeclaration(a)
	g.AddDeclaration(b)
	g.AddDeclaration(c)

	refA = NewRelatedReference(KindClass, "usr:A", "A")
	refB = NewRelatedReference(KindClass, "usr:B", "B")
	g.AddReferenceFrom(b, refA)
	g.AddReferenceFrom(c, refB)
	return a, b, c, refA, refB
}

func TestSuperclassReferencesOrdering(t *testing.T) {
	g := New()
	_, _, c, refA, refB := buildChain(g)

	chain := g.SuperclassReferences(c)
	if len(chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(chain))
	}
	// Most distant ancestor first, immediate superclass last.
	if chain[0] != refA || chain[1] != refB {
		t.Errorf("chain = [%s, %s], want [ref(A), ref(B)]", chain[0], chain[1])
	}
}

func TestSuperclassReferencesUnresolvableTerminates(t *testing.T) {
	g := New()

	// External base class: the reference never resolves, so the chain
	// ends at that link.
	sub := NewDeclaration(KindClass, "Sub", "usr:Sub")
	g.AddDeclaration(sub)
	external := NewRelatedReference(KindClass, "usr:ExternalBase", "ExternalBase")
	g.AddReferenceFrom(sub, external)

	chain := g.SuperclassReferences(sub)
	if len(chain) != 1 || chain[0] != external {
		t.Errorf("chain = %v, want [ref(ExternalBase)]", chain)
	}
	if supers := g.Superclasses(sub); len(supers) != 0 {
		t.Errorf("Superclasses resolved %d external links, want 0", len(supers))
	}
}

func TestSuperclasses(t *testing.T) {
	g := New()
	a, b, c, _, _ := buildChain(g)

	supers := g.Superclasses(c)
	if len(supers) != 2 || supers[0] != a || supers[1] != b {
		t.Errorf("Superclasses(C) = %v, want [A, B]", supers)
	}
	if supers := g.Superclasses(a); len(supers) != 0 {
		t.Errorf("Superclasses(A) = %v, want none", supers)
	}
}

func TestImmediateSubclasses(t *testing.T) {
	g := New()
	a, b, c, _, _ := buildChain(g)

	subs := g.ImmediateSubclasses(a)
	if len(subs) != 1 || subs[0] != b {
		t.Errorf("ImmediateSubclasses(A) = %v, want [B]", subs)
	}
	subs = g.ImmediateSubclasses(b)
	if len(subs) != 1 || subs[0] != c {
		t.Errorf("ImmediateSubclasses(B) = %v, want [C]", subs)
	}
	if subs := g.ImmediateSubclasses(c); len(subs) != 0 {
		t.Errorf("ImmediateSubclasses(C) = %v, want none", subs)
	}
}

func TestSubclassesClosure(t *testing.T) {
	g := New()
	a, b, c, _, _ := buildChain(g)

	subs := declSet(g.Subclasses(a))
	if len(subs) != 2 {
		t.Fatalf("Subclasses(A) has %d distinct members, want 2", len(subs))
	}
	for _, want := range []*Declaration{b, c} {
		if _, ok := subs[want]; !ok {
			t.Errorf("Subclasses(A) missing %s", want.Name)
		}
	}
}

func TestImmediateSubclassesMatchesMergedIdentifiers(t *testing.T) {
	g := New()

	// The superclass carries two identifiers; a subclass naming either
	// one counts.
	base := NewDeclaration(KindClass, "Base", "usr:Base", "usr:Base.alias")
	sub := NewDeclaration(KindClass, "Sub", "usr:Sub")
	g.AddDeclaration(base)
	g.AddDeclaration(sub)
	g.AddReferenceFrom(sub, NewRelatedReference(KindClass, "usr:Base.alias", "Base"))

	subs := g.ImmediateSubclasses(base)
	if len(subs) != 1 || subs[0] != sub {
		t.Errorf("ImmediateSubclasses = %v, want [Sub]", subs)
	}
}
