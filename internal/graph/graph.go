package graph

import (
	"sort"
	"sync"
)

// Graph is the program graph shared by all indexing workers and analysis
// visitors. Every structural mutation funnels through a single critical
// section, so concurrent indexer workers can build it safely. Plain
// queries are unsynchronized; callers must observe the build/analyze phase
// separation: all structural writes complete before analysis reads begin.
type Graph struct {
	mu sync.Mutex

	allDeclarations map[*Declaration]struct{}
	allReferences   map[*Reference]struct{}

	// Derived indices, maintained in lock-step with the authoritative
	// sets inside the critical section.
	declarationsByKind map[Kind]map[*Declaration]struct{}
	explicitByUSR      map[string]*Declaration
	referencesByUSR    map[string]map[*Reference]struct{}

	rootDeclarations map[*Declaration]struct{}
	rootReferences   map[*Reference]struct{}

	// reachable holds the retain count per declaration. A declaration is
	// a member of the reachable set iff its count is > 0; counts never go
	// negative.
	reachable map[*Declaration]int
	retained  map[*Declaration]struct{}
	ignored   map[*Declaration]struct{}
	redundant map[*Declaration]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		allDeclarations:    make(map[*Declaration]struct{}),
		allReferences:      make(map[*Reference]struct{}),
		declarationsByKind: make(map[Kind]map[*Declaration]struct{}),
		explicitByUSR:      make(map[string]*Declaration),
		referencesByUSR:    make(map[string]map[*Reference]struct{}),
		rootDeclarations:   make(map[*Declaration]struct{}),
		rootReferences:     make(map[*Reference]struct{}),
		reachable:          make(map[*Declaration]int),
		retained:           make(map[*Declaration]struct{}),
		ignored:            make(map[*Declaration]struct{}),
		redundant:          make(map[*Declaration]struct{}),
	}
}

// Mutation exposes the graph's mutation operations to a caller already
// holding the critical section via Mutating. Compound edits performed
// through it are atomic with respect to every other graph operation.
type Mutation struct {
	g *Graph
}

// Mutating runs fn inside the graph's critical section. fn must not call
// any Graph method that acquires the section itself; it uses the Mutation
// handle instead. The section is never held across a call back into
// visitor or analyzer logic.
func (g *Graph) Mutating(fn func(*Mutation)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&Mutation{g: g})
}

// AddDeclaration inserts a declaration into the graph and all derived
// indices atomically.
func (g *Graph) AddDeclaration(d *Declaration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addDeclarationLocked(d)
}

// AddDeclaration is the in-section form of Graph.AddDeclaration.
func (m *Mutation) AddDeclaration(d *Declaration) {
	m.g.addDeclarationLocked(d)
}

func (g *Graph) addDeclarationLocked(d *Declaration) {
	g.allDeclarations[d] = struct{}{}

	byKind := g.declarationsByKind[d.Kind]
	if byKind == nil {
		byKind = make(map[*Declaration]struct{})
		g.declarationsByKind[d.Kind] = byKind
	}
	byKind[d] = struct{}{}

	// Only explicit declarations are resolvable by identifier; on
	// collision the last writer wins.
	if !d.IsImplicit {
		for usr := range d.USRs {
			g.explicitByUSR[usr] = d
		}
	}
}

// AddUSR registers an additional symbol identifier on an in-graph
// declaration, keeping the explicit-declaration index consistent. On
// collision the last writer wins, like AddDeclaration.
func (g *Graph) AddUSR(d *Declaration, usr string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addUSRLocked(d, usr)
}

// AddUSR is the in-section form of Graph.AddUSR.
func (m *Mutation) AddUSR(d *Declaration, usr string) {
	m.g.addUSRLocked(d, usr)
}

func (g *Graph) addUSRLocked(d *Declaration, usr string) {
	d.USRs[usr] = struct{}{}
	if !d.IsImplicit {
		g.explicitByUSR[usr] = d
	}
}

// RemoveDeclaration evicts a declaration from the authoritative set, every
// index, its parent's child set, and the reachable set. It does not
// cascade to the declaration's own outgoing references; callers remove
// dangling edges independently.
func (g *Graph) RemoveDeclaration(d *Declaration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeDeclarationLocked(d)
}

// RemoveDeclaration is the in-section form of Graph.RemoveDeclaration.
func (m *Mutation) RemoveDeclaration(d *Declaration) {
	m.g.removeDeclarationLocked(d)
}

func (g *Graph) removeDeclarationLocked(d *Declaration) {
	delete(g.allDeclarations, d)

	if byKind := g.declarationsByKind[d.Kind]; byKind != nil {
		delete(byKind, d)
		if len(byKind) == 0 {
			delete(g.declarationsByKind, d.Kind)
		}
	}

	for usr := range d.USRs {
		if g.explicitByUSR[usr] == d {
			delete(g.explicitByUSR, usr)
		}
	}

	if d.Parent != nil {
		delete(d.Parent.Declarations, d)
	}

	delete(g.rootDeclarations, d)
	delete(g.reachable, d)
}

// AddReference inserts a reference into the global set and its identifier
// index.
func (g *Graph) AddReference(r *Reference) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addReferenceLocked(r)
}

// AddReference is the in-section form of Graph.AddReference.
func (m *Mutation) AddReference(r *Reference) {
	m.g.addReferenceLocked(r)
}

func (g *Graph) addReferenceLocked(r *Reference) {
	g.allReferences[r] = struct{}{}

	byUSR := g.referencesByUSR[r.USR]
	if byUSR == nil {
		byUSR = make(map[*Reference]struct{})
		g.referencesByUSR[r.USR] = byUSR
	}
	byUSR[r] = struct{}{}
}

// AddReferenceFrom attaches r to the declaration it originates from,
// placing it in the references or related set according to IsRelated,
// then inserts it like AddReference. Attachment and insertion are atomic.
func (g *Graph) AddReferenceFrom(from *Declaration, r *Reference) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addReferenceFromLocked(from, r)
}

// AddReferenceFrom is the in-section form of Graph.AddReferenceFrom.
func (m *Mutation) AddReferenceFrom(from *Declaration, r *Reference) {
	m.g.addReferenceFromLocked(from, r)
}

func (g *Graph) addReferenceFromLocked(from *Declaration, r *Reference) {
	r.ParentDeclaration = from
	if r.IsRelated {
		from.Related[r] = struct{}{}
	} else {
		from.References[r] = struct{}{}
	}
	g.addReferenceLocked(r)
}

// RemoveReference evicts a reference and, transitively, every reference
// nested under it from the global set and the identifier index, then
// detaches it from its parent declaration or reference.
func (g *Graph) RemoveReference(r *Reference) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeReferenceTreeLocked(r)
}

// RemoveReference is the in-section form of Graph.RemoveReference.
func (m *Mutation) RemoveReference(r *Reference) {
	m.g.removeReferenceTreeLocked(r)
}

func (g *Graph) removeReferenceTreeLocked(r *Reference) {
	g.evictReferenceLocked(r)

	if r.ParentDeclaration != nil {
		delete(r.ParentDeclaration.References, r)
		delete(r.ParentDeclaration.Related, r)
	}
	if r.ParentReference != nil {
		delete(r.ParentReference.Descendents, r)
	}
	delete(g.rootReferences, r)
}

func (g *Graph) evictReferenceLocked(r *Reference) {
	for child := range r.Descendents {
		g.evictReferenceLocked(child)
	}

	delete(g.allReferences, r)
	if byUSR := g.referencesByUSR[r.USR]; byUSR != nil {
		delete(byUSR, r)
		if len(byUSR) == 0 {
			delete(g.referencesByUSR, r.USR)
		}
	}
}

// IdentifyRootDeclarations snapshots the set of top-level declarations
// (those without a parent). Called once, after the build phase completes.
func (g *Graph) IdentifyRootDeclarations() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rootDeclarations = make(map[*Declaration]struct{})
	for d := range g.allDeclarations {
		if d.Parent == nil {
			g.rootDeclarations[d] = struct{}{}
		}
	}
}

// IdentifyRootReferences snapshots the set of references not nested under
// any declaration or reference.
func (g *Graph) IdentifyRootReferences() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rootReferences = make(map[*Reference]struct{})
	for r := range g.allReferences {
		if r.ParentDeclaration == nil && r.ParentReference == nil {
			g.rootReferences[r] = struct{}{}
		}
	}
}

// RootDeclarations returns the root snapshot taken by
// IdentifyRootDeclarations.
func (g *Graph) RootDeclarations() []*Declaration {
	decls := make([]*Declaration, 0, len(g.rootDeclarations))
	for d := range g.rootDeclarations {
		decls = append(decls, d)
	}
	return decls
}

// RootReferences returns the root snapshot taken by
// IdentifyRootReferences.
func (g *Graph) RootReferences() []*Reference {
	refs := make([]*Reference, 0, len(g.rootReferences))
	for r := range g.rootReferences {
		refs = append(refs, r)
	}
	return refs
}

// AllDeclarations returns every declaration in the graph, in no
// particular order.
func (g *Graph) AllDeclarations() []*Declaration {
	decls := make([]*Declaration, 0, len(g.allDeclarations))
	for d := range g.allDeclarations {
		decls = append(decls, d)
	}
	return decls
}

// AllReferences returns every reference in the graph, in no particular
// order.
func (g *Graph) AllReferences() []*Reference {
	refs := make([]*Reference, 0, len(g.allReferences))
	for r := range g.allReferences {
		refs = append(refs, r)
	}
	return refs
}

// NumDeclarations returns the number of declarations in the graph.
func (g *Graph) NumDeclarations() int {
	return len(g.allDeclarations)
}

// NumReferences returns the number of references in the graph.
func (g *Graph) NumReferences() int {
	return len(g.allReferences)
}

// DeclarationsOfKind returns the declarations of the given kind.
func (g *Graph) DeclarationsOfKind(kind Kind) []*Declaration {
	byKind := g.declarationsByKind[kind]
	decls := make([]*Declaration, 0, len(byKind))
	for d := range byKind {
		decls = append(decls, d)
	}
	return decls
}

// DeclarationsOfKinds returns the declarations whose kind is any of the
// given kinds.
func (g *Graph) DeclarationsOfKinds(kinds ...Kind) []*Declaration {
	var decls []*Declaration
	for _, kind := range kinds {
		decls = append(decls, g.DeclarationsOfKind(kind)...)
	}
	return decls
}

// ExplicitDeclarationWithUSR resolves an identifier to its explicit
// declaration, or nil. Implicit declarations are never resolvable here.
func (g *Graph) ExplicitDeclarationWithUSR(usr string) *Declaration {
	return g.explicitByUSR[usr]
}

// ReferencesTo returns every reference to any of the declaration's
// identifiers. A declaration with multiple identifiers is referenced if
// any one of them is.
func (g *Graph) ReferencesTo(d *Declaration) []*Reference {
	var refs []*Reference
	for usr := range d.USRs {
		for r := range g.referencesByUSR[usr] {
			refs = append(refs, r)
		}
	}
	return refs
}

// HasReferencesTo reports whether any reference targets the declaration.
func (g *Graph) HasReferencesTo(d *Declaration) bool {
	for usr := range d.USRs {
		if len(g.referencesByUSR[usr]) > 0 {
			return true
		}
	}
	return false
}

// IncrementReachable adds one retaining path to the declaration and
// returns the new retain count. The first increment makes the declaration
// a member of the reachable set.
func (g *Graph) IncrementReachable(d *Declaration) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.incrementReachableLocked(d)
}

// IncrementReachable is the in-section form of Graph.IncrementReachable.
func (m *Mutation) IncrementReachable(d *Declaration) int {
	return m.g.incrementReachableLocked(d)
}

func (g *Graph) incrementReachableLocked(d *Declaration) int {
	g.reachable[d]++
	return g.reachable[d]
}

// DecrementReachable retracts one retaining path and returns the
// resulting count. Reaching zero removes the declaration from the
// reachable set; callers use the return value to detect the
// became-unreachable transition and cascade. Decrementing a declaration
// that is not reachable is a no-op returning zero.
func (g *Graph) DecrementReachable(d *Declaration) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decrementReachableLocked(d)
}

// DecrementReachable is the in-section form of Graph.DecrementReachable.
func (m *Mutation) DecrementReachable(d *Declaration) int {
	return m.g.decrementReachableLocked(d)
}

func (g *Graph) decrementReachableLocked(d *Declaration) int {
	count, ok := g.reachable[d]
	if !ok {
		return 0
	}
	count--
	if count <= 0 {
		delete(g.reachable, d)
		return 0
	}
	g.reachable[d] = count
	return count
}

// ReachableCount returns the declaration's current retain count.
func (g *Graph) ReachableCount(d *Declaration) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reachable[d]
}

// IsReachable reports whether the declaration's retain count is positive.
func (g *Graph) IsReachable(d *Declaration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.reachable[d]
	return ok
}

// ReachableDeclarations returns the declarations with a positive retain
// count.
func (g *Graph) ReachableDeclarations() []*Declaration {
	decls := make([]*Declaration, 0, len(g.reachable))
	for d := range g.reachable {
		decls = append(decls, d)
	}
	return decls
}

// UnreachableDeclarations returns the declarations with no retaining
// path.
func (g *Graph) UnreachableDeclarations() []*Declaration {
	var decls []*Declaration
	for d := range g.allDeclarations {
		if _, ok := g.reachable[d]; !ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// MarkRetained exempts the declaration from ever being reported,
// regardless of reachability. Retained status is independent of the
// retain count and never expires.
func (g *Graph) MarkRetained(d *Declaration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.retained[d] = struct{}{}
}

// MarkRetained is the in-section form of Graph.MarkRetained.
func (m *Mutation) MarkRetained(d *Declaration) {
	m.g.retained[d] = struct{}{}
}

// UnmarkRetained removes the retained exemption.
func (g *Graph) UnmarkRetained(d *Declaration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.retained, d)
}

// IsRetained reports whether the declaration is retained. Serialized with
// the mark operations because visitors interleave it with them.
func (g *Graph) IsRetained(d *Declaration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.retained[d]
	return ok
}

// MarkRedundant flags a declaration as dead despite being reachable: it
// duplicates functionality already provided elsewhere. Redundant
// declarations contribute to the result set unconditionally.
func (g *Graph) MarkRedundant(d *Declaration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.redundant[d] = struct{}{}
}

// IsRedundant reports whether the declaration was flagged redundant.
func (g *Graph) IsRedundant(d *Declaration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.redundant[d]
	return ok
}

// MarkIgnored excludes a declaration from the result set
// unconditionally.
func (g *Graph) MarkIgnored(d *Declaration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ignored[d] = struct{}{}
}

// IsIgnored reports whether the declaration is excluded from results.
// Serialized like IsRetained.
func (g *Graph) IsIgnored(d *Declaration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.ignored[d]
	return ok
}

// ResultDeclarations computes the analysis result: unreachable
// declarations plus redundant ones, minus ignored ones. The computation
// is fresh on every call; call it once analysis has stabilized. Results
// are ordered by location then name for deterministic reporting.
func (g *Graph) ResultDeclarations() []*Declaration {
	result := make(map[*Declaration]struct{})
	for d := range g.allDeclarations {
		if _, ok := g.reachable[d]; !ok {
			result[d] = struct{}{}
		}
	}
	for d := range g.redundant {
		result[d] = struct{}{}
	}
	for d := range g.ignored {
		delete(result, d)
	}

	decls := make([]*Declaration, 0, len(result))
	for d := range result {
		decls = append(decls, d)
	}
	SortDeclarations(decls)
	return decls
}

// Accept constructs nothing itself; it hands the graph to the visitor's
// traversal entry point. Errors from the visitor (e.g. integrity
// violations) propagate unmodified.
func (g *Graph) Accept(v Visitor) error {
	return v.Visit(g)
}

// SortDeclarations orders declarations by location, then name, then ID
// for a stable total order.
func SortDeclarations(decls []*Declaration) {
	sort.Slice(decls, func(i, j int) bool {
		a, b := decls[i], decls[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID.String() < b.ID.String()
	})
}
