// Package graph holds the in-memory program graph: every declared symbol
// and every reference between symbols discovered during indexing, plus the
// retain-counted reachability state that decides which declarations are
// reported as unused.
package graph

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Location is a source position, used for reporting and stable ordering.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Declaration is a node representing one declared program symbol.
// Identity is by node (pointer), never by content: two structurally
// identical declarations at different locations are distinct nodes.
type Declaration struct {
	// ID gives the node a stable identity in reports and snapshots.
	ID         uuid.UUID
	Kind       Kind
	Name       string
	IsImplicit bool
	Location   Location

	// USRs holds the declaration's unique symbol identifiers. Normally
	// one, but merged declarations (e.g. several extensions of the same
	// type collapsed by the indexer) may carry more.
	USRs map[string]struct{}

	// Parent is a back-reference to the lexically enclosing declaration,
	// nil for top-level declarations. Not an ownership relation; the
	// graph owns every node.
	Parent *Declaration

	// Declarations are the child declarations nested inside this one.
	Declarations map[*Declaration]struct{}

	// References are the outgoing usage references made by this
	// declaration's body or signature.
	References map[*Reference]struct{}

	// Related are the outgoing structural references (superclass,
	// protocol conformance, extended type).
	Related map[*Reference]struct{}
}

// NewDeclaration creates a detached declaration node. It is not part of
// any graph until passed to Graph.AddDeclaration.
func NewDeclaration(kind Kind, name string, usrs ...string) *Declaration {
	d := &Declaration{
		ID:           uuid.New(),
		Kind:         kind,
		Name:         name,
		USRs:         make(map[string]struct{}, len(usrs)),
		Declarations: make(map[*Declaration]struct{}),
		References:   make(map[*Reference]struct{}),
		Related:      make(map[*Reference]struct{}),
	}
	for _, usr := range usrs {
		d.USRs[usr] = struct{}{}
	}
	return d
}

// AddChild nests child inside d, setting the lexical parent
// back-reference. Parent/child wiring happens before the nodes are added
// to a graph; the graph never reindexes it.
func (d *Declaration) AddChild(child *Declaration) {
	child.Parent = d
	d.Declarations[child] = struct{}{}
}

// AttachReference wires r as an outgoing reference of d, placing it in
// the references or related set according to IsRelated. Like AddChild it
// operates on detached nodes; Graph.AddReferenceFrom performs the same
// attachment and the index registration in one step.
func (d *Declaration) AttachReference(r *Reference) {
	r.ParentDeclaration = d
	if r.IsRelated {
		d.Related[r] = struct{}{}
	} else {
		d.References[r] = struct{}{}
	}
}

// HasUSR reports whether usr is one of the declaration's identifiers.
func (d *Declaration) HasUSR(usr string) bool {
	_, ok := d.USRs[usr]
	return ok
}

// SortedUSRs returns the declaration's identifiers in lexical order.
func (d *Declaration) SortedUSRs() []string {
	usrs := make([]string, 0, len(d.USRs))
	for usr := range d.USRs {
		usrs = append(usrs, usr)
	}
	sort.Strings(usrs)
	return usrs
}

func (d *Declaration) String() string {
	return fmt.Sprintf("%s %q at %s", d.Kind, d.Name, d.Location)
}
