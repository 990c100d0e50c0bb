package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// Reference is an edge representing one use-site or structural relation.
// Identity is by node, like Declaration.
type Reference struct {
	ID   uuid.UUID
	Kind Kind

	// Name is the referenced symbol's name as written at the use site.
	// Extension resolution matches it against the extension's own name.
	Name string

	// USR is the single symbol identifier being referenced. It may not
	// resolve to any known declaration (external or binary-only symbols);
	// that is an expected outcome, not an error.
	USR string

	// IsRelated marks a structural relation (superclass, conformance,
	// extended type) rather than an ordinary usage.
	IsRelated bool

	Location Location

	// ParentDeclaration is set when the reference originates directly
	// from a declaration's body; ParentReference when it is nested inside
	// another reference (e.g. a generic argument). At most one is non-nil.
	// Back-references only, not ownership.
	ParentDeclaration *Declaration
	ParentReference   *Reference

	// Descendents are the references nested directly under this one.
	// Removal cascades through them transitively.
	Descendents map[*Reference]struct{}
}

// NewReference creates a detached reference edge.
func NewReference(kind Kind, usr, name string) *Reference {
	return &Reference{
		ID:          uuid.New(),
		Kind:        kind,
		Name:        name,
		USR:         usr,
		Descendents: make(map[*Reference]struct{}),
	}
}

// NewRelatedReference creates a detached structural reference.
func NewRelatedReference(kind Kind, usr, name string) *Reference {
	r := NewReference(kind, usr, name)
	r.IsRelated = true
	return r
}

// AddDescendent nests child under r. The child's parent back-reference is
// set to r; it must not already have a parent.
func (r *Reference) AddDescendent(child *Reference) {
	child.ParentReference = r
	r.Descendents[child] = struct{}{}
}

func (r *Reference) String() string {
	rel := ""
	if r.IsRelated {
		rel = " (related)"
	}
	return fmt.Sprintf("%s -> %s%s at %s", r.Kind, r.USR, rel, r.Location)
}
