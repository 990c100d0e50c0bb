package graph

import (
	"fmt"

	"vestige/internal/errors"
)

// ExtendedDeclaration maps an extension declaration to the declaration it
// extends. It returns nil when the extension has no matching reference or
// the reference does not resolve (extending a type from an external
// module). A declaration kind with no registered extended-reference
// mapping is an integrity error.
func (g *Graph) ExtendedDeclaration(ext *Declaration) (*Declaration, error) {
	refKind, ok := ext.Kind.ExtendedKind()
	if !ok {
		return nil, errors.NewIntegrity(
			fmt.Sprintf("no extended reference kind is registered for declaration kind %q", ext.Kind))
	}

	for r := range ext.References {
		if r.Kind != refKind || r.Name != ext.Name {
			continue
		}
		if d := g.ExplicitDeclarationWithUSR(r.USR); d != nil {
			return d, nil
		}
	}
	return nil, nil
}
