package graph

// Kind categorizes declarations and references. Structural (related)
// references carry the kind of the declaration they point at, so the same
// enumeration serves both node and edge.
type Kind string

const (
	KindClass          Kind = "class"
	KindProtocol       Kind = "protocol"
	KindStruct         Kind = "struct"
	KindEnum           Kind = "enum"
	KindEnumCase       Kind = "enum.case"
	KindFunction       Kind = "function"
	KindMethod         Kind = "method"
	KindConstructor    Kind = "constructor"
	KindProperty       Kind = "property"
	KindVariable       Kind = "variable"
	KindParameter      Kind = "parameter"
	KindTypealias      Kind = "typealias"
	KindModule         Kind = "module"
	KindUnknown        Kind = "unknown"

	KindExtensionClass    Kind = "extension.class"
	KindExtensionStruct   Kind = "extension.struct"
	KindExtensionProtocol Kind = "extension.protocol"
	KindExtensionEnum     Kind = "extension.enum"
)

// extendedKinds maps an extension declaration kind to the reference kind
// used for its extended-type reference. A kind missing from this table is
// an integrity error when encountered by ExtendedDeclaration.
var extendedKinds = map[Kind]Kind{
	KindExtensionClass:    KindClass,
	KindExtensionStruct:   KindStruct,
	KindExtensionProtocol: KindProtocol,
	KindExtensionEnum:     KindEnum,
}

// ExtensionKinds returns every extension declaration kind.
func ExtensionKinds() []Kind {
	return []Kind{
		KindExtensionClass,
		KindExtensionStruct,
		KindExtensionProtocol,
		KindExtensionEnum,
	}
}

// IsExtension reports whether the kind is one of the extension kinds.
func (k Kind) IsExtension() bool {
	_, ok := extendedKinds[k]
	return ok
}

// ExtendedKind returns the reference kind an extension of this kind uses
// to point at the type it extends. The second return is false when the
// kind has no registered mapping.
func (k Kind) ExtendedKind() (Kind, bool) {
	ek, ok := extendedKinds[k]
	return ek, ok
}

// ParseKind converts a snapshot string to a Kind. Unrecognized strings map
// to KindUnknown rather than failing; snapshots from newer indexers may
// carry kinds this version does not know about.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindClass, KindProtocol, KindStruct, KindEnum, KindEnumCase,
		KindFunction, KindMethod, KindConstructor, KindProperty,
		KindVariable, KindParameter, KindTypealias, KindModule,
		KindExtensionClass, KindExtensionStruct, KindExtensionProtocol,
		KindExtensionEnum:
		return Kind(s)
	default:
		return KindUnknown
	}
}
