package metadata

// Node is implemented by every metadata entity. The set of implementations
// is closed to this package.
type Node interface {
	isNil() bool
}

// IsNil reports whether n is absent: either a nil interface or a typed nil
// pointer stored in one.
func IsNil(n Node) bool {
	return n == nil || n.isNil()
}

// Entity is a row of a metadata table owned by a module.
type Entity interface {
	Node
	MDToken() Token
	OwnerModule() *Module
}

// Type is any type-system entity: a definition, a reference, a
// specialization, an exported type or a signature node.
type Type interface {
	Node
	typeNode()
}

// TypeDefOrRef is the subset of Type that can be encoded as a coded token:
// *TypeDef, *TypeRef or *TypeSpec.
type TypeDefOrRef interface {
	Type
	Entity
	typeDefOrRef()
}

// ResolutionScope is the scope of a type reference: *TypeRef (nested),
// *Module, *ModuleRef or *AssemblyRef.
type ResolutionScope interface {
	Node
	resolutionScope()
}

// Implementation says where an exported type lives: *FileDef,
// *AssemblyRef or *ExportedType (nested).
type Implementation interface {
	Node
	implementation()
}

// ModuleScope is a module identity: *Module or *ModuleRef.
type ModuleScope interface {
	Node
	ModuleName() string
	moduleScope()
}

// AssemblyScope is an assembly identity: *Assembly or *AssemblyRef.
type AssemblyScope interface {
	Node
	Identity() *AssemblyName
	assemblyScope()
}

// MemberRefParent is the class column of a member reference: *TypeDef,
// *TypeRef, *TypeSpec, *ModuleRef (global members) or *MethodDef (vararg
// call sites).
type MemberRefParent interface {
	Node
	memberRefParent()
}

// Member is any member-system entity.
type Member interface {
	Entity
	MemberName() string
	memberNode()
}

// MethodDefOrRef is a method that can be instantiated by a MethodSpec.
type MethodDefOrRef interface {
	Member
	methodDefOrRef()
}
