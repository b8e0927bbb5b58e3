package metadata

import "strings"

// GlobalTypeName is the name of the pseudo-type holding a module's global
// members.
const GlobalTypeName = "<Module>"

// TypeDef is a type declared in Module.
type TypeDef struct {
	Token         Token
	Namespace     string
	Name          string
	DeclaringType *TypeDef
	NestedTypes   []*TypeDef
	Module        *Module

	Methods    []*MethodDef
	Fields     []*FieldDef
	Properties []*PropertyDef
	Events     []*EventDef
}

func (t *TypeDef) isNil() bool    { return t == nil }
func (*TypeDef) typeNode()        {}
func (*TypeDef) typeDefOrRef()    {}
func (*TypeDef) memberRefParent() {}

func (t *TypeDef) MDToken() Token {
	if t == nil {
		return 0
	}
	return t.Token
}

func (t *TypeDef) OwnerModule() *Module {
	if t == nil {
		return nil
	}
	return t.Module
}

// IsGlobalModuleType reports whether t is a module's <Module> pseudo-type.
// Its name and namespace are synthetic and say nothing about which module
// it belongs to.
func (t *TypeDef) IsGlobalModuleType() bool {
	return t != nil && t.DeclaringType == nil && t.Namespace == "" && t.Name == GlobalTypeName
}

// FindNested returns the nested type with the given name.
func (t *TypeDef) FindNested(name string) *TypeDef {
	if t == nil {
		return nil
	}
	for _, n := range t.NestedTypes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// FullName returns Namespace.Name, with nested types as Outer/Inner.
func (t *TypeDef) FullName() string {
	if t == nil {
		return ""
	}
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "/" + t.Name
	}
	return joinTypeName(t.Namespace, t.Name)
}

func (t *TypeDef) String() string { return t.FullName() }

// TypeRef references a type that may live in another module or assembly.
type TypeRef struct {
	Token           Token
	Namespace       string
	Name            string
	ResolutionScope ResolutionScope
	Module          *Module
}

func (r *TypeRef) isNil() bool    { return r == nil }
func (*TypeRef) typeNode()        {}
func (*TypeRef) typeDefOrRef()    {}
func (*TypeRef) memberRefParent() {}
func (*TypeRef) resolutionScope() {}

func (r *TypeRef) MDToken() Token {
	if r == nil {
		return 0
	}
	return r.Token
}

func (r *TypeRef) OwnerModule() *Module {
	if r == nil {
		return nil
	}
	return r.Module
}

// DeclaringType returns the enclosing reference of a nested type reference.
func (r *TypeRef) DeclaringType() *TypeRef {
	if r == nil {
		return nil
	}
	outer, _ := r.ResolutionScope.(*TypeRef)
	return outer
}

// DefinitionAssembly returns the assembly the reference points into. Nested
// references defer to their outermost enclosing reference. A module scope
// means the assembly of the owning module.
func (r *TypeRef) DefinitionAssembly() AssemblyScope {
	for depth := 0; r != nil && depth < maxScopeChain; depth++ {
		switch s := r.ResolutionScope.(type) {
		case *TypeRef:
			r = s
			continue
		case *AssemblyRef:
			if s == nil {
				return nil
			}
			return s
		case *Module:
			return AssemblyOf(s)
		default:
			return AssemblyOf(r.Module)
		}
	}
	return nil
}

func (r *TypeRef) FullName() string {
	if r == nil {
		return ""
	}
	if outer := r.DeclaringType(); outer != nil && outer != r {
		return outer.FullName() + "/" + r.Name
	}
	return joinTypeName(r.Namespace, r.Name)
}

func (r *TypeRef) String() string { return r.FullName() }

// TypeSpec is a type described by a signature, e.g. a generic instance.
type TypeSpec struct {
	Token  Token
	Sig    TypeSig
	Module *Module
}

func (s *TypeSpec) isNil() bool    { return s == nil }
func (*TypeSpec) typeNode()        {}
func (*TypeSpec) typeDefOrRef()    {}
func (*TypeSpec) memberRefParent() {}

func (s *TypeSpec) MDToken() Token {
	if s == nil {
		return 0
	}
	return s.Token
}

func (s *TypeSpec) OwnerModule() *Module {
	if s == nil {
		return nil
	}
	return s.Module
}

func (s *TypeSpec) String() string {
	if s == nil || IsNil(s.Sig) {
		return ""
	}
	return SigString(s.Sig)
}

// ExportedType forwards a type name to the file or assembly that actually
// declares it.
type ExportedType struct {
	Token          Token
	Namespace      string
	Name           string
	Implementation Implementation
	Module         *Module
}

func (e *ExportedType) isNil() bool   { return e == nil }
func (*ExportedType) typeNode()       {}
func (*ExportedType) implementation() {}

func (e *ExportedType) MDToken() Token {
	if e == nil {
		return 0
	}
	return e.Token
}

func (e *ExportedType) OwnerModule() *Module {
	if e == nil {
		return nil
	}
	return e.Module
}

// DeclaringType returns the enclosing exported type of a nested one.
func (e *ExportedType) DeclaringType() *ExportedType {
	if e == nil {
		return nil
	}
	outer, _ := e.Implementation.(*ExportedType)
	return outer
}

func (e *ExportedType) FullName() string {
	if e == nil {
		return ""
	}
	if outer := e.DeclaringType(); outer != nil && outer != e {
		return outer.FullName() + "/" + e.Name
	}
	return joinTypeName(e.Namespace, e.Name)
}

func (e *ExportedType) String() string { return e.FullName() }

// maxScopeChain bounds walks over nesting chains so malformed, cyclic
// metadata cannot hang a caller.
const maxScopeChain = 64

func joinTypeName(ns, name string) string {
	if ns == "" {
		return name
	}
	var sb strings.Builder
	sb.Grow(len(ns) + 1 + len(name))
	sb.WriteString(ns)
	sb.WriteByte('.')
	sb.WriteString(name)
	return sb.String()
}
