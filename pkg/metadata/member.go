package metadata

import "fmt"

// Access is the member access level stored in the low bits of method and
// field attributes.
type Access uint8

const (
	AccessPrivateScope Access = iota
	AccessPrivate
	AccessFamANDAssem
	AccessAssembly
	AccessFamily
	AccessFamORAssem
	AccessPublic
)

var accessNames = [...]string{
	AccessPrivateScope: "privatescope",
	AccessPrivate:      "private",
	AccessFamANDAssem:  "famandassem",
	AccessAssembly:     "assembly",
	AccessFamily:       "family",
	AccessFamORAssem:   "famorassem",
	AccessPublic:       "public",
}

func (a Access) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return fmt.Sprintf("Access(%d)", uint8(a))
}

// ParseAccess maps an access keyword back to its value.
func ParseAccess(s string) (Access, bool) {
	for i, name := range accessNames {
		if name == s {
			return Access(i), true
		}
	}
	return 0, false
}

// MethodDef is a method declared on DeclaringType.
type MethodDef struct {
	Token         Token
	Name          string
	Access        Access
	Static        bool
	Signature     *MethodSig
	DeclaringType *TypeDef
}

// FieldDef is a field declared on DeclaringType.
type FieldDef struct {
	Token         Token
	Name          string
	Access        Access
	Static        bool
	Signature     *FieldSig
	DeclaringType *TypeDef
}

// PropertyDef is a property declared on DeclaringType.
type PropertyDef struct {
	Token         Token
	Name          string
	Signature     *PropertySig
	DeclaringType *TypeDef
}

// EventDef is an event declared on DeclaringType.
type EventDef struct {
	Token         Token
	Name          string
	EventType     TypeDefOrRef
	DeclaringType *TypeDef
}

// MemberRef references a method or field through its parent. Whether it is
// a method or a field reference depends on the signature it carries.
type MemberRef struct {
	Token     Token
	Name      string
	Class     MemberRefParent
	Signature CallingConventionSig
	Module    *Module
}

// MethodSpec instantiates a generic method.
type MethodSpec struct {
	Token         Token
	Method        MethodDefOrRef
	Instantiation *GenericInstMethodSig
	Module        *Module
}

func (m *MethodDef) isNil() bool   { return m == nil }
func (f *FieldDef) isNil() bool    { return f == nil }
func (p *PropertyDef) isNil() bool { return p == nil }
func (e *EventDef) isNil() bool    { return e == nil }
func (r *MemberRef) isNil() bool   { return r == nil }
func (s *MethodSpec) isNil() bool  { return s == nil }

func (*MethodDef) memberNode()   {}
func (*FieldDef) memberNode()    {}
func (*PropertyDef) memberNode() {}
func (*EventDef) memberNode()    {}
func (*MemberRef) memberNode()   {}
func (*MethodSpec) memberNode()  {}

func (*MethodDef) methodDefOrRef()  {}
func (*MemberRef) methodDefOrRef()  {}
func (*MethodDef) memberRefParent() {}

func (m *MethodDef) MemberName() string   { return m.Name }
func (f *FieldDef) MemberName() string    { return f.Name }
func (p *PropertyDef) MemberName() string { return p.Name }
func (e *EventDef) MemberName() string    { return e.Name }
func (r *MemberRef) MemberName() string   { return r.Name }

// MemberName of a method instantiation is the name of the generic method.
func (s *MethodSpec) MemberName() string {
	if s == nil || IsNil(s.Method) {
		return ""
	}
	return s.Method.MemberName()
}

func (m *MethodDef) MDToken() Token {
	if m == nil {
		return 0
	}
	return m.Token
}

func (f *FieldDef) MDToken() Token {
	if f == nil {
		return 0
	}
	return f.Token
}

func (p *PropertyDef) MDToken() Token {
	if p == nil {
		return 0
	}
	return p.Token
}

func (e *EventDef) MDToken() Token {
	if e == nil {
		return 0
	}
	return e.Token
}

func (r *MemberRef) MDToken() Token {
	if r == nil {
		return 0
	}
	return r.Token
}

func (s *MethodSpec) MDToken() Token {
	if s == nil {
		return 0
	}
	return s.Token
}

func (m *MethodDef) OwnerModule() *Module {
	if m == nil {
		return nil
	}
	return m.DeclaringType.OwnerModule()
}

func (f *FieldDef) OwnerModule() *Module {
	if f == nil {
		return nil
	}
	return f.DeclaringType.OwnerModule()
}

func (p *PropertyDef) OwnerModule() *Module {
	if p == nil {
		return nil
	}
	return p.DeclaringType.OwnerModule()
}

func (e *EventDef) OwnerModule() *Module {
	if e == nil {
		return nil
	}
	return e.DeclaringType.OwnerModule()
}

func (r *MemberRef) OwnerModule() *Module {
	if r == nil {
		return nil
	}
	return r.Module
}

func (s *MethodSpec) OwnerModule() *Module {
	if s == nil {
		return nil
	}
	return s.Module
}

// IsPrivateScope reports whether the method has compiler-controlled access.
func (m *MethodDef) IsPrivateScope() bool { return m != nil && m.Access == AccessPrivateScope }

// IsPrivateScope reports whether the field has compiler-controlled access.
func (f *FieldDef) IsPrivateScope() bool { return f != nil && f.Access == AccessPrivateScope }

// IsMethodRef reports whether the reference carries a method signature.
func (r *MemberRef) IsMethodRef() bool {
	if r == nil {
		return false
	}
	s, ok := r.Signature.(*MethodSig)
	return ok && s != nil
}

// IsFieldRef reports whether the reference carries a field signature.
func (r *MemberRef) IsFieldRef() bool {
	if r == nil {
		return false
	}
	s, ok := r.Signature.(*FieldSig)
	return ok && s != nil
}

func (m *MethodDef) String() string {
	if m == nil {
		return ""
	}
	return m.DeclaringType.FullName() + "::" + m.Name
}

func (f *FieldDef) String() string {
	if f == nil {
		return ""
	}
	return f.DeclaringType.FullName() + "::" + f.Name
}

func (r *MemberRef) String() string {
	if r == nil {
		return ""
	}
	return memberRefParentString(r.Class) + "::" + r.Name
}

func memberRefParentString(p MemberRefParent) string {
	switch p := p.(type) {
	case *TypeDef:
		return p.FullName()
	case *TypeRef:
		return p.FullName()
	case *TypeSpec:
		return p.String()
	case *ModuleRef:
		if p != nil {
			return "[" + p.Name + "]"
		}
	case *MethodDef:
		return p.String()
	}
	return ""
}
