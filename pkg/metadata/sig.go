package metadata

import (
	"fmt"
	"strings"
)

// TypeSig is one node of a type signature tree.
type TypeSig interface {
	Type
	ElementType() ElementType
	sigNode()
}

// PrimitiveSig is a leaf with no payload: void, bool, the integer and float
// kinds, string, intptr/uintptr, object, typedref and the vararg sentinel.
type PrimitiveSig struct {
	Kind ElementType
}

// ClassSig wraps a TypeDef, TypeRef or TypeSpec as a class or value type.
type ClassSig struct {
	ValueType bool
	Type      TypeDefOrRef
}

// PtrSig is an unmanaged pointer to Next.
type PtrSig struct{ Next TypeSig }

// ByRefSig is a managed reference to Next.
type ByRefSig struct{ Next TypeSig }

// SZArraySig is a single-dimension, zero-based array of Next.
type SZArraySig struct{ Next TypeSig }

// PinnedSig marks a pinned local of type Next.
type PinnedSig struct{ Next TypeSig }

// ArraySig is a general array with explicit rank, sizes and lower bounds.
type ArraySig struct {
	Next        TypeSig
	Rank        uint32
	Sizes       []uint32
	LowerBounds []int32
}

// ModifierSig decorates Next with a required or optional custom modifier.
type ModifierSig struct {
	Required bool
	Modifier TypeDefOrRef
	Next     TypeSig
}

// GenericInstSig instantiates GenericType with Args.
type GenericInstSig struct {
	GenericType *ClassSig
	Args        []TypeSig
}

// GenericVarSig is a generic parameter by position: a type parameter, or a
// method parameter when MethodLevel is set.
type GenericVarSig struct {
	MethodLevel bool
	Number      uint32
}

// FnPtrSig is a function pointer with the given method signature.
type FnPtrSig struct {
	Sig CallingConventionSig
}

func (s *PrimitiveSig) isNil() bool   { return s == nil }
func (s *ClassSig) isNil() bool       { return s == nil }
func (s *PtrSig) isNil() bool         { return s == nil }
func (s *ByRefSig) isNil() bool       { return s == nil }
func (s *SZArraySig) isNil() bool     { return s == nil }
func (s *PinnedSig) isNil() bool      { return s == nil }
func (s *ArraySig) isNil() bool       { return s == nil }
func (s *ModifierSig) isNil() bool    { return s == nil }
func (s *GenericInstSig) isNil() bool { return s == nil }
func (s *GenericVarSig) isNil() bool  { return s == nil }
func (s *FnPtrSig) isNil() bool       { return s == nil }

func (*PrimitiveSig) typeNode()   {}
func (*ClassSig) typeNode()       {}
func (*PtrSig) typeNode()         {}
func (*ByRefSig) typeNode()       {}
func (*SZArraySig) typeNode()     {}
func (*PinnedSig) typeNode()      {}
func (*ArraySig) typeNode()       {}
func (*ModifierSig) typeNode()    {}
func (*GenericInstSig) typeNode() {}
func (*GenericVarSig) typeNode()  {}
func (*FnPtrSig) typeNode()       {}

func (*PrimitiveSig) sigNode()   {}
func (*ClassSig) sigNode()       {}
func (*PtrSig) sigNode()         {}
func (*ByRefSig) sigNode()       {}
func (*SZArraySig) sigNode()     {}
func (*PinnedSig) sigNode()      {}
func (*ArraySig) sigNode()       {}
func (*ModifierSig) sigNode()    {}
func (*GenericInstSig) sigNode() {}
func (*GenericVarSig) sigNode()  {}
func (*FnPtrSig) sigNode()       {}

func (s *PrimitiveSig) ElementType() ElementType { return s.Kind }
func (*PtrSig) ElementType() ElementType         { return ElementPtr }
func (*ByRefSig) ElementType() ElementType       { return ElementByRef }
func (*SZArraySig) ElementType() ElementType     { return ElementSZArray }
func (*PinnedSig) ElementType() ElementType      { return ElementPinned }
func (*ArraySig) ElementType() ElementType       { return ElementArray }
func (*GenericInstSig) ElementType() ElementType { return ElementGenericInst }
func (*FnPtrSig) ElementType() ElementType       { return ElementFnPtr }

func (s *ClassSig) ElementType() ElementType {
	if s.ValueType {
		return ElementValueType
	}
	return ElementClass
}

func (s *ModifierSig) ElementType() ElementType {
	if s.Required {
		return ElementCModReqd
	}
	return ElementCModOpt
}

func (s *GenericVarSig) ElementType() ElementType {
	if s.MethodLevel {
		return ElementMVar
	}
	return ElementVar
}

// Next returns the child node of a wrapping signature node, or nil for
// leaves, generic instances and function pointers.
func Next(s TypeSig) TypeSig {
	switch s := s.(type) {
	case *PtrSig:
		if s != nil {
			return s.Next
		}
	case *ByRefSig:
		if s != nil {
			return s.Next
		}
	case *SZArraySig:
		if s != nil {
			return s.Next
		}
	case *PinnedSig:
		if s != nil {
			return s.Next
		}
	case *ArraySig:
		if s != nil {
			return s.Next
		}
	case *ModifierSig:
		if s != nil {
			return s.Next
		}
	}
	return nil
}

// RemoveModifiers strips leading custom-modifier nodes.
func RemoveModifiers(s TypeSig) TypeSig {
	for {
		m, ok := s.(*ModifierSig)
		if !ok || m == nil {
			return s
		}
		s = m.Next
	}
}

// SigString renders a signature for diagnostics.
func SigString(s TypeSig) string {
	var sb strings.Builder
	writeSig(&sb, s, 0)
	return sb.String()
}

func writeSig(sb *strings.Builder, s TypeSig, depth int) {
	if depth > maxScopeChain {
		sb.WriteString("...")
		return
	}
	if IsNil(s) {
		sb.WriteString("<nil>")
		return
	}
	switch s := s.(type) {
	case *PrimitiveSig:
		sb.WriteString(s.Kind.String())
	case *ClassSig:
		sb.WriteString(s.ElementType().String())
		sb.WriteByte(' ')
		sb.WriteString(typeDefOrRefString(s.Type, depth))
	case *PtrSig:
		writeSig(sb, s.Next, depth+1)
		sb.WriteByte('*')
	case *ByRefSig:
		writeSig(sb, s.Next, depth+1)
		sb.WriteByte('&')
	case *SZArraySig:
		writeSig(sb, s.Next, depth+1)
		sb.WriteString("[]")
	case *PinnedSig:
		writeSig(sb, s.Next, depth+1)
		sb.WriteString(" pinned")
	case *ArraySig:
		writeSig(sb, s.Next, depth+1)
		sb.WriteByte('[')
		for i := uint32(0); i < s.Rank; i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			if int(i) < len(s.LowerBounds) || int(i) < len(s.Sizes) {
				var lo int32
				if int(i) < len(s.LowerBounds) {
					lo = s.LowerBounds[i]
				}
				fmt.Fprintf(sb, "%d...", lo)
				if int(i) < len(s.Sizes) {
					fmt.Fprintf(sb, "%d", lo+int32(s.Sizes[i])-1)
				}
			}
		}
		sb.WriteByte(']')
	case *ModifierSig:
		writeSig(sb, s.Next, depth+1)
		sb.WriteByte(' ')
		sb.WriteString(s.ElementType().String())
		sb.WriteByte('(')
		sb.WriteString(typeDefOrRefString(s.Modifier, depth))
		sb.WriteByte(')')
	case *GenericInstSig:
		if s.GenericType == nil {
			sb.WriteString("<nil>")
		} else {
			writeSig(sb, s.GenericType, depth+1)
		}
		sb.WriteByte('<')
		for i, a := range s.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeSig(sb, a, depth+1)
		}
		sb.WriteByte('>')
	case *GenericVarSig:
		if s.MethodLevel {
			sb.WriteString("!!")
		} else {
			sb.WriteString("!")
		}
		fmt.Fprintf(sb, "%d", s.Number)
	case *FnPtrSig:
		sb.WriteString("method ")
		writeCallSig(sb, s.Sig, depth+1)
	}
}

func typeDefOrRefString(t TypeDefOrRef, depth int) string {
	switch t := t.(type) {
	case *TypeDef:
		if t != nil {
			return t.FullName()
		}
	case *TypeRef:
		if t != nil {
			return t.FullName()
		}
	case *TypeSpec:
		if t != nil {
			var sb strings.Builder
			writeSig(&sb, t.Sig, depth+1)
			return sb.String()
		}
	}
	return "<nil>"
}
