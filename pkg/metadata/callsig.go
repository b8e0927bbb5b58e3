package metadata

import (
	"fmt"
	"strings"
)

// CallingConvention is the first byte of a calling-convention signature:
// the kind in the low nibble plus the generic/hasthis/explicitthis flags.
type CallingConvention uint8

const (
	ConvDefault      CallingConvention = 0x00
	ConvC            CallingConvention = 0x01
	ConvStdCall      CallingConvention = 0x02
	ConvThisCall     CallingConvention = 0x03
	ConvFastCall     CallingConvention = 0x04
	ConvVarArg       CallingConvention = 0x05
	ConvField        CallingConvention = 0x06
	ConvLocalSig     CallingConvention = 0x07
	ConvProperty     CallingConvention = 0x08
	ConvUnmanaged    CallingConvention = 0x09
	ConvGenericInst  CallingConvention = 0x0A
	ConvNativeVarArg CallingConvention = 0x0B
	ConvMask         CallingConvention = 0x0F

	ConvGeneric      CallingConvention = 0x10
	ConvHasThis      CallingConvention = 0x20
	ConvExplicitThis CallingConvention = 0x40
)

// Kind returns the calling convention without its flag bits.
func (c CallingConvention) Kind() CallingConvention { return c & ConvMask }

func (c CallingConvention) IsGeneric() bool { return c&ConvGeneric != 0 }
func (c CallingConvention) HasThis() bool   { return c&ConvHasThis != 0 }

var convKindNames = map[CallingConvention]string{
	ConvDefault:      "default",
	ConvC:            "c",
	ConvStdCall:      "stdcall",
	ConvThisCall:     "thiscall",
	ConvFastCall:     "fastcall",
	ConvVarArg:       "vararg",
	ConvField:        "field",
	ConvLocalSig:     "locals",
	ConvProperty:     "property",
	ConvUnmanaged:    "unmanaged",
	ConvGenericInst:  "instmethod",
	ConvNativeVarArg: "nativevararg",
}

func (c CallingConvention) String() string {
	var parts []string
	if c&ConvGeneric != 0 {
		parts = append(parts, "generic")
	}
	if c&ConvHasThis != 0 {
		parts = append(parts, "hasthis")
	}
	if c&ConvExplicitThis != 0 {
		parts = append(parts, "explicitthis")
	}
	if s, ok := convKindNames[c.Kind()]; ok {
		parts = append(parts, s)
	} else {
		parts = append(parts, fmt.Sprintf("conv(0x%X)", uint8(c.Kind())))
	}
	return strings.Join(parts, " ")
}

// CallingConventionSig is a method, property, field, locals or generic
// method instantiation signature.
type CallingConventionSig interface {
	Node
	Convention() CallingConvention
	callSig()
}

// MethodBaseSig is the shape shared by method and property signatures.
// ParamsAfterSentinel holds the vararg tail of a call-site signature.
type MethodBaseSig struct {
	CallingConvention   CallingConvention
	RetType             TypeSig
	Params              []TypeSig
	ParamsAfterSentinel []TypeSig
	GenParamCount       uint32
}

// IsGeneric reports whether the signature declares generic parameters.
func (s *MethodBaseSig) IsGeneric() bool { return s.CallingConvention.IsGeneric() }

// MethodSig is the signature of a method or function pointer.
type MethodSig struct{ MethodBaseSig }

// PropertySig is the signature of a property.
type PropertySig struct{ MethodBaseSig }

// FieldSig is the signature of a field.
type FieldSig struct{ Type TypeSig }

// LocalSig lists the types of a method body's locals.
type LocalSig struct{ Locals []TypeSig }

// GenericInstMethodSig lists the type arguments of a generic method
// instantiation.
type GenericInstMethodSig struct{ Args []TypeSig }

func (s *MethodSig) isNil() bool            { return s == nil }
func (s *PropertySig) isNil() bool          { return s == nil }
func (s *FieldSig) isNil() bool             { return s == nil }
func (s *LocalSig) isNil() bool             { return s == nil }
func (s *GenericInstMethodSig) isNil() bool { return s == nil }

func (*MethodSig) callSig()            {}
func (*PropertySig) callSig()          {}
func (*FieldSig) callSig()             {}
func (*LocalSig) callSig()             {}
func (*GenericInstMethodSig) callSig() {}

func (s *MethodSig) Convention() CallingConvention          { return s.CallingConvention }
func (s *PropertySig) Convention() CallingConvention        { return s.CallingConvention }
func (*FieldSig) Convention() CallingConvention             { return ConvField }
func (*LocalSig) Convention() CallingConvention             { return ConvLocalSig }
func (*GenericInstMethodSig) Convention() CallingConvention { return ConvGenericInst }

// CallSigString renders a calling-convention signature for diagnostics.
func CallSigString(s CallingConventionSig) string {
	var sb strings.Builder
	writeCallSig(&sb, s, 0)
	return sb.String()
}

func writeCallSig(sb *strings.Builder, s CallingConventionSig, depth int) {
	if IsNil(s) {
		sb.WriteString("<nil>")
		return
	}
	switch s := s.(type) {
	case *MethodSig:
		writeMethodBaseSig(sb, &s.MethodBaseSig, depth)
	case *PropertySig:
		writeMethodBaseSig(sb, &s.MethodBaseSig, depth)
	case *FieldSig:
		writeSig(sb, s.Type, depth+1)
	case *LocalSig:
		sb.WriteString("locals")
		writeSigList(sb, s.Locals, depth)
	case *GenericInstMethodSig:
		sb.WriteString("instmethod")
		writeSigList(sb, s.Args, depth)
	}
}

func writeMethodBaseSig(sb *strings.Builder, s *MethodBaseSig, depth int) {
	sb.WriteString(s.CallingConvention.String())
	if s.IsGeneric() {
		fmt.Fprintf(sb, "`%d", s.GenParamCount)
	}
	sb.WriteByte(' ')
	writeSig(sb, s.RetType, depth+1)
	sb.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeSig(sb, p, depth+1)
	}
	if len(s.ParamsAfterSentinel) > 0 {
		sb.WriteString("; ")
		for i, p := range s.ParamsAfterSentinel {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeSig(sb, p, depth+1)
		}
	}
	sb.WriteByte(')')
}

func writeSigList(sb *strings.Builder, list []TypeSig, depth int) {
	sb.WriteByte('(')
	for i, t := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeSig(sb, t, depth+1)
	}
	sb.WriteByte(')')
}
