package fixture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/odvcencio/asmgraft/pkg/metadata"
)

func testLookup() TypeLookup {
	m := &metadata.Module{Name: "Test.dll"}
	types := map[string]metadata.TypeDefOrRef{
		"widget":  &metadata.TypeDef{Namespace: "Acme", Name: "Widget", Module: m},
		"point":   &metadata.TypeDef{Namespace: "Acme", Name: "Point", Module: m},
		"list":    &metadata.TypeRef{Namespace: "Acme", Name: "List`1", Module: m},
		"isconst": &metadata.TypeRef{Namespace: "System.Runtime.CompilerServices", Name: "IsConst", Module: m},
	}
	return func(label string) (metadata.TypeDefOrRef, error) {
		if t, ok := types[label]; ok {
			return t, nil
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownLabel, label)
	}
}

func TestParseTypeSig(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"i4", "i4"},
		{"  string  ", "string"},
		{"szarray(class(widget))", "class Acme.Widget[]"},
		{"byref(valuetype(point))", "valuetype Acme.Point&"},
		{"ptr(ptr(u1))", "u1**"},
		{"array(i4, 2)", "i4[,]"},
		{"array(i4, 2, [3], [1, 0])", "i4[1...3,0...]"},
		{"array(r8, 1, [], [-1])", "r8[-1...]"},
		{"inst(class(list), var(0))", "class Acme.List`1<!0>"},
		{"inst(valuetype(point), mvar(1), string)", "valuetype Acme.Point<!!1,string>"},
		{"modreq(isconst, i4)", "i4 modreq(System.Runtime.CompilerServices.IsConst)"},
		{"modopt(isconst, object)", "object modopt(System.Runtime.CompilerServices.IsConst)"},
		{"pinned(byref(u1))", "u1& pinned"},
		{"fnptr(default void(i4))", "method default void(i4)"},
	}
	for _, tt := range tests {
		s, err := ParseTypeSig(tt.in, testLookup())
		if err != nil {
			t.Fatalf("ParseTypeSig(%q): %v", tt.in, err)
		}
		if got := metadata.SigString(s); got != tt.want {
			t.Fatalf("ParseTypeSig(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTypeSigShapes(t *testing.T) {
	s, err := ParseTypeSig("array(i4, 3, [2, 2], [0, 1, 5])", testLookup())
	if err != nil {
		t.Fatalf("ParseTypeSig: %v", err)
	}
	arr, ok := s.(*metadata.ArraySig)
	if !ok {
		t.Fatalf("got %T, want *ArraySig", s)
	}
	if arr.Rank != 3 || len(arr.Sizes) != 2 || len(arr.LowerBounds) != 3 || arr.LowerBounds[2] != 5 {
		t.Fatalf("unexpected array shape %+v", arr)
	}

	s, err = ParseTypeSig("array(u1, 1, [4294967295])", testLookup())
	if err != nil {
		t.Fatalf("ParseTypeSig: %v", err)
	}
	if arr, ok := s.(*metadata.ArraySig); !ok || len(arr.Sizes) != 1 || arr.Sizes[0] != 4294967295 {
		t.Fatalf("expected the full uint32 size range, got %#v", s)
	}

	s, err = ParseTypeSig("mvar(7)", nil)
	if err != nil {
		t.Fatalf("ParseTypeSig: %v", err)
	}
	if v, ok := s.(*metadata.GenericVarSig); !ok || !v.MethodLevel || v.Number != 7 {
		t.Fatalf("unexpected generic var %#v", s)
	}
}

func TestParseCallSig(t *testing.T) {
	tests := []struct {
		in   string
		want string
		conv metadata.CallingConvention
	}{
		{"hasthis void(string, i4)", "hasthis default void(string, i4)", metadata.ConvHasThis},
		{"void()", "default void()", metadata.ConvDefault},
		{"generic(1) mvar(0)(class(list))", "generic default`1 !!0(class Acme.List`1)", metadata.ConvGeneric},
		{"vararg void(i4; string, object)", "vararg void(i4; string, object)", metadata.ConvVarArg},
		{"vararg void(; i4)", "vararg void(; i4)", metadata.ConvVarArg},
		{"explicitthis hasthis c i4(ptr(void))", "hasthis explicitthis c i4(void*)", metadata.ConvHasThis | metadata.ConvExplicitThis | metadata.ConvC},
		{"field(i4)", "i4", metadata.ConvField},
		{"property hasthis i4()", "hasthis property i4()", metadata.ConvHasThis | metadata.ConvProperty},
		{"property string(i4)", "property string(i4)", metadata.ConvProperty},
		{"locals(i4, pinned(byref(u1)))", "locals(i4, u1& pinned)", metadata.ConvLocalSig},
		{"locals()", "locals()", metadata.ConvLocalSig},
		{"instmethod(string, class(widget))", "instmethod(string, class Acme.Widget)", metadata.ConvGenericInst},
	}
	for _, tt := range tests {
		s, err := ParseCallSig(tt.in, testLookup())
		if err != nil {
			t.Fatalf("ParseCallSig(%q): %v", tt.in, err)
		}
		if got := metadata.CallSigString(s); got != tt.want {
			t.Fatalf("ParseCallSig(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := s.Convention(); got != tt.conv {
			t.Fatalf("ParseCallSig(%q) convention = %v, want %v", tt.in, got, tt.conv)
		}
	}
}

func TestParseGenericParamCount(t *testing.T) {
	s, err := ParseCallSig("generic(3) hasthis void()", nil)
	if err != nil {
		t.Fatalf("ParseCallSig: %v", err)
	}
	ms, ok := s.(*metadata.MethodSig)
	if !ok {
		t.Fatalf("got %T, want *MethodSig", s)
	}
	if ms.GenParamCount != 3 || !ms.IsGeneric() || !ms.CallingConvention.HasThis() {
		t.Fatalf("unexpected method sig %+v", ms.MethodBaseSig)
	}
}

func TestParseSigErrors(t *testing.T) {
	tests := []string{
		"",
		"i4 i4",
		"szarray(i4",
		"szarray(i4))",
		"class()",
		"frobnicate",
		"var(-1)",
		"var(x)",
		"array(i4)",
		"array(i4, 1, [1], [0], [2])",
		"array(i4, 1, [-2])",
		"inst(class(list))",
		"inst(i4, string)",
		"modreq(isconst)",
		"valuetype(widget",
	}
	for _, in := range tests {
		if _, err := ParseTypeSig(in, testLookup()); err == nil {
			t.Fatalf("ParseTypeSig(%q): expected error", in)
		}
	}

	calls := []string{
		"",
		"hasthis",
		"void",
		"void(i4; string; object)",
		"void(i4,)",
		"field()",
		"locals(i4",
		"generic() void()",
		"property",
	}
	for _, in := range calls {
		if _, err := ParseCallSig(in, testLookup()); err == nil {
			t.Fatalf("ParseCallSig(%q): expected error", in)
		}
	}
}

func TestParseUnknownLabel(t *testing.T) {
	_, err := ParseTypeSig("class(gadget)", testLookup())
	if !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
	_, err = ParseTypeSig("class(widget)", nil)
	if !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel without a lookup, got %v", err)
	}
}

func TestParseNestingLimit(t *testing.T) {
	in := ""
	for i := 0; i < maxSigDepth+1; i++ {
		in += "ptr("
	}
	in += "i4"
	for i := 0; i < maxSigDepth+1; i++ {
		in += ")"
	}
	if _, err := ParseTypeSig(in, nil); err == nil {
		t.Fatal("expected deeply nested signature to be rejected")
	}
}
