package identity

import (
	"testing"

	"github.com/odvcencio/asmgraft/pkg/metadata"
)

func TestArrayBoundsArePadded(t *testing.T) {
	c := New(Options{}, nil)
	bare := &metadata.ArraySig{Next: prim(metadata.ElementI4), Rank: 2}
	zeros := &metadata.ArraySig{Next: prim(metadata.ElementI4), Rank: 2, LowerBounds: []int32{0, 0}, Sizes: []uint32{0}}
	offset := &metadata.ArraySig{Next: prim(metadata.ElementI4), Rank: 2, LowerBounds: []int32{0, 1}}

	if !c.EqualSig(bare, zeros) {
		t.Fatal("expected missing bounds to equal explicit zero bounds")
	}
	if c.HashSig(bare) != c.HashSig(zeros) {
		t.Fatal("padded-equal arrays should hash alike")
	}
	if c.EqualSig(bare, offset) {
		t.Fatal("a non-zero lower bound must make arrays differ")
	}
	rank3 := &metadata.ArraySig{Next: prim(metadata.ElementI4), Rank: 3}
	if c.EqualSig(bare, rank3) {
		t.Fatal("rank must match")
	}
}

func TestIgnoreModifiers(t *testing.T) {
	w := newWorld()
	modded := &metadata.ModifierSig{Required: true, Modifier: w.object, Next: prim(metadata.ElementI4)}
	plain := prim(metadata.ElementI4)

	strict := New(Options{}, w.u)
	if strict.EqualSig(modded, plain) {
		t.Fatal("modifiers take part in comparison by default")
	}
	lax := New(Options{Flags: IgnoreModifiers}, w.u)
	if !lax.EqualSig(modded, plain) {
		t.Fatal("expected modifiers to be stripped")
	}
	if lax.HashSig(modded) != lax.HashSig(plain) {
		t.Fatal("modifiers should not contribute to the hash")
	}

	other := &metadata.ModifierSig{Required: true, Modifier: w.str, Next: prim(metadata.ElementI4)}
	if strict.EqualSig(modded, other) {
		t.Fatal("different modifier types must differ")
	}
}

func TestRawSignatureCompare(t *testing.T) {
	w := newWorld()
	a := addTypeRef(w.app, w.appImpl, "Lib", "Gadget")
	b := addTypeRef(w.app, w.appImpl, "Lib", "Gadget")
	a.Token = metadata.NewToken(metadata.TableTypeRef, 10)
	b.Token = metadata.NewToken(metadata.TableTypeRef, 11)

	structural := New(Options{}, w.u)
	if !structural.EqualSig(class(a), class(b)) {
		t.Fatal("duplicate references are structurally equal")
	}

	raw := New(Options{Flags: RawSignatureCompare}, w.u)
	if raw.EqualSig(class(a), class(b)) {
		t.Fatal("different tokens in one module must differ in raw mode")
	}
	b.Token = a.Token
	if !raw.EqualSig(class(a), class(b)) {
		t.Fatal("equal tokens in one module must be equal in raw mode")
	}

	// Across modules raw mode falls back to structure.
	if !raw.EqualSig(class(w.gadget), class(a)) {
		t.Fatal("expected structural comparison across modules")
	}
}

func TestPropertySigIgnoresHasThis(t *testing.T) {
	c := New(Options{}, nil)
	instance := &metadata.PropertySig{MethodBaseSig: metadata.MethodBaseSig{
		CallingConvention: metadata.ConvProperty | metadata.ConvHasThis,
		RetType:           prim(metadata.ElementI4),
	}}
	bare := &metadata.PropertySig{MethodBaseSig: metadata.MethodBaseSig{
		CallingConvention: metadata.ConvProperty,
		RetType:           prim(metadata.ElementI4),
	}}
	if !c.EqualCallSig(instance, bare) {
		t.Fatal("expected HasThis to be ignored on property signatures")
	}
	if c.HashCallSig(instance) != c.HashCallSig(bare) {
		t.Fatal("HasThis should not contribute to property hashes")
	}

	m1 := methodSig(metadata.ConvHasThis, prim(metadata.ElementI4))
	m2 := methodSig(metadata.ConvDefault, prim(metadata.ElementI4))
	if c.EqualCallSig(m1, m2) {
		t.Fatal("HasThis still matters on method signatures")
	}
}

func TestSentinelParams(t *testing.T) {
	a := methodSig(metadata.ConvVarArg, prim(metadata.ElementVoid), prim(metadata.ElementString))
	b := methodSig(metadata.ConvVarArg, prim(metadata.ElementVoid), prim(metadata.ElementString))
	a.ParamsAfterSentinel = []metadata.TypeSig{prim(metadata.ElementI4)}
	b.ParamsAfterSentinel = []metadata.TypeSig{prim(metadata.ElementR8)}

	loose := New(Options{}, nil)
	if !loose.EqualCallSig(a, b) {
		t.Fatal("sentinel params are ignored by default")
	}
	if loose.HashCallSig(a) != loose.HashCallSig(b) {
		t.Fatal("ignored sentinel params should not change the hash")
	}
	strict := New(Options{Flags: CompareSentinelParams}, nil)
	if strict.EqualCallSig(a, b) {
		t.Fatal("expected sentinel params to be compared")
	}
}

func TestReturnTypeOption(t *testing.T) {
	a := methodSig(metadata.ConvDefault, prim(metadata.ElementI4), prim(metadata.ElementString))
	b := methodSig(metadata.ConvDefault, prim(metadata.ElementI8), prim(metadata.ElementString))

	if New(Options{}, nil).EqualCallSig(a, b) {
		t.Fatal("return types are compared by default")
	}
	c := New(Options{Flags: DontCompareReturnType}, nil)
	if !c.EqualCallSig(a, b) {
		t.Fatal("expected return types to be skipped")
	}
	if c.HashCallSig(a) != c.HashCallSig(b) {
		t.Fatal("skipped return types should not change the hash")
	}
}

func TestGenericParamCount(t *testing.T) {
	a := methodSig(metadata.ConvGeneric, prim(metadata.ElementVoid))
	b := methodSig(metadata.ConvGeneric, prim(metadata.ElementVoid))
	a.GenParamCount = 1
	b.GenParamCount = 2
	c := New(Options{}, nil)
	if c.EqualCallSig(a, b) {
		t.Fatal("generic methods with different arity must differ")
	}
	b.GenParamCount = 1
	if !c.EqualCallSig(a, b) {
		t.Fatal("expected equal generic arity to compare equal")
	}
}

func TestGenericVars(t *testing.T) {
	c := New(Options{}, nil)
	tvar := &metadata.GenericVarSig{Number: 0}
	mvar := &metadata.GenericVarSig{MethodLevel: true, Number: 0}
	if c.EqualSig(tvar, mvar) {
		t.Fatal("type and method generic parameters must differ")
	}
	if !c.EqualSig(mvar, &metadata.GenericVarSig{MethodLevel: true}) {
		t.Fatal("expected same-position method parameters to be equal")
	}
	if c.EqualSig(tvar, &metadata.GenericVarSig{Number: 1}) {
		t.Fatal("different positions must differ")
	}
	if c.HashSig(tvar) == c.HashSig(mvar) {
		t.Fatal("expected type and method parameters to hash apart")
	}
}

func TestFunctionPointers(t *testing.T) {
	w := newWorld()
	c := New(Options{}, w.u)
	a := &metadata.FnPtrSig{Sig: methodSig(metadata.ConvC, prim(metadata.ElementI4), class(w.widget))}
	b := &metadata.FnPtrSig{Sig: methodSig(metadata.ConvC, prim(metadata.ElementI4), class(w.widgetViaImpl))}
	if !c.EqualSig(a, b) {
		t.Fatal("expected function pointers with equal signatures to be equal")
	}
	if c.HashSig(a) != c.HashSig(b) {
		t.Fatal("equal function pointers should hash alike")
	}
	std := &metadata.FnPtrSig{Sig: methodSig(metadata.ConvStdCall, prim(metadata.ElementI4), class(w.widget))}
	if c.EqualSig(a, std) {
		t.Fatal("calling conventions must match")
	}
}

func TestValueTypeFlagMatters(t *testing.T) {
	w := newWorld()
	c := New(Options{}, w.u)
	if c.EqualSig(class(w.widget), valueType(w.widget)) {
		t.Fatal("class and valuetype leaves must differ")
	}
}

func TestLocalAndInstantiationSigs(t *testing.T) {
	c := New(Options{}, nil)
	locals := &metadata.LocalSig{Locals: []metadata.TypeSig{prim(metadata.ElementI4), &metadata.PinnedSig{Next: prim(metadata.ElementString)}}}
	same := &metadata.LocalSig{Locals: []metadata.TypeSig{prim(metadata.ElementI4), &metadata.PinnedSig{Next: prim(metadata.ElementString)}}}
	if !c.EqualCallSig(locals, same) || c.HashCallSig(locals) != c.HashCallSig(same) {
		t.Fatal("expected equal local signatures with equal hashes")
	}
	inst := &metadata.GenericInstMethodSig{Args: []metadata.TypeSig{prim(metadata.ElementI4)}}
	if c.EqualCallSig(locals, inst) {
		t.Fatal("different signature kinds must differ")
	}
}
