package identity

import "github.com/odvcencio/asmgraft/pkg/metadata"

func (c *Comparer) equalSig(a, b metadata.TypeSig) bool {
	if metadata.IsNil(a) || metadata.IsNil(b) {
		return metadata.IsNil(a) && metadata.IsNil(b)
	}
	if a == b {
		return true
	}
	if !c.guard.enter() {
		return false
	}
	defer c.guard.exit()

	if c.has(IgnoreModifiers) {
		a, b = metadata.RemoveModifiers(a), metadata.RemoveModifiers(b)
		if metadata.IsNil(a) || metadata.IsNil(b) {
			return metadata.IsNil(a) && metadata.IsNil(b)
		}
	}
	if a.ElementType() != b.ElementType() {
		return false
	}

	switch a := a.(type) {
	case *metadata.PrimitiveSig:
		_, ok := b.(*metadata.PrimitiveSig)
		return ok
	case *metadata.ClassSig:
		b, ok := b.(*metadata.ClassSig)
		return ok && c.equalTypeDefOrRefs(a.Type, b.Type)
	case *metadata.PtrSig:
		b, ok := b.(*metadata.PtrSig)
		return ok && c.equalSig(a.Next, b.Next)
	case *metadata.ByRefSig:
		b, ok := b.(*metadata.ByRefSig)
		return ok && c.equalSig(a.Next, b.Next)
	case *metadata.SZArraySig:
		b, ok := b.(*metadata.SZArraySig)
		return ok && c.equalSig(a.Next, b.Next)
	case *metadata.PinnedSig:
		b, ok := b.(*metadata.PinnedSig)
		return ok && c.equalSig(a.Next, b.Next)
	case *metadata.ArraySig:
		b, ok := b.(*metadata.ArraySig)
		return ok && a.Rank == b.Rank &&
			equalPadded(a.Sizes, b.Sizes) &&
			equalPadded(a.LowerBounds, b.LowerBounds) &&
			c.equalSig(a.Next, b.Next)
	case *metadata.ModifierSig:
		b, ok := b.(*metadata.ModifierSig)
		return ok && c.equalTypeDefOrRefs(a.Modifier, b.Modifier) && c.equalSig(a.Next, b.Next)
	case *metadata.GenericInstSig:
		b, ok := b.(*metadata.GenericInstSig)
		return ok && c.equalClassSigs(a.GenericType, b.GenericType) && equalLists(a.Args, b.Args, c.equalSig)
	case *metadata.GenericVarSig:
		b, ok := b.(*metadata.GenericVarSig)
		return ok && a.Number == b.Number
	case *metadata.FnPtrSig:
		b, ok := b.(*metadata.FnPtrSig)
		return ok && c.equalCallSig(a.Sig, b.Sig)
	}
	return false
}

func (c *Comparer) equalClassSigs(a, b *metadata.ClassSig) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ValueType == b.ValueType && c.equalTypeDefOrRefs(a.Type, b.Type)
}

// equalTypeDefOrRefs compares the type carried by a class leaf or modifier.
// In raw mode two rows of the same module compare by token alone.
func (c *Comparer) equalTypeDefOrRefs(a, b metadata.TypeDefOrRef) bool {
	if c.has(RawSignatureCompare) && !metadata.IsNil(a) && !metadata.IsNil(b) {
		am, bm := a.OwnerModule(), b.OwnerModule()
		at, bt := a.MDToken(), b.MDToken()
		if am != nil && am == bm && at != 0 && bt != 0 {
			return at == bt
		}
	}
	return c.equalType(typeDefOrRefType(a), typeDefOrRefType(b))
}

func typeDefOrRefType(t metadata.TypeDefOrRef) metadata.Type {
	if metadata.IsNil(t) {
		return nil
	}
	return t
}

// equalPadded compares two lists as if the shorter one were padded with
// zeros to the length of the longer.
func equalPadded[T uint32 | int32](a, b []T) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if at(a, i) != at(b, i) {
			return false
		}
	}
	return true
}

func at[T uint32 | int32](list []T, i int) T {
	if i < len(list) {
		return list[i]
	}
	return 0
}

// hashPadded hashes a list with its trailing zeros removed, so lists equal
// under equalPadded hash alike.
func hashPadded[T uint32 | int32](list []T) uint32 {
	n := len(list)
	for n > 0 && list[n-1] == 0 {
		n--
	}
	h := mix(hashList, uint32(n))
	for _, v := range list[:n] {
		h = mix(h, uint32(v))
	}
	return h
}

func (c *Comparer) hashSig(s metadata.TypeSig) uint32 {
	if metadata.IsNil(s) {
		return 0
	}
	if !c.guard.enter() {
		return 0
	}
	defer c.guard.exit()

	switch s := s.(type) {
	case *metadata.PrimitiveSig:
		if name, ok := metadata.CorLibTypeName(s.Kind); ok {
			return c.hashTypeName(metadata.CorLibNamespace, name)
		}
		return mix(hashElement, uint32(s.Kind))
	case *metadata.ClassSig:
		return c.hashType(typeDefOrRefType(s.Type))
	case *metadata.ModifierSig:
		return c.hashSig(s.Next)
	case *metadata.PinnedSig:
		return c.hashSig(s.Next)
	case *metadata.PtrSig:
		return mix(mix(hashElement, uint32(metadata.ElementPtr)), c.hashSig(s.Next))
	case *metadata.ByRefSig:
		return mix(mix(hashElement, uint32(metadata.ElementByRef)), c.hashSig(s.Next))
	case *metadata.SZArraySig:
		return mix(mix(hashElement, uint32(metadata.ElementSZArray)), c.hashSig(s.Next))
	case *metadata.ArraySig:
		h := mix(hashArray, s.Rank)
		h = mix(h, hashPadded(s.Sizes))
		h = mix(h, hashPadded(s.LowerBounds))
		return mix(h, c.hashSig(s.Next))
	case *metadata.GenericInstSig:
		h := hashGenericInst
		if s.GenericType != nil {
			h = mix(h, c.hashType(typeDefOrRefType(s.GenericType.Type)))
		}
		return mix(h, hashListOf(s.Args, c.hashSig))
	case *metadata.GenericVarSig:
		return mix(mix(hashGenericVar, uint32(s.ElementType())), s.Number)
	case *metadata.FnPtrSig:
		return mix(hashFnPtr, c.hashCallSig(s.Sig))
	}
	return 0
}

func (c *Comparer) equalCallSig(a, b metadata.CallingConventionSig) bool {
	if metadata.IsNil(a) || metadata.IsNil(b) {
		return metadata.IsNil(a) && metadata.IsNil(b)
	}
	if a == b {
		return true
	}
	if !c.guard.enter() {
		return false
	}
	defer c.guard.exit()

	switch a := a.(type) {
	case *metadata.MethodSig:
		if b, ok := b.(*metadata.MethodSig); ok {
			return c.equalMethodBaseSigs(&a.MethodBaseSig, &b.MethodBaseSig, 0)
		}
	case *metadata.PropertySig:
		// Some compilers omit HasThis on instance properties, so it never
		// takes part in property comparisons.
		if b, ok := b.(*metadata.PropertySig); ok {
			return c.equalMethodBaseSigs(&a.MethodBaseSig, &b.MethodBaseSig, metadata.ConvHasThis)
		}
	case *metadata.FieldSig:
		if b, ok := b.(*metadata.FieldSig); ok {
			return c.equalSig(a.Type, b.Type)
		}
	case *metadata.LocalSig:
		if b, ok := b.(*metadata.LocalSig); ok {
			return equalLists(a.Locals, b.Locals, c.equalSig)
		}
	case *metadata.GenericInstMethodSig:
		if b, ok := b.(*metadata.GenericInstMethodSig); ok {
			return equalLists(a.Args, b.Args, c.equalSig)
		}
	}
	return false
}

func (c *Comparer) equalMethodBaseSigs(a, b *metadata.MethodBaseSig, mask metadata.CallingConvention) bool {
	if a.CallingConvention&^mask != b.CallingConvention&^mask {
		return false
	}
	if !c.has(DontCompareReturnType) && !c.equalSig(a.RetType, b.RetType) {
		return false
	}
	if !equalLists(a.Params, b.Params, c.equalSig) {
		return false
	}
	if a.IsGeneric() && a.GenParamCount != b.GenParamCount {
		return false
	}
	if c.has(CompareSentinelParams) && !equalLists(a.ParamsAfterSentinel, b.ParamsAfterSentinel, c.equalSig) {
		return false
	}
	return true
}

func (c *Comparer) hashCallSig(s metadata.CallingConventionSig) uint32 {
	if metadata.IsNil(s) {
		return 0
	}
	if !c.guard.enter() {
		return 0
	}
	defer c.guard.exit()

	switch s := s.(type) {
	case *metadata.MethodSig:
		return c.hashMethodBaseSig(hashMethodSig, &s.MethodBaseSig, 0)
	case *metadata.PropertySig:
		return c.hashMethodBaseSig(hashPropertySig, &s.MethodBaseSig, metadata.ConvHasThis)
	case *metadata.FieldSig:
		return mix(hashFieldSig, c.hashSig(s.Type))
	case *metadata.LocalSig:
		return mix(hashLocalSig, hashListOf(s.Locals, c.hashSig))
	case *metadata.GenericInstMethodSig:
		return mix(hashInstMethod, hashListOf(s.Args, c.hashSig))
	}
	return 0
}

func (c *Comparer) hashMethodBaseSig(seed uint32, s *metadata.MethodBaseSig, mask metadata.CallingConvention) uint32 {
	h := mix(seed, uint32(s.CallingConvention&^mask))
	if !c.has(DontCompareReturnType) {
		h = mix(h, c.hashSig(s.RetType))
	}
	h = mix(h, hashListOf(s.Params, c.hashSig))
	if s.IsGeneric() {
		h = mix(h, s.GenParamCount)
	}
	if c.has(CompareSentinelParams) {
		h = mix(h, hashListOf(s.ParamsAfterSentinel, c.hashSig))
	}
	return h
}
