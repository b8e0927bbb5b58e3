package identity

import "github.com/odvcencio/asmgraft/pkg/metadata"

func memberRank(m metadata.Member) int {
	switch m.(type) {
	case *metadata.MethodDef:
		return 0
	case *metadata.MemberRef:
		return 1
	case *metadata.MethodSpec:
		return 2
	case *metadata.FieldDef:
		return 3
	case *metadata.PropertyDef:
		return 4
	case *metadata.EventDef:
		return 5
	}
	return 6
}

func (c *Comparer) equalMember(a, b metadata.Member) bool {
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

	if memberRank(a) > memberRank(b) {
		a, b = b, a
	}
	switch a := a.(type) {
	case *metadata.MethodDef:
		switch b := b.(type) {
		case *metadata.MethodDef:
			return c.equalMethodDefs(a, b)
		case *metadata.MemberRef:
			return c.equalMethodDefRef(a, b)
		}
	case *metadata.MemberRef:
		switch b := b.(type) {
		case *metadata.MemberRef:
			return c.equalMemberRefs(a, b)
		case *metadata.FieldDef:
			return c.equalFieldDefRef(b, a)
		}
	case *metadata.MethodSpec:
		if b, ok := b.(*metadata.MethodSpec); ok {
			return c.equalMethodSpecs(a, b)
		}
	case *metadata.FieldDef:
		if b, ok := b.(*metadata.FieldDef); ok {
			return c.equalFieldDefs(a, b)
		}
	case *metadata.PropertyDef:
		if b, ok := b.(*metadata.PropertyDef); ok {
			return c.equalPropertyDefs(a, b)
		}
	case *metadata.EventDef:
		if b, ok := b.(*metadata.EventDef); ok {
			return c.equalEventDefs(a, b)
		}
	}
	return false
}

func (c *Comparer) methodComparable(m *metadata.MethodDef) bool {
	return !m.IsPrivateScope() || c.has(PrivateScopeMethodIsComparable)
}

func (c *Comparer) fieldComparable(f *metadata.FieldDef) bool {
	return !f.IsPrivateScope() || c.has(PrivateScopeFieldIsComparable)
}

func (c *Comparer) equalMethodDefs(a, b *metadata.MethodDef) bool {
	if !c.methodComparable(a) || !c.methodComparable(b) {
		return false
	}
	return equalNames(a.Name, b.Name, c.has(CaseInsensitiveMethodFieldNames)) &&
		c.equalCallSig(methodSigOrNil(a.Signature), methodSigOrNil(b.Signature)) &&
		(!c.has(CompareMethodFieldDeclaringType) || c.equalDeclaringTypes(typeOrNil(a.DeclaringType), typeOrNil(b.DeclaringType)))
}

func (c *Comparer) equalMethodDefRef(d *metadata.MethodDef, r *metadata.MemberRef) bool {
	if !c.methodComparable(d) {
		return false
	}
	return equalNames(d.Name, r.Name, c.has(CaseInsensitiveMethodFieldNames)) &&
		c.equalCallSig(methodSigOrNil(d.Signature), r.Signature) &&
		(!c.has(CompareMethodFieldDeclaringType) || c.equalParents(typeParent(d.DeclaringType), r.Class))
}

func (c *Comparer) equalFieldDefs(a, b *metadata.FieldDef) bool {
	if !c.fieldComparable(a) || !c.fieldComparable(b) {
		return false
	}
	return equalNames(a.Name, b.Name, c.has(CaseInsensitiveMethodFieldNames)) &&
		c.equalCallSig(fieldSigOrNil(a.Signature), fieldSigOrNil(b.Signature)) &&
		(!c.has(CompareMethodFieldDeclaringType) || c.equalDeclaringTypes(typeOrNil(a.DeclaringType), typeOrNil(b.DeclaringType)))
}

func (c *Comparer) equalFieldDefRef(d *metadata.FieldDef, r *metadata.MemberRef) bool {
	if !c.fieldComparable(d) {
		return false
	}
	return equalNames(d.Name, r.Name, c.has(CaseInsensitiveMethodFieldNames)) &&
		c.equalCallSig(fieldSigOrNil(d.Signature), r.Signature) &&
		(!c.has(CompareMethodFieldDeclaringType) || c.equalParents(typeParent(d.DeclaringType), r.Class))
}

// equalMemberRefs compares two member references. Method and field
// references are told apart by their signatures.
func (c *Comparer) equalMemberRefs(a, b *metadata.MemberRef) bool {
	return equalNames(a.Name, b.Name, c.has(CaseInsensitiveMethodFieldNames)) &&
		c.equalCallSig(a.Signature, b.Signature) &&
		(!c.has(CompareMethodFieldDeclaringType) || c.equalParents(a.Class, b.Class))
}

func (c *Comparer) equalMethodSpecs(a, b *metadata.MethodSpec) bool {
	return c.equalMember(methodOrNil(a.Method), methodOrNil(b.Method)) &&
		c.equalCallSig(instSigOrNil(a.Instantiation), instSigOrNil(b.Instantiation))
}

func (c *Comparer) equalPropertyDefs(a, b *metadata.PropertyDef) bool {
	return equalNames(a.Name, b.Name, c.has(CaseInsensitivePropertyNames)) &&
		c.equalCallSig(propertySigOrNil(a.Signature), propertySigOrNil(b.Signature)) &&
		(!c.has(ComparePropertyDeclaringType) || c.equalDeclaringTypes(typeOrNil(a.DeclaringType), typeOrNil(b.DeclaringType)))
}

func (c *Comparer) equalEventDefs(a, b *metadata.EventDef) bool {
	return equalNames(a.Name, b.Name, c.has(CaseInsensitiveEventNames)) &&
		c.equalType(typeDefOrRefType(a.EventType), typeDefOrRefType(b.EventType)) &&
		(!c.has(CompareEventDeclaringType) || c.equalDeclaringTypes(typeOrNil(a.DeclaringType), typeOrNil(b.DeclaringType)))
}

// normalizeParent maps a vararg call site's parent method onto the method's
// declaring type. Other parents are returned as is.
func normalizeParent(p metadata.MemberRefParent) metadata.MemberRefParent {
	if m, ok := p.(*metadata.MethodDef); ok {
		if m == nil {
			return nil
		}
		return typeParent(m.DeclaringType)
	}
	if metadata.IsNil(p) {
		return nil
	}
	return p
}

func typeParent(t *metadata.TypeDef) metadata.MemberRefParent {
	if t == nil {
		return nil
	}
	return t
}

// equalParents compares the owners of two members. A module reference
// stands for the global type of that module.
func (c *Comparer) equalParents(a, b metadata.MemberRefParent) bool {
	a, b = normalizeParent(a), normalizeParent(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	am, aIsModule := a.(*metadata.ModuleRef)
	bm, bIsModule := b.(*metadata.ModuleRef)
	switch {
	case aIsModule && bIsModule:
		return c.equalModuleScopes(am, bm)
	case aIsModule:
		return c.equalGlobalParent(am, b)
	case bIsModule:
		return c.equalGlobalParent(bm, a)
	}
	at, aok := a.(metadata.Type)
	bt, bok := b.(metadata.Type)
	return aok && bok && c.equalType(at, bt)
}

func (c *Comparer) equalGlobalParent(m *metadata.ModuleRef, p metadata.MemberRefParent) bool {
	td, ok := p.(*metadata.TypeDef)
	return ok && td.IsGlobalModuleType() && c.equalModuleScopes(m, moduleOrNil(td.Module))
}

func methodSigOrNil(s *metadata.MethodSig) metadata.CallingConventionSig {
	if s == nil {
		return nil
	}
	return s
}

func fieldSigOrNil(s *metadata.FieldSig) metadata.CallingConventionSig {
	if s == nil {
		return nil
	}
	return s
}

func propertySigOrNil(s *metadata.PropertySig) metadata.CallingConventionSig {
	if s == nil {
		return nil
	}
	return s
}

func instSigOrNil(s *metadata.GenericInstMethodSig) metadata.CallingConventionSig {
	if s == nil {
		return nil
	}
	return s
}

func methodOrNil(m metadata.MethodDefOrRef) metadata.Member {
	if metadata.IsNil(m) {
		return nil
	}
	return m
}

func (c *Comparer) hashMember(m metadata.Member) uint32 {
	if metadata.IsNil(m) {
		return 0
	}
	if !c.guard.enter() {
		return 0
	}
	defer c.guard.exit()

	switch m := m.(type) {
	case *metadata.MethodDef:
		return c.hashMethodOrField(m.Name, methodSigOrNil(m.Signature), typeParent(m.DeclaringType))
	case *metadata.FieldDef:
		return c.hashMethodOrField(m.Name, fieldSigOrNil(m.Signature), typeParent(m.DeclaringType))
	case *metadata.MemberRef:
		return c.hashMethodOrField(m.Name, m.Signature, m.Class)
	case *metadata.MethodSpec:
		h := mix(hashMethodSpec, c.hashMember(methodOrNil(m.Method)))
		return mix(h, c.hashCallSig(instSigOrNil(m.Instantiation)))
	case *metadata.PropertyDef:
		h := mix(hashMember, hashName(m.Name, c.has(CaseInsensitivePropertyNames)))
		h = mix(h, c.hashCallSig(propertySigOrNil(m.Signature)))
		if c.has(ComparePropertyDeclaringType) {
			h = mix(h, c.hashType(typeOrNil(m.DeclaringType)))
		}
		return h
	case *metadata.EventDef:
		h := mix(hashEvent, hashName(m.Name, c.has(CaseInsensitiveEventNames)))
		h = mix(h, c.hashType(typeDefOrRefType(m.EventType)))
		if c.has(CompareEventDeclaringType) {
			h = mix(h, c.hashType(typeOrNil(m.DeclaringType)))
		}
		return h
	}
	return 0
}

// hashMethodOrField is shared by definitions and references so that a
// definition and a reference to it hash alike.
func (c *Comparer) hashMethodOrField(name string, sig metadata.CallingConventionSig, parent metadata.MemberRefParent) uint32 {
	h := mix(hashMember, hashName(name, c.has(CaseInsensitiveMethodFieldNames)))
	h = mix(h, c.hashCallSig(sig))
	if c.has(CompareMethodFieldDeclaringType) {
		h = mix(h, c.hashParent(parent))
	}
	return h
}

func (c *Comparer) hashParent(p metadata.MemberRefParent) uint32 {
	p = normalizeParent(p)
	switch p := p.(type) {
	case *metadata.ModuleRef:
		return hashGlobalType
	case metadata.Type:
		return c.hashType(p)
	}
	return 0
}
