package identity

import "github.com/odvcencio/asmgraft/pkg/metadata"

// typeRank orders type representations so each unordered pair is handled by
// exactly one rule: definition, reference, specialization, signature,
// exported type.
func typeRank(t metadata.Type) int {
	switch t.(type) {
	case *metadata.TypeDef:
		return 0
	case *metadata.TypeRef:
		return 1
	case *metadata.TypeSpec:
		return 2
	case metadata.TypeSig:
		return 3
	case *metadata.ExportedType:
		return 4
	}
	return 5
}

func (c *Comparer) equalType(a, b metadata.Type) bool {
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

	if typeRank(a) > typeRank(b) {
		a, b = b, a
	}
	switch a := a.(type) {
	case *metadata.TypeDef:
		switch b := b.(type) {
		case *metadata.TypeDef:
			return c.equalTypeDefs(a, b)
		case *metadata.TypeRef:
			return c.equalTypeDefRef(a, b)
		case *metadata.TypeSpec:
			return c.equalType(a, b.Sig)
		case metadata.TypeSig:
			return c.equalTypeToSig(a, b)
		case *metadata.ExportedType:
			return c.equalTypeDefExported(a, b)
		}
	case *metadata.TypeRef:
		switch b := b.(type) {
		case *metadata.TypeRef:
			return c.equalTypeRefs(a, b)
		case *metadata.TypeSpec:
			return c.equalType(a, b.Sig)
		case metadata.TypeSig:
			return c.equalTypeToSig(a, b)
		case *metadata.ExportedType:
			return c.equalTypeRefExported(a, b)
		}
	case *metadata.TypeSpec:
		switch b := b.(type) {
		case *metadata.TypeSpec:
			return c.equalSig(a.Sig, b.Sig)
		case metadata.TypeSig:
			return c.equalSig(a.Sig, b)
		case *metadata.ExportedType:
			return c.equalType(a.Sig, b)
		}
	case metadata.TypeSig:
		switch b := b.(type) {
		case metadata.TypeSig:
			return c.equalSig(a, b)
		case *metadata.ExportedType:
			return c.equalTypeToSig(b, a)
		}
	case *metadata.ExportedType:
		if b, ok := b.(*metadata.ExportedType); ok {
			return c.equalExportedTypes(a, b)
		}
	}
	return false
}

// equalTypeToSig compares a named type with a signature node. Modifier and
// pinned wrappers are transparent, a class or value-type leaf stands for its
// type, and a primitive leaf stands for the core library type it abbreviates.
func (c *Comparer) equalTypeToSig(t metadata.Type, s metadata.TypeSig) bool {
	switch s := s.(type) {
	case *metadata.ClassSig:
		return c.equalType(t, s.Type)
	case *metadata.ModifierSig:
		return c.equalType(t, s.Next)
	case *metadata.PinnedSig:
		return c.equalType(t, s.Next)
	case *metadata.PrimitiveSig:
		return c.isCorLibType(t, s.Kind)
	}
	return false
}

func (c *Comparer) isCorLibType(t metadata.Type, kind metadata.ElementType) bool {
	name, ok := metadata.CorLibTypeName(kind)
	if !ok {
		return false
	}
	switch t := t.(type) {
	case *metadata.TypeDef:
		return t.DeclaringType == nil &&
			c.equalTypeNames(t.Namespace, t.Name, metadata.CorLibNamespace, name) &&
			(c.has(DontCompareTypeScope) || t.Module.IsCoreLibrary())
	case *metadata.TypeRef:
		return t.DeclaringType() == nil &&
			c.equalTypeNames(t.Namespace, t.Name, metadata.CorLibNamespace, name) &&
			(c.has(DontCompareTypeScope) || isCoreLibraryAssembly(t.DefinitionAssembly()))
	case *metadata.ExportedType:
		return t.DeclaringType() == nil &&
			c.equalTypeNames(t.Namespace, t.Name, metadata.CorLibNamespace, name) &&
			(c.has(DontCompareTypeScope) || isCoreLibraryAssembly(exportedAssembly(t)))
	}
	return false
}

func isCoreLibraryAssembly(a metadata.AssemblyScope) bool {
	return !metadata.IsNil(a) && a.Identity().IsCoreLibrary()
}

func (c *Comparer) equalTypeNames(ans, aname, bns, bname string) bool {
	return equalNames(aname, bname, c.has(CaseInsensitiveTypeNames)) &&
		equalNames(ans, bns, c.has(CaseInsensitiveTypeNamespaces))
}

// equalDeclaringTypes compares two optional enclosing types.
func (c *Comparer) equalDeclaringTypes(a, b metadata.Type) bool {
	if metadata.IsNil(a) || metadata.IsNil(b) {
		return metadata.IsNil(a) && metadata.IsNil(b)
	}
	return c.equalType(a, b)
}

func (c *Comparer) equalTypeDefs(a, b *metadata.TypeDef) bool {
	if !c.equalTypeNames(a.Namespace, a.Name, b.Namespace, b.Name) {
		return false
	}
	if !c.equalDeclaringTypes(typeOrNil(a.DeclaringType), typeOrNil(b.DeclaringType)) {
		return false
	}
	if c.has(DontCompareTypeScope) {
		return true
	}
	return c.equalModuleScopes(moduleOrNil(a.Module), moduleOrNil(b.Module))
}

func (c *Comparer) equalTypeDefRef(d *metadata.TypeDef, r *metadata.TypeRef) bool {
	if !c.equalTypeNames(d.Namespace, d.Name, r.Namespace, r.Name) {
		return false
	}
	ok := false
	if outer := r.DeclaringType(); outer != nil {
		ok = d.DeclaringType != nil && c.equalType(d.DeclaringType, outer)
	} else if d.DeclaringType != nil {
		return false
	} else if c.has(DontCompareTypeScope) {
		ok = true
	} else {
		ok = c.equalDefScope(d, r)
	}
	if ok && d.IsGlobalModuleType() && !c.has(TypeRefCanReferenceGlobalType) {
		return false
	}
	return ok
}

// equalDefScope compares the module of a top-level definition with the
// resolution scope of a top-level reference. When the scopes do not match
// directly, the reference may still reach the definition through a
// forwarder into another assembly.
func (c *Comparer) equalDefScope(d *metadata.TypeDef, r *metadata.TypeRef) bool {
	var ok bool
	switch scope := refScope(r).(type) {
	case *metadata.Module:
		ok = c.equalModuleScopes(moduleOrNil(d.Module), scope)
	case *metadata.ModuleRef:
		ok = c.equalModuleScopes(moduleOrNil(d.Module), scope)
	case *metadata.AssemblyRef:
		ok = c.equalAssembliesOrBothNil(metadata.AssemblyOf(d.Module), scope)
	}
	if ok {
		return true
	}
	td, crossed := c.resolveTypeRef(r)
	if td == nil || !crossed {
		return false
	}
	return td == d || c.equalModuleScopes(moduleOrNil(d.Module), moduleOrNil(td.Module))
}

// refScope returns the resolution scope of r, treating a missing scope as
// the module that owns r.
func refScope(r *metadata.TypeRef) metadata.ResolutionScope {
	if metadata.IsNil(r.ResolutionScope) {
		if r.Module == nil {
			return nil
		}
		return r.Module
	}
	return r.ResolutionScope
}

func (c *Comparer) equalTypeRefs(a, b *metadata.TypeRef) bool {
	if !c.equalTypeNames(a.Namespace, a.Name, b.Namespace, b.Name) {
		return false
	}
	ao, bo := a.DeclaringType(), b.DeclaringType()
	if ao != nil || bo != nil {
		return ao != nil && bo != nil && c.equalType(ao, bo)
	}
	if c.has(DontCompareTypeScope) {
		return true
	}
	if c.equalResolutionScopes(refScope(a), refScope(b)) {
		return true
	}
	ta, fa := c.resolveTypeRef(a)
	tb, fb := c.resolveTypeRef(b)
	if ta == nil || tb == nil || !(fa || fb) {
		return false
	}
	return ta == tb || c.equalTypeDefs(ta, tb)
}

// equalResolutionScopes compares the scopes of two top-level references.
func (c *Comparer) equalResolutionScopes(a, b metadata.ResolutionScope) bool {
	if metadata.IsNil(a) || metadata.IsNil(b) {
		return metadata.IsNil(a) && metadata.IsNil(b)
	}
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *metadata.Module:
		return c.equalModuleToScope(a, b)
	case *metadata.ModuleRef:
		return c.equalModuleToScope(a, b)
	case *metadata.AssemblyRef:
		if ms, ok := b.(metadata.ModuleScope); ok {
			return c.equalAssembliesOrBothNil(moduleScopeAssembly(ms), a)
		}
		if br, ok := b.(*metadata.AssemblyRef); ok {
			return c.equalAssemblies(a, br)
		}
	}
	return false
}

func (c *Comparer) equalModuleToScope(a metadata.ModuleScope, b metadata.ResolutionScope) bool {
	switch b := b.(type) {
	case *metadata.Module:
		return c.equalModuleScopes(a, b)
	case *metadata.ModuleRef:
		return c.equalModuleScopes(a, b)
	case *metadata.AssemblyRef:
		return c.equalAssembliesOrBothNil(moduleScopeAssembly(a), b)
	}
	return false
}

func (c *Comparer) equalTypeDefExported(d *metadata.TypeDef, e *metadata.ExportedType) bool {
	if !c.equalTypeNames(d.Namespace, d.Name, e.Namespace, e.Name) {
		return false
	}
	ok := false
	if outer := e.DeclaringType(); outer != nil {
		ok = d.DeclaringType != nil && c.equalType(d.DeclaringType, outer)
	} else if d.DeclaringType != nil {
		return false
	} else if c.has(DontCompareTypeScope) {
		ok = true
	} else {
		ok = c.equalDefExportedScope(d, e)
	}
	if ok && d.IsGlobalModuleType() && !c.has(TypeRefCanReferenceGlobalType) {
		return false
	}
	return ok
}

func (c *Comparer) equalDefExportedScope(d *metadata.TypeDef, e *metadata.ExportedType) bool {
	var ok bool
	switch impl := e.Implementation.(type) {
	case *metadata.FileDef:
		ok = impl != nil && c.equalModuleToFile(moduleOrNil(d.Module), impl)
	default:
		ok = c.equalAssembliesOrBothNil(metadata.AssemblyOf(d.Module), exportedAssembly(e))
	}
	if ok {
		return true
	}
	td, crossed := c.resolveExportedType(e)
	if td == nil || !crossed {
		return false
	}
	return td == d || c.equalModuleScopes(moduleOrNil(d.Module), moduleOrNil(td.Module))
}

// equalModuleToFile compares a module identity with a file of an assembly.
func (c *Comparer) equalModuleToFile(ms metadata.ModuleScope, f *metadata.FileDef) bool {
	if metadata.IsNil(ms) {
		return false
	}
	if c.isSourceOrTargetScope(ms) && c.isSourceOrTarget(fileModule(f)) {
		return true
	}
	return equalNames(ms.ModuleName(), f.Name, true) &&
		c.equalAssembliesOrBothNil(moduleScopeAssembly(ms), metadata.AssemblyOf(f.Module))
}

// fileModule returns a stand-in module for a file row so the source/target
// checks can run on it: same name, same assembly as the declaring module.
func fileModule(f *metadata.FileDef) *metadata.Module {
	if f == nil || f.Module == nil {
		return nil
	}
	return &metadata.Module{Name: f.Name, Assembly: f.Module.Assembly}
}

func (c *Comparer) equalTypeRefExported(r *metadata.TypeRef, e *metadata.ExportedType) bool {
	if !c.equalTypeNames(r.Namespace, r.Name, e.Namespace, e.Name) {
		return false
	}
	ro, eo := r.DeclaringType(), e.DeclaringType()
	if ro != nil || eo != nil {
		return ro != nil && eo != nil && c.equalType(ro, eo)
	}
	if c.has(DontCompareTypeScope) {
		return true
	}
	var ok bool
	if f, isFile := e.Implementation.(*metadata.FileDef); isFile && f != nil {
		if ms, isModule := refScope(r).(metadata.ModuleScope); isModule {
			ok = c.equalModuleToFile(ms, f)
		} else {
			ok = c.equalAssembliesOrBothNil(r.DefinitionAssembly(), exportedAssembly(e))
		}
	} else {
		ok = c.equalAssembliesOrBothNil(r.DefinitionAssembly(), exportedAssembly(e))
	}
	if ok {
		return true
	}
	ta, fa := c.resolveTypeRef(r)
	tb, fb := c.resolveExportedType(e)
	if ta == nil || tb == nil || !(fa || fb) {
		return false
	}
	return ta == tb || c.equalTypeDefs(ta, tb)
}

func (c *Comparer) equalExportedTypes(a, b *metadata.ExportedType) bool {
	if !c.equalTypeNames(a.Namespace, a.Name, b.Namespace, b.Name) {
		return false
	}
	ao, bo := a.DeclaringType(), b.DeclaringType()
	if ao != nil || bo != nil {
		return ao != nil && bo != nil && c.equalType(ao, bo)
	}
	if c.has(DontCompareTypeScope) {
		return true
	}
	var ok bool
	fa, aFile := a.Implementation.(*metadata.FileDef)
	fb, bFile := b.Implementation.(*metadata.FileDef)
	if aFile && bFile && fa != nil && fb != nil {
		ok = equalNames(fa.Name, fb.Name, true) &&
			c.equalAssembliesOrBothNil(metadata.AssemblyOf(fa.Module), metadata.AssemblyOf(fb.Module))
	} else {
		ok = c.equalAssembliesOrBothNil(exportedAssembly(a), exportedAssembly(b))
	}
	if ok {
		return true
	}
	ta, xa := c.resolveExportedType(a)
	tb, xb := c.resolveExportedType(b)
	if ta == nil || tb == nil || !(xa || xb) {
		return false
	}
	return ta == tb || c.equalTypeDefs(ta, tb)
}

// typeOrNil and moduleOrNil keep typed nil pointers out of interfaces.
func typeOrNil(t *metadata.TypeDef) metadata.Type {
	if t == nil {
		return nil
	}
	return t
}

func moduleOrNil(m *metadata.Module) metadata.ModuleScope {
	if m == nil {
		return nil
	}
	return m
}

func (c *Comparer) hashType(t metadata.Type) uint32 {
	if metadata.IsNil(t) {
		return 0
	}
	if !c.guard.enter() {
		return 0
	}
	defer c.guard.exit()

	switch t := t.(type) {
	case *metadata.TypeDef:
		if t.DeclaringType == nil && c.isGlobalName(t.Namespace, t.Name) {
			return hashGlobalType
		}
		return c.hashNamedType(t.Namespace, t.Name, typeOrNil(t.DeclaringType))
	case *metadata.TypeRef:
		outer := t.DeclaringType()
		if outer == nil && c.isGlobalName(t.Namespace, t.Name) {
			return hashGlobalType
		}
		return c.hashNamedType(t.Namespace, t.Name, outer)
	case *metadata.ExportedType:
		outer := t.DeclaringType()
		if outer == nil && c.isGlobalName(t.Namespace, t.Name) {
			return hashGlobalType
		}
		return c.hashNamedType(t.Namespace, t.Name, outer)
	case *metadata.TypeSpec:
		return c.hashSig(t.Sig)
	case metadata.TypeSig:
		return c.hashSig(t)
	}
	return 0
}

// isGlobalName reports whether a top-level name hashes as <Module>. It folds
// case under the same flag equality uses for type names.
func (c *Comparer) isGlobalName(ns, name string) bool {
	return ns == "" && equalNames(name, metadata.GlobalTypeName, c.has(CaseInsensitiveTypeNames))
}

// hashNamedType hashes a definition, reference or exported type by name and
// enclosing type; declaring may hold a typed nil. Scope is left out: which scopes match depends on the
// source/target pair and the core library rules.
func (c *Comparer) hashNamedType(ns, name string, declaring metadata.Type) uint32 {
	h := c.hashTypeName(ns, name)
	if !metadata.IsNil(declaring) {
		h = mix(h, c.hashType(declaring))
	}
	return h
}

func (c *Comparer) hashTypeName(ns, name string) uint32 {
	h := mix(hashTypeName, hashName(ns, c.has(CaseInsensitiveTypeNamespaces)))
	return mix(h, hashName(name, c.has(CaseInsensitiveTypeNames)))
}
