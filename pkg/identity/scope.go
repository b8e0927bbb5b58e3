package identity

import (
	"strings"

	"github.com/odvcencio/asmgraft/pkg/metadata"
)

// isSourceOrTarget reports whether m is, or has the full identity of, one of
// the two modules of the active import.
func (c *Comparer) isSourceOrTarget(m *metadata.Module) bool {
	if m == nil {
		return false
	}
	return sameModule(m, c.source) || sameModule(m, c.target)
}

func sameModule(a, b *metadata.Module) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return strings.EqualFold(a.Name, b.Name) && sameAssembly(a.Assembly, b.Assembly)
}

func sameAssembly(a, b *metadata.Assembly) bool {
	if a == nil || b == nil {
		return a == b
	}
	return metadata.SameIdentity(&a.AssemblyName, &b.AssemblyName)
}

func (c *Comparer) isSourceOrTargetScope(ms metadata.ModuleScope) bool {
	switch m := ms.(type) {
	case *metadata.Module:
		return c.isSourceOrTarget(m)
	case *metadata.ModuleRef:
		if m == nil || m.Module == nil {
			return false
		}
		for _, st := range [...]*metadata.Module{c.source, c.target} {
			if st != nil && strings.EqualFold(m.Name, st.Name) && sameAssembly(m.Module.Assembly, st.Assembly) {
				return true
			}
		}
	}
	return false
}

func (c *Comparer) isSourceOrTargetAssembly(a metadata.AssemblyScope) bool {
	if metadata.IsNil(a) {
		return false
	}
	id := a.Identity()
	for _, st := range [...]*metadata.Module{c.source, c.target} {
		if st != nil && st.Assembly != nil && metadata.SameIdentity(id, &st.Assembly.AssemblyName) {
			return true
		}
	}
	return false
}

func isCoreLibraryScope(ms metadata.ModuleScope) bool {
	switch m := ms.(type) {
	case *metadata.Module:
		return m.IsCoreLibrary()
	case *metadata.ModuleRef:
		return m.IsCoreLibrary()
	}
	return false
}

// moduleScopeAssembly returns the assembly a module identity belongs to. A
// module reference names a module of the referencing module's assembly.
func moduleScopeAssembly(ms metadata.ModuleScope) metadata.AssemblyScope {
	switch m := ms.(type) {
	case *metadata.Module:
		return metadata.AssemblyOf(m)
	case *metadata.ModuleRef:
		if m != nil {
			return metadata.AssemblyOf(m.Module)
		}
	}
	return nil
}

func (c *Comparer) equalModuleScopes(a, b metadata.ModuleScope) bool {
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

	if !c.has(CoreLibraryIsNotSpecial) && isCoreLibraryScope(a) && isCoreLibraryScope(b) {
		return true
	}
	if c.isSourceOrTargetScope(a) && c.isSourceOrTargetScope(b) {
		return true
	}
	if !strings.EqualFold(a.ModuleName(), b.ModuleName()) {
		return false
	}
	return c.equalAssembliesOrBothNil(moduleScopeAssembly(a), moduleScopeAssembly(b))
}

// equalAssembliesOrBothNil treats two standalone modules as living in the
// same (absent) assembly.
func (c *Comparer) equalAssembliesOrBothNil(a, b metadata.AssemblyScope) bool {
	if metadata.IsNil(a) && metadata.IsNil(b) {
		return true
	}
	return c.equalAssemblies(a, b)
}

func (c *Comparer) equalAssemblies(a, b metadata.AssemblyScope) bool {
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

	if c.isSourceOrTargetAssembly(a) && c.isSourceOrTargetAssembly(b) {
		return true
	}
	ai, bi := a.Identity(), b.Identity()
	if !c.has(CoreLibraryIsNotSpecial) && ai.IsCoreLibrary() && bi.IsCoreLibrary() {
		return true
	}
	if !strings.EqualFold(ai.Name, bi.Name) {
		return false
	}
	if c.has(CompareAssemblyPublicKeyToken) && !metadata.TokensEqual(ai.PublicKey, bi.PublicKey) {
		return false
	}
	if c.has(CompareAssemblyVersion) && ai.Version != bi.Version {
		return false
	}
	if c.has(CompareAssemblyLocale) && metadata.CanonicalCulture(ai.Culture) != metadata.CanonicalCulture(bi.Culture) {
		return false
	}
	return true
}

// sameAssemblyName compares simple names only; two absent assemblies match.
func sameAssemblyName(a, b metadata.AssemblyScope) bool {
	if metadata.IsNil(a) || metadata.IsNil(b) {
		return metadata.IsNil(a) && metadata.IsNil(b)
	}
	return strings.EqualFold(a.Identity().Name, b.Identity().Name)
}

// exportedAssembly returns the assembly an exported type forwards into:
// its assembly reference, or the exporting assembly for file and nested
// implementations.
func exportedAssembly(e *metadata.ExportedType) metadata.AssemblyScope {
	for depth := 0; e != nil && depth < maxChain; depth++ {
		switch impl := e.Implementation.(type) {
		case *metadata.ExportedType:
			if impl != nil {
				e = impl
				continue
			}
		case *metadata.AssemblyRef:
			if impl != nil {
				return impl
			}
		}
		return metadata.AssemblyOf(e.Module)
	}
	return nil
}

// maxChain bounds walks over nesting chains of malformed metadata.
const maxChain = 64

// resolveTypeRef resolves r through the resolver. crossed is set when the
// definition lives in an assembly other than the one r names, i.e. r went
// through a forwarder.
func (c *Comparer) resolveTypeRef(r *metadata.TypeRef) (td *metadata.TypeDef, crossed bool) {
	if c.resolver == nil || r == nil {
		return nil, false
	}
	td, err := c.resolver.ResolveTypeRef(r)
	if err != nil || td == nil {
		return nil, false
	}
	return td, !sameAssemblyName(metadata.AssemblyOf(td.Module), r.DefinitionAssembly())
}

func (c *Comparer) resolveExportedType(e *metadata.ExportedType) (td *metadata.TypeDef, crossed bool) {
	if c.resolver == nil || e == nil {
		return nil, false
	}
	td, err := c.resolver.ResolveExportedType(e)
	if err != nil || td == nil {
		return nil, false
	}
	return td, !sameAssemblyName(metadata.AssemblyOf(td.Module), exportedAssembly(e))
}
