package metadata

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTypeNotFound     = errors.New("type not found")
	ErrModuleNotFound   = errors.New("module not found")
	ErrAssemblyNotFound = errors.New("assembly not found")
	ErrForwarderCycle   = errors.New("exported type forwarder cycle")
)

// Resolver maps references and exported types to the definitions they name.
type Resolver interface {
	ResolveTypeRef(ref *TypeRef) (*TypeDef, error)
	ResolveExportedType(et *ExportedType) (*TypeDef, error)
}

// Universe is a set of loaded assemblies and standalone modules. It resolves
// references only against what has been added; it never touches disk.
type Universe struct {
	assemblies []*Assembly
	modules    []*Module
}

func NewUniverse() *Universe {
	return &Universe{}
}

// AddAssembly registers an assembly and all of its modules.
func (u *Universe) AddAssembly(a *Assembly) {
	u.assemblies = append(u.assemblies, a)
	for _, m := range a.Modules {
		m.Assembly = a
		u.modules = append(u.modules, m)
	}
}

// AddModule registers a standalone module.
func (u *Universe) AddModule(m *Module) {
	u.modules = append(u.modules, m)
}

// Assemblies returns the registered assemblies in insertion order.
func (u *Universe) Assemblies() []*Assembly { return u.assemblies }

// Modules returns every registered module in insertion order.
func (u *Universe) Modules() []*Module { return u.modules }

// Module returns the first module whose name matches case-insensitively.
func (u *Universe) Module(name string) *Module {
	for _, m := range u.modules {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// FindAssembly returns the first assembly whose simple name matches
// case-insensitively.
func (u *Universe) FindAssembly(name string) *Assembly {
	for _, a := range u.assemblies {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}

type resolveState struct {
	seen  map[Node]bool
	steps int
}

func newResolveState() *resolveState {
	return &resolveState{seen: make(map[Node]bool)}
}

// visit records n and fails when it was already on the path or the chain
// grew past maxScopeChain.
func (s *resolveState) visit(n Node) error {
	s.steps++
	if s.seen[n] || s.steps > maxScopeChain {
		return ErrForwarderCycle
	}
	s.seen[n] = true
	return nil
}

// ResolveTypeRef finds the definition a type reference names, following
// nested scopes and exported-type forwarders.
func (u *Universe) ResolveTypeRef(ref *TypeRef) (*TypeDef, error) {
	if ref == nil {
		return nil, fmt.Errorf("resolve type ref: %w", ErrTypeNotFound)
	}
	td, err := u.resolveTypeRef(ref, newResolveState())
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref.FullName(), err)
	}
	return td, nil
}

// ResolveExportedType finds the definition an exported type forwards to.
func (u *Universe) ResolveExportedType(et *ExportedType) (*TypeDef, error) {
	if et == nil {
		return nil, fmt.Errorf("resolve exported type: %w", ErrTypeNotFound)
	}
	td, err := u.resolveExported(et, newResolveState())
	if err != nil {
		return nil, fmt.Errorf("resolve exported %s: %w", et.FullName(), err)
	}
	return td, nil
}

func (u *Universe) resolveTypeRef(ref *TypeRef, st *resolveState) (*TypeDef, error) {
	if err := st.visit(ref); err != nil {
		return nil, err
	}
	switch scope := ref.ResolutionScope.(type) {
	case *TypeRef:
		if scope == nil {
			break
		}
		outer, err := u.resolveTypeRef(scope, st)
		if err != nil {
			return nil, err
		}
		if nested := outer.FindNested(ref.Name); nested != nil {
			return nested, nil
		}
		return nil, ErrTypeNotFound
	case *Module:
		if scope == nil {
			break
		}
		return u.findInModule(scope, ref.Namespace, ref.Name, st)
	case *ModuleRef:
		if scope == nil {
			break
		}
		m := u.moduleForRef(scope)
		if m == nil {
			return nil, fmt.Errorf("module %s: %w", scope.Name, ErrModuleNotFound)
		}
		return u.findInModule(m, ref.Namespace, ref.Name, st)
	case *AssemblyRef:
		if scope == nil {
			break
		}
		asm := u.FindAssembly(scope.Name)
		if asm == nil {
			return nil, fmt.Errorf("assembly %s: %w", scope.Name, ErrAssemblyNotFound)
		}
		return u.findInAssembly(asm, ref.Namespace, ref.Name, st)
	}
	// No scope: an exported type of the owning module.
	if ref.Module == nil {
		return nil, ErrTypeNotFound
	}
	return u.findInModule(ref.Module, ref.Namespace, ref.Name, st)
}

// findInModule looks at the module's own definitions, then at the exported
// types of its assembly's manifest.
func (u *Universe) findInModule(m *Module, ns, name string, st *resolveState) (*TypeDef, error) {
	if td := m.FindType(ns, name); td != nil {
		return td, nil
	}
	if et := m.FindExportedType(ns, name); et != nil {
		return u.resolveExported(et, st)
	}
	if manifest := m.Assembly.ManifestModule(); manifest != nil && manifest != m {
		if et := manifest.FindExportedType(ns, name); et != nil {
			return u.resolveExported(et, st)
		}
	}
	return nil, ErrTypeNotFound
}

func (u *Universe) findInAssembly(asm *Assembly, ns, name string, st *resolveState) (*TypeDef, error) {
	for _, m := range asm.Modules {
		if td := m.FindType(ns, name); td != nil {
			return td, nil
		}
	}
	if et := asm.ManifestModule().FindExportedType(ns, name); et != nil {
		return u.resolveExported(et, st)
	}
	return nil, ErrTypeNotFound
}

func (u *Universe) resolveExported(et *ExportedType, st *resolveState) (*TypeDef, error) {
	if err := st.visit(et); err != nil {
		return nil, err
	}
	switch impl := et.Implementation.(type) {
	case *ExportedType:
		if impl == nil {
			break
		}
		outer, err := u.resolveExported(impl, st)
		if err != nil {
			return nil, err
		}
		if nested := outer.FindNested(et.Name); nested != nil {
			return nested, nil
		}
		return nil, ErrTypeNotFound
	case *FileDef:
		if impl == nil {
			break
		}
		var m *Module
		if et.Module != nil {
			m = et.Module.Assembly.FindModule(impl.Name)
		}
		if m == nil {
			m = u.Module(impl.Name)
		}
		if m == nil {
			return nil, fmt.Errorf("file %s: %w", impl.Name, ErrModuleNotFound)
		}
		if td := m.FindType(et.Namespace, et.Name); td != nil {
			return td, nil
		}
		return nil, ErrTypeNotFound
	case *AssemblyRef:
		if impl == nil {
			break
		}
		asm := u.FindAssembly(impl.Name)
		if asm == nil {
			return nil, fmt.Errorf("assembly %s: %w", impl.Name, ErrAssemblyNotFound)
		}
		return u.findInAssembly(asm, et.Namespace, et.Name, st)
	}
	return nil, ErrTypeNotFound
}

// moduleForRef finds the module a module reference names: first among the
// modules of the referencing assembly, then anywhere in the universe.
func (u *Universe) moduleForRef(ref *ModuleRef) *Module {
	if ref.Module != nil {
		if m := ref.Module.Assembly.FindModule(ref.Name); m != nil {
			return m
		}
	}
	return u.Module(ref.Name)
}
