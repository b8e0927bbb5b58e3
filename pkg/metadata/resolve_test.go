package metadata

import (
	"errors"
	"testing"
)

type testWorld struct {
	u       *Universe
	app     *Module
	facade  *Module
	impl    *Module
	widget  *TypeDef
	nested  *TypeDef
	libRef  *AssemblyRef
	implRef *AssemblyRef
}

// newTestWorld builds App -> Facade (forwards Widget) -> Impl (declares
// Widget and Widget/Part).
func newTestWorld() *testWorld {
	w := &testWorld{u: NewUniverse()}

	w.impl = &Module{Name: "Impl.dll"}
	w.widget = &TypeDef{Namespace: "Lib", Name: "Widget", Module: w.impl}
	w.nested = &TypeDef{Name: "Part", DeclaringType: w.widget, Module: w.impl}
	w.widget.NestedTypes = []*TypeDef{w.nested}
	w.impl.Types = []*TypeDef{{Name: GlobalTypeName, Module: w.impl}, w.widget, w.nested}
	w.u.AddAssembly(&Assembly{AssemblyName: AssemblyName{Name: "Impl"}, Modules: []*Module{w.impl}})

	w.facade = &Module{Name: "Facade.dll"}
	w.implRef = &AssemblyRef{AssemblyName: AssemblyName{Name: "Impl"}, Module: w.facade}
	w.facade.AssemblyRefs = []*AssemblyRef{w.implRef}
	fwd := &ExportedType{Namespace: "Lib", Name: "Widget", Implementation: w.implRef, Module: w.facade}
	w.facade.ExportedTypes = []*ExportedType{fwd}
	w.u.AddAssembly(&Assembly{AssemblyName: AssemblyName{Name: "Facade"}, Modules: []*Module{w.facade}})

	w.app = &Module{Name: "App.dll"}
	w.libRef = &AssemblyRef{AssemblyName: AssemblyName{Name: "Facade"}, Module: w.app}
	w.app.AssemblyRefs = []*AssemblyRef{w.libRef}
	w.u.AddAssembly(&Assembly{AssemblyName: AssemblyName{Name: "App"}, Modules: []*Module{w.app}})
	return w
}

func TestResolveThroughForwarder(t *testing.T) {
	w := newTestWorld()
	ref := &TypeRef{Namespace: "Lib", Name: "Widget", ResolutionScope: w.libRef, Module: w.app}

	td, err := w.u.ResolveTypeRef(ref)
	if err != nil {
		t.Fatalf("ResolveTypeRef: %v", err)
	}
	if td != w.widget {
		t.Fatalf("expected Widget from Impl, got %v", td)
	}
}

func TestResolveNestedReference(t *testing.T) {
	w := newTestWorld()
	outer := &TypeRef{Namespace: "Lib", Name: "Widget", ResolutionScope: w.libRef, Module: w.app}
	inner := &TypeRef{Name: "Part", ResolutionScope: outer, Module: w.app}

	td, err := w.u.ResolveTypeRef(inner)
	if err != nil {
		t.Fatalf("ResolveTypeRef: %v", err)
	}
	if td != w.nested {
		t.Fatalf("expected Widget/Part, got %v", td)
	}
}

func TestResolveMissingAssembly(t *testing.T) {
	w := newTestWorld()
	missing := &AssemblyRef{AssemblyName: AssemblyName{Name: "Nowhere"}, Module: w.app}
	ref := &TypeRef{Namespace: "Lib", Name: "Widget", ResolutionScope: missing, Module: w.app}

	_, err := w.u.ResolveTypeRef(ref)
	if !errors.Is(err, ErrAssemblyNotFound) {
		t.Fatalf("expected ErrAssemblyNotFound, got %v", err)
	}
}

func TestResolveMissingType(t *testing.T) {
	w := newTestWorld()
	ref := &TypeRef{Namespace: "Lib", Name: "Gadget", ResolutionScope: w.libRef, Module: w.app}

	_, err := w.u.ResolveTypeRef(ref)
	if !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
}

func TestResolveForwarderCycle(t *testing.T) {
	u := NewUniverse()
	a := &Module{Name: "A.dll"}
	b := &Module{Name: "B.dll"}
	toB := &AssemblyRef{AssemblyName: AssemblyName{Name: "B"}, Module: a}
	toA := &AssemblyRef{AssemblyName: AssemblyName{Name: "A"}, Module: b}
	a.ExportedTypes = []*ExportedType{{Namespace: "N", Name: "T", Implementation: toB, Module: a}}
	b.ExportedTypes = []*ExportedType{{Namespace: "N", Name: "T", Implementation: toA, Module: b}}
	u.AddAssembly(&Assembly{AssemblyName: AssemblyName{Name: "A"}, Modules: []*Module{a}})
	u.AddAssembly(&Assembly{AssemblyName: AssemblyName{Name: "B"}, Modules: []*Module{b}})

	_, err := u.ResolveExportedType(a.ExportedTypes[0])
	if !errors.Is(err, ErrForwarderCycle) {
		t.Fatalf("expected ErrForwarderCycle, got %v", err)
	}
}

func TestResolveModuleRefAndFile(t *testing.T) {
	u := NewUniverse()
	manifest := &Module{Name: "Multi.dll"}
	second := &Module{Name: "Second.netmodule"}
	hidden := &TypeDef{Namespace: "M", Name: "Hidden", Module: second}
	second.Types = []*TypeDef{hidden}
	file := &FileDef{Name: "Second.netmodule", ContainsMetadata: true, Module: manifest}
	manifest.Files = []*FileDef{file}
	manifest.ExportedTypes = []*ExportedType{{Namespace: "M", Name: "Hidden", Implementation: file, Module: manifest}}
	u.AddAssembly(&Assembly{AssemblyName: AssemblyName{Name: "Multi"}, Modules: []*Module{manifest, second}})

	modRef := &ModuleRef{Name: "second.netmodule", Module: manifest}
	viaModRef := &TypeRef{Namespace: "M", Name: "Hidden", ResolutionScope: modRef, Module: manifest}
	if td, err := u.ResolveTypeRef(viaModRef); err != nil || td != hidden {
		t.Fatalf("module ref: expected Hidden, got %v (%v)", td, err)
	}

	unscoped := &TypeRef{Namespace: "M", Name: "Hidden", Module: manifest}
	if td, err := u.ResolveTypeRef(unscoped); err != nil || td != hidden {
		t.Fatalf("unscoped: expected Hidden via exported type, got %v (%v)", td, err)
	}
}
