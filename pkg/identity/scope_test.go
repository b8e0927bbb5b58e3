package identity

import (
	"testing"

	"github.com/odvcencio/asmgraft/pkg/metadata"
)

func TestAssemblyOptions(t *testing.T) {
	m := newAssemblyModule("Host", 1)
	v1 := &metadata.AssemblyRef{AssemblyName: metadata.AssemblyName{Name: "Lib", Version: metadata.Version{Major: 1}}, Module: m}
	v2 := &metadata.AssemblyRef{AssemblyName: metadata.AssemblyName{Name: "lib", Version: metadata.Version{Major: 2}, Culture: "en-US"}, Module: m}
	keyed := &metadata.AssemblyRef{AssemblyName: metadata.AssemblyName{
		Name:      "Lib",
		Version:   metadata.Version{Major: 1},
		PublicKey: metadata.PublicKey{Token: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	}, Module: m}

	tests := []struct {
		name  string
		flags Flags
		a, b  *metadata.AssemblyRef
		want  bool
	}{
		{"names only", 0, v1, v2, true},
		{"version", CompareAssemblyVersion, v1, v2, false},
		{"locale", CompareAssemblyLocale, v1, v2, false},
		{"token", CompareAssemblyPublicKeyToken, v1, keyed, false},
		{"token ignored", CompareAssemblyVersion, v1, keyed, true},
		{"full name", CompareAssemblyFullName, v1, v1, true},
	}
	for _, tt := range tests {
		c := New(Options{Flags: tt.flags}, nil)
		if got := c.EqualAssemblies(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestCoreLibraryExemption(t *testing.T) {
	m := newAssemblyModule("Host", 1)
	mscorlib := addAsmRef(m, "mscorlib", 4)
	runtime := addAsmRef(m, "System.Runtime", 8)

	lax := New(Options{Flags: CompareAssemblyFullName}, nil)
	if !lax.EqualAssemblies(mscorlib, runtime) {
		t.Fatal("expected core libraries to compare equal while exempt")
	}
	strict := New(Options{Flags: CoreLibraryIsNotSpecial}, nil)
	if strict.EqualAssemblies(mscorlib, runtime) {
		t.Fatal("expected core libraries to differ when not special")
	}

	a := newAssemblyModule("mscorlib", 4)
	b := newAssemblyModule("netstandard", 2)
	if !lax.EqualModules(a, b) {
		t.Fatal("expected core library modules to compare equal while exempt")
	}
	if strict.EqualModules(a, b) {
		t.Fatal("expected core library modules to differ when not special")
	}
}

func TestSourceTargetAssemblyBridge(t *testing.T) {
	source := newAssemblyModule("Edited", 1)
	target := newAssemblyModule("Original", 3)
	host := newAssemblyModule("Host", 1)
	toSource := addAsmRef(host, "Edited", 1)
	toTarget := addAsmRef(host, "Original", 3)
	staleTarget := addAsmRef(host, "Original", 2)

	c := New(Options{Flags: CompareAssemblyFullName, Source: source, Target: target}, nil)
	if !c.EqualAssemblies(toSource, toTarget) {
		t.Fatal("expected references to source and target to be bridged")
	}
	if c.EqualAssemblies(toSource, staleTarget) {
		t.Fatal("a reference to another version of the target is not the target")
	}
	if !c.EqualModules(source, target) {
		t.Fatal("expected source and target modules to be bridged")
	}

	plain := New(Options{Flags: CompareAssemblyFullName}, nil)
	if plain.EqualAssemblies(toSource, toTarget) {
		t.Fatal("without an import in progress the assemblies differ")
	}
}

func TestModuleRefEquality(t *testing.T) {
	host := newAssemblyModule("Host", 1)
	other := newAssemblyModule("Other", 1)
	a := &metadata.ModuleRef{Name: "Native.netmodule", Module: host}
	b := &metadata.ModuleRef{Name: "NATIVE.netmodule", Module: host}
	foreign := &metadata.ModuleRef{Name: "Native.netmodule", Module: other}

	c := New(Options{}, nil)
	if !c.EqualModules(a, b) {
		t.Fatal("module names compare case-insensitively")
	}
	if c.EqualModules(a, foreign) {
		t.Fatal("same module name in different assemblies must differ")
	}
}

func TestStandaloneModulesShareAbsentAssembly(t *testing.T) {
	a := &metadata.Module{Name: "a.netmodule"}
	b := &metadata.Module{Name: "A.NETMODULE"}
	c := New(Options{}, nil)
	if !c.EqualModules(a, b) {
		t.Fatal("expected standalone modules with the same name to be equal")
	}
}
