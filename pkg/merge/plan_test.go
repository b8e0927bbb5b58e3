package merge

import (
	"path/filepath"
	"testing"

	"github.com/odvcencio/asmgraft/pkg/fixture"
	"github.com/odvcencio/asmgraft/pkg/identity"
	"github.com/odvcencio/asmgraft/pkg/metadata"
)

type importWorld struct {
	f      *fixture.Fixture
	source *metadata.Module
	target *metadata.Module
}

func loadImport(t testing.TB) *importWorld {
	t.Helper()
	f, err := fixture.LoadFile(filepath.Join("testdata", "import.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	source, err := f.Module("Plugin.dll")
	if err != nil {
		t.Fatal(err)
	}
	target, err := f.Module("App.dll")
	if err != nil {
		t.Fatal(err)
	}
	return &importWorld{f: f, source: source, target: target}
}

func (w *importWorld) comparer(flags identity.Flags) *identity.Comparer {
	return identity.New(identity.Options{Flags: flags, Source: w.source, Target: w.target}, w.f.Universe)
}

func TestPlanDispositions(t *testing.T) {
	w := loadImport(t)
	p := Plan(w.comparer(identity.EditorImportFlags), w.source, w.target)

	want := []struct {
		source string
		table  metadata.Table
		disp   Disposition
		target string
	}{
		{"Plugin.dll!widget", metadata.TableTypeRef, Reused, "App.dll!widget"},
		{"Plugin.dll!gadget", metadata.TableTypeRef, Ambiguous, "App.dll!gadget"},
		{"Plugin.dll!<Module>", metadata.TableTypeDef, Reused, "App.dll!<Module>"},
		{"Plugin.dll!thing", metadata.TableTypeDef, Reused, "App.dll!thing"},
		{"Plugin.dll!count", metadata.TableField, Created, ""},
		{"Plugin.dll!run", metadata.TableMethod, Reused, "App.dll!run"},
		{"Plugin.dll!frob", metadata.TableMemberRef, Reused, "App.dll!frob"},
	}
	if len(p.Entities) != len(want) {
		t.Fatalf("planned %d entities, want %d", len(p.Entities), len(want))
	}
	for i, tt := range want {
		e := p.Entities[i]
		if got := w.f.Label(e.Source); got != tt.source {
			t.Fatalf("entity %d: source %q, want %q", i, got, tt.source)
		}
		if e.Table != tt.table {
			t.Fatalf("%s: table %v, want %v", tt.source, e.Table, tt.table)
		}
		if e.Disposition != tt.disp {
			t.Fatalf("%s: disposition %v, want %v", tt.source, e.Disposition, tt.disp)
		}
		if got := w.f.Label(e.Target); got != tt.target {
			t.Fatalf("%s: target %q, want %q", tt.source, got, tt.target)
		}
	}

	gadget, ok := p.Lookup(p.Entities[1].Source)
	if !ok || gadget.Candidates != 2 {
		t.Fatalf("expected two candidates for gadget, got %+v", gadget)
	}

	s := p.Summary()
	if s.Reused != 5 || s.Ambiguous != 1 || s.Created != 1 || s.Total() != 7 {
		t.Fatalf("summary = %s", s)
	}
	if got := s.String(); got != "5 reused, 1 ambiguous, 1 created" {
		t.Fatalf("summary string = %q", got)
	}
	if created := p.Filter(Created); len(created) != 1 || created[0].Target != nil {
		t.Fatalf("unexpected created entries %+v", created)
	}
}

func TestPlanStrictScopes(t *testing.T) {
	w := loadImport(t)
	// Without the import's modules the plugin's own definitions live in a
	// different module from anything App defines, and App's reference to
	// Plugin.Thing still names the right assembly.
	c := identity.New(identity.Options{Flags: identity.EditorImportFlags}, w.f.Universe)
	p := Plan(c, w.source, w.target)

	global, ok := p.Lookup(w.source.GlobalType())
	if !ok {
		t.Fatal("global type missing from plan")
	}
	if global.Disposition != Created {
		t.Fatalf("global type outside an import: %v, want Created", global.Disposition)
	}
	thing, _ := w.f.Select("Plugin.dll!thing")
	if e, _ := p.Lookup(thing); e.Disposition != Reused {
		t.Fatalf("thing: %v, want Reused", e.Disposition)
	}
}

func TestPlanEmptyTarget(t *testing.T) {
	w := loadImport(t)
	empty := &metadata.Module{Name: "Empty.dll"}
	p := Plan(w.comparer(identity.EditorImportFlags), w.source, empty)
	if s := p.Summary(); s.Created != s.Total() || s.Total() != 7 {
		t.Fatalf("expected everything created, got %s", s)
	}
	if p := Plan(w.comparer(identity.EditorImportFlags), nil, w.target); len(p.Entities) != 0 {
		t.Fatalf("nil source planned %d entities", len(p.Entities))
	}
}

func TestDispositionString(t *testing.T) {
	tests := []struct {
		d    Disposition
		want string
	}{
		{Created, "Created"},
		{Reused, "Reused"},
		{Ambiguous, "Ambiguous"},
		{Disposition(9), "Disposition(9)"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}
