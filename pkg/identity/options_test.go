package identity

import (
	"errors"
	"testing"
)

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want Flags
	}{
		{"DontCompareTypeScope", DontCompareTypeScope},
		{"ignoremodifiers", IgnoreModifiers},
		{"CoreLibraryIsNotSpecial", CoreLibraryIsNotSpecial},
		{"CaseInsensitiveAll", CaseInsensitiveAll},
		{"compareassemblyfullname", CompareAssemblyFullName},
	}
	for _, tt := range tests {
		got, err := ParseFlag(tt.in)
		if err != nil {
			t.Fatalf("ParseFlag(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFlag(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ParseFlag("CompareEverything"); !errors.Is(err, ErrUnknownFlag) {
		t.Fatalf("expected ErrUnknownFlag, got %v", err)
	}
}

func TestFlagNamesRoundTrip(t *testing.T) {
	for i := range flagNames {
		f := Flags(1) << i
		got, err := ParseFlag(f.String())
		if err != nil || got != f {
			t.Errorf("flag %d: String %q parsed to %v (%v)", i, f.String(), got, err)
		}
	}
}

func TestFlagsString(t *testing.T) {
	if got := Flags(0).String(); got != "none" {
		t.Fatalf("expected none, got %q", got)
	}
	got := (DontCompareTypeScope | IgnoreModifiers).String()
	if got != "DontCompareTypeScope|IgnoreModifiers" {
		t.Fatalf("unexpected string %q", got)
	}
	if !StrictFlags.Has(CompareAssemblyFullName) {
		t.Fatal("strict preset should compare full assembly names")
	}
	if EditorImportFlags.Has(CompareAssemblyVersion) {
		t.Fatal("editor preset should not compare versions")
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	want := []string{"decompiler-search", "editor-import", "signature-match", "strict"}
	if len(names) != len(want) {
		t.Fatalf("expected %d presets, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("preset %d: expected %s, got %s", i, want[i], names[i])
		}
	}
	if f, ok := Preset(DefaultPreset); !ok || f != EditorImportFlags {
		t.Fatalf("default preset resolved to %v, %v", f, ok)
	}
	if _, ok := Preset("lenient"); ok {
		t.Fatal("expected unknown preset to be rejected")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Options{Flags: StrictFlags, MaxDepth: -1}, nil)
	if c.MaxDepth() != DefaultMaxDepth {
		t.Fatalf("expected default depth, got %d", c.MaxDepth())
	}
	if c.Flags() != StrictFlags {
		t.Fatalf("expected strict flags, got %v", c.Flags())
	}
}
