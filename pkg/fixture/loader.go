// Package fixture builds metadata universes from TOML descriptions, with
// signatures written in a compact text form.
package fixture

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/asmgraft/pkg/metadata"
)

var (
	ErrUnknownLabel   = errors.New("unknown label")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrLabelKind      = errors.New("label names the wrong kind of entity")
)

// selfLabel is the reserved type reference scope meaning "this module".
const selfLabel = "self"

// Fixture is a metadata universe loaded from a TOML description, together
// with the module-local labels its entities were given.
type Fixture struct {
	Universe    *metadata.Universe
	Fingerprint string

	modules []*labels
	names   map[metadata.Node]string
}

type labels struct {
	module  *metadata.Module
	byLabel map[string]metadata.Node
}

type document struct {
	Assemblies []assemblyDoc `toml:"assembly"`
	Modules    []moduleDoc   `toml:"module"`
}

type assemblyDoc struct {
	Name           string   `toml:"name"`
	Version        string   `toml:"version"`
	Culture        string   `toml:"culture"`
	PublicKey      string   `toml:"public_key"`
	PublicKeyToken string   `toml:"public_key_token"`
	Modules        []string `toml:"modules"`
}

type moduleDoc struct {
	Name          string            `toml:"name"`
	AssemblyRefs  []assemblyRefDoc  `toml:"assembly_ref"`
	ModuleRefs    []namedDoc        `toml:"module_ref"`
	Files         []fileDoc         `toml:"file"`
	Types         []typeDoc         `toml:"type"`
	TypeRefs      []typeRefDoc      `toml:"type_ref"`
	TypeSpecs     []sigDoc          `toml:"type_spec"`
	ExportedTypes []exportedTypeDoc `toml:"exported_type"`
	MemberRefs    []memberRefDoc    `toml:"member_ref"`
	MethodSpecs   []methodSpecDoc   `toml:"method_spec"`
}

type assemblyRefDoc struct {
	Label          string `toml:"label"`
	Name           string `toml:"name"`
	Version        string `toml:"version"`
	Culture        string `toml:"culture"`
	PublicKey      string `toml:"public_key"`
	PublicKeyToken string `toml:"public_key_token"`
}

type namedDoc struct {
	Label string `toml:"label"`
	Name  string `toml:"name"`
}

type fileDoc struct {
	Label    string `toml:"label"`
	Name     string `toml:"name"`
	Resource bool   `toml:"resource"`
}

type typeDoc struct {
	Label      string      `toml:"label"`
	Namespace  string      `toml:"namespace"`
	Name       string      `toml:"name"`
	Declaring  string      `toml:"declaring"`
	Methods    []methodDoc `toml:"method"`
	Fields     []fieldDoc  `toml:"field"`
	Properties []sigDoc    `toml:"property"`
	Events     []eventDoc  `toml:"event"`
}

type methodDoc struct {
	Label  string `toml:"label"`
	Name   string `toml:"name"`
	Access string `toml:"access"`
	Static bool   `toml:"static"`
	Sig    string `toml:"sig"`
}

type fieldDoc struct {
	Label  string `toml:"label"`
	Name   string `toml:"name"`
	Access string `toml:"access"`
	Static bool   `toml:"static"`
	Type   string `toml:"type"`
}

type sigDoc struct {
	Label string `toml:"label"`
	Name  string `toml:"name"`
	Sig   string `toml:"sig"`
}

type eventDoc struct {
	Label string `toml:"label"`
	Name  string `toml:"name"`
	Type  string `toml:"type"`
}

type typeRefDoc struct {
	Label     string `toml:"label"`
	Namespace string `toml:"namespace"`
	Name      string `toml:"name"`
	Scope     string `toml:"scope"`
}

type exportedTypeDoc struct {
	Label          string `toml:"label"`
	Namespace      string `toml:"namespace"`
	Name           string `toml:"name"`
	Implementation string `toml:"implementation"`
}

type memberRefDoc struct {
	Label  string `toml:"label"`
	Name   string `toml:"name"`
	Parent string `toml:"parent"`
	Sig    string `toml:"sig"`
}

type methodSpecDoc struct {
	Label  string   `toml:"label"`
	Method string   `toml:"method"`
	Args   []string `toml:"args"`
}

// LoadFile reads a fixture from path. Files ending in .zst are
// zstd-compressed.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	if IsCompressed(path) {
		if data, err = Decompress(data); err != nil {
			return nil, fmt.Errorf("load fixture %s: %w", path, err)
		}
	}
	f, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load fixture %s: %w", path, err)
	}
	return f, nil
}

// Load builds a fixture from TOML text.
func Load(data []byte) (*Fixture, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode: unknown keys %s", strings.Join(keys, ", "))
	}

	b := &builder{
		fixture: &Fixture{
			Universe:    metadata.NewUniverse(),
			Fingerprint: Fingerprint(data),
			names:       make(map[metadata.Node]string),
		},
	}
	if err := b.build(&doc); err != nil {
		return nil, err
	}
	return b.fixture, nil
}

// Module returns the module with the given name.
func (f *Fixture) Module(name string) (*metadata.Module, error) {
	if m := f.Universe.Module(name); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", metadata.ErrModuleNotFound, name)
}

// Lookup returns the entity labeled label in the named module.
func (f *Fixture) Lookup(module, label string) (metadata.Node, error) {
	for _, l := range f.modules {
		if strings.EqualFold(l.module.Name, module) {
			return l.get(label)
		}
	}
	return nil, fmt.Errorf("%w: %s", metadata.ErrModuleNotFound, module)
}

// Select resolves a "module!label" selector.
func (f *Fixture) Select(selector string) (metadata.Node, error) {
	module, label, ok := strings.Cut(selector, "!")
	if !ok || module == "" || label == "" {
		return nil, fmt.Errorf("invalid selector %q: want module!label", selector)
	}
	return f.Lookup(module, label)
}

// Label returns the "module!label" selector of n, or "" when n was not
// labeled.
func (f *Fixture) Label(n metadata.Node) string {
	return f.names[n]
}

// Labels lists the labels of a module in sorted order.
func (f *Fixture) Labels(module string) []string {
	for _, l := range f.modules {
		if strings.EqualFold(l.module.Name, module) {
			out := make([]string, 0, len(l.byLabel))
			for name := range l.byLabel {
				out = append(out, name)
			}
			sort.Strings(out)
			return out
		}
	}
	return nil
}

func (l *labels) add(label string, n metadata.Node) error {
	if label == "" {
		return nil
	}
	if label == selfLabel {
		return fmt.Errorf("%w: %q is reserved", ErrDuplicateLabel, label)
	}
	if _, dup := l.byLabel[label]; dup {
		return fmt.Errorf("%w %q in module %s", ErrDuplicateLabel, label, l.module.Name)
	}
	l.byLabel[label] = n
	return nil
}

func (l *labels) get(label string) (metadata.Node, error) {
	if n, ok := l.byLabel[label]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w %q in module %s", ErrUnknownLabel, label, l.module.Name)
}

func (l *labels) typeDefOrRef(label string) (metadata.TypeDefOrRef, error) {
	n, err := l.get(label)
	if err != nil {
		return nil, err
	}
	t, ok := n.(metadata.TypeDefOrRef)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a type definition, reference or specification", ErrLabelKind, label)
	}
	return t, nil
}

func parseAssemblyName(name, version, culture, key, token string) (metadata.AssemblyName, error) {
	an := metadata.AssemblyName{Name: name, Culture: culture}
	if name == "" {
		return an, fmt.Errorf("assembly name is required")
	}
	v, err := metadata.ParseVersion(version)
	if err != nil {
		return an, err
	}
	an.Version = v
	if key != "" {
		if an.PublicKey.Key, err = hex.DecodeString(key); err != nil {
			return an, fmt.Errorf("public key of %s: %w", name, err)
		}
	}
	if token != "" {
		if an.PublicKey.Token, err = hex.DecodeString(token); err != nil {
			return an, fmt.Errorf("public key token of %s: %w", name, err)
		}
		if len(an.PublicKey.Token) != 8 {
			return an, fmt.Errorf("public key token of %s: want 8 bytes, got %d", name, len(an.PublicKey.Token))
		}
	}
	return an, nil
}
