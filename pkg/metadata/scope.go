package metadata

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Version is a four-part assembly version. Missing components are zero.
type Version struct {
	Major, Minor, Build, Revision uint16
}

// ParseVersion parses "major[.minor[.build[.revision]]]". An empty string is
// the zero version.
func ParseVersion(s string) (Version, error) {
	var v Version
	s = strings.TrimSpace(s)
	if s == "" {
		return v, nil
	}
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return v, fmt.Errorf("parse version %q: too many components", s)
	}
	fields := []*uint16{&v.Major, &v.Minor, &v.Build, &v.Revision}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("parse version %q: %w", s, err)
		}
		*fields[i] = uint16(n)
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// PublicKey holds either a full public key or its 8-byte token. At most one
// of the two is set; both empty means the assembly is not strong-named.
type PublicKey struct {
	Key   []byte
	Token []byte
}

// TokenBytes returns the public key token, deriving it from the full key when
// only the key is present. The token of a key is the last 8 bytes of its
// SHA-1 digest in reverse order.
func (p PublicKey) TokenBytes() []byte {
	if len(p.Token) > 0 {
		return p.Token
	}
	if len(p.Key) == 0 {
		return nil
	}
	sum := sha1.Sum(p.Key)
	tok := make([]byte, 8)
	for i := 0; i < 8; i++ {
		tok[i] = sum[len(sum)-1-i]
	}
	return tok
}

// IsNull reports whether no key material is present.
func (p PublicKey) IsNull() bool {
	return len(p.Key) == 0 && len(p.Token) == 0
}

func (p PublicKey) String() string {
	tok := p.TokenBytes()
	if len(tok) == 0 {
		return "null"
	}
	return hex.EncodeToString(tok)
}

// TokensEqual compares two public keys by their tokens.
func TokensEqual(a, b PublicKey) bool {
	return bytes.Equal(a.TokenBytes(), b.TokenBytes())
}

// CanonicalCulture lower-cases a culture name and maps "neutral" to "".
func CanonicalCulture(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "neutral" {
		return ""
	}
	return c
}

// AssemblyName is the identity shared by assembly definitions and references.
type AssemblyName struct {
	Name      string
	Version   Version
	Culture   string
	PublicKey PublicKey
}

// FullName renders the display name used by the runtime loader.
func (n *AssemblyName) FullName() string {
	culture := CanonicalCulture(n.Culture)
	if culture == "" {
		culture = "neutral"
	}
	return fmt.Sprintf("%s, Version=%s, Culture=%s, PublicKeyToken=%s", n.Name, n.Version, culture, n.PublicKey)
}

// IsCoreLibrary reports whether the name is one of the runtime's core
// library names.
func (n *AssemblyName) IsCoreLibrary() bool {
	return n != nil && IsCoreLibraryName(n.Name)
}

// SameIdentity compares every component of two assembly names: name
// (case-insensitive), version, culture and public key token.
func SameIdentity(a, b *AssemblyName) bool {
	if a == nil || b == nil {
		return a == b
	}
	return strings.EqualFold(a.Name, b.Name) &&
		a.Version == b.Version &&
		CanonicalCulture(a.Culture) == CanonicalCulture(b.Culture) &&
		TokensEqual(a.PublicKey, b.PublicKey)
}

var coreLibraryNames = map[string]bool{
	"mscorlib":               true,
	"system.runtime":         true,
	"system.private.corelib": true,
	"netstandard":            true,
}

// IsCoreLibraryName reports whether an assembly or module file name denotes
// the runtime's core library. A trailing .dll or .exe is ignored.
func IsCoreLibraryName(name string) bool {
	return coreLibraryNames[strings.ToLower(trimFileExt(name))]
}

func trimFileExt(name string) string {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".dll") || strings.HasSuffix(lower, ".exe") {
		return name[:len(name)-4]
	}
	return name
}

// Assembly is an assembly definition. Modules[0] is the manifest module.
type Assembly struct {
	AssemblyName
	Modules []*Module
}

func (a *Assembly) isNil() bool             { return a == nil }
func (a *Assembly) Identity() *AssemblyName { return &a.AssemblyName }
func (*Assembly) assemblyScope()            {}

// ManifestModule returns the module that carries the assembly manifest.
func (a *Assembly) ManifestModule() *Module {
	if a == nil || len(a.Modules) == 0 {
		return nil
	}
	return a.Modules[0]
}

// FindModule returns the module with the given file name, compared
// case-insensitively.
func (a *Assembly) FindModule(name string) *Module {
	if a == nil {
		return nil
	}
	for _, m := range a.Modules {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// AssemblyRef is a row of the AssemblyRef table of Module.
type AssemblyRef struct {
	AssemblyName
	Token  Token
	Module *Module
}

func (r *AssemblyRef) isNil() bool             { return r == nil }
func (r *AssemblyRef) Identity() *AssemblyName { return &r.AssemblyName }
func (*AssemblyRef) assemblyScope()            {}
func (*AssemblyRef) resolutionScope()          {}
func (*AssemblyRef) implementation()           {}

func (r *AssemblyRef) MDToken() Token {
	if r == nil {
		return 0
	}
	return r.Token
}

func (r *AssemblyRef) OwnerModule() *Module {
	if r == nil {
		return nil
	}
	return r.Module
}

// ModuleRef references another module of the assembly that owns Module.
type ModuleRef struct {
	Name   string
	Token  Token
	Module *Module
}

func (r *ModuleRef) isNil() bool        { return r == nil }
func (r *ModuleRef) ModuleName() string { return r.Name }
func (*ModuleRef) moduleScope()         {}
func (*ModuleRef) resolutionScope()     {}
func (*ModuleRef) memberRefParent()     {}

func (r *ModuleRef) MDToken() Token {
	if r == nil {
		return 0
	}
	return r.Token
}

func (r *ModuleRef) OwnerModule() *Module {
	if r == nil {
		return nil
	}
	return r.Module
}

// IsCoreLibrary reports whether the referenced module is a core library file.
func (r *ModuleRef) IsCoreLibrary() bool {
	return r != nil && IsCoreLibraryName(r.Name)
}

// FileDef is a row of the File table: another file of the same assembly.
type FileDef struct {
	Name             string
	Token            Token
	ContainsMetadata bool
	Module           *Module
}

func (f *FileDef) isNil() bool   { return f == nil }
func (*FileDef) implementation() {}

func (f *FileDef) MDToken() Token {
	if f == nil {
		return 0
	}
	return f.Token
}

func (f *FileDef) OwnerModule() *Module {
	if f == nil {
		return nil
	}
	return f.Module
}

// Module is a loaded module: one physical file of an assembly, or a
// standalone netmodule when Assembly is nil. The slices hold table rows in
// table order. Types holds every type definition, nested ones included;
// Types[0] is the global type.
type Module struct {
	Name     string
	Assembly *Assembly

	Types         []*TypeDef
	TypeRefs      []*TypeRef
	TypeSpecs     []*TypeSpec
	ExportedTypes []*ExportedType
	MemberRefs    []*MemberRef
	MethodSpecs   []*MethodSpec
	AssemblyRefs  []*AssemblyRef
	ModuleRefs    []*ModuleRef
	Files         []*FileDef
}

func (m *Module) isNil() bool        { return m == nil }
func (m *Module) ModuleName() string { return m.Name }
func (*Module) moduleScope()         {}
func (*Module) resolutionScope()     {}

// IsCoreLibrary reports whether the module belongs to the core library.
func (m *Module) IsCoreLibrary() bool {
	if m == nil {
		return false
	}
	if m.Assembly != nil {
		return m.Assembly.IsCoreLibrary()
	}
	return IsCoreLibraryName(m.Name)
}

// GlobalType returns the module's <Module> type, if present.
func (m *Module) GlobalType() *TypeDef {
	if m == nil || len(m.Types) == 0 {
		return nil
	}
	if t := m.Types[0]; t.IsGlobalModuleType() {
		return t
	}
	return nil
}

// FindType returns the top-level type with the given namespace and name.
func (m *Module) FindType(namespace, name string) *TypeDef {
	if m == nil {
		return nil
	}
	for _, t := range m.Types {
		if t.DeclaringType == nil && t.Name == name && t.Namespace == namespace {
			return t
		}
	}
	return nil
}

// FindExportedType returns the top-level exported type with the given
// namespace and name.
func (m *Module) FindExportedType(namespace, name string) *ExportedType {
	if m == nil {
		return nil
	}
	for _, et := range m.ExportedTypes {
		if _, nested := et.Implementation.(*ExportedType); nested {
			continue
		}
		if et.Name == name && et.Namespace == namespace {
			return et
		}
	}
	return nil
}

// AssemblyOf returns the assembly that owns a module, as an AssemblyScope. A
// standalone module yields a nil interface, never a typed nil.
func AssemblyOf(m *Module) AssemblyScope {
	if m == nil || m.Assembly == nil {
		return nil
	}
	return m.Assembly
}
