package identity

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/odvcencio/asmgraft/pkg/metadata"
)

// Flags selects comparison rules. Each bit tightens or relaxes one rule; an
// unset bit always picks the laxer behavior.
type Flags uint32

const (
	DontCompareTypeScope Flags = 1 << iota
	CompareMethodFieldDeclaringType
	ComparePropertyDeclaringType
	CompareEventDeclaringType
	CompareSentinelParams
	CompareAssemblyPublicKeyToken
	CompareAssemblyVersion
	CompareAssemblyLocale
	TypeRefCanReferenceGlobalType
	DontCompareReturnType
	CaseInsensitiveTypeNamespaces
	CaseInsensitiveTypeNames
	CaseInsensitiveMethodFieldNames
	CaseInsensitivePropertyNames
	CaseInsensitiveEventNames
	PrivateScopeFieldIsComparable
	PrivateScopeMethodIsComparable
	RawSignatureCompare
	IgnoreModifiers
	CoreLibraryIsNotSpecial
)

const (
	CaseInsensitiveTypes     = CaseInsensitiveTypeNamespaces | CaseInsensitiveTypeNames
	CaseInsensitiveAll       = CaseInsensitiveTypes | CaseInsensitiveMethodFieldNames | CaseInsensitivePropertyNames | CaseInsensitiveEventNames
	CompareDeclaringTypes    = CompareMethodFieldDeclaringType | ComparePropertyDeclaringType | CompareEventDeclaringType
	CompareAssemblyFullName  = CompareAssemblyPublicKeyToken | CompareAssemblyVersion | CompareAssemblyLocale
	PrivateScopeIsComparable = PrivateScopeFieldIsComparable | PrivateScopeMethodIsComparable
)

// Named presets used by the callers of the comparer.
const (
	StrictFlags           = CompareDeclaringTypes | CompareSentinelParams | CompareAssemblyFullName | CoreLibraryIsNotSpecial
	EditorImportFlags     = CompareDeclaringTypes | CompareSentinelParams | TypeRefCanReferenceGlobalType | PrivateScopeIsComparable
	DecompilerSearchFlags = CompareDeclaringTypes | CompareSentinelParams | CompareAssemblyPublicKeyToken | PrivateScopeIsComparable
	SignatureMatchFlags   = DontCompareTypeScope | IgnoreModifiers | CompareSentinelParams
)

// DefaultPreset is the preset used when no profile names one.
const DefaultPreset = "editor-import"

var presets = map[string]Flags{
	"strict":            StrictFlags,
	"editor-import":     EditorImportFlags,
	"decompiler-search": DecompilerSearchFlags,
	"signature-match":   SignatureMatchFlags,
}

// Preset returns the flags of a named preset.
func Preset(name string) (Flags, bool) {
	f, ok := presets[name]
	return f, ok
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var flagNames = [...]string{
	"DontCompareTypeScope",
	"CompareMethodFieldDeclaringType",
	"ComparePropertyDeclaringType",
	"CompareEventDeclaringType",
	"CompareSentinelParams",
	"CompareAssemblyPublicKeyToken",
	"CompareAssemblyVersion",
	"CompareAssemblyLocale",
	"TypeRefCanReferenceGlobalType",
	"DontCompareReturnType",
	"CaseInsensitiveTypeNamespaces",
	"CaseInsensitiveTypeNames",
	"CaseInsensitiveMethodFieldNames",
	"CaseInsensitivePropertyNames",
	"CaseInsensitiveEventNames",
	"PrivateScopeFieldIsComparable",
	"PrivateScopeMethodIsComparable",
	"RawSignatureCompare",
	"IgnoreModifiers",
	"CoreLibraryIsNotSpecial",
}

var comboNames = map[string]Flags{
	"CaseInsensitiveTypes":     CaseInsensitiveTypes,
	"CaseInsensitiveAll":       CaseInsensitiveAll,
	"CompareDeclaringTypes":    CompareDeclaringTypes,
	"CompareAssemblyFullName":  CompareAssemblyFullName,
	"PrivateScopeIsComparable": PrivateScopeIsComparable,
}

// ErrUnknownFlag is returned by ParseFlag for a name that is neither a flag
// nor a flag group.
var ErrUnknownFlag = errors.New("unknown comparison flag")

// ParseFlag maps a flag or flag-group name to its bits. Matching ignores case.
func ParseFlag(name string) (Flags, error) {
	for i, n := range flagNames {
		if strings.EqualFold(n, name) {
			return 1 << i, nil
		}
	}
	for n, f := range comboNames {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownFlag, name)
}

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for rest := f; rest != 0; rest &= rest - 1 {
		i := bits.TrailingZeros32(uint32(rest))
		if i < len(flagNames) {
			parts = append(parts, flagNames[i])
		} else {
			parts = append(parts, fmt.Sprintf("Flags(1<<%d)", i))
		}
	}
	return strings.Join(parts, "|")
}

// DefaultMaxDepth is the recursion limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 100

// Options is the fixed configuration of one Comparer. Source and Target are
// the two modules of the import in progress; either may be nil.
type Options struct {
	Flags    Flags
	Source   *metadata.Module
	Target   *metadata.Module
	MaxDepth int
}
