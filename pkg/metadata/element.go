package metadata

import "fmt"

// ElementType is the signature element type byte of a type signature node.
type ElementType uint8

const (
	ElementEnd         ElementType = 0x00
	ElementVoid        ElementType = 0x01
	ElementBoolean     ElementType = 0x02
	ElementChar        ElementType = 0x03
	ElementI1          ElementType = 0x04
	ElementU1          ElementType = 0x05
	ElementI2          ElementType = 0x06
	ElementU2          ElementType = 0x07
	ElementI4          ElementType = 0x08
	ElementU4          ElementType = 0x09
	ElementI8          ElementType = 0x0A
	ElementU8          ElementType = 0x0B
	ElementR4          ElementType = 0x0C
	ElementR8          ElementType = 0x0D
	ElementString      ElementType = 0x0E
	ElementPtr         ElementType = 0x0F
	ElementByRef       ElementType = 0x10
	ElementValueType   ElementType = 0x11
	ElementClass       ElementType = 0x12
	ElementVar         ElementType = 0x13
	ElementArray       ElementType = 0x14
	ElementGenericInst ElementType = 0x15
	ElementTypedByRef  ElementType = 0x16
	ElementI           ElementType = 0x18
	ElementU           ElementType = 0x19
	ElementFnPtr       ElementType = 0x1B
	ElementObject      ElementType = 0x1C
	ElementSZArray     ElementType = 0x1D
	ElementMVar        ElementType = 0x1E
	ElementCModReqd    ElementType = 0x1F
	ElementCModOpt     ElementType = 0x20
	ElementSentinel    ElementType = 0x41
	ElementPinned      ElementType = 0x45
)

var elementNames = map[ElementType]string{
	ElementEnd:         "end",
	ElementVoid:        "void",
	ElementBoolean:     "bool",
	ElementChar:        "char",
	ElementI1:          "i1",
	ElementU1:          "u1",
	ElementI2:          "i2",
	ElementU2:          "u2",
	ElementI4:          "i4",
	ElementU4:          "u4",
	ElementI8:          "i8",
	ElementU8:          "u8",
	ElementR4:          "r4",
	ElementR8:          "r8",
	ElementString:      "string",
	ElementPtr:         "ptr",
	ElementByRef:       "byref",
	ElementValueType:   "valuetype",
	ElementClass:       "class",
	ElementVar:         "var",
	ElementArray:       "array",
	ElementGenericInst: "inst",
	ElementTypedByRef:  "typedref",
	ElementI:           "intptr",
	ElementU:           "uintptr",
	ElementFnPtr:       "fnptr",
	ElementObject:      "object",
	ElementSZArray:     "szarray",
	ElementMVar:        "mvar",
	ElementCModReqd:    "modreq",
	ElementCModOpt:     "modopt",
	ElementSentinel:    "sentinel",
	ElementPinned:      "pinned",
}

func (e ElementType) String() string {
	if s, ok := elementNames[e]; ok {
		return s
	}
	return fmt.Sprintf("ElementType(0x%02X)", uint8(e))
}

// ParseElementType returns the element type with the given short name, as
// printed by String.
func ParseElementType(name string) (ElementType, bool) {
	for e, n := range elementNames {
		if n == name {
			return e, true
		}
	}
	return 0, false
}

// IsPrimitive reports whether e is a leaf kind that carries no payload.
func (e ElementType) IsPrimitive() bool {
	switch e {
	case ElementVoid, ElementBoolean, ElementChar, ElementI1, ElementU1,
		ElementI2, ElementU2, ElementI4, ElementU4, ElementI8, ElementU8,
		ElementR4, ElementR8, ElementString, ElementTypedByRef, ElementI,
		ElementU, ElementObject, ElementSentinel:
		return true
	}
	return false
}

// corLibTypeNames maps primitive element types to the name of the core
// library type they abbreviate. All of them live in namespace "System".
var corLibTypeNames = map[ElementType]string{
	ElementVoid:       "Void",
	ElementBoolean:    "Boolean",
	ElementChar:       "Char",
	ElementI1:         "SByte",
	ElementU1:         "Byte",
	ElementI2:         "Int16",
	ElementU2:         "UInt16",
	ElementI4:         "Int32",
	ElementU4:         "UInt32",
	ElementI8:         "Int64",
	ElementU8:         "UInt64",
	ElementR4:         "Single",
	ElementR8:         "Double",
	ElementString:     "String",
	ElementTypedByRef: "TypedReference",
	ElementI:          "IntPtr",
	ElementU:          "UIntPtr",
	ElementObject:     "Object",
}

// CorLibNamespace is the namespace of every type a primitive leaf denotes.
const CorLibNamespace = "System"

// CorLibTypeName returns the core library type name a primitive element type
// stands for. ok is false for element types with no named counterpart
// (sentinel, composites).
func CorLibTypeName(e ElementType) (name string, ok bool) {
	name, ok = corLibTypeNames[e]
	return name, ok
}
