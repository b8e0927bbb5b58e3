package metadata

import "fmt"

// Table identifies a metadata table. Values match the table numbers used in
// the high byte of a metadata token.
type Table uint8

const (
	TableModule       Table = 0x00
	TableTypeRef      Table = 0x01
	TableTypeDef      Table = 0x02
	TableField        Table = 0x04
	TableMethod       Table = 0x06
	TableMemberRef    Table = 0x0A
	TableEvent        Table = 0x14
	TableProperty     Table = 0x17
	TableModuleRef    Table = 0x1A
	TableTypeSpec     Table = 0x1B
	TableAssembly     Table = 0x20
	TableAssemblyRef  Table = 0x23
	TableFile         Table = 0x26
	TableExportedType Table = 0x27
	TableMethodSpec   Table = 0x2B
)

func (t Table) String() string {
	switch t {
	case TableModule:
		return "Module"
	case TableTypeRef:
		return "TypeRef"
	case TableTypeDef:
		return "TypeDef"
	case TableField:
		return "Field"
	case TableMethod:
		return "Method"
	case TableMemberRef:
		return "MemberRef"
	case TableEvent:
		return "Event"
	case TableProperty:
		return "Property"
	case TableModuleRef:
		return "ModuleRef"
	case TableTypeSpec:
		return "TypeSpec"
	case TableAssembly:
		return "Assembly"
	case TableAssemblyRef:
		return "AssemblyRef"
	case TableFile:
		return "File"
	case TableExportedType:
		return "ExportedType"
	case TableMethodSpec:
		return "MethodSpec"
	}
	return fmt.Sprintf("Table(0x%02X)", uint8(t))
}

// Token is a metadata token: table number in the high byte, 1-based row id
// in the low three bytes. Within one module a token names exactly one row.
type Token uint32

// NewToken builds a token from a table and row id.
func NewToken(t Table, rid uint32) Token {
	return Token(uint32(t)<<24 | rid&0x00FFFFFF)
}

// Table returns the table part of the token.
func (t Token) Table() Table { return Table(t >> 24) }

// Rid returns the row id part of the token.
func (t Token) Rid() uint32 { return uint32(t) & 0x00FFFFFF }

func (t Token) String() string { return fmt.Sprintf("0x%08X", uint32(t)) }
