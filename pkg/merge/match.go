package merge

import (
	"fmt"

	"github.com/odvcencio/asmgraft/pkg/identity"
	"github.com/odvcencio/asmgraft/pkg/metadata"
)

// Disposition describes what an import does with one source entity.
type Disposition int

const (
	Created   Disposition = iota // no equal entity in the target
	Reused                       // exactly one equal target entity
	Ambiguous                    // several equal target entities; the first is used
)

func (d Disposition) String() string {
	switch d {
	case Created:
		return "Created"
	case Reused:
		return "Reused"
	case Ambiguous:
		return "Ambiguous"
	}
	return fmt.Sprintf("Disposition(%d)", int(d))
}

// MatchedEntity pairs a source entity with the target entity it maps onto.
// Target is nil when the entity has to be created.
type MatchedEntity struct {
	Table       metadata.Table
	Source      metadata.Node
	Target      metadata.Node
	Candidates  int
	Disposition Disposition
}

// index buckets target entities by identity hash. Buckets keep target table
// order so Ambiguous picks the first candidate in that order.
type index struct {
	types   map[uint32][]metadata.Type
	members map[uint32][]metadata.Member
}

func buildIndex(cmp *identity.Comparer, target *metadata.Module) *index {
	ix := &index{
		types:   make(map[uint32][]metadata.Type),
		members: make(map[uint32][]metadata.Member),
	}
	for _, e := range tableOrder(target) {
		switch n := e.node.(type) {
		case metadata.Type:
			h := cmp.HashType(n)
			ix.types[h] = append(ix.types[h], n)
		case metadata.Member:
			h := cmp.HashMember(n)
			ix.members[h] = append(ix.members[h], n)
		}
	}
	return ix
}

// match looks up the equal target entities of one source entity.
func (ix *index) match(cmp *identity.Comparer, e tableEntry) MatchedEntity {
	m := MatchedEntity{Table: e.table, Source: e.node}
	switch n := e.node.(type) {
	case metadata.Type:
		for _, cand := range ix.types[cmp.HashType(n)] {
			if cmp.EqualType(n, cand) {
				m.add(cand)
			}
		}
	case metadata.Member:
		for _, cand := range ix.members[cmp.HashMember(n)] {
			if cmp.EqualMember(n, cand) {
				m.add(cand)
			}
		}
	}
	m.Disposition = classify(m.Candidates)
	return m
}

func (m *MatchedEntity) add(cand metadata.Node) {
	if m.Candidates == 0 {
		m.Target = cand
	}
	m.Candidates++
}

func classify(candidates int) Disposition {
	switch {
	case candidates == 0:
		return Created
	case candidates == 1:
		return Reused
	default:
		return Ambiguous
	}
}

type tableEntry struct {
	table metadata.Table
	node  metadata.Node
}

// tableOrder lists the importable rows of m ordered by table number, then
// row order within each table.
func tableOrder(m *metadata.Module) []tableEntry {
	if m == nil {
		return nil
	}
	var out []tableEntry
	add := func(t metadata.Table, n metadata.Node) {
		out = append(out, tableEntry{table: t, node: n})
	}
	for _, r := range m.TypeRefs {
		add(metadata.TableTypeRef, r)
	}
	for _, t := range m.Types {
		add(metadata.TableTypeDef, t)
	}
	for _, t := range m.Types {
		for _, f := range t.Fields {
			add(metadata.TableField, f)
		}
	}
	for _, t := range m.Types {
		for _, md := range t.Methods {
			add(metadata.TableMethod, md)
		}
	}
	for _, r := range m.MemberRefs {
		add(metadata.TableMemberRef, r)
	}
	for _, t := range m.Types {
		for _, e := range t.Events {
			add(metadata.TableEvent, e)
		}
	}
	for _, t := range m.Types {
		for _, p := range t.Properties {
			add(metadata.TableProperty, p)
		}
	}
	for _, s := range m.TypeSpecs {
		add(metadata.TableTypeSpec, s)
	}
	for _, e := range m.ExportedTypes {
		add(metadata.TableExportedType, e)
	}
	for _, s := range m.MethodSpecs {
		add(metadata.TableMethodSpec, s)
	}
	return out
}
