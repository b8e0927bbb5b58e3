// Package merge plans the import of one module's metadata into another. Every
// source entity is mapped onto an identical target entity where one exists,
// otherwise it is marked for creation.
package merge

import (
	"fmt"

	"github.com/odvcencio/asmgraft/pkg/identity"
	"github.com/odvcencio/asmgraft/pkg/metadata"
)

// ImportPlan is the result of Plan.
type ImportPlan struct {
	Source *metadata.Module
	Target *metadata.Module
	// Fingerprint identifies the fixture the plan was computed from. Plan
	// leaves it empty; callers that load fixtures fill it in.
	Fingerprint string
	Entities    []MatchedEntity
}

// Summary counts entities per disposition.
type Summary struct {
	Reused    int
	Ambiguous int
	Created   int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d reused, %d ambiguous, %d created", s.Reused, s.Ambiguous, s.Created)
}

// Total returns the number of planned entities.
func (s Summary) Total() int { return s.Reused + s.Ambiguous + s.Created }

// Plan maps every entity of source onto target using cmp. Entities appear in
// the source module's table order. The comparer should be configured with
// source and target as its Source and Target modules.
func Plan(cmp *identity.Comparer, source, target *metadata.Module) *ImportPlan {
	ix := buildIndex(cmp, target)
	entries := tableOrder(source)
	p := &ImportPlan{
		Source:   source,
		Target:   target,
		Entities: make([]MatchedEntity, 0, len(entries)),
	}
	for _, e := range entries {
		p.Entities = append(p.Entities, ix.match(cmp, e))
	}
	return p
}

// Summary counts the plan's entities per disposition.
func (p *ImportPlan) Summary() Summary {
	var s Summary
	for _, e := range p.Entities {
		switch e.Disposition {
		case Reused:
			s.Reused++
		case Ambiguous:
			s.Ambiguous++
		case Created:
			s.Created++
		}
	}
	return s
}

// Lookup returns the planned entry for a source entity.
func (p *ImportPlan) Lookup(source metadata.Node) (MatchedEntity, bool) {
	for _, e := range p.Entities {
		if e.Source == source {
			return e, true
		}
	}
	return MatchedEntity{}, false
}

// Filter returns the entries with the given disposition.
func (p *ImportPlan) Filter(d Disposition) []MatchedEntity {
	var out []MatchedEntity
	for _, e := range p.Entities {
		if e.Disposition == d {
			out = append(out, e)
		}
	}
	return out
}
