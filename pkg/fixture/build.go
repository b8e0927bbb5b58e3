package fixture

import (
	"fmt"
	"strings"

	"github.com/odvcencio/asmgraft/pkg/metadata"
)

type builder struct {
	fixture *Fixture
}

// pending carries the unresolved label columns of one module between the
// passes of build.
type pending struct {
	doc    *moduleDoc
	labels *labels

	declaring  map[*metadata.TypeDef]string
	methods    map[*metadata.MethodDef]string
	fields     map[*metadata.FieldDef]string
	properties map[*metadata.PropertyDef]string
	events     map[*metadata.EventDef]string
}

// build creates entities in three passes: rows with labels first, then the
// label columns that may point forward (scopes, implementations, declaring
// types), then signatures, which may name any type of the module.
func (b *builder) build(doc *document) error {
	modules := make(map[string]*pending, len(doc.Modules))
	var order []*pending
	for i := range doc.Modules {
		md := &doc.Modules[i]
		if md.Name == "" {
			return fmt.Errorf("module %d: name is required", i)
		}
		key := strings.ToLower(md.Name)
		if _, dup := modules[key]; dup {
			return fmt.Errorf("module %s: defined twice", md.Name)
		}
		p, err := b.createRows(md)
		if err != nil {
			return fmt.Errorf("module %s: %w", md.Name, err)
		}
		modules[key] = p
		order = append(order, p)
	}

	owned := make(map[string]bool)
	for _, ad := range doc.Assemblies {
		name, err := parseAssemblyName(ad.Name, ad.Version, ad.Culture, ad.PublicKey, ad.PublicKeyToken)
		if err != nil {
			return fmt.Errorf("assembly %s: %w", ad.Name, err)
		}
		if len(ad.Modules) == 0 {
			return fmt.Errorf("assembly %s: at least one module is required", ad.Name)
		}
		asm := &metadata.Assembly{AssemblyName: name}
		for _, mn := range ad.Modules {
			key := strings.ToLower(mn)
			p, ok := modules[key]
			if !ok {
				return fmt.Errorf("assembly %s: %w: %s", ad.Name, metadata.ErrModuleNotFound, mn)
			}
			if owned[key] {
				return fmt.Errorf("assembly %s: module %s already belongs to an assembly", ad.Name, mn)
			}
			owned[key] = true
			asm.Modules = append(asm.Modules, p.labels.module)
		}
		b.fixture.Universe.AddAssembly(asm)
	}
	for _, p := range order {
		if !owned[strings.ToLower(p.doc.Name)] {
			b.fixture.Universe.AddModule(p.labels.module)
		}
	}

	for _, p := range order {
		if err := b.linkRows(p); err != nil {
			return fmt.Errorf("module %s: %w", p.doc.Name, err)
		}
	}
	for _, p := range order {
		if err := b.parseSignatures(p); err != nil {
			return fmt.Errorf("module %s: %w", p.doc.Name, err)
		}
	}
	return nil
}

func (b *builder) label(l *labels, label string, n metadata.Node) error {
	if err := l.add(label, n); err != nil {
		return err
	}
	if label != "" {
		b.fixture.names[n] = l.module.Name + "!" + label
	}
	return nil
}

// createRows creates every row of a module with its names and tokens. Rows
// are numbered per table in document order; the global type is row 1 of the
// TypeDef table.
func (b *builder) createRows(md *moduleDoc) (*pending, error) {
	m := &metadata.Module{Name: md.Name}
	l := &labels{module: m, byLabel: make(map[string]metadata.Node)}
	b.fixture.modules = append(b.fixture.modules, l)
	p := &pending{
		doc:        md,
		labels:     l,
		declaring:  make(map[*metadata.TypeDef]string),
		methods:    make(map[*metadata.MethodDef]string),
		fields:     make(map[*metadata.FieldDef]string),
		properties: make(map[*metadata.PropertyDef]string),
		events:     make(map[*metadata.EventDef]string),
	}

	for i, rd := range md.AssemblyRefs {
		name, err := parseAssemblyName(rd.Name, rd.Version, rd.Culture, rd.PublicKey, rd.PublicKeyToken)
		if err != nil {
			return nil, fmt.Errorf("assembly_ref %q: %w", rd.Label, err)
		}
		r := &metadata.AssemblyRef{AssemblyName: name, Token: metadata.NewToken(metadata.TableAssemblyRef, uint32(i+1)), Module: m}
		m.AssemblyRefs = append(m.AssemblyRefs, r)
		if err := b.label(l, rd.Label, r); err != nil {
			return nil, err
		}
	}
	for i, rd := range md.ModuleRefs {
		r := &metadata.ModuleRef{Name: rd.Name, Token: metadata.NewToken(metadata.TableModuleRef, uint32(i+1)), Module: m}
		m.ModuleRefs = append(m.ModuleRefs, r)
		if err := b.label(l, rd.Label, r); err != nil {
			return nil, err
		}
	}
	for i, fd := range md.Files {
		f := &metadata.FileDef{Name: fd.Name, Token: metadata.NewToken(metadata.TableFile, uint32(i+1)), ContainsMetadata: !fd.Resource, Module: m}
		m.Files = append(m.Files, f)
		if err := b.label(l, fd.Label, f); err != nil {
			return nil, err
		}
	}

	global := &metadata.TypeDef{Name: metadata.GlobalTypeName, Token: metadata.NewToken(metadata.TableTypeDef, 1), Module: m}
	m.Types = append(m.Types, global)
	if err := b.label(l, metadata.GlobalTypeName, global); err != nil {
		return nil, err
	}
	var methodRid, fieldRid, propertyRid, eventRid uint32
	for i := range md.Types {
		td := &md.Types[i]
		t := global
		if td.Namespace != "" || td.Name != metadata.GlobalTypeName || td.Declaring != "" {
			if td.Name == "" {
				return nil, fmt.Errorf("type %d: name is required", i)
			}
			t = &metadata.TypeDef{
				Namespace: td.Namespace,
				Name:      td.Name,
				Token:     metadata.NewToken(metadata.TableTypeDef, uint32(len(m.Types)+1)),
				Module:    m,
			}
			m.Types = append(m.Types, t)
			if td.Declaring != "" {
				p.declaring[t] = td.Declaring
			}
		}
		if err := b.label(l, td.Label, t); err != nil {
			return nil, err
		}
		for _, d := range td.Methods {
			access, err := parseAccess(d.Access)
			if err != nil {
				return nil, fmt.Errorf("method %s::%s: %w", t, d.Name, err)
			}
			methodRid++
			method := &metadata.MethodDef{
				Token:         metadata.NewToken(metadata.TableMethod, methodRid),
				Name:          d.Name,
				Access:        access,
				Static:        d.Static,
				DeclaringType: t,
			}
			t.Methods = append(t.Methods, method)
			p.methods[method] = d.Sig
			if err := b.label(l, d.Label, method); err != nil {
				return nil, err
			}
		}
		for _, d := range td.Fields {
			access, err := parseAccess(d.Access)
			if err != nil {
				return nil, fmt.Errorf("field %s::%s: %w", t, d.Name, err)
			}
			fieldRid++
			fd := &metadata.FieldDef{
				Token:         metadata.NewToken(metadata.TableField, fieldRid),
				Name:          d.Name,
				Access:        access,
				Static:        d.Static,
				DeclaringType: t,
			}
			t.Fields = append(t.Fields, fd)
			p.fields[fd] = d.Type
			if err := b.label(l, d.Label, fd); err != nil {
				return nil, err
			}
		}
		for _, d := range td.Properties {
			propertyRid++
			pd := &metadata.PropertyDef{
				Token:         metadata.NewToken(metadata.TableProperty, propertyRid),
				Name:          d.Name,
				DeclaringType: t,
			}
			t.Properties = append(t.Properties, pd)
			p.properties[pd] = d.Sig
			if err := b.label(l, d.Label, pd); err != nil {
				return nil, err
			}
		}
		for _, d := range td.Events {
			eventRid++
			ed := &metadata.EventDef{
				Token:         metadata.NewToken(metadata.TableEvent, eventRid),
				Name:          d.Name,
				DeclaringType: t,
			}
			t.Events = append(t.Events, ed)
			p.events[ed] = d.Type
			if err := b.label(l, d.Label, ed); err != nil {
				return nil, err
			}
		}
	}

	for i, rd := range md.TypeRefs {
		r := &metadata.TypeRef{
			Namespace: rd.Namespace,
			Name:      rd.Name,
			Token:     metadata.NewToken(metadata.TableTypeRef, uint32(i+1)),
			Module:    m,
		}
		m.TypeRefs = append(m.TypeRefs, r)
		if err := b.label(l, rd.Label, r); err != nil {
			return nil, err
		}
	}
	for i, sd := range md.TypeSpecs {
		s := &metadata.TypeSpec{Token: metadata.NewToken(metadata.TableTypeSpec, uint32(i+1)), Module: m}
		m.TypeSpecs = append(m.TypeSpecs, s)
		if err := b.label(l, sd.Label, s); err != nil {
			return nil, err
		}
	}
	for i, ed := range md.ExportedTypes {
		e := &metadata.ExportedType{
			Namespace: ed.Namespace,
			Name:      ed.Name,
			Token:     metadata.NewToken(metadata.TableExportedType, uint32(i+1)),
			Module:    m,
		}
		m.ExportedTypes = append(m.ExportedTypes, e)
		if err := b.label(l, ed.Label, e); err != nil {
			return nil, err
		}
	}
	for i, rd := range md.MemberRefs {
		r := &metadata.MemberRef{Name: rd.Name, Token: metadata.NewToken(metadata.TableMemberRef, uint32(i+1)), Module: m}
		m.MemberRefs = append(m.MemberRefs, r)
		if err := b.label(l, rd.Label, r); err != nil {
			return nil, err
		}
	}
	for i, sd := range md.MethodSpecs {
		s := &metadata.MethodSpec{Token: metadata.NewToken(metadata.TableMethodSpec, uint32(i+1)), Module: m}
		m.MethodSpecs = append(m.MethodSpecs, s)
		if err := b.label(l, sd.Label, s); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func parseAccess(s string) (metadata.Access, error) {
	if s == "" {
		return metadata.AccessPublic, nil
	}
	a, ok := metadata.ParseAccess(s)
	if !ok {
		return 0, fmt.Errorf("unknown access %q", s)
	}
	return a, nil
}

// linkRows resolves declaring types, type reference scopes and exported
// type implementations.
func (b *builder) linkRows(p *pending) error {
	l := p.labels
	m := l.module
	for _, t := range m.Types {
		label, ok := p.declaring[t]
		if !ok {
			continue
		}
		n, err := l.get(label)
		if err != nil {
			return fmt.Errorf("type %s: declaring: %w", t.Name, err)
		}
		outer, ok := n.(*metadata.TypeDef)
		if !ok || outer == m.GlobalType() {
			return fmt.Errorf("type %s: declaring: %w: %q", t.Name, ErrLabelKind, label)
		}
		t.DeclaringType = outer
		outer.NestedTypes = append(outer.NestedTypes, t)
	}

	for i, r := range m.TypeRefs {
		scope := p.doc.TypeRefs[i].Scope
		switch scope {
		case "":
		case selfLabel:
			r.ResolutionScope = m
		default:
			n, err := l.get(scope)
			if err != nil {
				return fmt.Errorf("type_ref %s: scope: %w", r.Name, err)
			}
			rs, ok := n.(metadata.ResolutionScope)
			if !ok {
				return fmt.Errorf("type_ref %s: scope: %w: %q", r.Name, ErrLabelKind, scope)
			}
			r.ResolutionScope = rs
		}
	}

	for i, e := range m.ExportedTypes {
		label := p.doc.ExportedTypes[i].Implementation
		n, err := l.get(label)
		if err != nil {
			return fmt.Errorf("exported_type %s: implementation: %w", e.Name, err)
		}
		impl, ok := n.(metadata.Implementation)
		if !ok {
			return fmt.Errorf("exported_type %s: implementation: %w: %q", e.Name, ErrLabelKind, label)
		}
		e.Implementation = impl
	}
	return nil
}

func (b *builder) parseSignatures(p *pending) error {
	l := p.labels
	m := l.module
	lookup := l.typeDefOrRef

	for i, s := range m.TypeSpecs {
		sig, err := ParseTypeSig(p.doc.TypeSpecs[i].Sig, lookup)
		if err != nil {
			return fmt.Errorf("type_spec %d: %w", i+1, err)
		}
		s.Sig = sig
	}
	for _, t := range m.Types {
		for _, md := range t.Methods {
			sig, err := ParseCallSig(p.methods[md], lookup)
			if err != nil {
				return fmt.Errorf("method %s::%s: %w", t, md.Name, err)
			}
			ms, ok := sig.(*metadata.MethodSig)
			if !ok {
				return fmt.Errorf("method %s::%s: not a method signature", t, md.Name)
			}
			md.Signature = ms
		}
		for _, fd := range t.Fields {
			sig, err := ParseTypeSig(p.fields[fd], lookup)
			if err != nil {
				return fmt.Errorf("field %s::%s: %w", t, fd.Name, err)
			}
			fd.Signature = &metadata.FieldSig{Type: sig}
		}
		for _, pd := range t.Properties {
			sig, err := ParseCallSig(p.properties[pd], lookup)
			if err != nil {
				return fmt.Errorf("property %s::%s: %w", t, pd.Name, err)
			}
			ps, ok := sig.(*metadata.PropertySig)
			if !ok {
				return fmt.Errorf("property %s::%s: not a property signature", t, pd.Name)
			}
			pd.Signature = ps
		}
		for _, ed := range t.Events {
			et, err := lookup(p.events[ed])
			if err != nil {
				return fmt.Errorf("event %s::%s: %w", t, ed.Name, err)
			}
			ed.EventType = et
		}
	}

	for i, r := range m.MemberRefs {
		rd := p.doc.MemberRefs[i]
		n, err := l.get(rd.Parent)
		if err != nil {
			return fmt.Errorf("member_ref %s: parent: %w", r.Name, err)
		}
		parent, ok := n.(metadata.MemberRefParent)
		if !ok {
			return fmt.Errorf("member_ref %s: parent: %w: %q", r.Name, ErrLabelKind, rd.Parent)
		}
		r.Class = parent
		if r.Signature, err = ParseCallSig(rd.Sig, lookup); err != nil {
			return fmt.Errorf("member_ref %s: %w", r.Name, err)
		}
	}

	for i, s := range m.MethodSpecs {
		sd := p.doc.MethodSpecs[i]
		n, err := l.get(sd.Method)
		if err != nil {
			return fmt.Errorf("method_spec %d: method: %w", i+1, err)
		}
		method, ok := n.(metadata.MethodDefOrRef)
		if !ok {
			return fmt.Errorf("method_spec %d: method: %w: %q", i+1, ErrLabelKind, sd.Method)
		}
		s.Method = method
		inst := &metadata.GenericInstMethodSig{}
		for _, text := range sd.Args {
			arg, err := ParseTypeSig(text, lookup)
			if err != nil {
				return fmt.Errorf("method_spec %d: %w", i+1, err)
			}
			inst.Args = append(inst.Args, arg)
		}
		s.Instantiation = inst
	}
	return nil
}
