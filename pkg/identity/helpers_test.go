package identity

import "github.com/odvcencio/asmgraft/pkg/metadata"

// newAssemblyModule creates a single-module assembly with its global type.
func newAssemblyModule(asmName string, major uint16) *metadata.Module {
	m := &metadata.Module{Name: asmName + ".dll"}
	m.Assembly = &metadata.Assembly{
		AssemblyName: metadata.AssemblyName{Name: asmName, Version: metadata.Version{Major: major}},
		Modules:      []*metadata.Module{m},
	}
	m.Types = []*metadata.TypeDef{{Name: metadata.GlobalTypeName, Module: m}}
	return m
}

func addType(m *metadata.Module, ns, name string) *metadata.TypeDef {
	td := &metadata.TypeDef{Namespace: ns, Name: name, Module: m}
	m.Types = append(m.Types, td)
	return td
}

func addNested(outer *metadata.TypeDef, name string) *metadata.TypeDef {
	td := &metadata.TypeDef{Name: name, DeclaringType: outer, Module: outer.Module}
	outer.NestedTypes = append(outer.NestedTypes, td)
	outer.Module.Types = append(outer.Module.Types, td)
	return td
}

func addAsmRef(m *metadata.Module, name string, major uint16) *metadata.AssemblyRef {
	r := &metadata.AssemblyRef{
		AssemblyName: metadata.AssemblyName{Name: name, Version: metadata.Version{Major: major}},
		Module:       m,
	}
	m.AssemblyRefs = append(m.AssemblyRefs, r)
	return r
}

func addTypeRef(m *metadata.Module, scope metadata.ResolutionScope, ns, name string) *metadata.TypeRef {
	r := &metadata.TypeRef{Namespace: ns, Name: name, ResolutionScope: scope, Module: m}
	m.TypeRefs = append(m.TypeRefs, r)
	return r
}

func addMethod(td *metadata.TypeDef, name string, sig *metadata.MethodSig) *metadata.MethodDef {
	md := &metadata.MethodDef{Name: name, Access: metadata.AccessPublic, Signature: sig, DeclaringType: td}
	td.Methods = append(td.Methods, md)
	return md
}

func addField(td *metadata.TypeDef, name string, t metadata.TypeSig) *metadata.FieldDef {
	fd := &metadata.FieldDef{Name: name, Access: metadata.AccessPublic, Signature: &metadata.FieldSig{Type: t}, DeclaringType: td}
	td.Fields = append(td.Fields, fd)
	return fd
}

func addMemberRef(m *metadata.Module, parent metadata.MemberRefParent, name string, sig metadata.CallingConventionSig) *metadata.MemberRef {
	r := &metadata.MemberRef{Name: name, Class: parent, Signature: sig, Module: m}
	m.MemberRefs = append(m.MemberRefs, r)
	return r
}

func prim(k metadata.ElementType) *metadata.PrimitiveSig {
	return &metadata.PrimitiveSig{Kind: k}
}

func class(t metadata.TypeDefOrRef) *metadata.ClassSig {
	return &metadata.ClassSig{Type: t}
}

func valueType(t metadata.TypeDefOrRef) *metadata.ClassSig {
	return &metadata.ClassSig{ValueType: true, Type: t}
}

func methodSig(conv metadata.CallingConvention, ret metadata.TypeSig, params ...metadata.TypeSig) *metadata.MethodSig {
	return &metadata.MethodSig{MethodBaseSig: metadata.MethodBaseSig{
		CallingConvention: conv,
		RetType:           ret,
		Params:            params,
	}}
}

// world is a small universe shared by the comparer tests:
//
//	mscorlib 4       System.Object, System.String, System.Int32
//	System.Runtime 8 System.String (a second core library)
//	Impl 1           Lib.Widget, Lib.Widget/Part, Lib.Gadget
//	Facade 1         forwards Lib.Widget to Impl
//	App 1            references into all of the above
//
// Impl and App also carry case variants of <Module> and Lib.Widget.
type world struct {
	u *metadata.Universe

	corlib  *metadata.Module
	runtime *metadata.Module
	impl    *metadata.Module
	facade  *metadata.Module
	app     *metadata.Module

	object, str, int32 *metadata.TypeDef
	runtimeString      *metadata.TypeDef
	widget, part       *metadata.TypeDef
	gadget             *metadata.TypeDef

	appCorlib  *metadata.AssemblyRef
	appRuntime *metadata.AssemblyRef
	appImpl    *metadata.AssemblyRef
	appFacade  *metadata.AssemblyRef

	widgetViaImpl   *metadata.TypeRef
	widgetViaFacade *metadata.TypeRef
	partViaImpl     *metadata.TypeRef
	stringRef       *metadata.TypeRef
	runtimeStrRef   *metadata.TypeRef
	exportedWidget  *metadata.ExportedType
	listOfWidget    *metadata.TypeSpec
	widgetCount     *metadata.FieldDef
	widgetRun       *metadata.MethodDef
	runRef          *metadata.MemberRef
	countRef        *metadata.MemberRef
}

func newWorld() *world {
	w := &world{u: metadata.NewUniverse()}

	w.corlib = newAssemblyModule("mscorlib", 4)
	w.object = addType(w.corlib, "System", "Object")
	w.str = addType(w.corlib, "System", "String")
	w.int32 = addType(w.corlib, "System", "Int32")
	w.u.AddAssembly(w.corlib.Assembly)

	w.runtime = newAssemblyModule("System.Runtime", 8)
	w.runtimeString = addType(w.runtime, "System", "String")
	w.u.AddAssembly(w.runtime.Assembly)

	w.impl = newAssemblyModule("Impl", 1)
	w.widget = addType(w.impl, "Lib", "Widget")
	w.part = addNested(w.widget, "Part")
	w.gadget = addType(w.impl, "Lib", "Gadget")
	addType(w.impl, "", "<MODULE>")
	w.widgetCount = addField(w.widget, "Count", prim(metadata.ElementI4))
	w.widgetRun = addMethod(w.widget, "Run", methodSig(metadata.ConvHasThis, prim(metadata.ElementVoid), prim(metadata.ElementString)))
	w.u.AddAssembly(w.impl.Assembly)

	w.facade = newAssemblyModule("Facade", 1)
	facadeImpl := addAsmRef(w.facade, "Impl", 1)
	w.facade.ExportedTypes = []*metadata.ExportedType{{Namespace: "Lib", Name: "Widget", Implementation: facadeImpl, Module: w.facade}}
	w.exportedWidget = w.facade.ExportedTypes[0]
	w.u.AddAssembly(w.facade.Assembly)

	w.app = newAssemblyModule("App", 1)
	w.appCorlib = addAsmRef(w.app, "mscorlib", 4)
	w.appRuntime = addAsmRef(w.app, "System.Runtime", 8)
	w.appImpl = addAsmRef(w.app, "Impl", 1)
	w.appFacade = addAsmRef(w.app, "Facade", 1)
	w.widgetViaImpl = addTypeRef(w.app, w.appImpl, "Lib", "Widget")
	w.widgetViaFacade = addTypeRef(w.app, w.appFacade, "Lib", "Widget")
	w.partViaImpl = addTypeRef(w.app, w.widgetViaImpl, "", "Part")
	w.stringRef = addTypeRef(w.app, w.appCorlib, "System", "String")
	w.runtimeStrRef = addTypeRef(w.app, w.appRuntime, "System", "String")
	addTypeRef(w.app, w.appImpl, "lib", "WIDGET")
	addTypeRef(w.app, w.appImpl, "", "<module>")
	addTypeRef(w.app, w.app, "", "<MODULE>")

	listRef := addTypeRef(w.app, w.appCorlib, "System.Collections.Generic", "List`1")
	w.listOfWidget = &metadata.TypeSpec{
		Sig: &metadata.GenericInstSig{
			GenericType: class(listRef),
			Args:        []metadata.TypeSig{class(w.widgetViaImpl)},
		},
		Module: w.app,
	}
	w.app.TypeSpecs = append(w.app.TypeSpecs, w.listOfWidget)
	w.runRef = addMemberRef(w.app, w.widgetViaFacade, "Run",
		methodSig(metadata.ConvHasThis, prim(metadata.ElementVoid), prim(metadata.ElementString)))
	w.countRef = addMemberRef(w.app, w.widgetViaImpl, "Count", &metadata.FieldSig{Type: prim(metadata.ElementI4)})
	w.u.AddAssembly(w.app.Assembly)
	return w
}

// types returns every type-system entity of the world plus a few signature
// nodes built over them.
func (w *world) types() []metadata.Type {
	var out []metadata.Type
	for _, m := range w.u.Modules() {
		for _, t := range m.Types {
			out = append(out, t)
		}
		for _, r := range m.TypeRefs {
			out = append(out, r)
		}
		for _, s := range m.TypeSpecs {
			out = append(out, s)
		}
		for _, e := range m.ExportedTypes {
			out = append(out, e)
		}
	}
	out = append(out,
		prim(metadata.ElementString),
		prim(metadata.ElementI4),
		class(w.widget),
		valueType(w.int32),
		&metadata.ModifierSig{Required: true, Modifier: w.object, Next: class(w.stringRef)},
		&metadata.PinnedSig{Next: class(w.widgetViaFacade)},
		&metadata.SZArraySig{Next: class(w.widget)},
	)
	return out
}

func (w *world) members() []metadata.Member {
	var out []metadata.Member
	for _, m := range w.u.Modules() {
		for _, t := range m.Types {
			for _, md := range t.Methods {
				out = append(out, md)
			}
			for _, fd := range t.Fields {
				out = append(out, fd)
			}
		}
		for _, r := range m.MemberRefs {
			out = append(out, r)
		}
	}
	return out
}

// flagSets covers the presets plus the extremes of every toggle.
var flagSets = []Flags{
	0,
	StrictFlags,
	EditorImportFlags,
	DecompilerSearchFlags,
	SignatureMatchFlags,
	CaseInsensitiveAll | CompareDeclaringTypes,
	RawSignatureCompare | IgnoreModifiers | DontCompareReturnType,
	CompareAssemblyFullName | TypeRefCanReferenceGlobalType,
	CaseInsensitiveAll | TypeRefCanReferenceGlobalType,
	CaseInsensitiveAll | TypeRefCanReferenceGlobalType | DontCompareTypeScope,
}
