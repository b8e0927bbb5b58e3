package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/odvcencio/asmgraft/pkg/metadata"
	"github.com/viant/parsly"
)

// TypeLookup maps a module-local label to the type it names.
type TypeLookup func(label string) (metadata.TypeDefOrRef, error)

// maxSigDepth bounds nesting in signature text.
const maxSigDepth = 256

var convKinds = map[string]metadata.CallingConvention{
	"default":      metadata.ConvDefault,
	"c":            metadata.ConvC,
	"stdcall":      metadata.ConvStdCall,
	"thiscall":     metadata.ConvThisCall,
	"fastcall":     metadata.ConvFastCall,
	"vararg":       metadata.ConvVarArg,
	"unmanaged":    metadata.ConvUnmanaged,
	"nativevararg": metadata.ConvNativeVarArg,
}

type sigParser struct {
	text   string
	cursor *parsly.Cursor
	lookup TypeLookup
	depth  int
}

func newSigParser(text string, lookup TypeLookup) *sigParser {
	return &sigParser{
		text:   text,
		cursor: parsly.NewCursor("", []byte(text), 0),
		lookup: lookup,
	}
}

// ParseTypeSig parses a type signature such as "szarray(class(widget))".
func ParseTypeSig(text string, lookup TypeLookup) (metadata.TypeSig, error) {
	p := newSigParser(text, lookup)
	s, err := p.typeSig()
	if err == nil {
		err = p.end()
	}
	if err != nil {
		return nil, fmt.Errorf("parse signature %q: %w", text, err)
	}
	return s, nil
}

// ParseCallSig parses a calling-convention signature: a method signature
// such as "hasthis void(string, i4)", or one of the field(...),
// property ..., locals(...) and instmethod(...) forms.
func ParseCallSig(text string, lookup TypeLookup) (metadata.CallingConventionSig, error) {
	p := newSigParser(text, lookup)
	s, err := p.callSig()
	if err == nil {
		err = p.end()
	}
	if err != nil {
		return nil, fmt.Errorf("parse signature %q: %w", text, err)
	}
	return s, nil
}

func (p *sigParser) end() error {
	p.cursor.MatchOne(whitespaceMatcher)
	if p.cursor.Pos >= p.cursor.InputSize {
		return nil
	}
	return fmt.Errorf("unexpected input at offset %d: %q", p.cursor.Pos, p.text[p.cursor.Pos:])
}

func (p *sigParser) expect(tok *parsly.Token) error {
	m := p.cursor.MatchAfterOptional(whitespaceMatcher, tok)
	if m.Code != tok.Code {
		return p.cursor.NewError(tok)
	}
	return nil
}

func (p *sigParser) word() (string, int, error) {
	m := p.cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
	if m.Code != identifierToken {
		return "", 0, p.cursor.NewError(identifierMatcher)
	}
	return m.Text(p.cursor), m.Offset, nil
}

func (p *sigParser) number() (string, error) {
	m := p.cursor.MatchAfterOptional(whitespaceMatcher, numberMatcher)
	if m.Code != numberToken {
		return "", p.cursor.NewError(numberMatcher)
	}
	return m.Text(p.cursor), nil
}

func (p *sigParser) integer() (int64, error) {
	text, err := p.number()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(text, 10, 32)
}

func (p *sigParser) unsigned() (uint32, error) {
	text, err := p.number()
	if err != nil {
		return 0, err
	}
	if strings.HasPrefix(text, "-") {
		return 0, fmt.Errorf("expected a non-negative number at offset %d", p.cursor.Pos)
	}
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// parenthesized parses "(n)".
func (p *sigParser) parenthesized() (uint32, error) {
	if err := p.expect(openMatcher); err != nil {
		return 0, err
	}
	n, err := p.unsigned()
	if err != nil {
		return 0, err
	}
	return n, p.expect(closeMatcher)
}

func (p *sigParser) label() (metadata.TypeDefOrRef, error) {
	name, offset, err := p.word()
	if err != nil {
		return nil, err
	}
	if p.lookup == nil {
		return nil, fmt.Errorf("%w %q at offset %d", ErrUnknownLabel, name, offset)
	}
	t, err := p.lookup(name)
	if err != nil {
		return nil, fmt.Errorf("at offset %d: %w", offset, err)
	}
	return t, nil
}

func (p *sigParser) typeSig() (metadata.TypeSig, error) {
	word, offset, err := p.word()
	if err != nil {
		return nil, err
	}
	return p.typeSigNamed(word, offset)
}

func (p *sigParser) typeSigNamed(word string, offset int) (metadata.TypeSig, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxSigDepth {
		return nil, fmt.Errorf("signature nested too deeply at offset %d", offset)
	}

	switch word {
	case "class", "valuetype":
		return p.classSig(word == "valuetype")
	case "ptr", "byref", "szarray", "pinned":
		next, err := p.wrapped()
		if err != nil {
			return nil, err
		}
		switch word {
		case "ptr":
			return &metadata.PtrSig{Next: next}, nil
		case "byref":
			return &metadata.ByRefSig{Next: next}, nil
		case "szarray":
			return &metadata.SZArraySig{Next: next}, nil
		}
		return &metadata.PinnedSig{Next: next}, nil
	case "array":
		return p.arraySig()
	case "modreq", "modopt":
		return p.modifierSig(word == "modreq")
	case "inst":
		return p.genericInstSig()
	case "var", "mvar":
		n, err := p.parenthesized()
		if err != nil {
			return nil, err
		}
		return &metadata.GenericVarSig{MethodLevel: word == "mvar", Number: n}, nil
	case "fnptr":
		if err := p.expect(openMatcher); err != nil {
			return nil, err
		}
		word, offset, err := p.word()
		if err != nil {
			return nil, err
		}
		sig, err := p.methodSig(word, offset)
		if err != nil {
			return nil, err
		}
		return &metadata.FnPtrSig{Sig: sig}, p.expect(closeMatcher)
	}
	if e, ok := metadata.ParseElementType(word); ok && e.IsPrimitive() {
		return &metadata.PrimitiveSig{Kind: e}, nil
	}
	return nil, fmt.Errorf("unknown signature element %q at offset %d", word, offset)
}

// wrapped parses "(sig)".
func (p *sigParser) wrapped() (metadata.TypeSig, error) {
	if err := p.expect(openMatcher); err != nil {
		return nil, err
	}
	next, err := p.typeSig()
	if err != nil {
		return nil, err
	}
	return next, p.expect(closeMatcher)
}

func (p *sigParser) classSig(valueType bool) (*metadata.ClassSig, error) {
	if err := p.expect(openMatcher); err != nil {
		return nil, err
	}
	t, err := p.label()
	if err != nil {
		return nil, err
	}
	return &metadata.ClassSig{ValueType: valueType, Type: t}, p.expect(closeMatcher)
}

func (p *sigParser) modifierSig(required bool) (metadata.TypeSig, error) {
	if err := p.expect(openMatcher); err != nil {
		return nil, err
	}
	mod, err := p.label()
	if err != nil {
		return nil, err
	}
	if err := p.expect(commaMatcher); err != nil {
		return nil, err
	}
	next, err := p.typeSig()
	if err != nil {
		return nil, err
	}
	return &metadata.ModifierSig{Required: required, Modifier: mod, Next: next}, p.expect(closeMatcher)
}

// arraySig parses "array(sig, rank[, [sizes...][, [lower bounds...]]])".
func (p *sigParser) arraySig() (metadata.TypeSig, error) {
	if err := p.expect(openMatcher); err != nil {
		return nil, err
	}
	next, err := p.typeSig()
	if err != nil {
		return nil, err
	}
	if err := p.expect(commaMatcher); err != nil {
		return nil, err
	}
	rank, err := p.unsigned()
	if err != nil {
		return nil, err
	}
	arr := &metadata.ArraySig{Next: next, Rank: rank}
	for list := 0; ; list++ {
		m := p.cursor.MatchAfterOptional(whitespaceMatcher, commaMatcher, closeMatcher)
		switch {
		case m.Code == closeToken:
			return arr, nil
		case m.Code == commaToken && list == 0:
			err := p.numberList(func() error {
				n, err := p.unsigned()
				arr.Sizes = append(arr.Sizes, n)
				return err
			})
			if err != nil {
				return nil, err
			}
		case m.Code == commaToken && list == 1:
			err := p.numberList(func() error {
				n, err := p.integer()
				arr.LowerBounds = append(arr.LowerBounds, int32(n))
				return err
			})
			if err != nil {
				return nil, err
			}
		default:
			return nil, p.cursor.NewError(closeMatcher)
		}
	}
}

// numberList parses "[n, n, ...]", calling each once per element.
func (p *sigParser) numberList(each func() error) error {
	if err := p.expect(openListMatcher); err != nil {
		return err
	}
	m := p.cursor.MatchAfterOptional(whitespaceMatcher, closeListMatcher)
	if m.Code == closeListToken {
		return nil
	}
	for {
		if err := each(); err != nil {
			return err
		}
		m := p.cursor.MatchAfterOptional(whitespaceMatcher, commaMatcher, closeListMatcher)
		switch m.Code {
		case commaToken:
		case closeListToken:
			return nil
		default:
			return p.cursor.NewError(commaMatcher, closeListMatcher)
		}
	}
}

func (p *sigParser) genericInstSig() (metadata.TypeSig, error) {
	if err := p.expect(openMatcher); err != nil {
		return nil, err
	}
	word, offset, err := p.word()
	if err != nil {
		return nil, err
	}
	if word != "class" && word != "valuetype" {
		return nil, fmt.Errorf("generic instance needs class or valuetype at offset %d, got %q", offset, word)
	}
	generic, err := p.classSig(word == "valuetype")
	if err != nil {
		return nil, err
	}
	inst := &metadata.GenericInstSig{GenericType: generic}
	for {
		m := p.cursor.MatchAfterOptional(whitespaceMatcher, commaMatcher, closeMatcher)
		switch m.Code {
		case commaToken:
			arg, err := p.typeSig()
			if err != nil {
				return nil, err
			}
			inst.Args = append(inst.Args, arg)
		case closeToken:
			if len(inst.Args) == 0 {
				return nil, fmt.Errorf("generic instance without arguments at offset %d", offset)
			}
			return inst, nil
		default:
			return nil, p.cursor.NewError(commaMatcher, closeMatcher)
		}
	}
}

// sigList parses "(sig, sig, ...)"; the list may be empty.
func (p *sigParser) sigList() ([]metadata.TypeSig, error) {
	if err := p.expect(openMatcher); err != nil {
		return nil, err
	}
	var out []metadata.TypeSig
	m := p.cursor.MatchAfterOptional(whitespaceMatcher, closeMatcher)
	if m.Code == closeToken {
		return out, nil
	}
	for {
		s, err := p.typeSig()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		m := p.cursor.MatchAfterOptional(whitespaceMatcher, commaMatcher, closeMatcher)
		switch m.Code {
		case commaToken:
		case closeToken:
			return out, nil
		default:
			return nil, p.cursor.NewError(commaMatcher, closeMatcher)
		}
	}
}

func (p *sigParser) callSig() (metadata.CallingConventionSig, error) {
	word, offset, err := p.word()
	if err != nil {
		return nil, err
	}
	switch word {
	case "field":
		t, err := p.wrapped()
		if err != nil {
			return nil, err
		}
		return &metadata.FieldSig{Type: t}, nil
	case "locals":
		list, err := p.sigList()
		if err != nil {
			return nil, err
		}
		return &metadata.LocalSig{Locals: list}, nil
	case "instmethod":
		list, err := p.sigList()
		if err != nil {
			return nil, err
		}
		return &metadata.GenericInstMethodSig{Args: list}, nil
	case "property":
		word, offset, err := p.word()
		if err != nil {
			return nil, err
		}
		base, err := p.methodBaseSig(word, offset)
		if err != nil {
			return nil, err
		}
		base.CallingConvention = base.CallingConvention&^metadata.ConvMask | metadata.ConvProperty
		return &metadata.PropertySig{MethodBaseSig: *base}, nil
	}
	return p.methodSig(word, offset)
}

func (p *sigParser) methodSig(word string, offset int) (*metadata.MethodSig, error) {
	base, err := p.methodBaseSig(word, offset)
	if err != nil {
		return nil, err
	}
	return &metadata.MethodSig{MethodBaseSig: *base}, nil
}

// methodBaseSig parses "[generic(n)] [hasthis] [explicitthis] [kind] ret(params[; varargs])"
// starting at the already consumed word.
func (p *sigParser) methodBaseSig(word string, offset int) (*metadata.MethodBaseSig, error) {
	sig := &metadata.MethodBaseSig{}
	for {
		if word == "generic" {
			n, err := p.parenthesized()
			if err != nil {
				return nil, err
			}
			sig.CallingConvention |= metadata.ConvGeneric
			sig.GenParamCount = n
		} else if word == "hasthis" {
			sig.CallingConvention |= metadata.ConvHasThis
		} else if word == "explicitthis" {
			sig.CallingConvention |= metadata.ConvExplicitThis
		} else if kind, ok := convKinds[word]; ok {
			sig.CallingConvention |= kind
		} else {
			break
		}
		var err error
		if word, offset, err = p.word(); err != nil {
			return nil, err
		}
	}

	ret, err := p.typeSigNamed(word, offset)
	if err != nil {
		return nil, err
	}
	sig.RetType = ret
	sig.Params, sig.ParamsAfterSentinel, err = p.paramList()
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// paramList parses "(p, p; v, v)" where the parameters after ';' follow the
// vararg sentinel.
func (p *sigParser) paramList() (params, varargs []metadata.TypeSig, err error) {
	if err := p.expect(openMatcher); err != nil {
		return nil, nil, err
	}
	list := &params
	sentinel := false
	m := p.cursor.MatchAfterOptional(whitespaceMatcher, closeMatcher, semicolonMatcher)
	switch m.Code {
	case closeToken:
		return nil, nil, nil
	case semicolonToken:
		list, sentinel = &varargs, true
	}
	for {
		s, err := p.typeSig()
		if err != nil {
			return nil, nil, err
		}
		*list = append(*list, s)
		m := p.cursor.MatchAfterOptional(whitespaceMatcher, commaMatcher, semicolonMatcher, closeMatcher)
		switch {
		case m.Code == commaToken:
		case m.Code == semicolonToken && !sentinel:
			list, sentinel = &varargs, true
		case m.Code == closeToken:
			return params, varargs, nil
		default:
			return nil, nil, p.cursor.NewError(commaMatcher, closeMatcher)
		}
	}
}
