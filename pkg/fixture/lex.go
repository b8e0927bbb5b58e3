package fixture

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken = iota
	identifierToken
	numberToken
	openToken
	closeToken
	openListToken
	closeListToken
	commaToken
	semicolonToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var identifierMatcher = parsly.NewToken(identifierToken, "Identifier", &identifierMatch{})
var numberMatcher = parsly.NewToken(numberToken, "Number", &integerMatch{})
var openMatcher = parsly.NewToken(openToken, "(", matcher.NewByte('('))
var closeMatcher = parsly.NewToken(closeToken, ")", matcher.NewByte(')'))
var openListMatcher = parsly.NewToken(openListToken, "[", matcher.NewByte('['))
var closeListMatcher = parsly.NewToken(closeListToken, "]", matcher.NewByte(']'))
var commaMatcher = parsly.NewToken(commaToken, ",", matcher.NewByte(','))
var semicolonMatcher = parsly.NewToken(semicolonToken, ";", matcher.NewByte(';'))

// identifierMatch matches keywords and labels: a letter or underscore
// followed by letters, digits and the punctuation type names carry.
type identifierMatch struct{}

func (i *identifierMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	if !isIdentifierStart(cursor.Input[cursor.Pos]) {
		return 0
	}
	pos := cursor.Pos + 1
	for pos < cursor.InputSize && isIdentifierPart(cursor.Input[pos]) {
		pos++
	}
	return pos - cursor.Pos
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || isDigit(b) || b == '.' || b == '`' || b == '-'
}

// integerMatch matches an optionally negative decimal integer.
type integerMatch struct{}

func (n *integerMatch) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	if pos < cursor.InputSize && cursor.Input[pos] == '-' {
		pos++
	}
	start := pos
	for pos < cursor.InputSize && isDigit(cursor.Input[pos]) {
		pos++
	}
	if pos == start {
		return 0
	}
	return pos - cursor.Pos
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
