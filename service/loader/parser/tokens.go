package parser

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes (arbitrary but unique; start at 1 to avoid clash with parsly.EOF).
const (
	whitespaceCode = iota + 1
	identifierCode
	numberCode
	openParenCode
	closeParenCode
	messageCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	identifierToken = parsly.NewToken(identifierCode, "Identifier", newIdentifierMatcher())
	numberToken     = parsly.NewToken(numberCode, "Number", newNumberMatcher())
	openParenToken  = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
	messageToken    = parsly.NewToken(messageCode, "Message", newMessageMatcher())
)

func newIdentifierMatcher() parsly.Matcher {
	return &identifierMatcher{}
}

func newNumberMatcher() parsly.Matcher {
	return &numberMatcher{}
}

func newMessageMatcher() parsly.Matcher {
	return &messageMatcher{}
}

// identifierMatcher matches process, resource and mailbox names
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

// numberMatcher matches a process priority
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if !isDigit(input[i]) {
			break
		}
		matched++
	}
	return matched
}

// messageMatcher captures a send/recv payload: everything up to the
// closing parenthesis of the instruction
type messageMatcher struct{}

func (m *messageMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == ')' {
			break
		}
		matched++
	}
	return matched
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
