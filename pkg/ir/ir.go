// Package ir defines the Intermediate Representation emitted for component blocks.
// YAIL is a Scheme dialect; every form is assembled as a typed tree and
// serialized once by Render, so parenthesization and quoting are decided by
// the node types rather than by string splicing:
// - Symbol and Quote for names ('Button1, 'SetText)
// - Str and EscapedStr for string literals
// - List for combinations
// - Raw for text produced by a collaborator (nested blocks)
package ir

import "strings"

// Node is a YAIL expression.
type Node interface {
	irNode()
	write(sb *strings.Builder)
}

// Symbol is a bare identifier, e.g. define-event or Button1.
type Symbol string

func (Symbol) irNode() {}

func (s Symbol) write(sb *strings.Builder) { sb.WriteString(string(s)) }

// Quote prefixes its node with a single quote.
type Quote struct {
	Node Node
}

func (Quote) irNode() {}

func (q Quote) write(sb *strings.Builder) {
	sb.WriteByte('\'')
	q.Node.write(sb)
}

// Str is a string literal. Backslashes and double quotes are escaped on render.
type Str string

func (Str) irNode() {}

func (s Str) write(sb *strings.Builder) {
	sb.WriteByte('"')
	sb.WriteString(EscapeString(string(s)))
	sb.WriteByte('"')
}

// EscapedStr is a string literal whose contents were already escaped with
// EscapeString. It is written between double quotes verbatim.
type EscapedStr string

func (EscapedStr) irNode() {}

func (s EscapedStr) write(sb *strings.Builder) {
	sb.WriteByte('"')
	sb.WriteString(string(s))
	sb.WriteByte('"')
}

// List is a parenthesized combination.
type List []Node

func (List) irNode() {}

func (l List) write(sb *strings.Builder) {
	sb.WriteByte('(')
	for i, n := range l {
		if i > 0 {
			sb.WriteByte(' ')
		}
		n.write(sb)
	}
	sb.WriteByte(')')
}

// Raw is pre-rendered YAIL text, written verbatim.
type Raw string

func (Raw) irNode() {}

func (r Raw) write(sb *strings.Builder) { sb.WriteString(string(r)) }

// Render serializes a node to YAIL text.
func Render(n Node) string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// EscapeString escapes backslashes and double quotes so s can be placed
// inside a YAIL string literal.
func EscapeString(s string) string {
	return stringEscaper.Replace(s)
}

var stringUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`)

// UnescapeString reverses EscapeString.
func UnescapeString(s string) string {
	return stringUnescaper.Replace(s)
}
