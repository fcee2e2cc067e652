package asm

// lex.go tokenizes a single line of LC3ASM source into words the parser can classify and dispatch
// on. It exists mainly to get STRINGZ right: a naive split on whitespace breaks any quoted string
// that contains a space, so quoted text is recognized and consumed as one token here, before
// operand splitting ever sees it.

import (
	"strings"
)

// TokenType classifies a lexical token.
type TokenType int

// Token kinds.
const (
	TokenNull TokenType = iota
	TokenLabel
	TokenOpcode
	TokenDirective
	TokenTrap
	TokenRegister
	TokenString
	TokenConst
)

func (t TokenType) String() string {
	switch t {
	case TokenLabel:
		return "LABEL"
	case TokenOpcode:
		return "OPCODE"
	case TokenDirective:
		return "DIRECTIVE"
	case TokenTrap:
		return "TRAP"
	case TokenRegister:
		return "REGISTER"
	case TokenString:
		return "STRING"
	case TokenConst:
		return "CONST"
	default:
		return "NULL"
	}
}

// Token is a single lexical unit of a source line: operator, operand or comment-stripped
// remainder.
type Token struct {
	Text string
	Type TokenType
}

// stripComment removes a trailing ';' comment from a line, respecting quoted strings so a ';'
// inside a STRINGZ literal isn't mistaken for one.
func stripComment(line string) string {
	inString, escaped := false, false

	for i, r := range line {
		if escaped {
			escaped = false
			continue
		}

		switch r {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case ';':
			if !inString {
				return line[:i]
			}
		}
	}

	return line
}

// splitFields splits a line into raw fields on whitespace and commas, keeping any double-quoted
// string as a single field regardless of the whitespace it contains. This is the fix for the
// classic STRINGZ bug: `.STRINGZ "hello world"` must not become four fields.
func splitFields(line string) []string {
	var fields []string

	var buf strings.Builder

	inString, escaped := false, false
	flush := func() {
		if buf.Len() > 0 {
			fields = append(fields, buf.String())
			buf.Reset()
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			escaped = false
			buf.WriteRune(r)
		case inString && r == '\\':
			escaped = true
			buf.WriteRune(r)
		case r == '"':
			inString = !inString
			buf.WriteRune(r)

			if !inString {
				flush()
			}
		case inString:
			buf.WriteRune(r)
		case r == ',' || r == ' ' || r == '\t':
			flush()
		default:
			buf.WriteRune(r)
		}
	}

	flush()

	return fields
}

// Lex tokenizes one line of source, stripping comments and returning the label (if any), the
// opcode or directive, and the remaining operand fields in source order. Classification of each
// operand field (register, literal, string, symbol) is left to the individual Operation's Parse
// method, which knows what it expects.
func Lex(line string) []Token {
	text := stripComment(line)

	fields := splitFields(text)

	tokens := make([]Token, 0, len(fields))

	for i, f := range fields {
		tok := Token{Text: f, Type: classify(f)}

		// The first field on a line is a label only if it isn't itself recognizable as an
		// opcode, directive, register or literal -- "LOOP AND R1,R1,R2" binds LOOP as a
		// label, but a line that starts with a bare opcode or a literal operand does not.
		if i == 0 && tok.Type == TokenConst && !looksLikeLiteral(f) {
			tok.Type = TokenLabel
		}

		tokens = append(tokens, tok)
	}

	return tokens
}

func classify(field string) TokenType {
	switch {
	case field == "":
		return TokenNull
	case strings.HasPrefix(field, `"`):
		return TokenString
	case isRegister(field):
		return TokenRegister
	case isDirective(field):
		return TokenDirective
	case isOpcode(field):
		return TokenOpcode
	case isTrap(field):
		return TokenTrap
	default:
		return TokenConst
	}
}

func isRegister(field string) bool {
	if len(field) != 2 {
		return false
	}

	if field[0] != 'R' && field[0] != 'r' {
		return false
	}

	return field[1] >= '0' && field[1] <= '7'
}

func isDirective(field string) bool {
	return strings.HasPrefix(field, ".")
}

var opcodes = map[string]bool{
	"BR": true, "BRN": true, "BRZ": true, "BRP": true, "BRNZ": true, "BRNP": true,
	"BRZP": true, "BRNZP": true,
	"ADD": true, "AND": true, "NOT": true,
	"LD": true, "LDI": true, "LDR": true, "LEA": true,
	"ST": true, "STI": true, "STR": true,
	"JMP": true, "JSR": true, "JSRR": true, "RET": true,
	"RTI": true, "TRAP": true,
}

// traps are the named trap-routine mnemonics, each a TRAP with a fixed vector.
var traps = map[string]bool{
	"GETC": true, "OUT": true, "PUTS": true, "IN": true, "PUTSP": true, "HALT": true,
}

func isOpcode(field string) bool {
	return opcodes[strings.ToUpper(field)]
}

func isTrap(field string) bool {
	return traps[strings.ToUpper(field)]
}

// looksLikeLiteral reports whether a field has the prefix of a literal operand ('#', 'x'/'X',
// 'b'/'B' followed by a digit) rather than a label identifier.
func looksLikeLiteral(f string) bool {
	if len(f) < 2 {
		return false
	}

	switch f[0] {
	case '#':
		return true
	case 'x', 'X', 'b', 'B':
		return f[1] >= '0' && f[1] <= '9'
	default:
		return false
	}
}
