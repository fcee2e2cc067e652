package asm

import "testing"

func TestLex(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line string
		want []Token
	}{
		{
			name: "comment only",
			line: "  ; a comment",
			want: nil,
		},
		{
			name: "label and opcode",
			line: "LOOP  AND R1,R1,R2 ; clear",
			want: []Token{
				{Text: "LOOP", Type: TokenLabel},
				{Text: "AND", Type: TokenOpcode},
				{Text: "R1", Type: TokenRegister},
				{Text: "R1", Type: TokenRegister},
				{Text: "R2", Type: TokenRegister},
			},
		},
		{
			name: "label with colon",
			line: "START: .ORIG x3000",
			want: []Token{
				{Text: "START:", Type: TokenLabel},
				{Text: ".ORIG", Type: TokenDirective},
				{Text: "x3000", Type: TokenConst},
			},
		},
		{
			name: "named trap routine",
			line: "  PUTS",
			want: []Token{
				{Text: "PUTS", Type: TokenTrap},
			},
		},
		{
			name: "stringz with spaces and a semicolon inside the string",
			line: `MSG .STRINGZ "Hello; World"  ; a string literal with a semicolon inside`,
			want: []Token{
				{Text: "MSG", Type: TokenLabel},
				{Text: ".STRINGZ", Type: TokenDirective},
				{Text: `"Hello; World"`, Type: TokenString},
			},
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Lex(tc.line)

			if len(got) != len(tc.want) {
				t.Fatalf("Lex(%q) = %#v, want %#v", tc.line, got, tc.want)
			}

			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Lex(%q)[%d] = %#v, want %#v", tc.line, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{`hello`, "hello"},
		{`hello\nworld`, "hello\nworld"},
		{`a\tb`, "a\tb"},
		{`quote\"here`, `quote"here`},
		{`back\\slash`, `back\slash`},
		{`trailing\`, `trailing\`},
	}

	for _, tc := range cases {
		if got := unescape(tc.in); got != tc.want {
			t.Errorf("unescape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
