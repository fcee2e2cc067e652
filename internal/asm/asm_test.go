package asm_test

import (
	"strings"
	"testing"

	. "github.com/Featherball1/lc3asm/internal/asm"
	"github.com/Featherball1/lc3asm/internal/lc3"
)

// assemble runs both passes over src and returns the resulting object code, failing the test on
// any error.
func assemble(t *testing.T, src string) lc3.ObjectCode {
	t.Helper()

	parser := NewParser(nil)
	parser.Parse(strings.NewReader(src))

	if err := parser.Err(); err != nil {
		t.Fatalf("parse: %s", err)
	}

	gen := NewGenerator(parser.Symbols(), parser.Syntax())

	obj, err := gen.Assemble()
	if err != nil {
		t.Fatalf("generate: %s", err)
	}

	return obj
}

// TestScenarios exercises small complete programs against the exact object code both assembler
// passes must produce for them.
func TestScenarios(t *testing.T) {
	t.Parallel()

	t.Run("S1 HALT", func(t *testing.T) {
		t.Parallel()

		obj := assemble(t, ".ORIG x3000\nHALT\n.END\n")

		want := []lc3.Word{0xF025}
		assertWords(t, obj, 0x3000, want)
	})

	t.Run("S2 LEA PUTS HALT STRINGZ", func(t *testing.T) {
		t.Parallel()

		obj := assemble(t, ".ORIG x3000\nLEA R0, MSG\nPUTS\nHALT\nMSG .STRINGZ \"Hi\"\n.END\n")

		want := []lc3.Word{0xE002, 0xF022, 0xF025, 0x0048, 0x0069, 0x0000}
		assertWords(t, obj, 0x3000, want)
	})

	t.Run("S3 ADD immediate", func(t *testing.T) {
		t.Parallel()

		obj := assemble(t, ".ORIG x3000\nADD R1, R1, #1\n.END\n")

		assertWords(t, obj, 0x3000, []lc3.Word{0x1263})
	})

	t.Run("S4 backward branch", func(t *testing.T) {
		t.Parallel()

		obj := assemble(t, ".ORIG x3000\nLOOP ADD R0, R0, #-1\nBRp LOOP\n.END\n")

		assertWords(t, obj, 0x3000, []lc3.Word{0x103F, 0x03FE})
	})

	t.Run("S5 duplicate label is a fatal error", func(t *testing.T) {
		t.Parallel()

		parser := NewParser(nil)
		parser.Parse(strings.NewReader(".ORIG x3000\nLOOP AND R0,R0,#0\nLOOP AND R0,R0,#0\n.END\n"))

		if err := parser.Err(); err == nil {
			t.Fatal("expected a duplicate-label error")
		}
	})

	t.Run("S6 imm5 out of range is a fatal error", func(t *testing.T) {
		t.Parallel()

		parser := NewParser(nil)
		parser.Parse(strings.NewReader(".ORIG x3000\nADD R0, R0, #32\n.END\n"))

		if err := parser.Err(); err == nil {
			t.Fatal("expected an out-of-range error")
		}
	})
}

// TestAssemble_EmptyStringz checks that an empty string still gets its terminating NUL word.
func TestAssemble_EmptyStringz(t *testing.T) {
	t.Parallel()

	obj := assemble(t, ".ORIG x3000\n.STRINGZ \"\"\n.END\n")

	assertWords(t, obj, 0x3000, []lc3.Word{0x0000})
}

// TestAssemble_ReferencesAcrossData checks that a forward reference resolves correctly when .BLKW
// and .STRINGZ reservations sit between the instruction and its target.
func TestAssemble_ReferencesAcrossData(t *testing.T) {
	t.Parallel()

	obj := assemble(t, `
.ORIG x3000
       LD R0, DATA
       .BLKW 2
MSG    .STRINGZ "ok"
DATA   .FILL x00ff
       .END
`)

	// DATA is at x3006; LD at x3000 encodes offset x3006 - x3001 = 5.
	want := []lc3.Word{0x2005, 0x0000, 0x0000, 0x006F, 0x006B, 0x0000, 0x00FF}
	assertWords(t, obj, 0x3000, want)
}

// TestGenerator_UndefinedSymbol checks that a reference to a label no line defines survives pass
// one and is caught as a fatal error in pass two.
func TestGenerator_UndefinedSymbol(t *testing.T) {
	t.Parallel()

	parser := NewParser(nil)
	parser.Parse(strings.NewReader(".ORIG x3000\nLEA R0, NOWHERE\n.END\n"))

	if err := parser.Err(); err != nil {
		t.Fatalf("parse: %s", err)
	}

	gen := NewGenerator(parser.Symbols(), parser.Syntax())

	if _, err := gen.Assemble(); err == nil {
		t.Fatal("expected an undefined-symbol error")
	}
}

func assertWords(t *testing.T, obj lc3.ObjectCode, wantOrig lc3.Word, want []lc3.Word) {
	t.Helper()

	if obj.Orig != wantOrig {
		t.Errorf("orig = %s, want %s", obj.Orig, wantOrig)
	}

	if len(obj.Code) != len(want) {
		t.Fatalf("code = %v, want %v", obj.Code, want)
	}

	for i := range want {
		if obj.Code[i] != want[i] {
			t.Errorf("word %d = %s, want %s", i, obj.Code[i], want[i])
		}
	}
}

// TestSymbolTable_Offset_Boundaries exercises the PC-relative offset range check at its edges:
// -256/255 for a 9-bit field, and the off-by-one errors just past them.
func TestSymbolTable_Offset_Boundaries(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name    string
		target  lc3.Word
		pc      lc3.Word
		wantErr bool
	}{
		{"min in range", 0x2f00, 0x3000, false},  // delta = -256
		{"max in range", 0x30ff, 0x3000, false},  // delta = 255
		{"min out of range", 0x2eff, 0x3000, true}, // delta = -257
		{"max out of range", 0x3100, 0x3000, true}, // delta = 256
		{"forward across 0x8000", 0x8005, 0x7fff, false}, // delta = 6
		{"backward across 0x8000", 0x7ffe, 0x8001, false}, // delta = -3
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			symbols := SymbolTable{"TARGET": tc.target}

			_, err := symbols.Offset("TARGET", tc.pc, 9)
			if tc.wantErr && err == nil {
				t.Fatal("expected an offset-range error")
			} else if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
		})
	}
}

// TestSymbolTable_Offset_CrossesSignBoundary pins the offset value itself when the reference
// straddles 0x8000: the addresses differ wildly as signed numbers, but the distance between them
// is small and must encode as such.
func TestSymbolTable_Offset_CrossesSignBoundary(t *testing.T) {
	t.Parallel()

	symbols := SymbolTable{"AHEAD": 0x8005, "BEHIND": 0x7ffe}

	got, err := symbols.Offset("AHEAD", 0x7fff, 9)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if got != 6 {
		t.Errorf("offset = %#03x, want 6", got)
	}

	got, err = symbols.Offset("BEHIND", 0x8001, 9)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if got != 0x1fd { // -3 in 9-bit two's complement
		t.Errorf("offset = %#03x, want 0x1fd", got)
	}
}

func TestSymbolTable_Offset_UndefinedSymbol(t *testing.T) {
	t.Parallel()

	symbols := SymbolTable{}

	if _, err := symbols.Offset("NOPE", 0x3000, 9); err == nil {
		t.Fatal("expected a symbol error")
	}
}
