package asm

// ops.go implements parsing and code generation for every opcode and assembler directive.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/Featherball1/lc3asm/internal/lc3"
)

// sizer is implemented by operations that occupy more or less than one word of object code: the
// directives. The parser uses it during pass one to advance the location counter; instructions
// don't need it since every LC-3 instruction is exactly one word.
type sizer interface {
	Size() int
}

// parseRegister parses a register operand ("R0".."R7") and returns its GPR encoding.
func parseRegister(tok string) (lc3.GPR, error) {
	if len(tok) != 2 || (tok[0] != 'R' && tok[0] != 'r') || tok[1] < '0' || tok[1] > '7' {
		return lc3.BadGPR, fmt.Errorf("%w: not a register: %q", ErrOperand, tok)
	}

	return lc3.GPR(tok[1] - '0'), nil
}

// parseIntToken parses a prefixed literal: '#' decimal, 'x'/'X' hex, 'b'/'B' binary, or a bare
// decimal integer.
func parseIntToken(tok string) (int64, error) {
	if tok == "" {
		return 0, fmt.Errorf("empty token")
	}

	switch tok[0] {
	case '#':
		return strconv.ParseInt(tok[1:], 10, 64)
	case 'x', 'X':
		return strconv.ParseInt(tok[1:], 16, 64)
	case 'b', 'B':
		return strconv.ParseInt(tok[1:], 2, 64)
	default:
		return strconv.ParseInt(tok, 10, 64)
	}
}

// parseImmediate parses an operand that may be either a prefixed literal or a bare symbol
// reference, for instructions whose final operand can be either (BR, LD, LEA, LDI, the immediate
// forms of ADD/AND, JSR). It returns the bit pattern to OR into the instruction (already masked to
// n bits) along with the symbol name, if any -- exactly one of the two is meaningful.
func parseImmediate(tok string, bits uint8) (val uint16, symbol string, err error) {
	if tok == "" {
		return 0, "", fmt.Errorf("%w: empty operand", ErrOperand)
	}

	switch tok[0] {
	case '#', 'x', 'X', 'b', 'B':
		n, err := parseIntToken(tok)
		if err != nil {
			if tok[0] != '#' {
				// Not a hex or binary number after all, but an identifier such as BACK or XLOOP.
				return 0, tok, nil
			}

			return 0, "", fmt.Errorf("%w: %q", ErrLiteral, tok)
		}

		lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
		if n < lo || n > hi {
			return 0, "", &LiteralRangeError{Literal: tok, Bits: bits}
		}

		mask := uint16(1)<<bits - 1

		return uint16(n) & mask, "", nil
	default:
		return 0, tok, nil
	}
}

// parseLiteral parses an operand that must be a literal constant, never a symbol: trap vectors and
// the operands of .FILL, .BLKW and .ORIG. Unlike parseImmediate's signed instruction fields, these
// are raw words: a caller may write the full bit pattern as unsigned hex/binary (".FILL xFFFF",
// ".ORIG x8000") or as a negative two's-complement decimal (".FILL #-1") -- both must be accepted
// and produce the same bits, so the valid range is the union of the signed and unsigned
// interpretations of the field: [-2^(bits-1), 2^bits - 1].
func parseLiteral(tok string, bits uint8) (uint16, error) {
	n, err := parseIntToken(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrLiteral, tok)
	}

	lo, hi := -(int64(1) << (bits - 1)), int64(1)<<bits-1
	if n < lo || n > hi {
		return 0, &LiteralRangeError{Literal: tok, Bits: bits}
	}

	mask := uint16(1)<<bits - 1

	return uint16(n) & mask, nil
}

// BR: Conditional branch.
//
//	BR    [ IDENT | LITERAL ]
//	BRn   [ IDENT | LITERAL ]
//	BRz   [ IDENT | LITERAL ]
//	BRp   [ IDENT | LITERAL ]
//	BRnz  [ IDENT | LITERAL ]
//	BRnp  [ IDENT | LITERAL ]
//	BRzp  [ IDENT | LITERAL ]
//	BRnzp [ IDENT | LITERAL ]
//
//	| 0000 | NZP | OFFSET9 |
//	|------+-----+---------|
//	|15  12|11  9|8       0|
//
// A bare BR, with no condition suffix, means BRnzp: an unconditional branch.
type BR struct {
	SourceInfo
	NZP    uint8
	SYMBOL string
	OFFSET uint16
}

func (br BR) String() string { return fmt.Sprintf("BR(%#v)", br) }

func (br *BR) Parse(opcode string, operands []string) error {
	var nzp uint8

	if len(operands) != 1 {
		return fmt.Errorf("br: %w", ErrOperand)
	}

	switch strings.ToUpper(opcode) {
	case "BR", "BRNZP":
		nzp = CondNZP
	case "BRN":
		nzp = CondNegative
	case "BRZ":
		nzp = CondZero
	case "BRP":
		nzp = CondPositive
	case "BRNZ":
		nzp = CondNZ
	case "BRNP":
		nzp = CondNP
	case "BRZP":
		nzp = CondZP
	default:
		return fmt.Errorf("%w: %s", ErrOpcode, opcode)
	}

	off, sym, err := parseImmediate(operands[0], 9)
	if err != nil {
		return fmt.Errorf("br: %w", err)
	}

	*br = BR{SourceInfo: br.SourceInfo, NZP: nzp, SYMBOL: sym, OFFSET: off}

	return nil
}

func (br *BR) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.BR, uint16(br.NZP)<<9)

	if br.SYMBOL != "" {
		offset, err := symbols.Offset(br.SYMBOL, pc, 9)
		if err != nil {
			return nil, fmt.Errorf("br: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(br.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// AND: Bitwise AND binary operator.
//
//	AND DR,SR1,SR2                    ; (register mode)
//	AND DR,SR1,#LITERAL               ; (immediate mode)
//	AND DR,SR1,LABEL                  ;
type AND struct {
	SourceInfo
	DR, SR1, SR2 lc3.GPR
	RegMode      bool
	SYMBOL       string
	OFFSET       uint16
}

func (and AND) String() string { return fmt.Sprintf("AND(%#v)", and) }

func (and *AND) Parse(opcode string, operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("and: %w", ErrOperand)
	}

	dr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("and: %w", err)
	}

	sr1, err := parseRegister(operands[1])
	if err != nil {
		return fmt.Errorf("and: %w", err)
	}

	*and = AND{SourceInfo: and.SourceInfo, DR: dr, SR1: sr1}

	if sr2, err := parseRegister(operands[2]); err == nil {
		and.SR2 = sr2
		and.RegMode = true

		return nil
	}

	off, sym, err := parseImmediate(operands[2], 5)
	if err != nil {
		return fmt.Errorf("and: %w", err)
	}

	and.OFFSET = off
	and.SYMBOL = sym

	return nil
}

func (and *AND) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.AND, uint16(and.DR)<<9|uint16(and.SR1)<<6)

	switch {
	case and.RegMode:
		code.Operand(uint16(and.SR2))
	case and.SYMBOL != "":
		code.Operand(1 << 5)

		offset, err := symbols.Offset(and.SYMBOL, pc, 5)
		if err != nil {
			return nil, fmt.Errorf("and: %w", err)
		}

		code.Operand(offset)
	default:
		code.Operand(1 << 5)
		code.Operand(and.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// ADD: Arithmetic addition operator.
//
//	ADD DR,SR1,SR2                    ; (register mode)
//	ADD DR,SR1,#LITERAL               ; (immediate mode)
type ADD struct {
	SourceInfo
	DR, SR1, SR2 lc3.GPR
	RegMode      bool
	SYMBOL       string
	OFFSET       uint16
}

func (add ADD) String() string { return fmt.Sprintf("ADD(%#v)", add) }

func (add *ADD) Parse(opcode string, operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("add: %w", ErrOperand)
	}

	dr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	sr1, err := parseRegister(operands[1])
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	*add = ADD{SourceInfo: add.SourceInfo, DR: dr, SR1: sr1}

	if sr2, err := parseRegister(operands[2]); err == nil {
		add.SR2 = sr2
		add.RegMode = true

		return nil
	}

	off, sym, err := parseImmediate(operands[2], 5)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	add.OFFSET = off
	add.SYMBOL = sym

	return nil
}

func (add *ADD) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.ADD, uint16(add.DR)<<9|uint16(add.SR1)<<6)

	switch {
	case add.RegMode:
		code.Operand(uint16(add.SR2))
	case add.SYMBOL != "":
		code.Operand(1 << 5)

		offset, err := symbols.Offset(add.SYMBOL, pc, 5)
		if err != nil {
			return nil, fmt.Errorf("add: %w", err)
		}

		code.Operand(offset)
	default:
		code.Operand(1 << 5)
		code.Operand(add.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// NOT: Bitwise complement.
//
//	NOT DR,SR ;; DR <- ^(SR)
type NOT struct {
	SourceInfo
	DR, SR lc3.GPR
}

func (not NOT) String() string { return fmt.Sprintf("NOT(%#v)", not) }

func (not *NOT) Parse(opcode string, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("not: %w", ErrOperand)
	}

	dr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("not: %w", err)
	}

	sr, err := parseRegister(operands[1])
	if err != nil {
		return fmt.Errorf("not: %w", err)
	}

	*not = NOT{SourceInfo: not.SourceInfo, DR: dr, SR: sr}

	return nil
}

func (not *NOT) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.NOT, uint16(not.DR)<<9|uint16(not.SR)<<6|0x003f)
	return []lc3.Word{code.Encode()}, nil
}

// LD: Load from memory, PC-relative.
//
//	LD DR,LABEL
//	LD DR,#LITERAL
type LD struct {
	SourceInfo
	DR     lc3.GPR
	OFFSET uint16
	SYMBOL string
}

func (ld LD) String() string { return fmt.Sprintf("LD(%#v)", ld) }

func (ld *LD) Parse(opcode string, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("ld: %w", ErrOperand)
	}

	dr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("ld: %w", err)
	}

	off, sym, err := parseImmediate(operands[1], 9)
	if err != nil {
		return fmt.Errorf("ld: %w", err)
	}

	*ld = LD{SourceInfo: ld.SourceInfo, DR: dr, OFFSET: off, SYMBOL: sym}

	return nil
}

func (ld *LD) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.LD, uint16(ld.DR)<<9)

	if ld.SYMBOL != "" {
		offset, err := symbols.Offset(ld.SYMBOL, pc, 9)
		if err != nil {
			return nil, fmt.Errorf("ld: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(ld.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// LDI: Load indirect, PC-relative.
//
//	LDI DR,LABEL
//	LDI DR,#LITERAL
type LDI struct {
	SourceInfo
	DR     lc3.GPR
	OFFSET uint16
	SYMBOL string
}

func (ldi LDI) String() string { return fmt.Sprintf("LDI(%#v)", ldi) }

func (ldi *LDI) Parse(opcode string, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("ldi: %w", ErrOperand)
	}

	dr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("ldi: %w", err)
	}

	off, sym, err := parseImmediate(operands[1], 9)
	if err != nil {
		return fmt.Errorf("ldi: %w", err)
	}

	*ldi = LDI{SourceInfo: ldi.SourceInfo, DR: dr, OFFSET: off, SYMBOL: sym}

	return nil
}

func (ldi *LDI) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.LDI, uint16(ldi.DR)<<9)

	if ldi.SYMBOL != "" {
		offset, err := symbols.Offset(ldi.SYMBOL, pc, 9)
		if err != nil {
			return nil, fmt.Errorf("ldi: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(ldi.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// LDR: Load from memory, register-relative.
//
//	LDR DR,SR,LABEL
//	LDR DR,SR,#LITERAL
type LDR struct {
	SourceInfo
	DR, SR lc3.GPR
	OFFSET uint16
	SYMBOL string
}

func (ldr LDR) String() string { return fmt.Sprintf("LDR(%#v)", ldr) }

func (ldr *LDR) Parse(opcode string, operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("ldr: %w", ErrOperand)
	}

	dr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("ldr: %w", err)
	}

	sr, err := parseRegister(operands[1])
	if err != nil {
		return fmt.Errorf("ldr: %w", err)
	}

	off, sym, err := parseImmediate(operands[2], 6)
	if err != nil {
		return fmt.Errorf("ldr: %w", err)
	}

	*ldr = LDR{SourceInfo: ldr.SourceInfo, DR: dr, SR: sr, OFFSET: off, SYMBOL: sym}

	return nil
}

func (ldr *LDR) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.LDR, uint16(ldr.DR)<<9|uint16(ldr.SR)<<6)

	if ldr.SYMBOL != "" {
		offset, err := symbols.Offset(ldr.SYMBOL, pc, 6)
		if err != nil {
			return nil, fmt.Errorf("ldr: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(ldr.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// LEA: Load effective address.
//
//	LEA DR,LABEL
//	LEA DR,#LITERAL
type LEA struct {
	SourceInfo
	DR     lc3.GPR
	SYMBOL string
	OFFSET uint16
}

func (lea LEA) String() string { return fmt.Sprintf("LEA(%#v)", lea) }

func (lea *LEA) Parse(opcode string, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("lea: %w", ErrOperand)
	}

	dr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("lea: %w", err)
	}

	off, sym, err := parseImmediate(operands[1], 9)
	if err != nil {
		return fmt.Errorf("lea: %w", err)
	}

	*lea = LEA{SourceInfo: lea.SourceInfo, DR: dr, OFFSET: off, SYMBOL: sym}

	return nil
}

func (lea *LEA) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.LEA, uint16(lea.DR)<<9)

	if lea.SYMBOL != "" {
		offset, err := symbols.Offset(lea.SYMBOL, pc, 9)
		if err != nil {
			return nil, fmt.Errorf("lea: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(lea.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// ST: Store to memory, PC-relative.
//
//	ST SR,LABEL
//	ST SR,#LITERAL
type ST struct {
	SourceInfo
	SR     lc3.GPR
	OFFSET uint16
	SYMBOL string
}

func (st ST) String() string { return fmt.Sprintf("ST(%#v)", st) }

func (st *ST) Parse(opcode string, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("st: %w", ErrOperand)
	}

	sr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("st: %w", err)
	}

	off, sym, err := parseImmediate(operands[1], 9)
	if err != nil {
		return fmt.Errorf("st: %w", err)
	}

	*st = ST{SourceInfo: st.SourceInfo, SR: sr, OFFSET: off, SYMBOL: sym}

	return nil
}

func (st *ST) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.ST, uint16(st.SR)<<9)

	if st.SYMBOL != "" {
		offset, err := symbols.Offset(st.SYMBOL, pc, 9)
		if err != nil {
			return nil, fmt.Errorf("st: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(st.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// STI: Store indirect, PC-relative.
//
//	STI SR,LABEL
//	STI SR,#LITERAL
type STI struct {
	SourceInfo
	SR     lc3.GPR
	OFFSET uint16
	SYMBOL string
}

func (sti STI) String() string { return fmt.Sprintf("STI(%#v)", sti) }

func (sti *STI) Parse(opcode string, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("sti: %w", ErrOperand)
	}

	sr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("sti: %w", err)
	}

	off, sym, err := parseImmediate(operands[1], 9)
	if err != nil {
		return fmt.Errorf("sti: %w", err)
	}

	*sti = STI{SourceInfo: sti.SourceInfo, SR: sr, OFFSET: off, SYMBOL: sym}

	return nil
}

func (sti *STI) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.STI, uint16(sti.SR)<<9)

	if sti.SYMBOL != "" {
		offset, err := symbols.Offset(sti.SYMBOL, pc, 9)
		if err != nil {
			return nil, fmt.Errorf("sti: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(sti.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// STR: Store to memory, register-relative.
//
//	STR SR,BASE,LABEL
//	STR SR,BASE,#LITERAL
type STR struct {
	SourceInfo
	SR, BASE lc3.GPR
	OFFSET   uint16
	SYMBOL   string
}

func (str STR) String() string { return fmt.Sprintf("STR(%#v)", str) }

func (str *STR) Parse(opcode string, operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("str: %w", ErrOperand)
	}

	sr, err := parseRegister(operands[0])
	if err != nil {
		return fmt.Errorf("str: %w", err)
	}

	base, err := parseRegister(operands[1])
	if err != nil {
		return fmt.Errorf("str: %w", err)
	}

	off, sym, err := parseImmediate(operands[2], 6)
	if err != nil {
		return fmt.Errorf("str: %w", err)
	}

	*str = STR{SourceInfo: str.SourceInfo, SR: sr, BASE: base, OFFSET: off, SYMBOL: sym}

	return nil
}

func (str *STR) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.STR, uint16(str.SR)<<9|uint16(str.BASE)<<6)

	if str.SYMBOL != "" {
		offset, err := symbols.Offset(str.SYMBOL, pc, 6)
		if err != nil {
			return nil, fmt.Errorf("str: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(str.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// JMP: Unconditional jump to the address in a base register. RET is JMP R7 by another name.
//
//	JMP BASE
//	RET
type JMP struct {
	SourceInfo
	BASE lc3.GPR
}

func (jmp JMP) String() string { return fmt.Sprintf("JMP(%#v)", jmp) }

func (jmp *JMP) Parse(opcode string, operands []string) error {
	switch strings.ToUpper(opcode) {
	case "RET":
		if len(operands) != 0 {
			return fmt.Errorf("ret: %w", ErrOperand)
		}

		jmp.BASE = lc3.RETP
	case "JMP":
		if len(operands) != 1 {
			return fmt.Errorf("jmp: %w", ErrOperand)
		}

		base, err := parseRegister(operands[0])
		if err != nil {
			return fmt.Errorf("jmp: %w", err)
		}

		jmp.BASE = base
	default:
		return fmt.Errorf("%w: %s", ErrOpcode, opcode)
	}

	return nil
}

func (jmp *JMP) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.JMP, uint16(jmp.BASE)<<6)
	return []lc3.Word{code.Encode()}, nil
}

// JSR/JSRR: Jump to subroutine, saving the return address in R7.
//
//	JSR LABEL     ; PC-relative
//	JSRR BASE     ; register-indirect
type JSR struct {
	SourceInfo
	RegMode bool
	BASE    lc3.GPR
	SYMBOL  string
	OFFSET  uint16
}

func (jsr JSR) String() string { return fmt.Sprintf("JSR(%#v)", jsr) }

func (jsr *JSR) Parse(opcode string, operands []string) error {
	switch strings.ToUpper(opcode) {
	case "JSR":
		if len(operands) != 1 {
			return fmt.Errorf("jsr: %w", ErrOperand)
		}

		off, sym, err := parseImmediate(operands[0], 11)
		if err != nil {
			return fmt.Errorf("jsr: %w", err)
		}

		jsr.OFFSET, jsr.SYMBOL, jsr.RegMode = off, sym, false
	case "JSRR":
		if len(operands) != 1 {
			return fmt.Errorf("jsrr: %w", ErrOperand)
		}

		base, err := parseRegister(operands[0])
		if err != nil {
			return fmt.Errorf("jsrr: %w", err)
		}

		jsr.BASE, jsr.RegMode = base, true
	default:
		return fmt.Errorf("%w: %s", ErrOpcode, opcode)
	}

	return nil
}

func (jsr *JSR) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.JSR, 0)

	if jsr.RegMode {
		code.Operand(uint16(jsr.BASE) << 6)
		return []lc3.Word{code.Encode()}, nil
	}

	code.Operand(1 << 11)

	if jsr.SYMBOL != "" {
		offset, err := symbols.Offset(jsr.SYMBOL, pc, 11)
		if err != nil {
			return nil, fmt.Errorf("jsr: %w", err)
		}

		code.Operand(offset)
	} else {
		code.Operand(jsr.OFFSET)
	}

	return []lc3.Word{code.Encode()}, nil
}

// RTI: Return from trap or interrupt, restoring the saved processor status.
//
//	RTI
type RTI struct {
	SourceInfo
}

func (rti RTI) String() string { return "RTI" }

func (rti *RTI) Parse(opcode string, operands []string) error {
	if strings.ToUpper(opcode) != "RTI" {
		return fmt.Errorf("%w: %s", ErrOpcode, opcode)
	} else if len(operands) != 0 {
		return fmt.Errorf("rti: %w", ErrOperand)
	}

	return nil
}

func (rti *RTI) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.RTI, 0)
	return []lc3.Word{code.Encode()}, nil
}

// TRAP: System call, invoked through a trap vector. The common trap routines (GETC, OUT, PUTS, IN,
// PUTSP, HALT) may be used as bare mnemonics, each fixed to its conventional vector.
//
//	TRAP x25
//	HALT
type TRAP struct {
	SourceInfo
	VECTOR uint16
}

func (trap TRAP) String() string { return fmt.Sprintf("TRAP(%#v)", trap) }

func (trap *TRAP) Parse(opcode string, operands []string) error {
	opcode = strings.ToUpper(opcode)

	switch opcode {
	case "TRAP":
		if len(operands) != 1 {
			return fmt.Errorf("trap: %w", ErrOperand)
		}

		lit, err := parseLiteral(operands[0], 8)
		if err != nil {
			return fmt.Errorf("trap: %w", err)
		}

		trap.VECTOR = lit
	case "GETC":
		trap.VECTOR = uint16(lc3.TrapGETC)
	case "OUT":
		trap.VECTOR = uint16(lc3.TrapOUT)
	case "PUTS":
		trap.VECTOR = uint16(lc3.TrapPUTS)
	case "IN":
		trap.VECTOR = uint16(lc3.TrapIN)
	case "PUTSP":
		trap.VECTOR = uint16(lc3.TrapPUTSP)
	case "HALT":
		trap.VECTOR = uint16(lc3.TrapHALT)
	default:
		return fmt.Errorf("%w: %s", ErrOpcode, opcode)
	}

	if opcode != "TRAP" && len(operands) != 0 {
		return fmt.Errorf("%s: %w", strings.ToLower(opcode), ErrOperand)
	}

	return nil
}

func (trap *TRAP) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	code := lc3.NewInstruction(lc3.TRAP, trap.VECTOR)
	return []lc3.Word{code.Encode()}, nil
}

// .ORIG: Origin directive. Sets the location counter for the following code, and becomes the
// leading word of the assembled object file. Must be the first operation in a program.
//
//	.ORIG x3000
type ORIG struct {
	SourceInfo
	LITERAL uint16
}

func (orig *ORIG) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf(".orig: %w", ErrOperand)
	}

	val, err := parseLiteral(operands[0], 16)
	if err != nil {
		return fmt.Errorf(".orig: %w", err)
	}

	orig.LITERAL = val

	return nil
}

// Size is zero: .ORIG does not itself occupy a code address, it sets the one that follows.
func (orig *ORIG) Size() int { return 0 }

func (orig *ORIG) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	return nil, nil
}

// .END: Marks the end of the program. Anything after it is not assembled.
type END struct {
	SourceInfo
}

func (end *END) Parse(opcode string, operands []string) error {
	if len(operands) != 0 {
		return fmt.Errorf(".end: %w", ErrOperand)
	}

	return nil
}

func (end *END) Size() int { return 0 }

func (end *END) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	return nil, nil
}

// .FILL: Allocate and initialize one word of data.
//
//	.FILL x1234
//	.FILL #0
type FILL struct {
	SourceInfo
	LITERAL uint16
}

func (fill *FILL) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf(".fill: %w", ErrOperand)
	}

	val, err := parseLiteral(operands[0], 16)
	if err != nil {
		return fmt.Errorf(".fill: %w", err)
	}

	fill.LITERAL = val

	return nil
}

func (fill *FILL) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	return []lc3.Word{lc3.Word(fill.LITERAL)}, nil
}

// .BLKW: Reserves a block of words, each filled with zero.
//
//	.BLKW 4
type BLKW struct {
	SourceInfo
	ALLOC uint16
}

func (blkw *BLKW) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf(".blkw: %w", ErrOperand)
	}

	val, err := parseLiteral(operands[0], 16)
	if err != nil {
		return fmt.Errorf(".blkw: %w", err)
	}

	blkw.ALLOC = val

	return nil
}

func (blkw *BLKW) Size() int { return int(blkw.ALLOC) }

func (blkw *BLKW) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	return make([]lc3.Word, blkw.ALLOC), nil
}

// .STRINGZ: Allocates an ASCII-encoded, null-terminated string.
//
//	HELLO .STRINGZ "Hello, world!"
//
// Recognized escapes within the quoted string are \n, \t, \\, \" and \0.
type STRINGZ struct {
	SourceInfo
	LITERAL string
}

func (s *STRINGZ) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf(".stringz: %w", ErrOperand)
	}

	tok := operands[0]
	if len(tok) < 2 || tok[0] != '"' || tok[len(tok)-1] != '"' {
		return fmt.Errorf(".stringz: %w: unterminated string: %q", ErrOperand, tok)
	}

	s.LITERAL = unescape(tok[1 : len(tok)-1])

	return nil
}

func unescape(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}

		i++

		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '0':
			b.WriteByte(0)
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

func (s *STRINGZ) Size() int { return len(utf16.Encode([]rune(s.LITERAL))) + 1 }

func (s *STRINGZ) Generate(symbols SymbolTable, pc lc3.Word) ([]lc3.Word, error) {
	units := utf16.Encode([]rune(s.LITERAL))
	code := make([]lc3.Word, 0, len(units)+1)

	for _, u := range units {
		code = append(code, lc3.Word(u))
	}

	return append(code, 0), nil
}
