package asm

// parser.go implements the first pass of the assembler: it reads source line by line, tokenizes
// each one, resolves labels to addresses, and builds the syntax and symbol tables that the second
// pass (Generator) needs to emit code. No machine code is generated in this pass -- only enough is
// known here to say how many words each line will occupy.

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Featherball1/lc3asm/internal/lc3"
	"github.com/Featherball1/lc3asm/internal/log"
)

// factory creates a fresh, zero-valued Operation for an opcode or directive.
type factory func() Operation

// opcodeTable maps every recognized mnemonic and directive to the Operation that parses it. Several
// keys alias the same type: all eight BR condition suffixes construct a BR, and TRAP and the six
// named trap mnemonics (GETC, OUT, PUTS, IN, PUTSP, HALT) all construct a TRAP.
var opcodeTable = map[string]factory{
	"BR": func() Operation { return &BR{} }, "BRNZP": func() Operation { return &BR{} },
	"BRN": func() Operation { return &BR{} }, "BRZ": func() Operation { return &BR{} },
	"BRP": func() Operation { return &BR{} }, "BRNZ": func() Operation { return &BR{} },
	"BRNP": func() Operation { return &BR{} }, "BRZP": func() Operation { return &BR{} },

	"ADD": func() Operation { return &ADD{} },
	"AND": func() Operation { return &AND{} },
	"NOT": func() Operation { return &NOT{} },

	"LD": func() Operation { return &LD{} }, "LDI": func() Operation { return &LDI{} },
	"LDR": func() Operation { return &LDR{} }, "LEA": func() Operation { return &LEA{} },

	"ST": func() Operation { return &ST{} }, "STI": func() Operation { return &STI{} },
	"STR": func() Operation { return &STR{} },

	"JMP": func() Operation { return &JMP{} }, "RET": func() Operation { return &JMP{} },
	"JSR": func() Operation { return &JSR{} }, "JSRR": func() Operation { return &JSR{} },

	"RTI": func() Operation { return &RTI{} },

	"TRAP": func() Operation { return &TRAP{} }, "GETC": func() Operation { return &TRAP{} },
	"OUT": func() Operation { return &TRAP{} }, "PUTS": func() Operation { return &TRAP{} },
	"IN": func() Operation { return &TRAP{} }, "PUTSP": func() Operation { return &TRAP{} },
	"HALT": func() Operation { return &TRAP{} },

	".ORIG": func() Operation { return &ORIG{} }, ".END": func() Operation { return &END{} },
	".FILL": func() Operation { return &FILL{} }, ".BLKW": func() Operation { return &BLKW{} },
	".STRINGZ": func() Operation { return &STRINGZ{} },
}

// Parser runs the assembler's first pass over a stream of LC3ASM source.
type Parser struct {
	log      *log.Logger
	table    map[string]factory
	Filename string
	pc       uint16
	pos      uint16
	started  bool
	ended    bool
	symbols  SymbolTable
	syntax   SyntaxTable
	err      error
}

// NewParser creates a Parser that logs to the given logger.
func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	table := make(map[string]factory, len(opcodeTable))
	for k, v := range opcodeTable {
		table[k] = v
	}

	return &Parser{
		log:     logger,
		table:   table,
		symbols: make(SymbolTable),
		syntax:  make(SyntaxTable, 0, 64),
	}
}

// Probe registers an additional opcode, extending the language the parser accepts. It exists
// mainly so tests can exercise the parser without depending on the full opcode table.
func (p *Parser) Probe(opcode string, op Operation) {
	opcode = strings.ToUpper(opcode)
	p.table[opcode] = func() Operation { return op }
}

// Err returns the first error encountered while parsing, if any.
func (p *Parser) Err() error {
	return p.err
}

// Symbols returns the symbol table built while parsing.
func (p *Parser) Symbols() SymbolTable {
	return p.symbols
}

// Syntax returns the parsed operations in program order.
func (p *Parser) Syntax() SyntaxTable {
	return p.syntax
}

// Parse reads source from in, line by line, populating the parser's symbol and syntax tables. It
// stops at the first error, or at an .END directive, and records any error for later retrieval
// with Err. A program must begin with .ORIG and finish with .END; input that runs out before the
// latter is an error.
func (p *Parser) Parse(in io.Reader) {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		p.pos++
		line := scanner.Text()

		if err := p.parseLine(line); err != nil {
			p.err = err
			return
		}

		if p.ended {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		p.err = err
		return
	}

	switch {
	case !p.started:
		p.err = &SyntaxError{File: p.Filename, Pos: p.pos, Err: fmt.Errorf("%w: missing .ORIG", ErrOperand)}
	case !p.ended:
		p.err = &SyntaxError{File: p.Filename, Pos: p.pos, Err: fmt.Errorf("%w: missing .END", ErrOperand)}
	}
}

func (p *Parser) parseLine(line string) error {
	tokens := Lex(line)
	if len(tokens) == 0 {
		return nil
	}

	if tokens[0].Type == TokenLabel {
		label := strings.TrimSuffix(tokens[0].Text, ":")

		if p.started {
			if err := p.symbols.Add(label, lc3.Word(p.pc)); err != nil {
				return p.syntaxError(line, err)
			}
		}

		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return nil
	}

	opcode := strings.ToUpper(tokens[0].Text)

	make_, ok := p.table[opcode]
	if !ok {
		return p.syntaxError(line, fmt.Errorf("%w: %s", ErrOpcode, tokens[0].Text))
	}

	operands := make([]string, 0, len(tokens)-1)
	for _, t := range tokens[1:] {
		operands = append(operands, t.Text)
	}

	op := make_()
	if err := op.Parse(tokens[0].Text, operands); err != nil {
		return p.syntaxError(line, err)
	}

	if orig, ok := op.(*ORIG); ok {
		if p.started {
			return p.syntaxError(line, fmt.Errorf("%w: .ORIG may only appear once", ErrOperand))
		}

		p.started = true
		p.pc = orig.LITERAL
	} else if !p.started {
		return p.syntaxError(line, fmt.Errorf("%w: missing .ORIG", ErrOperand))
	}

	p.syntax.Add(&SourceInfo{Filename: p.Filename, Pos: p.pos, Line: line, Operation: op})

	size := 1
	if sz, ok := op.(sizer); ok {
		size = sz.Size()
	}

	p.pc += uint16(size)

	if _, ok := op.(*END); ok {
		p.ended = true
	}

	return nil
}

func (p *Parser) syntaxError(line string, err error) error {
	return &SyntaxError{File: p.Filename, Loc: lc3.Word(p.pc), Pos: p.pos, Line: line, Err: err}
}
