package asm

// gen.go implements the second pass of the assembler: it walks the syntax table the parser built,
// resolves every PC-relative offset against the symbol table, and assembles the result into an
// lc3.ObjectCode.

import (
	"fmt"
	"io"

	"github.com/Featherball1/lc3asm/internal/lc3"
	"github.com/Featherball1/lc3asm/internal/log"
)

// Generator controls the code generation pass of the assembler. It starts at the beginning of the
// parsed syntax table, generates code for each operation in turn, and accumulates the words into an
// object image.
//
// Any syntax or semantic error that prevents generating machine code -- an undefined symbol, an
// offset that doesn't fit its field -- is returned as a wrapped SyntaxError annotated with the
// source line that caused it.
type Generator struct {
	pc      uint16
	symbols SymbolTable
	syntax  SyntaxTable
	log     *log.Logger
}

// NewGenerator creates a code generator using the given symbol and syntax tables.
func NewGenerator(symbols SymbolTable, syntax SyntaxTable) *Generator {
	return &Generator{
		symbols: symbols,
		syntax:  syntax,
		log:     log.DefaultLogger(),
	}
}

// Assemble runs the second pass and returns the assembled object code.
func (gen *Generator) Assemble() (lc3.ObjectCode, error) {
	var obj lc3.ObjectCode

	if len(gen.syntax) == 0 {
		return obj, nil
	}

	orig, ok := origin(gen.syntax[0])
	if !ok {
		return obj, fmt.Errorf(".ORIG should be the first operation; was: %T", unwrap(gen.syntax[0]))
	}

	gen.pc = orig.LITERAL
	obj.Orig = lc3.Word(orig.LITERAL)

	gen.log.Debug("assembling", "orig", obj.Orig, "operations", len(gen.syntax))

	for i, op := range gen.syntax {
		if op == nil {
			continue
		}

		if _, ok := origin(op); ok {
			if i != 0 {
				return obj, gen.annotate(op, fmt.Errorf("%w: .ORIG may only be the first operation", ErrOperand))
			}

			continue
		}

		words, err := op.Generate(gen.symbols, lc3.Word(gen.pc+1))
		if err != nil {
			return obj, gen.annotate(op, err)
		}

		obj.Code = append(obj.Code, words...)
		gen.pc += uint16(len(words))
	}

	return obj, nil
}

// WriteTo assembles the program and writes it as a big-endian object file to out.
func (gen *Generator) WriteTo(out io.Writer) (int64, error) {
	obj, err := gen.Assemble()
	if err != nil {
		return 0, fmt.Errorf("gen: %w", err)
	}

	bs, err := obj.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("gen: %w", err)
	}

	n, err := out.Write(bs)
	if err != nil {
		return int64(n), fmt.Errorf("gen: %w", err)
	}

	return int64(n), nil
}

// annotate wraps a code generation error with the failing operation's source location.
func (gen *Generator) annotate(code Operation, err error) error {
	if err == nil {
		return nil
	}

	if src, ok := code.(*SourceInfo); ok {
		return &SyntaxError{
			File: src.Filename,
			Loc:  lc3.Word(gen.pc),
			Pos:  src.Pos,
			Line: src.Line,
			Err:  err,
		}
	}

	return err
}

// unwrap returns the base operation from a possibly wrapped operation. Every concrete operation
// embeds SourceInfo and so also has an Unwrap method, which returns nil; the walk stops there.
func unwrap(oper Operation) Operation {
	for {
		wrap, ok := oper.(interface{ Unwrap() Operation })
		if !ok {
			return oper
		}

		inner := wrap.Unwrap()
		if inner == nil {
			return oper
		}

		oper = inner
	}
}

// origin unwraps and returns an .ORIG directive.
func origin(oper Operation) (orig *ORIG, ok bool) {
	orig, ok = unwrap(oper).(*ORIG)
	return
}
