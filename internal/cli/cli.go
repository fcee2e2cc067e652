// Package cli implements the lc3asm command-line tool's core behavior: assembling one source file
// at a time and reporting diagnostics in a single-line format a text editor can parse.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Featherball1/lc3asm/internal/asm"
	"github.com/Featherball1/lc3asm/internal/log"
)

// Options controls how AssembleFile assembles a single source file.
type Options struct {
	Log *log.Logger
}

// objectName names the conventional output file for path "foo.asm".
func objectName(path string) string {
	base := strings.TrimSuffix(path, ".asm")
	return base + "-assembled.obj"
}

// AssembleFile reads, parses and assembles a single LC3ASM source file, writing the resulting
// object code to "<path-without-.asm>-assembled.obj". It returns a *asm.SyntaxError (or a wrapped
// reader error) on failure.
func AssembleFile(path string, opts Options) error {
	logger := opts.Log
	if logger == nil {
		logger = log.DefaultLogger()
	}

	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	defer in.Close()

	parser := asm.NewParser(logger)
	parser.Filename = path
	parser.Parse(in)

	if err := parser.Err(); err != nil {
		return err
	}

	gen := asm.NewGenerator(parser.Symbols(), parser.Syntax())

	obj, err := gen.Assemble()
	if err != nil {
		return err
	}

	// The output file is created only once the full byte buffer is ready, so a fatal error never
	// leaves a partial object file behind.
	bs, err := obj.MarshalBinary()
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}

	outName := objectName(path)

	out, err := os.Create(outName)
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(bs); err != nil {
		return fmt.Errorf("cli: %w", err)
	}

	logger.Info("assembled", "input", path, "output", outName, "words", len(obj.Code))

	return nil
}

// Diagnostic formats err as a single line suitable for a text editor's quickfix list:
// "<path>:<lineno>: <kind>: <detail>". Errors that aren't a *asm.SyntaxError are printed as-is.
func Diagnostic(err error) string {
	var se *asm.SyntaxError

	if !errors.As(err, &se) {
		return err.Error()
	}

	return se.Error()
}
