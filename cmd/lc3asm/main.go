// Command lc3asm assembles LC3ASM source files into LC-3 object images.
//
//	lc3asm [-debug] FILE.asm [FILE.asm ...]
//
// For each FILE.asm, lc3asm writes FILE-assembled.obj.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	ourcli "github.com/Featherball1/lc3asm/internal/cli"
	"github.com/Featherball1/lc3asm/internal/log"
)

func main() {
	app := cli.NewApp()
	app.Name = "lc3asm"
	app.Usage = "assemble LC3ASM source into LC-3 object code"
	app.ArgsUsage = "FILE.asm [FILE.asm ...]"
	app.Version = "0.1.0"

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.Bool("debug") {
			log.LogLevel.Set(log.Debug)
		}

		logger := log.DefaultLogger()

		args := c.Args()
		if len(args) == 0 {
			return cli.NewExitError("no input files", 2)
		}

		opts := ourcli.Options{
			Log: logger,
		}

		var failed bool

		for _, path := range args {
			if err := ourcli.AssembleFile(path, opts); err != nil {
				fmt.Fprintln(os.Stderr, ourcli.Diagnostic(err))
				failed = true
			}
		}

		if failed {
			return cli.NewExitError("", 1)
		}

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
