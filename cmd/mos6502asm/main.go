// Command mos6502asm assembles a 6502 source file into raw machine code
// (or a load-address-prefixed PRG image) and reports assembly diagnostics.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v2"

	"github.com/retrobus6502/c64core/asm"
)

func main() {
	app := &cli.App{
		Name:    "mos6502asm",
		Usage:   "assemble 6502 source into machine code",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file for assembled bytes",
			},
			&cli.BoolFlag{
				Name:  "prg",
				Usage: "prefix output with a 2-byte little-endian load address (first segment's base)",
			},
			&cli.BoolFlag{
				Name:  "symbols",
				Usage: "print the resolved symbol table to stderr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() != 1 {
		cli.ShowAppHelp(c)
		return cli.Exit("expected exactly one source file argument", 86)
	}

	srcPath := c.Args().First()
	source, err := os.ReadFile(srcPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading %s: %v", srcPath, err), 1)
	}

	output, errs := asm.Assemble(string(source))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", srcPath, e.Line, e.Column, e.Kind, e.Message)
		}
		return cli.Exit(fmt.Sprintf("assembly failed with %d error(s)", len(errs)), 1)
	}

	bytes := output.Bytes
	if c.Bool("prg") {
		load := uint16(0)
		if len(output.Segments) > 0 {
			load = output.Segments[0].Base
		}
		bytes = append([]byte{byte(load), byte(load >> 8)}, bytes...)
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, bytes, 0o644); err != nil {
			return cli.Exit(fmt.Sprintf("writing %s: %v", out, err), 1)
		}
	} else {
		os.Stdout.Write(bytes)
	}

	if c.Bool("symbols") {
		for _, sym := range output.SymbolTable {
			kind := "label"
			if sym.Kind == asm.SymbolConstant {
				kind = "const"
			}
			fmt.Fprintf(os.Stderr, "%-20s %-5s $%04X\n", sym.Name, kind, sym.Value)
		}
	}

	return nil
}
