// Command mos6502run loads a PRG image (or raw binary plus an explicit
// load address) into a memory-mapped 6502 system and runs it, printing the
// final register state. A UART can be wired in at a chosen base address;
// bytes it transmits are echoed to stdout as they're written.
package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/urfave/cli.v2"

	"github.com/retrobus6502/c64core/cpu"
	"github.com/retrobus6502/c64core/memory"
	"github.com/retrobus6502/c64core/uart"
)

func main() {
	app := &cli.App{
		Name:    "mos6502run",
		Usage:   "run a 6502 program against a memory-mapped system",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "org",
				Usage: "load address for a raw (headerless) binary, e.g. 0x8000",
			},
			&cli.StringFlag{
				Name:  "uart",
				Usage: "base address to map a UART device at, e.g. 0xA000",
			},
			&cli.Uint64Flag{
				Name:  "cycles",
				Usage: "stop after at least this many cycles have elapsed (0 = run until BRK/unimplemented opcode)",
			},
			&cli.Uint64Flag{
				Name:  "ram",
				Usage: "RAM size in bytes, mapped starting at 0x0000",
				Value: 0x8000,
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
		return cli.Exit("expected exactly one program file argument", 86)
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading program: %v", err), 1)
	}

	var load uint16
	var program []byte
	if orgStr := c.String("org"); orgStr != "" {
		v, err := strconv.ParseUint(orgStr, 0, 16)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --org: %v", err), 1)
		}
		load, program = uint16(v), data
	} else {
		load, program, err = memory.LoadPRG(data)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid PRG file: %v", err), 1)
		}
	}

	mem := memory.NewMappedMemory()
	ram := memory.NewRAM(uint16(c.Uint64("ram")))
	if err := mem.AddDevice(0, ram); err != nil {
		return cli.Exit(fmt.Sprintf("mapping RAM: %v", err), 1)
	}
	if err := ram.LoadBytes(load, program); err != nil {
		return cli.Exit(fmt.Sprintf("loading program at $%04X: %v", load, err), 1)
	}

	if uartStr := c.String("uart"); uartStr != "" {
		base, err := strconv.ParseUint(uartStr, 0, 16)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --uart: %v", err), 1)
		}
		u := uart.New()
		u.SetTransmitCallback(func(b uint8) { fmt.Printf("%c", b) })
		if err := mem.AddSharedDevice(uint16(base), u); err != nil {
			return cli.Exit(fmt.Sprintf("mapping UART: %v", err), 1)
		}
	}

	c6502 := cpu.New(mem)
	c6502.SetPC(load)

	budget := c.Uint64("cycles")
	var runErr error
	if budget > 0 {
		_, runErr = c6502.RunForCycles(budget)
	} else {
		for {
			if mem.Read(c6502.PC()) == 0x00 { // BRK
				break
			}
			if runErr = c6502.Step(); runErr != nil {
				break
			}
		}
	}

	fmt.Printf("\nA=$%02X X=$%02X Y=$%02X SP=$%02X PC=$%04X P=$%02X cycles=%d\n",
		c6502.A(), c6502.X(), c6502.Y(), c6502.SP(), c6502.PC(), c6502.P(), c6502.Cycles())

	if runErr != nil {
		if _, unimpl := runErr.(cpu.UnimplementedOpcode); unimpl {
			fmt.Fprintln(os.Stderr, "halted:", runErr)
			return nil
		}
		return cli.Exit(runErr.Error(), 1)
	}
	return nil
}
