package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"atombios"
)

func main() {
	app := &cli.App{
		Name:      "atombios",
		Usage:     "run a command table from an AtomBIOS video ROM image",
		ArgsUsage: "<rom-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "asic_init", Usage: "invoke ASIC_Init with a zeroed parameter buffer"},
			&cli.StringFlag{Name: "table", Usage: "invoke the named command table with a zeroed parameter buffer"},
			&cli.BoolFlag{Name: "trace", Usage: "log one entry per executed opcode"},
			&cli.IntFlag{Name: "params", Value: 8, Usage: "number of uint32 parameter words to allocate"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.Args().First()
	if romPath == "" {
		return cli.Exit("missing rom file argument", 2)
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return cli.Exit(err, 1)
	}

	table := atombios.ASICInit
	if name := c.String("table"); name != "" {
		id, ok := atombios.ParseCommandTableId(name)
		if !ok {
			return cli.Exit(fmt.Sprintf("unknown command table %q", name), 2)
		}
		table = id
	} else if !c.Bool("asic_init") {
		return cli.Exit("specify --asic_init or --table <name>", 2)
	}

	log := atombios.NewLogger()
	if c.Bool("trace") {
		log.SetLevel(logrus.TraceLevel)
	}

	host := newHeadlessHost()
	bios, err := atombios.New(data, host, log, atombios.WithTrace(c.Bool("trace")))
	if err != nil {
		return cli.Exit(err, 1)
	}

	params := make([]uint32, c.Int("params"))
	if err := bios.RunCommand(table, params); err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Printf("%s completed: params=%v maxPSIndex=%d maxWSIndex=%d\n",
		table, params, bios.MaxPSIndex(), bios.MaxWSIndex())
	return nil
}
