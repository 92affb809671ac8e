package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vishnutej000/memories/cmd"
)

const (
	version = "1.0.0"
)

func main() {
	app := &cli.App{
		Name:    "memories",
		Usage:   "Personal vault for WhatsApp chat transcripts: import, analyze, export",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
		},
		Commands: []*cli.Command{
			cmd.APICommand(),
			cmd.ParseCommand(),
			cmd.ConfigCommand(),
			cmd.PassphraseCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
