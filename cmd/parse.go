package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vishnutej000/memories/internal/parser"
)

// ParseCommand returns the CLI command for parsing a transcript to stdout
func ParseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse an exported chat transcript and print the messages as JSON",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one transcript file, got %d", c.NArg())
			}

			messages, err := parser.NewResilient().ParseFile(c.Args().First())
			if err != nil {
				return fmt.Errorf("failed to parse transcript: %w", err)
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(messages)
		},
	}
}
