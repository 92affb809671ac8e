package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vishnutej000/memories/internal/api/auth"
)

// PassphraseCommand returns the CLI command for hashing a vault passphrase.
// The printed hash goes into the auth.password_hash config key.
func PassphraseCommand() *cli.Command {
	return &cli.Command{
		Name:      "passphrase",
		Usage:     "Hash a vault passphrase for the configuration file",
		ArgsUsage: "PASSPHRASE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one passphrase argument")
			}

			hash, err := auth.HashPassphrase(c.Args().First())
			if err != nil {
				return fmt.Errorf("failed to hash passphrase: %w", err)
			}

			fmt.Println(hash)
			return nil
		},
	}
}
