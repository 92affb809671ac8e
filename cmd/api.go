package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vishnutej000/memories/internal/api"
	"github.com/vishnutej000/memories/internal/config"
	"github.com/vishnutej000/memories/internal/logging"
	"github.com/vishnutej000/memories/internal/storage"
)

// APICommand returns the CLI command for starting the API server
func APICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Start the Memories API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if port := c.Int("port"); port != 0 {
				cfg.Server.Port = port
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logging.Setup(cfg.Logging.Level, cfg.Logging.Pretty)

			store, err := storage.Open(cfg.Storage.Path)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer store.Close()

			return api.NewServer(cfg, store).Start()
		},
	}
}
