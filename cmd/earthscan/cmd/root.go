package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/earthscan/internal/config"
	"github.com/tinovyatkin/earthscan/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "earthscan",
		Usage:   "Extract base-image dependencies from Earthfiles",
		Version: version.Version(),
		Description: `earthscan finds the container images an Earthfile builds on, including
images referenced through ARG/LET/SET variables and WITH DOCKER --pull,
and reports the exact text an update has to rewrite.

Examples:
  earthscan extract Earthfile
  earthscan extract --format json .
  earthscan apply Earthfile --dep golang --new-value 1.23 --write`,
		Commands: []*cli.Command{
			extractCommand(),
			applyCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a TOML config file (default: " + config.DefaultFile + " if present)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warning, error",
		},
		&cli.StringSliceFlag{
			Name:    "registry-alias",
			Aliases: []string{"a"},
			Usage:   "Registry alias as prefix=replacement (repeatable)",
		},
	}
}

// loadConfig merges the config file, environment and flags, and sets up
// logging.
func loadConfig(cmd *cli.Command, overrides map[string]any) (config.Config, error) {
	if overrides == nil {
		overrides = map[string]any{}
	}
	overrides["log-level"] = cmd.String("log-level")

	cfg, err := config.Load(cmd.String("config"), overrides)
	if err != nil {
		return config.Config{}, err
	}

	for _, s := range cmd.StringSlice("registry-alias") {
		alias, err := config.ParseAlias(s)
		if err != nil {
			return config.Config{}, err
		}
		cfg.RegistryAliases = append(cfg.RegistryAliases, alias)
	}

	if err := config.SetupLogging(cfg.LogLevel, os.Stderr); err != nil {
		return config.Config{}, fmt.Errorf("configuring logging: %w", err)
	}
	return cfg, nil
}
