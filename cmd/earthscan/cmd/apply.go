package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/earthscan/internal/autoreplace"
	"github.com/tinovyatkin/earthscan/internal/dependency"
	"github.com/tinovyatkin/earthscan/internal/extractor"
)

var errDependencyNotFound = errors.New("dependency not found")

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Update one image dependency of an Earthfile",
		ArgsUsage: "EARTHFILE",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:     "dep",
				Usage:    "Dependency name (depName or packageName) to update",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "new-value",
				Usage: "New tag",
			},
			&cli.StringFlag{
				Name:  "new-digest",
				Usage: "New digest (algorithm:hex)",
			},
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write the result back to the file instead of printing it",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one Earthfile, got %d arguments", cmd.Args().Len())
			}
			file := cmd.Args().First()

			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			deps := extractor.Extract(string(content), cfg.AliasMap())
			d, err := findDependency(deps, cmd.String("dep"))
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			updated, err := autoreplace.Apply(string(content), d, cmd.String("new-value"), cmd.String("new-digest"))
			if err != nil {
				return fmt.Errorf("updating %s in %s: %w", d.DepName, file, err)
			}

			if !cmd.Bool("write") {
				_, err := fmt.Fprint(cmd.Root().Writer, updated)
				return err
			}

			fi, err := os.Stat(file)
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, []byte(updated), fi.Mode().Perm()); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			logrus.WithFields(logrus.Fields{
				"file":     file,
				"depName":  d.DepName,
				"oldValue": d.CurrentValue,
				"newValue": cmd.String("new-value"),
			}).Info("updated dependency")
			return nil
		},
	}
}

// findDependency returns the first usable descriptor whose depName or
// packageName is name.
func findDependency(deps []dependency.Descriptor, name string) (dependency.Descriptor, error) {
	for _, d := range deps {
		if d.Skipped() {
			continue
		}
		if d.DepName == name || d.PackageName == name {
			return d, nil
		}
	}
	return dependency.Descriptor{}, fmt.Errorf("%q: %w", name, errDependencyNotFound)
}
