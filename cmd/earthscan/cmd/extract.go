package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tinovyatkin/earthscan/internal/config"
	"github.com/tinovyatkin/earthscan/internal/discovery"
	"github.com/tinovyatkin/earthscan/internal/extractor"
	"github.com/tinovyatkin/earthscan/internal/reporter"
)

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "List the image dependencies of Earthfile(s)",
		ArgsUsage: "[PATH...]",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json",
			},
			&cli.BoolFlag{
				Name:  "skipped",
				Usage: "Include skipped references in text output",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd, map[string]any{
				"format": cmd.String("format"),
			})
			if err != nil {
				return err
			}

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				// Default to the current directory
				paths = []string{"."}
			}

			files, err := discovery.Find(paths, discovery.Options{
				Include: cfg.Include,
				Exclude: cfg.Exclude,
			})
			if err != nil {
				return err
			}
			logrus.WithField("files", len(files)).Debug("extracting dependencies")

			results, err := extractFiles(ctx, files, cfg.AliasMap())
			if err != nil {
				return err
			}

			return reporter.Write(cmd.Root().Writer, cfg.Format, results, reporter.Options{
				ShowSkipped: cmd.Bool("skipped"),
				Color:       !config.InCI(),
			})
		},
	}
}

// extractFiles reads and extracts files in parallel, keeping their order.
func extractFiles(ctx context.Context, files []string, aliases map[string]string) ([]reporter.FileResult, error) {
	results := make([]reporter.FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			results[i] = reporter.FileResult{
				File:   file,
				Deps:   extractor.Extract(string(content), aliases),
				Source: content,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
