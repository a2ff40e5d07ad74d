package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"demoload/internal/catalog"
	"demoload/internal/logging"
	"demoload/internal/pipeline"
	"demoload/internal/preflight"
	"demoload/internal/runlock"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "load [code]",
		Short: "Download, convert and import a demo dataset",
		Long: "Load runs a catalog dataset through download, extraction, conversion and import.\n" +
			"Without a code it lists the available dataset codes.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			if len(args) == 1 {
				code = strings.TrimSpace(args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if code == "" {
				printDiscovery(out, cat.List())
				return nil
			}
			if _, err := cat.Lookup(code); err != nil {
				return err
			}
			var limitPtr *int
			if cmd.Flags().Changed("limit") {
				if limit <= 0 {
					return fmt.Errorf("--limit must be a positive integer, got %d", limit)
				}
				limitPtr = &limit
			}

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
				return preflightError(failed)
			}

			lock, err := runlock.Acquire(cfg.Paths.WorkRoot)
			if err != nil {
				return err
			}
			defer lock.Release()

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			collab, closeStore, err := buildCollaborators(cfg, logger, out, progressEnabled(quiet))
			if err != nil {
				return err
			}
			defer closeStore()

			orch, err := pipeline.New(cat, cfg.Paths.WorkRoot, collab,
				pipeline.WithLogger(logging.NewComponentLogger(logger, "pipeline")),
				pipeline.WithNotices(out),
			)
			if err != nil {
				return err
			}

			report, err := orch.Run(cmd.Context(), pipeline.Request{Code: code, Limit: limitPtr})
			if err != nil {
				return err
			}
			printSummary(out, report)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Limit the number of entities to import")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the download progress bar")
	return cmd
}

func printDiscovery(out io.Writer, datasets []catalog.Dataset) {
	fmt.Fprintln(out, "Available dataset codes:")
	for _, d := range datasets {
		fmt.Fprintf(out, "  - %s (%s)\n", d.Code, d.LocalTarget)
	}
}

func printSummary(out io.Writer, report *pipeline.Report) {
	if report == nil || report.Discovery() {
		return
	}
	colorize := shouldColorize(out)
	for _, st := range report.Stages {
		fmt.Fprintln(out, stageLine(st).render(colorize))
	}
	fmt.Fprintf(out, "Loaded %s: %s records converted, %s imported as %s\n",
		report.Dataset.Code,
		humanize.Comma(int64(report.Conversion.Records)),
		humanize.Comma(int64(report.Imported)),
		report.Dataset.EntityKind(),
	)
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return errors.New("preflight failed: " + strings.Join(parts, "; "))
}
