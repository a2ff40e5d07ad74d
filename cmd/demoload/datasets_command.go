package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"demoload/internal/catalog"
	"demoload/internal/config"
	"demoload/internal/fileutil"
	"demoload/internal/stagegate"
	"demoload/internal/store"
)

func newDatasetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List catalog datasets and their local artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}

			imported, closeStore, err := importedCounter(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			rows := make([][]string, 0, cat.Len())
			for _, d := range cat.List() {
				resolved := d.Resolve(cfg.Paths.WorkRoot)
				rows = append(rows, []string{
					d.Code,
					d.EntityKind(),
					d.LocalTarget,
					datasetSource(d),
					artifactSize(resolved.LocalTarget),
					artifactSize(resolved.ConvertedPath),
					imported(d.EntityKind()),
				})
			}
			table := renderTable(
				[]string{"Code", "Entity", "Target", "Source", "Raw", "Converted", "Imported"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func datasetSource(d catalog.Dataset) string {
	switch {
	case d.ArchiveSourced():
		return fmt.Sprintf("%s!%s", d.Archive.Path, d.Archive.Member)
	case d.HasSource():
		return d.SourceURL
	default:
		return "manual"
	}
}

func artifactSize(path string) string {
	size, ok := fileutil.Size(path)
	if !ok {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

// importedCounter reports stored record counts per entity kind. It returns "-"
// for every kind when the builtin store is not in use or was never created.
func importedCounter(ctx context.Context, cfg *config.Config) (func(string) string, func() error, error) {
	none := func(string) string { return "-" }
	noop := func() error { return nil }
	if cfg.Import.Mode != config.ModeBuiltin || !stagegate.IsDone(cfg.Paths.StorePath) {
		return none, noop, nil
	}
	st, err := store.Open(cfg)
	if err != nil {
		return none, noop, fmt.Errorf("open record store: %w", err)
	}
	return func(kind string) string {
		last, err := st.LastImport(ctx, kind)
		if err != nil {
			return "-"
		}
		return humanize.Comma(int64(last.Records))
	}, st.Close, nil
}
