package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"demoload/internal/catalog"
	"demoload/internal/config"
	"demoload/internal/convert"
	"demoload/internal/preflight"
	"demoload/internal/runlock"
	"demoload/internal/stagegate"
	"demoload/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show workspace health, dataset artifacts and imported records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			writeLines(out, renderSectionHeader("Workspace", colorize))
			for _, r := range preflight.RunAll(cmd.Context(), cfg) {
				fmt.Fprintln(out, checkLine(r).render(colorize))
			}
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				fmt.Fprintln(out, dependencyLine(dep).render(colorize))
			}
			fmt.Fprintln(out, lockLine(runlock.Held(cfg.Paths.WorkRoot)).render(colorize))

			cat, err := ctx.catalog()
			if err != nil {
				fmt.Fprintln(out)
				fmt.Fprintln(out, statusLine{label: "Datasets", kind: statusError, detail: err.Error()}.render(colorize))
				return nil
			}
			fmt.Fprintln(out)
			writeLines(out, renderSectionHeader("Datasets", colorize))
			fmt.Fprintln(out, renderArtifacts(cat, cfg.Paths.WorkRoot))

			if cfg.Import.Mode != config.ModeBuiltin {
				return nil
			}
			fmt.Fprintln(out)
			writeLines(out, renderSectionHeader("Record store", colorize))
			stats, err := loadStats(cmd.Context(), cfg)
			if err != nil {
				fmt.Fprintln(out, statusLine{label: "Records", kind: statusError, detail: err.Error()}.render(colorize))
				return nil
			}
			if len(stats) == 0 {
				fmt.Fprintln(out, statusLine{label: "Records", kind: statusInfo, detail: "nothing imported yet"}.render(colorize))
				return nil
			}
			fmt.Fprintln(out, renderStats(stats))
			return nil
		},
	}
}

func renderArtifacts(cat *catalog.Catalog, root string) string {
	rows := make([][]string, 0, cat.Len())
	for _, d := range cat.List() {
		r := d.Resolve(root)
		archive := ""
		if r.ArchiveSourced() {
			archive = artifactSize(r.Archive.Path)
		}
		rows = append(rows, []string{
			d.Code,
			artifactSize(r.LocalTarget),
			archive,
			artifactSize(r.ConvertedPath),
			profiledRecords(convert.ProfilePath(r.ConvertedPath)),
		})
	}
	return renderTable(
		[]string{"Code", "Raw", "Archive", "Converted", "Profiled"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func profiledRecords(path string) string {
	profile, err := convert.ReadProfile(path)
	if err != nil {
		return "-"
	}
	return humanize.Comma(int64(profile.Records))
}

func loadStats(ctx context.Context, cfg *config.Config) ([]store.KindStats, error) {
	if !stagegate.IsDone(cfg.Paths.StorePath) {
		return nil, nil
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Stats(ctx)
}

func renderStats(stats []store.KindStats) string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		limit := "-"
		if s.LastLimit != nil {
			limit = humanize.Comma(int64(*s.LastLimit))
		}
		rows = append(rows, []string{
			s.EntityKind,
			humanize.Comma(int64(s.Records)),
			limit,
			humanize.Time(s.LastImport),
			s.LastSource,
		})
	}
	return renderTable(
		[]string{"Entity", "Records", "Limit", "Imported", "Source"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}
