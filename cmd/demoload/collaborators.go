package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"demoload/internal/archive"
	"demoload/internal/config"
	"demoload/internal/console"
	"demoload/internal/convert"
	"demoload/internal/fetch"
	"demoload/internal/logging"
	"demoload/internal/pipeline"
	"demoload/internal/store"
)

// buildCollaborators wires the pipeline collaborators selected by cfg. The
// returned closer releases the record store when the builtin importer is used.
func buildCollaborators(cfg *config.Config, logger *slog.Logger, out io.Writer, progress bool) (pipeline.Collaborators, func() error, error) {
	noop := func() error { return nil }

	opts := []fetch.Option{fetch.WithUserAgent(cfg.Fetch.UserAgent)}
	if cfg.Fetch.TimeoutSeconds > 0 {
		opts = append(opts, fetch.WithTimeout(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second))
	}
	if progress {
		opts = append(opts, fetch.WithProgress(func(total int64, label string) io.Writer {
			return progressbar.DefaultBytes(total, "downloading")
		}))
	}

	runner := console.New(cfg.Paths.WorkRoot, console.WithOutput(func(line string) {
		fmt.Fprintln(out, line)
	}))

	collab := pipeline.Collaborators{
		Fetcher:   fetch.New(fetch.NewHTTPDownloader(opts...)),
		Extractor: archive.Extractor{},
	}

	if cfg.Convert.Mode == config.ModeCommand {
		collab.Converter = convert.NewCommand(runner, cfg.Convert.Command)
	} else {
		collab.Converter = convert.NewNative(convert.WithLogger(logging.NewComponentLogger(logger, "convert")))
	}

	if cfg.Import.Mode == config.ModeCommand {
		collab.Importer = store.NewCommandImporter(runner, cfg.Import.Command, cfg.Import.EntityNamespace)
		return collab, noop, nil
	}
	st, err := store.Open(cfg)
	if err != nil {
		return pipeline.Collaborators{}, noop, fmt.Errorf("open record store: %w", err)
	}
	collab.Importer = st
	return collab, st.Close, nil
}

// progressEnabled reports whether download progress should be drawn on stderr.
func progressEnabled(quiet bool) bool {
	return !quiet && shouldColorize(os.Stderr)
}
