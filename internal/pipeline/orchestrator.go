package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"demoload/internal/catalog"
	"demoload/internal/convert"
	"demoload/internal/logging"
	"demoload/internal/services"
	"demoload/internal/stagegate"
)

// Fetcher downloads a remote file to target.
type Fetcher interface {
	Fetch(ctx context.Context, url, target string) error
}

// Extractor pulls one member out of an archive into destDir.
type Extractor interface {
	ExtractMember(archivePath, destDir, member string) (string, error)
}

// Converter normalizes the raw file into records.
type Converter interface {
	Convert(ctx context.Context, rawPath, outputPath, tag string) (convert.Result, error)
}

// Importer loads converted records into persistent storage.
type Importer interface {
	Import(ctx context.Context, entityKind, recordsPath string, limit *int) (int, error)
}

// Collaborators are the external operations the orchestrator sequences.
type Collaborators struct {
	Fetcher   Fetcher
	Extractor Extractor
	Converter Converter
	Importer  Importer
}

// Request selects the dataset to load. A blank Code lists the catalog.
type Request struct {
	Code  string
	Limit *int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNotices sends operator-facing progress lines to w.
func WithNotices(w io.Writer) Option {
	return func(o *Orchestrator) {
		if w != nil {
			o.notices = w
		}
	}
}

// WithClock overrides the time source used for stage durations.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Orchestrator runs one dataset through fetch, extract, convert and import.
// Every path in the catalog is relative to root.
type Orchestrator struct {
	catalog *catalog.Catalog
	root    string
	collab  Collaborators
	logger  *slog.Logger
	notices io.Writer
	now     func() time.Time
}

// New constructs an orchestrator. All collaborators are required.
func New(cat *catalog.Catalog, root string, collab Collaborators, opts ...Option) (*Orchestrator, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if collab.Fetcher == nil || collab.Extractor == nil || collab.Converter == nil || collab.Importer == nil {
		return nil, errors.New("fetcher, extractor, converter and importer are required")
	}
	o := &Orchestrator{
		catalog: cat,
		root:    root,
		collab:  collab,
		logger:  logging.NewNop(),
		notices: io.Discard,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes the state machine for req. The returned report is never nil;
// on failure it carries StateFailed alongside the returned error.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), State: StateResolving, Limit: req.Limit}
	ctx = services.WithRunID(ctx, report.RunID)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		report.Listing = o.catalog.List()
		report.State = StateDone
		logging.WithContext(ctx, o.logger).Info("listing datasets",
			logging.Event("discovery"),
			logging.Int("datasets", len(report.Listing)),
		)
		return report, nil
	}

	ctx = services.WithDataset(ctx, code)
	logger := logging.WithContext(ctx, o.logger)

	dataset, err := o.catalog.Lookup(code)
	if err != nil {
		report.State = StateFailed
		logging.ErrorWithContext(logger, "dataset lookup failed", "dataset_not_found",
			logging.Hint(hintFor(StateResolving, err)),
			logging.Error(err),
		)
		return report, err
	}
	if req.Limit != nil && *req.Limit <= 0 {
		report.State = StateFailed
		return report, services.Wrap(services.ErrValidation, "resolve", "validate limit",
			fmt.Sprintf("limit must be a positive integer, got %d", *req.Limit), nil)
	}
	dataset = dataset.Resolve(o.root)
	report.Dataset = dataset

	logger.Info("dataset resolved",
		logging.Event("dataset_resolved"),
		logging.String("target", dataset.LocalTarget),
		logging.String("converted", dataset.ConvertedPath),
		logging.Bool("has_source", dataset.HasSource()),
		logging.Bool("archive_sourced", dataset.ArchiveSourced()),
	)

	if err := o.fetch(ctx, report, dataset); err != nil {
		return report, err
	}
	if err := o.extract(ctx, report, dataset); err != nil {
		return report, err
	}
	if err := o.convert(ctx, report, dataset); err != nil {
		return report, err
	}
	if err := o.importRecords(ctx, report, dataset, req.Limit); err != nil {
		return report, err
	}

	report.State = StateDone
	logger.Info("dataset loaded",
		logging.Event("run_complete"),
		logging.Int("records", report.Imported),
	)
	return report, nil
}

func (o *Orchestrator) fetch(ctx context.Context, report *Report, d catalog.Dataset) error {
	if !d.HasSource() {
		o.skipStage(ctx, report, StateFetching, ReasonNoSource)
		return nil
	}
	if stagegate.IsDone(d.LocalTarget) {
		o.notice("Target %s already exists, skipping download.", o.rel(d.LocalTarget))
		o.skipStage(ctx, report, StateFetching, ReasonTargetPresent, logging.String("target", d.LocalTarget))
		return nil
	}
	return o.runStage(ctx, report, StateFetching, func(ctx context.Context, _ *slog.Logger) error {
		o.notice("Downloading %s → %s", d.SourceURL, o.rel(d.LocalTarget))
		if err := o.collab.Fetcher.Fetch(ctx, d.SourceURL, d.LocalTarget); err != nil {
			return asKind(err, services.ErrFetch, "fetch", "download", d.SourceURL)
		}
		o.notice("%s written", o.rel(d.LocalTarget))
		return nil
	}, logging.String("url", d.SourceURL), logging.String("target", d.LocalTarget))
}

func (o *Orchestrator) extract(ctx context.Context, report *Report, d catalog.Dataset) error {
	if !d.ArchiveSourced() {
		return nil
	}
	if stagegate.IsDone(d.LocalTarget) {
		o.skipStage(ctx, report, StateExtracting, ReasonTargetPresent, logging.String("target", d.LocalTarget))
		return nil
	}
	return o.runStage(ctx, report, StateExtracting, func(ctx context.Context, _ *slog.Logger) error {
		if !stagegate.IsDone(d.Archive.Path) {
			return services.Wrap(services.ErrPreconditionMissing, "extract", "locate archive",
				fmt.Sprintf("archive not found at %s; it must be supplied manually", o.rel(d.Archive.Path)), nil)
		}
		o.notice("Unzipping %s", filepath.Base(d.Archive.Path))
		destDir := filepath.Dir(d.LocalTarget)
		if _, err := o.collab.Extractor.ExtractMember(d.Archive.Path, destDir, d.Archive.Member); err != nil {
			return asKind(err, services.ErrExtract, "extract", "extract member", d.Archive.Member)
		}
		o.notice("%s was extracted to %s", d.Archive.Member, o.rel(d.LocalTarget))
		return nil
	}, logging.String("archive", d.Archive.Path), logging.String("member", d.Archive.Member))
}

func (o *Orchestrator) convert(ctx context.Context, report *Report, d catalog.Dataset) error {
	return o.runStage(ctx, report, StateConverting, func(ctx context.Context, logger *slog.Logger) error {
		o.notice("Converting %s → %s (tag %s)", o.rel(d.LocalTarget), o.rel(d.ConvertedPath), d.Name)
		res, err := o.collab.Converter.Convert(ctx, d.LocalTarget, d.ConvertedPath, d.Name)
		if err != nil {
			return asKind(err, services.ErrConversion, "convert", "convert", d.LocalTarget)
		}
		report.Conversion = res
		logger.Info("conversion result",
			logging.Int("records", res.Records),
			logging.String("profile", res.ProfilePath),
		)
		return nil
	}, logging.String("source", d.LocalTarget), logging.String("output", d.ConvertedPath))
}

func (o *Orchestrator) importRecords(ctx context.Context, report *Report, d catalog.Dataset, limit *int) error {
	kind := d.EntityKind()
	attrs := []logging.Attr{logging.String("entity_kind", kind), logging.String("records", d.ConvertedPath), logging.Limit(limit)}
	return o.runStage(ctx, report, StateImporting, func(ctx context.Context, _ *slog.Logger) error {
		if limit != nil {
			o.notice("Importing %s as %s (limit %d)", o.rel(d.ConvertedPath), kind, *limit)
		} else {
			o.notice("Importing %s as %s", o.rel(d.ConvertedPath), kind)
		}
		n, err := o.collab.Importer.Import(ctx, kind, d.ConvertedPath, limit)
		if err != nil {
			return asKind(err, services.ErrImport, "import", "import records", kind)
		}
		report.Imported = n
		return nil
	}, attrs...)
}

func (o *Orchestrator) notice(format string, args ...any) {
	fmt.Fprintf(o.notices, format+"\n", args...)
}

// rel shortens paths under root for operator output.
func (o *Orchestrator) rel(path string) string {
	if o.root == "" {
		return path
	}
	if r, err := filepath.Rel(o.root, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}

// asKind keeps an already classified collaborator error and tags anything
// else with marker.
func asKind(err error, marker error, stage, operation, message string) error {
	if services.Kind(err) != "unknown" {
		return err
	}
	return services.Wrap(marker, stage, operation, message, err)
}
