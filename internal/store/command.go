package store

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"

	"demoload/internal/services"
)

// CommandRunner runs a configured command line with extra arguments.
type CommandRunner interface {
	Run(ctx context.Context, command string, extra ...string) error
}

// CommandImporter hands imports to the application console:
//
//	<command> <namespace><Kind> <path> [--limit=N]
type CommandImporter struct {
	runner    CommandRunner
	command   string
	namespace string
}

// NewCommandImporter constructs a console-backed importer. namespace is
// prefixed to the entity kind (App\Entity\ turns Car into App\Entity\Car).
func NewCommandImporter(runner CommandRunner, command, namespace string) *CommandImporter {
	return &CommandImporter{runner: runner, command: command, namespace: namespace}
}

// Args returns the arguments appended to the configured command.
func (c *CommandImporter) Args(entityKind, recordsPath string, limit *int) []string {
	args := []string{c.namespace + entityKind, recordsPath}
	if limit != nil {
		args = append(args, fmt.Sprintf("--limit=%d", *limit))
	}
	return args
}

// Import implements the pipeline importer. The console does not report a
// count, so the result is the number of records offered to it.
func (c *CommandImporter) Import(ctx context.Context, entityKind, recordsPath string, limit *int) (int, error) {
	if limit != nil && *limit <= 0 {
		return 0, services.Wrap(services.ErrImport, "import", "validate",
			fmt.Sprintf("limit must be positive, got %d", *limit), nil)
	}
	if err := c.runner.Run(ctx, c.command, c.Args(entityKind, recordsPath, limit)...); err != nil {
		return 0, services.Wrap(services.ErrImport, "import", "run console", c.command, err)
	}
	offered, err := countRecords(recordsPath)
	if err != nil {
		return 0, services.Wrap(services.ErrImport, "import", "inspect records", recordsPath, err)
	}
	if limit != nil && offered > *limit {
		offered = *limit
	}
	return offered, nil
}

func countRecords(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			n++
		}
	}
	return n, scanner.Err()
}
