package convert

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

// Command delegates conversion to the application console:
//
//	<command> <raw> --output=<out> --tag=<tag>
type Command struct {
	runner  CommandRunner
	command string
}

// NewCommand constructs a console-backed converter.
func NewCommand(runner CommandRunner, command string) *Command {
	return &Command{runner: runner, command: command}
}

// Args returns the arguments appended to the configured command.
func (c *Command) Args(rawPath, outputPath, tag string) []string {
	return []string{rawPath, "--output=" + outputPath, "--tag=" + tag}
}

// Convert implements Converter. The record count is taken from the produced
// file; the profile path is reported only when the console wrote one.
func (c *Command) Convert(ctx context.Context, rawPath, outputPath, tag string) (Result, error) {
	if err := c.runner.Run(ctx, c.command, c.Args(rawPath, outputPath, tag)...); err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "convert", "run console", c.command, err)
	}
	records, err := CountLines(outputPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "convert", "inspect output", outputPath, err)
	}
	res := Result{Records: records}
	if profile := ProfilePath(outputPath); fileExists(profile) {
		res.ProfilePath = profile
	}
	return res, nil
}

// CountLines counts non-blank lines in a JSONL file.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	count := 0
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("scan %s: %w", path, err)
	}
	return count, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
