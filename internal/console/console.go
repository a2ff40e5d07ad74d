package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithOutput forwards every output line of the command to fn.
func WithOutput(fn func(string)) Option {
	return func(r *Runner) {
		r.output = fn
	}
}

// Runner executes configured console command lines from the working root.
type Runner struct {
	workDir string
	exec    Executor
	output  func(string)
}

// New constructs a runner whose relative binaries and working directory are
// resolved against workDir.
func New(workDir string, opts ...Option) *Runner {
	r := &Runner{
		workDir: workDir,
		exec:    commandExecutor{dir: workDir},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Split breaks a command line into binary and arguments on whitespace.
// Quoting is not interpreted.
func Split(command string) (string, []string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil, errors.New("empty command")
	}
	return fields[0], fields[1:], nil
}

// Resolve returns the executable a command line would run: a binary with a
// path separator is taken relative to workDir, a bare name is left for PATH
// lookup.
func Resolve(workDir, binary string) string {
	if filepath.IsAbs(binary) || !strings.ContainsRune(binary, '/') || workDir == "" {
		return binary
	}
	return filepath.Join(workDir, filepath.FromSlash(binary))
}

// Run executes command with extra arguments appended. Output lines go to the
// configured output callback, or stderr when none is set. The last line of
// output is included in the error on failure.
func (r *Runner) Run(ctx context.Context, command string, extra ...string) error {
	binary, args, err := Split(command)
	if err != nil {
		return err
	}
	args = append(args, extra...)

	var mu sync.Mutex
	var last string
	onLine := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if strings.TrimSpace(line) != "" {
			last = line
		}
		if r.output != nil {
			r.output(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	if err := r.exec.Run(ctx, Resolve(r.workDir, binary), args, onLine); err != nil {
		if last != "" {
			return fmt.Errorf("%s: %w (last output: %s)", binary, err, last)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

type commandExecutor struct {
	dir string
}

func (e commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = e.dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onStdout != nil {
				onStdout(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
