// Package details drives the demo-details command: it runs the configured
// console commands in order and reminds the operator to keep the message
// consumer running so the dispatched transitions are processed.
package details

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"demoload/internal/logging"
	"demoload/internal/services"
)

// ConsumerReminder is printed after every command succeeded.
const ConsumerReminder = "make sure the message consumer is running"

// CommandRunner runs a configured command line.
type CommandRunner interface {
	Run(ctx context.Context, command string, extra ...string) error
}

// Run executes commands in order, echoing each to out before running it.
// The first failure aborts the remaining commands.
func Run(ctx context.Context, runner CommandRunner, commands []string, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(commands) == 0 {
		return services.Wrap(services.ErrConfiguration, "details", "select commands", "no details commands configured", nil)
	}
	for i, command := range commands {
		fmt.Fprintln(out, command)
		logger.Debug("running details command",
			logging.String("command", command),
			logging.Int("step", i+1),
			logging.Int("steps", len(commands)),
		)
		if err := runner.Run(ctx, command); err != nil {
			return services.Wrap(services.ErrExternalTool, "details", "run console", command, err)
		}
	}
	fmt.Fprintln(out, ConsumerReminder)
	return nil
}
