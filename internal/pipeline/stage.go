package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"demoload/internal/logging"
	"demoload/internal/services"
)

// stageFunc performs the work of one stage.
type stageFunc func(ctx context.Context, logger *slog.Logger) error

// runStage executes fn with stage-scoped context and logging and appends the
// outcome to report.
func (o *Orchestrator) runStage(ctx context.Context, report *Report, state State, fn stageFunc, attrs ...logging.Attr) error {
	stageCtx := services.WithStage(ctx, state.stageName())
	stageLogger := logging.WithContext(stageCtx, o.logger)

	stageLogger.Info("stage started", logging.Args(append([]logging.Attr{
		logging.Event("stage_start"),
		logging.String("state", state.String()),
	}, attrs...)...)...)

	report.State = state
	started := o.now()
	err := fn(stageCtx, stageLogger)
	elapsed := o.now().Sub(started)

	if err != nil {
		report.Stages = append(report.Stages, StageReport{State: state, Outcome: OutcomeFailed, Duration: elapsed, Err: err})
		report.State = StateFailed
		message := strings.TrimSpace(services.Details(err).Message)
		if message == "" {
			message = strings.TrimSpace(err.Error())
		}
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.String("resolved_state", StateFailed.String()),
			logging.String("error_kind", services.Kind(err)),
			logging.String("error_message", message),
			logging.Hint(hintFor(state, err)),
			logging.Error(err),
		)
		return err
	}

	report.Stages = append(report.Stages, StageReport{State: state, Outcome: OutcomeRan, Duration: elapsed})
	stageLogger.Info("stage completed",
		logging.Event("stage_complete"),
		logging.Duration("duration", elapsed),
	)
	return nil
}

// skipStage records a skipped stage.
func (o *Orchestrator) skipStage(ctx context.Context, report *Report, state State, reason string, attrs ...logging.Attr) {
	stageCtx := services.WithStage(ctx, state.stageName())
	logging.WithContext(stageCtx, o.logger).Info("stage skipped", logging.Args(append([]logging.Attr{
		logging.Event("stage_skip"),
		logging.String("reason", reason),
	}, attrs...)...)...)
	report.Stages = append(report.Stages, StageReport{State: state, Outcome: OutcomeSkipped, Reason: reason})
}

func hintFor(state State, err error) string {
	switch services.Kind(err) {
	case "precondition_missing":
		return "supply the archive manually, then re-run load"
	case "not_found":
		return "run load without a code to list datasets"
	}
	switch state {
	case StateFetching:
		return "check the source url and network, remove any partial download, then re-run"
	case StateExtracting:
		return "check the archive is a readable zip holding the expected member"
	case StateConverting:
		return "inspect the raw file; delete it to force a fresh download"
	case StateImporting:
		return "check the record store or import command output"
	default:
		return "check logs for details"
	}
}
