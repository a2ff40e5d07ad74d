package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"demoload/internal/deps"
	"demoload/internal/pipeline"
	"demoload/internal/preflight"
)

// statusKind grades one line of status or summary output.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

func (k statusKind) label() string {
	switch k {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (k statusKind) color() string {
	switch k {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 20

// statusLine is one labelled, graded line such as
// "  Run lock:            [WARN] held by a running load".
type statusLine struct {
	label  string
	kind   statusKind
	detail string
}

func (l statusLine) render(colorize bool) string {
	status := "[" + l.kind.label() + "]"
	if l.detail != "" {
		status += " " + l.detail
	}
	line := fmt.Sprintf("  %-*s %s", statusLabelWidth, l.label+":", status)
	if colorize {
		return l.kind.color() + line + ansiReset
	}
	return line
}

func checkLine(r preflight.Result) statusLine {
	kind := statusOK
	if !r.Passed {
		kind = statusError
	}
	return statusLine{label: r.Name, kind: kind, detail: r.Detail}
}

// dependencyLine grades a missing optional binary as a warning only.
func dependencyLine(dep deps.Status) statusLine {
	line := statusLine{label: dep.Name, kind: statusOK, detail: dep.Command}
	if dep.Available {
		return line
	}
	line.kind = statusError
	if dep.Optional {
		line.kind = statusWarn
	}
	line.detail = strings.TrimSpace(dep.Detail)
	if line.detail == "" {
		line.detail = "unavailable"
	}
	return line
}

func lockLine(held bool, err error) statusLine {
	switch {
	case err != nil:
		return statusLine{label: "Run lock", kind: statusError, detail: err.Error()}
	case held:
		return statusLine{label: "Run lock", kind: statusWarn, detail: "held by a running load"}
	default:
		return statusLine{label: "Run lock", kind: statusOK, detail: "free"}
	}
}

// stageLine summarizes one entered pipeline stage.
func stageLine(st pipeline.StageReport) statusLine {
	line := statusLine{label: strings.ToLower(st.State.String())}
	switch st.Outcome {
	case pipeline.OutcomeRan:
		line.kind = statusOK
		line.detail = "ran in " + st.Duration.Round(time.Millisecond).String()
	case pipeline.OutcomeSkipped:
		line.kind = statusInfo
		line.detail = "skipped, " + st.Reason
	default:
		line.kind = statusError
		line.detail = "failed"
		if st.Err != nil {
			line.detail += ": " + st.Err.Error()
		}
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func writeLines(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
