package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrPreconditionMissing = errors.New("precondition missing")
	ErrFetch               = errors.New("fetch error")
	ErrExtract             = errors.New("extract error")
	ErrConversion          = errors.New("conversion error")
	ErrImport              = errors.New("import error")
	ErrExternalTool        = errors.New("external tool error")
	ErrConfiguration       = errors.New("configuration error")
	ErrValidation          = errors.New("validation error")
)

// kinds is ordered so the most specific pipeline marker wins when an error
// chain carries more than one (an import failing inside an external tool is
// still an import failure).
var kinds = []struct {
	marker error
	name   string
}{
	{ErrNotFound, "not_found"},
	{ErrPreconditionMissing, "precondition_missing"},
	{ErrFetch, "fetch"},
	{ErrExtract, "extract"},
	{ErrConversion, "conversion"},
	{ErrImport, "import"},
	{ErrConfiguration, "configuration"},
	{ErrValidation, "validation"},
	{ErrExternalTool, "external_tool"},
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind names the taxonomy entry carried by err, or "unknown".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.name
		}
	}
	return "unknown"
}

// ErrorDetails is the user-facing summary of a failure.
type ErrorDetails struct {
	Kind    string
	Message string
}

// Details extracts the kind and the message without the leading marker text.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	kind := Kind(err)
	msg := err.Error()
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			msg = strings.TrimPrefix(msg, k.marker.Error()+": ")
			break
		}
	}
	return ErrorDetails{Kind: kind, Message: strings.TrimSpace(msg)}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
