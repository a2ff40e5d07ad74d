// Package services defines shared utilities consumed by the pipeline stages
// and their external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and dataset codes for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can branch on
//     the failure kind (fetch, extract, conversion, import...) with errors.Is
//     instead of parsing text.
//
// Use these helpers when wiring new stage logic so failures surface with the
// same shape across the pipeline.
package services
