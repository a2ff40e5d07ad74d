// Package preflight provides readiness checks for the workspace paths, the
// record store and the console binaries demoload depends on.
//
// These checks run in two contexts:
//   - The load command calls RunAll before starting a pipeline run and aborts
//     when a required check fails.
//   - The CLI "demoload status" command uses the individual check functions
//     to display workspace health.
//
// Console binaries are only required when a collaborator runs in command mode.
package preflight
