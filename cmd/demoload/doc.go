// Package main hosts the demoload CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the dataset
// catalog and pipeline collaborators, and hands each invocation to the
// internal packages: load drives the pipeline orchestrator, demo-details runs
// the configured console commands, and status and datasets report on the
// workspace. Heavy lifting stays in internal/; commands here only wire and
// render.
package main
