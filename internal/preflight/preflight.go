package preflight

import (
	"context"

	"demoload/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work root", cfg.Paths.WorkRoot),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckCatalog(cfg),
	}

	// The store is only touched when the builtin importer is in use.
	if cfg.Import.Mode == config.ModeBuiltin {
		results = append(results, CheckStore(ctx, cfg))
	}

	for _, dep := range CheckSystemDeps(cfg) {
		if dep.Available || dep.Optional {
			continue
		}
		results = append(results, Result{Name: dep.Name, Detail: dep.Detail})
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
