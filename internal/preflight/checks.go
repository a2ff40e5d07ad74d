package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"demoload/internal/catalog"
	"demoload/internal/config"
	"demoload/internal/console"
	"demoload/internal/deps"
	"demoload/internal/store"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStore opens the record store and pings it.
func CheckStore(ctx context.Context, cfg *config.Config) Result {
	const name = "Record store"

	s, err := store.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.StorePath, err)}
	}
	defer s.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: ping: %v)", s.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: s.Path()}
}

// CheckCatalog verifies the configured catalog file parses. The built-in demo
// catalog always passes.
func CheckCatalog(cfg *config.Config) Result {
	const name = "Dataset catalog"

	path := strings.TrimSpace(cfg.Catalog.Path)
	if path == "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("built-in (%d datasets)", catalog.Demo().Len())}
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d datasets)", path, cat.Len())}
}

// CheckSystemDeps evaluates the console binaries referenced by command-mode
// collaborators and the demo-details commands. Both the load command and the
// status command use this to avoid duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	var requirements []deps.Requirement
	seen := make(map[string]bool)
	add := func(name, command, description string, optional bool) {
		binary, _, err := console.Split(command)
		if err != nil || seen[binary] {
			return
		}
		seen[binary] = true
		requirements = append(requirements, deps.Requirement{
			Name:        name,
			Command:     binary,
			Description: description,
			Optional:    optional,
			Dir:         cfg.Paths.WorkRoot,
		})
	}
	if cfg.Convert.Mode == config.ModeCommand {
		add("Converter console", cfg.Convert.Command, "Required for command-mode conversion", false)
	}
	if cfg.Import.Mode == config.ModeCommand {
		add("Importer console", cfg.Import.Command, "Required for command-mode import", false)
	}
	for _, command := range cfg.Details.Commands {
		add("Details console", command, "Required for demo-details", true)
	}
	return deps.CheckBinaries(requirements)
}
