package main

import (
	"github.com/spf13/cobra"

	"demoload/internal/config"
	"demoload/internal/console"
	"demoload/internal/details"
	"demoload/internal/logging"
	"demoload/internal/services"
)

func newDemoDetailsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "demo-details",
		Short: "Fetch entity details through the console and report queue stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(cfg.Details.Commands) == 0 {
				return services.Wrap(services.ErrConfiguration, "details", "select commands",
					"[details] commands is empty in "+configLabel(ctx), nil)
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			runner := console.New(cfg.Paths.WorkRoot, console.WithOutput(func(line string) {
				_, _ = out.Write([]byte(line + "\n"))
			}))
			return details.Run(cmd.Context(), runner, cfg.Details.Commands, out,
				logging.NewComponentLogger(logger, "details"))
		},
	}
}

func configLabel(ctx *commandContext) string {
	if path := ctx.configPath(); path != "" {
		return path
	}
	if path, err := config.DefaultConfigPath(); err == nil {
		return path
	}
	return "config"
}
