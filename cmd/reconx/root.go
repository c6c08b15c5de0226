package main

import (
	"github.com/spf13/cobra"
	"go-reconx/config"
	"go-reconx/logging"
)

// app holds state shared by the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "reconx",
		Short: "Automated reconnaissance and vulnerability scanner",
		Long: `ReconX - automated reconnaissance for authorized targets.

Runs port, subdomain, path and web checks against a target, serves the
dashboard and exports PDF reports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return logging.Setup(cfg.Log)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file (default: $"+config.EnvConfigPath+")")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newScanCmd(a))
	root.AddCommand(newResolveCmd(a))
	return root
}
