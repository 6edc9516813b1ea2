package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "texkit",
		Short:         "TeX distribution support tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	pf.BoolVar(&flags.admin, "admin", false, "Operate on the shared (administrator) installation")
	pf.BoolVar(&flags.enableInstaller, "enable-installer", false, "Let repair subprocesses install missing packages")
	pf.BoolVar(&flags.disableInstaller, "disable-installer", false, "Forbid repair subprocesses from installing packages")
	pf.BoolVar(&flags.enableMaintenance, "enable-maintenance", false, "Force the startup maintenance check")
	pf.BoolVar(&flags.disableMaintenance, "disable-maintenance", false, "Skip the startup maintenance check")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress informational output")

	rootCmd.AddCommand(newMaintenanceCommand(ctx))
	rootCmd.AddCommand(newMakeTFMCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newRunScriptCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
