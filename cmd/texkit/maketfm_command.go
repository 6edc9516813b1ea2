package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"texkit/internal/fontbuild"
	"texkit/internal/toolrun"
)

func newMakeTFMCommand(ctx *commandContext) *cobra.Command {
	var printOnly bool
	var mode string
	var resolution int

	cmd := &cobra.Command{
		Use:   "maketfm <name>...",
		Short: "Make TeX font metric files",
		Long:  "Makes a TFM file for each named font, such as 'cmr10', using the Metafont toolchain.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.runStartupMaintenance(cmd.Context()); err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sess, err := ctx.newSession()
			if err != nil {
				return err
			}

			if mode == "" {
				mode = cfg.MakeTFM.Mode
			}
			if resolution == 0 {
				resolution = cfg.MakeTFM.Resolution
			}
			builder, err := fontbuild.New(fontbuild.Options{
				DestDirTemplate: cfg.MakeTFM.DestDir,
				Mode:            mode,
				Resolution:      resolution,
				PrintOnly:       printOnly,
				Runner:          &toolrun.ExecRunner{},
				Finder:          sess,
				Logger:          ctx.ensureLogger(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range args {
				path, err := builder.Build(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("maketfm %s: %w", name, err)
				}
				if !ctx.flags.quiet {
					fmt.Fprintln(out, path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&printOnly, "print-only", "n", false, "Print what commands would be executed")
	cmd.Flags().StringVar(&mode, "mode", "", "Metafont device mode")
	cmd.Flags().IntVar(&resolution, "resolution", 0, "Device resolution in dpi")
	return cmd
}
