package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"texkit/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check availability of the external toolchain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			requirements := deps.Toolchain(cfg.RepairUtilityBinary())
			statuses := deps.CheckBinaries(requirements)
			// The repair utility gets the install-root-aware lookup so the
			// report matches what maintenance would actually execute.
			statuses[0] = deps.CheckRepairUtility(cfg.Paths.InstallRoot, cfg.RepairUtilityBinary())

			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				detail := status.Detail
				if !status.Available {
					if status.Optional {
						state = "missing (optional)"
					} else {
						state = "missing"
						missingRequired = true
					}
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Detail"}, rows))
			if missingRequired {
				return fmt.Errorf("required toolchain programs are missing")
			}
			return nil
		},
	}
}
