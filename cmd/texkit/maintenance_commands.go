package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"texkit/internal/history"
	"texkit/internal/maintenance"
)

func newMaintenanceCommand(ctx *commandContext) *cobra.Command {
	maintenanceCmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Inspect and run the stale-artifact maintenance check",
	}

	maintenanceCmd.AddCommand(newMaintenanceRunCommand(ctx))
	maintenanceCmd.AddCommand(newMaintenanceStatusCommand(ctx))
	maintenanceCmd.AddCommand(newMaintenanceHistoryCommand(ctx))

	return maintenanceCmd
}

func newMaintenanceRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the maintenance check now",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Explicit invocation bypasses the enabled/disabled switch.
			sess, err := ctx.newSession()
			if err != nil {
				return err
			}

			before, err := pendingActions(sess)
			if err != nil {
				return err
			}

			saved := ctx.flags.disableMaintenance
			ctx.flags.disableMaintenance = false
			ctx.flags.enableMaintenance = true
			defer func() {
				ctx.flags.disableMaintenance = saved
				ctx.flags.enableMaintenance = false
			}()

			status, err := ctx.runStartupMaintenance(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(before) == 0 {
				fmt.Fprintln(out, "All artifacts are up to date")
				return nil
			}
			if status != maintenance.StatusRepaired {
				fmt.Fprintf(out, "Maintenance skipped (%s still pending)\n", strings.Join(before, ", "))
				return nil
			}
			fmt.Fprintf(out, "Maintenance completed (%s)\n", strings.Join(before, ", "))
			return nil
		},
	}
}

func newMaintenanceStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show checkpoints and pending repair actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.newSession()
			if err != nil {
				return err
			}
			cps, err := sess.Checkpoints()
			if err != nil {
				return err
			}
			arts, err := sess.Artifacts()
			if err != nil {
				return err
			}
			decision := maintenance.Evaluate(maintenance.Inputs{
				Checkpoints: cps,
				Artifacts:   arts,
				AdminScope:  sess.AdminScope(),
				Portable:    sess.Portable(),
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scope: %s\n", scopeName(sess.AdminScope()))
			fmt.Fprintf(out, "Portable: %s\n", yesNo(sess.Portable()))
			fmt.Fprintln(out)

			rows := [][]string{
				{"Admin maintenance", formatCheckpoint(cps.AdminMaintenanceAt)},
				{"User maintenance", formatCheckpoint(cps.UserMaintenanceAt)},
				{"Admin package database", formatCheckpoint(cps.AdminPackageDBAt)},
			}
			fmt.Fprintln(out, renderTable([]string{"Checkpoint", "Last run"}, rows))
			fmt.Fprintln(out)

			if decision.FreshInstall {
				fmt.Fprintln(out, "Fresh installation detected; setup has never run")
				return nil
			}
			if decision.Actions.Empty() {
				fmt.Fprintln(out, "No repair actions pending")
				return nil
			}
			actionRows := make([][]string, 0, decision.Actions.Len())
			for _, action := range decision.Actions.InOrder() {
				actionRows = append(actionRows, []string{action.String()})
			}
			fmt.Fprintln(out, renderTable([]string{"Pending action"}, actionRows))
			return nil
		},
	}
}

func newMaintenanceHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent maintenance runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			journal, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return fmt.Errorf("open maintenance journal: %w", err)
			}
			defer journal.Close()

			records, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No maintenance runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					shortID(rec.ID),
					rec.Scope,
					rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
					rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond).String(),
					summarizeOutcomes(rec.Outcomes),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Scope", "Started", "Duration", "Actions"},
				rows,
				3, // durations read better right-aligned
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func pendingActions(sess maintenance.Environment) ([]string, error) {
	cps, err := sess.Checkpoints()
	if err != nil {
		return nil, err
	}
	arts, err := sess.Artifacts()
	if err != nil {
		return nil, err
	}
	decision := maintenance.Evaluate(maintenance.Inputs{
		Checkpoints: cps,
		Artifacts:   arts,
		AdminScope:  sess.AdminScope(),
		Portable:    sess.Portable(),
	})
	if decision.FreshInstall {
		return nil, maintenance.ErrSetupRequired
	}
	names := make([]string, 0, decision.Actions.Len())
	for _, action := range decision.Actions.InOrder() {
		names = append(names, action.String())
	}
	return names, nil
}

func scopeName(admin bool) string {
	if admin {
		return "admin"
	}
	return "user"
}

func formatCheckpoint(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func summarizeOutcomes(outcomes []maintenance.ActionOutcome) string {
	if len(outcomes) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		label := outcome.Action
		switch {
		case outcome.Err != "":
			label += " (failed)"
		case outcome.ExitCode != 0:
			label += fmt.Sprintf(" (exit %d)", outcome.ExitCode)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}
