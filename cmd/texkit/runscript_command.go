package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"texkit/internal/scriptrun"
	"texkit/internal/toolrun"
)

// scriptExitError carries a script's non-zero exit code to main so the
// texkit process can mirror it.
type scriptExitError struct {
	code int
}

func (e *scriptExitError) Error() string {
	return fmt.Sprintf("script exited with code %d", e.code)
}

func newRunScriptCommand(ctx *commandContext) *cobra.Command {
	var engine string

	cmd := &cobra.Command{
		Use:   "runscript <name> [args...]",
		Short: "Run a registered maintenance script",
		Long:  "Runs the script registered under the given name, forwarding its exit code. Arguments after -- are passed to the script.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.runStartupMaintenance(cmd.Context()); err != nil {
				return err
			}
			sess, err := ctx.newSession()
			if err != nil {
				return err
			}
			runner, err := scriptrun.New(sess.ScriptRegistryPath(), &toolrun.ExecRunner{}, ctx.ensureLogger())
			if err != nil {
				return err
			}
			code, err := runner.Run(cmd.Context(), engine, args[0], args[1:])
			if err != nil {
				return err
			}
			if code != 0 {
				return &scriptExitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&engine, "engine", "perl", "Script engine to dispatch to")
	return cmd
}
