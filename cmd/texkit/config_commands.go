package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"texkit/internal/cfgfile"
	"texkit/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigGetCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigListCommand(ctx))
	configCmd.AddCommand(newConfigDigestCommand(ctx))

	return configCmd
}

// storeFile resolves which structured store a config subcommand operates
// on: an explicit --file wins, otherwise the scope's own store.
func storeFile(ctx *commandContext, explicit string) (string, error) {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return config.ExpandPath(trimmed)
	}
	sess, err := ctx.newSession()
	if err != nil {
		return "", err
	}
	if sess.AdminScope() {
		return sess.CommonConfigFile(), nil
	}
	return sess.UserConfigFile(), nil
}

func newConfigGetCommand(ctx *commandContext) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "get <section> <key>",
		Short: "Print one value from the structured store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storeFile(ctx, filePath)
			if err != nil {
				return err
			}
			store, err := cfgfile.Load(path)
			if err != nil {
				return err
			}
			value, ok := store.TryGet(args[0], args[1])
			if !ok {
				return fmt.Errorf("no value for [%s] %s in %s", args[0], args[1], path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Structured store file to read")
	return cmd
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "set <section> <key> <value>",
		Short: "Set one value in the structured store",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storeFile(ctx, filePath)
			if err != nil {
				return err
			}
			store, err := cfgfile.Load(path)
			if err != nil {
				return err
			}
			store.Put(args[0], args[1], args[2])
			if err := store.Write(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set [%s] %s in %s\n", args[0], args[1], path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Structured store file to modify")
	return cmd
}

func newConfigListCommand(ctx *commandContext) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all values in the structured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storeFile(ctx, filePath)
			if err != nil {
				return err
			}
			store, err := cfgfile.Load(path)
			if err != nil {
				return err
			}
			var rows [][]string
			for _, section := range store.Sections() {
				for _, value := range section.Values() {
					changed := "-"
					if !value.ChangedAt.IsZero() {
						changed = value.ChangedAt.Local().Format("2006-01-02 15:04:05")
					}
					rows = append(rows, []string{section.Name, value.Key, value.Value, changed})
				}
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "%s is empty\n", path)
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"Section", "Key", "Value", "Changed"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Structured store file to read")
	return cmd
}

func newConfigDigestCommand(ctx *commandContext) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the content digest of the structured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storeFile(ctx, filePath)
			if err != nil {
				return err
			}
			store, err := cfgfile.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Digest())
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Structured store file to read")
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to point install_root at your TeX distribution.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
