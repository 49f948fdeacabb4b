package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set repository configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoRoot := mustFindRepository()
		cfg := mustLoadConfig(repoRoot)

		if humanOutput {
			fmt.Printf("prompts_dir: %s\n", cfg.PromptsPath(repoRoot))
			fmt.Printf("archive_dir: %s\n", cfg.ArchivePath(repoRoot))
			if cfg.Editor != "" {
				fmt.Printf("editor: %s\n", cfg.Editor)
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoRoot := mustFindRepository()
		cfg := mustLoadConfig(repoRoot)

		key, value := args[0], args[1]
		switch key {
		case "prompts_dir":
			cfg.PromptsDir = value
		case "archive_dir":
			cfg.ArchiveDir = value
		case "editor":
			cfg.Editor = value
		default:
			exitWithError(ExitConfigError, "unknown config key %q (valid: prompts_dir, archive_dir, editor)", key)
		}

		if err := cfg.Save(repoRoot); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			fmt.Printf("set %s = %s\n", key, value)
		} else {
			outputJSON(StatusResponse{Status: "updated"})
		}
		return nil
	},
}
