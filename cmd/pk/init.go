package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptkeep/promptkeep/internal/config"
	"github.com/promptkeep/promptkeep/internal/filestore"
	"github.com/promptkeep/promptkeep/internal/index"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a promptkeep repository in the current directory",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(cwd) {
		exitWithError(ExitConfigError, "already a promptkeep repository: %s", cwd)
	}

	if err := os.MkdirAll(config.PromptkeepPath(cwd), 0755); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.PromptkeepDir, err)
	}

	cfg := &config.Config{}
	if err := cfg.Save(cwd); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	files := filestore.New(cfg.PromptsPath(cwd), cfg.ArchivePath(cwd))
	if err := files.Init(); err != nil {
		exitWithError(ExitError, "creating prompt directories: %v", err)
	}

	// Opening the index applies the schema migrations.
	idx, err := index.Open(config.DBPath(cwd))
	if err != nil {
		exitWithError(ExitError, "creating index: %v", err)
	}
	idx.Close()

	if humanOutput {
		fmt.Printf("Initialized promptkeep repository in %s\n", cwd)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: cwd})
	}
	return nil
}
