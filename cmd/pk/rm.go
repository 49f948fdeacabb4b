package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmFlags struct {
	hard bool
}

func init() {
	rmCmd.Flags().BoolVar(&rmFlags.hard, "hard", false, "Destroy the file instead of archiving it")
	rootCmd.AddCommand(rmCmd)
}

var rmCmd = &cobra.Command{
	Use:   "rm <id-or-name>",
	Short: "Delete a prompt",
	Long: `Delete a prompt. By default the file is moved to the archive
directory and only the index entry is removed; --hard destroys the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	stored, err := resolvePrompt(svc, args[0])
	if err != nil {
		exitWithTypedError(err)
	}

	if err := svc.Delete(stored.ID, rmFlags.hard); err != nil {
		exitWithTypedError(err)
	}

	mode := "archived"
	if rmFlags.hard {
		mode = "deleted"
	}

	if humanOutput {
		fmt.Printf("%s: %s\n", mode, stored.Name)
	} else {
		outputJSON(StatusResponse{Status: mode, Path: stored.Path})
	}
	return nil
}
