package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search across prompt names and bodies",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	summaries, err := svc.Search(args[0])
	if err != nil {
		exitWithTypedError(err)
	}

	if humanOutput {
		printSummariesHuman(summaries)
	} else {
		outputJSON(summaryResponses(summaries))
	}
	return nil
}
