package main

import (
	"github.com/spf13/cobra"

	"github.com/promptkeep/promptkeep/internal/promptstore"
)

var lsFlags struct {
	tags []string
}

func init() {
	lsCmd.Flags().StringSliceVarP(&lsFlags.tags, "tag", "t", nil, "Only prompts carrying any of these tags (repeatable)")
	rootCmd.AddCommand(lsCmd)
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List prompts",
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	var summaries []promptstore.Summary
	var err error
	if len(lsFlags.tags) > 0 {
		summaries, err = svc.FindByTags(lsFlags.tags)
	} else {
		summaries, err = svc.List()
	}
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
