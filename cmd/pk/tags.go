package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	tagsCmd.AddCommand(tagsRenameCmd)
	rootCmd.AddCommand(tagsCmd)
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with reference counts",
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

func runTags(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	tags, err := svc.ListTags()
	if err != nil {
		exitWithTypedError(err)
	}

	if humanOutput {
		if len(tags) == 0 {
			fmt.Println("No tags.")
			return nil
		}
		for _, tc := range tags {
			fmt.Printf("%-30s %d\n", tc.Name, tc.Count)
		}
	} else {
		outputJSON(tags)
	}
	return nil
}

var tagsRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a tag across all prompts",
	Long: `Rename a tag across all prompts carrying it. The old name is
matched case-insensitively; renaming onto an existing tag merges the two.`,
	Args: cobra.ExactArgs(2),
	RunE: runTagsRename,
}

// TagRenameResponse is the JSON response for tags rename.
type TagRenameResponse struct {
	Status  string `json:"status"`
	Old     string `json:"old"`
	New     string `json:"new"`
	Touched int    `json:"touched"`
}

func runTagsRename(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	touched, err := svc.RenameTag(args[0], args[1])
	if err != nil {
		exitWithTypedError(err)
	}

	if humanOutput {
		fmt.Printf("Renamed tag %q to %q across %d prompt(s)\n", args[0], args[1], touched)
	} else {
		outputJSON(TagRenameResponse{Status: "renamed", Old: args[0], New: args[1], Touched: touched})
	}
	return nil
}
