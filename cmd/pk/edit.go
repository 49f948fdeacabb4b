package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptkeep/promptkeep/internal/promptstore"
)

var editFlags struct {
	name     string
	content  string
	file     string
	tags     []string
	template bool
	favorite bool
	pin      bool
}

func init() {
	editCmd.Flags().StringVar(&editFlags.name, "name", "", "Rename the prompt")
	editCmd.Flags().StringVarP(&editFlags.content, "content", "c", "", "Replace the prompt body")
	editCmd.Flags().StringVarP(&editFlags.file, "file", "f", "", "Replace the body from a file ('-' for stdin)")
	editCmd.Flags().StringSliceVarP(&editFlags.tags, "tag", "t", nil, "Replace the tag set (repeatable; pass none with --tag='')")
	editCmd.Flags().BoolVar(&editFlags.template, "template", false, "Set the template flag")
	editCmd.Flags().BoolVar(&editFlags.favorite, "favorite", false, "Set the favorite flag")
	editCmd.Flags().BoolVar(&editFlags.pin, "pin", false, "Set the pinned flag")
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <id-or-name>",
	Short: "Update fields of a prompt",
	Long: `Update fields of a prompt. Only flags you pass change; everything
else is preserved. Every edit increments the prompt version by one.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	stored, err := resolvePrompt(svc, args[0])
	if err != nil {
		exitWithTypedError(err)
	}

	var params promptstore.UpdateParams
	changed := false

	if cmd.Flags().Changed("name") {
		params.Name = &editFlags.name
		changed = true
	}
	if cmd.Flags().Changed("content") {
		params.Content = &editFlags.content
		changed = true
	}
	if cmd.Flags().Changed("file") {
		body, err := readBody(editFlags.file)
		if err != nil {
			exitWithError(ExitError, "reading body: %v", err)
		}
		params.Content = &body
		changed = true
	}
	if cmd.Flags().Changed("tag") {
		params.Tags = &editFlags.tags
		changed = true
	}
	if cmd.Flags().Changed("template") {
		params.IsTemplate = &editFlags.template
		changed = true
	}
	if cmd.Flags().Changed("favorite") {
		params.IsFavorite = &editFlags.favorite
		changed = true
	}
	if cmd.Flags().Changed("pin") {
		params.IsPinned = &editFlags.pin
		changed = true
	}

	if !changed {
		exitWithError(ExitError, "nothing to update; pass at least one field flag")
	}

	updated, err := svc.Update(stored.ID, params)
	if err != nil {
		exitWithTypedError(err)
	}

	if humanOutput {
		fmt.Printf("Updated %s (v%d)\n", updated.Name, updated.Version)
	} else {
		outputJSON(promptResponse(updated, false))
	}
	return nil
}
