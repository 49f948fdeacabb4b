package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptkeep/promptkeep/internal/promptstore"
)

var newFlags struct {
	content  string
	file     string
	tags     []string
	template bool
	favorite bool
	pin      bool
}

func init() {
	newCmd.Flags().StringVarP(&newFlags.content, "content", "c", "", "Prompt body text")
	newCmd.Flags().StringVarP(&newFlags.file, "file", "f", "", "Read prompt body from a file ('-' for stdin)")
	newCmd.Flags().StringSliceVarP(&newFlags.tags, "tag", "t", nil, "Tag to attach (repeatable)")
	newCmd.Flags().BoolVar(&newFlags.template, "template", false, "Mark as a template")
	newCmd.Flags().BoolVar(&newFlags.favorite, "favorite", false, "Mark as a favorite")
	newCmd.Flags().BoolVar(&newFlags.pin, "pin", false, "Pin to the top of listings")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	content := newFlags.content
	if newFlags.file != "" {
		data, err := readBody(newFlags.file)
		if err != nil {
			exitWithError(ExitError, "reading body: %v", err)
		}
		content = data
	}

	stored, err := svc.Create(promptstore.CreateParams{
		Name:       args[0],
		Content:    content,
		Tags:       newFlags.tags,
		IsTemplate: newFlags.template,
		IsFavorite: newFlags.favorite,
		IsPinned:   newFlags.pin,
	})
	if err != nil {
		exitWithTypedError(err)
	}

	if humanOutput {
		fmt.Printf("Created %s (%s)\n", stored.Name, stored.Path)
	} else {
		outputJSON(promptResponse(stored, false))
	}
	return nil
}

func readBody(source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(source)
	return string(data), err
}
