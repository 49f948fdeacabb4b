package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptkeep/promptkeep/internal/clipboard"
	"github.com/promptkeep/promptkeep/internal/promptstore"
)

var getFlags struct {
	copyBody bool
	metaOnly bool
}

func init() {
	getCmd.Flags().BoolVar(&getFlags.copyBody, "copy", false, "Copy the prompt body to the clipboard")
	getCmd.Flags().BoolVar(&getFlags.metaOnly, "meta", false, "Show metadata only, without the body")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id-or-name>",
	Short: "Show a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// resolvePrompt looks up a prompt by id first, then by exact name.
func resolvePrompt(svc *promptstore.Service, key string) (*promptstore.Stored, error) {
	stored, err := svc.GetByID(key)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, promptstore.ErrNotFound) {
		return nil, err
	}
	return svc.GetByName(key)
}

func runGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	stored, err := resolvePrompt(svc, args[0])
	if err != nil {
		exitWithTypedError(err)
	}

	if getFlags.copyBody {
		if err := clipboard.Copy(stored.Content); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
	}

	if humanOutput {
		fmt.Printf("%s (v%d)\n", stored.Name, stored.Version)
		fmt.Printf("  id: %s\n", stored.ID)
		if len(stored.Tags) > 0 {
			fmt.Printf("  tags: %v\n", stored.Tags)
		}
		fmt.Printf("  updated: %s\n", stored.Updated.Format("2006-01-02 15:04"))
		if !getFlags.metaOnly {
			fmt.Printf("\n%s\n", stored.Content)
		}
	} else {
		outputJSON(promptResponse(stored, !getFlags.metaOnly))
	}
	return nil
}
