// Package main provides the pk CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptkeep/promptkeep/internal/config"
	"github.com/promptkeep/promptkeep/internal/filestore"
	"github.com/promptkeep/promptkeep/internal/index"
	"github.com/promptkeep/promptkeep/internal/promptstore"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pk",
	Short: "Personal prompt store with a searchable index",
	Long: `pk manages a personal store of reusable prompts.

Each prompt is a markdown file with YAML frontmatter under the prompts
directory; a derived SQLite index mirrors the files for fast lookup,
full-text search, and tag filtering. The files are the source of truth:
'pk sync' rebuilds the index from them, 'pk check' audits the two stores
against each other without repairing anything.

All commands output JSON by default; pass --human for prose.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustFindRepository finds the repository root, exits on error.
func mustFindRepository() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	repoRoot, err := config.FindRepository(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'pk init' to create a repository here.", err)
	}
	return repoRoot
}

// mustOpenService opens the stores and builds the service, exits on error.
// The caller must invoke the returned cleanup function.
func mustOpenService(repoRoot string) (*promptstore.Service, func()) {
	cfg := mustLoadConfig(repoRoot)

	files := filestore.New(cfg.PromptsPath(repoRoot), cfg.ArchivePath(repoRoot))
	idx, err := index.Open(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}

	return promptstore.New(files, idx), func() { idx.Close() }
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}
