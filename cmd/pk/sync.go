package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/promptkeep/promptkeep/internal/filestore"
	"github.com/promptkeep/promptkeep/internal/reconcile"
	"github.com/promptkeep/promptkeep/internal/watch"
)

var syncFlags struct {
	watch bool
}

func init() {
	syncCmd.Flags().BoolVarP(&syncFlags.watch, "watch", "w", false, "Keep running and re-sync on file changes")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the index from the prompt files",
	Long: `Reconcile the index with the prompt files: untracked files are
indexed, changed files re-projected, and rows for deleted files removed.
Files that fail to read or parse are reported per path without blocking
the rest of the batch. With --watch, stays running and re-syncs whenever
a prompt file changes.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()
	engine := svc.Engine()

	if !syncFlags.watch {
		report, err := engine.SyncAll()
		if err != nil {
			exitWithTypedError(err)
		}
		printSyncReport(report)
		if len(report.Errors) > 0 {
			os.Exit(ExitDataError)
		}
		return nil
	}

	cfg := mustLoadConfig(repoRoot)
	files := filestore.New(cfg.PromptsPath(repoRoot), cfg.ArchivePath(repoRoot))

	watcher := watch.New(engine, files)
	watcher.OnSync = func(report *reconcile.SyncReport) {
		printSyncReport(report)
	}
	watcher.OnError = func(err error) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if humanOutput {
		fmt.Printf("Watching %s (Ctrl-C to stop)\n", files.Root())
	}
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

func printSyncReport(report *reconcile.SyncReport) {
	if !humanOutput {
		outputJSON(report)
		return
	}

	fmt.Printf("Scanned %d file(s): %d created, %d updated, %d removed\n",
		report.Scanned, report.Created, report.Updated, report.Removed)
	for path, msg := range report.Errors {
		fmt.Printf("  [WARN] %s: %s\n", path, msg)
	}
}
