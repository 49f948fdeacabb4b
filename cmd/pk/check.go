package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit the index against the prompt files",
	Long: `Audit the index against the prompt files without repairing
anything. Reports index entries whose files are gone, files whose content
has drifted from the stored fingerprint, and files not yet indexed.
Repair is 'pk sync'.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	svc, cleanup := mustOpenService(repoRoot)
	defer cleanup()

	report, err := svc.Engine().CheckIntegrity()
	if err != nil {
		exitWithTypedError(err)
	}

	if humanOutput {
		if report.Valid {
			fmt.Println("Integrity check: OK")
		} else {
			fmt.Println("Integrity check: drift detected")
			for _, path := range report.OrphanedRecords {
				fmt.Printf("  [WARN] indexed but missing on disk: %s\n", path)
			}
			for _, path := range report.HashMismatches {
				fmt.Printf("  [WARN] content drifted since indexing: %s\n", path)
			}
			for _, path := range report.Untracked {
				fmt.Printf("  [WARN] on disk but not indexed: %s\n", path)
			}
			for path, msg := range report.Unreadable {
				fmt.Printf("  [WARN] unreadable: %s (%s)\n", path, msg)
			}
			fmt.Println("\nRun 'pk sync' to repair.")
		}
	} else {
		outputJSON(report)
	}

	if !report.Valid {
		os.Exit(ExitDataError)
	}
	return nil
}
