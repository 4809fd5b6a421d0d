package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"counselkit/internal/store"
	"counselkit/internal/verify"
)

func newVerifyCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the document store's consistency",
		Long: `verify runs read-only consistency checks against the document store:
record counts, required fields, index presence, and sample lookup and
search smoke tests.
Every check is reported individually; the exit status is non-zero if any
check failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.DBPath, "db", flags.DBPath, "Document store database file")

	return cmd
}

func runVerify(cmd *cobra.Command, flags *Flags) error {
	st, err := store.Open(flags.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := verify.Run(cmd.Context(), st)
	if err != nil {
		return err
	}

	fmt.Printf("=== Verification Report ===\n")
	failed := 0
	for _, check := range report.Checks {
		mark := "PASS"
		if !check.Passed {
			mark = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %s: %s\n", mark, check.Name, check.Detail)
	}
	fmt.Printf("===========================\n")

	if failed > 0 {
		return fmt.Errorf("%d of %d verification checks failed", failed, len(report.Checks))
	}
	fmt.Println("All checks passed")
	return nil
}
