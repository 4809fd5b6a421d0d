package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"counselkit/internal/dataset"
	"counselkit/internal/importer"
	"counselkit/internal/store"
)

func newImportCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a dataset file into the document store",
		Long: `import upserts each record of a dataset file into the local document
store, keyed by the record's stable id. Records already present with
identical content are skipped; records present with different content are
reported as conflicts unless --overwrite is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.ImportInput, "input", "i", flags.ImportInput, "Dataset file to import")
	cmd.Flags().StringVar(&flags.DBPath, "db", flags.DBPath, "Document store database file")
	cmd.Flags().BoolVar(&flags.Overwrite, "overwrite", false, "Overwrite records that conflict on content")
	cmd.Flags().BoolVar(&flags.Reset, "reset", false, "Clear the store before importing")

	return cmd
}

func runImport(cmd *cobra.Command, flags *Flags) error {
	records, err := dataset.Load(flags.ImportInput)
	if err != nil {
		return err
	}
	fmt.Printf("Importing %d records from %s\n", len(records), flags.ImportInput)

	st, err := store.Open(flags.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := importer.Import(cmd.Context(), st, records, importer.Options{
		Overwrite: flags.Overwrite,
		Reset:     flags.Reset,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Import Summary ===\n")
	fmt.Printf("Total records: %d\n", report.Total)
	fmt.Printf("Inserted: %d\n", report.Inserted)
	fmt.Printf("Skipped (unchanged): %d\n", report.Skipped)
	if report.Replaced > 0 {
		fmt.Printf("Replaced: %d\n", report.Replaced)
	}
	if len(report.Conflicts) > 0 {
		fmt.Printf("Conflicts: %d\n", len(report.Conflicts))
	}
	fmt.Printf("======================\n")

	if !report.OK() {
		return fmt.Errorf("%d records conflicted; re-run with --overwrite to replace them", len(report.Conflicts))
	}
	return nil
}
