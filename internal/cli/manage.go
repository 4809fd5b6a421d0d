package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"counselkit/internal/dataset"
	"counselkit/internal/manage"
	"counselkit/internal/store"
)

func newManageCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Inspect and export the document store",
		Long: `manage prints store statistics and a random sample of dialogues, and
optionally searches by keyword and exports the stored records as
{input, output} training examples.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManage(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.DBPath, "db", flags.DBPath, "Document store database file")
	cmd.Flags().StringVar(&flags.SearchKeyword, "search", "", "Search records by keyword")
	cmd.Flags().StringVar(&flags.SearchLang, "lang", flags.SearchLang, "Language side to search: source or target")
	cmd.Flags().IntVar(&flags.SampleCount, "sample", flags.SampleCount, "Show N random dialogues (0 to disable)")
	cmd.Flags().StringVar(&flags.ExportFile, "export", "", "Export training data to this file")

	return cmd
}

func runManage(cmd *cobra.Command, flags *Flags) error {
	st, err := store.Open(flags.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	ctx := cmd.Context()

	stats, err := manage.GetStats(ctx, st)
	if err != nil {
		return err
	}
	fmt.Printf("=== Store Statistics ===\n")
	fmt.Printf("Total records: %d\n", stats.TotalRecords)
	fmt.Printf("Translated records: %d\n", stats.TranslatedRecords)
	fmt.Printf("Source records: %d\n", stats.SourceRecords)
	fmt.Printf("Indexes: %d\n", len(stats.Indexes))
	fmt.Printf("========================\n")

	if flags.SearchKeyword != "" {
		results, err := manage.Search(ctx, st, flags.SearchKeyword, flags.SearchLang == "source", 5)
		if err != nil {
			return err
		}
		fmt.Printf("\nSearch %q (%s): %d results\n", flags.SearchKeyword, flags.SearchLang, len(results))
		printSample(results)
	}

	if flags.SampleCount > 0 {
		results, err := manage.Sample(ctx, st, flags.SampleCount)
		if err != nil {
			return err
		}
		fmt.Printf("\nRandom sample: %d dialogues\n", len(results))
		printSample(results)
	}

	if flags.ExportFile != "" {
		n, err := manage.ExportTraining(ctx, st, flags.ExportFile)
		if err != nil {
			return err
		}
		fmt.Printf("\nExported %d training examples to %s\n", n, flags.ExportFile)
	}
	return nil
}

func printSample(records []dataset.Record) {
	for _, r := range records {
		fmt.Printf("  [%s] %s\n", r.ID, truncate(r.Context, 80))
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
