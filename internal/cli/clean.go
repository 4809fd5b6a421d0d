package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"counselkit/internal/dataset"
)

func newCleanCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean and optionally filter a dataset file",
		Long: `clean normalizes record text (mojibake repair, whitespace), drops
records with an empty context or response, and dedupes by record id.
With --keywords it additionally keeps only records that mention at least
--min-score of the given keywords.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.CleanInput, "input", "i", flags.CleanInput, "Dataset file to clean")
	cmd.Flags().StringVarP(&flags.CleanOutput, "output", "o", "", "Cleaned dataset file (default: overwrite input)")
	cmd.Flags().StringSliceVar(&flags.Keywords, "keywords", nil, "Relevance keywords for topic filtering")
	cmd.Flags().IntVar(&flags.MinScore, "min-score", 1, "Minimum keyword hits to keep a record")

	return cmd
}

func runClean(flags *Flags) error {
	records, err := dataset.Load(flags.CleanInput)
	if err != nil {
		return err
	}

	keywords := flags.Keywords
	if len(keywords) == 0 {
		keywords = viper.GetStringSlice("clean.keywords")
	}
	var filter *dataset.KeywordFilter
	if len(keywords) > 0 {
		filter = &dataset.KeywordFilter{Keywords: keywords, MinScore: flags.MinScore}
	}

	cleaned, report := dataset.Clean(records, filter)

	output := flags.CleanOutput
	if output == "" {
		output = flags.CleanInput
	}
	if err := dataset.Save(output, cleaned); err != nil {
		return err
	}

	fmt.Printf("=== Clean Summary ===\n")
	fmt.Printf("Total records: %d\n", report.Total)
	fmt.Printf("Kept: %d\n", report.Kept)
	fmt.Printf("Dropped (empty): %d\n", report.Empty)
	fmt.Printf("Dropped (duplicate): %d\n", report.Duplicates)
	if filter != nil {
		fmt.Printf("Dropped (filtered): %d\n", report.Filtered)
	}
	fmt.Printf("=====================\n")
	fmt.Printf("Cleaned dataset written to %s\n", output)
	return nil
}
