package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"counselkit/internal/checkpoint"
	"counselkit/internal/dataset"
	"counselkit/internal/pipeline"
	"counselkit/internal/translator"
)

func newTranslateCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate the source dataset with checkpointed resume",
		Long: `translate runs the batch translation of the English source dataset
to Chinese. Progress is checkpointed per record, so an interrupted run can
be restarted and will skip records that are already done. Records that
failed in a previous run are retried.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Input, "input", "i", flags.Input, "Source dataset file (English)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", flags.Output, "Target dataset file (Chinese)")
	cmd.Flags().StringVar(&flags.Checkpoint, "checkpoint", flags.Checkpoint, "Checkpoint file for resume")
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: deepseek or gemini")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Override the provider's default model")

	viper.BindPFlag("translator.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translator.model", cmd.Flags().Lookup("model"))

	return cmd
}

func runTranslate(cmd *cobra.Command, flags *Flags) error {
	apiKey := GetAPIKey(flags.Provider)
	if apiKey == "" {
		return fmt.Errorf("no API key configured for provider %s (set DEEPSEEK_API_KEY or translator.api_key)", flags.Provider)
	}

	records, err := dataset.Load(flags.Input)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d dialogue records from %s\n", len(records), flags.Input)

	ckpt, err := checkpoint.Open(flags.Checkpoint)
	if err != nil {
		return err
	}
	defer ckpt.Close()
	if done := ckpt.DoneCount(); done > 0 {
		fmt.Printf("Resuming: %d records already translated\n", done)
	}

	provider, err := translator.NewProvider(&translator.ProviderConfig{
		Provider: flags.Provider,
		APIKey:   apiKey,
		BaseURL:  viper.GetString("translator.base_url"),
		Model:    flags.Model,
	})
	if err != nil {
		return err
	}

	adapter := translator.NewAdapter(provider, adapterConfig())
	driver := pipeline.New(adapter, ckpt)

	result, err := driver.Run(cmd.Context(), records)
	if err != nil {
		return err
	}

	if err := dataset.Save(flags.Output, result.Records); err != nil {
		return err
	}
	fmt.Printf("Target dataset written to %s\n", flags.Output)

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d records failed to translate", result.Failed, result.Total)
	}
	return nil
}

// adapterConfig builds the retry policy, letting the config file override
// the defaults.
func adapterConfig() translator.AdapterConfig {
	config := translator.DefaultAdapterConfig()
	if viper.IsSet("translator.timeout") {
		config.Timeout = viper.GetDuration("translator.timeout")
	}
	if viper.IsSet("translator.max_attempts") {
		config.MaxAttempts = viper.GetInt("translator.max_attempts")
	}
	if viper.IsSet("translator.initial_interval") {
		config.InitialInterval = viper.GetDuration("translator.initial_interval")
	}
	if viper.IsSet("translator.multiplier") {
		config.Multiplier = viper.GetFloat64("translator.multiplier")
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return config
}
