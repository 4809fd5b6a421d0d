package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"counselkit/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "counselkit",
		Short: "Counseling dialogue dataset curation pipeline",
		Long: `counselkit curates an English mental-health counseling dialogue
dataset: it translates the dialogues to Chinese through a checkpointed
batch pipeline, imports either language variant into a local document
store, and verifies and manages the stored data.

Examples:
  counselkit translate --input data/dataset_english.json
  counselkit import --input data/dataset_chinese.json --db data/counseling.db
  counselkit verify --db data/counseling.db
  counselkit manage --search 抑郁 --export data/training_data.json`,
		Version: internal.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.counselkit.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(newTranslateCommand(flags))
	rootCmd.AddCommand(newImportCommand(flags))
	rootCmd.AddCommand(newVerifyCommand(flags))
	rootCmd.AddCommand(newManageCommand(flags))
	rootCmd.AddCommand(newCleanCommand(flags))

	return rootCmd
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A config/.env or .env next to the binary carries the API credentials
	for _, envFile := range []string{filepath.Join("config", ".env"), ".env"} {
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
			break
		}
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".counselkit")
	}

	// Environment variables
	viper.SetEnvPrefix("COUNSELKIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging configures logrus from the flag/config values.
func setupLogging(flags *Flags) {
	level, err := logrus.ParseLevel(flags.LogLevel)
	if err != nil {
		logrus.Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logFile := flags.LogFile
	if logFile == "" {
		logFile = viper.GetString("log.file")
	}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			logrus.Warnf("Failed to create log directory: %v", err)
			return
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logrus.Warnf("Failed to open log file: %v", err)
			return
		}
		logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	}
}

// GetAPIKey retrieves the translation API key for the given provider from
// the environment or the config file.
func GetAPIKey(provider string) string {
	envVar := "DEEPSEEK_API_KEY"
	if provider == "gemini" {
		envVar = "GEMINI_API_KEY"
	}
	if key := os.Getenv(envVar); key != "" {
		return key
	}

	return viper.GetString("translator.api_key")
}
