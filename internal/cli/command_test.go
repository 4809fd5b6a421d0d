package cli

import "testing"

func TestNewFlagsDefaults(t *testing.T) {
	flags := NewFlags()

	if flags.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", flags.LogLevel)
	}
	if flags.Provider != "deepseek" {
		t.Errorf("Expected default provider deepseek, got %s", flags.Provider)
	}
	if flags.Input != "data/dataset_english.json" || flags.Output != "data/dataset_chinese.json" {
		t.Errorf("Unexpected dataset defaults: %s -> %s", flags.Input, flags.Output)
	}
	if flags.Checkpoint != "data/translation_checkpoint.jsonl" {
		t.Errorf("Unexpected checkpoint default: %s", flags.Checkpoint)
	}
	if flags.DBPath != "data/counseling.db" {
		t.Errorf("Unexpected db default: %s", flags.DBPath)
	}
	if flags.ImportInput != "data/dataset_chinese.json" {
		t.Errorf("Unexpected import input default: %s", flags.ImportInput)
	}
	if flags.CleanInput != "data/dataset_english.json" || flags.CleanOutput != "" {
		t.Errorf("Unexpected clean defaults: %s -> %s", flags.CleanInput, flags.CleanOutput)
	}
	if flags.SearchLang != "target" || flags.SampleCount != 3 {
		t.Errorf("Unexpected manage defaults: %s / %d", flags.SearchLang, flags.SampleCount)
	}
}

// Registering a flag assigns its default to the bound field, so building
// the full command tree must leave every command's defaults intact.
func TestCreateRootCommandKeepsDefaults(t *testing.T) {
	flags := NewFlags()
	CreateRootCommand(flags)

	if flags.Input != "data/dataset_english.json" {
		t.Errorf("translate input default clobbered: %s", flags.Input)
	}
	if flags.Output != "data/dataset_chinese.json" {
		t.Errorf("translate output default clobbered: %s", flags.Output)
	}
	if flags.Checkpoint != "data/translation_checkpoint.jsonl" {
		t.Errorf("checkpoint default clobbered: %s", flags.Checkpoint)
	}
	if flags.ImportInput != "data/dataset_chinese.json" {
		t.Errorf("import input default clobbered: %s", flags.ImportInput)
	}
	if flags.CleanInput != "data/dataset_english.json" {
		t.Errorf("clean input default clobbered: %s", flags.CleanInput)
	}
	if flags.DBPath != "data/counseling.db" {
		t.Errorf("db default clobbered: %s", flags.DBPath)
	}
	if flags.SampleCount != 3 {
		t.Errorf("sample count default clobbered: %d", flags.SampleCount)
	}
}

func TestCreateRootCommand(t *testing.T) {
	cmd := CreateRootCommand(NewFlags())

	if cmd.Use != "counselkit" {
		t.Errorf("Expected command name counselkit, got %s", cmd.Use)
	}

	want := []string{"translate", "import", "verify", "manage", "clean"}
	have := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("Missing subcommand %s", name)
		}
	}
}

func TestGetAPIKeyFromEnv(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "test-deepseek-key")
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")

	if key := GetAPIKey("deepseek"); key != "test-deepseek-key" {
		t.Errorf("Expected deepseek key from env, got %q", key)
	}
	if key := GetAPIKey("gemini"); key != "test-gemini-key" {
		t.Errorf("Expected gemini key from env, got %q", key)
	}
}
