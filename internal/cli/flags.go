package cli

// Flags holds all command-line flag values. Each subcommand registers its
// flags against its own fields; cobra assigns the default value at
// registration time, so two commands must never share a field unless they
// share the default too.
type Flags struct {
	// Global flags
	CfgFile  string
	LogLevel string
	LogFile  string

	// Translate flags
	Input      string
	Output     string
	Checkpoint string
	Provider   string
	Model      string

	// Store flags
	ImportInput string
	DBPath      string
	Overwrite   bool
	Reset       bool

	// Manage flags
	SearchKeyword string
	SearchLang    string
	SampleCount   int
	ExportFile    string

	// Clean flags
	CleanInput  string
	CleanOutput string
	Keywords    []string
	MinScore    int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:    "info",
		Input:       "data/dataset_english.json",
		Output:      "data/dataset_chinese.json",
		Checkpoint:  "data/translation_checkpoint.jsonl",
		Provider:    "deepseek",
		ImportInput: "data/dataset_chinese.json",
		DBPath:      "data/counseling.db",
		SearchLang:  "target",
		SampleCount: 3,
		CleanInput:  "data/dataset_english.json",
	}
}
