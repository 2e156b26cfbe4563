package config

const (
	defaultConfigPath     = "~/.config/correioszpl/config.toml"
	projectConfigName     = "correioszpl.toml"
	defaultWorkDir        = "./tmp"
	defaultJournalPath    = "~/.local/share/correioszpl/journal.db"
	defaultDarknessLevel  = 20
	defaultPrinterType    = "spool"
	defaultPrinterPort    = 9100
	defaultTimeoutMS      = 30000
	defaultPollIntervalMS = 500
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// PrinterNameEnv overrides printer.name when set.
	PrinterNameEnv = "CORREIOSZPL_PRINTER_NAME"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:     defaultWorkDir,
			JournalPath: defaultJournalPath,
		},
		Label: Label{
			DarknessLevel: defaultDarknessLevel,
		},
		Printer: Printer{
			Type:      defaultPrinterType,
			Port:      defaultPrinterPort,
			TimeoutMS: defaultTimeoutMS,
		},
		Spool: Spool{
			ListCommand:      "lpstat",
			QueryCommand:     "lpq",
			SubmitCommand:    "lp",
			RawSubmitCommand: "lpr",
			CancelCommand:    "lprm",
			PollIntervalMS:   defaultPollIntervalMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
