package config

// Default returns the baseline configuration before any file overrides
// are applied.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: "~/.local/share/seqdeliver/logs",
		},
		Rsync: Rsync{
			Binary: "rsync",
			// Dry-run by default so the pre-finish check never mutates
			// the QC archive; it only reports what would move.
			SampleOpts: "-av --dry-run",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
