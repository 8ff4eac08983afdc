package config

const (
	defaultLogDir       = "~/.local/share/fslkit/logs"
	defaultHistoryDB    = "~/.local/share/fslkit/history.db"
	defaultLockFile     = "~/.local/share/fslkit/format.lock"
	defaultOutputFormat = "NIFTI_GZ"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
			LockFile:  defaultLockFile,
		},
		Tools: Tools{
			BET:     "bet",
			FAST:    "fast",
			FLIRT:   "flirt",
			MCFLIRT: "mcflirt",
			FNIRT:   "fnirt",
		},
		Output: Output{
			Format: defaultOutputFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
