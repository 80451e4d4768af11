package config

const (
	defaultOrganizerBinary    = "organize"
	defaultGracePeriodSeconds = 5
	defaultLogDir             = "~/.local/share/curator/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a configuration populated with defaults. Paths are not yet
// expanded; Load handles that.
func Default() Config {
	return Config{
		Organizer: Organizer{
			Binary:             defaultOrganizerBinary,
			GracePeriodSeconds: defaultGracePeriodSeconds,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
