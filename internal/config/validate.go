package config

import (
	"fmt"
	"strings"

	"fslkit/internal/imgformat"
)

// Validate checks the configuration for values that would break a run.
func (c *Config) Validate() error {
	if !imgformat.Known(c.Output.Format) {
		return fmt.Errorf("output.format %q is not a recognised image format (valid: %s)",
			c.Output.Format, strings.Join(imgformat.Names(), ", "))
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}

	tools := map[string]string{
		"tools.bet":     c.Tools.BET,
		"tools.fast":    c.Tools.FAST,
		"tools.flirt":   c.Tools.FLIRT,
		"tools.mcflirt": c.Tools.MCFLIRT,
		"tools.fnirt":   c.Tools.FNIRT,
	}
	for key, value := range tools {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}

	return nil
}
