package config

import (
	"os"
	"strings"
)

// normalize expands path fields, applies environment fallbacks, and
// fills in defaults for fields left empty by the config file.
func (c *Config) normalize() error {
	if c.Paths.FSLDir == "" {
		if dir, ok := os.LookupEnv("FSLDIR"); ok {
			c.Paths.FSLDir = dir
		}
	}

	paths := []*string{
		&c.Paths.FSLDir,
		&c.Paths.WorkDir,
		&c.Paths.LogDir,
		&c.Paths.HistoryDB,
		&c.Paths.LockFile,
	}
	for _, p := range paths {
		if strings.TrimSpace(*p) == "" {
			*p = ""
			continue
		}
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	defaults := Default()
	tools := []struct {
		field    *string
		fallback string
	}{
		{&c.Tools.BET, defaults.Tools.BET},
		{&c.Tools.FAST, defaults.Tools.FAST},
		{&c.Tools.FLIRT, defaults.Tools.FLIRT},
		{&c.Tools.MCFLIRT, defaults.Tools.MCFLIRT},
		{&c.Tools.FNIRT, defaults.Tools.FNIRT},
	}
	for _, t := range tools {
		*t.field = strings.TrimSpace(*t.field)
		if *t.field == "" {
			*t.field = t.fallback
		}
	}

	c.Output.Format = strings.ToUpper(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaults.Output.Format
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}

	return nil
}
