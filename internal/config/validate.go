package config

import (
	"fmt"
	"strings"

	"seqdeliver/internal/services"
)

// Validate checks that the configuration is complete enough to run any
// command. Root paths are required up front so a missing root aborts
// before any inventory resolution.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"paths.archive_root", c.Paths.ArchiveRoot},
		{"paths.production_root", c.Paths.ProductionRoot},
		{"paths.project_root", c.Paths.ProjectRoot},
		{"paths.runqc_root", c.Paths.RunQCRoot},
	}
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return services.Wrap(
			services.ErrConfiguration,
			"config",
			"validate",
			fmt.Sprintf("missing required settings: %s", strings.Join(missing, ", ")),
			nil,
		)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return services.Wrap(
			services.ErrConfiguration,
			"config",
			"validate",
			fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format),
			nil,
		)
	}
	return nil
}
