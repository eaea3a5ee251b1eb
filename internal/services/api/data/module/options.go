package module

import (
	"chattally/internal/platform/config"
)

// Options configure the data module
type Options struct {
	// Token is the shared X-Auth-Token secret. Empty rejects every caller
	Token string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	api := cfg.Prefix("CORE_API_")
	return Options{
		Token: api.MayString("TOKEN", ""),
	}
}
