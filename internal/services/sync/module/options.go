package module

import (
	"time"

	"chattally/internal/platform/config"
)

// Options holds configuration settings for the sync module
type Options struct {
	// BaseURL includes the remote store's version prefix
	BaseURL string
	Token   string
	Timeout time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("CORE_SYNC_")
	return Options{
		BaseURL: sf.MayString("BASE_URL", "http://localhost:4317/api/v1"),
		Token:   sf.MayString("TOKEN", ""),
		Timeout: sf.MayDuration("TIMEOUT", 10*time.Second),
	}
}
