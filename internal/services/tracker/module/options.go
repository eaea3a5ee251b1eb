package module

import "chattally/internal/platform/config"

// Options holds configuration settings for the tracker module
type Options struct {
	Hosts       []string
	PathSegment string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	tf := cfg.Prefix("CORE_TRACKER_")
	return Options{
		Hosts:       tf.MayCSV("HOSTS", nil),
		PathSegment: tf.MayString("PATH_SEGMENT", ""),
	}
}
