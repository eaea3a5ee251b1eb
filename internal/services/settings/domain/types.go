// Package domain defines the settings types shared across services
package domain

// Settings is the small configuration object the tracking engine reads.
// The engine never writes it; the options surface does
type Settings struct {
	MinWordCount   int      `json:"minWordCount"`
	BlockedPhrases []string `json:"blockedPhrases"`
	DailyGoal      int      `json:"dailyGoal"`
	ReminderTimes  []string `json:"reminderTimes"`
	AlertsEnabled  bool     `json:"alertsEnabled"`
}

// Defaults returns the factory settings
func Defaults() Settings {
	return Settings{
		MinWordCount:   5,
		BlockedPhrases: []string{"cảm ơn", "xin chào", "tạm biệt"},
		DailyGoal:      6,
		ReminderTimes:  []string{"10:00", "14:00", "16:00", "17:00"},
		AlertsEnabled:  true,
	}
}

// Merged fills zero-valued fields of s from the defaults
func (s Settings) Merged() Settings {
	d := Defaults()
	if s.MinWordCount <= 0 {
		s.MinWordCount = d.MinWordCount
	}
	if s.BlockedPhrases == nil {
		s.BlockedPhrases = d.BlockedPhrases
	}
	if s.DailyGoal <= 0 {
		s.DailyGoal = d.DailyGoal
	}
	if len(s.ReminderTimes) == 0 {
		s.ReminderTimes = d.ReminderTimes
	}
	return s
}
