package service

import (
	"context"
	"time"

	ptime "chattally/internal/platform/time"
)

// RunReminders checks the configured clock times once a minute and nudges the
// current subject while today's count is below the goal. It returns when ctx
// is done
func (e *Engine) RunReminders(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	lastFired := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			lastFired = e.remind(ctx, lastFired)
		}
	}
}

// remind runs one reminder check. It returns the date-stamped minute it fired
// for, so a ticker drifting inside the same minute cannot fire twice while the
// same clock time still fires on later days
func (e *Engine) remind(ctx context.Context, lastFired string) string {
	now := e.now()
	minute := now.Format("2006-01-02 15:04")
	if minute == lastFired {
		return lastFired
	}

	set, err := e.ports.Settings.Get(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("settings unavailable, reminder skipped")
		return lastFired
	}
	if !set.AlertsEnabled || !matchesAny(set.ReminderTimes, now) {
		return lastFired
	}

	subject, found, err := e.subject.Current(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("current subject unavailable, reminder skipped")
		return lastFired
	}
	if !found {
		e.ports.Notifier.NoData(ctx)
		return minute
	}

	count, err := e.ports.Reader.CountOn(ctx, subject, ptime.DateKey(now))
	if err != nil {
		e.log.Warn().Err(err).Msg("count unavailable, reminder skipped")
		return lastFired
	}
	if count < set.DailyGoal {
		e.ports.Notifier.Reminder(ctx, subject, count, set.DailyGoal)
	}
	return minute
}

// matchesAny reports whether any configured token names the current minute.
// Unparseable tokens are skipped, matching the lenient clock parser
func matchesAny(tokens []string, now time.Time) bool {
	for _, tok := range tokens {
		if ct, ok := ptime.ParseClockToken(tok); ok && ct.Matches(now) {
			return true
		}
	}
	return false
}
