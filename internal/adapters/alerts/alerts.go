// Package alerts delivers user-facing notifications. The default sink is the
// structured log; anything that can render a desktop or chat notification can
// sit behind the same interface
package alerts

import (
	"context"

	"chattally/internal/platform/logger"
)

// Notifier is everything the tracker and recorder notify through
type Notifier interface {
	// GoalReached fires once when a subject's daily count lands exactly on
	// the configured goal
	GoalReached(ctx context.Context, subjectID string, goal int)

	// Reminder fires at a configured clock time while today's count is still
	// below the goal
	Reminder(ctx context.Context, subjectID string, count, goal int)

	// NoData fires at a configured clock time when no subject is known yet
	NoData(ctx context.Context)
}

// LogNotifier writes notifications to the log
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier constructs a LogNotifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: *logger.Named("alerts")}
}

// GoalReached implements Notifier
func (n *LogNotifier) GoalReached(_ context.Context, subjectID string, goal int) {
	n.log.Info().
		Str("subject_id", subjectID).
		Int("goal", goal).
		Msg("daily goal reached")
}

// Reminder implements Notifier
func (n *LogNotifier) Reminder(_ context.Context, subjectID string, count, goal int) {
	n.log.Info().
		Str("subject_id", subjectID).
		Int("count", count).
		Int("goal", goal).
		Msg("usage reminder: goal not met yet")
}

// NoData implements Notifier
func (n *LogNotifier) NoData(_ context.Context) {
	n.log.Info().Msg("usage reminder: no usage data today")
}
