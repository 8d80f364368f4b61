package daemon

import (
	"context"
	"log/slog"
	"time"

	cronlib "github.com/robfig/cron/v3"
)

// cronParser parses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow,
)

// defaultSchedule takes over when the configured expression does not parse.
const defaultSchedule = "*/15 * * * *"

// scheduler fires a callback at cron schedule boundaries.
type scheduler struct {
	schedule cronlib.Schedule
	fire     func(context.Context)
}

// newScheduler parses expr, falling back to defaultSchedule with a
// warning when it is invalid.
func newScheduler(expr string, fire func(context.Context)) *scheduler {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		slog.Warn("invalid sync schedule, using default",
			"schedule", expr,
			"default", defaultSchedule,
			"error", err)
		sched, _ = cronParser.Parse(defaultSchedule)
	}
	return &scheduler{schedule: sched, fire: fire}
}

// run fires at each schedule boundary until ctx is cancelled.
func (s *scheduler) run(ctx context.Context) error {
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			s.fire(ctx)
		}
	}
}
