package dialogue

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

const DefaultSweepSchedule = "@every 1m"

// StartSweeper runs Sweep on schedule until the returned stop func is called.
// Stop waits for a running sweep to finish.
func (e *Engine) StartSweeper(schedule string) (func(), error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	c := cron.New(cron.WithLogger(cron.PrintfLogger(e.log)))
	if _, err := c.AddFunc(schedule, func() {
		if dropped := e.Sweep(); dropped > 0 {
			e.log.WithField("dropped", dropped).Info("idle conversations swept")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule idle sweep %q: %w", schedule, err)
	}

	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
