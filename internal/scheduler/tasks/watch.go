// Package tasks wires services into the scheduler.
package tasks

import (
	"time"

	"github.com/fetcharr/fetcharr/internal/config"
	"github.com/fetcharr/fetcharr/internal/scheduler"
	"github.com/fetcharr/fetcharr/internal/watch"
)

// RegisterWatchTask registers the periodic watch sweep.
func RegisterWatchTask(sched *scheduler.Scheduler, service *watch.Service, cfg config.WatchConfig) error {
	if !cfg.Enabled {
		return nil
	}

	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          "watch_sweep",
		Name:        "Watch Sweep",
		Description: "Re-searches open watches and grabs results that clear the auto-download gate",
		Interval:    interval,
		Func:        service.CheckAll,
		RunOnStart:  cfg.RunOnStart,
	})
}
