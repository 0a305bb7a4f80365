// Package scheduler runs registered background tasks on an interval or cron
// schedule.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// TaskFunc is the body of a scheduled task.
type TaskFunc func(ctx context.Context) error

// TaskConfig describes a task to register. Exactly one of Interval or Cron
// must be set.
type TaskConfig struct {
	ID          string
	Name        string
	Description string
	Interval    time.Duration
	Cron        string
	Func        TaskFunc
	RunOnStart  bool
}

// TaskInfo is the API-facing view of a registered task.
type TaskInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Interval    string     `json:"interval,omitempty"`
	Cron        string     `json:"cron,omitempty"`
	LastRun     *time.Time `json:"lastRun,omitempty"`
	NextRun     *time.Time `json:"nextRun,omitempty"`
	Running     bool       `json:"running"`
}

type task struct {
	config  TaskConfig
	job     gocron.Job
	lastRun *time.Time
	running bool
}

// Scheduler wraps gocron with task registry, state tracking, and manual
// triggering.
type Scheduler struct {
	gocron gocron.Scheduler
	logger zerolog.Logger

	mu    sync.RWMutex
	tasks map[string]*task
}

// New creates a scheduler; call Start after registering tasks.
func New(logger zerolog.Logger) (*Scheduler, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}
	return &Scheduler{
		gocron: gs,
		logger: logger.With().Str("component", "scheduler").Logger(),
		tasks:  make(map[string]*task),
	}, nil
}

// RegisterTask adds a task to the schedule. Task IDs must be unique.
func (s *Scheduler) RegisterTask(cfg TaskConfig) error {
	definition, err := jobDefinition(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.tasks[cfg.ID]; dup {
		return fmt.Errorf("task %q already registered", cfg.ID)
	}

	job, err := s.gocron.NewJob(
		definition,
		gocron.NewTask(func() { s.run(cfg.ID) }),
		gocron.WithName(cfg.Name),
		gocron.WithTags(cfg.ID),
	)
	if err != nil {
		return fmt.Errorf("scheduling task %q: %w", cfg.ID, err)
	}

	s.tasks[cfg.ID] = &task{config: cfg, job: job}

	s.logger.Info().
		Str("id", cfg.ID).
		Dur("interval", cfg.Interval).
		Str("cron", cfg.Cron).
		Bool("runOnStart", cfg.RunOnStart).
		Msg("Registered task")
	return nil
}

func jobDefinition(cfg TaskConfig) (gocron.JobDefinition, error) {
	switch {
	case cfg.Interval > 0 && cfg.Cron != "":
		return nil, fmt.Errorf("task %q sets both interval and cron", cfg.ID)
	case cfg.Interval > 0:
		return gocron.DurationJob(cfg.Interval), nil
	case cfg.Cron != "":
		return gocron.CronJob(cfg.Cron, false), nil
	default:
		return nil, fmt.Errorf("task %q needs an interval or cron expression", cfg.ID)
	}
}

// Start begins executing the schedule and kicks off RunOnStart tasks.
func (s *Scheduler) Start() error {
	s.gocron.Start()

	s.mu.RLock()
	var startup []string
	for id, t := range s.tasks {
		if t.config.RunOnStart {
			startup = append(startup, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range startup {
		go s.run(id)
	}

	s.logger.Info().Int("tasks", len(s.tasks)).Msg("Scheduler started")
	return nil
}

// Stop shuts the schedule down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	return s.gocron.Shutdown()
}

// RunNow triggers a task outside its schedule. Already-running tasks are not
// doubled up.
func (s *Scheduler) RunNow(taskID string) error {
	s.mu.RLock()
	t, ok := s.tasks[taskID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("task %q not found", taskID)
	}
	if t.running {
		return fmt.Errorf("task %q is already running", taskID)
	}

	go s.run(taskID)
	return nil
}

// ListTasks reports all registered tasks, ordered by ID.
func (s *Scheduler) ListTasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]TaskInfo, 0, len(s.tasks))
	for _, t := range s.tasks {
		info := TaskInfo{
			ID:          t.config.ID,
			Name:        t.config.Name,
			Description: t.config.Description,
			Cron:        t.config.Cron,
			LastRun:     t.lastRun,
			Running:     t.running,
		}
		if t.config.Interval > 0 {
			info.Interval = t.config.Interval.String()
		}
		if next, err := t.job.NextRun(); err == nil {
			info.NextRun = &next
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (s *Scheduler) run(taskID string) {
	s.mu.Lock()
	t, ok := s.tasks[taskID]
	if !ok || t.running {
		s.mu.Unlock()
		return
	}
	t.running = true
	s.mu.Unlock()

	started := time.Now()
	s.logger.Info().Str("id", taskID).Msg("Task starting")

	err := t.config.Func(context.Background())

	s.mu.Lock()
	t.running = false
	t.lastRun = &started
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("id", taskID).
			Dur("duration", time.Since(started)).
			Msg("Task failed")
		return
	}
	s.logger.Info().
		Str("id", taskID).
		Dur("duration", time.Since(started)).
		Msg("Task completed")
}
