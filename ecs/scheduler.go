package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(duration time.Duration) {
	s.executionCount++
	s.lastDuration = duration
	s.totalDuration += duration

	if duration < s.minDuration {
		s.minDuration = duration
	}
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

type registeredSystem struct {
	system  System
	queries []queryExecutor
	stats   *systemStatsInternal
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the logger used for registration and frame events.
func WithLogger(logger zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// Scheduler manages and executes systems in order.
// Startup systems run once, before the first update pass; update systems run
// on every call to Once in registration order.
type Scheduler struct {
	storage *Storage
	logger  zerolog.Logger

	startup        []registeredSystem
	systems        []registeredSystem
	startupPending bool
	frames         uint64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		storage: storage,
		logger:  zerolog.Nop(),
		systems: make([]registeredSystem, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Storage returns the storage systems operate on.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// RegisterStartup adds a system that runs once before the first update pass.
// Systems registered after the first pass run before the next one.
func (s *Scheduler) RegisterStartup(system System) {
	s.startup = append(s.startup, s.bind(system))
	s.startupPending = true
	s.logger.Debug().Str("system", systemName(system)).Msg("startup system registered")
}

// Register adds an update system to the scheduler and binds its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, s.bind(system))
	s.logger.Debug().Str("system", systemName(system)).Int("position", len(s.systems)-1).Msg("system registered")
}

func (s *Scheduler) bind(system System) registeredSystem {
	return registeredSystem{
		system:  system,
		queries: s.initializeFields(system),
		stats: &systemStatsInternal{
			name:        systemName(system),
			minDuration: time.Duration(1<<63 - 1),
		},
	}
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if name := systemType.Name(); name != "" {
		return name
	}
	return systemType.String()
}

// initializeFields binds every Query and Singleton field of a struct system to
// the scheduler's storage and returns the queries that need a per-frame refresh.
func (s *Scheduler) initializeFields(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Ptr {
		return nil
	}
	systemValue = systemValue.Elem()
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	var queries []queryExecutor
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		binder, ok := field.Addr().Interface().(storageBinder)
		if !ok {
			continue
		}
		binder.Init(s.storage)

		if query, ok := binder.(queryExecutor); ok {
			queries = append(queries, query)
		}
	}
	return queries
}

func (s *Scheduler) execute(rs registeredSystem, frame *UpdateFrame) {
	for _, query := range rs.queries {
		query.Execute()
	}

	start := time.Now()
	rs.system.Execute(frame)
	rs.stats.record(time.Since(start))
}

// Once executes all registered systems once with the given delta time in seconds,
// then flushes the frame's command buffer. Pending startup systems run first and
// have their commands applied before any update system observes the storage.
func (s *Scheduler) Once(dt float64) {
	s.frames++

	if s.startupPending {
		startupFrame := newUpdateFrame(0, s.frames, s.storage)
		for _, rs := range s.startup {
			if rs.stats.executionCount > 0 {
				continue
			}
			s.execute(rs, startupFrame)
		}
		startupFrame.Commands.Flush(s.storage)
		s.startupPending = false
	}

	frame := newUpdateFrame(dt, s.frames, s.storage)
	for _, rs := range s.systems {
		s.execute(rs, frame)
	}

	queued := frame.Commands.Len()
	frame.Commands.Flush(s.storage)

	s.logger.Trace().
		Uint64("frame", s.frames).
		Float64("dt", dt).
		Int("commands", queued).
		Msg("frame complete")
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Uint64("frames", s.frames).Msg("scheduler stopped")
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// Frames returns the number of completed Once calls.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// GetStats returns statistics about update system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, rs := range s.systems {
		internal := rs.stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}
