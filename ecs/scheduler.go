package ecs

import (
	"context"
	"reflect"
	"slices"
	"time"
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

// Scheduler runs systems once per frame, synchronously and in the order they were added.
// Ordering is part of the contract: a system observes every write made by the
// systems added before it during the same tick, e.g. a camera controller must
// be added before the selection system that ray casts from that camera.
type Scheduler struct {
	engine      *Engine
	commands    *Commands
	frame       uint64
	systems     []System
	systemStats []*systemStatsInternal
}

// NewScheduler creates a new scheduler for the given engine.
func NewScheduler(engine *Engine) *Scheduler {
	return &Scheduler{
		engine:   engine,
		commands: newCommands(),
		systems:  make([]System, 0),
	}
}

// Engine returns the engine the scheduler drives
func (s *Scheduler) Engine() *Engine {
	return s.engine
}

// AddSystem attaches the system and appends it to the update list.
func (s *Scheduler) AddSystem(system System) {
	if system == nil {
		panic("cannot add nil system")
	}

	if attacher, ok := system.(Attacher); ok {
		attacher.OnAttach(s.engine)
	}

	s.systems = append(s.systems, system)
	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// RemoveSystem detaches the system. It returns false if the system was not added.
func (s *Scheduler) RemoveSystem(system System) bool {
	idx := slices.IndexFunc(s.systems, func(other System) bool { return other == system })
	if idx < 0 {
		return false
	}

	s.systems = slices.Delete(s.systems, idx, idx+1)
	s.systemStats = slices.Delete(s.systemStats, idx, idx+1)

	if detacher, ok := system.(Detacher); ok {
		detacher.OnDetach(s.engine)
	}
	return true
}

// Systems returns the attached systems in update order
func (s *Scheduler) Systems() []System {
	return slices.Clone(s.systems)
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

// Tick executes all systems once with the given delta time in seconds and then
// flushes the deferred commands.
func (s *Scheduler) Tick(dt float64) {
	s.frame++
	frame := newUpdateFrame(dt, s.frame, s.engine, s.commands)

	for i, system := range s.systems {
		start := time.Now()
		system.Update(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	s.commands.Flush(s.engine)
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Tick(dt)
		}
	}
}

// Stats returns statistics about system execution.
func (s *Scheduler) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frame,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
