// Command ecs-stress churns a large engine and reports frame timings.
package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/internal/logging"
	"go.uber.org/zap"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	seed := flag.Uint64("seed", 1, "Random seed for entity composition.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu, mem or trace.")
	flag.Parse()

	logger, err := logging.New("info", true)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "trace":
		defer profile.Start(profile.TraceProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		logger.Fatal("Unknown profile mode", zap.String("mode", *profileMode))
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))

	engine := ecs.NewEngine(ecs.WithLogger(logger))
	scheduler := ecs.NewScheduler(engine)

	lifetimes := &lifetimeSystem{rng: rng}
	scheduler.AddSystem(&movementSystem{})
	scheduler.AddSystem(&heatSystem{rng: rng})
	scheduler.AddSystem(lifetimes)
	readers := readerSystems()
	for _, s := range readers {
		scheduler.AddSystem(s)
	}

	logger.Info("Populating engine", zap.Int("entities", *entityCount))
	for range *entityCount {
		if err := engine.AddEntity(spawnRandomEntity(rng, 5)); err != nil {
			logger.Fatal("Adding entity", zap.Error(err))
		}
	}

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     len(allTypes),
		Systems:        len(scheduler.Systems()),
		Families:       len(engine.Families()),
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("Running simulation", zap.Duration("duration", *duration))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			now := time.Now()
			dt := now.Sub(lastFrameTime)
			lastFrameTime = now

			scheduler.Tick(dt.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(now))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.Removed = lifetimes.removed
	report.FinalEntities = engine.Len()
	report.UpdateTime.Finalize()
	report.SystemStats = scheduler.Stats().Systems
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("Failed to generate report", zap.Error(err))
	}
}
