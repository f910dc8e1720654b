package main

import (
	"bytes"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/plus3/ember3d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{}
	for i := 1; i <= 100; i++ {
		s.Samples = append(s.Samples, time.Duration(i)*time.Millisecond)
	}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.Equal(t, 50500*time.Microsecond, s.Avg)
	assert.Equal(t, 99*time.Millisecond, s.P99)
}

func TestReportListsSlowestSystems(t *testing.T) {
	r := &Report{
		SystemStats: []ecs.SystemStats{
			{Name: "fast", AvgDuration: time.Microsecond},
			{Name: "slow", AvgDuration: time.Millisecond},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	out := buf.String()
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("- slow")), bytes.Index(buf.Bytes(), []byte("- fast")))
	assert.Contains(t, out, "Engine Stress Test Report")
}

func TestChurnKeepsPopulation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	engine := ecs.NewEngine()
	scheduler := ecs.NewScheduler(engine)

	lifetimes := &lifetimeSystem{rng: rng}
	scheduler.AddSystem(&movementSystem{})
	scheduler.AddSystem(&heatSystem{rng: rng})
	scheduler.AddSystem(lifetimes)

	for range 200 {
		require.NoError(t, engine.AddEntity(spawnRandomEntity(rng, 5)))
	}

	for range 100 {
		scheduler.Tick(0.1)
	}

	assert.Positive(t, lifetimes.removed)
	assert.Equal(t, 200, engine.Len())
}
