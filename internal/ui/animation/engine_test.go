package animation

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeRandom(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	fixed := Range{Min: time.Second, Max: time.Second}
	assert.Equal(t, time.Second, fixed.Random(rng))

	spread := Range{Min: time.Second, Max: 2 * time.Second}
	for i := 0; i < 100; i++ {
		value := spread.Random(rng)
		assert.GreaterOrEqual(t, value, time.Second)
		assert.Less(t, value, 2*time.Second)
	}
}

func TestSeedFollowsConfig(t *testing.T) {
	t.Parallel()
	config := DefaultConfig()
	engine := newWithRand(config, func(Frame) {}, rand.New(rand.NewSource(7)))

	require.Len(t, engine.particles, 30)
	require.Len(t, engine.stars, 50)
	require.Len(t, engine.waves, 3)
	for _, particle := range engine.particles {
		assert.GreaterOrEqual(t, particle.Size, float32(30))
		assert.LessOrEqual(t, particle.Size, float32(230))
		assert.GreaterOrEqual(t, particle.Period, 10*time.Second)
		assert.Less(t, particle.Period, 25*time.Second)
	}
	assert.Equal(t, float32(0.3), engine.waves[2].Opacity)
}

func TestFrameAtHonoursScene(t *testing.T) {
	t.Parallel()
	engine := newWithRand(DefaultConfig(), func(Frame) {}, rand.New(rand.NewSource(3)))

	frame := engine.FrameAt(time.Second)
	assert.Empty(t, frame.Particles)
	assert.Empty(t, frame.Stars)
	assert.Empty(t, frame.Waves)

	engine.scene = Scene{Particles: true, Waves: true}
	frame = engine.FrameAt(time.Second)
	assert.Len(t, frame.Particles, 30)
	assert.Empty(t, frame.Stars)
	assert.Len(t, frame.Waves, 3)
}

func TestParticleKeyframes(t *testing.T) {
	t.Parallel()
	particle := Particle{X: 0.5, Y: 0.5, Size: 100, Period: 8 * time.Second}

	start := particle.at(0)
	assert.Equal(t, float32(0), start.OffsetX)
	assert.InDelta(t, 100, start.Size, 0.001)
	assert.InDelta(t, 0.6, start.Opacity, 0.001)

	quarter := particle.at(2 * time.Second)
	assert.InDelta(t, 50, quarter.OffsetX, 0.001)
	assert.InDelta(t, -80, quarter.OffsetY, 0.001)
	assert.InDelta(t, 120, quarter.Size, 0.001)

	wrapped := particle.at(8 * time.Second)
	assert.Equal(t, start, wrapped)

	delayed := Particle{Size: 10, Period: time.Second, Delay: time.Hour}
	assert.InDelta(t, 0.6, delayed.at(time.Minute).Opacity, 0.001)
}

func TestStarTwinkle(t *testing.T) {
	t.Parallel()
	star := Star{Period: 2 * time.Second}
	assert.InDelta(t, 0.3, star.at(0).Opacity, 0.001)
	assert.InDelta(t, 1, star.at(time.Second).Opacity, 0.001)
	assert.InDelta(t, 3, star.at(time.Second).Size, 0.001)
}

func TestWaveSlides(t *testing.T) {
	t.Parallel()
	wave := Wave{Period: 10 * time.Second, Opacity: 0.5}
	half := wave.at(5 * time.Second)
	assert.InDelta(t, -0.25, half.Shift, 0.001)
	assert.InDelta(t, 0.8, half.ScaleY, 0.001)
	assert.Equal(t, float32(0.5), half.Opacity)
}

func TestStartRendersUntilStopped(t *testing.T) {
	config := DefaultConfig()
	config.FrameInterval = time.Millisecond
	var frames atomic.Int32
	engine := New(config, func(Frame) { frames.Add(1) })

	engine.Start(context.Background(), Scene{Stars: true})
	require.Eventually(t, func() bool { return frames.Load() >= 3 }, 2*time.Second, time.Millisecond)
	engine.Stop()

	time.Sleep(20 * time.Millisecond)
	stopped := frames.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, frames.Load())
}
