package animation

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains animation timing values.
type Config struct {
	FrameInterval time.Duration

	Particles      int
	ParticleSize   [2]float32
	ParticlePeriod Range
	ParticleDelay  Range

	Stars       int
	StarPeriod  Range
	StarDelay   Range
	WavePeriods []time.Duration
	WaveOpacity []float32
}

// Scene selects which effects are animated.
type Scene struct {
	Particles bool
	Waves     bool
	Stars     bool
}

// Particle is one floating blob. X and Y are fractions of the canvas.
type Particle struct {
	X, Y   float32
	Size   float32
	Period time.Duration
	Delay  time.Duration
}

// Star is one twinkling point.
type Star struct {
	X, Y   float32
	Period time.Duration
	Delay  time.Duration
}

// Wave is one band sliding along the bottom edge.
type Wave struct {
	Period  time.Duration
	Opacity float32
	// Lift is the band's offset above the bottom edge, in wave heights.
	Lift float32
}

// Sprite is the rendered state of one element at a point in time.
// Offsets are in pixels; X and Y are canvas fractions.
type Sprite struct {
	X, Y             float32
	OffsetX, OffsetY float32
	Size             float32
	Opacity          float32
}

// Frame is everything drawn at one instant.
type Frame struct {
	Particles []Sprite
	Stars     []Sprite
	// Waves holds the horizontal shift of each band as a fraction of its
	// width, and its vertical scale.
	Waves []WaveFrame
}

// WaveFrame is the pose of one wave band.
type WaveFrame struct {
	Shift   float32
	ScaleY  float32
	Opacity float32
	Lift    float32
}

// Engine drives the ambient background of the dashboard.
type Engine struct {
	mu        sync.Mutex
	config    Config
	render    func(Frame)
	cancel    context.CancelFunc
	rng       *rand.Rand
	particles []Particle
	stars     []Star
	waves     []Wave
	scene     Scene
}

// New creates a new animation engine. render is called from the
// animation goroutine.
func New(config Config, render func(Frame)) *Engine {
	return newWithRand(config, render, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newWithRand(config Config, render func(Frame), rng *rand.Rand) *Engine {
	engine := &Engine{
		config: config,
		render: render,
		rng:    rng,
	}
	engine.seed()
	return engine
}

// Start animates scene until ctx ends or Stop is called.
func (engine *Engine) Start(ctx context.Context, scene Scene) {
	engine.mu.Lock()
	engine.scene = scene
	engine.mu.Unlock()

	engine.start(ctx, func(runCtx context.Context) {
		began := time.Now()
		for {
			engine.render(engine.FrameAt(time.Since(began)))
			if !sleepWithContext(runCtx, engine.config.FrameInterval) {
				return
			}
		}
	})
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

// FrameAt computes the frame elapsed after the scene started.
func (engine *Engine) FrameAt(elapsed time.Duration) Frame {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	var frame Frame
	if engine.scene.Particles {
		frame.Particles = make([]Sprite, 0, len(engine.particles))
		for _, particle := range engine.particles {
			frame.Particles = append(frame.Particles, particle.at(elapsed))
		}
	}
	if engine.scene.Stars {
		frame.Stars = make([]Sprite, 0, len(engine.stars))
		for _, star := range engine.stars {
			frame.Stars = append(frame.Stars, star.at(elapsed))
		}
	}
	if engine.scene.Waves {
		frame.Waves = make([]WaveFrame, 0, len(engine.waves))
		for _, wave := range engine.waves {
			frame.Waves = append(frame.Waves, wave.at(elapsed))
		}
	}
	return frame
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) seed() {
	config := engine.config
	engine.particles = make([]Particle, config.Particles)
	for i := range engine.particles {
		engine.particles[i] = Particle{
			X:      engine.rng.Float32(),
			Y:      engine.rng.Float32(),
			Size:   config.ParticleSize[0] + engine.rng.Float32()*(config.ParticleSize[1]-config.ParticleSize[0]),
			Period: config.ParticlePeriod.Random(engine.rng),
			Delay:  config.ParticleDelay.Random(engine.rng),
		}
	}
	engine.stars = make([]Star, config.Stars)
	for i := range engine.stars {
		engine.stars[i] = Star{
			X:      engine.rng.Float32(),
			Y:      engine.rng.Float32(),
			Period: config.StarPeriod.Random(engine.rng),
			Delay:  config.StarDelay.Random(engine.rng),
		}
	}
	engine.waves = make([]Wave, len(config.WavePeriods))
	for i, period := range config.WavePeriods {
		opacity := float32(1)
		if i < len(config.WaveOpacity) {
			opacity = config.WaveOpacity[i]
		}
		engine.waves[i] = Wave{Period: period, Opacity: opacity, Lift: float32(i) * 0.25}
	}
}

// particleKeys are the float-particle keyframes: offset, scale and opacity
// at 0%, 25%, 50% and 75%; 100% wraps to 0%.
var particleKeys = [4]struct {
	dx, dy, scale, opacity float32
}{
	{0, 0, 1, 0.6},
	{50, -80, 1.2, 0.8},
	{-30, 40, 0.8, 0.5},
	{70, 60, 1.1, 0.7},
}

func (particle Particle) at(elapsed time.Duration) Sprite {
	progress := cycle(elapsed-particle.Delay, particle.Period)
	segment := progress * 4
	index := int(segment) % 4
	next := (index + 1) % 4
	t := ease(segment - float32(int(segment)))
	from, to := particleKeys[index], particleKeys[next]
	return Sprite{
		X:       particle.X,
		Y:       particle.Y,
		OffsetX: lerp(from.dx, to.dx, t),
		OffsetY: lerp(from.dy, to.dy, t),
		Size:    particle.Size * lerp(from.scale, to.scale, t),
		Opacity: lerp(from.opacity, to.opacity, t),
	}
}

func (star Star) at(elapsed time.Duration) Sprite {
	progress := cycle(elapsed-star.Delay, star.Period)
	// 0.3 -> 1 -> 0.3 opacity, 1 -> 1.5 -> 1 scale.
	peak := float32(0.5 - 0.5*math.Cos(2*math.Pi*float64(progress)))
	return Sprite{
		X:       star.X,
		Y:       star.Y,
		Size:    2 * (1 + 0.5*peak),
		Opacity: 0.3 + 0.7*peak,
	}
}

func (wave Wave) at(elapsed time.Duration) WaveFrame {
	progress := cycle(elapsed, wave.Period)
	squeeze := float32(0.5 - 0.5*math.Cos(2*math.Pi*float64(progress)))
	return WaveFrame{
		Shift:   -0.5 * progress,
		ScaleY:  1 - 0.2*squeeze,
		Opacity: wave.Opacity,
		Lift:    wave.Lift,
	}
}

// cycle returns how far into period elapsed is, in [0, 1). Time before a
// delay holds the first keyframe.
func cycle(elapsed, period time.Duration) float32 {
	if period <= 0 || elapsed <= 0 {
		return 0
	}
	return float32(elapsed%period) / float32(period)
}

func ease(t float32) float32 {
	return t * t * (3 - 2*t)
}

func lerp(from, to, t float32) float32 {
	return from + (to-from)*t
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
