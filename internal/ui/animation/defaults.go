package animation

import "time"

// DefaultConfig mirrors the dashboard's CSS background animations.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 50 * time.Millisecond,
		Particles:     30,
		ParticleSize:  [2]float32{30, 230},
		ParticlePeriod: Range{
			Min: 10 * time.Second,
			Max: 25 * time.Second,
		},
		ParticleDelay: Range{
			Min: 0,
			Max: 5 * time.Second,
		},
		Stars: 50,
		StarPeriod: Range{
			Min: 2 * time.Second,
			Max: 5 * time.Second,
		},
		StarDelay: Range{
			Min: 0,
			Max: 3 * time.Second,
		},
		WavePeriods: []time.Duration{15 * time.Second, 20 * time.Second, 25 * time.Second},
		WaveOpacity: []float32{1, 0.5, 0.3},
	}
}
