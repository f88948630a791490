// Package audio drives the Web Audio API: one oscillator+gain pair per tone,
// no shared envelope state between calls.
package audio

import "math"

const (
	// MaxDuration bounds a single tone. Callers cap at 2s; the extra
	// headroom absorbs rounding from upstream math.
	MaxDuration = 2.05

	// TailSeconds keeps the oscillator running past the nominal duration so
	// the envelope's last milliseconds ring out instead of clicking.
	TailSeconds = 0.05

	// envelopeFloor is the near-zero target of the exponential ramp.
	// Web Audio's exponentialRampToValueAtTime cannot reach exactly 0.
	envelopeFloor = 0.001

	minFrequency = 20.0
	maxFrequency = 18000.0
)

// clampFrequency coerces any frequency, including NaN from malformed spawn
// input, into the audible band. Play must never throw.
func clampFrequency(f float64) float64 {
	if math.IsNaN(f) || f < minFrequency {
		return minFrequency
	}
	if f > maxFrequency {
		return maxFrequency
	}
	return f
}

// clampDuration coerces a tone duration into (0, MaxDuration].
func clampDuration(d float64) float64 {
	if math.IsNaN(d) || d <= 0 {
		return TailSeconds
	}
	if d > MaxDuration {
		return MaxDuration
	}
	return d
}

// clampGain forces a volume into [0, 1].
func clampGain(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
