package pond

import (
	"math"
	"strconv"
)

// ParameterState holds the three user-tunable parameters. It is owned by the
// UI layer and read by the spawn path as a snapshot; changes apply to the
// next spawn, never retroactively to live echoes.
type ParameterState struct {
	BasePitch float64 // Hz, > 0
	Volume    float64 // unit gain, [0, 1]
	DecayTime float64 // seconds, > 0
}

// NewParameterState returns the documented defaults.
func NewParameterState() *ParameterState {
	return &ParameterState{
		BasePitch: DefaultBasePitch,
		Volume:    DefaultVolume,
		DecayTime: DefaultDecay,
	}
}

// ParsePositive parses a numeric UI input, falling back to the given default
// when the text is unparsable, non-finite or not positive. Parse failures
// are recovered locally and never surfaced.
func ParsePositive(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

// ParseNonNegative parses a numeric UI input where zero is legal (the
// volume slider's mute position), falling back only when the text is
// unparsable, non-finite or negative.
func ParseNonNegative(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fallback
	}
	return v
}

// ClampGain forces a volume into [0, 1].
func ClampGain(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
