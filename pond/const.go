package pond

// Tunables for the echo simulation. Values that are part of the render and
// audio contract (easing factors, pitch warp, tone cap) live next to the
// code that applies them; these are the spawn-time and presentation knobs.
const (
	// Defaults for the three user parameters.
	DefaultBasePitch = 440.0 // Hz
	DefaultVolume    = 0.7   // unit gain
	DefaultDecay     = 1.2   // seconds

	// Randomized spawn ranges for pointer echoes.
	SpawnRadiusMin = 40.0
	SpawnRadiusMax = 220.0

	// Randomized ranges for the burst action.
	BurstCount     = 8
	BurstRadiusMin = 60.0
	BurstRadiusMax = 240.0
	BurstLifeMin   = 0.6
	BurstLifeMax   = 1.8

	// Confirmation echo spawned when a preset is applied.
	ConfirmRadius  = 120.0
	ConfirmMinLife = 0.6
)

// TrailFill is the per-frame wash that slowly erases old strokes. The canvas
// is never cleared; this overlay accumulating over many frames is the fade.
const TrailFill = "rgba(4,6,14,0.10)"
