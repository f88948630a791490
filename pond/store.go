package pond

import (
	"echopond/common"
)

// ToneEmitter is the audio sink an echo spawn drives. Implementations must
// never fail loudly; a spawn with no audible tone is still a valid spawn.
type ToneEmitter interface {
	Play(frequency, duration float64)
}

// MasterVolume adjusts the emitter's output level. Separate from ToneEmitter
// so test fakes only implement what they record.
type MasterVolume interface {
	SetVolume(v float64)
}

// Surface reports the current logical canvas size. It is queried per spawn
// and per frame, never cached, so resizes take effect immediately.
type Surface interface {
	Width() float64
	Height() float64
}

// SpawnOptions overrides the randomized defaults for a single spawn.
// Fields that are not positive (including NaN) keep the default.
type SpawnOptions struct {
	Hue       float64 // [0, 360); negative means random
	MaxRadius float64
	Life      float64
}

// RandomSpawn requests a spawn with every default randomized.
var RandomSpawn = SpawnOptions{Hue: -1, MaxRadius: -1, Life: -1}

// EchoStore owns the live set of echoes. All mutation happens on the single
// cooperative frame queue: pointer handlers append, the frame tick evicts.
type EchoStore struct {
	echoes []*Echo

	rng     *common.SeededRNG
	tones   ToneEmitter
	surface Surface
	params  *ParameterState

	// Now supplies monotonic milliseconds. Production wires performance.now;
	// tests drive it by hand.
	Now func() float64

	// OnSpawn observes locally originated spawns (used to forward them to a
	// shared room). Echoes adopted from remote peers do not pass through it.
	OnSpawn func(*Echo)
}

// NewEchoStore creates an empty store with the given collaborators.
func NewEchoStore(rng *common.SeededRNG, tones ToneEmitter, surface Surface, params *ParameterState) *EchoStore {
	return &EchoStore{
		echoes:  make([]*Echo, 0, 64),
		rng:     rng,
		tones:   tones,
		surface: surface,
		params:  params,
		Now:     func() float64 { return 0 },
	}
}

// PitchFor maps a vertical position to a frequency: the pitch warps linearly
// by ±40% around the base across the surface height. Horizontal position
// never affects pitch.
func PitchFor(basePitch, y, height float64) float64 {
	return basePitch * (1 + (y/height-0.5)*0.8)
}

// ToneDuration derives a tone length from an echo's life: proportional for
// short echoes, capped at 2 seconds for long-lived ones.
func ToneDuration(life float64) float64 {
	d := life * 0.9
	if d > 2.0 {
		return 2.0
	}
	return d
}

// Spawn appends one echo at (x, y) and rings exactly one tone for it.
// Coordinates are unconstrained; off-canvas spawns are legal. The parameter
// snapshot and surface geometry are read here, at spawn time.
func (s *EchoStore) Spawn(x, y float64, opts SpawnOptions) {
	e := &Echo{
		X:         x,
		Y:         y,
		Hue:       opts.Hue,
		MaxRadius: opts.MaxRadius,
		Life:      opts.Life,
		CreatedAt: s.Now(),
	}
	if !(e.Hue >= 0) || e.Hue >= 360 {
		e.Hue = s.rng.RandomFloat(0, 360)
	}
	if !(e.MaxRadius > 0) {
		e.MaxRadius = s.rng.RandomFloat(SpawnRadiusMin, SpawnRadiusMax)
	}
	if !(e.Life > 0) {
		e.Life = s.params.DecayTime
	}

	s.adopt(e)

	if s.OnSpawn != nil {
		s.OnSpawn(e)
	}
}

// adopt appends an already-built echo and triggers its tone. Shared-room
// peers enter here directly so their spawns are not re-broadcast.
func (s *EchoStore) adopt(e *Echo) {
	s.echoes = append(s.echoes, e)
	s.tones.Play(PitchFor(s.params.BasePitch, e.Y, s.surface.Height()), ToneDuration(e.Life))
}

// Burst spawns n echoes at random positions with independently randomized
// hue, radius and life. Used by the burst action (n = BurstCount).
func (s *EchoStore) Burst(n int) {
	w, h := s.surface.Width(), s.surface.Height()
	for i := 0; i < n; i++ {
		s.Spawn(s.rng.RandomFloat(0, w), s.rng.RandomFloat(0, h), SpawnOptions{
			Hue:       s.rng.RandomFloat(0, 360),
			MaxRadius: s.rng.RandomFloat(BurstRadiusMin, BurstRadiusMax),
			Life:      s.rng.RandomFloat(BurstLifeMin, BurstLifeMax),
		})
	}
}

// EvictAndSnapshot removes every echo whose age has reached its life and
// returns the survivors, in insertion order, paired with their progress.
// This is the only place echoes are removed.
func (s *EchoStore) EvictAndSnapshot(now float64) []LiveEcho {
	kept := s.echoes[:0]
	snapshot := make([]LiveEcho, 0, len(s.echoes))
	for _, e := range s.echoes {
		if e.Expired(now) {
			continue
		}
		kept = append(kept, e)
		snapshot = append(snapshot, LiveEcho{Echo: e, Progress: e.Progress(now)})
	}
	// Drop trailing references so evicted echoes can be collected.
	for i := len(kept); i < len(s.echoes); i++ {
		s.echoes[i] = nil
	}
	s.echoes = kept
	return snapshot
}

// Clear empties the store immediately. No tones are triggered.
func (s *EchoStore) Clear() {
	for i := range s.echoes {
		s.echoes[i] = nil
	}
	s.echoes = s.echoes[:0]
}

// Len returns the number of echoes currently held, evicted or not.
func (s *EchoStore) Len() int {
	return len(s.echoes)
}
