package pond

import (
	"math"
	"testing"

	"echopond/common"
)

// --- Test Fakes ---

// fakeEmitter records every tone it is asked to play.
type fakeEmitter struct {
	plays []struct{ freq, dur float64 }
	vol   float64
}

func (f *fakeEmitter) Play(frequency, duration float64) {
	f.plays = append(f.plays, struct{ freq, dur float64 }{frequency, duration})
}

func (f *fakeEmitter) SetVolume(v float64) { f.vol = v }

// fakeSurface is a fixed-size canvas stand-in.
type fakeSurface struct{ w, h float64 }

func (s fakeSurface) Width() float64  { return s.w }
func (s fakeSurface) Height() float64 { return s.h }

// newTestStore builds a store with a seeded RNG and a hand-driven clock.
func newTestStore() (*EchoStore, *fakeEmitter, *ParameterState) {
	emitter := &fakeEmitter{}
	params := NewParameterState()
	store := NewEchoStore(common.NewSeededRNG(1234), emitter, fakeSurface{800, 600}, params)
	return store, emitter, params
}

// --- Spawn Tests ---

// TestSpawn_AddsEchoAndPlaysOneTone tests that each spawn rings exactly once
func TestSpawn_AddsEchoAndPlaysOneTone(t *testing.T) {
	store, emitter, _ := newTestStore()

	store.Spawn(100, 300, RandomSpawn)

	if store.Len() != 1 {
		t.Errorf("Expected 1 echo after spawn, got %d", store.Len())
	}
	if len(emitter.plays) != 1 {
		t.Errorf("Expected exactly 1 tone per spawn, got %d", len(emitter.plays))
	}
}

// TestSpawn_RandomDefaultsWithinRanges tests the randomized spawn attributes
func TestSpawn_RandomDefaultsWithinRanges(t *testing.T) {
	store, _, params := newTestStore()

	for i := 0; i < 50; i++ {
		store.Spawn(0, 0, RandomSpawn)
	}
	snapshot := store.EvictAndSnapshot(0)

	for _, le := range snapshot {
		e := le.Echo
		if e.Hue < 0 || e.Hue >= 360 {
			t.Errorf("Spawn hue %f outside [0,360)", e.Hue)
		}
		if e.MaxRadius < SpawnRadiusMin || e.MaxRadius >= SpawnRadiusMax {
			t.Errorf("Spawn radius %f outside [%f,%f)", e.MaxRadius, SpawnRadiusMin, SpawnRadiusMax)
		}
		if e.Life != params.DecayTime {
			t.Errorf("Expected spawn life %f from decay parameter, got %f", params.DecayTime, e.Life)
		}
	}
}

// TestSpawn_ExplicitOptionsRespected tests that overrides bypass randomization
func TestSpawn_ExplicitOptionsRespected(t *testing.T) {
	store, _, _ := newTestStore()

	store.Spawn(10, 20, SpawnOptions{Hue: 47, MaxRadius: 120, Life: 0.6})
	snapshot := store.EvictAndSnapshot(0)

	if len(snapshot) != 1 {
		t.Fatalf("Expected 1 echo, got %d", len(snapshot))
	}
	e := snapshot[0].Echo
	if e.Hue != 47 || e.MaxRadius != 120 || e.Life != 0.6 {
		t.Errorf("Expected (47, 120, 0.6), got (%f, %f, %f)", e.Hue, e.MaxRadius, e.Life)
	}
}

// TestSpawn_NaNOptionsFallBackToDefaults tests NaN hardening on overrides
func TestSpawn_NaNOptionsFallBackToDefaults(t *testing.T) {
	store, _, params := newTestStore()
	nan := math.NaN()

	store.Spawn(0, 0, SpawnOptions{Hue: nan, MaxRadius: nan, Life: nan})
	snapshot := store.EvictAndSnapshot(0)

	if len(snapshot) != 1 {
		t.Fatalf("Expected 1 echo, got %d", len(snapshot))
	}
	e := snapshot[0].Echo
	if math.IsNaN(e.Hue) || e.Hue < 0 || e.Hue >= 360 {
		t.Errorf("Expected randomized hue for NaN override, got %f", e.Hue)
	}
	if math.IsNaN(e.MaxRadius) || e.MaxRadius < SpawnRadiusMin || e.MaxRadius >= SpawnRadiusMax {
		t.Errorf("Expected randomized radius for NaN override, got %f", e.MaxRadius)
	}
	if e.Life != params.DecayTime {
		t.Errorf("Expected decay life for NaN override, got %f", e.Life)
	}
}

// TestSpawn_OffCanvasIsLegal tests that coordinates are unconstrained
func TestSpawn_OffCanvasIsLegal(t *testing.T) {
	store, _, _ := newTestStore()

	store.Spawn(-500, 9000, RandomSpawn)

	if store.Len() != 1 {
		t.Errorf("Expected off-canvas spawn to be stored, got %d echoes", store.Len())
	}
}

// TestSpawn_NotifiesObserverForLocalSpawnsOnly tests the OnSpawn hook
func TestSpawn_NotifiesObserverForLocalSpawnsOnly(t *testing.T) {
	store, _, _ := newTestStore()

	var observed int
	store.OnSpawn = func(*Echo) { observed++ }

	store.Spawn(1, 2, RandomSpawn)
	store.adopt(&Echo{MaxRadius: 50, Life: 1})

	if observed != 1 {
		t.Errorf("Expected only the local spawn to be observed, got %d", observed)
	}
	if store.Len() != 2 {
		t.Errorf("Expected both echoes stored, got %d", store.Len())
	}
}

// --- Pitch Mapping Tests ---

// TestPitchFor_VerticalWarp tests the ±40% pitch band across the surface
func TestPitchFor_VerticalWarp(t *testing.T) {
	if f := PitchFor(440, 0, 600); math.Abs(f-264) > 1e-9 {
		t.Errorf("Expected 264 Hz at top edge, got %f", f)
	}
	if f := PitchFor(440, 300, 600); math.Abs(f-440) > 1e-9 {
		t.Errorf("Expected base pitch at mid-height, got %f", f)
	}
	if f := PitchFor(440, 600, 600); math.Abs(f-616) > 1e-9 {
		t.Errorf("Expected 616 Hz at bottom edge, got %f", f)
	}
}

// TestSpawn_ToneUsesSpawnTimeParameters tests the parameter snapshot at spawn
func TestSpawn_ToneUsesSpawnTimeParameters(t *testing.T) {
	store, emitter, params := newTestStore()

	params.BasePitch = 220
	store.Spawn(0, 300, RandomSpawn) // mid-height of 600

	if len(emitter.plays) != 1 {
		t.Fatalf("Expected 1 tone, got %d", len(emitter.plays))
	}
	if math.Abs(emitter.plays[0].freq-220) > 1e-9 {
		t.Errorf("Expected tone at the current base pitch 220, got %f", emitter.plays[0].freq)
	}
}

// --- Tone Duration Tests ---

// TestToneDuration_ProportionalAndCapped tests the life-to-duration mapping
func TestToneDuration_ProportionalAndCapped(t *testing.T) {
	if d := ToneDuration(1.0); math.Abs(d-0.9) > 1e-9 {
		t.Errorf("Expected 0.9s tone for 1s life, got %f", d)
	}
	if d := ToneDuration(3.0); d != 2.0 {
		t.Errorf("Expected tone capped at 2s, got %f", d)
	}
	if d := ToneDuration(2.0/0.9 - 0.01); d >= 2.0 {
		t.Errorf("Expected just-under-cap duration below 2s, got %f", d)
	}
}

// --- Eviction Tests ---

// TestEvictAndSnapshot_RemovesOnlyExpired tests the eviction boundary
func TestEvictAndSnapshot_RemovesOnlyExpired(t *testing.T) {
	store, _, _ := newTestStore()
	now := 0.0
	store.Now = func() float64 { return now }

	store.Spawn(0, 0, SpawnOptions{Hue: 10, MaxRadius: 50, Life: 1.0})
	now = 500
	store.Spawn(0, 0, SpawnOptions{Hue: 20, MaxRadius: 50, Life: 1.0})

	// At 1000ms the first echo is exactly at its life; the second is halfway.
	snapshot := store.EvictAndSnapshot(1000)

	if len(snapshot) != 1 {
		t.Fatalf("Expected 1 survivor, got %d", len(snapshot))
	}
	if snapshot[0].Echo.Hue != 20 {
		t.Errorf("Expected the younger echo to survive, got hue %f", snapshot[0].Echo.Hue)
	}
	if math.Abs(snapshot[0].Progress-0.5) > 1e-9 {
		t.Errorf("Expected survivor progress 0.5, got %f", snapshot[0].Progress)
	}
	if store.Len() != 1 {
		t.Errorf("Expected store compacted to 1, got %d", store.Len())
	}
}

// TestEvictAndSnapshot_PreservesInsertionOrder tests snapshot ordering
func TestEvictAndSnapshot_PreservesInsertionOrder(t *testing.T) {
	store, _, _ := newTestStore()

	for i := 0; i < 5; i++ {
		store.Spawn(float64(i), 0, SpawnOptions{Hue: float64(i * 10), MaxRadius: 50, Life: 1.0})
	}
	snapshot := store.EvictAndSnapshot(0)

	for i, le := range snapshot {
		if le.Echo.X != float64(i) {
			t.Errorf("Snapshot out of insertion order at %d: X=%f", i, le.Echo.X)
		}
	}
}

// TestEvictAndSnapshot_OrderSurvivesEviction tests ordering across removals
func TestEvictAndSnapshot_OrderSurvivesEviction(t *testing.T) {
	store, _, _ := newTestStore()
	now := 0.0
	store.Now = func() float64 { return now }

	// Alternate short and long lives so eviction removes every other echo.
	for i := 0; i < 6; i++ {
		life := 2.0
		if i%2 == 0 {
			life = 0.5
		}
		store.Spawn(float64(i), 0, SpawnOptions{Hue: 1, MaxRadius: 50, Life: life})
	}

	snapshot := store.EvictAndSnapshot(1000)

	if len(snapshot) != 3 {
		t.Fatalf("Expected 3 survivors, got %d", len(snapshot))
	}
	for i, le := range snapshot {
		expected := float64(i*2 + 1)
		if le.Echo.X != expected {
			t.Errorf("Expected survivor X=%f at position %d, got %f", expected, i, le.Echo.X)
		}
	}
}

// TestEvictAndSnapshot_NoTonesOnEviction tests that expiry is silent
func TestEvictAndSnapshot_NoTonesOnEviction(t *testing.T) {
	store, emitter, _ := newTestStore()

	store.Spawn(0, 0, SpawnOptions{Hue: 1, MaxRadius: 50, Life: 0.5})
	tones := len(emitter.plays)

	store.EvictAndSnapshot(10000)

	if len(emitter.plays) != tones {
		t.Error("Expected no tone on eviction")
	}
}

// --- Burst Tests ---

// TestBurst_SpawnsCountWithinRanges tests burst spawn attributes
func TestBurst_SpawnsCountWithinRanges(t *testing.T) {
	store, emitter, _ := newTestStore()

	store.Burst(BurstCount)

	if store.Len() != BurstCount {
		t.Fatalf("Expected %d echoes from burst, got %d", BurstCount, store.Len())
	}
	if len(emitter.plays) != BurstCount {
		t.Errorf("Expected %d tones from burst, got %d", BurstCount, len(emitter.plays))
	}

	snapshot := store.EvictAndSnapshot(0)
	for _, le := range snapshot {
		e := le.Echo
		if e.X < 0 || e.X >= 800 || e.Y < 0 || e.Y >= 600 {
			t.Errorf("Burst position (%f,%f) outside surface", e.X, e.Y)
		}
		if e.MaxRadius < BurstRadiusMin || e.MaxRadius >= BurstRadiusMax {
			t.Errorf("Burst radius %f outside [%f,%f)", e.MaxRadius, BurstRadiusMin, BurstRadiusMax)
		}
		if e.Life < BurstLifeMin || e.Life >= BurstLifeMax {
			t.Errorf("Burst life %f outside [%f,%f)", e.Life, BurstLifeMin, BurstLifeMax)
		}
	}
}

// TestBurst_Deterministic tests that the same seed yields the same burst
func TestBurst_Deterministic(t *testing.T) {
	storeA, _, _ := newTestStore()
	storeB, _, _ := newTestStore()

	storeA.Burst(BurstCount)
	storeB.Burst(BurstCount)

	a := storeA.EvictAndSnapshot(0)
	b := storeB.EvictAndSnapshot(0)
	for i := range a {
		if *a[i].Echo != *b[i].Echo {
			t.Errorf("Burst echo %d differs between identical seeds", i)
		}
	}
}

// --- Clear Tests ---

// TestClear_EmptiesImmediatelyAndSilently tests the clear action
func TestClear_EmptiesImmediatelyAndSilently(t *testing.T) {
	store, emitter, _ := newTestStore()

	store.Burst(BurstCount)
	tones := len(emitter.plays)

	store.Clear()

	if store.Len() != 0 {
		t.Errorf("Expected empty store after clear, got %d", store.Len())
	}
	if len(emitter.plays) != tones {
		t.Error("Expected no tones from clear")
	}
	if snapshot := store.EvictAndSnapshot(0); len(snapshot) != 0 {
		t.Errorf("Expected empty snapshot after clear, got %d", len(snapshot))
	}
}
