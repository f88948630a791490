package pond

import (
	"github.com/gopherjs/gopherjs/js"

	"echopond/common"
)

// AudioBackend is everything the app needs from the tone side: playing,
// master volume, and the gesture-driven resume.
type AudioBackend interface {
	ToneEmitter
	MasterVolume
	Resume()
}

// App ties the simulation to one canvas and the surrounding DOM.
type App struct {
	Canvas *js.Object

	Params  *ParameterState
	Store   *EchoStore
	Clock   *FrameClock
	Overlay *Overlay
	Presets *PresetBook
	Audio   AudioBackend
	Network *NetworkManager

	rafID int
}

// NewApp builds the full dependency set around a canvas element and its 2D
// context. The caller provides the audio backend and preset gateway so a
// headless harness can substitute fakes.
func NewApp(canvas, ctx *js.Object, backend AudioBackend, gateway PresetGateway, seed uint32) *App {
	params := NewParameterState()
	surface := NewCanvasSurface(canvas)
	context := NewCanvasContext(ctx)

	store := NewEchoStore(common.NewSeededRNG(seed), backend, surface, params)
	store.Now = func() float64 {
		return js.Global.Get("performance").Call("now").Float()
	}

	overlay := NewOverlay(context)
	renderer := NewTrailRenderer(context, surface)

	a := &App{
		Canvas:  canvas,
		Params:  params,
		Store:   store,
		Clock:   NewFrameClock(store, renderer, overlay),
		Overlay: overlay,
		Presets: NewPresetBook(gateway),
		Audio:   backend,
	}
	a.Network = NewNetworkManager(store)
	return a
}

// loopRAF is the steady-state frame callback. The next frame is scheduled
// first, then the tick runs as one synchronous unit; a panic inside a tick
// therefore never kills the loop for good.
func (a *App) loopRAF(now float64) {
	a.rafID = js.Global.Call("requestAnimationFrame", a.loopRAF).Int()
	a.Clock.Tick(now)
}

// Start schedules the first frame. The loop has no stop; it is the process's
// steady-state activity for as long as the surface is visible.
func (a *App) Start() {
	a.rafID = js.Global.Call("requestAnimationFrame", a.loopRAF).Int()
}

// SpawnAt spawns a pointer echo with randomized defaults, first giving the
// audio context its resume chance since this always runs in a gesture.
func (a *App) SpawnAt(x, y float64) {
	a.Audio.Resume()
	a.Store.Spawn(x, y, RandomSpawn)
}

// ApplyPreset applies a named preset through the book.
func (a *App) ApplyPreset(name string) bool {
	return a.Presets.Apply(name, a.Params, a.Store, a.Audio)
}
