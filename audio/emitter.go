package audio

import "github.com/gopherjs/gopherjs/js"

// Emitter synthesizes decaying tones through the Web Audio API. Each Play
// builds its own oscillator+gain pair, so concurrent tones are fully
// independent and a tone outlives its visual echo (or the other way round)
// without either noticing.
type Emitter struct {
	ctx    *js.Object
	master *js.Object
	ready  bool
}

// NewEmitter creates the audio context and master gain. When the host has
// no Web Audio at all, the emitter stays silent but usable: every Play is a
// no-op and the visuals keep running.
func NewEmitter(volume float64) *Emitter {
	e := &Emitter{}

	audioCtx := js.Global.Get("AudioContext")
	if audioCtx == nil || audioCtx == js.Undefined {
		audioCtx = js.Global.Get("webkitAudioContext")
	}
	if audioCtx == nil || audioCtx == js.Undefined {
		return e
	}

	e.ctx = audioCtx.New()
	e.master = e.ctx.Call("createGain")
	e.master.Call("connect", e.ctx.Get("destination"))
	e.master.Get("gain").Set("value", clampGain(volume))
	e.ready = true
	return e
}

// SetVolume sets the master volume (0.0 to 1.0).
func (e *Emitter) SetVolume(volume float64) {
	if e.master == nil {
		return
	}
	e.master.Get("gain").Set("value", clampGain(volume))
}

// Resume makes a best-effort attempt to unsuspend the audio context.
// Browsers keep a context suspended until a user gesture; gesture handlers
// call this. Failure is silent and there are no retries beyond the next
// Play's own attempt.
func (e *Emitter) Resume() {
	if !e.ready {
		return
	}
	defer func() { recover() }()
	if e.ctx.Get("state").String() == "suspended" {
		e.ctx.Call("resume")
	}
}

// Play rings one tone: constant pitch at the master volume, decaying along
// an exponential ramp to near zero by duration seconds. The oscillator is
// stopped a short tail after the nominal duration. Never panics; a tone
// that cannot be produced is simply not heard.
func (e *Emitter) Play(frequency, duration float64) {
	if !e.ready {
		return
	}
	defer func() { recover() }()

	e.Resume()

	frequency = clampFrequency(frequency)
	duration = clampDuration(duration)
	now := e.ctx.Get("currentTime").Float()

	osc := e.ctx.Call("createOscillator")
	osc.Set("type", "sine")
	osc.Get("frequency").Call("setValueAtTime", frequency, now)

	gain := e.ctx.Call("createGain")
	gain.Get("gain").Call("setValueAtTime", 1, now)
	gain.Get("gain").Call("exponentialRampToValueAtTime", envelopeFloor, now+duration)

	osc.Call("connect", gain)
	gain.Call("connect", e.master)

	osc.Call("start", now)
	osc.Call("stop", now+duration+TailSeconds)
}
