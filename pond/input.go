package pond

import "github.com/gopherjs/gopherjs/js"

// Key codes for the keyboard shortcuts.
const (
	keyBurst   = 66  // B
	keyClear   = 67  // C
	keyOverlay = 121 // F10
)

// SetupInputHandlers wires pointer and keyboard events. Handlers run on the
// same cooperative queue as the frame loop, so a spawn here is visible to
// the very next eviction/render pass.
func (a *App) SetupInputHandlers() {
	doc := js.Global.Get("document")

	// Pointer contacts spawn independently; no multi-touch choreography.
	a.Canvas.Call("addEventListener", "pointerdown", func(event *js.Object) {
		x, y := a.canvasPoint(event)
		a.SpawnAt(x, y)
		event.Call("preventDefault")
	})

	doc.Call("addEventListener", "keydown", func(event *js.Object) {
		switch event.Get("keyCode").Int() {
		case keyBurst:
			a.Audio.Resume()
			a.Store.Burst(BurstCount)
		case keyClear:
			a.Store.Clear()
		case keyOverlay:
			a.Overlay.Toggle()
			event.Call("preventDefault")
		}
	})
}

// canvasPoint converts a pointer event to canvas logical coordinates,
// rescaling from CSS pixels since the canvas may be styled smaller or
// larger than its logical size.
func (a *App) canvasPoint(event *js.Object) (float64, float64) {
	rect := a.Canvas.Call("getBoundingClientRect")
	rw, rh := rect.Get("width").Float(), rect.Get("height").Float()
	if rw == 0 || rh == 0 {
		return 0, 0
	}
	x := (event.Get("clientX").Float() - rect.Get("left").Float()) * a.Canvas.Get("width").Float() / rw
	y := (event.Get("clientY").Float() - rect.Get("top").Float()) * a.Canvas.Get("height").Float() / rh
	return x, y
}
