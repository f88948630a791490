package pond

import "strconv"

// Overlay is a small diagnostics readout drawn after the echo field:
// frames per second and the live echo count. Hidden by default.
type Overlay struct {
	Visible bool

	ctx Context2D

	frames     int
	sampleFrom float64
	fps        float64
}

// NewOverlay creates a hidden overlay drawing through the given context.
func NewOverlay(ctx Context2D) *Overlay {
	return &Overlay{ctx: ctx}
}

// Toggle flips overlay visibility.
func (o *Overlay) Toggle() {
	o.Visible = !o.Visible
}

// FPS returns the most recent one-second frame-rate sample.
func (o *Overlay) FPS() float64 {
	return o.fps
}

// Frame updates the rate sample and, when visible, draws the readout.
// Called once per tick with the frame's monotonic time in milliseconds.
func (o *Overlay) Frame(now float64, liveCount int) {
	if o.sampleFrom == 0 {
		o.sampleFrom = now
	}
	o.frames++
	if elapsed := now - o.sampleFrom; elapsed >= 1000 {
		o.fps = float64(o.frames) * 1000 / elapsed
		o.frames = 0
		o.sampleFrom = now
	}

	if !o.Visible {
		return
	}

	o.ctx.SetFont("12px Consolas,monospace")
	o.ctx.SetFillStyle("rgba(200,255,200,0.8)")
	o.ctx.FillText("fps "+strconv.FormatFloat(o.fps, 'f', 1, 64), 8, 16)
	o.ctx.FillText("echoes "+strconv.Itoa(liveCount), 8, 32)
}
