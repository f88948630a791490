package pond

import "math"

// Context2D is the slice of the canvas 2D API the renderer touches. The
// browser-backed implementation lives in canvas2d.go; frame tests plug in a
// recorder so rendering is checked without a DOM.
type Context2D interface {
	SetFillStyle(style string)
	FillRect(x, y, w, h float64)
	SetStrokeStyle(style string)
	SetLineWidth(w float64)
	BeginPath()
	Arc(x, y, r, start, end float64)
	Stroke()

	SetFont(font string)
	FillText(text string, x, y float64)
}

// TrailRenderer draws one frame of the echo field. The canvas is never
// cleared: a translucent dark wash is painted first each frame, so strokes
// from earlier frames darken progressively into a fading trail.
type TrailRenderer struct {
	ctx     Context2D
	surface Surface
}

// NewTrailRenderer creates a renderer over the given context and surface.
func NewTrailRenderer(ctx Context2D, surface Surface) *TrailRenderer {
	return &TrailRenderer{ctx: ctx, surface: surface}
}

// Draw paints the trail wash, then every live echo in snapshot order as a
// single unfilled circle outline.
func (r *TrailRenderer) Draw(snapshot []LiveEcho) {
	r.ctx.SetFillStyle(TrailFill)
	r.ctx.FillRect(0, 0, r.surface.Width(), r.surface.Height())

	for _, le := range snapshot {
		e := le.Echo
		r.ctx.SetStrokeStyle(StrokeStyle(e.Hue, RippleAlpha(le.Progress)))
		r.ctx.SetLineWidth(RippleLineWidth(le.Progress))
		r.ctx.BeginPath()
		r.ctx.Arc(e.X, e.Y, RippleRadius(e.MaxRadius, le.Progress), 0, 2*math.Pi)
		r.ctx.Stroke()
	}
}
