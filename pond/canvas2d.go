package pond

import "github.com/gopherjs/gopherjs/js"

// canvasContext adapts a CanvasRenderingContext2D to Context2D.
type canvasContext struct {
	ctx *js.Object
}

// NewCanvasContext wraps a browser 2D context.
func NewCanvasContext(ctx *js.Object) Context2D {
	return &canvasContext{ctx: ctx}
}

func (c *canvasContext) SetFillStyle(style string) {
	c.ctx.Set("fillStyle", style)
}

func (c *canvasContext) FillRect(x, y, w, h float64) {
	c.ctx.Call("fillRect", x, y, w, h)
}

func (c *canvasContext) SetStrokeStyle(style string) {
	c.ctx.Set("strokeStyle", style)
}

func (c *canvasContext) SetLineWidth(w float64) {
	c.ctx.Set("lineWidth", w)
}

func (c *canvasContext) BeginPath() {
	c.ctx.Call("beginPath")
}

func (c *canvasContext) Arc(x, y, r, start, end float64) {
	c.ctx.Call("arc", x, y, r, start, end)
}

func (c *canvasContext) Stroke() {
	c.ctx.Call("stroke")
}

func (c *canvasContext) SetFont(font string) {
	c.ctx.Set("font", font)
}

func (c *canvasContext) FillText(text string, x, y float64) {
	c.ctx.Call("fillText", text, x, y)
}

// CanvasSurface reads the logical size off the canvas element on every call,
// so an async resize is picked up by the very next spawn or frame.
type CanvasSurface struct {
	canvas *js.Object
}

// NewCanvasSurface wraps a canvas element.
func NewCanvasSurface(canvas *js.Object) *CanvasSurface {
	return &CanvasSurface{canvas: canvas}
}

// Width returns the canvas logical width in pixels.
func (s *CanvasSurface) Width() float64 {
	return s.canvas.Get("width").Float()
}

// Height returns the canvas logical height in pixels.
func (s *CanvasSurface) Height() float64 {
	return s.canvas.Get("height").Float()
}
