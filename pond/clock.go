package pond

// FrameClock is the single control loop for the surface. Each Tick is one
// synchronous unit of work: evict expired echoes, draw the survivors, then
// the optional overlay. Production calls Tick from requestAnimationFrame;
// tests call it with a hand-rolled now.
type FrameClock struct {
	store    *EchoStore
	renderer *TrailRenderer
	overlay  *Overlay
}

// NewFrameClock wires the per-frame pipeline. overlay may be nil.
func NewFrameClock(store *EchoStore, renderer *TrailRenderer, overlay *Overlay) *FrameClock {
	return &FrameClock{store: store, renderer: renderer, overlay: overlay}
}

// Tick runs one frame at the given monotonic time in milliseconds.
func (c *FrameClock) Tick(now float64) {
	snapshot := c.store.EvictAndSnapshot(now)
	c.renderer.Draw(snapshot)
	if c.overlay != nil {
		c.overlay.Frame(now, len(snapshot))
	}
}
