package pond

import (
	"strings"
	"testing"

	"echopond/common"
)

// recordingContext captures the draw call sequence as readable op strings.
type recordingContext struct {
	ops []string
}

func (c *recordingContext) SetFillStyle(style string)   { c.ops = append(c.ops, "fillStyle "+style) }
func (c *recordingContext) FillRect(x, y, w, h float64) { c.ops = append(c.ops, "fillRect") }
func (c *recordingContext) SetStrokeStyle(style string) { c.ops = append(c.ops, "strokeStyle "+style) }
func (c *recordingContext) SetLineWidth(w float64)      { c.ops = append(c.ops, "lineWidth") }
func (c *recordingContext) BeginPath()                  { c.ops = append(c.ops, "beginPath") }
func (c *recordingContext) Arc(x, y, r, start, end float64) {
	c.ops = append(c.ops, "arc")
}
func (c *recordingContext) Stroke()                        { c.ops = append(c.ops, "stroke") }
func (c *recordingContext) SetFont(font string)            { c.ops = append(c.ops, "font") }
func (c *recordingContext) FillText(text string, x, y float64) {
	c.ops = append(c.ops, "fillText "+text)
}

func (c *recordingContext) count(op string) int {
	n := 0
	for _, o := range c.ops {
		if o == op {
			n++
		}
	}
	return n
}

func newTestClock() (*FrameClock, *EchoStore, *Overlay, *recordingContext) {
	ctx := &recordingContext{}
	params := NewParameterState()
	store := NewEchoStore(common.NewSeededRNG(7), &fakeEmitter{}, fakeSurface{800, 600}, params)
	overlay := NewOverlay(ctx)
	clock := NewFrameClock(store, NewTrailRenderer(ctx, fakeSurface{800, 600}), overlay)
	return clock, store, overlay, ctx
}

// --- Frame Tests ---

// TestTick_WashFirstThenStrokes tests the per-frame draw order
func TestTick_WashFirstThenStrokes(t *testing.T) {
	clock, store, _, ctx := newTestClock()

	store.Spawn(100, 100, SpawnOptions{Hue: 30, MaxRadius: 80, Life: 1.0})
	clock.Tick(0)

	if len(ctx.ops) < 2 {
		t.Fatalf("Expected draw ops, got %d", len(ctx.ops))
	}
	if ctx.ops[0] != "fillStyle "+TrailFill {
		t.Errorf("Expected trail wash style first, got %q", ctx.ops[0])
	}
	if ctx.ops[1] != "fillRect" {
		t.Errorf("Expected wash rect second, got %q", ctx.ops[1])
	}
	if ctx.count("stroke") != 1 {
		t.Errorf("Expected 1 stroke for 1 echo, got %d", ctx.count("stroke"))
	}
}

// TestTick_EmptyStoreDrawsOnlyWash tests the idle frame
func TestTick_EmptyStoreDrawsOnlyWash(t *testing.T) {
	clock, _, _, ctx := newTestClock()

	clock.Tick(0)

	if ctx.count("stroke") != 0 {
		t.Errorf("Expected no strokes for empty store, got %d", ctx.count("stroke"))
	}
	if ctx.count("fillRect") != 1 {
		t.Errorf("Expected wash even with no echoes, got %d fillRects", ctx.count("fillRect"))
	}
}

// TestTick_OneCircleOutlinePerEcho tests the per-echo stroke sequence
func TestTick_OneCircleOutlinePerEcho(t *testing.T) {
	clock, store, _, ctx := newTestClock()

	for i := 0; i < 3; i++ {
		store.Spawn(float64(i*100), 50, SpawnOptions{Hue: 1, MaxRadius: 80, Life: 1.0})
	}
	clock.Tick(0)

	for _, op := range []string{"beginPath", "arc", "stroke", "lineWidth"} {
		if n := ctx.count(op); n != 3 {
			t.Errorf("Expected 3 %s ops, got %d", op, n)
		}
	}
}

// TestTick_EvictsBeforeDrawing tests that expired echoes never render
func TestTick_EvictsBeforeDrawing(t *testing.T) {
	clock, store, _, ctx := newTestClock()

	store.Spawn(0, 0, SpawnOptions{Hue: 1, MaxRadius: 80, Life: 0.5})
	clock.Tick(2000)

	if ctx.count("stroke") != 0 {
		t.Error("Expected expired echo evicted before draw")
	}
	if store.Len() != 0 {
		t.Errorf("Expected store emptied by tick, got %d", store.Len())
	}
}

// --- Overlay Tests ---

// TestOverlay_HiddenByDefault tests that the readout starts off
func TestOverlay_HiddenByDefault(t *testing.T) {
	clock, _, overlay, ctx := newTestClock()

	clock.Tick(0)

	if overlay.Visible {
		t.Error("Expected overlay hidden by default")
	}
	for _, op := range ctx.ops {
		if strings.HasPrefix(op, "fillText") {
			t.Errorf("Expected no overlay text while hidden, got %q", op)
		}
	}
}

// TestOverlay_ToggleShowsReadout tests the visible overlay output
func TestOverlay_ToggleShowsReadout(t *testing.T) {
	clock, store, overlay, ctx := newTestClock()

	overlay.Toggle()
	store.Spawn(10, 10, SpawnOptions{Hue: 1, MaxRadius: 80, Life: 1.0})
	clock.Tick(0)

	var texts []string
	for _, op := range ctx.ops {
		if strings.HasPrefix(op, "fillText ") {
			texts = append(texts, strings.TrimPrefix(op, "fillText "))
		}
	}
	if len(texts) != 2 {
		t.Fatalf("Expected fps and count lines, got %v", texts)
	}
	if !strings.HasPrefix(texts[0], "fps ") {
		t.Errorf("Expected fps line first, got %q", texts[0])
	}
	if texts[1] != "echoes 1" {
		t.Errorf("Expected live count line, got %q", texts[1])
	}
}

// TestOverlay_FPSSampling tests the one-second rate window
func TestOverlay_FPSSampling(t *testing.T) {
	overlay := NewOverlay(&recordingContext{})

	// Frames at 60Hz, long enough for a full one-second sample window.
	for i := 1; i <= 70; i++ {
		overlay.Frame(float64(i)*1000/60, 0)
	}

	fps := overlay.FPS()
	if fps < 55 || fps > 65 {
		t.Errorf("Expected roughly 60 fps, got %f", fps)
	}
}
