package pond

import (
	"math"
	"strconv"
)

// Echo is a single transient ripple. It is immutable after spawn; everything
// the renderer needs per frame (radius, alpha, line width) is derived from
// the echo's age, never stored back.
type Echo struct {
	X, Y      float64
	Hue       float64 // [0, 360)
	MaxRadius float64
	Life      float64 // seconds until expiry
	CreatedAt float64 // monotonic milliseconds at spawn
}

// Age returns the echo's age in seconds at the given monotonic time.
func (e *Echo) Age(now float64) float64 {
	return (now - e.CreatedAt) / 1000
}

// Progress returns age/life. Live echoes stay inside [0, 1).
func (e *Echo) Progress(now float64) float64 {
	return e.Age(now) / e.Life
}

// Expired reports whether the echo should be evicted. The boundary is
// age >= life, which keeps Progress of every surviving echo below 1.
func (e *Echo) Expired(now float64) bool {
	return e.Age(now) >= e.Life
}

// LiveEcho pairs a surviving echo with its progress for one frame.
type LiveEcho struct {
	Echo     *Echo
	Progress float64
}

// RippleRadius grows a ripple from 60% of its max radius at spawn to 220%
// at end of life, so even a randomized spawn radius reads as expanding.
func RippleRadius(maxRadius, progress float64) float64 {
	return maxRadius * (0.6 + progress*1.6)
}

// RippleAlpha fades linearly to fully transparent.
func RippleAlpha(progress float64) float64 {
	if progress >= 1 {
		return 0
	}
	return 1 - progress
}

// RippleLineWidth thins the stroke as the ripple fades, floor of 1.
func RippleLineWidth(progress float64) float64 {
	w := 8 * (1 - progress)
	if w < 1 {
		return 1
	}
	return w
}

// hsvToRGB converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1).
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

// StrokeStyle renders an echo's hue at fixed saturation 0.8 and full value
// into a canvas rgba() color with the frame's alpha composited in.
func StrokeStyle(hue, alpha float64) string {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	r, g, b := hsvToRGB(hue, 0.8, 1.0)
	return "rgba(" + strconv.Itoa(int(r)) + "," + strconv.Itoa(int(g)) + "," +
		strconv.Itoa(int(b)) + "," + strconv.FormatFloat(alpha, 'f', 3, 64) + ")"
}
