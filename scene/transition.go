package scene

// Transition carries the two background interpolators: a fade walking
// an alpha accumulator from 0 to 255 at FadeRate per tick, and a zoom
// walking ZoomScale toward TargetScale at ZoomRate per tick, clamped so
// it never overshoots. Fade and one zoom direction may run together
// (fadezoomin / fadezoomout).
type Transition struct {
	FadeAlpha   int
	FadeRate    int
	ZoomScale   float64
	TargetScale float64
	ZoomRate    float64

	FadeIn  bool
	FadeOut bool
	ZoomIn  bool
	ZoomOut bool
}

const (
	defaultFadeRate = 5
	defaultZoomRate = 0.1
)

func NewTransition() Transition {
	return Transition{
		FadeRate:    defaultFadeRate,
		ZoomScale:   1.0,
		TargetScale: 1.0,
		ZoomRate:    defaultZoomRate,
	}
}

// Active reports whether any effect is still flagged.
func (t *Transition) Active() bool {
	return t.FadeIn || t.FadeOut || t.ZoomIn || t.ZoomOut
}

// Step advances the active interpolators one tick and reports true
// while any requested effect has not yet reached its target. The fade
// resets as soon as it completes; the zoom holds its flags until the
// first tick where nothing else is still moving, so a combined effect
// resolves only when both parts have landed.
func (t *Transition) Step() bool {
	busy := false
	if t.FadeIn || t.FadeOut {
		if t.FadeAlpha < 255 {
			t.FadeAlpha += t.FadeRate
			busy = true
		} else {
			t.FadeIn = false
			t.FadeOut = false
			t.FadeAlpha = 0
		}
	}
	if t.ZoomIn {
		if t.ZoomScale < t.TargetScale {
			t.ZoomScale = t.ZoomScale + t.ZoomRate
			if t.ZoomScale > t.TargetScale {
				t.ZoomScale = t.TargetScale
			}
			busy = true
		} else if !busy {
			t.resetZoom()
		}
	} else if t.ZoomOut {
		if t.ZoomScale > t.TargetScale {
			t.ZoomScale = t.ZoomScale - t.ZoomRate
			if t.ZoomScale < t.TargetScale {
				t.ZoomScale = t.TargetScale
			}
			busy = true
		} else if !busy {
			t.resetZoom()
		}
	}
	return busy
}

func (t *Transition) resetZoom() {
	t.ZoomIn = false
	t.ZoomOut = false
	t.ZoomScale = 1.0
	t.TargetScale = 1.0
	t.ZoomRate = defaultZoomRate
}
