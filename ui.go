package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	buttonColor      = color.RGBA{30, 30, 46, 230}
	buttonHoverColor = color.RGBA{66, 66, 100, 230}
	buttonTextColor  = color.RGBA{235, 235, 235, 255}
	textboxColor     = color.RGBA{10, 10, 18, 200}
	backlogTextColor = color.RGBA{170, 170, 190, 255}
)

// anchorPos converts one of the nine anchor names into the top-left
// position of a w by h box on screen.
func anchorPos(anchor string, w, h int) (int, int) {
	switch anchor {
	case "topleft":
		return 0, 0
	case "midtop":
		return (screenW - w) / 2, 0
	case "topright":
		return screenW - w, 0
	case "midleft":
		return 0, (screenH - h) / 2
	case "midright":
		return screenW - w, (screenH - h) / 2
	case "bottomleft":
		return 0, screenH - h
	case "midbottom":
		return (screenW - w) / 2, screenH - h
	case "bottomright":
		return screenW - w, screenH - h
	}
	return (screenW - w) / 2, (screenH - h) / 2
}

// buttonFadeStep is the per-tick alpha gain while a fading button
// becomes opaque.
const buttonFadeStep = 12

// Button is a clickable labeled box. Centered on X, Y to match how
// choice options and menu entries are laid out.
type Button struct {
	Label  string
	X, Y   int
	W, H   int
	Action func()

	alpha       int
	hovered     bool
	soundPlayed bool
}

func newButton(label string, x, y int, action func()) *Button {
	w, _ := text.Measure(label, buttonFace, 0)
	return &Button{
		Label:  label,
		X:      x,
		Y:      y,
		W:      int(w) + 40,
		H:      int(gs.ButtonFontSize) + 16,
		Action: action,
		alpha:  255,
	}
}

// fadeIn restarts the button's fade so it materializes over the next
// ticks instead of popping in.
func (b *Button) fadeIn() *Button {
	b.alpha = 0
	return b
}

// stepFade advances one tick of the fade-in, clamping at opaque.
func (b *Button) stepFade() {
	if b.alpha < 255 {
		b.alpha += buttonFadeStep
		if b.alpha > 255 {
			b.alpha = 255
		}
	}
}

func (b *Button) contains(mx, my int) bool {
	return mx >= b.X-b.W/2 && mx <= b.X+b.W/2 &&
		my >= b.Y-b.H/2 && my <= b.Y+b.H/2
}

// update tracks hover state, firing the hover sound once per entry.
func (b *Button) update(mx, my int) {
	was := b.hovered
	b.hovered = b.contains(mx, my)
	if b.hovered && !was && !b.soundPlayed {
		playUISound("hover")
		b.soundPlayed = true
	}
	if !b.hovered {
		b.soundPlayed = false
	}
}

func (b *Button) draw(screen *ebiten.Image) {
	b.stepFade()
	a := float32(b.alpha) / 255

	fill := buttonColor
	if b.hovered {
		fill = buttonHoverColor
	}
	vector.DrawFilledRect(screen,
		float32(b.X-b.W/2), float32(b.Y-b.H/2),
		float32(b.W), float32(b.H), scaleColor(fill, a), false)

	w, h := text.Measure(b.Label, buttonFace, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(b.X)-w/2, float64(b.Y)-h/2)
	op.ColorScale.ScaleWithColor(buttonTextColor)
	op.ColorScale.ScaleAlpha(a)
	text.Draw(screen, b.Label, buttonFace, op)
}

// scaleColor multiplies every channel so translucent fills stay
// premultiplied while fading.
func scaleColor(c color.RGBA, a float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * a),
		G: uint8(float32(c.G) * a),
		B: uint8(float32(c.B) * a),
		A: uint8(float32(c.A) * a),
	}
}

// Slider is a horizontal drag control holding a 0..1 value.
type Slider struct {
	Label    string
	X, Y     int
	W        int
	Value    float64
	OnChange func(float64)

	dragging bool
}

func newSlider(label string, x, y, w int, value float64, onChange func(float64)) *Slider {
	return &Slider{Label: label, X: x, Y: y, W: w, Value: value, OnChange: onChange}
}

func (s *Slider) update(mx, my int, pressed bool) {
	if pressed && !s.dragging &&
		mx >= s.X && mx <= s.X+s.W && my >= s.Y-12 && my <= s.Y+12 {
		s.dragging = true
	}
	if !pressed {
		s.dragging = false
		return
	}
	if s.dragging {
		v := float64(mx-s.X) / float64(s.W)
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		if v != s.Value {
			s.Value = v
			if s.OnChange != nil {
				s.OnChange(v)
			}
		}
	}
}

func (s *Slider) draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen,
		float32(s.X), float32(s.Y-2), float32(s.W), 4, buttonColor, false)
	knobX := s.X + int(s.Value*float64(s.W))
	vector.DrawFilledCircle(screen, float32(knobX), float32(s.Y), 9, buttonHoverColor, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(s.X), float64(s.Y)-34)
	op.ColorScale.ScaleWithColor(buttonTextColor)
	text.Draw(screen, s.Label, buttonFace, op)
}
