package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
)

func (g *Game) initTitleUI() {
	x := screenW / 2
	y := screenH/2 + 40
	step := int(gs.ButtonFontSize) + 40

	g.titleButtons = []*Button{
		newButton("New Game", x, y, func() {
			playUISound("click")
			g.startScene(gs.RootScene)
		}).fadeIn(),
		newButton("Load Game", x, y+step, func() {
			playUISound("click")
			g.enterSlots(modeLoad)
		}).fadeIn(),
		newButton("Options", x, y+2*step, func() {
			playUISound("click")
			g.enterConfig()
		}).fadeIn(),
		newButton("Quit", x, y+3*step, func() {
			g.quitting = true
		}).fadeIn(),
	}
}

func (g *Game) initConfigUI() {
	x := screenW/2 - 200
	y := screenH / 3

	g.configSliders = []*Slider{
		newSlider("Music Volume", x, y, 400, gs.MusicVolume, func(v float64) {
			gs.MusicVolume = v
			applyVolumes()
		}),
		newSlider("Sound Volume", x, y+90, 400, gs.SoundVolume, func(v float64) {
			gs.SoundVolume = v
			applyVolumes()
		}),
		newSlider("Text Speed", x, y+180, 400, float64(gs.TextSpeed)/40, func(v float64) {
			gs.TextSpeed = 1 + int(v*39)
		}),
		newSlider("Auto Pause", x, y+270, 400, float64(gs.AutoPause)/240, func(v float64) {
			gs.AutoPause = 1 + int(v*239)
		}),
	}
	g.configButtons = []*Button{
		newButton("Fullscreen", screenW/2-90, y+360, func() {
			gs.Fullscreen = !gs.Fullscreen
			ebiten.SetFullscreen(gs.Fullscreen)
		}),
		newButton("Back", screenW/2+90, y+360, func() {
			playUISound("click")
			g.leaveConfig()
		}),
	}
}

func (g *Game) enterConfig() {
	for _, b := range g.configButtons {
		b.fadeIn()
	}
	g.mode = modeConfig
}

// leaveConfig persists the tweaked settings and returns to the title.
func (g *Game) leaveConfig() {
	saveSettings()
	g.mode = modeTitle
}

func (g *Game) drawSplash(screen *ebiten.Image) {
	screen.Fill(color.White)
	if g.splashImg == nil {
		return
	}
	drawImageFitAlpha(screen, g.splashImg, float32(g.splashAlpha)/255)
}

func (g *Game) drawTitle(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if g.titleImg != nil {
		drawImageFit(screen, g.titleImg)
	}

	w, _ := text.Measure(gs.Caption, nameFace, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(screenW)/2-w/2, float64(screenH)/4)
	op.ColorScale.ScaleWithColor(buttonTextColor)
	text.Draw(screen, gs.Caption, nameFace, op)

	for _, b := range g.titleButtons {
		b.draw(screen)
	}
}

func (g *Game) drawConfig(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if g.titleImg != nil {
		drawImageFit(screen, g.titleImg)
	}

	for _, s := range g.configSliders {
		s.draw(screen)
	}
	for _, b := range g.configButtons {
		b.draw(screen)
	}
	g.drawDemoText(screen)
}

// drawDemoText loops a sample line at the configured reveal speed so
// text-speed changes are visible immediately.
func (g *Game) drawDemoText(screen *ebiten.Image) {
	const sample = "The quick brown fox jumps over the lazy dog."
	w, _ := text.Measure(sample, dialogueFace, 0)
	x := float64(screenW)/2 - w/2
	y := float64(screenH) - 120

	reveal := g.demoReveal % (int(w) + 90)
	if reveal > int(w) {
		reveal = int(w)
	}
	clip := image.Rect(int(x), int(y), int(x)+reveal, int(y)+int(gs.DialogueFontSize)+12)
	dst := screen.SubImage(clip).(*ebiten.Image)
	drawShadowedText(dst, sample, dialogueFace, x, y, buttonTextColor, 1)
}

// drawImageFit letterboxes an image into the screen, preserving its
// aspect ratio.
func drawImageFit(screen, img *ebiten.Image) {
	drawImageFitAlpha(screen, img, 1)
}

func drawImageFitAlpha(screen, img *ebiten.Image, alpha float32) {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	sx := float64(screenW) / float64(iw)
	sy := float64(screenH) / float64(ih)
	s := sx
	if sy < s {
		s = sy
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = drawFilter
	op.GeoM.Scale(s, s)
	op.GeoM.Translate((float64(screenW)-float64(iw)*s)/2, (float64(screenH)-float64(ih)*s)/2)
	op.ColorScale.ScaleAlpha(alpha)
	screen.DrawImage(img, op)
}
