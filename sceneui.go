package main

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"novella/scene"
)

const (
	textboxMargin = 24
	textboxHeight = screenH / 4
)

func (g *Game) initGameUI() {
	step := 110
	y := 26
	x := screenW - 60

	g.gameButtons = []*Button{
		newButton("Save", x, y, func() { g.enterSlots(modeSave) }),
		newButton("Load", x-step, y, func() { g.enterSlots(modeLoad) }),
		newButton("Auto", x-2*step, y, func() { g.sess.ToggleAuto() }),
		newButton("Skip", x-3*step, y, func() { g.sess.ToggleSkip() }),
		newButton("Next", x-4*step, y, func() { g.sess.Next() }),
		newButton("Back", x-5*step, y, func() { g.sess.Back() }),
		newButton("Title", x-6*step, y, func() { g.returnToTitle() }),
		newButton("Quit", x-7*step, y, func() { g.quitting = true }),
	}
}

func (g *Game) updateGame(mx, my int, click bool) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.returnToTitle()
		return nil
	}

	g.syncChoiceButtons()
	uiVisible := g.sess.HideAlpha > 0

	handled := false
	if uiVisible {
		for _, b := range g.gameButtons {
			b.update(mx, my)
			if click && b.hovered {
				b.Action()
				handled = true
				break
			}
		}
		if !handled && g.sess.State == scene.StateChoose {
			for i, b := range g.choiceButtons {
				b.update(mx, my)
				if click && b.hovered {
					playUISound("click")
					g.sess.Pick(g.sess.Opts.Options[i].ID)
					handled = true
					break
				}
			}
		}
	}

	if !handled {
		if click || inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.sess.Next()
		}
		if _, wy := ebiten.Wheel(); wy > 0 {
			g.sess.Back()
		} else if wy < 0 {
			g.sess.Next()
		}
	}

	if err := g.sess.Step(); err != nil {
		return err
	}
	if g.sess.Done() {
		g.returnToTitle()
	}
	return nil
}

// syncChoiceButtons rebuilds the option buttons whenever the session's
// collected choice list changes shape.
func (g *Game) syncChoiceButtons() {
	opts := g.sess.Opts.Options
	if g.sess.State != scene.StateChoose || len(opts) == 0 {
		g.choiceButtons = nil
		return
	}
	if len(g.choiceButtons) == len(opts) {
		return
	}
	g.choiceButtons = make([]*Button, len(opts))
	for i, o := range opts {
		g.choiceButtons[i] = newButton(o.Prompt, o.X, o.Y, nil)
		g.choiceButtons[i].W = screenW / 3
	}
}

func (g *Game) drawGame(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.drawBackground(screen)
	g.drawCharacters(screen)

	if g.sess.HideAlpha > 0 {
		g.drawTextbox(screen)
		g.drawWidget(screen)
		for _, b := range g.gameButtons {
			b.draw(screen)
		}
		if g.sess.State == scene.StateChoose {
			for _, b := range g.choiceButtons {
				b.draw(screen)
			}
		}
	}
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	jx, jy := 0, 0
	if g.sess.Shaking {
		if g.sess.ShakeX > 0 {
			jx = rand.Intn(2*g.sess.ShakeX+1) - g.sess.ShakeX
		}
		if g.sess.ShakeY > 0 {
			jy = rand.Intn(2*g.sess.ShakeY+1) - g.sess.ShakeY
		}
	}

	// The outgoing background sits underneath at full opacity while the
	// incoming one fades over it. Shake jitters both.
	if old := ebImage(g.sess.OldBG); old != nil {
		op := &ebiten.DrawImageOptions{}
		op.Filter = drawFilter
		w, h := g.sess.OldBG.Size()
		x, y := anchorPos(g.sess.OldAnchor, w, h)
		op.GeoM.Translate(float64(x+jx), float64(y+jy))
		screen.DrawImage(old, op)
	}

	bg := ebImage(g.sess.BG)
	if bg == nil {
		return
	}
	s := g.sess.BGScale()
	bw, bh := g.sess.BG.Size()
	w := int(float64(bw) * s)
	h := int(float64(bh) * s)
	x, y := anchorPos(g.sess.Anchor, w, h)

	op := &ebiten.DrawImageOptions{}
	op.Filter = drawFilter
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(x+jx), float64(y+jy))
	op.ColorScale.ScaleAlpha(float32(g.sess.BGAlpha()) / 255)
	screen.DrawImage(bg, op)
}

func (g *Game) drawCharacters(screen *ebiten.Image) {
	for _, c := range g.sess.Chars.List {
		img := ebImage(c.Image)
		if img == nil {
			continue
		}
		x, y := spritePos(c.Slot, c.Image)

		op := &ebiten.DrawImageOptions{}
		op.Filter = drawFilter
		op.GeoM.Translate(float64(x), float64(y))
		op.ColorScale.ScaleAlpha(float32(c.Alpha) / 255)
		screen.DrawImage(img, op)
	}
}

// spritePos anchors a character sprite at its slot column, feet on the
// bottom edge.
func spritePos(slot int, im scene.Image) (int, int) {
	_, h := im.Size()
	return slot * screenW / 16, screenH - h
}

func (g *Game) drawTextbox(screen *ebiten.Image) {
	page := g.sess.Dlg.Viewed()
	if page == nil {
		return
	}
	uiAlpha := float32(g.sess.HideAlpha) / 255
	reviewing := !g.sess.Dlg.AtNewest()

	boxY := screenH - textboxHeight
	box := textboxColor
	box.A = uint8(float32(box.A) * uiAlpha)
	vector.DrawFilledRect(screen, 0, float32(boxY), screenW, textboxHeight, box, false)

	lineH := gs.DialogueFontSize + 8
	tx := float64(textboxMargin * 3)
	ty := float64(boxY + textboxMargin)

	if page.Speaker != "" {
		drawShadowedText(screen, page.Speaker, nameFace,
			float64(textboxMargin), float64(boxY)-gs.NameFontSize-10,
			buttonTextColor, uiAlpha)
	}

	for i, ln := range page.Lines {
		y := ty + float64(i)*lineH
		col := buttonTextColor
		if reviewing {
			col = backlogTextColor
		}

		dst := screen
		if !reviewing && ln.Reveal < ln.Width {
			clip := image.Rect(int(tx), int(y), int(tx)+ln.Reveal, int(y+lineH)+4)
			dst = screen.SubImage(clip).(*ebiten.Image)
		}
		drawShadowedText(dst, ln.Text, dialogueFace, tx, y, col, uiAlpha)
	}

	if reviewing {
		op := &text.DrawOptions{}
		label := fmt.Sprintf("log %d/%d", g.sess.Dlg.PrevIndex+1, g.sess.Dlg.MaxIndex+1)
		op.GeoM.Translate(screenW-140, float64(boxY)+8)
		op.ColorScale.ScaleWithColor(backlogTextColor)
		text.Draw(screen, label, widgetFace, op)
	}
}

// drawShadowedText draws text with a one-pixel drop shadow, the way
// every piece of scene text renders.
func drawShadowedText(dst *ebiten.Image, s string, face text.Face, x, y float64, col color.RGBA, alpha float32) {
	shadow := &text.DrawOptions{}
	shadow.GeoM.Translate(x+2, y+2)
	shadow.ColorScale.ScaleWithColor(color.RGBA{0, 0, 0, 255})
	shadow.ColorScale.ScaleAlpha(alpha)
	text.Draw(dst, s, face, shadow)

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	op.ColorScale.ScaleAlpha(alpha)
	text.Draw(dst, s, face, op)
}

func (g *Game) drawWidget(screen *ebiten.Image) {
	label := g.sess.WidgetText
	if label == "" || label == "null" {
		return
	}
	w, h := text.Measure(label, widgetFace, 0)
	x, y := anchorPos(g.sess.WidgetAnchor, int(w)+20, int(h)+12)

	vector.DrawFilledRect(screen, float32(x), float32(y),
		float32(w)+20, float32(h)+12, textboxColor, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x)+10, float64(y)+6)
	op.ColorScale.ScaleWithColor(buttonTextColor)
	text.Draw(screen, label, widgetFace, op)
}
