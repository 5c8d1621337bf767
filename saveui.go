package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"

	"novella/scene"
)

const saveExt = ".sav"

type slotInfo struct {
	num  int
	data *scene.SaveData
	mod  time.Time
}

func savePath(num int) string {
	return filepath.Join(dataDir, "saves", fmt.Sprintf("%03d%s", num, saveExt))
}

func (g *Game) scanSlots() {
	n := gs.SaveCols * gs.SaveRows
	g.slots = make([]slotInfo, n)
	for i := range g.slots {
		g.slots[i].num = i
		fi, err := os.Stat(savePath(i))
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(savePath(i))
		if err != nil {
			logError("read save %03d: %v", i, err)
			continue
		}
		sd, err := scene.DecodeSave(strings.Split(string(raw), "\n"))
		if err != nil {
			logError("save %03d: %v", i, err)
			continue
		}
		g.slots[i].data = sd
		g.slots[i].mod = fi.ModTime()
	}
}

// enterSlots opens the save or load grid over whatever mode was active.
func (g *Game) enterSlots(mode gameMode) {
	g.scanSlots()
	g.prevMode = g.mode
	g.mode = mode

	cols := gs.SaveCols
	cellW := screenW / cols
	cellH := (screenH * 2 / 3) / gs.SaveRows

	g.slotButtons = g.slotButtons[:0]
	for i := range g.slots {
		slot := g.slots[i]
		label := "Empty"
		if slot.data != nil {
			label = fmt.Sprintf("%s  %s", slot.data.Stamp, humanize.Time(slot.mod))
		}
		x := (slot.num%cols)*cellW + cellW/2
		y := (slot.num/cols)*cellH + cellH/2 + screenH/6
		b := newButton(label, x, y, nil).fadeIn()
		b.W = cellW - 30
		b.H = cellH - 30
		num := slot.num
		if mode == modeSave {
			b.Action = func() { g.writeSave(num) }
		} else if slot.data != nil {
			b.Action = func() { g.loadSlot(num) }
		}
		g.slotButtons = append(g.slotButtons, b)
	}
}

// writeSave appends the grid position and a timestamp to the codec's
// record and writes the slot file.
func (g *Game) writeSave(num int) {
	record := g.sess.EncodeSave()
	record += fmt.Sprintf("xy: %d, %d\n", num%gs.SaveCols, num/gs.SaveCols)
	record += fmt.Sprintf("datetime: %s\n", time.Now().Format("2006-1-2, 15:04"))

	if err := os.MkdirAll(filepath.Join(dataDir, "saves"), 0755); err != nil {
		logError("save dir: %v", err)
		return
	}
	if err := os.WriteFile(savePath(num), []byte(record), 0644); err != nil {
		logError("write save %03d: %v", num, err)
		return
	}
	playUISound("click")
	logDebug("saved slot %03d", num)
	g.mode = modeGame
}

func (g *Game) loadSlot(num int) {
	raw, err := os.ReadFile(savePath(num))
	if err != nil {
		logError("read save %03d: %v", num, err)
		return
	}
	sd, err := scene.DecodeSave(strings.Split(string(raw), "\n"))
	if err != nil {
		logError("save %03d: %v", num, err)
		return
	}

	g.audio.StopMusic()
	g.titleMusicOn = false
	g.sess = scene.NewSession(sessionConfig(), g.assets, g.audio, faceMeasure{}, loadSceneDoc)
	if err := g.sess.Restore(sd); err != nil {
		logError("load save %03d: %v", num, err)
		g.mode = g.prevMode
		return
	}
	playUISound("click")
	g.choiceButtons = nil
	g.mode = modeGame
}

func (g *Game) drawSlots(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if g.titleImg != nil {
		drawImageFit(screen, g.titleImg)
	}

	heading := "Load Game"
	if g.mode == modeSave {
		heading = "Save Game"
	}
	w, _ := text.Measure(heading, nameFace, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(screenW)/2-w/2, float64(screenH)/14)
	op.ColorScale.ScaleWithColor(buttonTextColor)
	text.Draw(screen, heading, nameFace, op)

	for _, b := range g.slotButtons {
		b.draw(screen)
	}
}
