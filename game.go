package main

import (
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"novella/scene"
)

type gameMode int

const (
	modeSplash gameMode = iota
	modeTitle
	modeConfig
	modeGame
	modeSave
	modeLoad
)

// splashFadeStep is the per-tick alpha walk of the splash logo, in and
// back out.
const splashFadeStep = 5

type Game struct {
	mode     gameMode
	prevMode gameMode

	sess   *scene.Session
	assets *assetStore
	audio  gameAudio

	splashAlpha int
	splashOut   bool
	splashImg   *ebiten.Image
	titleImg    *ebiten.Image

	titleButtons  []*Button
	configButtons []*Button
	configSliders []*Slider
	gameButtons   []*Button
	choiceButtons []*Button
	slotButtons   []*Button
	slots         []slotInfo

	titleMusicOn bool
	quitting     bool
	demoReveal   int
}

func sessionConfig() scene.Config {
	return scene.Config{
		ScreenW:      screenW,
		ScreenH:      screenH,
		ChoiceStride: int(gs.ButtonFontSize) + 40,
		ScrollSpeed:  gs.TextSpeed,
		AutoPause:    gs.AutoPause,
	}
}

func loadSceneDoc(name string) (*scene.Document, error) {
	return scene.LoadDocument(filepath.Join(dataDir, "scenes"), name)
}

func newGame(startScene string) *Game {
	g := &Game{
		assets: globalAssets,
		mode:   modeSplash,
	}
	g.sess = scene.NewSession(sessionConfig(), g.assets, g.audio, faceMeasure{}, loadSceneDoc)
	g.splashImg = g.assets.loadUIImage("splash")
	g.titleImg = g.assets.loadUIImage("title")
	g.initTitleUI()
	g.initConfigUI()
	g.initGameUI()

	if startScene != "" {
		g.startScene(startScene)
	}
	return g
}

// startScene begins playing the named script with a fresh interpreter.
func (g *Game) startScene(name string) {
	g.sess = scene.NewSession(sessionConfig(), g.assets, g.audio, faceMeasure{}, loadSceneDoc)
	if err := g.sess.Start(name); err != nil {
		logError("start scene %s: %v", name, err)
		g.mode = modeTitle
		return
	}
	g.choiceButtons = nil
	g.mode = modeGame
}

func (g *Game) returnToTitle() {
	g.audio.StopMusic()
	g.titleMusicOn = false
	for _, b := range g.titleButtons {
		b.fadeIn()
	}
	g.mode = modeTitle
}

func (g *Game) Update() error {
	if g.quitting {
		return ebiten.Termination
	}

	mx, my := ebiten.CursorPosition()
	click := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch g.mode {
	case modeSplash:
		if g.advanceSplash(click) {
			for _, b := range g.titleButtons {
				b.fadeIn()
			}
			g.mode = modeTitle
		}
	case modeTitle:
		if !g.titleMusicOn {
			if err := g.audio.PlayMusic("title"); err != nil {
				logDebug("title music: %v", err)
			}
			g.titleMusicOn = true
		}
		g.updateButtons(g.titleButtons, mx, my, click)
	case modeConfig:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.leaveConfig()
			break
		}
		for _, s := range g.configSliders {
			s.update(mx, my, pressed)
		}
		g.updateButtons(g.configButtons, mx, my, click)
		g.demoReveal += gs.TextSpeed
	case modeSave, modeLoad:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.mode = g.prevMode
			break
		}
		g.updateButtons(g.slotButtons, mx, my, click)
	case modeGame:
		return g.updateGame(mx, my, click)
	}
	return nil
}

// advanceSplash walks the logo alpha up to opaque and back down,
// reporting true once the splash is spent. A click skips ahead, but
// never before the asset precache has finished.
func (g *Game) advanceSplash(skip bool) bool {
	if gs.PrecacheAssets && !assetsPrecached {
		return false
	}
	if skip {
		return true
	}
	if !g.splashOut {
		g.splashAlpha += splashFadeStep
		if g.splashAlpha >= 255 {
			g.splashAlpha = 255
			g.splashOut = true
		}
		return false
	}
	g.splashAlpha -= splashFadeStep
	if g.splashAlpha <= 0 {
		g.splashAlpha = 0
		return true
	}
	return false
}

func (g *Game) updateButtons(buttons []*Button, mx, my int, click bool) {
	for _, b := range buttons {
		b.update(mx, my)
		if click && b.hovered && b.Action != nil {
			b.Action()
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch g.mode {
	case modeSplash:
		g.drawSplash(screen)
	case modeTitle:
		g.drawTitle(screen)
	case modeConfig:
		g.drawConfig(screen)
	case modeSave, modeLoad:
		g.drawSlots(screen)
	case modeGame:
		g.drawGame(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}
