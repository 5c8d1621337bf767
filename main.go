package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sqweek/dialog"

	"novella/scene"
)

const screenW, screenH = 1280, 720

var (
	baseDir   string
	dataDir   string
	debugMode bool
)

func main() {
	flag.BoolVar(&debugMode, "debug", false, "verbose/debug logging")
	startScene := flag.String("scene", "", "skip the title screen and play the named scene")
	flag.Parse()

	baseDir = os.Getenv("PWD")
	if baseDir == "" {
		var err error
		if baseDir, err = os.Getwd(); err != nil {
			log.Fatalf("get working directory: %v", err)
		}
	}
	dataDir = filepath.Join(baseDir, "data")

	loadSettings()
	setupLogging(debugMode)
	initSoundContext()
	applySettings()
	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v\n%s", r, debug.Stack())
		}
	}()

	if gs.PrecacheAssets {
		go precacheAssets()
	}

	g := newGame(*startScene)
	ebiten.SetWindowTitle(gs.Caption)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(g); err != nil {
		var se *scene.ScriptError
		if errors.As(err, &se) {
			logError("%v", se)
			dialog.Message("%v", se).Title("Script Error").Error()
			os.Exit(1)
		}
		log.Fatalf("run: %v", err)
	}
	saveSettings()
}
