package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

type Settings struct {
	Caption          string  `json:"caption"`
	Fullscreen       bool    `json:"fullscreen"`
	Vsync            bool    `json:"vsync"`
	Linear           bool    `json:"linear"`
	MusicVolume      float64 `json:"musicVolume"`
	SoundVolume      float64 `json:"soundVolume"`
	TextSpeed        int     `json:"textSpeed"`
	AutoPause        int     `json:"autoPause"`
	FontName         string  `json:"fontName"`
	DialogueFontSize float64 `json:"dialogueFontSize"`
	NameFontSize     float64 `json:"nameFontSize"`
	ButtonFontSize   float64 `json:"buttonFontSize"`
	WidgetFontSize   float64 `json:"widgetFontSize"`
	RootScene        string  `json:"rootScene"`
	SaveCols         int     `json:"saveCols"`
	SaveRows         int     `json:"saveRows"`
	PrecacheAssets   bool    `json:"precacheAssets"`
}

var gs = Settings{
	Caption:          "Novella",
	Vsync:            true,
	MusicVolume:      0.6,
	SoundVolume:      0.8,
	TextSpeed:        12,
	AutoPause:        60,
	FontName:         "main.ttf",
	DialogueFontSize: 22,
	NameFontSize:     24,
	ButtonFontSize:   20,
	WidgetFontSize:   16,
	RootScene:        "start",
	SaveCols:         4,
	SaveRows:         2,
}

func loadSettings() bool {
	path := filepath.Join(baseDir, "settings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, &gs); err != nil {
		logError("settings.json: %v", err)
		return false
	}
	if gs.TextSpeed <= 0 {
		gs.TextSpeed = 12
	}
	if gs.AutoPause <= 0 {
		gs.AutoPause = 60
	}
	if gs.SaveCols <= 0 {
		gs.SaveCols = 4
	}
	if gs.SaveRows <= 0 {
		gs.SaveRows = 2
	}
	return true
}

func applySettings() {
	if gs.Linear {
		drawFilter = ebiten.FilterLinear
	} else {
		drawFilter = ebiten.FilterNearest
	}
	ebiten.SetVsyncEnabled(gs.Vsync)
	ebiten.SetFullscreen(gs.Fullscreen)
	ebiten.SetWindowSize(screenW, screenH)
	initFont()
	applyVolumes()
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		log.Printf("save settings: %v", err)
		return
	}
	path := filepath.Join(baseDir, "settings.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("save settings: %v", err)
	}
}
