package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"

	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	dialogueFace text.Face
	nameFace     text.Face
	buttonFace   text.Face
	widgetFace   text.Face
)

func initFont() {
	data, err := os.ReadFile(filepath.Join(dataDir, "fonts", gs.FontName))
	if err != nil {
		logDebug("font %s not found, using built-in fallback", gs.FontName)
		data = goregular.TTF
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("failed to parse font: %v", err)
	}
	dialogueFace = &text.GoTextFace{Source: src, Size: gs.DialogueFontSize}
	nameFace = &text.GoTextFace{Source: src, Size: gs.NameFontSize}
	buttonFace = &text.GoTextFace{Source: src, Size: gs.ButtonFontSize}
	widgetFace = &text.GoTextFace{Source: src, Size: gs.WidgetFontSize}
}

// faceMeasure feeds rendered dialogue widths to the scroll reveal.
type faceMeasure struct{}

func (faceMeasure) Width(s string) int {
	w, _ := text.Measure(s, dialogueFace, 0)
	return int(w)
}
