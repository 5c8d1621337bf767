package main

import (
	"path/filepath"
	"testing"
)

func TestAnchorPositions(t *testing.T) {
	const w, h = 100, 50
	cases := []struct {
		anchor string
		x, y   int
	}{
		{"topleft", 0, 0},
		{"midtop", (screenW - w) / 2, 0},
		{"topright", screenW - w, 0},
		{"midleft", 0, (screenH - h) / 2},
		{"center", (screenW - w) / 2, (screenH - h) / 2},
		{"midright", screenW - w, (screenH - h) / 2},
		{"bottomleft", 0, screenH - h},
		{"midbottom", (screenW - w) / 2, screenH - h},
		{"bottomright", screenW - w, screenH - h},
	}
	for _, c := range cases {
		x, y := anchorPos(c.anchor, w, h)
		if x != c.x || y != c.y {
			t.Errorf("anchorPos(%q) = %d,%d want %d,%d", c.anchor, x, y, c.x, c.y)
		}
	}
	// Unknown names land in the center rather than failing.
	x, y := anchorPos("bogus", w, h)
	if x != (screenW-w)/2 || y != (screenH-h)/2 {
		t.Errorf("fallback anchor = %d,%d", x, y)
	}
}

func TestButtonContains(t *testing.T) {
	b := &Button{X: 100, Y: 100, W: 40, H: 20}
	if !b.contains(100, 100) || !b.contains(80, 90) || !b.contains(120, 110) {
		t.Errorf("points inside rejected")
	}
	if b.contains(79, 100) || b.contains(100, 111) {
		t.Errorf("points outside accepted")
	}
}

func TestButtonFadeIn(t *testing.T) {
	b := &Button{alpha: 255}
	b.fadeIn()
	if b.alpha != 0 {
		t.Fatalf("alpha after fadeIn = %d, want 0", b.alpha)
	}
	b.stepFade()
	if b.alpha != buttonFadeStep {
		t.Errorf("alpha after one step = %d, want %d", b.alpha, buttonFadeStep)
	}
	for i := 0; i < 30; i++ {
		b.stepFade()
	}
	if b.alpha != 255 {
		t.Errorf("alpha did not clamp at opaque, got %d", b.alpha)
	}
}

func TestSplashFadesInThenOut(t *testing.T) {
	oldPrecache := gs.PrecacheAssets
	gs.PrecacheAssets = false
	defer func() { gs.PrecacheAssets = oldPrecache }()

	g := &Game{}
	ticks := 0
	peaked := false
	for !g.advanceSplash(false) {
		if g.splashAlpha == 255 {
			peaked = true
		}
		if ticks++; ticks > 1000 {
			t.Fatalf("splash never finished")
		}
	}
	if !peaked {
		t.Errorf("splash never reached full opacity")
	}
	if g.splashAlpha != 0 {
		t.Errorf("final alpha = %d, want 0", g.splashAlpha)
	}
	// 255 up at 5/tick, then 255 back down.
	if want := 2 * (255/splashFadeStep + 1); ticks > want+2 {
		t.Errorf("splash took %d ticks, want about %d", ticks, want)
	}
}

func TestSplashSkipWaitsForPrecache(t *testing.T) {
	oldPrecache := gs.PrecacheAssets
	oldDone := assetsPrecached
	gs.PrecacheAssets = true
	assetsPrecached = false
	defer func() {
		gs.PrecacheAssets = oldPrecache
		assetsPrecached = oldDone
	}()

	g := &Game{}
	if g.advanceSplash(true) {
		t.Fatalf("splash skipped before precache finished")
	}
	assetsPrecached = true
	if !g.advanceSplash(true) {
		t.Errorf("click did not skip the splash once precache finished")
	}
}

type stubImage struct{ w, h int }

func (s stubImage) Size() (int, int) { return s.w, s.h }

func TestSpritePos(t *testing.T) {
	x, y := spritePos(4, stubImage{w: 300, h: 600})
	if x != 4*screenW/16 {
		t.Errorf("x = %d, want %d", x, 4*screenW/16)
	}
	if y != screenH-600 {
		t.Errorf("y = %d, want %d", y, screenH-600)
	}
}

func TestSavePathNumbering(t *testing.T) {
	oldData := dataDir
	dataDir = filepath.Join("tmp", "data")
	defer func() { dataDir = oldData }()
	want := filepath.Join("tmp", "data", "saves", "007.sav")
	if got := savePath(7); got != want {
		t.Errorf("savePath(7) = %q, want %q", got, want)
	}
}
