package scene

import (
	"fmt"
	"testing"
)

type fakeImage struct{ w, h int }

func (f fakeImage) Size() (int, int) { return f.w, f.h }

type fakeAssets struct {
	folders map[string]int // folder name -> image count
	images  map[string]bool
}

func (f *fakeAssets) LoadImage(folder, file string) (Image, error) {
	if f.images != nil && !f.images[folder+"/"+file] {
		return nil, fmt.Errorf("no such image %s/%s", folder, file)
	}
	return fakeImage{1280, 720}, nil
}

func (f *fakeAssets) LoadFolder(folder string) ([]Image, error) {
	n, ok := f.folders[folder]
	if !ok {
		return nil, fmt.Errorf("no such folder %s", folder)
	}
	images := make([]Image, n)
	for i := range images {
		images[i] = fakeImage{400, 600}
	}
	return images, nil
}

type fakeAudio struct {
	music   []string
	sounds  []string
	stopped int
}

func (f *fakeAudio) PlayMusic(name string) error {
	f.music = append(f.music, name)
	return nil
}
func (f *fakeAudio) StopMusic() { f.stopped++ }
func (f *fakeAudio) PlaySound(name string) error {
	f.sounds = append(f.sounds, name)
	return nil
}
func (f *fakeAudio) StopSound() {}

type fakeMeasure struct{}

func (fakeMeasure) Width(s string) int { return len(s) * 8 }

func testConfig() Config {
	return Config{ScreenW: 1280, ScreenH: 720, ChoiceStride: 60, ScrollSpeed: 200, AutoPause: 60}
}

func newTestSession(t *testing.T, docs map[string][]string, start string) (*Session, *fakeAssets, *fakeAudio) {
	t.Helper()
	assets := &fakeAssets{folders: map[string]int{"girl": 3, "boy": 2}}
	audio := &fakeAudio{}
	loadDoc := func(name string) (*Document, error) {
		lines, ok := docs[name]
		if !ok {
			return nil, fmt.Errorf("scene file '%s%s' does not exist", name, DocExt)
		}
		return &Document{Name: name, Lines: lines}, nil
	}
	s := NewSession(testConfig(), assets, audio, fakeMeasure{}, loadDoc)
	if err := s.Start(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s, assets, audio
}

func step(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
}

// advancePage plays the player clicking through a blocked .text close:
// one click to finish the reveal, one to advance.
func advancePage(t *testing.T, s *Session) {
	t.Helper()
	s.Next()
	s.Next()
	step(t, s)
}

func TestWaitBlocksExactly(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {".wait(3)", ".forcequit"},
	}, "a")
	for i := 0; i < 3; i++ {
		step(t, s)
		if s.Index() != 0 {
			t.Fatalf("tick %d: cursor advanced early to %d", i+1, s.Index())
		}
	}
	step(t, s)
	if s.Index() != 1 {
		t.Fatalf("cursor did not advance after wait, index=%d", s.Index())
	}
}

func TestVariableScript(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {"$aa = 5", "$aa += 3", "$aa -= 1", "$ab = $aa", ".forcequit"},
	}, "a")
	for i := 0; i < 5; i++ {
		step(t, s)
	}
	if v, _ := s.Vars.Get("$aa"); v != 7 {
		t.Fatalf("$aa = %d, want 7", v)
	}
	if v, _ := s.Vars.Get("$ab"); v != 7 {
		t.Fatalf("$ab = %d, want 7", v)
	}
	if !s.Done() {
		t.Fatalf("scene not finished")
	}
}

func TestUnknownVariableFatal(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {"$zz = $qq1"},
	}, "a")
	err := s.Step()
	if err == nil {
		t.Fatalf("expected script error")
	}
	se, ok := err.(*ScriptError)
	if !ok {
		t.Fatalf("error type %T, want *ScriptError", err)
	}
	if se.Line != 1 {
		t.Fatalf("error line %d, want 1", se.Line)
	}
}

func TestBareVariableLineIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {"$aa", ".forcequit"},
	}, "a")
	step(t, s)
	if s.Index() != 1 {
		t.Fatalf("bare variable line did not advance, index=%d", s.Index())
	}
}

func TestUnknownLineIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {"this is not a directive", ".forcequit"},
	}, "a")
	step(t, s)
	if s.Index() != 1 {
		t.Fatalf("unknown line did not advance, index=%d", s.Index())
	}
	step(t, s)
	if !s.Done() {
		t.Fatalf("scene not finished")
	}
}

func TestDialogueEndToEnd(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {".text(name=Alice)", "Hello", ".text", ".forcequit"},
	}, "a")

	step(t, s)
	page := s.Dlg.Current()
	if page == nil || page.Speaker != "Alice" {
		t.Fatalf("page not opened for Alice: %+v", page)
	}
	step(t, s)
	if len(page.Lines) != 1 || page.Lines[0].Text != "Hello" {
		t.Fatalf("dialogue line not appended: %+v", page.Lines)
	}

	// The closing .text blocks until the player clicks through.
	for i := 0; i < 5; i++ {
		step(t, s)
	}
	if s.Index() != 2 {
		t.Fatalf("closing .text did not block, index=%d", s.Index())
	}

	advancePage(t, s)
	if s.Index() != 3 {
		t.Fatalf("advance did not release the page, index=%d", s.Index())
	}
}

func TestChoiceResolvesToPickedBranch(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {
			".choice",
			"0: Say yes",
			"1: Say no",
			".choice",
			".branch 0:",
			"$aa = 1",
			".branch:",
			".branch 1:",
			"$ab = 1",
			".branch:",
			".forcequit",
		},
	}, "a")

	for i := 0; i < 4; i++ {
		step(t, s)
	}
	if s.State != StateChoose {
		t.Fatalf("state = %d, want choose", s.State)
	}
	if len(s.Opts.Options) != 2 || s.Opts.Options[1].Prompt != "Say no" {
		t.Fatalf("options not collected: %+v", s.Opts.Options)
	}

	s.Pick(1)
	for i := 0; i < 10 && !s.Done(); i++ {
		step(t, s)
	}
	if v, _ := s.Vars.Get("$aa"); v != 0 {
		t.Fatalf("branch 0 was taken, $aa = %d", v)
	}
	if v, _ := s.Vars.Get("$ab"); v != 1 {
		t.Fatalf("branch 1 was not taken, $ab = %d", v)
	}
}

func TestConditionalBranching(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {
			"$aa = 5",
			".if $aa == 5:",
			"$ab = 1",
			".if",
			".if $aa > 9:",
			"$ac = 1",
			".if",
			"$ad = 1",
			".forcequit",
		},
	}, "a")
	for i := 0; i < 12 && !s.Done(); i++ {
		step(t, s)
	}
	if v, _ := s.Vars.Get("$ab"); v != 1 {
		t.Fatalf("true conditional skipped, $ab = %d", v)
	}
	if v, _ := s.Vars.Get("$ac"); v != 0 {
		t.Fatalf("false conditional executed, $ac = %d", v)
	}
	if v, _ := s.Vars.Get("$ad"); v != 1 {
		t.Fatalf("code after conditional skipped, $ad = %d", v)
	}
}

func TestSwapContinuesInNewScene(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {"$aa = 1", ".swap(b)", "$ab = 1"},
		"b": {"$ac = 9", ".forcequit"},
	}, "a")
	for i := 0; i < 5 && !s.Done(); i++ {
		step(t, s)
	}
	if v, _ := s.Vars.Get("$aa"); v != 1 {
		t.Fatalf("state reset across swap, $aa = %d", v)
	}
	if v, _ := s.Vars.Get("$ab"); v != 0 {
		t.Fatalf("old scene continued past swap, $ab = %d", v)
	}
	if v, _ := s.Vars.Get("$ac"); v != 9 {
		t.Fatalf("new scene first line skipped, $ac = %d", v)
	}
}

func TestSwapMissingSceneFatal(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {".swap(nowhere)"},
	}, "a")
	if err := s.Step(); err == nil {
		t.Fatalf("expected script error for missing scene")
	}
}

func TestSceneInFadeBlocksUntilDone(t *testing.T) {
	s, assets, _ := newTestSession(t, map[string][]string{
		"a": {".setfade(51)", ".scenein(bg, street, fade)", ".forcequit"},
	}, "a")
	assets.images = map[string]bool{"bg/street": true}

	step(t, s)
	// 51/tick takes 5 ticks to reach 255, plus one to notice and reset.
	for i := 0; i < 5; i++ {
		step(t, s)
		if s.Index() != 1 {
			t.Fatalf("fade resolved early on tick %d", i+1)
		}
	}
	step(t, s)
	if s.Index() != 2 {
		t.Fatalf("fade did not resolve, index=%d", s.Index())
	}
	folder, file := s.Background()
	if folder != "bg" || file != "street" {
		t.Fatalf("background identity = %s, %s", folder, file)
	}
}

func TestSceneInFadeIgnoresScaleExtras(t *testing.T) {
	s, assets, _ := newTestSession(t, map[string][]string{
		"a": {".setfade(51)", ".scenein(bg, street, fade, 3.0, 2.0, fast)", ".forcequit"},
	}, "a")
	assets.images = map[string]bool{"bg/street": true}

	step(t, s)
	for s.Index() < 2 {
		step(t, s)
	}
	if s.Trans.ZoomScale != 1.0 || s.Trans.TargetScale != 1.0 {
		t.Fatalf("plain fade absorbed zoom factors: scale=%v target=%v",
			s.Trans.ZoomScale, s.Trans.TargetScale)
	}
	if got := s.BGScale(); got != 1.0 {
		t.Fatalf("background scale = %v, want 1.0", got)
	}
}

func TestSceneInZoomScaleMustBeFloat(t *testing.T) {
	s, assets, _ := newTestSession(t, map[string][]string{
		"a": {".scenein(bg, street, zoomin, fast)"},
	}, "a")
	assets.images = map[string]bool{"bg/street": true}
	if err := s.Step(); err == nil {
		t.Fatalf("expected script error for non-float scaling factor")
	}
}

func TestSceneInMissingImageFatal(t *testing.T) {
	s, assets, _ := newTestSession(t, map[string][]string{
		"a": {".scenein(bg, nowhere)"},
	}, "a")
	assets.images = map[string]bool{}
	if err := s.Step(); err == nil {
		t.Fatalf("expected script error for missing background")
	}
}

func TestSetAnchorRejectsUnknownName(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {".setanchor(nowhere)"},
	}, "a")
	err := s.Step()
	se, ok := err.(*ScriptError)
	if !ok {
		t.Fatalf("error = %v, want *ScriptError", err)
	}
	if se.Scene != "a" || se.Line != 1 {
		t.Fatalf("error location %s:%d, want a:1", se.Scene, se.Line)
	}
}

func TestCharacterLoadAndShow(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {
			".load(girl, 0)",
			".text(char=0, sub=1, pos=4, name=Mia)",
			"Hi there",
			".text",
			".forcequit",
		},
	}, "a")
	step(t, s)
	if len(s.Chars.Banks[0]) != 3 {
		t.Fatalf("bank 0 has %d images, want 3", len(s.Chars.Banks[0]))
	}
	step(t, s)
	if len(s.Chars.List) != 1 {
		t.Fatalf("character not shown, list=%d", len(s.Chars.List))
	}
	c := s.Chars.List[0]
	if c.Emotion != 1 || c.Slot != 4 || c.Name != "Mia" {
		t.Fatalf("character fields wrong: %+v", c)
	}
}

func TestRepeatedSpeakerDoesNotStackSprites(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {
			".load(girl, 0)",
			".text(char=0, sub=1, pos=4, name=Mia)",
			"First",
			".text",
			".text(char=0, sub=1, pos=4, name=Mia)",
			"Second",
			".text",
			".forcequit",
		},
	}, "a")
	step(t, s)
	step(t, s)
	step(t, s)
	step(t, s) // blocked on first close
	advancePage(t, s)
	step(t, s) // second open
	if len(s.Chars.List) != 1 {
		t.Fatalf("identical speaker pushed a duplicate sprite, list=%d", len(s.Chars.List))
	}
}

func TestLoadClearFadesOut(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {
			".load(girl, 0)",
			".text(char=0, sub=0, pos=4, name=Mia)",
			"Hi",
			".text",
			".load(-1)",
			".forcequit",
		},
	}, "a")
	for i := 0; i < 4; i++ {
		step(t, s)
	}
	advancePage(t, s)
	// Sprite is at full alpha; the clear fades it by 24 a tick.
	for i := 0; i < 30 && s.Index() == 4; i++ {
		step(t, s)
	}
	if s.Index() != 5 {
		t.Fatalf("clear never resolved, index=%d", s.Index())
	}
	if len(s.Chars.List) != 0 {
		t.Fatalf("characters remain after clear: %d", len(s.Chars.List))
	}
}

func TestShakeToggle(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {".shake(4, 6)", ".shake", ".forcequit"},
	}, "a")
	step(t, s)
	if !s.Shaking || s.ShakeX != 4 || s.ShakeY != 6 {
		t.Fatalf("shake not set: %v %d %d", s.Shaking, s.ShakeX, s.ShakeY)
	}
	step(t, s)
	if s.Shaking {
		t.Fatalf("bare .shake did not stop shaking")
	}
}

func TestHideShowWalkAlpha(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {".hide", ".show", ".forcequit"},
	}, "a")
	for i := 0; i < 40 && s.Index() == 0; i++ {
		step(t, s)
	}
	if s.Index() != 1 {
		t.Fatalf(".hide never resolved")
	}
	if s.HideAlpha != 0 {
		t.Fatalf("alpha after .hide = %d, want 0", s.HideAlpha)
	}
	for i := 0; i < 40 && s.Index() == 1; i++ {
		step(t, s)
	}
	if s.HideAlpha != 255 {
		t.Fatalf("alpha after .show = %d, want 255", s.HideAlpha)
	}
}

func TestMusicAndSound(t *testing.T) {
	s, _, audio := newTestSession(t, map[string][]string{
		"a": {".music(theme)", ".sound(ding)", ".music()", ".forcequit"},
	}, "a")
	for i := 0; i < 4; i++ {
		step(t, s)
	}
	if len(audio.music) != 1 || audio.music[0] != "theme" {
		t.Fatalf("music plays = %v", audio.music)
	}
	if len(audio.sounds) != 1 || audio.sounds[0] != "ding" {
		t.Fatalf("sound plays = %v", audio.sounds)
	}
	if audio.stopped != 1 {
		t.Fatalf("music stops = %d, want 1", audio.stopped)
	}
}

func TestSkipSuppressesSounds(t *testing.T) {
	s, _, audio := newTestSession(t, map[string][]string{
		"a": {".sound(ding)", ".forcequit"},
	}, "a")
	s.ToggleSkip()
	step(t, s)
	if len(audio.sounds) != 0 {
		t.Fatalf("sound played during skip: %v", audio.sounds)
	}
}

func TestSkipAndAutoAreExclusive(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{"a": {".forcequit"}}, "a")
	s.ToggleSkip()
	s.ToggleAuto()
	if s.Auto {
		t.Fatalf("auto enabled while skipping")
	}
	s.ToggleSkip()
	s.ToggleAuto()
	if !s.Auto || s.Skip {
		t.Fatalf("auto did not enable after skip cleared")
	}
}

func TestAutoAdvancesAfterPause(t *testing.T) {
	docs := map[string][]string{
		"a": {".text(name=A)", "Hi", ".text", ".forcequit"},
	}
	s, _, _ := newTestSession(t, docs, "a")
	s.ToggleAuto()
	for i := 0; i < 200 && !s.Done(); i++ {
		step(t, s)
	}
	if !s.Done() {
		t.Fatalf("auto mode never advanced past the page")
	}
}

func TestWidgetUpdatesAndValidates(t *testing.T) {
	s, _, _ := newTestSession(t, map[string][]string{
		"a": {".widget(Day 3 - Morning, topleft)", ".forcequit"},
	}, "a")
	step(t, s)
	if s.WidgetText != "Day 3 - Morning" || s.WidgetAnchor != "topleft" {
		t.Fatalf("widget = %q at %q", s.WidgetText, s.WidgetAnchor)
	}

	s2, _, _ := newTestSession(t, map[string][]string{
		"a": {".widget(Day 3, sideways)"},
	}, "a")
	if err := s2.Step(); err == nil {
		t.Fatalf("expected error for unknown widget anchor")
	}
}
