package scene

import "testing"

func TestStripComment(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  .wait(5)  # half a second", ".wait(5)"},
		{"# whole line", ""},
		{"plain dialogue", "plain dialogue"},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := stripComment(c.in); got != c.want {
			t.Errorf("stripComment(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	args, has := splitArgs(".text(char=0, sub=2, name=Mia, skip)")
	if !has {
		t.Fatalf("paren not detected")
	}
	if len(args) != 4 {
		t.Fatalf("got %d args, want 4", len(args))
	}
	if args[0].Key != "char" || args[0].Val != "0" {
		t.Errorf("arg 0 = %+v", args[0])
	}
	if args[3].Key != "" || args[3].Val != "skip" {
		t.Errorf("arg 3 = %+v", args[3])
	}

	args, has = splitArgs(".shake()")
	if !has || args != nil {
		t.Errorf("empty list: args=%v has=%v", args, has)
	}

	args, has = splitArgs(".hide")
	if has || args != nil {
		t.Errorf("no paren: args=%v has=%v", args, has)
	}
}

func TestParseLineKinds(t *testing.T) {
	cases := []struct {
		line       string
		textOpen   bool
		choiceOpen bool
		want       Kind
	}{
		{"", false, false, KindBlank},
		{"", true, false, KindRaw},
		{".forcequit", false, false, KindForceQuit},
		{".load(girl, 0)", false, false, KindLoad},
		{".text(name=Mia)", false, false, KindText},
		{".wait(30)", false, false, KindWait},
		{".shake(2, 2)", false, false, KindShake},
		{".choice", false, false, KindChoice},
		{"0: Stay silent", false, true, KindOption},
		{"0: Stay silent", false, false, KindRaw},
		{".branch 0:", false, false, KindBranch},
		{".setanchor(center)", false, false, KindSetAnchor},
		{".scenein(bg, hall, fade)", false, false, KindSceneIn},
		{".sceneout(fade)", false, false, KindSceneOut},
		{".music(theme)", false, false, KindMusic},
		{".sound(door)", false, false, KindSound},
		{".setfade(10)", false, false, KindSetFade},
		{".hide", false, false, KindHide},
		{".show", false, false, KindShow},
		{".swap(chapter2)", false, false, KindSwap},
		{".widget(Day 1, topleft)", false, false, KindWidget},
		{"$aa += 2", false, false, KindSetVar},
		{".if $aa > 3:", false, false, KindIf},
		{"Just a dialogue line.", true, false, KindRaw},
	}
	for _, c := range cases {
		d := parseLine(c.line, c.textOpen, c.choiceOpen)
		if d.Kind != c.want {
			t.Errorf("parseLine(%q, text=%v, choice=%v) kind = %d, want %d",
				c.line, c.textOpen, c.choiceOpen, d.Kind, c.want)
		}
	}
}

func TestBareBranchDetection(t *testing.T) {
	if !isBareBranch(".branch:") {
		t.Errorf(".branch: not recognized")
	}
	if !isBareBranch("  .branch  ") {
		t.Errorf("indented bare .branch not recognized")
	}
	if isBareBranch(".branch 2:") {
		t.Errorf("labeled branch treated as bare")
	}
	if isBareBranch("dialogue about a branch") {
		t.Errorf("plain text treated as branch")
	}
}

func TestIsDigits(t *testing.T) {
	if !isDigits("042") {
		t.Errorf("042 rejected")
	}
	if isDigits("-5") {
		t.Errorf("negative accepted; the language has no negative literals")
	}
	if isDigits("") || isDigits("a1") {
		t.Errorf("non-numeric accepted")
	}
}

func TestValidAnchor(t *testing.T) {
	for _, name := range []string{"topleft", "midtop", "topright", "midleft",
		"center", "midright", "bottomleft", "midbottom", "bottomright"} {
		if !ValidAnchor(name) {
			t.Errorf("anchor %q rejected", name)
		}
	}
	if ValidAnchor("middle") {
		t.Errorf("unknown anchor accepted")
	}
}
