package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DocExt is the scene script file extension.
const DocExt = ".vns"

// Document is one loaded scene script. The line slice is never mutated
// after load; the active session only moves a cursor over it.
type Document struct {
	Name  string
	Lines []string
}

// LoadDocument reads dir/name.vns and splits it into lines. Script files
// are usually plain UTF-8, but authors on some platforms hand us files
// with a UTF-8 BOM or full UTF-16; the BOM override decoder normalizes
// all of those before splitting.
func LoadDocument(dir, name string) (*Document, error) {
	raw, err := os.ReadFile(filepath.Join(dir, name+DocExt))
	if err != nil {
		return nil, fmt.Errorf("scene file '%s%s' does not exist", name, DocExt)
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.String(dec, string(raw))
	if err != nil {
		return nil, fmt.Errorf("scene file '%s%s': %v", name, DocExt, err)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &Document{Name: name, Lines: strings.Split(text, "\n")}, nil
}

// Kind tags a parsed script line. Unrecognized non-empty lines outside
// any open block are KindRaw and execute as deliberate no-ops.
type Kind int

const (
	KindBlank Kind = iota
	KindForceQuit
	KindLoad
	KindText
	KindWait
	KindShake
	KindChoice
	KindOption
	KindBranch
	KindSetAnchor
	KindSceneIn
	KindSceneOut
	KindMusic
	KindSound
	KindSetFade
	KindHide
	KindShow
	KindSwap
	KindWidget
	KindSetVar
	KindIf
	KindRaw
)

// Arg is one parameter from a .name(...) list. Key is empty for
// positional parameters.
type Arg struct {
	Key, Val string
}

// Directive is the transient parse of a single script line. It is
// rebuilt every frame from the current line and never stored.
type Directive struct {
	Kind    Kind
	Args    []Arg
	HasArgs bool // a '(' was present, even if the list was empty
	Text    string
}

// stripComment removes everything from the first '#' on and trims the
// surrounding whitespace, matching how scene authors write comments.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// splitArgs breaks the parenthesized parameter list of a directive into
// ordered args. Nested parentheses are not part of the language; every
// ')' is simply discarded.
func splitArgs(line string) (args []Arg, hasParen bool) {
	i := strings.IndexByte(line, '(')
	if i < 0 {
		return nil, false
	}
	body := strings.ReplaceAll(line[i+1:], ")", "")
	if strings.TrimSpace(body) == "" {
		return nil, true
	}
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if k, v, ok := strings.Cut(part, "="); ok {
			args = append(args, Arg{Key: strings.TrimSpace(k), Val: strings.TrimSpace(v)})
		} else {
			args = append(args, Arg{Val: part})
		}
	}
	return args, true
}

// parseLine classifies one raw script line. choiceOpen widens the
// grammar to accept numbered option entries; textOpen keeps blank lines
// inside a dialogue block from reading as comments.
func parseLine(raw string, textOpen, choiceOpen bool) Directive {
	line := stripComment(raw)

	if line == "" && !textOpen {
		return Directive{Kind: KindBlank}
	}

	kind := KindRaw
	switch {
	case strings.HasPrefix(line, ".forcequit"):
		kind = KindForceQuit
	case strings.HasPrefix(line, ".load"):
		kind = KindLoad
	case strings.HasPrefix(line, ".text"):
		kind = KindText
	case strings.HasPrefix(line, ".wait"):
		kind = KindWait
	case strings.HasPrefix(line, ".shake"):
		kind = KindShake
	case strings.HasPrefix(line, ".choice"):
		kind = KindChoice
	case len(line) >= 2 && line[0] >= '0' && line[0] <= '9' && choiceOpen:
		kind = KindOption
	case strings.HasPrefix(line, ".branch"):
		kind = KindBranch
	case strings.HasPrefix(line, ".setanchor"):
		kind = KindSetAnchor
	case strings.HasPrefix(line, ".scenein"):
		kind = KindSceneIn
	case strings.HasPrefix(line, ".sceneout"):
		kind = KindSceneOut
	case strings.HasPrefix(line, ".music"):
		kind = KindMusic
	case strings.HasPrefix(line, ".sound"):
		kind = KindSound
	case strings.HasPrefix(line, ".setfade"):
		kind = KindSetFade
	case strings.HasPrefix(line, ".hide"):
		kind = KindHide
	case strings.HasPrefix(line, ".show"):
		kind = KindShow
	case strings.HasPrefix(line, ".swap"):
		kind = KindSwap
	case strings.HasPrefix(line, ".widget"):
		kind = KindWidget
	case strings.HasPrefix(line, "$"):
		kind = KindSetVar
	case strings.HasPrefix(line, ".if"):
		kind = KindIf
	}

	d := Directive{Kind: kind, Text: line}
	switch kind {
	case KindLoad, KindText, KindWait, KindShake, KindSceneIn, KindSceneOut,
		KindMusic, KindSound, KindSetFade, KindSwap, KindWidget, KindSetAnchor:
		d.Args, d.HasArgs = splitArgs(line)
	}
	return d
}

// anchorNames is the fixed set of screen anchoring positions the
// language accepts.
var anchorNames = map[string]bool{
	"topleft": true, "midtop": true, "topright": true,
	"midleft": true, "center": true, "midright": true,
	"bottomleft": true, "midbottom": true, "bottomright": true,
}

// ValidAnchor reports whether name is one of the nine anchor positions.
func ValidAnchor(name string) bool { return anchorNames[name] }

// isBareBranch matches a `.branch:` line with no label, the landing
// point for option-branch seeking. Deliberately operates on the raw
// line the same way seeking always has: no comment stripping here.
func isBareBranch(raw string) bool {
	if !strings.HasPrefix(strings.TrimSpace(raw), ".branch") {
		return false
	}
	t := strings.TrimSpace(strings.ReplaceAll(raw, ":", ""))
	return len(strings.Fields(t)) == 1
}

// isIfLine matches any `.if` line, the landing point for variable-branch
// seeking.
func isIfLine(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), ".if")
}

// isDigits reports whether s is a non-empty run of ASCII digits. The
// language has no negative literals; a leading '-' makes the token a
// (probably nonexistent) variable name instead.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
