package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// SavedPage is one transcript entry in a save record.
type SavedPage struct {
	Speaker string
	Lines   []string
}

// SavedLoad is one recorded `.load` so the codec can rebuild character
// banks without rescanning the script.
type SavedLoad struct {
	Folder string
	Bank   int
}

// SavedDraw is one on-screen character instance at save time.
type SavedDraw struct {
	Bank    int
	Emotion int
	Slot    int
	Name    string
}

// SaveData is a decoded save record. Everything an interpreter needs to
// resume is here; SlotX/SlotY and Stamp are presentation-layer fields
// the slot screens append and read back.
type SaveData struct {
	Pages    []SavedPage
	Scene    string
	Index    int
	BGFolder string
	BGFile   string
	MaxIndex int
	Widget   string
	Vars     []VarValue
	Music    string
	ShakeX   int
	ShakeY   int
	Shaking  bool
	Loads    []SavedLoad
	Draws    []SavedDraw

	SlotX, SlotY int
	Stamp        string
}

// savePoint walks the cursor backward to the `.text` that opened the
// current dialogue page, so a load resumes by replaying that page.
func (s *Session) savePoint() int {
	idx := s.index
	found := 0
	for idx > 0 {
		if strings.HasPrefix(strings.TrimSpace(s.doc.Lines[idx]), ".text") {
			found++
			if found == 2 {
				break
			}
		}
		idx--
	}
	return idx
}

// lastDirectiveArgs walks backward from the cursor to the most recent
// line with the given prefix and returns its raw argument body, with ok
// false when no such line precedes the cursor.
func (s *Session) lastDirectiveArgs(prefix string) (string, bool) {
	idx := s.index
	for idx > 0 && !strings.HasPrefix(strings.TrimSpace(s.doc.Lines[idx]), prefix) {
		idx--
	}
	line := strings.TrimSpace(s.doc.Lines[idx])
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	line = stripComment(line)
	i := strings.IndexByte(line, '(')
	if i < 0 {
		return "", false
	}
	body := strings.TrimSpace(strings.ReplaceAll(line[i+1:], ")", ""))
	return body, true
}

// EncodeSave serializes the session into the line-oriented save format.
// The slot position and timestamp lines are the caller's to append; the
// codec itself is presentation-free.
func (s *Session) EncodeSave() string {
	var b strings.Builder

	b.WriteString("begin\n")
	for _, p := range s.Dlg.Pages {
		fmt.Fprintf(&b, "name: %s\n", strings.TrimRight(p.Speaker, " "))
		for _, ln := range p.Lines {
			b.WriteString(ln.Text)
			b.WriteByte('\n')
		}
	}
	fmt.Fprintf(&b, "end\n\nscene: %s\nindex: %03d\n", s.doc.Name, s.savePoint())
	fmt.Fprintf(&b, "background: %s, %s\n", s.bgFolder, s.bgFile)
	fmt.Fprintf(&b, "text_index: %d, %d\n", s.Dlg.MaxIndex, s.Dlg.MaxIndex)
	fmt.Fprintf(&b, "widget: %s\n", s.WidgetText)

	for _, v := range s.Vars.Nonzero() {
		fmt.Fprintf(&b, "nonzero_var: %s, %d\n", v.Name, v.Value)
	}

	if body, ok := s.lastDirectiveArgs(".music"); ok && body != "" {
		fmt.Fprintf(&b, "music: %s\n", body)
	}

	if body, ok := s.lastDirectiveArgs(".shake"); ok {
		parts := strings.Split(body, ",")
		if len(parts) > 1 {
			x, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
			y, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
			fmt.Fprintf(&b, "shake: %d, %d\n", x, y)
		}
	}

	// Record the .load lines that populated the occupied banks, newest
	// first, capped at the first four banks the way saves always were.
	want := 0
	for i := 0; i < 4; i++ {
		if len(s.Chars.Banks[i]) > 0 {
			want++
		}
	}
	idx := s.index
	for found := 0; found < want; {
		idx--
		if idx < 0 {
			break
		}
		line := strings.TrimSpace(s.doc.Lines[idx])
		if !strings.HasPrefix(line, ".load") {
			continue
		}
		line = stripComment(line)
		i := strings.IndexByte(line, '(')
		if i < 0 {
			continue
		}
		parts := strings.Split(strings.ReplaceAll(line[i+1:], ")", ""), ",")
		if len(parts) > 1 {
			bank, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
			fmt.Fprintf(&b, "load: %s, %d\n", strings.TrimSpace(parts[0]), bank)
			found++
		}
	}

	for _, c := range s.Chars.List {
		fmt.Fprintf(&b, "draw: %d, %d, %d, %s\n", c.Bank, c.Emotion, c.Slot, c.Name)
	}

	return b.String()
}

// DecodeSave parses a save record back into SaveData. Unknown keys are
// ignored so older saves keep loading.
func DecodeSave(lines []string) (*SaveData, error) {
	sd := &SaveData{MaxIndex: -1}
	inTranscript := false

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r\n")
		if inTranscript {
			switch {
			case strings.HasPrefix(line, "end"):
				inTranscript = false
			case strings.HasPrefix(line, "name:"):
				sd.Pages = append(sd.Pages, SavedPage{
					Speaker: strings.TrimSpace(line[len("name:"):]),
				})
			default:
				if len(sd.Pages) > 0 {
					p := &sd.Pages[len(sd.Pages)-1]
					p.Lines = append(p.Lines, strings.TrimSpace(line))
				}
			}
			continue
		}

		if strings.HasPrefix(line, "begin") {
			inTranscript = true
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch key {
		case "scene":
			sd.Scene = val
		case "index":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("save record: bad index '%s'", val)
			}
			sd.Index = n
		case "background":
			folder, file, _ := strings.Cut(val, ",")
			sd.BGFolder = strings.TrimSpace(folder)
			sd.BGFile = strings.TrimSpace(file)
		case "text_index":
			first, _, _ := strings.Cut(val, ",")
			n, err := strconv.Atoi(strings.TrimSpace(first))
			if err != nil {
				return nil, fmt.Errorf("save record: bad text_index '%s'", val)
			}
			sd.MaxIndex = n
		case "widget":
			sd.Widget = val
		case "nonzero_var":
			name, num, _ := strings.Cut(val, ",")
			n, err := strconv.Atoi(strings.TrimSpace(num))
			if err != nil {
				return nil, fmt.Errorf("save record: bad variable '%s'", val)
			}
			sd.Vars = append(sd.Vars, VarValue{Name: strings.TrimSpace(name), Value: n})
		case "music":
			sd.Music = val
		case "shake":
			xs, ys, _ := strings.Cut(val, ",")
			x, _ := strconv.Atoi(strings.TrimSpace(xs))
			y, _ := strconv.Atoi(strings.TrimSpace(ys))
			sd.ShakeX, sd.ShakeY = x, y
			sd.Shaking = x != 0 || y != 0
		case "load":
			folder, num, _ := strings.Cut(val, ",")
			bank, err := strconv.Atoi(strings.TrimSpace(num))
			if err != nil || bank < 0 || bank >= bankCount {
				return nil, fmt.Errorf("save record: bad load entry '%s'", val)
			}
			sd.Loads = append(sd.Loads, SavedLoad{Folder: strings.TrimSpace(folder), Bank: bank})
		case "draw":
			parts := strings.SplitN(val, ",", 4)
			if len(parts) < 4 {
				return nil, fmt.Errorf("save record: bad draw entry '%s'", val)
			}
			bank, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			em, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			slot, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, fmt.Errorf("save record: bad draw entry '%s'", val)
			}
			sd.Draws = append(sd.Draws, SavedDraw{
				Bank: bank, Emotion: em, Slot: slot,
				Name: strings.TrimSpace(parts[3]),
			})
		case "xy":
			xs, ys, _ := strings.Cut(val, ",")
			sd.SlotX, _ = strconv.Atoi(strings.TrimSpace(xs))
			sd.SlotY, _ = strconv.Atoi(strings.TrimSpace(ys))
		case "datetime":
			sd.Stamp = val
		}
	}

	if sd.Scene == "" {
		return nil, fmt.Errorf("save record: missing scene field")
	}
	return sd, nil
}

// Restore rebuilds the session from a decoded save and positions the
// cursor at the opening of the saved dialogue page. The record's last
// transcript entry is dropped: resuming replays that page live, and the
// replay re-appends it.
func (s *Session) Restore(sd *SaveData) error {
	s.Vars = NewVars()
	s.Chars = NewCharLayer()
	s.Dlg = NewDialogue()
	s.Opts = ChoiceList{Selected: -1}
	s.Trans = NewTransition()
	s.State = StateRead
	s.BG, s.OldBG = nil, nil
	s.bgFolder, s.bgFile = "null", "null"
	s.bgScale = 1.0
	s.Anchor, s.OldAnchor = "center", "center"
	s.Shaking, s.ShakeX, s.ShakeY = false, 0, 0
	s.HideAlpha, s.hideTarget, s.hidePending = 255, 255, false
	s.waitRemaining, s.waitPending = 0, false
	s.sceneLoading, s.sceneUnloading = false, false
	s.textOpen, s.choiceOpen, s.advance = false, false, false
	s.Skip, s.Auto = false, false
	s.autoCount, s.autoPending = 0, false
	s.quit = false
	s.WidgetText, s.WidgetAnchor = "null", "center"

	pages := sd.Pages
	if len(pages) > 0 {
		pages = pages[:len(pages)-1]
	}
	for _, p := range pages {
		page := &Page{Speaker: p.Speaker}
		for _, text := range p.Lines {
			w := s.measure.Width(text)
			page.Lines = append(page.Lines, PageLine{Text: text, Width: w, Reveal: w})
		}
		s.Dlg.Pages = append(s.Dlg.Pages, page)
	}
	s.Dlg.PrevIndex = sd.MaxIndex - 1
	s.Dlg.MaxIndex = sd.MaxIndex - 1

	for _, v := range sd.Vars {
		if !s.Vars.Set(v.Name, v.Value) {
			return fmt.Errorf("save record: unknown variable '%s'", v.Name)
		}
	}

	for _, l := range sd.Loads {
		images, err := s.assets.LoadFolder(l.Folder)
		if err != nil {
			return fmt.Errorf("save record: character folder '%s': %v", l.Folder, err)
		}
		s.Chars.Banks[l.Bank] = append(s.Chars.Banks[l.Bank], images...)
	}
	for _, d := range sd.Draws {
		if d.Bank < 0 || d.Bank >= bankCount || d.Emotion < 0 ||
			d.Emotion >= len(s.Chars.Banks[d.Bank]) {
			return fmt.Errorf("save record: draw entry references unloaded bank %d", d.Bank)
		}
		s.Chars.Add(&Character{
			Bank:    d.Bank,
			Emotion: d.Emotion,
			Slot:    d.Slot,
			Name:    d.Name,
			Image:   s.Chars.Banks[d.Bank][d.Emotion],
		})
	}

	if sd.BGFolder != "null" || sd.BGFile != "null" {
		img, err := s.assets.LoadImage(sd.BGFolder, sd.BGFile)
		if err != nil {
			return fmt.Errorf("save record: background '%s/%s': %v", sd.BGFolder, sd.BGFile, err)
		}
		s.BG = img
		s.bgFolder, s.bgFile = sd.BGFolder, sd.BGFile
	}

	if sd.Music != "" && sd.Music != "None" {
		if err := s.audio.PlayMusic(sd.Music); err != nil {
			return fmt.Errorf("save record: music '%s': %v", sd.Music, err)
		}
	}

	s.Shaking = sd.Shaking
	s.ShakeX, s.ShakeY = sd.ShakeX, sd.ShakeY
	s.WidgetText = sd.Widget

	doc, err := s.loadDoc(sd.Scene)
	if err != nil {
		return err
	}
	s.doc = doc
	s.index = sd.Index
	if s.index < 0 {
		s.index = 0
	}
	if s.index >= len(doc.Lines) {
		s.index = len(doc.Lines) - 1
	}
	s.finished = false
	return nil
}
