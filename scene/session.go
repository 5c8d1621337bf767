package scene

import (
	"strconv"
	"strings"
)

// Image is an opaque handle to a loaded picture. The session never
// inspects pixels; it only needs dimensions for layout math.
type Image interface {
	Size() (w, h int)
}

// Assets supplies pictures to the interpreter. LoadImage resolves a
// background by folder and file name; LoadFolder bulk-loads every image
// of a character folder in name order.
type Assets interface {
	LoadImage(folder, file string) (Image, error)
	LoadFolder(folder string) ([]Image, error)
}

// Audio supplies music and sound playback. PlayMusic loops until
// stopped; PlaySound fires once.
type Audio interface {
	PlayMusic(name string) error
	StopMusic()
	PlaySound(name string) error
	StopSound()
}

// TextMeasurer reports the rendered pixel width of a string, which
// drives the scroll reveal.
type TextMeasurer interface {
	Width(s string) int
}

// State is the interpreter's finite-state-machine state.
type State int

const (
	StateRead State = iota
	StateChoose
	StateOptBranch
	StateVarBranch
)

// Config is the fixed layout and pacing the session needs from the
// presentation layer.
type Config struct {
	ScreenW, ScreenH int
	ChoiceStride     int // vertical spacing between stacked options
	ScrollSpeed      int // reveal pixels per tick
	AutoPause        int // ticks to hold a finished page in auto mode
}

// Session owns every piece of mutable interpreter state for the one
// active scene. It is strictly single-threaded: one Step per
// presentation tick, input applied between ticks.
type Session struct {
	cfg     Config
	assets  Assets
	audio   Audio
	measure TextMeasurer
	loadDoc func(name string) (*Document, error)

	doc      *Document
	index    int
	finished bool
	quit     bool

	State State
	Vars  *Vars
	Chars *CharLayer
	Dlg   *Dialogue
	Opts  ChoiceList
	Trans Transition

	// Background compositing state. At most the old and the new image
	// are ever on screen together.
	BG        Image
	OldBG     Image
	bgFolder  string
	bgFile    string
	bgScale   float64
	Anchor    string
	OldAnchor string

	Shaking        bool
	ShakeX, ShakeY int

	HideAlpha   int
	hideTarget  int
	hidePending bool

	waitRemaining int
	waitPending   bool

	sceneLoading   bool
	sceneUnloading bool

	textOpen   bool
	choiceOpen bool
	advance    bool

	Skip bool
	Auto bool

	autoCount   int
	autoPending bool

	WidgetText   string
	WidgetAnchor string
}

// NewSession builds a fresh interpreter. loadDoc resolves scene names
// to documents so .swap and save restoration can pull in new scripts.
func NewSession(cfg Config, assets Assets, audio Audio, measure TextMeasurer,
	loadDoc func(name string) (*Document, error)) *Session {
	if cfg.ScrollSpeed <= 0 {
		cfg.ScrollSpeed = 12
	}
	if cfg.AutoPause <= 0 {
		cfg.AutoPause = 60
	}
	return &Session{
		cfg:          cfg,
		assets:       assets,
		audio:        audio,
		measure:      measure,
		loadDoc:      loadDoc,
		Vars:         NewVars(),
		Chars:        NewCharLayer(),
		Dlg:          NewDialogue(),
		Opts:         ChoiceList{Selected: -1},
		Trans:        NewTransition(),
		bgFolder:     "null",
		bgFile:       "null",
		bgScale:      1.0,
		Anchor:       "center",
		OldAnchor:    "center",
		HideAlpha:    255,
		hideTarget:   255,
		WidgetText:   "null",
		WidgetAnchor: "center",
	}
}

// Start loads the named scene into the session and rewinds the cursor.
func (s *Session) Start(name string) error {
	doc, err := s.loadDoc(name)
	if err != nil {
		return err
	}
	s.doc = doc
	s.index = 0
	s.finished = false
	return nil
}

// Document returns the active script, nil before Start.
func (s *Session) Document() *Document { return s.doc }

// Index returns the current 0-based cursor position.
func (s *Session) Index() int { return s.index }

// Finished reports whether the cursor has run past the last line.
func (s *Session) Finished() bool { return s.finished }

// Done reports whether .forcequit ended the scene loop.
func (s *Session) Done() bool { return s.quit }

// advanceCursor moves the cursor one line forward, clamping at the end
// of the document and latching finished.
func (s *Session) advanceCursor() {
	s.index++
	if s.index >= len(s.doc.Lines) {
		s.index = len(s.doc.Lines) - 1
		s.finished = true
	}
}

// Step advances the whole session one presentation tick: execute the
// current line, run any pending branch seek, then advance the
// animation layers that move every tick regardless of the cursor.
func (s *Session) Step() error {
	if s.quit || s.doc == nil {
		return nil
	}
	if !s.finished {
		adv, err := s.exec(s.doc.Lines[s.index])
		if err != nil {
			return err
		}
		if adv && !s.finished {
			s.advanceCursor()
		}
	}
	s.seek()
	s.Chars.FadeStep()
	s.Chars.EvictOverlaps()
	s.Dlg.StepReveal(s.cfg.ScrollSpeed)
	if s.Skip {
		s.Next()
	} else if s.Auto {
		s.stepAuto()
	}
	return nil
}

// seek scans the cursor forward while a branch state is pending. The
// scan covers any distance within a single tick.
func (s *Session) seek() {
	switch s.State {
	case StateOptBranch:
		for !s.finished && !isBareBranch(s.doc.Lines[s.index]) {
			s.advanceCursor()
		}
	case StateVarBranch:
		for !s.finished && !isIfLine(s.doc.Lines[s.index]) {
			s.advanceCursor()
		}
	}
}

// exec dispatches one script line and reports whether the cursor may
// advance. A false return re-executes the same line next tick; that is
// the only suspension mechanism multi-frame directives have.
func (s *Session) exec(raw string) (bool, error) {
	d := parseLine(raw, s.textOpen, s.choiceOpen)

	switch d.Kind {
	case KindBlank:
		return true, nil
	case KindForceQuit:
		s.quit = true
		return true, nil
	case KindLoad:
		return s.execLoad(d)
	case KindText:
		return s.execText(d)
	case KindWait:
		return s.execWait(d)
	case KindShake:
		return s.execShake(d)
	case KindChoice:
		return s.execChoice()
	case KindOption:
		return s.execOption(d)
	case KindBranch:
		return s.execBranch(d)
	case KindSetAnchor:
		return s.execSetAnchor(d)
	case KindSceneIn:
		return s.execSceneIn(d)
	case KindSceneOut:
		return s.execSceneOut(d)
	case KindMusic:
		return s.execMusic(d)
	case KindSound:
		return s.execSound(d)
	case KindSetFade:
		return s.execSetFade(d)
	case KindHide:
		return s.execHide()
	case KindShow:
		return s.execShow()
	case KindSwap:
		return s.execSwap(d)
	case KindWidget:
		return s.execWidget(d)
	case KindSetVar:
		return s.execSetVar(d)
	case KindIf:
		return s.execIf(d)
	case KindRaw:
		if s.State == StateRead && s.textOpen {
			s.Dlg.AddLine(d.Text, s.measure.Width(d.Text))
			return true, nil
		}
		// Unknown lines outside any open block are deliberate no-ops.
		return true, nil
	}
	return true, nil
}

func (s *Session) execLoad(d Directive) (bool, error) {
	if !d.HasArgs || len(d.Args) == 0 {
		return false, s.errf("not enough arguments supplied for the function")
	}
	if len(d.Args) < 2 {
		val := d.Args[0].Val
		if !isDigits(val) && val != "-1" {
			return false, s.errf("not enough arguments supplied for the function")
		}
		bank, _ := strconv.Atoi(val)
		if bank >= len(s.Chars.List) {
			return true, nil
		}
		return s.Chars.FadeOut(bank), nil
	}

	folder := d.Args[0].Val
	bank, err := strconv.Atoi(d.Args[1].Val)
	if err != nil || bank < 0 || bank >= bankCount {
		return false, s.errf("character bank '%s' was not a valid integer", d.Args[1].Val)
	}
	images, err := s.assets.LoadFolder(folder)
	if err != nil {
		return false, s.errf("attempted to load nonexistent character folder '%s'", folder)
	}
	s.Chars.Banks[bank] = append(s.Chars.Banks[bank], images...)
	return true, nil
}

func (s *Session) execText(d Directive) (bool, error) {
	if s.textOpen {
		// Closing marker: hand control back to the player and block the
		// cursor until something sets the advance flag.
		if !s.Skip && !s.Auto {
			s.State = StateRead
		}
		if !s.advance {
			return false, nil
		}
		s.advance = false
		s.textOpen = false
		return true, nil
	}

	s.advance = false

	var (
		bank, emotion, slot int
		name                string
		haveChar            bool
		skip                bool
	)
	for _, a := range d.Args {
		switch {
		case a.Key == "char":
			n, err := strconv.Atoi(a.Val)
			if err != nil {
				return false, s.errf("parameter 'char' was not an integer")
			}
			bank = n
			haveChar = true
		case a.Key == "sub":
			n, err := strconv.Atoi(a.Val)
			if err != nil {
				return false, s.errf("parameter 'sub' was not an integer")
			}
			emotion = n
		case a.Key == "pos":
			n, err := strconv.Atoi(a.Val)
			if err != nil {
				return false, s.errf("parameter 'pos' was not an integer")
			}
			slot = n
		case a.Key == "name":
			name = a.Val
		case a.Key == "skip" || a.Val == "skip":
			skip = true
		}
	}

	if haveChar {
		if bank < 0 || bank >= bankCount || len(s.Chars.Banks[bank]) == 0 {
			return false, s.errf("referenced a nonexistent character %d", bank)
		}
		if emotion < 0 || emotion >= len(s.Chars.Banks[bank]) {
			return false, s.errf("referenced a nonexistent sub-image %d", emotion)
		}
		addNew := true
		if n := len(s.Chars.List); n > 0 {
			last := s.Chars.List[n-1]
			addNew = last.Emotion != emotion || last.Name != name || last.Slot != slot
		}
		if addNew {
			s.Chars.Add(&Character{
				Bank:    bank,
				Emotion: emotion,
				Slot:    slot,
				Name:    name,
				Image:   s.Chars.Banks[bank][emotion],
			})
		}
	}

	if skip {
		s.Dlg.OpenSkipPage()
	} else {
		s.Dlg.OpenPage(name)
	}
	s.textOpen = true
	return true, nil
}

func (s *Session) execWait(d Directive) (bool, error) {
	if !s.waitPending {
		if len(d.Args) != 1 {
			return false, s.errf("waiting time was not an integer")
		}
		n, err := strconv.Atoi(d.Args[0].Val)
		if err != nil {
			return false, s.errf("waiting time was not an integer")
		}
		s.waitRemaining = n
		s.waitPending = true
	}
	if s.waitRemaining > 0 {
		s.waitRemaining--
		return false, nil
	}
	s.waitPending = false
	return true, nil
}

func (s *Session) execShake(d Directive) (bool, error) {
	if !d.HasArgs {
		s.Shaking = false
		s.ShakeX, s.ShakeY = 0, 0
		return true, nil
	}
	if len(d.Args) < 2 {
		return false, s.errf("shake magnitude was not an integer pair")
	}
	x, errX := strconv.Atoi(d.Args[0].Val)
	y, errY := strconv.Atoi(d.Args[1].Val)
	if errX != nil || errY != nil {
		return false, s.errf("shake magnitude was not an integer pair")
	}
	s.Shaking = true
	s.ShakeX, s.ShakeY = x, y
	return true, nil
}

func (s *Session) execChoice() (bool, error) {
	if !s.choiceOpen {
		s.State = StateRead
		s.advance = false
		s.Opts.reset()
		s.choiceOpen = true
		return true, nil
	}
	s.State = StateChoose
	if s.Opts.Selected == -1 {
		return false, nil
	}
	s.choiceOpen = false
	s.State = StateRead
	s.advance = false
	return true, nil
}

func (s *Session) execOption(d Directive) (bool, error) {
	idText, prompt, ok := strings.Cut(d.Text, ":")
	if !ok {
		return false, s.errf("choice entry was missing a ':' separator")
	}
	id, err := strconv.Atoi(strings.TrimSpace(idText))
	if err != nil {
		return false, s.errf("choice label was not an integer")
	}
	s.Opts.Options = append(s.Opts.Options, Choice{
		ID:     id,
		Prompt: strings.TrimSpace(prompt),
		X:      s.cfg.ScreenW / 2,
		Y:      (len(s.Opts.Options)+1)*s.cfg.ChoiceStride + s.cfg.ScreenH/8,
	})
	return true, nil
}

func (s *Session) execBranch(d Directive) (bool, error) {
	fields := strings.Fields(strings.ReplaceAll(d.Text, ":", ""))
	if len(fields) > 1 {
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, s.errf("branch label was not an integer")
		}
		if id == s.Opts.Selected {
			s.Opts.Selected = -1
			return true, nil
		}
		s.State = StateOptBranch
		return true, nil
	}
	s.State = StateRead
	return true, nil
}

func (s *Session) execSetAnchor(d Directive) (bool, error) {
	if len(d.Args) != 1 {
		return false, s.errf("anchor position was not recognized")
	}
	name := d.Args[0].Val
	if !ValidAnchor(name) {
		return false, s.errf("anchor position was not recognized")
	}
	s.Anchor = name
	return true, nil
}

// applyEffect reads an effect name and, for the zoom variants, its
// optional scale, target scale and rate overrides. A plain fade ignores
// trailing arguments. out=true selects the fading-out direction.
func (s *Session) applyEffect(name string, extras []Arg, out bool) error {
	zoom := false
	switch name {
	case "fade":
		if out {
			s.Trans.FadeOut = true
		} else {
			s.Trans.FadeIn = true
		}
	case "zoomin":
		s.Trans.ZoomIn = true
		zoom = true
	case "zoomout":
		s.Trans.ZoomOut = true
		zoom = true
	case "fadezoomin":
		if out {
			s.Trans.FadeOut = true
		} else {
			s.Trans.FadeIn = true
		}
		s.Trans.ZoomIn = true
		zoom = true
	case "fadezoomout":
		if out {
			s.Trans.FadeOut = true
		} else {
			s.Trans.FadeIn = true
		}
		s.Trans.ZoomOut = true
		zoom = true
	}
	if !zoom {
		return nil
	}
	targets := []*float64{&s.Trans.ZoomScale, &s.Trans.TargetScale, &s.Trans.ZoomRate}
	for i, a := range extras {
		if i >= len(targets) {
			break
		}
		f, err := strconv.ParseFloat(a.Val, 64)
		if err != nil {
			return s.errf("scaling factor was not a float")
		}
		*targets[i] = f
	}
	return nil
}

func (s *Session) execSceneIn(d Directive) (bool, error) {
	if !s.sceneLoading {
		if len(d.Args) < 2 {
			return false, s.errf("not enough arguments supplied for the function")
		}
		folder, file := d.Args[0].Val, d.Args[1].Val
		if len(d.Args) > 2 {
			if err := s.applyEffect(d.Args[2].Val, d.Args[3:], false); err != nil {
				return false, err
			}
		}
		img, err := s.assets.LoadImage(folder, file)
		if err != nil {
			return false, s.errf("attempted to load nonexistent '%s/%s.png'", folder, file)
		}
		s.OldBG = s.BG
		s.BG = img
		s.bgFolder, s.bgFile = folder, file
		s.sceneLoading = true
	}
	return s.stepSceneTransition(&s.sceneLoading, false)
}

func (s *Session) execSceneOut(d Directive) (bool, error) {
	if !s.sceneUnloading {
		if len(d.Args) > 0 {
			if err := s.applyEffect(d.Args[0].Val, d.Args[1:], true); err != nil {
				return false, err
			}
		}
		s.sceneUnloading = true
	}
	return s.stepSceneTransition(&s.sceneUnloading, true)
}

// stepSceneTransition drives the shared fade/zoom machinery for
// .scenein and .sceneout and resolves the directive when every effect
// has landed.
func (s *Session) stepSceneTransition(pending *bool, out bool) (bool, error) {
	if (s.Trans.ZoomIn || s.Trans.ZoomOut) && s.Trans.ZoomScale <= 0 {
		return false, s.errf("attempted scaling to negative size")
	}
	zooming := s.Trans.ZoomIn || s.Trans.ZoomOut
	target := s.Trans.TargetScale
	if s.Trans.Step() {
		return false, nil
	}
	if zooming {
		if target <= 0 {
			return false, s.errf("attempted scaling to negative size")
		}
		s.bgScale = target
	}
	*pending = false
	s.autoPending = false
	if out {
		s.BG = nil
	} else {
		s.OldBG = nil
	}
	return true, nil
}

func (s *Session) execMusic(d Directive) (bool, error) {
	if len(d.Args) == 0 {
		s.audio.StopMusic()
		return true, nil
	}
	name := d.Args[0].Val
	if err := s.audio.PlayMusic(name); err != nil {
		return false, s.errf("attempted to load nonexistent 'music/%s.wav'", name)
	}
	return true, nil
}

func (s *Session) execSound(d Directive) (bool, error) {
	if s.Skip {
		// Sound effects are suppressed while fast-forwarding.
		return true, nil
	}
	if len(d.Args) == 0 {
		s.audio.StopSound()
		return true, nil
	}
	name := d.Args[0].Val
	if err := s.audio.PlaySound(name); err != nil {
		return false, s.errf("attempted to load nonexistent 'sound/%s.wav'", name)
	}
	return true, nil
}

func (s *Session) execSetFade(d Directive) (bool, error) {
	if len(d.Args) != 1 {
		return false, s.errf("fade rate was not an integer")
	}
	n, err := strconv.Atoi(d.Args[0].Val)
	if err != nil {
		return false, s.errf("fade rate was not an integer")
	}
	s.Trans.FadeRate = n
	return true, nil
}

const hideStep = 15

func (s *Session) execHide() (bool, error) {
	if !s.hidePending {
		s.hidePending = true
		s.hideTarget = 0
	}
	if s.HideAlpha > s.hideTarget {
		s.HideAlpha -= hideStep
		if s.HideAlpha < 0 {
			s.HideAlpha = 0
		}
		return false, nil
	}
	s.hidePending = false
	return true, nil
}

func (s *Session) execShow() (bool, error) {
	if !s.hidePending {
		s.hidePending = true
		s.hideTarget = 255
	}
	if s.HideAlpha < s.hideTarget {
		s.HideAlpha += hideStep
		if s.HideAlpha > 255 {
			s.HideAlpha = 255
		}
		return false, nil
	}
	s.hidePending = false
	return true, nil
}

func (s *Session) execSwap(d Directive) (bool, error) {
	if len(d.Args) != 1 {
		return false, s.errf("not enough arguments supplied for the function")
	}
	doc, err := s.loadDoc(d.Args[0].Val)
	if err != nil {
		return false, s.errf("%v", err)
	}
	s.doc = doc
	s.index = 0
	s.finished = false
	// The cursor is already on the new document's first line, so the
	// swap itself must not advance it.
	return false, nil
}

func (s *Session) execWidget(d Directive) (bool, error) {
	if len(d.Args) < 2 {
		return false, s.errf("not enough arguments supplied for the function")
	}
	anchor := d.Args[1].Val
	if !ValidAnchor(anchor) {
		return false, s.errf("anchor position was not recognized")
	}
	s.WidgetText = d.Args[0].Val
	s.WidgetAnchor = anchor
	return true, nil
}

// resolveOperand turns the right-hand side of an assignment or
// comparison into a value: a digit run is a literal, anything else is a
// variable reference.
func (s *Session) resolveOperand(token string) (int, error) {
	if isDigits(token) {
		n, _ := strconv.Atoi(token)
		return n, nil
	}
	val, ok := s.Vars.Get(token)
	if !ok {
		return 0, s.errf("referenced a nonexistent variable")
	}
	return val, nil
}

func (s *Session) execSetVar(d Directive) (bool, error) {
	line := d.Text
	var name, op, operand string
	switch {
	case strings.Contains(line, "+="):
		parts := strings.SplitN(line, "+=", 2)
		name, op, operand = strings.TrimSpace(parts[0]), "+=", strings.TrimSpace(parts[1])
	case strings.Contains(line, "-="):
		parts := strings.SplitN(line, "-=", 2)
		name, op, operand = strings.TrimSpace(parts[0]), "-=", strings.TrimSpace(parts[1])
	case strings.Contains(line, "="):
		parts := strings.SplitN(line, "=", 2)
		name, op, operand = strings.TrimSpace(parts[0]), "=", strings.TrimSpace(parts[1])
	default:
		// A bare $xx line mutates nothing.
		return true, nil
	}

	cur, ok := s.Vars.Get(name)
	if !ok {
		return false, s.errf("referenced a nonexistent variable")
	}
	val, err := s.resolveOperand(operand)
	if err != nil {
		return false, err
	}
	switch op {
	case "+=":
		s.Vars.Set(name, cur+val)
	case "-=":
		s.Vars.Set(name, cur-val)
	case "=":
		s.Vars.Set(name, val)
	}
	return true, nil
}

func (s *Session) execIf(d Directive) (bool, error) {
	fields := strings.Fields(d.Text)
	if len(fields) <= 1 {
		// Bare `.if:` closes a conditional block.
		s.State = StateRead
		return true, nil
	}
	if len(fields) < 4 {
		return false, s.errf("referenced a nonexistent variable")
	}
	left, ok := s.Vars.Get(fields[1])
	if !ok {
		return false, s.errf("referenced a nonexistent variable")
	}
	right, err := s.resolveOperand(strings.TrimSuffix(fields[3], ":"))
	if err != nil {
		return false, err
	}

	hold := false
	switch fields[2] {
	case "<":
		hold = left < right
	case "<=":
		hold = left <= right
	case ">":
		hold = left > right
	case ">=":
		hold = left >= right
	case "==":
		hold = left == right
	case "!=":
		hold = left != right
	}
	if hold {
		return true, nil
	}
	s.State = StateVarBranch
	return true, nil
}

// Next is the player's advance action: finish revealing the live page,
// then set the advance flag; while reviewing the backlog it walks
// forward instead.
func (s *Session) Next() {
	if s.Dlg.AtNewest() {
		if s.Dlg.ForceReveal() {
			s.advance = true
		}
		return
	}
	s.Dlg.Forward()
}

// Back walks the backlog review one page toward the oldest entry.
func (s *Session) Back() {
	s.Dlg.Back()
}

// Pick resolves the pending choice with the given option id.
func (s *Session) Pick(id int) {
	if s.State != StateChoose {
		return
	}
	s.Opts.Selected = id
	s.Dlg.PrevIndex = s.Dlg.MaxIndex
	s.advance = true
}

// ToggleSkip flips fast-forward mode; skip and auto are exclusive.
func (s *Session) ToggleSkip() {
	s.Skip = !s.Skip && !s.Auto
}

// ToggleAuto flips auto-advance mode; skip and auto are exclusive.
func (s *Session) ToggleAuto() {
	s.Auto = !s.Auto && !s.Skip
}

// stepAuto counts down the auto-advance pause once the live page has
// fully revealed, then releases the advance flag.
func (s *Session) stepAuto() {
	if !s.Dlg.AtNewest() || !s.Dlg.Complete() {
		return
	}
	if !s.autoPending {
		s.autoCount = s.cfg.AutoPause
		s.autoPending = true
	}
	s.autoCount--
	if s.autoCount <= 0 {
		s.autoCount = 0
		s.autoPending = false
		s.advance = true
	} else {
		s.advance = false
	}
}

// BGAlpha is the alpha the current background draws with this tick.
func (s *Session) BGAlpha() int {
	a := s.Trans.FadeAlpha
	if a > 255 {
		a = 255
	}
	if s.Trans.FadeIn {
		return a
	}
	if s.Trans.FadeOut {
		return 255 - a
	}
	return 255
}

// BGScale is the scale the current background draws at this tick.
func (s *Session) BGScale() float64 {
	if s.Trans.ZoomIn || s.Trans.ZoomOut {
		return s.Trans.ZoomScale
	}
	return s.bgScale
}

// Background reports the identity of the displayed background for
// persistence ("null, null" before any .scenein).
func (s *Session) Background() (folder, file string) {
	return s.bgFolder, s.bgFile
}
