package scene

// PageLine is one line of dialogue. Reveal is the pixel width currently
// shown by the scroll effect; the backlog copy of the same line keeps
// Reveal pinned at Width.
type PageLine struct {
	Text   string
	Width  int
	Reveal int
}

// Page is one unit of dialogue: a speaker and the lines shown under it
// before the player must advance.
type Page struct {
	Speaker string
	Lines   []PageLine
}

func (p *Page) complete() bool {
	for i := range p.Lines {
		if p.Lines[i].Reveal < p.Lines[i].Width {
			return false
		}
	}
	return true
}

// Dialogue holds the live page being revealed plus the full backlog of
// every page shown so far. PrevIndex is the page the player is viewing,
// MaxIndex the newest; PrevIndex ∈ [0, MaxIndex] once anything has been
// shown (both start at -1).
type Dialogue struct {
	Pages     []*Page
	PrevIndex int
	MaxIndex  int

	cur *Page
}

func NewDialogue() *Dialogue {
	return &Dialogue{PrevIndex: -1, MaxIndex: -1}
}

// Current returns the live page, which may be nil before any .text.
func (d *Dialogue) Current() *Page { return d.cur }

// Viewed returns the page to render: the live page when the player is
// at the newest entry, otherwise the static backlog page under review.
func (d *Dialogue) Viewed() *Page {
	if d.PrevIndex >= 0 && d.PrevIndex < d.MaxIndex && d.PrevIndex < len(d.Pages) {
		return d.Pages[d.PrevIndex]
	}
	return d.cur
}

// AtNewest reports whether the player is viewing the live page.
func (d *Dialogue) AtNewest() bool { return d.PrevIndex == d.MaxIndex }

// OpenPage starts a fresh live page and appends its backlog entry.
func (d *Dialogue) OpenPage(speaker string) {
	d.cur = &Page{Speaker: speaker}
	d.Pages = append(d.Pages, &Page{Speaker: speaker})
	d.PrevIndex++
	d.MaxIndex++
}

// OpenSkipPage starts a fresh live page without a backlog entry. The
// previous speaker is kept, and any lines that follow glom onto the
// most recent backlog page, the way skip pages always have.
func (d *Dialogue) OpenSkipPage() {
	speaker := ""
	if d.cur != nil {
		speaker = d.cur.Speaker
	}
	d.cur = &Page{Speaker: speaker}
}

// AddLine appends one dialogue line to the live page and a static copy
// to the newest backlog entry.
func (d *Dialogue) AddLine(text string, width int) {
	if d.cur == nil {
		d.cur = &Page{}
	}
	d.cur.Lines = append(d.cur.Lines, PageLine{Text: text, Width: width})
	if len(d.Pages) > 0 {
		last := d.Pages[len(d.Pages)-1]
		last.Lines = append(last.Lines, PageLine{Text: text, Width: width, Reveal: width})
	}
}

// StepReveal advances the scroll effect by speed pixels. Lines reveal
// sequentially: only the first incomplete line moves each tick.
func (d *Dialogue) StepReveal(speed int) {
	if d.cur == nil {
		return
	}
	for i := range d.cur.Lines {
		ln := &d.cur.Lines[i]
		if ln.Reveal < ln.Width {
			ln.Reveal += speed
			if ln.Reveal > ln.Width {
				ln.Reveal = ln.Width
			}
			return
		}
	}
}

// ForceReveal completes the scroll of every live line, reporting
// whether the page was already fully revealed.
func (d *Dialogue) ForceReveal() bool {
	if d.cur == nil {
		return true
	}
	done := true
	for i := range d.cur.Lines {
		ln := &d.cur.Lines[i]
		if ln.Reveal < ln.Width {
			ln.Reveal = ln.Width
			done = false
		}
	}
	return done
}

// Complete reports whether the live page has fully revealed.
func (d *Dialogue) Complete() bool {
	return d.cur == nil || d.cur.complete()
}

// Back moves the review cursor one page toward the oldest entry.
func (d *Dialogue) Back() {
	d.PrevIndex--
	if d.PrevIndex < 0 {
		d.PrevIndex = 0
	}
}

// Forward moves the review cursor one page toward the newest entry.
func (d *Dialogue) Forward() {
	d.PrevIndex++
	if d.PrevIndex > d.MaxIndex {
		d.PrevIndex = d.MaxIndex
	}
}
