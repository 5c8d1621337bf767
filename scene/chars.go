package scene

const (
	// maxInstances caps how many character sprites can be on screen.
	maxInstances = 8
	// bankCount is the number of character image banks.
	bankCount = 8
	// fadeInStep is the per-tick alpha gain while a sprite fades in.
	fadeInStep = 12
	// fadeOutStep is the per-tick alpha loss while .load clears sprites.
	fadeOutStep = 24
)

// Character is one on-screen sprite instance.
type Character struct {
	Bank    int
	Emotion int
	Slot    int // horizontal screen slot, 0-15
	Name    string
	Alpha   int // 0-255, climbs by fadeInStep each tick
	Image   Image
}

// CharLayer tracks the loaded image banks and the sprites currently
// displayed, oldest first.
type CharLayer struct {
	Banks [bankCount][]Image
	List  []*Character
}

func NewCharLayer() *CharLayer { return &CharLayer{} }

// Add appends a sprite, evicting the oldest once the cap is exceeded.
func (l *CharLayer) Add(c *Character) {
	l.List = append(l.List, c)
	if len(l.List) > maxInstances {
		l.List = l.List[1:]
	}
}

// FadeStep advances every fading sprite one tick toward full opacity.
func (l *CharLayer) FadeStep() {
	for _, c := range l.List {
		if c.Alpha < 255 {
			c.Alpha += fadeInStep
			if c.Alpha > 255 {
				c.Alpha = 255
			}
		}
	}
}

// EvictOverlaps drops any sprite that shares a screen slot with a newer
// sprite that has finished fading in. Last write wins.
func (l *CharLayer) EvictOverlaps() {
	kept := l.List[:0]
	for i, c := range l.List {
		covered := false
		for _, later := range l.List[i+1:] {
			if later.Slot == c.Slot && later.Alpha == 255 {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, c)
		}
	}
	l.List = kept
}

// FadeOut steps the removal fade for every sprite from bank (or all
// sprites when bank is -1), dropping those that reach zero. It reports
// true once no matching sprite remains visible.
func (l *CharLayer) FadeOut(bank int) bool {
	done := true
	kept := l.List[:0]
	for _, c := range l.List {
		if bank == -1 || c.Bank == bank {
			c.Alpha -= fadeOutStep
			if c.Alpha < 0 {
				c.Alpha = 0
				continue
			}
			done = false
		}
		kept = append(kept, c)
	}
	l.List = kept
	if done && bank == -1 {
		l.List = nil
	}
	return done
}
