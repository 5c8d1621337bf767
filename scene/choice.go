package scene

// Choice is one clickable dialogue option collected inside a .choice
// block. X/Y is the stacked on-screen position computed as options are
// gathered.
type Choice struct {
	ID     int
	Prompt string
	X, Y   int
}

// ChoiceList is the transient option set for the current .choice block.
// Selected stays -1 until the player picks.
type ChoiceList struct {
	Options  []Choice
	Selected int
}

func (c *ChoiceList) reset() {
	c.Options = nil
	c.Selected = -1
}
