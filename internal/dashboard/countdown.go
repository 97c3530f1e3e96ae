package dashboard

// Countdown is the cosmetic "next refresh in N" label.
// It ticks independently of the refresh timer and is never used to schedule anything.
type Countdown struct {
	start int
	value int
	shown int
}

// NewCountdown returns a countdown that restarts from start
func NewCountdown(start int) *Countdown {
	if start < 1 {
		start = 1
	}
	return &Countdown{start: start, value: start, shown: start}
}

// Tick advances one second and returns the value to display.
// After displaying 0 the next tick starts again below start.
func (c *Countdown) Tick() int {
	c.value--
	c.shown = c.value
	if c.value <= 0 {
		c.value = c.start
	}
	return c.shown
}

// Value returns the last displayed value
func (c *Countdown) Value() int {
	return c.shown
}
