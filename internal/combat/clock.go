package combat

// Clock tracks the position of the battle: round, phase within the round and
// attacking unit within the phase.
type Clock struct {
	round       int
	phase       int
	unit        int
	destruction bool
}

func (c Clock) RoundIndex() int     { return c.round }
func (c Clock) PhaseIndex() int     { return c.phase }
func (c Clock) UnitIndex() int      { return c.unit }
func (c Clock) IsDestruction() bool { return c.destruction }

func (c *Clock) NextRound() {
	c.round++
	c.phase = 0
	c.unit = 0
}

func (c *Clock) NextPhase() {
	c.phase++
	c.unit = 0
}

func (c *Clock) NextUnit() { c.unit++ }

// NextUnits advances the unit index by count.
func (c *Clock) NextUnits(count int) { c.unit += count }

// StartDestruction resets every counter and marks the combat as finished.
func (c *Clock) StartDestruction() {
	*c = Clock{destruction: true}
}
