package combat

// Sequence decides, for one attacking group, which units deal high damage
// and which splash. Implementations may consult the clock.
type Sequence interface {
	// PeekDoHighDamage reports whether the current unit deals high damage.
	PeekDoHighDamage(clock *Clock) bool
	// PeekCountHighDamage counts the units among the next count that deal
	// high damage.
	PeekCountHighDamage(count int, clock *Clock) int
	// PeekDoSplash reports whether the current unit splashes.
	PeekDoSplash(clock *Clock) bool
	// DidLastSplash reports whether the previous unit splashed.
	DidLastSplash(clock *Clock) bool
}

// SequenceFactory builds the sequence of the group at groupIndex.
type SequenceFactory func(g *UnitGroup, groupIndex int) Sequence

// TrivialSequence always deals the same damage and always (or never)
// splashes. Units with certain accuracy or splash chance override it.
type TrivialSequence struct {
	high   bool
	splash bool
}

// NewTrivialSequence builds a trivial sequence for g.
func NewTrivialSequence(g *UnitGroup, high, splash bool) *TrivialSequence {
	d := g.Unit().Damage
	switch d.Accuracy() {
	case 0:
		high = false
	case 1:
		high = true
	}
	switch d.SplashChance() {
	case 0:
		splash = false
	case 1:
		splash = true
	}
	return &TrivialSequence{high: high, splash: splash}
}

func (s *TrivialSequence) PeekDoHighDamage(*Clock) bool { return s.high }

func (s *TrivialSequence) PeekCountHighDamage(count int, _ *Clock) int {
	if s.high {
		return count
	}
	return 0
}

func (s *TrivialSequence) PeekDoSplash(*Clock) bool  { return s.splash }
func (s *TrivialSequence) DidLastSplash(*Clock) bool { return s.splash }

// AlwaysHigh yields the upper bound on damage: high damage and splash
// whenever the unit can.
func AlwaysHigh(g *UnitGroup, _ int) Sequence { return NewTrivialSequence(g, true, true) }

// AlwaysLow yields the lower bound on damage.
func AlwaysLow(g *UnitGroup, _ int) Sequence { return NewTrivialSequence(g, false, false) }
