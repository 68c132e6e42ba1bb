package combat

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

// Battle is a single combat between two conditioned armies. It can be
// executed once, then reset to its starting state for another trial.
type Battle struct {
	left      *mechanics
	right     *mechanics
	leftZero  []UnitGroup
	rightZero []UnitGroup
	weather   Weather
	clock     Clock
	result    CombatResult
}

// NewBattle applies weather to both armies, conditions each against the
// other and prepares the attack sequences. The given armies are not
// modified. A nil factory draws random sequences from a random seed.
func NewBattle(left, right *Army, weather Weather, leftSeq, rightSeq SequenceFactory) (*Battle, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("failed to create battle: %w", ErrInvalidUnit)
	}
	l, r := left.WithWeather(weather), right.WithWeather(weather)

	lc, err := l.Condition(r)
	if err != nil {
		return nil, fmt.Errorf("failed to condition left army: %w", err)
	}
	rc, err := r.Condition(l)
	if err != nil {
		return nil, fmt.Errorf("failed to condition right army: %w", err)
	}

	if leftSeq == nil {
		leftSeq = RandomizedFactory(rand.Uint64())
	}
	if rightSeq == nil {
		rightSeq = RandomizedFactory(rand.Uint64())
	}

	return &Battle{
		left:      newMechanics("left", lc, rc, leftSeq),
		right:     newMechanics("right", rc, lc, rightSeq),
		leftZero:  append([]UnitGroup(nil), lc.groups...),
		rightZero: append([]UnitGroup(nil), rc.groups...),
		weather:   weather,
	}, nil
}

// Execute runs rounds until at least one side is wiped out and returns the
// number of rounds. A round in which no hit points change ends the combat.
func (b *Battle) Execute(logger *zap.Logger) (int, error) {
	if b.clock.IsDestruction() {
		return 0, ErrAlreadyExecuted
	}
	n := newNarrator(logger)
	left, right := b.left.army, b.right.army

	for left.Alive() && right.Alive() {
		hitPoints := left.totalHitPoints() + right.totalHitPoints()
		n.round(&b.clock, left.FrenzyBonus(), right.FrenzyBonus())

		for _, phase := range Phases {
			n.phase(phase)
			b.left.initiatePhase(b.right, phase, &b.clock, n)
			b.right.initiatePhase(b.left, phase, &b.clock, n)

			left.Snapshot()
			right.Snapshot()
			b.clock.NextPhase()
		}
		b.clock.NextRound()

		if left.totalHitPoints()+right.totalHitPoints() == hitPoints {
			break
		}
	}

	b.result = CombatResult{
		LeftAliveMask:  left.AliveMask(),
		RightAliveMask: right.AliveMask(),
		Rounds:         b.clock.RoundIndex(),
	}
	n.result(b.result)
	b.clock.StartDestruction()
	return b.result.Rounds, nil
}

// PeekDestruction samples the number of rounds the victor needs to destroy
// the loser's camp. It does not change the battle and may be called any
// number of times after Execute. Without a victor it returns zero.
func (b *Battle) PeekDestruction(logger *zap.Logger) (int, error) {
	if !b.clock.IsDestruction() {
		return 0, ErrNotExecuted
	}
	clock := b.clock

	var attacker, defender *mechanics
	switch {
	case b.result.IsLeftVictorious():
		attacker, defender = b.left, b.right
	case b.result.IsRightVictorious():
		attacker, defender = b.right, b.left
	default:
		return 0, nil
	}

	rounds, err := attacker.destruct(defender.army, &clock)
	if err != nil {
		return 0, err
	}
	newNarrator(logger).destruction(rounds, defender.army.Camp().HitPoints)
	return rounds, nil
}

// Reset restores both armies and the clock to their state before Execute.
func (b *Battle) Reset() {
	copy(b.left.army.groups, b.leftZero)
	copy(b.right.army.groups, b.rightZero)
	b.clock = Clock{}
	b.result = CombatResult{}
}

// CalculateLeftLosses returns the number of units lost by each left group.
func (b *Battle) CalculateLeftLosses() []int { return b.left.losses() }

// CalculateRightLosses returns the number of units lost by each right group.
func (b *Battle) CalculateRightLosses() []int { return b.right.losses() }

// LeftExperience is the experience the left side earned for its kills.
func (b *Battle) LeftExperience() int { return experienceFor(b.right) }

// RightExperience is the experience the right side earned for its kills.
func (b *Battle) RightExperience() int { return experienceFor(b.left) }

func experienceFor(defeated *mechanics) int {
	total := 0
	for i, lost := range defeated.losses() {
		total += defeated.army.groups[i].unit.ExperienceFor(lost)
	}
	return total
}

func (b *Battle) Result() CombatResult { return b.result }
func (b *Battle) Clock() Clock         { return b.clock }
func (b *Battle) Weather() Weather     { return b.weather }

// Left returns the conditioned left army in its current state.
func (b *Battle) Left() *Army { return b.left.army }

// Right returns the conditioned right army in its current state.
func (b *Battle) Right() *Army { return b.right.army }
