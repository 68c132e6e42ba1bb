package combat

import "fmt"

// maxIdleRounds bounds the number of consecutive destruction rounds without
// any damage to the camp.
const maxIdleRounds = 1000

// mechanics is one side of a battle: a conditioned army, its invariant
// against the other side and one attack sequence per group.
type mechanics struct {
	side string
	army *Army
	inv  *Invariant
	seqs []Sequence
}

func newMechanics(side string, army, opponent *Army, factory SequenceFactory) *mechanics {
	m := &mechanics{
		side: side,
		army: army,
		inv:  NewInvariant(army, opponent),
		seqs: make([]Sequence, army.Len()),
	}
	for i := range army.groups {
		m.seqs[i] = factory(&army.groups[i], i)
	}
	return m
}

// losses returns the number of units each group lost since the battle began.
func (m *mechanics) losses() []int {
	losses := m.army.GroupCounts()
	for i, original := range m.inv.OriginalCounts() {
		losses[i] = original - losses[i]
	}
	return losses
}

// initiatePhase lets every group of this side that fights in phase attack
// the defender.
func (m *mechanics) initiatePhase(defender *mechanics, phase Phase, clock *Clock, n *narrator) {
	table := m.inv.At(clock.RoundIndex())
	for i := range m.army.groups {
		g := &m.army.groups[i]
		if !g.unit.Phases.Has(phase) || !g.AliveAsAttacker() {
			continue
		}
		if m.inv.IsUniformSplash(i) {
			m.uniformSplashAt(i, defender.army, table, clock, n)
		} else {
			m.unoptimizedAttackAt(i, defender.army, table, clock, n)
		}
	}
}

// uniformSplashAt adds up the damage of the whole group and spreads it over
// the defenders in attack order.
func (m *mechanics) uniformSplashAt(i int, defender *Army, table *DamageTable, clock *Clock, n *narrator) {
	order := m.inv.AttackOrder(i)
	if len(order) == 0 {
		return
	}
	g := &m.army.groups[i]
	n.attack(m.side, g)
	damage := table.Effective[i][order[0]]

	count := g.CountAsAttacker()
	high := m.seqs[i].PeekCountHighDamage(count, clock)
	clock.NextUnits(count)
	total := damage.Low*(count-high) + damage.High*high
	n.uniformSplash(m.side, g, total, count-high, high)

	for _, j := range order {
		target := &defender.groups[j]
		if !target.AliveAsDefender() {
			continue
		}
		before := target.CountAsDefender()
		total = target.DamageSplash(total)
		n.defended("splash", target, before)
		if total == 0 {
			return
		}
	}
}

// unoptimizedAttackAt walks the defenders in attack order, carrying
// overshoot from one to the next.
func (m *mechanics) unoptimizedAttackAt(i int, defender *Army, table *DamageTable, clock *Clock, n *narrator) {
	g := &m.army.groups[i]
	n.attack(m.side, g)

	count := g.CountAsAttacker()
	index, overshoot := 0, 0
	for _, j := range m.inv.AttackOrder(i) {
		target := &defender.groups[j]
		if !target.AliveAsDefender() {
			continue
		}
		overshoot = splash(overshoot, target, n)
		if !target.AliveAsDefender() {
			continue
		}

		if m.inv.IsOneToOne(i, j) {
			index = oneToOne(target, g, index, n)
		} else {
			index, overshoot = hit(target, g, index, table.Effective[i][j], m.seqs[i], clock, n)
		}
		if index >= count {
			break
		}
	}
}

// destruct bombards the camp of defender with the surviving groups and
// returns the number of rounds it takes to bring it down.
func (m *mechanics) destruct(defender *Army, clock *Clock) (int, error) {
	campHitPoints := defender.Camp().HitPoints
	if campHitPoints <= 0 {
		return 0, nil
	}

	damages := make([]DamageRange, len(m.army.groups))
	strongest := 0
	for i := range m.army.groups {
		g := &m.army.groups[i]
		if !g.AliveAsAttacker() {
			continue
		}
		d := g.unit.DamageAt(0)
		if g.unit.Category == Artillery {
			d = DamageRange{Low: 2 * d.Low, High: 2 * d.High}
		}
		damages[i] = d
		strongest += d.High * g.CountAsAttacker()
	}
	if strongest == 0 {
		return 0, fmt.Errorf("%w: %s", ErrCampIndestructible, defender.Camp())
	}

	rounds, idle := 0, 0
	for campHitPoints > 0 {
		dealt := 0
		for i := range m.army.groups {
			g := &m.army.groups[i]
			if !g.AliveAsAttacker() {
				continue
			}
			count := g.CountAsAttacker()
			high := m.seqs[i].PeekCountHighDamage(count, clock)
			dealt += damages[i].High*high + damages[i].Low*(count-high)
			clock.NextUnits(count)
		}
		campHitPoints -= dealt
		clock.NextRound()
		rounds++

		if dealt > 0 {
			idle = 0
		} else if idle++; idle >= maxIdleRounds {
			return rounds, fmt.Errorf("%w: no damage dealt in %d rounds", ErrCampIndestructible, idle)
		}
	}
	return rounds, nil
}
