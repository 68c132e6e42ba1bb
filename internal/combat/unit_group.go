package combat

import "fmt"

// UnitGroup is a stack of identical units. Its state is a single hit-point
// total: the number of defenders is derived from it, so a partially damaged
// top unit needs no extra bookkeeping. The attacker count is frozen at the
// latest snapshot.
type UnitGroup struct {
	unit          UnitType
	metagroup     int
	countAtSnap   int
	hitPoints     int
	unitHitPoints int
}

// NewUnitGroup creates a group of count units of type u.
func NewUnitGroup(u UnitType, count, metagroup int) UnitGroup {
	count = max(count, 0)
	hp := u.HitPoints()
	return UnitGroup{
		unit:          u,
		metagroup:     metagroup,
		countAtSnap:   count,
		hitPoints:     count * hp,
		unitHitPoints: hp,
	}
}

func (g *UnitGroup) Unit() UnitType { return g.unit }

// SetUnit replaces the unit type, keeping the damage already taken.
func (g *UnitGroup) SetUnit(u UnitType) {
	taken := g.countAtSnap*g.unitHitPoints - g.hitPoints
	hp := u.HitPoints()
	g.unit = u
	g.unitHitPoints = hp
	g.hitPoints = max(g.countAtSnap*hp-taken, 0)
}

func (g *UnitGroup) Metagroup() int { return g.metagroup }

// CountAsAttacker is the number of units that attack in the current phase.
func (g *UnitGroup) CountAsAttacker() int { return g.countAtSnap }

// CountAsDefender is the number of units that can still be hit.
func (g *UnitGroup) CountAsDefender() int { return fractionCeiling(g.hitPoints, g.unitHitPoints) }

func (g *UnitGroup) AliveAsAttacker() bool { return g.countAtSnap > 0 }
func (g *UnitGroup) AliveAsDefender() bool { return g.hitPoints > 0 }

// Snapshot freezes the current defender count as the attacker count.
func (g *UnitGroup) Snapshot() { g.countAtSnap = g.CountAsDefender() }

func (g *UnitGroup) TotalHitPoints() int { return g.hitPoints }

// TopHitPoints returns the hit points of the top unit, zero if the group is dead.
func (g *UnitGroup) TopHitPoints() int {
	if g.hitPoints <= 0 {
		return 0
	}
	if isFractional(g.hitPoints, g.unitHitPoints) {
		return g.hitPoints % g.unitHitPoints
	}
	return g.unitHitPoints
}

func (g *UnitGroup) KillAll() { g.hitPoints = 0 }

func (g *UnitGroup) KillTop() { g.hitPoints -= g.TopHitPoints() }

// Kill removes count defenders, healing the damaged top unit.
func (g *UnitGroup) Kill(count int) {
	g.ResetCount(max(g.CountAsDefender()-count, 0))
}

// ResetCount sets the number of defenders, all at full health.
func (g *UnitGroup) ResetCount(count int) { g.hitPoints = max(count, 0) * g.unitHitPoints }

// HealTop restores the damaged top unit to full health.
func (g *UnitGroup) HealTop() { g.ResetCount(g.CountAsDefender()) }

// DamageTop damages the top unit only; damage beyond its hit points is lost.
func (g *UnitGroup) DamageTop(damage int) {
	g.hitPoints -= min(damage, g.TopHitPoints())
}

// DamageSplash spreads damage over the whole group and returns what is left
// once the group is eliminated.
func (g *UnitGroup) DamageSplash(damage int) int {
	if damage > g.hitPoints {
		damage -= g.hitPoints
		g.hitPoints = 0
		return damage
	}
	g.hitPoints -= damage
	return 0
}

// Equal compares unit type, metagroup, attacker count and hit points.
func (g *UnitGroup) Equal(o *UnitGroup) bool {
	return g.unit.Equal(o.unit) &&
		g.metagroup == o.metagroup &&
		g.countAtSnap == o.countAtSnap &&
		g.hitPoints == o.hitPoints
}

func (g *UnitGroup) String() string {
	return fmt.Sprintf("%d %s", g.countAtSnap, g.unit.Name())
}
