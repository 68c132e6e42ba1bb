package combat

// hit resolves the attack of the group's units, starting at index, on a
// single defending group. damage is the effective damage per unit against
// this defender. Overshoot left by splashing kills is returned for the next
// defender.
//
// Returns the index of the next attacking unit and the overshoot.
func hit(defender, attacker *UnitGroup, index int, damage DamageRange,
	seq Sequence, clock *Clock, n *narrator) (int, int) {
	before := defender.CountAsDefender()
	if before == 0 {
		return index, 0
	}
	remaining := attacker.CountAsAttacker() - index
	overshoot := 0

	for remaining > 0 && defender.AliveAsDefender() {
		required := defender.TopHitPoints()

		// Least number of units needed to kill the top defender.
		count := remaining
		if damage.High > 0 {
			count = min(fractionCeiling(required, damage.High), remaining)
		}
		high := seq.PeekCountHighDamage(count, clock)
		clock.NextUnits(count)
		index += count
		remaining -= count

		dealt := damage.High*high + damage.Low*(count-high)
		if dealt > required {
			defender.KillTop()
			if seq.DidLastSplash(clock) {
				overshoot = dealt - required
			} else {
				overshoot = 0
			}
		} else {
			defender.DamageTop(dealt)
			overshoot = 0
		}

		// Overshoot spreads over the rest of the group, unit by unit.
		for overshoot > 0 && defender.AliveAsDefender() {
			required = defender.TopHitPoints()
			if overshoot > required {
				overshoot -= required
				defender.KillTop()
				continue
			}
			defender.DamageTop(overshoot)
			overshoot = 0
		}
	}
	n.defended("hit", defender, before)
	return index, overshoot
}

// splash applies a damage pool to the whole defending group and returns
// what is left of it once the group is eliminated.
func splash(damage int, defender *UnitGroup, n *narrator) int {
	if damage <= 0 || !defender.AliveAsDefender() {
		return max(damage, 0)
	}
	before := defender.CountAsDefender()
	damage = defender.DamageSplash(damage)
	n.defended("overshoot", defender, before)
	return damage
}

// oneToOne resolves an attack in which every attacking unit kills exactly one
// defending unit.
func oneToOne(defender, attacker *UnitGroup, index int, n *narrator) int {
	remaining := attacker.CountAsAttacker() - index
	defenders := defender.CountAsDefender()
	defer n.defended("one to one", defender, defenders)
	if remaining > defenders {
		defender.KillAll()
		return index + defenders
	}
	defender.ResetCount(defenders - remaining)
	return attacker.CountAsAttacker()
}
