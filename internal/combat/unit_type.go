package combat

import (
	"fmt"
	"slices"
)

// UnitType holds the per-battle combat stats of a kind of unit. The exported
// fields are the base stats; bonuses are accumulated only while a copy is
// conditioned for a battle and are frozen afterwards.
type UnitType struct {
	ID            int // attack-order key, unique within an army
	Names         []string
	Codenames     []string
	Faction       Faction
	Category      Category
	Capacity      int // number of units a general can lead
	BaseHitPoints int
	Damage        Damage
	Experience    int // experience granted to the enemy per unit killed
	Phases        PhaseSet
	Abilities     AbilitySet
	Traits        TraitSet

	hitPointsBonus  Bonus
	lowDamageBonus  Bonus
	highDamageBonus Bonus
	experienceBonus Bonus
}

// NewUnitType builds a unit that attacks in a single phase.
func NewUnitType(id int, name string, phase Phase, hitPoints int, damage Damage) (UnitType, error) {
	u := UnitType{
		ID:            id,
		Names:         []string{name},
		BaseHitPoints: hitPoints,
		Damage:        damage,
		Phases:        NewPhaseSet(phase),
		Category:      Melee,
		Faction:       Common,
	}
	return u, u.Validate()
}

// Validate rejects units without hit points and out-of-range bonuses.
func (u UnitType) Validate() error {
	if u.BaseHitPoints <= 0 {
		return fmt.Errorf("%w: %s has %d hit points", ErrInvalidUnit, u.Name(), u.BaseHitPoints)
	}
	for _, b := range []Bonus{u.hitPointsBonus, u.lowDamageBonus, u.highDamageBonus, u.experienceBonus} {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%s: %w", u.Name(), err)
		}
	}
	return nil
}

// Name is the display name of the unit.
func (u UnitType) Name() string {
	if len(u.Names) == 0 {
		return "??"
	}
	return u.Names[0]
}

// HitPoints returns the effective hit points of one unit. Never below one.
func (u UnitType) HitPoints() int {
	return max(u.hitPointsBonus.Ceil(u.BaseHitPoints), 1)
}

// DamageAt returns the effective damage range with an extra rate (in percent)
// stacked on top of the accumulated rate bonuses.
func (u UnitType) DamageAt(extraRate int) DamageRange {
	low, high := u.lowDamageBonus, u.highDamageBonus
	low.AddRate(extraRate)
	high.AddRate(extraRate)
	r := DamageRange{Low: low.Floor(u.Damage.Low()), High: high.Floor(u.Damage.High())}
	if r.Low > r.High {
		r.Low = r.High
	}
	return r
}

// ExperienceFor returns the experience granted for killing count units.
func (u UnitType) ExperienceFor(count int) int {
	return u.experienceBonus.Floor(count * u.Experience)
}

func (u UnitType) NeverSplash() bool  { return u.Damage.SplashChance() == 0 }
func (u UnitType) AlwaysSplash() bool { return u.Damage.SplashChance() == 1 }

// Equal compares two unit types, ignoring names.
func (u UnitType) Equal(o UnitType) bool {
	return u.ID == o.ID &&
		u.Faction == o.Faction &&
		u.Category == o.Category &&
		u.Capacity == o.Capacity &&
		u.BaseHitPoints == o.BaseHitPoints &&
		u.Damage == o.Damage &&
		u.Experience == o.Experience &&
		u.Phases == o.Phases &&
		u.Abilities == o.Abilities &&
		u.Traits == o.Traits &&
		u.hitPointsBonus == o.hitPointsBonus &&
		u.lowDamageBonus == o.lowDamageBonus &&
		u.highDamageBonus == o.highDamageBonus &&
		u.experienceBonus == o.experienceBonus
}

// Clone returns a copy that shares nothing mutable with u.
func (u UnitType) Clone() UnitType {
	u.Names = slices.Clone(u.Names)
	u.Codenames = slices.Clone(u.Codenames)
	return u
}

func (u UnitType) String() string {
	return fmt.Sprintf("%s [%d hp, %s]", u.Name(), u.HitPoints(), u.Damage)
}

// compareByID orders unit types by attack-order key.
func compareByID(x, y UnitType) int { return x.ID - y.ID }

// compareByHitPoints orders weak units first: not-weak units go last, then
// fewer hit points first, ties broken by id.
func compareByHitPoints(x, y UnitType) int {
	xs, ys := x.Abilities.Has(NotWeak), y.Abilities.Has(NotWeak)
	if xs != ys {
		if xs {
			return 1
		}
		return -1
	}
	if hx, hy := x.HitPoints(), y.HitPoints(); hx != hy {
		return hx - hy
	}
	return compareByID(x, y)
}
