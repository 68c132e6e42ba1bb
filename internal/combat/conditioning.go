package combat

import "fmt"

// Percentages applied by weather and traits.
const (
	sunshineHitPointsRate    = 20
	hurricaneDamageRate      = 20
	interceptDamageRate      = -5
	bombasticDamageRate      = 100
	strategistFriendlyRate   = 50
	strategistEnemyRate      = -50
	strategistExperienceRate = 50
	frenzyRatePerLevel       = 10
	masterPlannerAccuracy    = 0.1
	fastLearnerRatePerLevel  = 10
)

var (
	sniperLowRate = [MaxSkillLevel + 1]int{0, 45, 85, 130}
	overrunRate   = [MaxSkillLevel + 1]int{0, -8, -16, -25}
)

// WithWeather returns a copy of the army with weather effects applied.
func (a *Army) WithWeather(w Weather) *Army {
	c := a.Clone()
	if w == NoWeather {
		return c
	}
	for i := range c.groups {
		u := c.groups[i].unit
		u.applyWeather(w)
		c.groups[i].SetUnit(u)
	}
	// Hit points and abilities may have changed the weakest-target order.
	if err := c.initialize(); err != nil {
		return a.Clone()
	}
	return c
}

// Condition returns a copy of a prepared to fight other: friendly skills,
// enemy skills, friendly traits and enemy traits are applied in that order.
// On failure the returned army is an unmodified copy of a.
func (a *Army) Condition(other *Army) (*Army, error) {
	c := a.Clone()
	if lvl := a.skills[BattleFrenzy]; lvl > 0 {
		if err := c.SetFrenzyBonus(frenzyRatePerLevel * lvl); err != nil {
			return a.Clone(), fmt.Errorf("failed to condition army: %w", err)
		}
	} else {
		c.frenzy = 0
	}

	for i := range c.groups {
		u := c.groups[i].unit.Clone()
		for s := Skill(0); s < skillCount; s++ {
			u.applyFriendlySkill(s, a.skills[s])
		}
		for s := Skill(0); s < skillCount; s++ {
			u.applyEnemySkill(s, other.skills[s])
		}
		a.traits.Each(u.applyFriendlyTrait)
		other.traits.Each(u.applyEnemyTrait)
		if err := u.Validate(); err != nil {
			return a.Clone(), fmt.Errorf("failed to condition army: %w", err)
		}
		c.groups[i].SetUnit(u)
	}
	if err := c.initialize(); err != nil {
		return a.Clone(), fmt.Errorf("failed to condition army: %w", err)
	}
	return c, nil
}

func (u *UnitType) applyWeather(w Weather) {
	switch w {
	case HardFrost:
		if u.Category == Melee {
			_ = u.Damage.SetSplashChance(1)
		}
	case BrightSunshine:
		u.hitPointsBonus.AddRate(sunshineHitPointsRate)
	case HeavyFog:
		u.Abilities = u.Abilities.With(AttackWeakestTarget)
	case Hurricane:
		u.addDamageRate(hurricaneDamageRate)
	}
}

func (u *UnitType) applyFriendlyTrait(t Trait) {
	switch t {
	case ExplosiveAmmunition:
		if u.Category == Ranged {
			u.Abilities = u.Abilities.With(AttackWeakestTarget)
			_ = u.Damage.SetSplashChance(1)
		}
	case Bombastic:
		if u.Category == Artillery {
			u.addDamageRate(bombasticDamageRate)
		}
	case AstuteStrategist:
		if u.Category == Cavalry {
			u.addDamageRate(strategistFriendlyRate)
		}
	}
}

func (u *UnitType) applyEnemyTrait(t Trait) {
	switch t {
	case InterceptTrait:
		u.Abilities = u.Abilities.Without(AttackWeakestTarget)
		u.addDamageRate(interceptDamageRate)
	case DazzleTrait:
		_ = u.Damage.SetAccuracy(0)
	case AstuteStrategist:
		u.experienceBonus.AddRate(strategistExperienceRate)
		if u.Category == Cavalry {
			u.addDamageRate(strategistEnemyRate)
		}
	}
}

// applyFriendlySkill applies level books of the army's own skill s.
func (u *UnitType) applyFriendlySkill(s Skill, level int) {
	if level <= 0 {
		return
	}
	level = min(level, MaxSkillLevel)
	// Level 1, 2, 3 give 33%, 66%, 100%.
	thirds := float64(fractionFloor(100*level, 3)) / 100
	accuracy, splash := 0.0, 0.0

	switch s {
	case Juggernaut:
		if u.Faction != General {
			return
		}
		u.addDamageAdditive(20*level, 20*level)
		splash = thirds
	case GarrisonAnnex:
		if u.Faction != General {
			return
		}
		u.Capacity += 5 * level
	case LightningSlash:
		if u.Faction != General {
			return
		}
		u.Phases = u.Phases.With(LastStrike)
	case UnstoppableCharge:
		if u.Category != Cavalry {
			return
		}
		u.highDamageBonus.AddAdditive(level)
		splash = thirds
	case WeeklyMaintenance:
		if u.Category != Artillery {
			return
		}
		u.addDamageAdditive(10*level, 10*level)
	case MasterPlanner:
		accuracy = masterPlannerAccuracy
	case RapidFire:
		if !u.Abilities.Has(Archer) {
			return
		}
		u.highDamageBonus.AddAdditive(5 * level)
	case SniperTraining:
		if !u.Abilities.Has(Sniper) {
			return
		}
		u.lowDamageBonus.AddRate(sniperLowRate[level])
		u.highDamageBonus.AddRate(5 * level)
	case Cleave:
		if !u.Abilities.Has(Butcher) {
			return
		}
		u.addDamageAdditive(4*level, 4*level)
		splash = thirds
	default:
		return
	}
	_ = u.Damage.SetAccuracy(min(u.Damage.Accuracy()+accuracy, 1))
	_ = u.Damage.SetSplashChance(min(u.Damage.SplashChance()+splash, 1))
}

// applyEnemySkill applies level books of the opposing army's skill s.
func (u *UnitType) applyEnemySkill(s Skill, level int) {
	if level <= 0 {
		return
	}
	level = min(level, MaxSkillLevel)
	switch s {
	case FastLearner:
		u.experienceBonus.AddRate(fastLearnerRatePerLevel * level)
	case Overrun:
		if u.Category == Boss {
			u.hitPointsBonus.AddRate(overrunRate[level])
		}
	}
}

func (u *UnitType) addDamageRate(percent int) {
	u.lowDamageBonus.AddRate(percent)
	u.highDamageBonus.AddRate(percent)
}

func (u *UnitType) addDamageAdditive(low, high int) {
	u.lowDamageBonus.AddAdditive(low)
	u.highDamageBonus.AddAdditive(high)
}
