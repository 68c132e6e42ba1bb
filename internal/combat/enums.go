package combat

import (
	"fmt"
	"strings"
)

// Faction tells player-controlled units from adventure and expedition enemies.
type Faction int

const (
	NonPlayerAdventure Faction = iota
	NonPlayerExpedition
	General
	Expedition
	Common
	Elite
)

var factionNames = []string{"non player adventure", "non player expedition", "general", "expedition", "common", "elite"}

func (f Faction) String() string { return enumName(factionNames, int(f)) }

// ParseFaction accepts both "non player adventure" and "non_player_adventure".
func ParseFaction(s string) (Faction, error) {
	i, err := parseEnum(factionNames, "faction", s)
	return Faction(i), err
}

// Category is the unit classification used by skills and traits.
type Category int

const (
	Unknown Category = iota
	Melee
	Ranged
	Cavalry
	Artillery
	EliteCategory
	Boss
)

var categoryNames = []string{"unknown", "melee", "ranged", "cavalry", "artillery", "elite", "boss"}

func (c Category) String() string { return enumName(categoryNames, int(c)) }

func ParseCategory(s string) (Category, error) {
	i, err := parseEnum(categoryNames, "category", s)
	return Category(i), err
}

// Phase is a sub-round of a combat round.
type Phase int

const (
	FirstStrike Phase = iota
	Normal
	LastStrike
)

// Phases lists the sub-rounds in the order they are resolved.
var Phases = []Phase{FirstStrike, Normal, LastStrike}

var phaseNames = []string{"first strike", "normal", "last strike"}

func (p Phase) String() string { return enumName(phaseNames, int(p)) }

func ParsePhase(s string) (Phase, error) {
	i, err := parseEnum(phaseNames, "phase", s)
	return Phase(i), err
}

// Ability is a special ability of a unit type.
type Ability int

const (
	AttackWeakestTarget Ability = iota
	NotWeak
	TowerBonus
	IgnoreTowerBonus
	Archer
	Sniper
	Butcher
)

var abilityNames = []string{"attack weakest target", "not weak", "tower bonus", "ignore tower bonus", "archer", "sniper", "butcher"}

func (a Ability) String() string { return enumName(abilityNames, int(a)) }

func ParseAbility(s string) (Ability, error) {
	i, err := parseEnum(abilityNames, "ability", s)
	return Ability(i), err
}

// Skill is a battle skill an army invests levels in.
type Skill int

const (
	Juggernaut Skill = iota
	GarrisonAnnex
	LightningSlash
	UnstoppableCharge
	WeeklyMaintenance
	MasterPlanner
	BattleFrenzy
	RapidFire
	SniperTraining
	Cleave
	FastLearner
	Overrun
	skillCount
)

// MaxSkillLevel is the highest level any skill can be invested to.
const MaxSkillLevel = 3

var skillNames = []string{
	"juggernaut", "garrison annex", "lightning slash", "unstoppable charge", "weekly maintenance",
	"master planner", "battle frenzy", "rapid fire", "sniper training", "cleave", "fast learner", "overrun",
}

func (s Skill) String() string { return enumName(skillNames, int(s)) }

func ParseSkill(s string) (Skill, error) {
	i, err := parseEnum(skillNames, "skill", s)
	return Skill(i), err
}

// Trait is a unit trait that affects the entire battle.
type Trait int

const (
	DazzleTrait Trait = iota
	InterceptTrait
	ExplosiveAmmunition
	Bombastic
	AstuteStrategist
	traitCount
)

var traitNames = []string{"dazzle", "intercept", "explosive ammunition", "bombastic", "astute strategist"}

func (t Trait) String() string { return enumName(traitNames, int(t)) }

func ParseTrait(s string) (Trait, error) {
	i, err := parseEnum(traitNames, "trait", s)
	return Trait(i), err
}

// Weather modifies both armies before they are conditioned.
type Weather int

const (
	NoWeather Weather = iota
	HardFrost
	BrightSunshine
	HeavyFog
	Hurricane
)

var weatherNames = []string{"none", "hard frost", "bright sunshine", "heavy fog", "hurricane"}

func (w Weather) String() string { return enumName(weatherNames, int(w)) }

func ParseWeather(s string) (Weather, error) {
	if strings.TrimSpace(s) == "" {
		return NoWeather, nil
	}
	i, err := parseEnum(weatherNames, "weather", s)
	return Weather(i), err
}

// PhaseSet, AbilitySet and TraitSet are bit sets over the matching enum.
type (
	PhaseSet   uint8
	AbilitySet uint16
	TraitSet   uint16
)

func NewPhaseSet(phases ...Phase) PhaseSet {
	var s PhaseSet
	for _, p := range phases {
		s = s.With(p)
	}
	return s
}

func (s PhaseSet) Has(p Phase) bool         { return s&(1<<p) != 0 }
func (s PhaseSet) With(p Phase) PhaseSet    { return s | 1<<p }
func (s PhaseSet) Without(p Phase) PhaseSet { return s &^ (1 << p) }

func NewAbilitySet(abilities ...Ability) AbilitySet {
	var s AbilitySet
	for _, a := range abilities {
		s = s.With(a)
	}
	return s
}

func (s AbilitySet) Has(a Ability) bool           { return s&(1<<a) != 0 }
func (s AbilitySet) With(a Ability) AbilitySet    { return s | 1<<a }
func (s AbilitySet) Without(a Ability) AbilitySet { return s &^ (1 << a) }

func NewTraitSet(traits ...Trait) TraitSet {
	var s TraitSet
	for _, t := range traits {
		s = s.With(t)
	}
	return s
}

func (s TraitSet) Has(t Trait) bool          { return s&(1<<t) != 0 }
func (s TraitSet) With(t Trait) TraitSet     { return s | 1<<t }
func (s TraitSet) Union(o TraitSet) TraitSet { return s | o }

// Each calls fn for every trait in the set, in declaration order.
func (s TraitSet) Each(fn func(Trait)) {
	for t := Trait(0); t < traitCount; t++ {
		if s.Has(t) {
			fn(t)
		}
	}
}

// Strings lists the names of the traits in the set.
func (s TraitSet) Strings() []string {
	var names []string
	s.Each(func(t Trait) { names = append(names, t.String()) })
	return names
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func parseEnum(names []string, kind, s string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	for i, name := range names {
		if name == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unrecognized %s %q", kind, s)
}
