package units

import (
	"github.com/napolitain/settlers-combat/internal/combat"
)

// unit builds a catalog entry. Values are literals so errors cannot occur.
func unit(id int, name, codename string, faction combat.Faction, category combat.Category,
	phase combat.Phase, hitPoints int, damage combat.Damage, experience int) combat.UnitType {
	return combat.UnitType{
		ID:            id,
		Names:         []string{name},
		Codenames:     []string{codename},
		Faction:       faction,
		Category:      category,
		BaseHitPoints: hitPoints,
		Damage:        damage,
		Experience:    experience,
		Phases:        combat.NewPhaseSet(phase),
	}
}

// AllUnits returns all known units (hardcoded from the game's unit tables)
func AllUnits() []combat.UnitType {
	d := combat.MustDamage
	all := []combat.UnitType{
		// Player units
		unit(1, "Recruit", "R", combat.Common, combat.Melee, combat.Normal, 40, d(15, 30, 0.8, 0), 0),
		unit(2, "Militia", "M", combat.Common, combat.Melee, combat.Normal, 60, d(20, 40, 0.8, 0), 0),
		unit(3, "Cavalry", "C", combat.Common, combat.Cavalry, combat.FirstStrike, 5, d(5, 10, 0.8, 0), 0),
		unit(4, "Soldier", "S", combat.Common, combat.Melee, combat.Normal, 90, d(20, 40, 0.85, 0), 0),
		unit(5, "Elite Soldier", "E", combat.Common, combat.Melee, combat.Normal, 120, d(20, 40, 0.9, 0), 0),
		unit(6, "Bowman", "B", combat.Common, combat.Ranged, combat.Normal, 10, d(20, 40, 0.8, 0), 0),
		unit(7, "Longbowman", "LB", combat.Common, combat.Ranged, combat.Normal, 10, d(30, 60, 0.8, 0), 0),
		unit(8, "Crossbowman", "A", combat.Common, combat.Ranged, combat.Normal, 90, d(45, 90, 0.8, 0), 0),
		unit(9, "Cannoneer", "K", combat.Common, combat.Artillery, combat.LastStrike, 60, d(60, 120, 0.9, 0), 0),
		unit(10, "General", "G", combat.General, combat.Melee, combat.Normal, 1, d(120, 120, 0.8, 1), 0),

		// Bandits
		unit(101, "Guard Dog", "GD", combat.NonPlayerAdventure, combat.Cavalry, combat.FirstStrike, 5, d(5, 10, 0.6, 0), 1),
		unit(102, "Scavenger", "SC", combat.NonPlayerAdventure, combat.Melee, combat.Normal, 40, d(15, 30, 0.6, 0), 1),
		unit(103, "Thug", "TH", combat.NonPlayerAdventure, combat.Melee, combat.Normal, 60, d(20, 40, 0.6, 0), 2),
		unit(104, "Roughneck", "RN", combat.NonPlayerAdventure, combat.Melee, combat.Normal, 90, d(20, 40, 0.6, 0), 4),
		unit(105, "Stone Thrower", "ST", combat.NonPlayerAdventure, combat.Ranged, combat.Normal, 10, d(20, 40, 0.6, 0), 3),
		unit(106, "Ranger", "RA", combat.NonPlayerAdventure, combat.Ranged, combat.Normal, 10, d(30, 60, 0.6, 0), 4),

		// Bosses
		unit(201, "Chuck", "CH", combat.NonPlayerAdventure, combat.Boss, combat.FirstStrike, 9000, d(2000, 2500, 0.5, 1), 200),
		unit(202, "Metal Tooth", "MT", combat.NonPlayerAdventure, combat.Boss, combat.Normal, 11000, d(250, 500, 0.5, 1), 300),
		unit(203, "Skunk", "SK", combat.NonPlayerAdventure, combat.Boss, combat.LastStrike, 5000, d(1, 100, 0.5, 1), 150),
		unit(204, "Wild Mary", "WM", combat.NonPlayerAdventure, combat.Boss, combat.LastStrike, 60000, d(740, 800, 0.5, 1), 400),
	}

	for i := range all {
		switch all[i].Codenames[0] {
		case "C", "GD":
			all[i].Abilities = combat.NewAbilitySet(combat.AttackWeakestTarget)
		case "K":
			all[i].Abilities = combat.NewAbilitySet(combat.IgnoreTowerBonus)
			all[i].Traits = combat.NewTraitSet(combat.Bombastic)
		case "G":
			all[i].Capacity = 200
			all[i].Abilities = combat.NewAbilitySet(combat.NotWeak)
		case "E":
			all[i].Names = append(all[i].Names, "Elite")
		case "A":
			all[i].Names = append(all[i].Names, "Arbalest")
		case "MT":
			all[i].Traits = combat.NewTraitSet(combat.InterceptTrait)
		case "WM":
			all[i].Traits = combat.NewTraitSet(combat.DazzleTrait)
		}
	}
	return all
}

// PlayerUnits returns only units the player can train or lead
func PlayerUnits() []combat.UnitType {
	var player []combat.UnitType
	for _, u := range AllUnits() {
		if u.Faction != combat.NonPlayerAdventure && u.Faction != combat.NonPlayerExpedition {
			player = append(player, u)
		}
	}
	return player
}

// EnemyUnits returns only adventure and expedition enemies
func EnemyUnits() []combat.UnitType {
	var enemy []combat.UnitType
	for _, u := range AllUnits() {
		if u.Faction == combat.NonPlayerAdventure || u.Faction == combat.NonPlayerExpedition {
			enemy = append(enemy, u)
		}
	}
	return enemy
}

// Bosses returns only boss units
func Bosses() []combat.UnitType {
	var bosses []combat.UnitType
	for _, u := range AllUnits() {
		if u.Category == combat.Boss {
			bosses = append(bosses, u)
		}
	}
	return bosses
}
