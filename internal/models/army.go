package models

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/napolitain/settlers-combat/internal/combat"
)

// SkillLevels maps skills to invested levels
type SkillLevels map[combat.Skill]int

// Decorator holds the per-side settings applied to every wave of an army:
// the camp it defends and the skills invested by each named unit
// (typically a general).
type Decorator struct {
	Camp   combat.Camp
	Skills map[string]SkillLevels // unit name -> levels
}

// Decorate overwrites the camp of a and resets its skills, then applies the
// skill levels of every unit present among the alive groups. Later units
// override earlier ones for the same skill.
func (d Decorator) Decorate(a *combat.Army, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	a.SetCamp(d.Camp)
	a.ResetSkills()

	for _, name := range d.names() {
		if !hasAliveUnit(a, name) {
			continue
		}
		levels := d.Skills[name]
		for _, skill := range sortedSkills(levels) {
			level := levels[skill]
			if level == 0 {
				continue
			}
			if err := a.SetSkillLevel(skill, level); err != nil {
				return fmt.Errorf("failed to apply skills of %s: %w", name, err)
			}
		}
		logger.Debug("skills applied", zap.String("unit", name), zap.String("skills", levels.String()))
	}
	return nil
}

// IsZero reports whether the decorator changes nothing but clearing skills.
func (d Decorator) IsZero() bool {
	return d.Camp == (combat.Camp{}) && len(d.Skills) == 0
}

func (d Decorator) names() []string {
	names := make([]string, 0, len(d.Skills))
	for name := range d.Skills {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (d Decorator) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "camp: %s\n", d.Camp)
	if len(d.Skills) == 0 {
		b.WriteString("skills: none")
		return b.String()
	}
	b.WriteString("skills:")
	for _, name := range d.names() {
		fmt.Fprintf(&b, "\n\t%s: %s", name, d.Skills[name])
	}
	return b.String()
}

// String lists the non-zero levels as "skill (level)".
func (s SkillLevels) String() string {
	var parts []string
	for _, skill := range sortedSkills(s) {
		if s[skill] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", skill, s[skill]))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// ParseSkillLevels converts a name -> level map, as found in config files.
func ParseSkillLevels(raw map[string]int) (SkillLevels, error) {
	levels := make(SkillLevels, len(raw))
	for name, level := range raw {
		skill, err := combat.ParseSkill(name)
		if err != nil {
			return nil, err
		}
		levels[skill] = level
	}
	return levels, nil
}

func sortedSkills(s SkillLevels) []combat.Skill {
	skills := make([]combat.Skill, 0, len(s))
	for skill := range s {
		skills = append(skills, skill)
	}
	slices.Sort(skills)
	return skills
}

func hasAliveUnit(a *combat.Army, name string) bool {
	for _, g := range a.Groups() {
		if g.CountAsAttacker() == 0 {
			continue
		}
		u := g.Unit()
		for _, n := range u.Names {
			if strings.EqualFold(n, name) {
				return true
			}
		}
	}
	return false
}
