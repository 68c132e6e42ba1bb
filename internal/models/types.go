package models

import (
	"fmt"

	"github.com/napolitain/settlers-combat/internal/combat"
)

// CampSpec is the file representation of a camp
type CampSpec struct {
	Name            string `yaml:"name" json:"name"`
	HitPoints       int    `yaml:"hit_points" json:"hit_points"`
	DamageReduction int    `yaml:"damage_reduction" json:"damage_reduction"`
}

// SideSpec describes one side of a scenario: its waves and decorations
type SideSpec struct {
	Army   string                    `yaml:"army" json:"army"` // waves separated by "+"
	Camp   CampSpec                  `yaml:"camp" json:"camp"`
	Skills map[string]map[string]int `yaml:"skills" json:"skills,omitempty"`
}

// Scenario is a complete simulation request
type Scenario struct {
	Name         string   `yaml:"name" json:"name"`
	Weather      string   `yaml:"weather" json:"weather"`
	Simulations  int      `yaml:"simulations" json:"simulations"`
	Destructions int      `yaml:"destructions" json:"destructions"`
	Seed         uint64   `yaml:"seed" json:"seed"`
	Criterion    string   `yaml:"criterion" json:"criterion,omitempty"`
	Left         SideSpec `yaml:"left" json:"left"`
	Right        SideSpec `yaml:"right" json:"right"`
}

// Decorator converts the side into a decorator. Camp values out of range
// are rejected.
func (s SideSpec) Decorator() (Decorator, error) {
	var d Decorator
	if s.Camp != (CampSpec{}) {
		camp, err := combat.NewCamp(s.Camp.Name, s.Camp.HitPoints, s.Camp.DamageReduction)
		if err != nil {
			return d, err
		}
		d.Camp = camp
	}
	if len(s.Skills) == 0 {
		return d, nil
	}
	d.Skills = make(map[string]SkillLevels, len(s.Skills))
	for name, raw := range s.Skills {
		levels, err := ParseSkillLevels(raw)
		if err != nil {
			return d, fmt.Errorf("skills of %s: %w", name, err)
		}
		d.Skills[name] = levels
	}
	return d, nil
}

// ApplyConfig fills unset run settings from c
func (s *Scenario) ApplyConfig(c *Config) {
	if s.Simulations == 0 {
		s.Simulations = c.Simulations
	}
	if s.Destructions == 0 {
		s.Destructions = c.Destructions
	}
	if s.Seed == 0 {
		s.Seed = c.Seed
	}
	if s.Weather == "" {
		s.Weather = c.Weather.String()
	}
	if s.Criterion == "" {
		s.Criterion = c.Criterion
	}
}

// Validate checks that both sides have an army and the settings parse
func (s *Scenario) Validate() error {
	if s.Left.Army == "" || s.Right.Army == "" {
		return fmt.Errorf("scenario %q: both armies are required", s.Name)
	}
	if s.Simulations < 0 || s.Destructions < 0 {
		return fmt.Errorf("scenario %q: negative simulation count", s.Name)
	}
	if _, err := combat.ParseWeather(s.Weather); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return nil
}
