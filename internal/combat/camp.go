package combat

import "fmt"

// Camp is the defensive structure behind which an army fights.
type Camp struct {
	Name            string
	HitPoints       int
	DamageReduction int // percent, applied to defenders with the tower bonus
}

// NewCamp builds a camp, coercing and reporting out-of-range values.
func NewCamp(name string, hitPoints, damageReduction int) (Camp, error) {
	c := Camp{Name: name, HitPoints: hitPoints, DamageReduction: damageReduction}
	err := c.Validate()
	c.coerce()
	return c, err
}

// Validate checks hit points are non-negative and the reduction is a percentage.
func (c Camp) Validate() error {
	if c.HitPoints < 0 {
		return fmt.Errorf("%w: negative hit points %d", ErrInvalidCamp, c.HitPoints)
	}
	if c.DamageReduction < 0 || c.DamageReduction > 100 {
		return fmt.Errorf("%w: damage reduction %d%% outside [0, 100]", ErrInvalidCamp, c.DamageReduction)
	}
	return nil
}

func (c *Camp) coerce() {
	c.HitPoints = max(c.HitPoints, 0)
	c.DamageReduction = min(max(c.DamageReduction, 0), 100)
}

func (c Camp) String() string {
	name := c.Name
	if name == "" {
		name = "camp"
	}
	return fmt.Sprintf("%s (%d hit points, %d%% damage reduction)", name, c.HitPoints, c.DamageReduction)
}
