package simulate

import (
	"context"
	"fmt"

	"github.com/napolitain/settlers-combat/internal/armyparse"
	"github.com/napolitain/settlers-combat/internal/combat"
	"github.com/napolitain/settlers-combat/internal/models"
)

// Prepared is a scenario resolved into waves and run options
type Prepared struct {
	Name     string
	Left     Waves
	Right    Waves
	Options  Options
	Warnings []string
}

// Prepare parses both armies of s and compiles its criterion. Workers,
// Progress and Logger are taken from base.
func Prepare(p *armyparse.Parser, s *models.Scenario, parse armyparse.Options, base Options) (*Prepared, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	weather, err := combat.ParseWeather(s.Weather)
	if err != nil {
		return nil, err
	}

	out := &Prepared{Name: s.Name, Options: base}
	out.Options.Simulations = s.Simulations
	out.Options.Destructions = s.Destructions
	out.Options.Seed = s.Seed
	out.Options.Weather = weather
	if s.Criterion != "" {
		if out.Options.Criterion, err = CompileCriterion(s.Criterion); err != nil {
			return nil, err
		}
	}

	sides := []struct {
		label string
		spec  models.SideSpec
		dst   *Waves
	}{
		{"left", s.Left, &out.Left},
		{"right", s.Right, &out.Right},
	}
	for _, side := range sides {
		res, err := p.Parse(side.spec.Army, parse)
		if err != nil {
			return nil, fmt.Errorf("%s army: %w", side.label, err)
		}
		d, err := side.spec.Decorator()
		if err != nil {
			return nil, fmt.Errorf("%s army: %w", side.label, err)
		}
		side.dst.Armies = res.Waves
		side.dst.Decorator = d
		for _, w := range res.Warnings {
			out.Warnings = append(out.Warnings, side.label+": "+w)
		}
	}
	return out, nil
}

// Run simulates the prepared scenario
func (p *Prepared) Run(ctx context.Context) (*models.Report, error) {
	report, err := Run(ctx, p.Left, p.Right, p.Options)
	if err != nil {
		return nil, err
	}
	report.Name = p.Name
	return report, nil
}
