// Package simulate runs armies against each other many times and reports
// the empirical distribution of losses and rounds.
package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/napolitain/settlers-combat/internal/combat"
	"github.com/napolitain/settlers-combat/internal/models"
	"github.com/napolitain/settlers-combat/internal/units"
)

// Options controls a simulation run
type Options struct {
	Simulations  int // randomized battles per pairing
	Destructions int // camp destruction samples per battle
	Workers      int
	Seed         uint64 // zero draws a random seed
	Weather      combat.Weather
	Criterion    *Criterion
	// Progress is called from worker goroutines with the number of
	// battles just finished. It must be safe for concurrent use.
	Progress func(battles int)
	Logger   *zap.Logger
}

// OptionsFromConfig builds run options from the settings
func OptionsFromConfig(c *models.Config) Options {
	return Options{
		Simulations:  c.Simulations,
		Destructions: c.Destructions,
		Workers:      c.Workers,
		Seed:         c.Seed,
		Weather:      c.Weather,
	}
}

// Waves holds the armies of one side together with their decoration
type Waves struct {
	Armies    []*combat.Army
	Decorator models.Decorator
}

// Run throws every surviving left wave at each right wave in turn. After
// each pairing the left wave continues with its worst observed losses and
// the right wave with its best observed losses.
func Run(ctx context.Context, left, right Waves, opts Options) (*models.Report, error) {
	if len(left.Armies) == 0 || len(right.Armies) == 0 {
		return nil, fmt.Errorf("both sides need at least one wave")
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}

	attackers, err := decorate(left, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to decorate left army: %w", err)
	}
	defenders, err := decorate(right, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to decorate right army: %w", err)
	}

	start := time.Now()
	report := &models.Report{
		ID:           uuid.NewString(),
		CreatedAt:    start.UTC(),
		Left:         joinWaves(attackers),
		Right:        joinWaves(defenders),
		Weather:      opts.Weather.String(),
		Simulations:  opts.Simulations,
		Destructions: opts.Destructions,
		Seed:         opts.Seed,
	}
	if opts.Criterion != nil {
		report.Criterion = opts.Criterion.String()
	}

	pairing := 0
	for j := range defenders {
		for i := range attackers {
			if !attackers[i].Alive() || !defenders[j].Alive() {
				continue
			}
			opts.Logger.Info("simulating",
				zap.Int("left_wave", i+1),
				zap.Int("right_wave", j+1),
				zap.Stringer("left", attackers[i]),
				zap.Stringer("right", defenders[j]))

			seed := splitmix64(opts.Seed ^ uint64(pairing)<<32)
			battle, nextLeft, nextRight, err := runPairing(ctx, attackers[i], defenders[j], seed, &opts)
			if err != nil {
				return nil, fmt.Errorf("left wave %d vs right wave %d: %w", i+1, j+1, err)
			}
			battle.LeftWave, battle.RightWave = i+1, j+1
			report.Battles = append(report.Battles, *battle)

			attackers[i], defenders[j] = nextLeft, nextRight
			pairing++
		}
	}

	report.Elapsed = time.Since(start)
	opts.Logger.Info("simulation finished",
		zap.String("id", report.ID),
		zap.Int("battles", len(report.Battles)),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

func decorate(w Waves, logger *zap.Logger) ([]*combat.Army, error) {
	out := make([]*combat.Army, len(w.Armies))
	for i, a := range w.Armies {
		out[i] = a.Clone()
		if err := w.Decorator.Decorate(out[i], logger); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func joinWaves(armies []*combat.Army) string {
	s := ""
	for i, a := range armies {
		if i > 0 {
			s += " + "
		}
		s += a.String()
	}
	return s
}

// Bounds are the per-group losses of the two deterministic pairings: the
// lower bound has the side always dealing high damage while the enemy
// deals low damage, the upper bound the reverse.
type Bounds struct {
	LeftLower, LeftUpper   []int
	RightLower, RightUpper []int
}

// CalculateBounds executes the two deterministic pairings
func CalculateBounds(left, right *combat.Army, weather combat.Weather) (*Bounds, error) {
	weak, err := combat.NewBattle(left, right, weather, combat.AlwaysLow, combat.AlwaysHigh)
	if err != nil {
		return nil, err
	}
	if _, err := weak.Execute(nil); err != nil {
		return nil, err
	}

	strong, err := combat.NewBattle(left, right, weather, combat.AlwaysHigh, combat.AlwaysLow)
	if err != nil {
		return nil, err
	}
	if _, err := strong.Execute(nil); err != nil {
		return nil, err
	}

	return &Bounds{
		LeftLower:  strong.CalculateLeftLosses(),
		LeftUpper:  weak.CalculateLeftLosses(),
		RightLower: weak.CalculateRightLosses(),
		RightUpper: strong.CalculateRightLosses(),
	}, nil
}

func runPairing(ctx context.Context, left, right *combat.Army, seed uint64, opts *Options) (*models.BattleReport, *combat.Army, *combat.Army, error) {
	bounds, err := CalculateBounds(left, right, opts.Weather)
	if err != nil {
		return nil, nil, nil, err
	}
	t, err := runTrials(ctx, left, right, seed, opts)
	if err != nil {
		return nil, nil, nil, err
	}

	report := &models.BattleReport{
		Rounds:            t.totalRounds.Distribution(),
		CombatRounds:      t.combatRounds.Distribution(),
		DestructionRounds: t.destructionRounds.Distribution(),
		Indestructible:    t.indestructible,
	}

	worstLeft := left.Clone()
	report.Left = sideReport(left, t.left, bounds.LeftLower, bounds.LeftUpper)
	for k, m := range t.left {
		worstLeft.Group(k).Kill(m.Max())
	}
	worstLeft.Snapshot()

	bestRight := right.Clone()
	report.Right = sideReport(right, t.right, bounds.RightLower, bounds.RightUpper)
	for k, m := range t.right {
		bestRight.Group(k).Kill(m.Min())
	}
	bestRight.Snapshot()

	report.Left.Victories, report.Right.Victories = t.leftWins, t.rightWins
	if n := t.combatRounds.Count(); n > 0 {
		report.Left.Experience = float64(t.leftExperience) / float64(n)
		report.Right.Experience = float64(t.rightExperience) / float64(n)
	}
	if worstLeft.Alive() {
		report.Left.NextWave = worstLeft.String()
	}
	if bestRight.Alive() {
		report.Right.NextWave = bestRight.String()
	}

	if opts.Criterion != nil {
		ok, err := opts.Criterion.Eval(report)
		if err != nil {
			return nil, nil, nil, err
		}
		report.CriterionMet = &ok
	}
	return report, worstLeft, bestRight, nil
}

func sideReport(a *combat.Army, losses []*Measure, lower, upper []int) models.SideReport {
	side := models.SideReport{
		Army:    a.String(),
		Compact: a.Format(units.Codename),
		Traits:  a.Traits().Strings(),
		Groups:  make([]models.GroupLosses, a.Len()),
	}
	levels := models.SkillLevels(a.Skills())
	if len(levels) > 0 {
		side.Skills = levels.String()
	}
	for k, g := range a.Groups() {
		side.Groups[k] = models.GroupLosses{
			Unit:       g.Unit().Name(),
			Count:      g.CountAsAttacker(),
			LowerBound: lower[k],
			UpperBound: upper[k],
			Losses:     losses[k].Distribution(),
		}
	}
	return side
}
