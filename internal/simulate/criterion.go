package simulate

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/napolitain/settlers-combat/internal/models"
)

// criterionVariables are the names available to criterion expressions.
var criterionVariables = map[string]*cel.Type{
	"simulations":             cel.IntType,
	"left_victory_rate":       cel.DoubleType,
	"right_victory_rate":      cel.DoubleType,
	"rounds_mean":             cel.DoubleType,
	"rounds_max":              cel.IntType,
	"combat_rounds_mean":      cel.DoubleType,
	"combat_rounds_max":       cel.IntType,
	"destruction_rounds_mean": cel.DoubleType,
	"destruction_rounds_max":  cel.IntType,
	"left_losses_mean":        cel.DoubleType,
	"left_losses_max":         cel.IntType,
	"right_losses_mean":       cel.DoubleType,
	"right_losses_max":        cel.IntType,
	"left_experience":         cel.DoubleType,
	"right_experience":        cel.DoubleType,
	"indestructible":          cel.BoolType,
}

// Criterion is a compiled boolean CEL expression judged against each
// battle of a report, e.g. "left_victory_rate >= 0.99 && left_losses_max < 30".
type Criterion struct {
	expr    string
	program cel.Program
}

// CompileCriterion compiles expr. The expression must evaluate to a bool.
func CompileCriterion(expr string) (*Criterion, error) {
	opts := make([]cel.EnvOption, 0, len(criterionVariables))
	for name, typ := range criterionVariables {
		opts = append(opts, cel.Variable(name, typ))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create criterion environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("failed to compile criterion %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("criterion %q must be a bool expression, got %s", expr, ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build criterion %q: %w", expr, err)
	}
	return &Criterion{expr: expr, program: prog}, nil
}

func (c *Criterion) String() string { return c.expr }

// Eval judges one battle report
func (c *Criterion) Eval(b *models.BattleReport) (bool, error) {
	out, _, err := c.program.Eval(criterionInput(b))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate criterion %q: %w", c.expr, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("criterion %q returned %T", c.expr, out.Value())
	}
	return ok, nil
}

func criterionInput(b *models.BattleReport) map[string]any {
	n := b.CombatRounds.Count
	rate := func(wins int) float64 {
		if n == 0 {
			return 0
		}
		return float64(wins) / float64(n)
	}
	// Losses sum over groups; the max is the sum of per-group maxima.
	losses := func(groups []models.GroupLosses) (float64, int64) {
		mean, worst := 0.0, int64(0)
		for _, g := range groups {
			mean += g.Losses.Mean
			worst += int64(g.Losses.Max)
		}
		return mean, worst
	}

	leftMean, leftMax := losses(b.Left.Groups)
	rightMean, rightMax := losses(b.Right.Groups)

	return map[string]any{
		"simulations":             int64(n),
		"left_victory_rate":       rate(b.Left.Victories),
		"right_victory_rate":      rate(b.Right.Victories),
		"rounds_mean":             b.Rounds.Mean,
		"rounds_max":              int64(b.Rounds.Max),
		"combat_rounds_mean":      b.CombatRounds.Mean,
		"combat_rounds_max":       int64(b.CombatRounds.Max),
		"destruction_rounds_mean": b.DestructionRounds.Mean,
		"destruction_rounds_max":  int64(b.DestructionRounds.Max),
		"left_losses_mean":        leftMean,
		"left_losses_max":         leftMax,
		"right_losses_mean":       rightMean,
		"right_losses_max":        rightMax,
		"left_experience":         b.Left.Experience,
		"right_experience":        b.Right.Experience,
		"indestructible":          b.Indestructible,
	}
}
