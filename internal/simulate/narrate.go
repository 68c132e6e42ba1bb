package simulate

import (
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/napolitain/settlers-combat/internal/combat"
)

// Narration is the outcome of a single narrated battle
type Narration struct {
	Result            combat.CombatResult
	LeftLosses        []int
	RightLosses       []int
	DestructionRounds int
	Indestructible    bool
	Seed              uint64
}

// Narrate runs one randomized battle with the given logger at debug level
// receiving every round, phase and attack.
func Narrate(left, right *combat.Army, weather combat.Weather, seed uint64, logger *zap.Logger) (*Narration, error) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	leftSeed := splitmix64(seed)
	b, err := combat.NewBattle(left, right, weather,
		combat.RandomizedFactory(leftSeed), combat.RandomizedFactory(splitmix64(leftSeed)))
	if err != nil {
		return nil, err
	}
	if _, err := b.Execute(logger); err != nil {
		return nil, err
	}

	n := &Narration{
		Result:      b.Result(),
		LeftLosses:  b.CalculateLeftLosses(),
		RightLosses: b.CalculateRightLosses(),
		Seed:        seed,
	}
	d, err := b.PeekDestruction(logger)
	switch {
	case errors.Is(err, combat.ErrCampIndestructible):
		n.Indestructible = true
	case err != nil:
		return nil, err
	default:
		n.DestructionRounds = d
	}
	return n, nil
}
