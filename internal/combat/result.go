package combat

import "fmt"

// CombatResult is the terminal state of a battle.
type CombatResult struct {
	LeftAliveMask  uint64
	RightAliveMask uint64
	Rounds         int
}

// IsLeftVictorious reports whether only the left army survived.
func (r CombatResult) IsLeftVictorious() bool {
	return r.LeftAliveMask != 0 && r.RightAliveMask == 0
}

// IsRightVictorious reports whether only the right army survived.
func (r CombatResult) IsRightVictorious() bool {
	return r.RightAliveMask != 0 && r.LeftAliveMask == 0
}

func (r CombatResult) String() string {
	switch {
	case r.IsLeftVictorious():
		return fmt.Sprintf("left victorious after %d rounds", r.Rounds)
	case r.IsRightVictorious():
		return fmt.Sprintf("right victorious after %d rounds", r.Rounds)
	case r.LeftAliveMask == 0 && r.RightAliveMask == 0:
		return fmt.Sprintf("mutual annihilation after %d rounds", r.Rounds)
	default:
		return fmt.Sprintf("stalemate after %d rounds", r.Rounds)
	}
}
