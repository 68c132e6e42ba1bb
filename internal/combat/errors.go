package combat

import "errors"

var (
	// ErrDuplicateID is returned when two groups of an army share a unit id.
	ErrDuplicateID = errors.New("duplicate unit id")
	// ErrTooManyGroups is returned when an army exceeds the alive-mask width.
	ErrTooManyGroups = errors.New("too many unit groups")
	ErrInvalidDamage = errors.New("invalid damage")
	ErrInvalidBonus  = errors.New("invalid bonus")
	ErrInvalidCamp   = errors.New("invalid camp")
	ErrInvalidUnit   = errors.New("invalid unit type")
	// ErrInvalidSkillLevel is returned for negative levels or levels above MaxSkillLevel.
	ErrInvalidSkillLevel = errors.New("invalid skill level")
	ErrNegativeFrenzy    = errors.New("frenzy bonus cannot be negative")

	// ErrAlreadyExecuted is returned by Execute when the battle has already run.
	ErrAlreadyExecuted = errors.New("battle already executed")
	// ErrNotExecuted is returned by PeekDestruction before Execute.
	ErrNotExecuted = errors.New("battle not executed yet")
	// ErrCampIndestructible is returned when the victor cannot damage the camp.
	ErrCampIndestructible = errors.New("camp cannot be destroyed")
)
