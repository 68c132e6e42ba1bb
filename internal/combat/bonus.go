package combat

import "fmt"

// Bonus accumulates additive and percentage modifiers. Rates stack
// additively: two +10% bonuses give +20%.
type Bonus struct {
	Additive int
	Rate     int
}

func (b *Bonus) AddAdditive(v int) { b.Additive += v }

// AddRate appends a percentage; the total rate never drops below -100%.
func (b *Bonus) AddRate(percent int) {
	b.Rate += percent
	b.coerce()
}

// Validate reports a rate below -100%.
func (b Bonus) Validate() error {
	if b.Rate < -100 {
		return fmt.Errorf("%w: rate %d%% below -100%%", ErrInvalidBonus, b.Rate)
	}
	return nil
}

func (b *Bonus) coerce() {
	if b.Rate < -100 {
		b.Rate = -100
	}
}

// Floor applies the bonus rounding the rate part down. Used for damage and experience.
func (b Bonus) Floor(value int) int {
	return max(value+fractionFloor(value*b.Rate, 100)+b.Additive, 0)
}

// Ceil applies the bonus rounding the rate part up. Used for hit points.
func (b Bonus) Ceil(value int) int {
	return max(value+fractionCeiling(value*b.Rate, 100)+b.Additive, 0)
}

// IsZero reports whether the bonus leaves every value unchanged.
func (b Bonus) IsZero() bool { return b.Additive == 0 && b.Rate == 0 }
