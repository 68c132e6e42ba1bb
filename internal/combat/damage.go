package combat

import "fmt"

// Damage is the offensive profile of a unit: a low/high damage range, the
// chance to deal high damage and the chance to splash.
type Damage struct {
	low      int
	high     int
	accuracy float64
	splash   float64
}

// NewDamage builds a damage value. Out-of-range input is coerced and reported.
func NewDamage(low, high int, accuracy, splashChance float64) (Damage, error) {
	var d Damage
	err := d.Reset(low, high)
	if e := d.SetAccuracy(accuracy); err == nil {
		err = e
	}
	if e := d.SetSplashChance(splashChance); err == nil {
		err = e
	}
	return d, err
}

// MustDamage is NewDamage for literals known to be valid.
func MustDamage(low, high int, accuracy, splashChance float64) Damage {
	d, err := NewDamage(low, high, accuracy, splashChance)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Damage) Low() int              { return d.low }
func (d Damage) High() int             { return d.high }
func (d Damage) Accuracy() float64     { return d.accuracy }
func (d Damage) SplashChance() float64 { return d.splash }

// Reset replaces the damage range. Negative values are raised to zero and a
// low above high is lowered to high.
func (d *Damage) Reset(low, high int) error {
	var err error
	if low < 0 || high < 0 {
		err = fmt.Errorf("%w: negative damage %d-%d", ErrInvalidDamage, low, high)
		low, high = max(low, 0), max(high, 0)
	}
	if low > high {
		if err == nil {
			err = fmt.Errorf("%w: low damage %d exceeds high damage %d", ErrInvalidDamage, low, high)
		}
		low = high
	}
	d.low, d.high = low, high
	return err
}

// SetAccuracy sets the probability of dealing high damage, clamped to [0, 1].
func (d *Damage) SetAccuracy(p float64) error {
	v, err := clampProbability("accuracy", p)
	d.accuracy = v
	return err
}

// SetSplashChance sets the probability of splashing, clamped to [0, 1].
func (d *Damage) SetSplashChance(p float64) error {
	v, err := clampProbability("splash chance", p)
	d.splash = v
	return err
}

func (d Damage) String() string {
	return fmt.Sprintf("%d-%d (%.0f%% accuracy, %.0f%% splash)", d.low, d.high, 100*d.accuracy, 100*d.splash)
}

func clampProbability(name string, p float64) (float64, error) {
	switch {
	case p < 0:
		return 0, fmt.Errorf("%w: %s %v below 0", ErrInvalidDamage, name, p)
	case p > 1:
		return 1, fmt.Errorf("%w: %s %v above 1", ErrInvalidDamage, name, p)
	case p != p:
		return 0, fmt.Errorf("%w: %s is NaN", ErrInvalidDamage, name)
	}
	return p, nil
}

// DamageRange is a realized low/high damage pair with all bonuses applied.
type DamageRange struct {
	Low  int
	High int
}

// pick returns the high or low end of the range.
func (r DamageRange) pick(high bool) int {
	if high {
		return r.High
	}
	return r.Low
}
