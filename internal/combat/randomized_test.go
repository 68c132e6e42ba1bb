package combat

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestBinomialLookup_Mean(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := newBinomialLookup(0.8, 50)

	const draws = 20000
	sum := 0
	for range draws {
		k := b.sample(rng, 50)
		if k < 0 || k > 50 {
			t.Fatalf("sample %d outside [0, 50]", k)
		}
		sum += k
	}
	mean := float64(sum) / draws
	if math.Abs(mean-40) > 0.3 {
		t.Errorf("mean = %.3f, want about 40", mean)
	}
}

func TestBinomialLookup_Degenerate(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	never, always := newBinomialLookup(0, 10), newBinomialLookup(1, 10)
	for n := range 12 {
		if got := never.sample(rng, n); got != 0 {
			t.Errorf("p=0: sample(%d) = %d", n, got)
		}
		if got := always.sample(rng, n); got != n {
			t.Errorf("p=1: sample(%d) = %d", n, got)
		}
	}
}

func TestBinomialLookup_GrowsBeyondInitialSize(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	b := newBinomialLookup(0.5, 2)
	if k := b.sample(rng, 100); k < 0 || k > 100 {
		t.Errorf("sample(100) = %d", k)
	}
	if len(b.cdfs) < 101 {
		t.Errorf("cache holds %d entries", len(b.cdfs))
	}
}

func TestTrivialSequence_Overrides(t *testing.T) {
	sure := NewUnitGroup(testUnit(t, 1, "Sure", 10, 1, 2, 1, 0), 5, 0)
	blind := NewUnitGroup(testUnit(t, 2, "Blind", 10, 1, 2, 0, 1), 5, 0)

	var c Clock
	if s := AlwaysLow(&sure, 0); s.PeekCountHighDamage(5, &c) != 5 || s.PeekDoSplash(&c) {
		t.Error("certain accuracy must override always-low; zero splash must stay off")
	}
	if s := AlwaysHigh(&blind, 0); s.PeekDoHighDamage(&c) || !s.DidLastSplash(&c) {
		t.Error("zero accuracy must override always-high")
	}
}
