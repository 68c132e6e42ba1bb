package combat

import (
	"math"
	"math/rand/v2"
	"sort"
)

// RandomizedSequence samples accuracy and splash from the unit's damage
// probabilities. Each sequence owns its generator.
type RandomizedSequence struct {
	rng      *rand.Rand
	accuracy float64
	splash   float64
	lookup   binomialLookup
}

// NewRandomizedSequence seeds a sequence for the group at groupIndex.
func NewRandomizedSequence(g *UnitGroup, groupIndex int, seed uint64) *RandomizedSequence {
	d := g.Unit().Damage
	return &RandomizedSequence{
		rng:      rand.New(rand.NewPCG(seed, uint64(groupIndex)+875)),
		accuracy: d.Accuracy(),
		splash:   d.SplashChance(),
		lookup:   newBinomialLookup(d.Accuracy(), max(g.CountAsAttacker(), 1)),
	}
}

// RandomizedFactory returns a factory of sequences seeded from seed.
func RandomizedFactory(seed uint64) SequenceFactory {
	return func(g *UnitGroup, groupIndex int) Sequence {
		return NewRandomizedSequence(g, groupIndex, seed)
	}
}

func (s *RandomizedSequence) PeekDoHighDamage(*Clock) bool { return bernoulli(s.rng, s.accuracy) }

func (s *RandomizedSequence) PeekCountHighDamage(count int, _ *Clock) int {
	return s.lookup.sample(s.rng, count)
}

func (s *RandomizedSequence) PeekDoSplash(*Clock) bool  { return bernoulli(s.rng, s.splash) }
func (s *RandomizedSequence) DidLastSplash(*Clock) bool { return bernoulli(s.rng, s.splash) }

func bernoulli(rng *rand.Rand, p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return rng.Float64() < p
}

// binomialLookup samples Binomial(n, p) by inverting cumulative
// distributions cached per number of trials.
type binomialLookup struct {
	p    float64
	cdfs [][]float64
}

func newBinomialLookup(p float64, maxTrials int) binomialLookup {
	b := binomialLookup{p: p}
	if p > 0 && p < 1 {
		b.cdfs = make([][]float64, maxTrials+1)
	}
	return b
}

func (b *binomialLookup) sample(rng *rand.Rand, n int) int {
	switch {
	case n <= 0 || b.p <= 0:
		return 0
	case b.p >= 1:
		return n
	}
	cdf := b.cdf(n)
	u := rng.Float64()
	k := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
	return min(k, n)
}

func (b *binomialLookup) cdf(n int) []float64 {
	if n >= len(b.cdfs) {
		b.cdfs = append(b.cdfs, make([][]float64, n+1-len(b.cdfs))...)
	}
	if b.cdfs[n] != nil {
		return b.cdfs[n]
	}
	lp, lq := math.Log(b.p), math.Log1p(-b.p)
	ln, _ := math.Lgamma(float64(n + 1))
	cdf := make([]float64, n+1)
	sum := 0.0
	for k := 0; k <= n; k++ {
		lk, _ := math.Lgamma(float64(k + 1))
		lnk, _ := math.Lgamma(float64(n - k + 1))
		sum += math.Exp(ln - lk - lnk + float64(k)*lp + float64(n-k)*lq)
		cdf[k] = sum
	}
	cdf[n] = 1
	b.cdfs[n] = cdf
	return cdf
}
