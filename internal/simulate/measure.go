package simulate

import (
	"math"
	"slices"

	"github.com/napolitain/settlers-combat/internal/models"
)

// Measure is an empirical distribution over non-negative integers
type Measure struct {
	counts map[int]int
	n      int
	sum    float64
	min    int
	max    int
}

func NewMeasure() *Measure {
	return &Measure{counts: make(map[int]int)}
}

// Observe records one observation of v
func (m *Measure) Observe(v int) {
	m.ObserveN(v, 1)
}

// ObserveN records count observations of v
func (m *Measure) ObserveN(v, count int) {
	if count <= 0 {
		return
	}
	if m.counts == nil {
		m.counts = make(map[int]int)
	}
	if m.n == 0 || v < m.min {
		m.min = v
	}
	if m.n == 0 || v > m.max {
		m.max = v
	}
	m.counts[v] += count
	m.n += count
	m.sum += float64(v) * float64(count)
}

// Merge adds every observation of o to m
func (m *Measure) Merge(o *Measure) {
	for v, c := range o.counts {
		m.ObserveN(v, c)
	}
}

func (m *Measure) Count() int   { return m.n }
func (m *Measure) Empty() bool  { return m.n == 0 }
func (m *Measure) Min() int     { return m.min }
func (m *Measure) Max() int     { return m.max }
func (m *Measure) Sum() float64 { return m.sum }

// Mean returns NaN for an empty measure
func (m *Measure) Mean() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}

// Values returns the observed values in ascending order
func (m *Measure) Values() []int {
	values := make([]int, 0, len(m.counts))
	for v := range m.counts {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// CountOf returns how many times v was observed
func (m *Measure) CountOf(v int) int { return m.counts[v] }

// Quantile returns the smallest observed value whose cumulative frequency
// reaches p. Empty measures return zero.
func (m *Measure) Quantile(p float64) int {
	if m.n == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	target := max(int(math.Ceil(p*float64(m.n))), 1)
	seen := 0
	for _, v := range m.Values() {
		seen += m.counts[v]
		if seen >= target {
			return v
		}
	}
	return m.max
}

// Distribution summarizes the measure for reports
func (m *Measure) Distribution() models.Distribution {
	d := models.Distribution{
		Count:  m.n,
		Min:    m.min,
		Max:    m.max,
		Median: m.Quantile(0.5),
		P95:    m.Quantile(0.95),
	}
	if m.n == 0 {
		return d
	}
	d.Mean = m.Mean()
	d.Values = m.Values()
	d.Counts = make([]int, len(d.Values))
	for i, v := range d.Values {
		d.Counts[i] = m.counts[v]
	}
	return d
}
