package simulate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/napolitain/settlers-combat/internal/combat"
)

// chunkSize is the number of trials sharing one battle and one seed. Chunks
// depend only on the trial count, so results do not depend on the number
// of workers.
const chunkSize = 64

type chunk struct {
	start, count int
	seed         uint64
}

// tally accumulates the observations of a set of trials
type tally struct {
	left, right       []*Measure
	combatRounds      *Measure
	destructionRounds *Measure
	totalRounds       *Measure
	leftWins          int
	rightWins         int
	leftExperience    int64
	rightExperience   int64
	indestructible    bool
}

func newTally(leftGroups, rightGroups int) *tally {
	t := &tally{
		left:              make([]*Measure, leftGroups),
		right:             make([]*Measure, rightGroups),
		combatRounds:      NewMeasure(),
		destructionRounds: NewMeasure(),
		totalRounds:       NewMeasure(),
	}
	for i := range t.left {
		t.left[i] = NewMeasure()
	}
	for i := range t.right {
		t.right[i] = NewMeasure()
	}
	return t
}

func (t *tally) merge(o *tally) {
	for i := range t.left {
		t.left[i].Merge(o.left[i])
	}
	for i := range t.right {
		t.right[i].Merge(o.right[i])
	}
	t.combatRounds.Merge(o.combatRounds)
	t.destructionRounds.Merge(o.destructionRounds)
	t.totalRounds.Merge(o.totalRounds)
	t.leftWins += o.leftWins
	t.rightWins += o.rightWins
	t.leftExperience += o.leftExperience
	t.rightExperience += o.rightExperience
	t.indestructible = t.indestructible || o.indestructible
}

// splitmix64 derives independent seeds from one base seed
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func chunks(trials int, seed uint64) []chunk {
	var out []chunk
	for start := 0; start < trials; start += chunkSize {
		out = append(out, chunk{
			start: start,
			count: min(chunkSize, trials-start),
			seed:  splitmix64(seed + uint64(start)),
		})
	}
	return out
}

// runTrials executes opts.Simulations randomized battles between left and
// right across opts.Workers goroutines and merges their tallies.
func runTrials(ctx context.Context, left, right *combat.Army, seed uint64, opts *Options) (*tally, error) {
	work := chunks(opts.Simulations, seed)
	workers := max(min(opts.Workers, len(work)), 1)

	jobs := make(chan chunk, len(work))
	results := make(chan *tally, workers)

	var (
		processed atomic.Int64
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := newTally(left.Len(), right.Len())
			for c := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if err := runChunk(left, right, c, opts, local); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				processed.Add(int64(c.count))
				if opts.Progress != nil {
					opts.Progress(c.count)
				}
			}
			results <- local
		}()
	}

	for _, c := range work {
		jobs <- c
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	total := newTally(left.Len(), right.Len())
	for r := range results {
		total.merge(r)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if n := processed.Load(); n != int64(opts.Simulations) {
		return nil, fmt.Errorf("ran %d of %d simulations", n, opts.Simulations)
	}
	return total, nil
}

// runChunk plays c.count battles on a single battle object, resetting it
// between trials.
func runChunk(left, right *combat.Army, c chunk, opts *Options, t *tally) error {
	leftSeed := splitmix64(c.seed)
	rightSeed := splitmix64(leftSeed)
	b, err := combat.NewBattle(left, right, opts.Weather,
		combat.RandomizedFactory(leftSeed), combat.RandomizedFactory(rightSeed))
	if err != nil {
		return err
	}

	for i := 0; i < c.count; i++ {
		if i > 0 {
			b.Reset()
		}
		rounds, err := b.Execute(nil)
		if err != nil {
			return fmt.Errorf("trial %d: %w", c.start+i, err)
		}

		for k, lost := range b.CalculateLeftLosses() {
			t.left[k].Observe(lost)
		}
		for k, lost := range b.CalculateRightLosses() {
			t.right[k].Observe(lost)
		}
		t.combatRounds.Observe(rounds)
		t.leftExperience += int64(b.LeftExperience())
		t.rightExperience += int64(b.RightExperience())

		result := b.Result()
		switch {
		case result.IsLeftVictorious():
			t.leftWins++
		case result.IsRightVictorious():
			t.rightWins++
		}

		sampled := false
		for j := 0; j < opts.Destructions; j++ {
			d, err := b.PeekDestruction(nil)
			if errors.Is(err, combat.ErrCampIndestructible) {
				t.indestructible = true
				break
			}
			if err != nil {
				return fmt.Errorf("trial %d: %w", c.start+i, err)
			}
			t.destructionRounds.Observe(d)
			t.totalRounds.Observe(rounds + d)
			sampled = true
		}
		if !sampled {
			t.totalRounds.Observe(rounds)
		}
	}
	return nil
}
