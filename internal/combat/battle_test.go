package combat

import (
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBattle_MutualAnnihilation(t *testing.T) {
	brawler := testUnit(t, 1, "Brawler", 100, 10, 10, 1, 0)
	left := testArmy(t, Camp{}, NewUnitGroup(brawler, 10, 0))
	right := testArmy(t, Camp{}, NewUnitGroup(brawler, 10, 0))

	b, err := NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysHigh)
	if err != nil {
		t.Fatal(err)
	}
	rounds, err := b.Execute(nil)
	if err != nil {
		t.Fatal(err)
	}
	r := b.Result()
	if r.LeftAliveMask != 0 || r.RightAliveMask != 0 {
		t.Errorf("expected mutual annihilation, got %s", r)
	}
	// Each round the survivors deal ten damage apiece.
	if rounds != 28 || r.Rounds != 28 {
		t.Errorf("rounds = %d, want 28", rounds)
	}
	if !slices.Equal(b.CalculateLeftLosses(), []int{10}) || !slices.Equal(b.CalculateRightLosses(), []int{10}) {
		t.Errorf("losses = %v / %v, want [10] / [10]", b.CalculateLeftLosses(), b.CalculateRightLosses())
	}
}

func TestBattle_TenRoundDuel(t *testing.T) {
	brawler := testUnit(t, 1, "Brawler", 100, 10, 10, 1, 0)
	left := testArmy(t, Camp{}, NewUnitGroup(brawler, 1, 0))
	right := testArmy(t, Camp{}, NewUnitGroup(brawler, 1, 0))

	b, err := NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysHigh)
	if err != nil {
		t.Fatal(err)
	}
	rounds, _ := b.Execute(nil)
	if rounds != 10 {
		t.Errorf("rounds = %d, want 10", rounds)
	}
	if r := b.Result(); r.LeftAliveMask != r.RightAliveMask {
		t.Errorf("alive masks differ: %s", r)
	}
}

func boundArmies(t *testing.T) (*Army, *Army) {
	t.Helper()
	left := testArmy(t, Camp{},
		NewUnitGroup(recruit(t), 120, 0),
		NewUnitGroup(bowman(t), 60, 1),
		NewUnitGroup(soldier(t), 20, 2),
		NewUnitGroup(cavalry(t), 40, 3))
	tower, _ := NewCamp("Tower", 1500, 50)
	guard := soldier(t)
	guard.ID = 10
	guard.Abilities = NewAbilitySet(TowerBonus)
	right := testArmy(t, tower,
		NewUnitGroup(wildMary(t), 1, 0),
		NewUnitGroup(guard, 60, 1))
	return left, right
}

// Property: bound sequences consume no randomness
func TestBattle_BoundDeterminism(t *testing.T) {
	left, right := boundArmies(t)

	var first CombatResult
	for i := range 20 {
		b, err := NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysLow)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := b.Execute(nil); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = b.Result()
			continue
		}
		if b.Result() != first {
			t.Fatalf("run %d: %s, want %s", i, b.Result(), first)
		}
	}
}

func TestBattle_ResetReplays(t *testing.T) {
	left, right := boundArmies(t)
	b, err := NewBattle(left, right, HeavyFog, AlwaysLow, AlwaysHigh)
	if err != nil {
		t.Fatal(err)
	}
	ground := b.Left().Clone()

	if _, err := b.Execute(nil); err != nil {
		t.Fatal(err)
	}
	first, losses := b.Result(), b.CalculateLeftLosses()

	b.Reset()
	if !b.Left().Equal(ground) {
		t.Error("reset did not restore the left army")
	}
	if _, err := b.Execute(nil); err != nil {
		t.Fatalf("execute after reset: %v", err)
	}
	if b.Result() != first || !slices.Equal(b.CalculateLeftLosses(), losses) {
		t.Errorf("replay differs: %s vs %s", b.Result(), first)
	}
}

func TestBattle_ProtocolErrors(t *testing.T) {
	left, right := boundArmies(t)
	b, err := NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysHigh)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.PeekDestruction(nil); !errors.Is(err, ErrNotExecuted) {
		t.Errorf("PeekDestruction before Execute: %v, want ErrNotExecuted", err)
	}
	if _, err := b.Execute(nil); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Execute(nil); !errors.Is(err, ErrAlreadyExecuted) {
		t.Errorf("second Execute: %v, want ErrAlreadyExecuted", err)
	}
}

func TestBattle_Destruction(t *testing.T) {
	camp, _ := NewCamp("Palisade", 1000, 0)
	right := testArmy(t, camp, NewUnitGroup(bowman(t), 1, 0))

	tests := []struct {
		name     string
		category Category
		seq      SequenceFactory
		want     int
	}{
		{"high", Melee, AlwaysHigh, 3},
		{"low", Melee, AlwaysLow, 5},
		{"artillery", Artillery, AlwaysHigh, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := soldier(t)
			u.Category = tt.category
			left := testArmy(t, Camp{}, NewUnitGroup(u, 10, 0))

			b, err := NewBattle(left, right, NoWeather, tt.seq, AlwaysHigh)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := b.Execute(nil); err != nil {
				t.Fatal(err)
			}
			if !b.Result().IsLeftVictorious() {
				t.Fatalf("left should win: %s", b.Result())
			}
			for range 3 {
				got, err := b.PeekDestruction(nil)
				if err != nil {
					t.Fatal(err)
				}
				if got != tt.want {
					t.Errorf("destruction rounds = %d, want %d", got, tt.want)
				}
			}
			if !b.Clock().IsDestruction() || b.Clock().RoundIndex() != 0 {
				t.Error("PeekDestruction changed the battle clock")
			}
		})
	}
}

func TestBattle_CampIndestructible(t *testing.T) {
	pacifist := testUnit(t, 1, "Pacifist", 10, 0, 0, 1, 0)
	left := testArmy(t, Camp{}, NewUnitGroup(pacifist, 5, 0))
	camp, _ := NewCamp("Fort", 100, 0)
	right := testArmy(t, camp)

	b, err := NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysHigh)
	if err != nil {
		t.Fatal(err)
	}
	if rounds, _ := b.Execute(nil); rounds != 0 {
		t.Errorf("rounds = %d, want 0", rounds)
	}
	if _, err := b.PeekDestruction(nil); !errors.Is(err, ErrCampIndestructible) {
		t.Errorf("err = %v, want ErrCampIndestructible", err)
	}
}

func TestBattle_Stalemate(t *testing.T) {
	pacifist := testUnit(t, 1, "Pacifist", 10, 0, 0, 1, 0)
	left := testArmy(t, Camp{}, NewUnitGroup(pacifist, 5, 0))
	right := testArmy(t, Camp{}, NewUnitGroup(pacifist, 3, 0))

	b, err := NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysHigh)
	if err != nil {
		t.Fatal(err)
	}
	rounds, err := b.Execute(nil)
	if err != nil {
		t.Fatal(err)
	}
	if rounds != 1 {
		t.Errorf("rounds = %d, want 1", rounds)
	}
	if r := b.Result(); r.IsLeftVictorious() || r.IsRightVictorious() {
		t.Errorf("stalemate reported a victor: %s", r)
	}
	if rounds, err := b.PeekDestruction(nil); err != nil || rounds != 0 {
		t.Errorf("PeekDestruction = %d, %v; want 0, nil", rounds, err)
	}
}

func TestBattle_Experience(t *testing.T) {
	victim := bowman(t)
	victim.Experience = 3
	left := testArmy(t, Camp{}, NewUnitGroup(soldier(t), 10, 0))
	right := testArmy(t, Camp{}, NewUnitGroup(victim, 4, 0))
	_ = left.SetSkillLevel(FastLearner, 3)

	b, err := NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysHigh)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Execute(nil); err != nil {
		t.Fatal(err)
	}
	// 4 kills at 3 experience, plus 30%.
	if got := b.LeftExperience(); got != 15 {
		t.Errorf("LeftExperience() = %d, want 15", got)
	}
	if got := b.RightExperience(); got != 0 {
		t.Errorf("RightExperience() = %d, want 0", got)
	}
}

func TestBattle_Narration(t *testing.T) {
	left, right := boundArmies(t)

	core, logs := observer.New(zap.DebugLevel)
	b, _ := NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysHigh)
	if _, err := b.Execute(zap.New(core)); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("begin round").Len() == 0 {
		t.Error("no rounds narrated")
	}
	if logs.FilterMessage("combat over").Len() != 1 {
		t.Error("expected exactly one result entry")
	}

	quiet, quietLogs := observer.New(zap.InfoLevel)
	b, _ = NewBattle(left, right, NoWeather, AlwaysHigh, AlwaysHigh)
	if _, err := b.Execute(zap.New(quiet)); err != nil {
		t.Fatal(err)
	}
	if quietLogs.Len() != 0 {
		t.Errorf("info logger recorded %d entries", quietLogs.Len())
	}
}

func TestMechanics_UniformSplashNarratesAttack(t *testing.T) {
	attackers := testArmy(t, Camp{}, NewUnitGroup(cavalry(t), 20, 0))
	defenders := testArmy(t, Camp{}, NewUnitGroup(recruit(t), 5, 0))
	m := newMechanics("left", attackers, defenders, AlwaysHigh)
	if !m.inv.IsUniformSplash(0) {
		t.Fatal("cavalry should use the uniform splash shortcut")
	}

	core, logs := observer.New(zap.DebugLevel)
	var clock Clock
	m.uniformSplashAt(0, defenders, m.inv.At(0), &clock, newNarrator(zap.New(core)))

	attacks := logs.FilterMessage("attacking").All()
	if len(attacks) != 1 {
		t.Fatalf("attacking entries = %d, want 1", len(attacks))
	}
	if logs.FilterMessage("splash attack").Len() != 1 {
		t.Error("expected one splash attack entry")
	}
	if attacks[0].ContextMap()["side"] != "left" {
		t.Errorf("side = %v, want left", attacks[0].ContextMap()["side"])
	}
}

func TestBattle_RandomizedSeedReproducible(t *testing.T) {
	left, right := boundArmies(t)
	run := func(seed uint64) (CombatResult, []int) {
		b, err := NewBattle(left, right, NoWeather, RandomizedFactory(seed), RandomizedFactory(seed+1))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := b.Execute(nil); err != nil {
			t.Fatal(err)
		}
		return b.Result(), b.CalculateLeftLosses()
	}
	r1, l1 := run(42)
	r2, l2 := run(42)
	if r1 != r2 || !slices.Equal(l1, l2) {
		t.Errorf("same seed gave %s %v and %s %v", r1, l1, r2, l2)
	}
}
