package combat

import (
	"slices"
	"testing"
)

func TestInvariant_TowerBonus(t *testing.T) {
	tower, _ := NewCamp("Watchtower", 0, 40)
	guard := soldier(t)
	guard.ID = 10
	guard.Abilities = NewAbilitySet(TowerBonus)
	defender := testArmy(t, tower, NewUnitGroup(recruit(t), 10, 0), NewUnitGroup(guard, 10, 0))

	siege := testUnit(t, 7, "Siege", 10, 100, 100, 1, 1)
	siege.Abilities = NewAbilitySet(IgnoreTowerBonus)
	attacker := testArmy(t, Camp{}, NewUnitGroup(cavalry(t), 10, 0), NewUnitGroup(siege, 1, 0))

	inv := NewInvariant(attacker, defender)
	if p := inv.DamagePercent(0, 1); p != 60 {
		t.Errorf("cavalry vs guard = %d%%, want 60%%", p)
	}
	if p := inv.DamagePercent(1, 1); p != 100 {
		t.Errorf("siege vs guard = %d%%, want 100%%", p)
	}
	if inv.IsUniformSplash(0) {
		t.Error("cavalry faces mixed reductions, no uniform splash")
	}
	if !inv.IsUniformSplash(1) {
		t.Error("siege ignores towers, uniform splash expected")
	}
	if eff := inv.At(0).Effective[0][1]; eff.Low != 3 || eff.High != 6 {
		t.Errorf("cavalry effective vs guard = %d-%d, want 3-6", eff.Low, eff.High)
	}
}

// Property: tower reduction and frenzy add up to one rate, additive bonuses stay whole
func TestInvariant_TowerStacksWithFrenzy(t *testing.T) {
	tower, _ := NewCamp("Keep", 0, 50)
	guard := testUnit(t, 2, "Guard", 1000, 1, 1, 1, 0)
	guard.Abilities = NewAbilitySet(TowerBonus)
	defender := testArmy(t, tower, NewUnitGroup(guard, 1, 0))

	knight := testUnit(t, 1, "Knight", 100, 100, 100, 1, 0)
	knight.addDamageAdditive(20, 20)
	attacker := testArmy(t, Camp{}, NewUnitGroup(knight, 1, 0))
	if err := attacker.SetFrenzyBonus(10); err != nil {
		t.Fatal(err)
	}

	inv := NewInvariant(attacker, defender)
	tests := []struct {
		round           int
		pure, effective int
	}{
		{0, 120, 70},
		{1, 130, 80},
		{5, 170, 120},
	}
	for _, tt := range tests {
		table := inv.At(tt.round)
		if got := table.Pure[0].Low; got != tt.pure {
			t.Errorf("round %d: pure = %d, want %d", tt.round, got, tt.pure)
		}
		if got := table.Effective[0][0]; got.Low != tt.effective || got.High != tt.effective {
			t.Errorf("round %d: effective = %d-%d, want %d", tt.round, got.Low, got.High, tt.effective)
		}
	}

	// One-to-one uses the same combined rate.
	brute := testUnit(t, 1, "Brute", 100, 100, 100, 1, 0)
	brute.addDamageAdditive(60, 60)
	small := testUnit(t, 2, "Sentry", 110, 1, 1, 1, 0)
	small.Abilities = NewAbilitySet(TowerBonus)
	inv = NewInvariant(testArmy(t, Camp{}, NewUnitGroup(brute, 1, 0)), testArmy(t, tower, NewUnitGroup(small, 1, 0)))
	if !inv.IsOneToOne(0, 0) {
		t.Error("50 + 60 damage kills a 110 hp sentry, one-to-one expected")
	}
}

func TestInvariant_OneToOne(t *testing.T) {
	killer := testUnit(t, 1, "Killer", 100, 40, 60, 0.7, 0)
	sloppy := testUnit(t, 2, "Sloppy", 100, 30, 60, 0.7, 0)
	attacker := testArmy(t, Camp{}, NewUnitGroup(killer, 1, 0), NewUnitGroup(sloppy, 1, 0))
	defender := testArmy(t, Camp{}, NewUnitGroup(recruit(t), 1, 0), NewUnitGroup(soldier(t), 1, 0))

	inv := NewInvariant(attacker, defender)
	want := [][]bool{{true, false}, {false, false}}
	for i := range want {
		for j := range want[i] {
			if got := inv.IsOneToOne(i, j); got != want[i][j] {
				t.Errorf("IsOneToOne(%d, %d) = %v, want %v", i, j, got, want[i][j])
			}
		}
	}
}

func TestInvariant_AttackOrder(t *testing.T) {
	sniper := bowman(t)
	sniper.ID = 9
	sniper.Abilities = NewAbilitySet(AttackWeakestTarget)
	attacker := testArmy(t, Camp{}, NewUnitGroup(recruit(t), 1, 0), NewUnitGroup(sniper, 1, 0))
	defender := testArmy(t, Camp{},
		NewUnitGroup(soldier(t), 1, 0),
		NewUnitGroup(bowman(t), 1, 0),
		NewUnitGroup(recruit(t), 1, 0))

	inv := NewInvariant(attacker, defender)
	if got := inv.AttackOrder(0); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("by id = %v", got)
	}
	// Bowman (10), recruit (40), soldier (90).
	if got := inv.AttackOrder(1); !slices.Equal(got, []int{1, 0, 2}) {
		t.Errorf("weakest first = %v, want [1 0 2]", got)
	}
}

func TestInvariant_LazyTables(t *testing.T) {
	a := testArmy(t, Camp{}, NewUnitGroup(recruit(t), 10, 0))
	_ = a.SetFrenzyBonus(10)
	inv := NewInvariant(a, testArmy(t, Camp{}, NewUnitGroup(soldier(t), 1, 0)))

	if len(inv.tables) != 1 {
		t.Fatalf("tables = %d, want 1 after construction", len(inv.tables))
	}
	table := inv.At(3)
	if len(inv.tables) != 4 {
		t.Errorf("tables = %d, want 4", len(inv.tables))
	}
	// Round 3 adds 30% to 15-30.
	if table.Pure[0].Low != 19 || table.Pure[0].High != 39 {
		t.Errorf("round 3 damage = %d-%d, want 19-39", table.Pure[0].Low, table.Pure[0].High)
	}
	inv.At(1)
	if len(inv.tables) != 4 {
		t.Error("earlier rounds should not grow the tables")
	}
}

// Property: round index only grows until destruction starts
func TestClock_Monotonic(t *testing.T) {
	var c Clock
	prev := c.RoundIndex()
	for range 50 {
		c.NextPhase()
		c.NextUnits(7)
		c.NextRound()
		if c.RoundIndex() <= prev {
			t.Fatalf("round %d after %d", c.RoundIndex(), prev)
		}
		if c.PhaseIndex() != 0 || c.UnitIndex() != 0 {
			t.Fatalf("phase/unit not reset on new round")
		}
		prev = c.RoundIndex()
	}
	c.StartDestruction()
	if c.RoundIndex() != 0 || !c.IsDestruction() {
		t.Errorf("StartDestruction: round=%d destruction=%v", c.RoundIndex(), c.IsDestruction())
	}
}
