package combat

import (
	"errors"
	"slices"
	"testing"
)

// Property: the army does not depend on the order groups are given in
func TestArmy_OrderingInvariance(t *testing.T) {
	g1 := NewUnitGroup(recruit(t), 100, 0)
	g2 := NewUnitGroup(bowman(t), 50, 1)
	g3 := NewUnitGroup(soldier(t), 20, 1)

	a := testArmy(t, Camp{}, g1, g2, g3)
	b := testArmy(t, Camp{}, g3, g1, g2)
	c := testArmy(t, Camp{}, g1, g3, g2)

	if !a.Equal(b) || !a.Equal(c) {
		t.Errorf("armies differ by input order:\n%s\n%s\n%s", a, b, c)
	}
	for i := 1; i < a.Len(); i++ {
		if a.Group(i-1).Unit().ID >= a.Group(i).Unit().ID {
			t.Errorf("groups not sorted by id: %s", a)
		}
	}
}

// Property: changing a metagroup changes the masks and the army
func TestArmy_MetagroupSensitivity(t *testing.T) {
	a := testArmy(t, Camp{},
		NewUnitGroup(recruit(t), 100, 0),
		NewUnitGroup(bowman(t), 50, 1),
		NewUnitGroup(soldier(t), 20, 1))
	b := testArmy(t, Camp{},
		NewUnitGroup(recruit(t), 100, 0),
		NewUnitGroup(bowman(t), 50, 1),
		NewUnitGroup(soldier(t), 20, 2))

	if want := []uint64{0b110}; !slices.Equal(a.MetagroupMasks(), want) {
		t.Errorf("masks = %b, want %b", a.MetagroupMasks(), want)
	}
	if len(b.MetagroupMasks()) != 0 {
		t.Errorf("masks = %b, want none", b.MetagroupMasks())
	}
	if a.Equal(b) {
		t.Error("armies with different metagroups compare equal")
	}
}

func TestArmy_DuplicateID(t *testing.T) {
	_, err := NewArmy([]UnitGroup{
		NewUnitGroup(recruit(t), 1, 0),
		NewUnitGroup(recruit(t), 2, 1),
	}, Camp{})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
}

func TestArmy_TooManyGroups(t *testing.T) {
	groups := make([]UnitGroup, MaxGroups+1)
	for i := range groups {
		groups[i] = NewUnitGroup(testUnit(t, i, "Dummy", 10, 1, 2, 0.5, 0), 1, i)
	}
	if _, err := NewArmy(groups, Camp{}); !errors.Is(err, ErrTooManyGroups) {
		t.Errorf("err = %v, want ErrTooManyGroups", err)
	}
	if _, err := NewArmy(groups[:MaxGroups], Camp{}); err != nil {
		t.Errorf("%d groups should be accepted: %v", MaxGroups, err)
	}
}

func TestArmy_OrderByHitPoints(t *testing.T) {
	tank := testUnit(t, 5, "Tank", 1, 1, 1, 1, 0)
	tank.Abilities = NewAbilitySet(NotWeak)
	a := testArmy(t, Camp{},
		NewUnitGroup(soldier(t), 1, 0), // 90 hp
		NewUnitGroup(bowman(t), 1, 0),  // 10 hp
		NewUnitGroup(recruit(t), 1, 0), // 40 hp
		NewUnitGroup(tank, 1, 0))       // weakest, but not weak

	var names []string
	for _, i := range a.OrderByHitPoints() {
		names = append(names, a.Group(i).Unit().Name())
	}
	want := []string{"Bowman", "Recruit", "Soldier", "Tank"}
	if !slices.Equal(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestArmy_AliveMask(t *testing.T) {
	a := testArmy(t, Camp{},
		NewUnitGroup(recruit(t), 3, 0),
		NewUnitGroup(bowman(t), 0, 0),
		NewUnitGroup(soldier(t), 1, 0))
	if got := a.AliveMask(); got != 0b101 {
		t.Errorf("AliveMask() = %b, want 101", got)
	}
	if got := len(a.ByMask(0b100)); got != 1 {
		t.Errorf("ByMask selected %d groups, want 1", got)
	}
	if got := a.String(); got != "3 Recruit 1 Soldier" {
		t.Errorf("String() = %q", got)
	}
}

func TestArmy_SkillLevelClamped(t *testing.T) {
	a := testArmy(t, Camp{})
	if err := a.SetSkillLevel(Juggernaut, 5); !errors.Is(err, ErrInvalidSkillLevel) {
		t.Errorf("err = %v, want ErrInvalidSkillLevel", err)
	}
	if a.SkillLevel(Juggernaut) != MaxSkillLevel {
		t.Errorf("level = %d, want %d", a.SkillLevel(Juggernaut), MaxSkillLevel)
	}
	if err := a.SetFrenzyBonus(-10); !errors.Is(err, ErrNegativeFrenzy) {
		t.Errorf("err = %v, want ErrNegativeFrenzy", err)
	}
}
