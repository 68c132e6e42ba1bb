package combat

import "testing"

// testUnit builds a normal-phase unit and fails the test on invalid stats.
func testUnit(t testing.TB, id int, name string, hitPoints, low, high int, accuracy, splash float64) UnitType {
	t.Helper()
	d, err := NewDamage(low, high, accuracy, splash)
	if err != nil {
		t.Fatalf("NewDamage(%d, %d, %v, %v): %v", low, high, accuracy, splash, err)
	}
	u, err := NewUnitType(id, name, Normal, hitPoints, d)
	if err != nil {
		t.Fatalf("NewUnitType(%s): %v", name, err)
	}
	return u
}

func testArmy(t testing.TB, camp Camp, groups ...UnitGroup) *Army {
	t.Helper()
	a, err := NewArmy(groups, camp)
	if err != nil {
		t.Fatalf("NewArmy: %v", err)
	}
	return a
}

// Units loosely modeled on the game's player units.
func recruit(t testing.TB) UnitType  { return testUnit(t, 1, "Recruit", 40, 15, 30, 0.8, 0) }
func bowman(t testing.TB) UnitType   { return testUnit(t, 2, "Bowman", 10, 20, 40, 0.8, 0) }
func soldier(t testing.TB) UnitType  { return testUnit(t, 3, "Soldier", 90, 20, 40, 0.85, 0) }
func cavalry(t testing.TB) UnitType  { return testUnit(t, 4, "Cavalry", 5, 5, 10, 0.8, 1) }
func wildMary(t testing.TB) UnitType { return testUnit(t, 100, "Wild Mary", 60000, 740, 800, 0.5, 1) }
