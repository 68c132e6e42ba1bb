package armyparse

import (
	"testing"

	"github.com/napolitain/settlers-combat/internal/units"
)

// FuzzParse checks that arbitrary input never panics and that every parsed
// wave holds only positive groups of known units.
func FuzzParse(f *testing.F) {
	f.Add("1 General 150 Recruit 50 Bowman + 200 Soldier")
	f.Add("40 Thug, 30 Stone Thrower; 1 Chuck")
	f.Add("0 Recruit 5 Recruit 5 Recruit")
	f.Add("+ +")
	f.Add("12")
	f.Add("3 Wild Mary + + 2 Guard Dog")

	p := New(units.Default(), nil)
	f.Fuzz(func(t *testing.T, s string) {
		res, err := p.Parse(s, Options{CheckGenerals: true, CoerceFactions: true})
		if err != nil {
			return
		}
		if len(res.Waves) == 0 {
			t.Fatalf("%q parsed without waves", s)
		}
		for i, w := range res.Waves {
			for _, g := range w.Groups() {
				if g.CountAsAttacker() <= 0 {
					t.Errorf("%q wave %d: group %s with count %d", s, i+1, g.Unit().Name(), g.CountAsAttacker())
				}
				if _, ok := units.Default().Get(g.Unit().ID); !ok {
					t.Errorf("%q wave %d: unknown unit id %d", s, i+1, g.Unit().ID)
				}
			}
		}
	})
}
