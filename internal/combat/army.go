package combat

import (
	"fmt"
	"slices"
	"strings"
)

// MaxGroups is the number of groups an alive mask can describe.
const MaxGroups = 64

// Army is an ordered collection of unit groups sorted by unit id, together
// with its camp, skills and traits.
type Army struct {
	groups []UnitGroup
	byID   []int
	byHP   []int
	masks  []uint64
	camp   Camp
	frenzy int // damage percent gained per round past the first
	skills [skillCount]int
	traits TraitSet
}

// NewArmy sorts the groups by unit id and precomputes the attack orders and
// metagroup masks.
func NewArmy(groups []UnitGroup, camp Camp) (*Army, error) {
	a := &Army{groups: slices.Clone(groups), camp: camp}
	if err := a.initialize(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Army) initialize() error {
	if len(a.groups) > MaxGroups {
		return fmt.Errorf("%w: %d groups, at most %d allowed", ErrTooManyGroups, len(a.groups), MaxGroups)
	}
	slices.SortStableFunc(a.groups, func(x, y UnitGroup) int { return compareByID(x.unit, y.unit) })
	for i := 1; i < len(a.groups); i++ {
		if a.groups[i].unit.ID == a.groups[i-1].unit.ID {
			return fmt.Errorf("%w: %d (%s)", ErrDuplicateID, a.groups[i].unit.ID, a.groups[i].unit.Name())
		}
	}

	n := len(a.groups)
	a.byID = make([]int, n)
	a.byHP = make([]int, n)
	a.traits = 0
	for i := range a.groups {
		a.byID[i] = i
		a.byHP[i] = i
		a.traits = a.traits.Union(a.groups[i].unit.Traits)
	}
	slices.SortStableFunc(a.byHP, func(i, j int) int { return compareByHitPoints(a.groups[i].unit, a.groups[j].unit) })

	members := make(map[int]uint64)
	for i := range a.groups {
		members[a.groups[i].metagroup] |= 1 << i
	}
	a.masks = a.masks[:0]
	for _, mask := range members {
		if mask&(mask-1) != 0 {
			a.masks = append(a.masks, mask)
		}
	}
	slices.Sort(a.masks)
	return nil
}

// Clone returns a deep copy.
func (a *Army) Clone() *Army {
	c := *a
	c.groups = slices.Clone(a.groups)
	c.byID = slices.Clone(a.byID)
	c.byHP = slices.Clone(a.byHP)
	c.masks = slices.Clone(a.masks)
	return &c
}

// Groups returns the groups sorted by unit id. The slice must not be modified.
func (a *Army) Groups() []UnitGroup { return a.groups }

func (a *Army) Group(i int) *UnitGroup { return &a.groups[i] }

func (a *Army) Len() int { return len(a.groups) }

// OrderByID is the default attack order against this army.
func (a *Army) OrderByID() []int { return a.byID }

// OrderByHitPoints is the attack order used by units attacking the weakest target.
func (a *Army) OrderByHitPoints() []int { return a.byHP }

// MetagroupMasks has one sorted mask per metagroup with at least two groups.
func (a *Army) MetagroupMasks() []uint64 { return a.masks }

func (a *Army) Camp() Camp       { return a.camp }
func (a *Army) SetCamp(c Camp)   { a.camp = c }
func (a *Army) Traits() TraitSet { return a.traits }
func (a *Army) FrenzyBonus() int { return a.frenzy }

// SetFrenzyBonus sets the per-round damage percent gained past the first round.
func (a *Army) SetFrenzyBonus(percent int) error {
	if percent < 0 {
		return fmt.Errorf("%w: %d%%", ErrNegativeFrenzy, percent)
	}
	a.frenzy = percent
	return nil
}

func (a *Army) SkillLevel(s Skill) int { return a.skills[s] }

// SetSkillLevel invests level books in a skill. Out-of-range levels are
// clamped and reported.
func (a *Army) SetSkillLevel(s Skill, level int) error {
	if s < 0 || s >= skillCount {
		return fmt.Errorf("%w: unknown skill %d", ErrInvalidSkillLevel, s)
	}
	var err error
	if level < 0 || level > MaxSkillLevel {
		err = fmt.Errorf("%w: %s level %d", ErrInvalidSkillLevel, s, level)
		level = min(max(level, 0), MaxSkillLevel)
	}
	a.skills[s] = level
	return err
}

func (a *Army) ResetSkills() { a.skills = [skillCount]int{} }

// Skills returns the invested skill levels.
func (a *Army) Skills() map[Skill]int {
	m := make(map[Skill]int)
	for s, level := range a.skills {
		if level > 0 {
			m[Skill(s)] = level
		}
	}
	return m
}

// Snapshot freezes every group's attacker count.
func (a *Army) Snapshot() {
	for i := range a.groups {
		a.groups[i].Snapshot()
	}
}

// CountUnits is the total number of attackers.
func (a *Army) CountUnits() int {
	total := 0
	for i := range a.groups {
		total += a.groups[i].countAtSnap
	}
	return total
}

func (a *Army) Alive() bool { return a.CountUnits() > 0 }

// totalHitPoints sums the hit points of every group.
func (a *Army) totalHitPoints() int {
	total := 0
	for i := range a.groups {
		total += a.groups[i].hitPoints
	}
	return total
}

// GroupCounts returns the attacker count of each group.
func (a *Army) GroupCounts() []int {
	counts := make([]int, len(a.groups))
	for i := range a.groups {
		counts[i] = a.groups[i].countAtSnap
	}
	return counts
}

// HasFaction reports whether any group belongs to faction f.
func (a *Army) HasFaction(f Faction) bool {
	for i := range a.groups {
		if a.groups[i].unit.Faction == f {
			return true
		}
	}
	return false
}

// AliveMask has bit i set when group i can still attack.
func (a *Army) AliveMask() uint64 {
	var mask uint64
	for i := range a.groups {
		if a.groups[i].AliveAsAttacker() {
			mask |= 1 << i
		}
	}
	return mask
}

// ByMask returns the groups selected by mask.
func (a *Army) ByMask(mask uint64) []UnitGroup {
	var out []UnitGroup
	for i := range a.groups {
		if mask&(1<<i) != 0 {
			out = append(out, a.groups[i])
		}
	}
	return out
}

// Equal compares groups, metagroup masks, camp, frenzy, skills and traits.
func (a *Army) Equal(o *Army) bool {
	if len(a.groups) != len(o.groups) {
		return false
	}
	for i := range a.groups {
		if !a.groups[i].Equal(&o.groups[i]) {
			return false
		}
	}
	return slices.Equal(a.masks, o.masks) &&
		a.camp == o.camp &&
		a.frenzy == o.frenzy &&
		a.skills == o.skills &&
		a.traits == o.traits
}

// String lists the groups as "count name" pairs.
func (a *Army) String() string {
	return a.Format(func(u UnitType) string { return u.Name() })
}

// Format lists the groups using name to print each unit type.
func (a *Army) Format(name func(UnitType) string) string {
	parts := make([]string, 0, len(a.groups))
	for i := range a.groups {
		g := &a.groups[i]
		if g.countAtSnap == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", g.countAtSnap, name(g.unit)))
	}
	return strings.Join(parts, " ")
}
