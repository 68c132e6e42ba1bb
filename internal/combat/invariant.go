package combat

// Invariant holds everything about one side's attack that stays fixed for
// the duration of a battle, plus damage tables built round by round.
type Invariant struct {
	order          [][]int
	originalCounts []int
	percent        [][]int
	oneToOne       [][]bool
	uniformSplash  []bool
	units          []UnitType
	frenzy         int
	tables         []DamageTable
}

// DamageTable is the damage of every attacking group in one round.
type DamageTable struct {
	// Pure is the damage of attacker i before any tower reduction.
	Pure []DamageRange
	// Effective is the damage of attacker i against defender j. The tower
	// reduction joins the round's frenzy rate, so additive bonuses are
	// never reduced.
	Effective [][]DamageRange
}

// NewInvariant prepares the attack of attacker on defender. Both armies are
// expected to be conditioned already.
func NewInvariant(attacker, defender *Army) *Invariant {
	m, n := attacker.Len(), defender.Len()
	inv := &Invariant{
		order:          make([][]int, m),
		originalCounts: attacker.GroupCounts(),
		percent:        make([][]int, m),
		oneToOne:       make([][]bool, m),
		uniformSplash:  make([]bool, m),
		units:          make([]UnitType, m),
		frenzy:         attacker.FrenzyBonus(),
	}
	reduction := defender.Camp().DamageReduction

	for i := range m {
		u := attacker.Group(i).Unit()
		inv.units[i] = u
		if u.Abilities.Has(AttackWeakestTarget) {
			inv.order[i] = defender.OrderByHitPoints()
		} else {
			inv.order[i] = defender.OrderByID()
		}

		inv.percent[i] = make([]int, n)
		inv.oneToOne[i] = make([]bool, n)
		distinct := make(map[int]struct{}, 2)
		for j := range n {
			target := defender.Group(j).Unit()
			p := 100
			if target.Abilities.Has(TowerBonus) && !u.Abilities.Has(IgnoreTowerBonus) {
				p -= reduction
			}
			inv.percent[i][j] = p
			inv.oneToOne[i][j] = u.NeverSplash() && u.DamageAt(p-100).Low >= target.HitPoints()
			distinct[p] = struct{}{}
		}
		inv.uniformSplash[i] = u.AlwaysSplash() && len(distinct) == 1
	}

	inv.At(0)
	return inv
}

// AttackOrder returns the defender indices in the order attacker i hits them.
func (inv *Invariant) AttackOrder(i int) []int { return inv.order[i] }

// OriginalCounts returns the attacker counts at the start of the battle.
func (inv *Invariant) OriginalCounts() []int { return inv.originalCounts }

// DamagePercent is the share of damage (in percent) attacker i deals to defender j.
func (inv *Invariant) DamagePercent(i, j int) int { return inv.percent[i][j] }

func (inv *Invariant) IsOneToOne(i, j int) bool   { return inv.oneToOne[i][j] }
func (inv *Invariant) IsUniformSplash(i int) bool { return inv.uniformSplash[i] }

// At returns the damage table of the given round, building any missing
// tables up to it.
func (inv *Invariant) At(round int) *DamageTable {
	for r := len(inv.tables); r <= round; r++ {
		inv.tables = append(inv.tables, inv.buildTable(r))
	}
	return &inv.tables[round]
}

func (inv *Invariant) buildTable(round int) DamageTable {
	m := len(inv.units)
	t := DamageTable{
		Pure:      make([]DamageRange, m),
		Effective: make([][]DamageRange, m),
	}
	for i, u := range inv.units {
		rate := round * inv.frenzy
		t.Pure[i] = u.DamageAt(rate)
		t.Effective[i] = make([]DamageRange, len(inv.percent[i]))
		for j, p := range inv.percent[i] {
			t.Effective[i][j] = u.DamageAt(rate + p - 100)
		}
	}
	return t
}
