package armyparse

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2"
	"go.uber.org/zap"

	"github.com/napolitain/settlers-combat/internal/combat"
	"github.com/napolitain/settlers-combat/internal/units"
)

var ErrEmpty = errors.New("army string is empty")

// MaxGroupCount bounds the size of a single unit group
const MaxGroupCount = 1_000_000

// Options controls the checks applied to each parsed wave
type Options struct {
	// CheckGenerals warns when a wave has no general.
	CheckGenerals bool
	// CoerceFactions retries the lookup one faction at a time when a wave
	// mixes factions, and adopts the only consistent reading.
	CoerceFactions bool
	// Strict reports the suggestions without adopting them.
	Strict bool
}

// Result holds the parsed waves and any warnings raised on the way
type Result struct {
	Waves    []*combat.Army
	Warnings []string
}

// Parser resolves unit names against a database
type Parser struct {
	db     *units.Database
	parser *participle.Parser[waveList]
	logger *zap.Logger
}

// New creates a parser backed by db
func New(db *units.Database, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{db: db, parser: buildParser(), logger: logger}
}

// Parse splits s into "+"-separated waves and builds an army for each.
// Groups with a zero count are looked up but left out.
func (p *Parser) Parse(s string, opts Options) (*Result, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmpty
	}
	ast, err := p.parser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse army %q: %w", s, err)
	}

	res := &Result{}
	for i, w := range ast.Waves {
		a, err := p.build(w, nil)
		if err != nil {
			return nil, fmt.Errorf("wave %d: %w", i+1, err)
		}
		if opts.CheckGenerals && a.Len() > 0 && !a.HasFaction(combat.General) {
			res.warn(p.logger, fmt.Sprintf("wave %d: army does not have any generals", i+1))
		}
		if opts.CoerceFactions {
			a = p.coerce(i, w, a, opts.Strict, res)
		}
		res.Waves = append(res.Waves, a)
	}
	return res, nil
}

// ParseArmy parses a single wave.
func (p *Parser) ParseArmy(s string, opts Options) (*combat.Army, error) {
	res, err := p.Parse(s, opts)
	if err != nil {
		return nil, err
	}
	if len(res.Waves) != 1 {
		return nil, fmt.Errorf("expected one wave, got %d", len(res.Waves))
	}
	return res.Waves[0], nil
}

func (p *Parser) build(w *wave, filter func(combat.UnitType) bool) (*combat.Army, error) {
	var groups []combat.UnitGroup
	for _, g := range w.Groups {
		u, err := p.db.FindFunc(g.name(), filter)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g.Pos, err)
		}
		if g.Count == 0 {
			continue
		}
		count := g.Count
		k := slices.IndexFunc(groups, func(x combat.UnitGroup) bool { return x.Unit().ID == u.ID })
		if k >= 0 {
			count += groups[k].CountAsAttacker()
		}
		if g.Count > MaxGroupCount || count > MaxGroupCount {
			return nil, fmt.Errorf("%s: more than %d %s", g.Pos, MaxGroupCount, u.Name())
		}
		if k >= 0 {
			groups[k] = combat.NewUnitGroup(u, count, 0)
			continue
		}
		groups = append(groups, combat.NewUnitGroup(u, count, 0))
	}
	return combat.NewArmy(groups, combat.Camp{})
}

// coerce rebuilds a mixed-faction wave restricted to each faction in turn
// (generals always allowed). A single successful reading replaces a unless
// strict is set.
func (p *Parser) coerce(index int, w *wave, a *combat.Army, strict bool, res *Result) *combat.Army {
	var factions []combat.Faction
	for _, g := range a.Groups() {
		f := g.Unit().Faction
		if f != combat.General && !slices.Contains(factions, f) {
			factions = append(factions, f)
		}
	}
	if len(factions) <= 1 {
		return a
	}
	res.warn(p.logger, fmt.Sprintf("wave %d: there is more than one faction in the army", index+1))

	var options []*combat.Army
	for _, f := range factions {
		b, err := p.build(w, func(u combat.UnitType) bool { return u.Faction == f || u.Faction == combat.General })
		if err != nil {
			continue
		}
		options = append(options, b)
		res.warn(p.logger, fmt.Sprintf("wave %d: did you mean %s?", index+1, b.Format(units.Codename)))
	}
	if len(options) == 1 && !strict {
		res.warn(p.logger, fmt.Sprintf("wave %d: assuming %s", index+1, options[0]))
		return options[0]
	}
	return a
}

func (r *Result) warn(logger *zap.Logger, msg string) {
	r.Warnings = append(r.Warnings, msg)
	logger.Warn(msg)
}
