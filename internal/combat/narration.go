package combat

import "go.uber.org/zap"

// narrator writes a debug account of the battle. A nil narrator, or one
// whose logger has debug disabled, does nothing.
type narrator struct {
	log *zap.Logger
}

func newNarrator(logger *zap.Logger) *narrator {
	if logger == nil || !logger.Core().Enabled(zap.DebugLevel) {
		return nil
	}
	return &narrator{log: logger}
}

func (n *narrator) enabled() bool { return n != nil }

func (n *narrator) round(clock *Clock, leftFrenzy, rightFrenzy int) {
	if !n.enabled() {
		return
	}
	n.log.Debug("begin round",
		zap.Int("round", clock.RoundIndex()+1),
		zap.Int("left_frenzy", clock.RoundIndex()*leftFrenzy),
		zap.Int("right_frenzy", clock.RoundIndex()*rightFrenzy),
	)
}

func (n *narrator) phase(p Phase) {
	if !n.enabled() {
		return
	}
	n.log.Debug("begin phase", zap.Stringer("phase", p))
}

func (n *narrator) attack(side string, g *UnitGroup) {
	if !n.enabled() {
		return
	}
	n.log.Debug("attacking",
		zap.String("side", side),
		zap.Int("count", g.CountAsAttacker()),
		zap.String("unit", g.Unit().Name()),
	)
}

func (n *narrator) uniformSplash(side string, g *UnitGroup, total, low, high int) {
	if !n.enabled() {
		return
	}
	n.log.Debug("splash attack",
		zap.String("side", side),
		zap.Int("count", g.CountAsAttacker()),
		zap.String("unit", g.Unit().Name()),
		zap.Int("damage", total),
		zap.Int("low", low),
		zap.Int("high", high),
	)
}

// defended reports the state of a defending group after an attack.
func (n *narrator) defended(kind string, g *UnitGroup, before int) {
	if !n.enabled() {
		return
	}
	n.log.Debug(kind,
		zap.String("defender", g.Unit().Name()),
		zap.Int("before", before),
		zap.Int("killed", before-g.CountAsDefender()),
		zap.Int("hit_points", g.TotalHitPoints()),
	)
}

func (n *narrator) result(r CombatResult) {
	if !n.enabled() {
		return
	}
	n.log.Debug("combat over",
		zap.Int("rounds", r.Rounds),
		zap.Uint64("left_alive", r.LeftAliveMask),
		zap.Uint64("right_alive", r.RightAliveMask),
		zap.Stringer("result", r),
	)
}

func (n *narrator) destruction(rounds, campHitPoints int) {
	if !n.enabled() {
		return
	}
	n.log.Debug("camp destroyed",
		zap.Int("rounds", rounds),
		zap.Int("camp_hit_points", campHitPoints),
	)
}
