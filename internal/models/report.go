package models

import (
	"time"
)

// Distribution summarizes an empirical measure: observed values with their
// counts in ascending order of value.
type Distribution struct {
	Count  int     `json:"count"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median int     `json:"median"`
	P95    int     `json:"p95"`
	Values []int   `json:"values,omitempty"`
	Counts []int   `json:"counts,omitempty"`
}

// GroupLosses reports the losses of one unit group
type GroupLosses struct {
	Unit       string       `json:"unit"`
	Count      int          `json:"count"`
	LowerBound int          `json:"lower_bound"`
	UpperBound int          `json:"upper_bound"`
	Losses     Distribution `json:"losses"`
}

// SideReport describes one army in a battle
type SideReport struct {
	Army       string        `json:"army"`
	Compact    string        `json:"compact"`
	Skills     string        `json:"skills,omitempty"`
	Traits     []string      `json:"traits,omitempty"`
	Groups     []GroupLosses `json:"groups"`
	Experience float64       `json:"experience"` // mean experience earned by this side
	Victories  int           `json:"victories"`
	NextWave   string        `json:"next_wave,omitempty"`
}

// BattleReport is the outcome of one attacker wave against one defender wave
type BattleReport struct {
	LeftWave          int          `json:"left_wave"`
	RightWave         int          `json:"right_wave"`
	Left              SideReport   `json:"left"`
	Right             SideReport   `json:"right"`
	Rounds            Distribution `json:"rounds"`
	CombatRounds      Distribution `json:"combat_rounds"`
	DestructionRounds Distribution `json:"destruction_rounds"`
	Indestructible    bool         `json:"indestructible,omitempty"`
	CriterionMet      *bool        `json:"criterion_met,omitempty"`
}

// Report is a complete simulation run
type Report struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	Name         string         `json:"name,omitempty"`
	Left         string         `json:"left"`
	Right        string         `json:"right"`
	Weather      string         `json:"weather"`
	Simulations  int            `json:"simulations"`
	Destructions int            `json:"destructions"`
	Seed         uint64         `json:"seed"`
	Criterion    string         `json:"criterion,omitempty"`
	Battles      []BattleReport `json:"battles"`
	Elapsed      time.Duration  `json:"elapsed_ns"`
}

// ReportSummary is the listing view of a stored report
type ReportSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name,omitempty"`
	Left      string    `json:"left"`
	Right     string    `json:"right"`
	Battles   int       `json:"battles"`
}

// Summary returns the listing view of r
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Name:      r.Name,
		Left:      r.Left,
		Right:     r.Right,
		Battles:   len(r.Battles),
	}
}
