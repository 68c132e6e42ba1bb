package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/napolitain/settlers-combat/internal/models"
)

func init() {
	color.NoColor = true
}

func TestRenderReport(t *testing.T) {
	met := false
	r := &models.Report{
		Name:        "outpost",
		Weather:     "none",
		Simulations: 10,
		Seed:        3,
		Criterion:   "left_victory_rate > 0.5",
		Battles: []models.BattleReport{{
			LeftWave:  1,
			RightWave: 2,
			Left: models.SideReport{
				Army:      "1 General 50 Soldier",
				Victories: 4,
				Skills:    "cleave (2)",
				Groups: []models.GroupLosses{{
					Unit: "Soldier", Count: 50, LowerBound: 3, UpperBound: 9,
					Losses: models.Distribution{Count: 10, Min: 4, Max: 8, Mean: 5.5, Median: 5, P95: 8},
				}},
				NextWave: "1 General 42 Soldier",
			},
			Right:        models.SideReport{Army: "10 Thug", Victories: 6},
			CombatRounds: models.Distribution{Count: 10, Min: 2, Max: 4, Mean: 3},
			CriterionMet: &met,
		}},
	}

	var buf bytes.Buffer
	renderReport(&buf, r)
	out := buf.String()
	for _, want := range []string{
		"outpost",
		"Left wave 1 vs right wave 2",
		"cleave (2)",
		"Soldier",
		"3 - 9",
		"Left wins 4 / 10 (40.00%)",
		"Left continues with: 1 General 42 Soldier",
		"Criterion not met",
	} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaries(t *testing.T) {
	var buf bytes.Buffer
	renderSummaries(&buf, []models.ReportSummary{{
		ID: "abc", CreatedAt: time.Now(), Left: "10 Recruit", Right: "5 Thug", Battles: 1,
	}})
	if !bytes.Contains(buf.Bytes(), []byte("abc")) || !bytes.Contains(buf.Bytes(), []byte("10 Recruit")) {
		t.Errorf("summary table missing fields:\n%s", buf.String())
	}
}

func TestBuildScenario(t *testing.T) {
	t.Cleanup(func() {
		scenarioFile, skillUnit = "", "General"
		leftFlags, rightFlags = sideFlags{}, sideFlags{}
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "raid.yaml")
	data := []byte("left:\n  army: 10 Recruit\nright:\n  army: 5 Thug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	scenarioFile, skillUnit = path, "General"
	rightFlags = sideFlags{campName: "Tower", campHitPoints: 500, campReduction: 20}
	leftFlags = sideFlags{skills: map[string]int{"cleave": 2}}

	s, err := buildScenario([]string{"1 General 20 Soldier"})
	if err != nil {
		t.Fatalf("buildScenario: %v", err)
	}
	if s.Name != "raid" {
		t.Errorf("name = %q, want raid", s.Name)
	}
	if s.Left.Army != "1 General 20 Soldier" || s.Right.Army != "5 Thug" {
		t.Errorf("armies = %q / %q", s.Left.Army, s.Right.Army)
	}
	if s.Right.Camp.HitPoints != 500 || s.Right.Camp.Name != "Tower" {
		t.Errorf("right camp = %+v", s.Right.Camp)
	}
	if s.Left.Skills["General"]["cleave"] != 2 {
		t.Errorf("left skills = %v", s.Left.Skills)
	}

	scenarioFile = ""
	if _, err := buildScenario([]string{"10 Recruit"}); err == nil {
		t.Error("expected an error without a right army")
	}
}
