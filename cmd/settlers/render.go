package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/settlers-combat/internal/models"
)

func renderReport(w io.Writer, r *models.Report) {
	headerColor := color.New(color.FgCyan, color.Bold)

	if r.Name != "" {
		fmt.Fprintf(w, "📄 %s\n", r.Name)
	}
	fmt.Fprintf(w, "🌦️  Weather: %s   Simulations: %d   Destructions: %d   Seed: %d\n",
		r.Weather, r.Simulations, r.Destructions, r.Seed)
	if r.Criterion != "" {
		fmt.Fprintf(w, "🎯 Criterion: %s\n", r.Criterion)
	}

	for _, b := range r.Battles {
		fmt.Fprintln(w)
		headerColor.Fprintf(w, "⚔️  Left wave %d vs right wave %d\n", b.LeftWave, b.RightWave)
		renderSide(w, "Left", b.Left)
		renderSide(w, "Right", b.Right)
		renderLosses(w, &b)
		renderRounds(w, &b)
		renderOutcome(w, &b)
	}
}

func renderSide(w io.Writer, label string, s models.SideReport) {
	fmt.Fprintf(w, "   %-5s %s\n", label+":", s.Army)
	if s.Skills != "" {
		fmt.Fprintf(w, "         skills: %s\n", s.Skills)
	}
	if len(s.Traits) > 0 {
		fmt.Fprintf(w, "         traits: %s\n", strings.Join(s.Traits, ", "))
	}
}

func renderLosses(w io.Writer, b *models.BattleReport) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Side", "Unit", "Count", "Bounds", "Min", "Mean", "Median", "P95", "Max"}),
	)
	for _, side := range []struct {
		label  string
		groups []models.GroupLosses
	}{{"Left", b.Left.Groups}, {"Right", b.Right.Groups}} {
		for _, g := range side.groups {
			table.Append([]string{
				side.label,
				g.Unit,
				fmt.Sprintf("%d", g.Count),
				fmt.Sprintf("%d - %d", g.LowerBound, g.UpperBound),
				fmt.Sprintf("%d", g.Losses.Min),
				fmt.Sprintf("%.1f", g.Losses.Mean),
				fmt.Sprintf("%d", g.Losses.Median),
				fmt.Sprintf("%d", g.Losses.P95),
				fmt.Sprintf("%d", g.Losses.Max),
			})
		}
	}
	table.Render()
}

func renderRounds(w io.Writer, b *models.BattleReport) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Rounds", "Min", "Mean", "Median", "P95", "Max"}),
	)
	row := func(label string, d models.Distribution) {
		if d.Count == 0 {
			table.Append([]string{label, "-", "-", "-", "-", "-"})
			return
		}
		table.Append([]string{
			label,
			fmt.Sprintf("%d", d.Min),
			fmt.Sprintf("%.1f", d.Mean),
			fmt.Sprintf("%d", d.Median),
			fmt.Sprintf("%d", d.P95),
			fmt.Sprintf("%d", d.Max),
		})
	}
	row("Combat", b.CombatRounds)
	row("Destruction", b.DestructionRounds)
	row("Total", b.Rounds)
	table.Render()
}

func renderOutcome(w io.Writer, b *models.BattleReport) {
	successColor := color.New(color.FgGreen, color.Bold)
	failColor := color.New(color.FgRed, color.Bold)

	trials := b.CombatRounds.Count
	if trials > 0 {
		rate := float64(b.Left.Victories) / float64(trials)
		c := failColor
		if b.Left.Victories > b.Right.Victories {
			c = successColor
		}
		c.Fprintf(w, "   🏆 Left wins %d / %d (%.2f%%), right wins %d\n",
			b.Left.Victories, trials, 100*rate, b.Right.Victories)
	}
	fmt.Fprintf(w, "   ⭐ Experience: left %.1f, right %.1f\n", b.Left.Experience, b.Right.Experience)
	if b.Indestructible {
		failColor.Fprintln(w, "   🏰 Camp cannot be destroyed by the surviving units")
	}
	if b.Left.NextWave != "" {
		fmt.Fprintf(w, "   ➡️  Left continues with: %s\n", b.Left.NextWave)
	}
	if b.Right.NextWave != "" {
		fmt.Fprintf(w, "   ➡️  Right continues with: %s\n", b.Right.NextWave)
	}
	if b.CriterionMet != nil {
		if *b.CriterionMet {
			successColor.Fprintln(w, "   ✓ Criterion met")
		} else {
			failColor.Fprintln(w, "   ✗ Criterion not met")
		}
	}
}

func renderSummaries(w io.Writer, list []models.ReportSummary) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"ID", "Created", "Name", "Left", "Right", "Battles"}),
	)
	for _, s := range list {
		table.Append([]string{
			s.ID,
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Name,
			s.Left,
			s.Right,
			fmt.Sprintf("%d", s.Battles),
		})
	}
	table.Render()
}
