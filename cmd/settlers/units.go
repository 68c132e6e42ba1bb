package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/settlers-combat/internal/combat"
	"github.com/napolitain/settlers-combat/internal/loader"
	"github.com/napolitain/settlers-combat/internal/units"
)

var (
	factionFilter string
	exportPath    string
)

func newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units [name]",
		Short: "List the unit database or show one unit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runUnits,
	}
	cmd.Flags().StringVarP(&factionFilter, "faction", "f", "", "Only list units of this faction")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the listed units to a JSON file")
	return cmd
}

func runUnits(cmd *cobra.Command, args []string) error {
	list := state.db.All()
	if len(args) == 1 {
		u, err := state.db.Find(args[0])
		if err != nil {
			return err
		}
		list = []combat.UnitType{u}
	}

	if factionFilter != "" {
		f, err := combat.ParseFaction(factionFilter)
		if err != nil {
			return err
		}
		filtered := list[:0:0]
		for _, u := range list {
			if u.Faction == f {
				filtered = append(filtered, u)
			}
		}
		list = filtered
	}

	if exportPath != "" {
		if err := loader.WriteUnits(exportPath, list); err != nil {
			return err
		}
		color.Green("✓ Wrote %d units to %s", len(list), exportPath)
		return nil
	}

	if !quiet {
		fmt.Printf("📋 %d units:\n", len(list))
	}
	printUnits(list)
	return nil
}

func printUnits(list []combat.UnitType) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"ID", "Unit", "Code", "Faction", "Category", "HP", "Damage", "Accuracy", "Splash", "Phase", "Exp", "Special"}),
	)
	for _, u := range list {
		table.Append([]string{
			fmt.Sprintf("%d", u.ID),
			u.Name(),
			units.Codename(u),
			u.Faction.String(),
			u.Category.String(),
			fmt.Sprintf("%d", u.BaseHitPoints),
			fmt.Sprintf("%d-%d", u.Damage.Low(), u.Damage.High()),
			fmt.Sprintf("%.0f%%", 100*u.Damage.Accuracy()),
			fmt.Sprintf("%.0f%%", 100*u.Damage.SplashChance()),
			phases(u.Phases),
			fmt.Sprintf("%d", u.Experience),
			specials(u),
		})
	}
	table.Render()
}

func phases(s combat.PhaseSet) string {
	var names []string
	for _, p := range combat.Phases {
		if s.Has(p) {
			names = append(names, p.String())
		}
	}
	return strings.Join(names, ", ")
}

func specials(u combat.UnitType) string {
	var names []string
	for a := combat.AttackWeakestTarget; a <= combat.Butcher; a++ {
		if u.Abilities.Has(a) {
			names = append(names, a.String())
		}
	}
	names = append(names, u.Traits.Strings()...)
	return strings.Join(names, ", ")
}
