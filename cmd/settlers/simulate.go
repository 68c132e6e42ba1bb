package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/napolitain/settlers-combat/internal/armyparse"
	"github.com/napolitain/settlers-combat/internal/loader"
	"github.com/napolitain/settlers-combat/internal/models"
	"github.com/napolitain/settlers-combat/internal/simulate"
)

// sideFlags are the decorations of one side given on the command line
type sideFlags struct {
	campName      string
	campHitPoints int
	campReduction int
	skills        map[string]int
}

func (f *sideFlags) register(cmd *cobra.Command, side string) {
	cmd.Flags().StringVar(&f.campName, side+"-camp", "", "Camp name of the "+side+" army")
	cmd.Flags().IntVar(&f.campHitPoints, side+"-camp-hp", 0, "Camp hit points of the "+side+" army")
	cmd.Flags().IntVar(&f.campReduction, side+"-camp-reduction", 0, "Camp damage reduction (%) of the "+side+" army")
	cmd.Flags().StringToIntVar(&f.skills, side+"-skills", nil, "Skill levels of the "+side+" general, e.g. cleave=2,\"battle frenzy\"=1")
}

// apply copies the flags that were set into the side
func (f *sideFlags) apply(spec *models.SideSpec, skillUnit string) {
	if f.campName != "" || f.campHitPoints != 0 || f.campReduction != 0 {
		spec.Camp = models.CampSpec{Name: f.campName, HitPoints: f.campHitPoints, DamageReduction: f.campReduction}
	}
	if len(f.skills) > 0 {
		if spec.Skills == nil {
			spec.Skills = make(map[string]map[string]int)
		}
		spec.Skills[skillUnit] = f.skills
	}
}

var (
	scenarioFile string
	saveScenario string
	skillUnit    string
	jsonOutput   bool
	noSave       bool
	parseOpts    armyparse.Options
	leftFlags    sideFlags
	rightFlags   sideFlags
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [left army] [right army]",
		Short: "Simulate waves of armies against each other",
		Long: `Throws every left wave at every right wave, e.g.

  settlers simulate "1 General 150 Recruit 50 Bowman + 1 General 200 Soldier" "40 Thug 30 Stone Thrower"

Waves are separated by "+". Armies may also come from a scenario file.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: runSimulate,
	}

	cmd.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "Scenario YAML file")
	cmd.Flags().StringVar(&saveScenario, "save-scenario", "", "Write the effective scenario to this file")
	cmd.Flags().IntP("simulations", "n", 10000, "Randomized battles per pairing")
	cmd.Flags().IntP("destructions", "d", 50, "Camp destruction samples per battle")
	cmd.Flags().String("criterion", "", "CEL expression checked against each battle, e.g. 'left_victory_rate > 0.99'")
	cmd.Flags().StringVar(&skillUnit, "skill-unit", "General", "Unit whose skills --left-skills and --right-skills set")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not store the report in the history")
	cmd.Flags().BoolVar(&parseOpts.CheckGenerals, "check-generals", false, "Warn about waves without a general")
	cmd.Flags().BoolVar(&parseOpts.CoerceFactions, "coerce-factions", true, "Resolve names to a single faction per wave")
	cmd.Flags().BoolVar(&parseOpts.Strict, "strict", false, "Only suggest faction fixes, never apply them")
	leftFlags.register(cmd, "left")
	rightFlags.register(cmd, "right")
	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	infoColor := color.New(color.FgYellow)
	successColor := color.New(color.FgGreen, color.Bold)

	scenario, err := buildScenario(args)
	if err != nil {
		return err
	}
	scenario.ApplyConfig(state.cfg)
	// flags given explicitly win over the scenario file
	if cmd.Flags().Changed("simulations") {
		scenario.Simulations = state.cfg.Simulations
	}
	if cmd.Flags().Changed("destructions") {
		scenario.Destructions = state.cfg.Destructions
	}
	if cmd.Flags().Changed("seed") {
		scenario.Seed = state.cfg.Seed
	}
	if cmd.Flags().Changed("weather") {
		scenario.Weather = state.cfg.Weather.String()
	}
	if cmd.Flags().Changed("criterion") {
		scenario.Criterion = state.cfg.Criterion
	}

	if saveScenario != "" {
		if err := loader.WriteScenario(saveScenario, scenario); err != nil {
			return err
		}
	}

	base := simulate.OptionsFromConfig(state.cfg)
	base.Logger = state.logger
	prepared, err := simulate.Prepare(state.parser(), scenario, parseOpts, base)
	if err != nil {
		return err
	}
	for _, w := range prepared.Warnings {
		color.Yellow("⚠️  %s", w)
	}

	if !jsonOutput {
		printTitle("Combat Simulator")
		infoColor.Printf("⚔️  %s\n", scenario.Left.Army)
		infoColor.Printf("🛡️  %s\n\n", scenario.Right.Army)
	}

	if !quiet && !jsonOutput {
		total := int64(prepared.Options.Simulations * len(prepared.Left.Armies) * len(prepared.Right.Armies))
		bar := progressbar.Default(total, "Simulating")
		prepared.Options.Progress = func(n int) { _ = bar.Add(n) }
		defer func() { _ = bar.Finish() }()
	}

	report, err := prepared.Run(cmd.Context())
	if err != nil {
		return err
	}

	if !noSave {
		s, err := state.openStore(cmd.Context())
		if err != nil {
			color.Yellow("Warning: could not open report history: %v", err)
		} else {
			defer s.Close()
			if err := s.Save(cmd.Context(), report); err != nil {
				color.Yellow("Warning: could not save report: %v", err)
			}
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println()
	renderReport(os.Stdout, report)
	successColor.Printf("\n✓ Report %s (%s)\n", report.ID, report.Elapsed.Round(time.Millisecond))
	return nil
}

// buildScenario loads the scenario file, if any, and lets positional
// armies and side flags override it.
func buildScenario(args []string) (*models.Scenario, error) {
	scenario := &models.Scenario{}
	if scenarioFile != "" {
		s, err := loader.LoadScenario(scenarioFile)
		if err != nil {
			return nil, err
		}
		scenario = s
	}
	if len(args) > 0 {
		scenario.Left.Army = args[0]
	}
	if len(args) > 1 {
		scenario.Right.Army = args[1]
	}
	if scenario.Left.Army == "" || scenario.Right.Army == "" {
		return nil, fmt.Errorf("need a left and a right army (arguments or --scenario)")
	}
	leftFlags.apply(&scenario.Left, skillUnit)
	rightFlags.apply(&scenario.Right, skillUnit)
	return scenario, nil
}
