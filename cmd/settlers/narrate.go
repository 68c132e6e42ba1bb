package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/settlers-combat/internal/combat"
	"github.com/napolitain/settlers-combat/internal/logging"
	"github.com/napolitain/settlers-combat/internal/models"
	"github.com/napolitain/settlers-combat/internal/simulate"
)

func newNarrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "narrate <left army> <right army>",
		Short: "Play a single battle round by round",
		Long: `Runs one randomized battle between the first wave of each side and
logs every round, phase and attack.`,
		Args: cobra.ExactArgs(2),
		RunE: runNarrate,
	}
	cmd.Flags().StringVar(&skillUnit, "skill-unit", "General", "Unit whose skills --left-skills and --right-skills set")
	leftFlags.register(cmd, "left")
	rightFlags.register(cmd, "right")
	return cmd
}

func runNarrate(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	failColor := color.New(color.FgRed, color.Bold)

	logger, err := logging.New("debug", state.cfg.LogEncoding)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p := state.parser()
	var armies [2]*combat.Army
	for i, flags := range []*sideFlags{&leftFlags, &rightFlags} {
		var spec models.SideSpec
		spec.Army = args[i]
		flags.apply(&spec, skillUnit)

		res, err := p.Parse(spec.Army, parseOpts)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			color.Yellow("⚠️  %s", w)
		}
		d, err := spec.Decorator()
		if err != nil {
			return err
		}
		a := res.Waves[0].Clone()
		if err := d.Decorate(a, logger); err != nil {
			return err
		}
		armies[i] = a
	}

	printTitle("Battle Narration")
	left, right := armies[0], armies[1]
	n, err := simulate.Narrate(left, right, state.cfg.Weather, state.cfg.Seed, logger)
	if err != nil {
		return err
	}

	fmt.Println()
	if n.Result.IsLeftVictorious() {
		successColor.Println("🏆 Left army wins")
	} else {
		failColor.Println("💀 Right army holds")
	}
	fmt.Printf("   Left losses:  %s\n", formatLosses(left.Groups(), n.LeftLosses))
	fmt.Printf("   Right losses: %s\n", formatLosses(right.Groups(), n.RightLosses))
	if n.Indestructible {
		failColor.Println("   🏰 Camp cannot be destroyed")
	} else if n.DestructionRounds > 0 {
		fmt.Printf("   🏰 Camp destroyed in %d rounds\n", n.DestructionRounds)
	}
	fmt.Printf("   Seed: %d\n", n.Seed)
	return nil
}

func formatLosses(groups []combat.UnitGroup, losses []int) string {
	var b strings.Builder
	for k, lost := range losses {
		if k > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d/%d %s", lost, groups[k].CountAsAttacker(), groups[k].Unit().Name())
	}
	if b.Len() == 0 {
		return "none"
	}
	return b.String()
}
