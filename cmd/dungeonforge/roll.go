package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sternmatt/dungeonforge/internal/config"
	"github.com/sternmatt/dungeonforge/internal/dice"
)

var rollCount int

var rollCmd = &cobra.Command{
	Use:   "roll <notation>",
	Short: "Evaluate a dice expression",
	Long: `Evaluate a dice expression and print the per-term breakdown.

Notation supports drop/keep (4d6dl1, 2d20kh1), rerolls (2d6r1), and
exploding dice (3d6!), combined with + and - into larger expressions.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoll,
}

func init() {
	rollCmd.Flags().IntVarP(&rollCount, "count", "n", 1, "number of times to roll")
}

func runRoll(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg)

	expr, err := dice.Parse(args[0])
	if err != nil {
		return err
	}

	roller := newRoller(cfg)
	for i := 0; i < rollCount; i++ {
		result, err := dice.Evaluate(expr, roller)
		if err != nil {
			return err
		}
		fmt.Println(result.Breakdown())
		for _, term := range result.Terms {
			for _, warning := range term.Warnings {
				fmt.Printf("  warning: %s\n", warning)
			}
		}
	}
	return nil
}

// newRoller seeds the roller from configuration, falling back to the clock.
func newRoller(cfg *config.Config) dice.Roller {
	if cfg.RNGSeed != 0 {
		return dice.NewSeededRoller(cfg.RNGSeed)
	}
	return dice.NewRandomRoller()
}
