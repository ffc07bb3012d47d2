package main

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sternmatt/dungeonforge/internal/config"
	"github.com/sternmatt/dungeonforge/internal/dice"
	"github.com/sternmatt/dungeonforge/internal/domain/combat"
	"github.com/sternmatt/dungeonforge/internal/domain/damage"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/services/encounter"
)

var (
	simRuns    int
	simWorkers int
	simRounds  int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run scripted encounter simulations",
	Long: `Run a batch of fighter-versus-goblins encounters and report how often
each side wins. Each run gets its own seeded roller so a fixed RNG_SEED
reproduces the whole batch.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&simRuns, "runs", "n", 100, "number of encounters to simulate")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 4, "parallel workers")
	simulateCmd.Flags().IntVar(&simRounds, "max-rounds", 50, "round cap per encounter")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)

	baseSeed := cfg.RNGSeed
	if baseSeed == 0 {
		baseSeed = 1
	}

	var heroWins, monsterWins, stalled atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(simWorkers)
	for run := 0; run < simRuns; run++ {
		seed := baseSeed + int64(run)
		g.Go(func() error {
			winner, err := simulateOne(seed)
			if err != nil {
				return err
			}
			switch winner {
			case "heroes":
				heroWins.Add(1)
			case "monsters":
				monsterWins.Add(1)
			default:
				stalled.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("simulation finished", "runs", simRuns)
	fmt.Printf("runs: %d\n", simRuns)
	fmt.Printf("hero wins: %d (%.1f%%)\n", heroWins.Load(), percent(heroWins.Load(), simRuns))
	fmt.Printf("monster wins: %d (%.1f%%)\n", monsterWins.Load(), percent(monsterWins.Load(), simRuns))
	if stalled.Load() > 0 {
		fmt.Printf("hit round cap: %d\n", stalled.Load())
	}
	return nil
}

// simulateOne plays a single scripted encounter to completion and returns
// the winning side, or "" when the round cap is reached first.
func simulateOne(seed int64) (combat.Side, error) {
	svc := encounter.NewService(&encounter.ServiceConfig{
		Roller: dice.NewSeededRoller(seed),
	})

	enc, err := svc.StartEncounter(&encounter.StartEncounterInput{
		Name: "simulation",
		Participants: []*combat.Participant{
			{
				ID: "fighter", Name: "Fighter", Side: "heroes",
				InitiativeBonus: 2, DexScore: 14,
				HP: shared.HPResource{Current: 28, Max: 28}, AC: 16, Speed: 30,
			},
			{
				ID: "goblin-1", Name: "Goblin", Side: "monsters",
				InitiativeBonus: 2, DexScore: 14,
				HP: shared.HPResource{Current: 7, Max: 7}, AC: 15, Speed: 30,
			},
			{
				ID: "goblin-2", Name: "Goblin", Side: "monsters",
				InitiativeBonus: 2, DexScore: 14,
				HP: shared.HPResource{Current: 7, Max: 7}, AC: 15, Speed: 30,
			},
		},
	})
	if err != nil {
		return "", err
	}

	for enc.Status == combat.StatusActive && enc.Round <= simRounds {
		current := enc.Current()
		if target := pickTarget(enc, current); target != "" && !current.Incapacitated() {
			next, _, err := svc.ResolveAttack(enc, &encounter.AttackInput{
				AttackerID:     current.ID,
				TargetID:       target,
				AttackBonus:    attackBonusFor(current),
				DamageNotation: damageFor(current),
				DamageType:     damageTypeFor(current),
				ConsumeAction:  true,
			})
			if err != nil {
				return "", err
			}
			enc = next
		}
		if enc.Status != combat.StatusActive {
			break
		}
		next, err := svc.AdvanceTurn(enc)
		if err != nil {
			return "", err
		}
		enc = next
	}

	return enc.Winner, nil
}

// pickTarget returns the first standing enemy of the current participant.
func pickTarget(enc *combat.Encounter, current *combat.Participant) string {
	for _, id := range enc.TurnOrder {
		p := enc.Participants[id]
		if p.Side != current.Side && p.Alive() && !p.Incapacitated() {
			return p.ID
		}
	}
	return ""
}

func percent(n int64, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func attackBonusFor(p *combat.Participant) int {
	if p.Side == "heroes" {
		return 5
	}
	return 4
}

func damageFor(p *combat.Participant) string {
	if p.Side == "heroes" {
		return "1d8+3"
	}
	return "1d6+2"
}

func damageTypeFor(p *combat.Participant) damage.Type {
	if p.Side == "heroes" {
		return damage.TypeSlashing
	}
	return damage.TypePiercing
}
