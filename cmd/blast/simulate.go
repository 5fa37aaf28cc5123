package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blast-arcade/internal/config"
	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
)

var (
	flagSimVerbose bool
	flagSimEvents  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <level>",
	Short: "Let the bot play a level",
	Long: `Plays a level with the built-in bot and prints the board and outcome.

The bot taps the most useful group each move: rockets first, then groups
touching obstacles, then the largest group. Use --seed for a repeatable run.

Examples:
  blast simulate 1
  blast simulate 3 --seed 42 --verbose
  blast simulate 2 --events`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVarP(&flagSimVerbose, "verbose", "v", false, "Print the board after every move")
	simulateCmd.Flags().BoolVar(&flagSimEvents, "events", false, "Print every engine event")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid level %q", args[0])
	}

	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	lvl, err := a.campaign.Level(n)
	if err != nil {
		return err
	}

	opts := blast.SessionOptions(a.config, a.logger)
	opts.Pacer = nil
	opts.Seed = flagSeed
	session := core.NewSession(opts)

	var rec core.Recorder
	if flagSimEvents {
		defer rec.Attach(session.Bus())()
	}

	spec := lvl.LevelSpec
	spec.Moves = config.NewDifficultyManager(a.config.Difficulty).Moves(spec.Moves, spec.Number)
	if err := session.Start(spec); err != nil {
		return err
	}
	rec.Reset()

	rules := core.MatchRules{MinMatch: opts.MinMatch, RocketThreshold: opts.RocketThreshold}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snap := session.Snapshot()
	fmt.Printf("Level %d: %s (%d moves)\n\n", snap.Level, snap.LevelName, snap.Moves)
	fmt.Println(core.RenderASCII(snap))

	for move := 1; !snap.Over(); move++ {
		x, y, ok := core.ChooseTap(snap, rules)
		if !ok {
			fmt.Println("No playable cells left.")
			break
		}
		res, err := session.Tap(ctx, x, y)
		if err != nil {
			return err
		}
		snap = session.Snapshot()

		if flagSimVerbose {
			fmt.Printf("Move %d: tap (%d,%d) %s, %d moves left\n", move, x, y, res.Kind, res.MovesLeft)
			fmt.Println(core.RenderASCII(snap))
		}
		if flagSimEvents {
			for _, ev := range rec.Events() {
				fmt.Printf("  %s %+v\n", ev.Kind(), ev)
			}
			rec.Reset()
		}
	}

	if !flagSimVerbose {
		fmt.Println(core.RenderASCII(snap))
	}
	fmt.Printf("Result: %s  Score: %d  Moves used: %d\n", snap.Status, snap.Score, snap.Stats.MovesUsed)
	fmt.Printf("Cubes: %d  Obstacles: %d  Rockets: %d made, %d fired, %d combos\n",
		snap.Stats.CubesCleared, snap.Stats.ObstaclesDestroyed,
		snap.Stats.RocketsCreated, snap.Stats.RocketsExploded, snap.Stats.Combos)
	return nil
}
