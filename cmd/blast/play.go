package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the campaign",
	Long: `Start playing where the campaign left off, or on a specific unlocked level.

Controls:
  Arrows/WASD/HJKL  - Move the cursor
  Enter/Space/Click - Tap the cell under the cursor
  N                 - Next level (after a win)
  R                 - Restart the level
  P                 - Pause
  Esc/B             - Leave (when paused or the level is over)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Extra moves, smaller groups make rockets, hints on
  normal - Moves shrink slowly through the campaign
  hard   - Fewer moves, rockets need bigger groups, hints off
  fixed  - Moves exactly as the level files say

Examples:
  blast play
  blast play 4
  blast play --difficulty hard
  blast play --config ./my-blast.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	a, err := newApp(appOptions{interactive: true})
	if err != nil {
		return err
	}
	defer a.Close()

	level := 0
	if len(args) == 1 {
		if level, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid level %q", args[0])
		}
		if _, err := a.campaign.Level(level); err != nil {
			return err
		}
		unlocked, err := a.campaign.Unlocked(level)
		if err != nil {
			return err
		}
		if !unlocked {
			return fmt.Errorf("level %d is locked; run 'blast progress' to see what is open", level)
		}
	}

	_, err = startGame(a, level)
	return err
}

// startGame runs the game until the player quits or asks for the menu.
// Level 0 resumes the campaign.
func startGame(a *app, level int) (backToMenu bool, err error) {
	game, err := a.registry.Create(blast.GameID)
	if err != nil {
		return false, fmt.Errorf("creating game: %w", err)
	}
	if g, ok := game.(*blast.Game); ok && level > 0 {
		g.SelectLevel(level)
	}

	backToMenu, err = tui.Run(game, a.store, runtimeConfig(), a.logger)
	if err != nil {
		return false, fmt.Errorf("running game: %w", err)
	}
	return backToMenu, nil
}
