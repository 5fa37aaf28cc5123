package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blast-arcade/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Long: `Start Blast in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
After leaving a level you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  blast menu
  blast menu --theme mono
  blast menu --db ./blast.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{interactive: true})
	if err != nil {
		return err
	}
	defer a.Close()

	theme, err := a.theme()
	if err != nil {
		return err
	}

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(a.campaign, cfg, theme)
		if err != nil {
			return err
		}
		cfg = result.Config

		level := 0
		switch result.Choice {
		case tui.ChoicePlay:
		case tui.ChoiceSelectLevel:
			if level, err = tui.RunLevelSelector(a.campaign, cfg, theme); err != nil {
				return err
			}
			if level <= 0 {
				continue
			}
		case tui.ChoiceScores:
			back, err := tui.RunScoreboard(a.store, a.levels.Numbers(), cfg.ScreenW, cfg.ScreenH, theme)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
			continue
		case tui.ChoiceProgress:
			back, err := tui.RunProgress(a.campaign, a.store, cfg.ScreenW, cfg.ScreenH, theme)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
			continue
		default:
			return nil
		}

		back, err := startGame(a, level)
		if err != nil {
			return err
		}
		if !back {
			return nil
		}
	}
}
