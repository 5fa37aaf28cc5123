package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels/formats"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List campaign levels",
	Long: `Lists the levels of the campaign with their size, moves and obstacles.

The built-in campaign is used unless levels.dir is set in the config.

Examples:
  blast levels
  blast levels export 3 > level_03.json`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

var levelsExportCmd = &cobra.Command{
	Use:   "export <level>",
	Short: "Print a level as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevelsExport,
}

func init() {
	levelsCmd.AddCommand(levelsExportCmd)
}

func runLevels(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.levels.Count() == 0 {
		fmt.Println("No levels found.")
		return nil
	}

	fmt.Printf("  %-3s  %-18s  %-5s  %5s  %9s  %s\n", "#", "Name", "Size", "Moves", "Obstacles", "Status")
	fmt.Printf("  %-3s  %-18s  %-5s  %5s  %9s  %s\n", "--", "----", "----", "-----", "---------", "------")
	for _, n := range a.levels.Numbers() {
		lvl, _ := a.levels.Get(n)
		status, err := levelStatus(a, n)
		if err != nil {
			return err
		}
		size := fmt.Sprintf("%dx%d", lvl.Width, lvl.Height)
		fmt.Printf("  %-3d  %-18s  %-5s  %5d  %9d  %s\n", n, lvl.Name, size, lvl.Moves, lvl.ObstacleCount(), status)
	}
	return nil
}

func levelStatus(a *app, n int) (string, error) {
	done, err := a.campaign.Store().IsLevelCompleted(blast.GameID, n)
	if err != nil {
		return "", err
	}
	if done {
		return "cleared", nil
	}
	unlocked, err := a.campaign.Unlocked(n)
	if err != nil {
		return "", err
	}
	if unlocked {
		return "open", nil
	}
	return "locked", nil
}

func runLevelsExport(_ *cobra.Command, args []string) error {
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
	data, err := formats.Level{LevelSpec: lvl.LevelSpec}.MarshalJSON()
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(os.Stdout)
	return err
}
