package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/platform/tui"
)

var flagResetYes bool

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show campaign progress",
	Long: `Shows which levels are cleared, open and locked, with the best result
for each cleared level.

Examples:
  blast progress
  blast progress reset --yes`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget cleared levels and start the campaign over",
	Args:  cobra.NoArgs,
	RunE:  runProgressReset,
}

func init() {
	progressResetCmd.Flags().BoolVar(&flagResetYes, "yes", false, "Confirm the reset")
	progressCmd.AddCommand(progressResetCmd)
}

func runProgress(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{requireStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := tui.LevelEntries(a.campaign)
	if err != nil {
		return err
	}
	records, err := a.store.LevelProgress(blast.GameID)
	if err != nil {
		return err
	}

	rows := tui.ProgressRows(entries, records)
	cleared := 0
	for _, e := range entries {
		if e.Completed {
			cleared++
		}
	}

	fmt.Printf("Campaign: %d of %d levels cleared\n\n", cleared, len(entries))
	fmt.Printf("  %-3s  %-18s  %-8s  %6s  %s\n", "#", "Name", "Status", "Best", "Moves left")
	fmt.Printf("  %-3s  %-18s  %-8s  %6s  %s\n", "--", "----", "------", "----", "----------")
	for _, row := range rows {
		fmt.Printf("  %-3s  %-18s  %-8s  %6s  %s\n", row[0], row[1], row[2], row[3], row[4])
	}
	return nil
}

func runProgressReset(_ *cobra.Command, _ []string) error {
	if !flagResetYes {
		return errors.New("this erases campaign progress; pass --yes to confirm")
	}

	a, err := newApp(appOptions{requireStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.ResetProgress(blast.GameID); err != nil {
		return err
	}
	fmt.Println("Campaign progress reset.")
	return nil
}
