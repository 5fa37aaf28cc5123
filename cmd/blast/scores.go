package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blast-arcade/internal/games/blast"
)

var (
	flagScoresLevel int
	flagClearYes    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top 10 high scores, optionally for a single level.

Examples:
  blast scores
  blast scores --level 3
  blast scores clear --yes`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

var scoresClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded score",
	Args:  cobra.NoArgs,
	RunE:  runScoresClear,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLevel, "level", 0, "Only show scores for this level")
	scoresClearCmd.Flags().BoolVar(&flagClearYes, "yes", false, "Confirm deleting scores")
	scoresCmd.AddCommand(scoresClearCmd)
}

func runScores(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{requireStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	scores, err := a.store.AllScores(blast.GameID)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	title := "High Scores - Blast"
	if flagScoresLevel > 0 {
		title += fmt.Sprintf(", level %d", flagScoresLevel)
	}
	fmt.Println(title)
	fmt.Println()

	shown := 0
	for _, entry := range scores {
		if flagScoresLevel > 0 && entry.Level != flagScoresLevel {
			continue
		}
		if shown == 0 {
			fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "Rank", "Score", "Level", "Date")
			fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "----", "-----", "-----", "----")
		}
		shown++
		fmt.Printf("  %-4d  %-10d  %-5d  %s\n", shown, entry.Score, entry.Level, entry.CreatedAt.Format("2006-01-02 15:04"))
		if shown == 10 {
			break
		}
	}

	if shown == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'blast play' to set the first high score!")
		return nil
	}

	fmt.Println()
	if best, err := a.store.HighScore(blast.GameID); err == nil {
		fmt.Printf("Best: %d", best)
	}
	if stats, err := a.store.GetGameStats(blast.GameID); err == nil {
		fmt.Printf("  Runs: %d  Average: %.0f", stats.GamesCount, stats.AvgScore)
	}
	fmt.Println()
	return nil
}

func runScoresClear(_ *cobra.Command, _ []string) error {
	if !flagClearYes {
		return errors.New("this deletes every score; pass --yes to confirm")
	}

	a, err := newApp(appOptions{requireStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.ClearScores(blast.GameID); err != nil {
		return err
	}
	fmt.Println("Scores cleared.")
	return nil
}
