package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blast-arcade/internal/games/blast"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Summarize the campaign",
	Long:  `Shows how far the campaign has progressed, with run counts and the best score.`,
	RunE:  runList,
}

// campaignSummary is what list prints.
type campaignSummary struct {
	Levels  int
	Cleared int
	Next    int // 0 once every level is cleared
	Name    string
	Runs    int
	Best    int
}

func runList(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sum, err := summarizeCampaign(a)
	if err != nil {
		return err
	}
	writeSummary(os.Stdout, sum)
	return nil
}

func summarizeCampaign(a *app) (campaignSummary, error) {
	sum := campaignSummary{Levels: a.levels.Count()}
	if sum.Levels == 0 {
		return sum, nil
	}
	for _, n := range a.levels.Numbers() {
		done, err := a.campaign.Store().IsLevelCompleted(blast.GameID, n)
		if err != nil {
			return sum, err
		}
		if done {
			sum.Cleared++
		}
	}
	lvl, ok, err := a.campaign.Current()
	if err != nil {
		return sum, err
	}
	if ok {
		sum.Next, sum.Name = lvl.Number, lvl.Name
	}
	if a.store != nil {
		if st, err := a.store.GetGameStats(blast.GameID); err == nil {
			sum.Runs, sum.Best = st.GamesCount, st.HighScore
		}
	}
	return sum, nil
}

func writeSummary(w io.Writer, sum campaignSummary) {
	if sum.Levels == 0 {
		fmt.Fprintln(w, "No levels found.")
		return
	}

	fmt.Fprintln(w, "Blast campaign:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-8s %d/%d cleared\n", "Levels", sum.Cleared, sum.Levels)
	if sum.Next > 0 {
		fmt.Fprintf(w, "  %-8s %d %s\n", "Next", sum.Next, sum.Name)
	} else {
		fmt.Fprintf(w, "  %-8s campaign complete\n", "Next")
	}
	fmt.Fprintf(w, "  %-8s %d\n", "Runs", sum.Runs)
	fmt.Fprintf(w, "  %-8s %d\n", "Best", sum.Best)
	fmt.Fprintln(w)

	if sum.Next > 0 {
		fmt.Fprintln(w, "Run 'blast play' to continue the campaign.")
	} else {
		fmt.Fprintln(w, "Run 'blast progress reset' to play it again.")
	}
}
