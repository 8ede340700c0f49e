package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagMatchesLimit   int
	flagMatchesSession string
	flagMatchesID      string
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show recent online matches",
	Long: `List online match results recorded by the SSH server, newest first.

Examples:
  blockfall matches
  blockfall matches --limit 50
  blockfall matches --session 5f0c...
  blockfall matches --id 9b1e...`,
	Args: cobra.NoArgs,
	Run:  runMatches,
}

func init() {
	matchesCmd.Flags().IntVar(&flagMatchesLimit, "limit", 20, "Number of matches to show")
	matchesCmd.Flags().StringVar(&flagMatchesSession, "session", "", "Only matches played by this session ID")
	matchesCmd.Flags().StringVar(&flagMatchesID, "id", "", "Show a single match by its full ID")
}

func runMatches(_ *cobra.Command, _ []string) {
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var matches []storage.OnlineMatchResult
	switch {
	case flagMatchesID != "":
		var m *storage.OnlineMatchResult
		m, err = store.OnlineMatchByID(flagMatchesID)
		if m != nil {
			matches = append(matches, *m)
		}
	case flagMatchesSession != "":
		matches, err = store.PlayerMatchHistory(flagMatchesSession, flagMatchesLimit)
	default:
		matches, err = store.RecentOnlineMatches(flagMatchesLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		return
	}

	if len(matches) == 0 {
		fmt.Println("No online matches recorded yet.")
		return
	}

	fmt.Printf("  %-8s  %-13s  %-6s  %-10s  %-8s  %s\n", "Match", "Score", "Winner", "Reason", "Duration", "Date")
	fmt.Printf("  %-8s  %-13s  %-6s  %-10s  %-8s  %s\n", "-----", "-----", "------", "------", "--------", "----")
	for _, m := range matches {
		fmt.Printf("  %-8s  %-13s  %-6s  %-10s  %-8s  %s\n",
			shortMatchID(m.MatchID),
			fmt.Sprintf("%d - %d", m.Score1, m.Score2),
			winnerSide(m),
			m.EndReason,
			fmt.Sprintf("%dm%02ds", m.Duration/60, m.Duration%60),
			m.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}

func shortMatchID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func winnerSide(m storage.OnlineMatchResult) string {
	switch m.WinnerSession {
	case "":
		return "tie"
	case m.Player1Session:
		return "P1"
	default:
		return "P2"
	}
}
