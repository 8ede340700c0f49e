package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the game modes",
	Long:  `Shows every registered game mode and how many players it takes.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	modes := registry.List()
	if len(modes) == 0 {
		fmt.Println("No game modes available.")
		return
	}

	fmt.Println("Game modes:")
	fmt.Println()

	maxIDLen := 2
	for _, g := range modes {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	stats := map[string]*storage.GameStats{}
	if store, err := openStore(); err == nil {
		if all, err := store.GetAllGamesStats(); err == nil {
			stats = all
		}
		store.Close()
	}

	fmt.Printf("  %-*s  %-7s  %-7s  %-6s  %s\n", maxIDLen, "ID", "Players", "Best", "Games", "Title")
	fmt.Printf("  %-*s  %-7s  %-7s  %-6s  %s\n", maxIDLen, "--", "-------", "----", "-----", "-----")
	for _, g := range modes {
		best, games := "-", "0"
		if st, ok := stats[g.ID]; ok {
			best, games = strconv.Itoa(st.HighScore), strconv.Itoa(st.GamesCount)
		}
		fmt.Printf("  %-*s  %-7d  %-7s  %-6s  %s\n", maxIDLen, g.ID, g.Players, best, games, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'blockfall play <id>' to play a mode.")
	fmt.Println("Online matches are played through 'blockfall serve'.")
}
