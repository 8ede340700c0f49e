package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick game modes from a menu",
	Long: `Start blockfall in interactive menu mode.

Use the arrow keys or j/k to pick a mode and Enter to play it.
Left/Right changes the computer difficulty, Tab opens the scoreboard.
After a game you return to the menu.

Examples:
  blockfall menu
  blockfall menu --difficulty easy
  blockfall menu --fps 30 --db ./blockfall.db`,
	Run: runMenu,
}

type difficultySetter interface {
	SetDifficulty(p config.DifficultyPreset)
}

func runMenu(_ *cobra.Command, _ []string) {
	difficulty, err := applyGameFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()
	for {
		res, err := tui.RunMenu(cfg, difficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = res.Config
		difficulty = res.Difficulty

		if res.Quit {
			return
		}
		if res.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(scoreSource(store), cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if d, ok := game.(difficultySetter); ok {
			d.SetDifficulty(difficulty)
		}

		// a fixed --seed replays the same sequence every game
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if err := tui.Run(game, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
