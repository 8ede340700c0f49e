package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a game mode",
	Long: `Start playing the specified mode.

Controls (Player 1):
  Left/Right  - Move
  Up          - Rotate
  Down        - Soft drop
  Space       - Hard drop

Controls (Player 2, tetris_duo):
  A/D         - Move
  W           - Rotate
  S           - Soft drop
  E/Tab       - Hard drop

Shared:
  P/Esc       - Pause
  R           - Restart
  B           - Back (when paused or over)
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options (computer opponent):
  easy    - Slower and careless about holes
  normal  - Config as loaded
  hard    - Faster and avoids holes

Examples:
  blockfall play tetris
  blockfall play tetris_cpu --difficulty hard
  blockfall play tetris_duo
  blockfall play tetris --config ./blockfall.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, menuCmd} {
		c.Flags().StringVar(&flagConfig, "config", "", "Path to a custom game config YAML")
		c.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	}
}

// applyGameFlags validates --difficulty and hands --config and the preset
// to the game package.
func applyGameFlags() (config.DifficultyPreset, error) {
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return preset, err
	}
	if flagConfig != "" {
		if _, err := config.Load(flagConfig); err != nil {
			return preset, err
		}
	}
	blockfall.SetConfigPath(flagConfig)
	blockfall.SetDifficultyPreset(string(preset))
	return preset, nil
}

func runPlay(_ *cobra.Command, args []string) {
	modeID := args[0]

	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available modes.")
		os.Exit(1)
	}
	if _, err := applyGameFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	var best int
	if store != nil {
		best, _ = store.HighScore(modeID)
	}

	runErr := tui.Run(game, store, runtimeConfig())

	if store != nil {
		if now, err := store.HighScore(modeID); err == nil && now > best {
			fmt.Printf("New high score for %s: %d\n", game.Title(), now)
		}
		store.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
