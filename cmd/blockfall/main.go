// blockfall is a falling-block puzzle game for the terminal, played solo,
// against the computer, two to a keyboard, or against a remote player over
// SSH.
//
// Usage:
//
//	blockfall list              - List game modes
//	blockfall play <mode>       - Play a mode
//	blockfall menu              - Pick modes interactively
//	blockfall serve             - Start the SSH server with online rooms
//	blockfall scores <mode>     - Show high scores for a mode
//	blockfall matches           - Show recent online matches
//	blockfall rooms             - Show rooms open on the server
//
// Global flags:
//
//	--fps <rate>        - Tick rate (default: 60)
//	--seed <value>      - RNG seed for reproducible piece sequences
//	--db <path>         - Database path (default: $XDG_DATA_HOME/blockfall/blockfall.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	_ "github.com/vovakirdan/blockfall/internal/games/blockfall" // registers the modes
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - falling blocks in your terminal",
	Long: `Blockfall is a falling-block puzzle game for the terminal.

Play alone, against the computer, with a friend on the same keyboard,
or against a remote player through the SSH server's online rooms.

Available commands:
  list     - Show the game modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start the SSH server
  scores   - View high scores
  matches  - View recent online matches
  rooms    - View rooms open on the server

Examples:
  blockfall list
  blockfall play tetris
  blockfall play tetris_cpu --difficulty hard
  blockfall menu
  blockfall serve --ssh :2222`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (default: data directory)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(roomsCmd)
}

// resolveDBPath returns --db, or the default file in the data directory.
func resolveDBPath() (string, error) {
	if flagDBPath != "" {
		return flagDBPath, nil
	}
	return config.DataPath("blockfall.db")
}

// openStore opens the database at the resolved path.
func openStore() (*storage.Store, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// runtimeConfig sizes the game to the terminal, falling back to 80x24.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// scoreSource keeps a nil store from becoming a non-nil interface.
func scoreSource(store *storage.Store) tui.ScoreSource {
	if store == nil {
		return nil
	}
	return store
}
