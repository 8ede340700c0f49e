package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagRoomTimeout time.Duration
	flagServeConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blockfall SSH server",
	Long: `Start an SSH server where users connect and play.

Each connection gets its own menu with the local modes and an Online Match
entry. One player hosts a room and shares its code; the other joins with it.
Scores and online match results are stored on the server.

Settings come from the environment and can be overridden by flags:
  BLOCKFALL_SSH_ADDR, BLOCKFALL_HOST_KEY, BLOCKFALL_DB,
  BLOCKFALL_IDLE_TIMEOUT, BLOCKFALL_ROOM_TIMEOUT, BLOCKFALL_CONFIG

Examples:
  blockfall serve                           # Listen on :23234
  blockfall serve --ssh :2222               # Listen on port 2222
  blockfall serve --host-key ./host_key     # Use a specific host key
  blockfall serve --room-timeout 5m         # Expire unjoined rooms sooner

Users connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (generated if missing)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
	serveCmd.Flags().DurationVar(&flagRoomTimeout, "room-timeout", 0, "How long a room waits for a guest")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Path to a custom game config YAML")
}

// serverConfig merges the environment with the flags that were set.
func serverConfig(cmd *cobra.Command) (config.ServerConfig, error) {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("ssh") {
		cfg.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.IdleTimeout = flagIdleTimeout
	}
	if cmd.Flags().Changed("room-timeout") {
		cfg.RoomTimeout = flagRoomTimeout
	}
	if cmd.Flags().Changed("config") {
		cfg.ConfigPath = flagServeConfig
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := serverConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.ConfigPath != "" {
		if _, err := config.Load(cfg.ConfigPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		blockfall.SetConfigPath(cfg.ConfigPath)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall-ssh",
		Level:           log.GetLevel(),
	})

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting blockfall SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
