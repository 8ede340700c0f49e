package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/storage"
)

var flagRoomCode string

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Show the rooms open on the SSH server",
	Long: `List the online rooms the SSH server currently holds, read from its
database. Rooms disappear once both players leave or nobody joins in time.

Examples:
  blockfall rooms
  blockfall rooms --code ABC234
  blockfall rooms --db /var/lib/blockfall/blockfall.db`,
	Args: cobra.NoArgs,
	Run:  runRooms,
}

func init() {
	roomsCmd.Flags().StringVar(&flagRoomCode, "code", "", "Show a single room by its join code")
}

func runRooms(_ *cobra.Command, _ []string) {
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var rooms []storage.Room
	if flagRoomCode != "" {
		room, err := store.GetRoom(flagRoomCode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving room: %v\n", err)
			os.Exit(1)
		}
		if room == nil {
			fmt.Fprintf(os.Stderr, "Error: no room with code %q\n", flagRoomCode)
			os.Exit(1)
		}
		rooms = append(rooms, *room)
	} else {
		rooms, err = store.OpenRooms()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving rooms: %v\n", err)
			os.Exit(1)
		}
	}

	if len(rooms) == 0 {
		fmt.Println("No open rooms.")
		return
	}

	fmt.Printf("  %-6s  %-8s  %-8s  %-8s  %s\n", "Code", "Status", "Host", "Guest", "Open for")
	fmt.Printf("  %-6s  %-8s  %-8s  %-8s  %s\n", "----", "------", "----", "-----", "--------")
	for _, r := range rooms {
		guest := "-"
		if r.GuestSession != "" {
			guest = shortMatchID(r.GuestSession)
		}
		fmt.Printf("  %-6s  %-8s  %-8s  %-8s  %s\n",
			r.Code, r.Status, shortMatchID(r.HostSession), guest,
			time.Since(r.CreatedAt).Round(time.Second))
	}
}
