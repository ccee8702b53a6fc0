package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BioHazard786/peerlink/internal/client"
	"github.com/BioHazard786/peerlink/internal/server"
	"github.com/BioHazard786/peerlink/internal/signaling"
	"github.com/BioHazard786/peerlink/internal/ui"
	"github.com/spf13/cobra"
)

var (
	flagServer  string
	flagTimeout time.Duration
	flagWatch   bool
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the rooms on a running relay",
	Long: `List the rooms currently open on a running relay. Join keys are never
shown here.

With --watch the command stays connected over the websocket and redraws the
table every time the relay broadcasts a new room list.

Examples:
  peerlink rooms
  peerlink rooms --watch
  peerlink rooms --server https://relay.example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagWatch {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchRooms(ctx, flagServer, func(rooms []signaling.Room) {
				fmt.Println(ui.MutedStyle.Render("updated " + time.Now().Format(time.TimeOnly)))
				ui.RenderRoomTable(roomRows(rooms), time.Now())
			})
		}

		stopSpinner := ui.RunConnectionSpinner("Fetching rooms...")
		defer stopSpinner()

		ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
		defer cancel()

		rooms, err := fetchRooms(ctx, flagServer)
		if err != nil {
			return err
		}
		stopSpinner()

		ui.RenderRoomTable(roomRows(rooms.Rooms), time.Now())
		return nil
	},
}

// roomRows converts relay rooms to table rows. Keys are dropped even when the
// relay publishes them.
func roomRows(rooms []signaling.Room) []ui.RoomRow {
	rows := make([]ui.RoomRow, 0, len(rooms))
	for _, r := range rooms {
		rows = append(rows, ui.RoomRow{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt})
	}
	return rows
}

// watchRooms subscribes to rooms-list broadcasts and calls render for each one
// until ctx is cancelled or the relay hangs up.
func watchRooms(ctx context.Context, base string, render func([]signaling.Room)) error {
	stopSpinner := ui.RunConnectionSpinner("Connecting to relay...")
	dialCtx, cancel := context.WithTimeout(ctx, flagTimeout)
	c, err := client.Dial(dialCtx, base)
	cancel()
	stopSpinner()
	if err != nil {
		return err
	}
	defer c.Close()
	ui.PrintSuccess("Connected to " + base)

	if err := c.Send(signaling.TypeGetRooms, nil); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			ui.PrintInfo("Stopped watching")
			return nil
		case msg, ok := <-c.Incoming():
			if !ok {
				return fmt.Errorf("relay closed the connection")
			}
			switch msg.Type {
			case signaling.TypeRoomsList:
				var rooms []signaling.Room
				if err := json.Unmarshal(msg.Payload, &rooms); err != nil {
					ui.PrintWarning(fmt.Sprintf("Ignoring malformed rooms-list: %v", err))
					continue
				}
				render(rooms)
			case signaling.TypeError:
				var e signaling.ErrorPayload
				json.Unmarshal(msg.Payload, &e)
				ui.PrintWarning(fmt.Sprintf("Relay error %s: %s", e.Code, e.Message))
			}
		}
	}
}

func fetchRooms(ctx context.Context, base string) (*server.RoomsResponse, error) {
	url := strings.TrimRight(base, "/") + "/rooms"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay answered %s", resp.Status)
	}

	var rooms server.RoomsResponse
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		return nil, fmt.Errorf("invalid rooms response: %w", err)
	}
	return &rooms, nil
}

func init() {
	roomsCmd.Flags().StringVarP(&flagServer, "server", "s", "http://localhost:5000", "relay base URL")
	roomsCmd.Flags().DurationVar(&flagTimeout, "timeout", 10*time.Second, "request timeout")
	roomsCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "keep the table updated from live broadcasts")

	rootCmd.AddCommand(roomsCmd)
}
