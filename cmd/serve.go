package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/BioHazard786/peerlink/internal/config"
	"github.com/BioHazard786/peerlink/internal/server"
	"github.com/spf13/cobra"
)

var serveOpts config.Options

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the signaling relay",
	Long: `Run the signaling relay until interrupted.

Every flag can also be set through its environment variable (PORT, ROOM_TTL,
SWEEP_INTERVAL, KEY_LENGTH, KEY_STYLE, HIDE_KEYS, ALLOWED_ORIGINS, ...).
Flags win over the environment.

Examples:
  peerlink serve
  peerlink serve --port 8080 --room-ttl 30m
  peerlink serve --key-style words --hide-keys`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveOpts)
		if err != nil {
			return err
		}

		srv, err := server.New(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx)
	},
}

func init() {
	f := serveCmd.Flags()
	f.IntVarP(&serveOpts.Port, "port", "p", 0, "port to listen on (default 5000)")
	f.DurationVar(&serveOpts.RoomTTL, "room-ttl", 0, "maximum room age before eviction (default 10m)")
	f.DurationVar(&serveOpts.SweepInterval, "sweep-interval", 0, "how often expired rooms are evicted (default 60s)")
	f.IntVar(&serveOpts.KeyLength, "key-length", 0, "join key length in characters or words (default 4)")
	f.StringVar(&serveOpts.KeyStyle, "key-style", "", "join key style: alnum or words (default alnum)")
	f.BoolVar(&serveOpts.HideKeys, "hide-keys", false, "redact join keys from room listings")
	f.IntVar(&serveOpts.MaxNameLength, "max-name-length", 0, "maximum room name length (default 64)")
	f.StringVar(&serveOpts.AllowedOrigins, "allowed-origins", "", "comma separated browser origins, * for any (default *)")
	f.StringVar(&serveOpts.STUNServer, "stun", "", "STUN server advertised to browsers")
	f.StringVar(&serveOpts.TURNServer, "turn", "", "TURN server advertised to browsers")
	f.StringVar(&serveOpts.TURNUser, "turn-user", "", "TURN username")
	f.StringVar(&serveOpts.TURNPass, "turn-pass", "", "TURN password")
	f.DurationVar(&serveOpts.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout (default 10s)")

	rootCmd.AddCommand(serveCmd)
}
