package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default configuration values
const (
	DefaultPort            = 5000
	DefaultRoomTTL         = 10 * time.Minute
	DefaultSweepInterval   = 60 * time.Second
	DefaultKeyLength       = 4
	DefaultKeyStyle        = KeyStyleAlnum
	DefaultMaxNameLength   = 64
	DefaultAllowedOrigins  = "*"
	DefaultSTUN            = "stun:stun.l.google.com:19302"
	DefaultShutdownTimeout = 10 * time.Second
)

// Join key styles
const (
	KeyStyleAlnum = "alnum"
	KeyStyleWords = "words"
)

// Config holds the relay server configuration
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int

	// RoomTTL is the maximum age of a room before the sweeper evicts it.
	RoomTTL time.Duration

	// SweepInterval is the period of the expiry sweeper.
	SweepInterval time.Duration

	// KeyLength is the number of characters (alnum) or words (words) in a join key.
	KeyLength int
	KeyStyle  string

	// HideKeys redacts join keys from rooms-list responses.
	HideKeys bool

	MaxNameLength  int
	AllowedOrigins []string

	// ICE servers advertised to browsers
	STUNServer string
	TURNServer string
	TURNUser   string
	TURNPass   string

	ShutdownTimeout time.Duration
}

// Options for loading config with CLI flag overrides.
// Zero values mean "not set on the command line".
type Options struct {
	Port            int
	RoomTTL         time.Duration
	SweepInterval   time.Duration
	KeyLength       int
	KeyStyle        string
	HideKeys        bool
	MaxNameLength   int
	AllowedOrigins  string
	STUNServer      string
	TURNServer      string
	TURNUser        string
	TURNPass        string
	ShutdownTimeout time.Duration
}

// Load reads configuration with the following priority:
// 1. CLI flags (passed via Options) - highest priority
// 2. Environment variables
// 3. Hardcoded defaults - lowest priority
func Load(opts Options) (*Config, error) {
	port, err := intSetting(opts.Port, "PORT", DefaultPort)
	if err != nil {
		return nil, err
	}
	keyLength, err := intSetting(opts.KeyLength, "KEY_LENGTH", DefaultKeyLength)
	if err != nil {
		return nil, err
	}
	maxName, err := intSetting(opts.MaxNameLength, "MAX_NAME_LENGTH", DefaultMaxNameLength)
	if err != nil {
		return nil, err
	}

	roomTTL, err := durationSetting(opts.RoomTTL, "ROOM_TTL", DefaultRoomTTL)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := durationSetting(opts.SweepInterval, "SWEEP_INTERVAL", DefaultSweepInterval)
	if err != nil {
		return nil, err
	}
	shutdown, err := durationSetting(opts.ShutdownTimeout, "SHUTDOWN_TIMEOUT", DefaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	hideKeys := opts.HideKeys
	if !hideKeys {
		if v, ok := os.LookupEnv("HIDE_KEYS"); ok && v != "" {
			hideKeys, err = strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("invalid HIDE_KEYS %q: %w", v, err)
			}
		}
	}

	cfg := &Config{
		Port:            port,
		RoomTTL:         roomTTL,
		SweepInterval:   sweepInterval,
		KeyLength:       keyLength,
		KeyStyle:        strings.ToLower(stringSetting(opts.KeyStyle, "KEY_STYLE", DefaultKeyStyle)),
		HideKeys:        hideKeys,
		MaxNameLength:   maxName,
		AllowedOrigins:  splitList(stringSetting(opts.AllowedOrigins, "ALLOWED_ORIGINS", DefaultAllowedOrigins)),
		STUNServer:      stringSetting(opts.STUNServer, "STUN_SERVER", DefaultSTUN),
		TURNServer:      stringSetting(opts.TURNServer, "TURN_SERVER", ""),
		TURNUser:        stringSetting(opts.TURNUser, "TURN_USERNAME", ""),
		TURNPass:        stringSetting(opts.TURNPass, "TURN_PASSWORD", ""),
		ShutdownTimeout: shutdown,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RoomTTL <= 0 {
		return fmt.Errorf("room ttl must be positive, got %s", c.RoomTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}
	if c.KeyLength <= 0 {
		return fmt.Errorf("key length must be positive, got %d", c.KeyLength)
	}
	if c.KeyStyle != KeyStyleAlnum && c.KeyStyle != KeyStyleWords {
		return fmt.Errorf("unknown key style %q (want %q or %q)", c.KeyStyle, KeyStyleAlnum, KeyStyleWords)
	}
	if c.MaxNameLength <= 0 {
		return fmt.Errorf("max name length must be positive, got %d", c.MaxNameLength)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// ListenAddr returns the address the HTTP server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetSTUNServers returns STUN server URLs as strings
func (c *Config) GetSTUNServers() []string {
	if c.STUNServer == "" {
		return nil
	}
	return []string{c.STUNServer}
}

// GetTURNServers returns TURN server URLs if configured
func (c *Config) GetTURNServers() []string {
	if c.TURNServer == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("%s:3478?transport=udp", c.TURNServer),
		fmt.Sprintf("%s:3478?transport=tcp", c.TURNServer),
	}
}

// GetTURNCredentials returns TURN username and password
func (c *Config) GetTURNCredentials() (string, string) {
	return c.TURNUser, c.TURNPass
}

func stringSetting(flag, env, def string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func intSetting(flag int, env string, def int) (int, error) {
	if flag != 0 {
		return flag, nil
	}
	if v := os.Getenv(env); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", env, v, err)
		}
		return n, nil
	}
	return def, nil
}

// durationSetting accepts Go durations ("90s") or bare integers as seconds.
func durationSetting(flag time.Duration, env string, def time.Duration) (time.Duration, error) {
	if flag != 0 {
		return flag, nil
	}
	v := strings.TrimSpace(os.Getenv(env))
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", env, v, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
