package config

import (
	"fmt"
	"time"

	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/logger"
)

// Default timing constants. The receive timeout matches the scheduler's
// broadcast cadence; discovery attempts are capped by both wall clock and
// attempt count.
const (
	DefaultNetName        = "ICECREAM"
	DefaultConnectTimeout = 20 * time.Second
	DefaultRecvTimeout    = 3 * time.Second
	DefaultSchedulerPort  = 8765
)

// Options is the complete, immutable configuration for one invocation.
// It is assembled once in the CLI layer (file < env < flags) and passed
// to each component at construction; nothing reads configuration from
// ambient state after that.
type Options struct {
	// Connection settings.
	NetName        string        `mapstructure:"netname" yaml:"netname"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	RecvTimeout    time.Duration `mapstructure:"recv_timeout" yaml:"recv_timeout"`
	SchedulerAddr  string        `mapstructure:"scheduler" yaml:"scheduler"`
	SchedulerPort  int           `mapstructure:"port" yaml:"port"`

	// Output verbosity.
	Quiet     bool `mapstructure:"quiet" yaml:"quiet"`
	VeryQuiet bool `mapstructure:"very_quiet" yaml:"very_quiet"`
	Brief     bool `mapstructure:"brief" yaml:"brief"`
	Debug     bool `mapstructure:"debug" yaml:"debug"`

	// Rendering.
	Plain       bool   `mapstructure:"plain" yaml:"plain"`
	ASCIIOnly   bool   `mapstructure:"ascii" yaml:"ascii"`
	StrictASCII bool   `mapstructure:"strict_ascii" yaml:"strict_ascii"`
	NoTable     bool   `mapstructure:"no_table" yaml:"no_table"`
	Color       string `mapstructure:"color" yaml:"color"`

	// Node filters. These affect which nodes are displayed/counted,
	// never the core total.
	FilterOffline  bool `mapstructure:"no_offline" yaml:"no_offline"`
	FilterNoRemote bool `mapstructure:"no_noremote" yaml:"no_noremote"`
}

// Default returns the built-in defaults.
func Default() Options {
	return Options{
		NetName:        DefaultNetName,
		ConnectTimeout: DefaultConnectTimeout,
		RecvTimeout:    DefaultRecvTimeout,
		SchedulerPort:  DefaultSchedulerPort,
		Color:          "auto",
	}
}

// Validate checks the options for values that can never work.
func (o Options) Validate() error {
	if o.NetName == "" && o.SchedulerAddr == "" {
		return errors.New(errors.ErrArgs,
			"No network name and no scheduler address",
			"Set --netname for broadcast discovery or --scheduler for a direct connection.")
	}
	if o.ConnectTimeout <= 0 {
		return errors.New(errors.ErrArgs,
			fmt.Sprintf("Connect timeout must be positive, got %s", o.ConnectTimeout),
			"Try something like --connect-timeout 20s.")
	}
	if o.RecvTimeout <= 0 {
		return errors.New(errors.ErrArgs,
			fmt.Sprintf("Receive timeout must be positive, got %s", o.RecvTimeout),
			"Try something like --recv-timeout 3s.")
	}
	if o.SchedulerPort <= 0 || o.SchedulerPort > 65535 {
		return errors.New(errors.ErrArgs,
			fmt.Sprintf("Port %d is out of range", o.SchedulerPort),
			"Ports must be between 1 and 65535.")
	}
	switch o.Color {
	case "auto", "always", "never":
	default:
		return errors.New(errors.ErrArgs,
			fmt.Sprintf("Unknown color mode '%s'", o.Color),
			"Use --color auto, always, or never.")
	}
	return nil
}

// Verbosity maps the quiet/very-quiet/debug flags onto a logger level.
// Debug wins over the quiet flags.
func (o Options) Verbosity() logger.Level {
	switch {
	case o.Debug:
		return logger.LevelDebug
	case o.VeryQuiet:
		return logger.LevelError
	case o.Quiet:
		return logger.LevelWarn
	default:
		return logger.LevelInfo
	}
}
