package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/farmq/farmq/internal/config"
	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/logger"
	"github.com/farmq/farmq/internal/sched"
	"github.com/farmq/farmq/internal/ui"
)

// Flag values, layered on top of the config file and FARMQ_* environment.
var (
	flagNetName        string
	flagConnectTimeout time.Duration
	flagRecvTimeout    time.Duration
	flagScheduler      string
	flagPort           int
	flagQuiet          bool
	flagVeryQuiet      bool
	flagBrief          bool
	flagDebug          bool
	flagPlain          bool
	flagASCII          bool
	flagStrictASCII    bool
	flagNoTable        bool
	flagColor          string
	flagNoOffline      bool
	flagNoNoRemote     bool
)

// rootCmd runs the one-shot query when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "farmq",
	Short: "Query a build-farm scheduler for node status",
	Long: `farmq connects to the build-farm scheduler, collects the node stats
broadcast, and prints a table of nodes with a core-count summary.

The scheduler is found by broadcast discovery on the configured network
name, or contacted directly with --scheduler.

Examples:
  farmq
  farmq --netname BUILDFARM
  farmq --scheduler 10.1.2.3 --port 8765
  farmq --brief`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, log, err := setup(cmd)
		if err != nil {
			return err
		}
		return runQuery(sched.NewNetProvider(log), opts, log, os.Stdout)
	},
}

func init() {
	defaults := config.Default()
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&flagNetName, "netname", defaults.NetName, "network name for scheduler discovery")
	pf.DurationVar(&flagConnectTimeout, "connect-timeout", defaults.ConnectTimeout, "how long to wait for a scheduler")
	pf.DurationVar(&flagRecvTimeout, "recv-timeout", defaults.RecvTimeout, "how long to wait for stats between polls")
	pf.StringVar(&flagScheduler, "scheduler", "", "scheduler address, skipping broadcast discovery")
	pf.IntVar(&flagPort, "port", defaults.SchedulerPort, "scheduler port")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")
	pf.BoolVar(&flagVeryQuiet, "very-quiet", false, "suppress everything but errors")
	pf.BoolVar(&flagBrief, "brief", false, "print only the total core count")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug output")
	pf.BoolVar(&flagPlain, "plain", false, "drop table borders for plain-text output")
	pf.BoolVar(&flagASCII, "ascii", false, "restrict output to 7-bit ASCII")
	pf.BoolVar(&flagStrictASCII, "strict-ascii", false, "fail instead of degrading when --ascii cannot transliterate")
	pf.BoolVar(&flagNoTable, "no-table", false, "skip the node table, print only the summary")
	pf.StringVar(&flagColor, "color", defaults.Color, "color output: auto, always, or never")
	pf.BoolVar(&flagNoOffline, "no-offline", false, "hide offline nodes")
	pf.BoolVar(&flagNoNoRemote, "no-noremote", false, "hide nodes that reject remote jobs")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errors.ExitCode(err)
	}
	return 0
}

// setup assembles the effective options and the session logger for a
// command invocation.
func setup(cmd *cobra.Command) (config.Options, logger.Logger, error) {
	opts, err := buildOptions(cmd)
	if err != nil {
		return config.Options{}, nil, err
	}
	if err := opts.Validate(); err != nil {
		return config.Options{}, nil, err
	}
	if err := ui.ApplyColorMode(opts.Color); err != nil {
		return config.Options{}, nil, err
	}
	return opts, logger.NewStderr(opts.Verbosity(), ""), nil
}

// buildOptions layers explicitly set flags over the loaded configuration.
// Unset flags keep whatever the file or environment provided.
func buildOptions(cmd *cobra.Command) (config.Options, error) {
	opts, err := config.Load()
	if err != nil {
		return config.Options{}, err
	}

	f := cmd.Flags()
	if f.Changed("netname") {
		opts.NetName = flagNetName
	}
	if f.Changed("connect-timeout") {
		opts.ConnectTimeout = flagConnectTimeout
	}
	if f.Changed("recv-timeout") {
		opts.RecvTimeout = flagRecvTimeout
	}
	if f.Changed("scheduler") {
		opts.SchedulerAddr = flagScheduler
	}
	if f.Changed("port") {
		opts.SchedulerPort = flagPort
	}
	if f.Changed("quiet") {
		opts.Quiet = flagQuiet
	}
	if f.Changed("very-quiet") {
		opts.VeryQuiet = flagVeryQuiet
	}
	if f.Changed("brief") {
		opts.Brief = flagBrief
	}
	if f.Changed("debug") {
		opts.Debug = flagDebug
	}
	if f.Changed("plain") {
		opts.Plain = flagPlain
	}
	if f.Changed("ascii") {
		opts.ASCIIOnly = flagASCII
	}
	if f.Changed("strict-ascii") {
		opts.StrictASCII = flagStrictASCII
	}
	if f.Changed("no-table") {
		opts.NoTable = flagNoTable
	}
	if f.Changed("color") {
		opts.Color = flagColor
	}
	if f.Changed("no-offline") {
		opts.FilterOffline = flagNoOffline
	}
	if f.Changed("no-noremote") {
		opts.FilterNoRemote = flagNoNoRemote
	}

	// Strict transliteration only makes sense in ASCII mode.
	if opts.StrictASCII {
		opts.ASCIIOnly = true
	}
	return opts, nil
}
