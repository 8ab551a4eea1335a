package cli

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmq/farmq/internal/config"
)

func TestMain(m *testing.M) {
	// Merge persistent flags into rootCmd.Flags(), as cobra does during
	// Execute, so buildOptions sees flags set via PersistentFlags here.
	rootCmd.LocalFlags()
	os.Exit(m.Run())
}

func TestBuildOptionsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // no user config file

	opts, err := buildOptions(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultNetName, opts.NetName)
	assert.Equal(t, config.DefaultConnectTimeout, opts.ConnectTimeout)
	assert.Equal(t, config.DefaultSchedulerPort, opts.SchedulerPort)
	assert.Equal(t, "auto", opts.Color)
}

func TestBuildOptionsLayersChangedFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	pf := rootCmd.PersistentFlags()
	require.NoError(t, pf.Set("netname", "BUILDFARM"))
	require.NoError(t, pf.Set("port", "9999"))
	require.NoError(t, pf.Set("connect-timeout", "5s"))
	require.NoError(t, pf.Set("brief", "true"))
	t.Cleanup(func() {
		_ = pf.Set("netname", config.DefaultNetName)
		_ = pf.Set("port", "8765")
		_ = pf.Set("connect-timeout", "20s")
		_ = pf.Set("brief", "false")
	})

	opts, err := buildOptions(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, "BUILDFARM", opts.NetName)
	assert.Equal(t, 9999, opts.SchedulerPort)
	assert.Equal(t, 5*time.Second, opts.ConnectTimeout)
	assert.True(t, opts.Brief)
	assert.Equal(t, config.DefaultRecvTimeout, opts.RecvTimeout, "untouched flags keep loaded values")
}

func TestBuildOptionsStrictASCIIImpliesASCII(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	pf := rootCmd.PersistentFlags()
	require.NoError(t, pf.Set("strict-ascii", "true"))
	t.Cleanup(func() { _ = pf.Set("strict-ascii", "false") })

	opts, err := buildOptions(rootCmd)
	require.NoError(t, err)
	assert.True(t, opts.StrictASCII)
	assert.True(t, opts.ASCIIOnly)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["watch"])
	assert.True(t, names["version"])
	assert.True(t, names["config"])
	assert.True(t, names["completion"])
}
