package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmq/farmq/internal/config"
	"github.com/farmq/farmq/internal/errors"
)

func TestConfigInitWritesDefaultFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, configInitCmd.RunE(configInitCmd, nil))

	path := filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# farmq configuration")
	assert.Contains(t, string(data), "netname: ICECREAM")
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, configInitCmd.RunE(configInitCmd, nil))

	err := configInitCmd.RunE(configInitCmd, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrArgs))

	configInitForce = true
	t.Cleanup(func() { configInitForce = false })
	assert.NoError(t, configInitCmd.RunE(configInitCmd, nil))
}
