package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/farmq/farmq/internal/errors"
)

const (
	// GlobalConfigDir is the directory for the user config, under $HOME.
	GlobalConfigDir = ".config/farmq"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
)

// Path returns the location of the user config file, whether or not it exists.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// Load assembles Options from defaults, the optional user config file, and
// FARMQ_* environment variables, in that precedence order. Flags are layered
// on top by the CLI.
func Load() (Options, error) {
	v := viper.New()
	v.SetEnvPrefix("FARMQ")
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("netname", defaults.NetName)
	v.SetDefault("connect_timeout", defaults.ConnectTimeout)
	v.SetDefault("recv_timeout", defaults.RecvTimeout)
	v.SetDefault("port", defaults.SchedulerPort)
	v.SetDefault("color", defaults.Color)

	if path := Path(); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Options{}, errors.WrapWithCode(err, errors.ErrArgs,
					"Failed to read "+path,
					"Check the file is valid YAML, or delete it to use defaults.")
			}
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, errors.WrapWithCode(err, errors.ErrArgs,
			"Invalid config format",
			"Check the YAML keys in "+Path())
	}
	return opts, nil
}

// WriteDefault writes a commented default config to path, creating parent
// directories as needed. Refuses to overwrite an existing file unless force
// is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		return errors.New(errors.ErrArgs,
			"Cannot determine home directory for config",
			"Set HOME, or pass an explicit path.")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrArgs,
			path+" already exists",
			"Pass --force to overwrite it.")
	}

	body, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrArgs, "Failed to encode default config", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrArgs,
			"Failed to create "+filepath.Dir(path),
			"Check directory permissions.")
	}

	header := "# farmq configuration. Flags and FARMQ_* environment variables override these.\n"
	if err := os.WriteFile(path, append([]byte(header), body...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrArgs,
			"Failed to write "+path,
			"Check file permissions.")
	}
	return nil
}
