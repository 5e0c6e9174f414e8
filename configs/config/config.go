package config

import (
	"pybuild-go/internal/cstmerr"

	"github.com/spf13/viper"
)

// Config matches the structure of the optional config file and environment
// variables. Every key has a default reproducing the stock workflow, so the
// tool runs with no file present at all.
type Config struct {
	// MirrorBaseURL is the root of the CPython source archive mirror. The
	// archive for version X.Y.Z is fetched from
	// <MirrorBaseURL>/X.Y.Z/Python-X.Y.Z.tgz.
	MirrorBaseURL string `mapstructure:"mirror_base_url"`

	// SudoPath is the sudo binary used for package-manager, altinstall and
	// removal steps.
	SudoPath string `mapstructure:"sudo_path"`

	// PackageManager is the system package manager command.
	PackageManager string `mapstructure:"package_manager"`

	// Prerequisites is the package list installed before building.
	Prerequisites []string `mapstructure:"prerequisites"`

	// WorkDir is where archives are downloaded and extracted.
	WorkDir string `mapstructure:"work_dir"`

	// ConfigureFlags is passed to the source tree's configure step.
	ConfigureFlags []string `mapstructure:"configure_flags"`

	// ShellRCFiles are per-user shell config files reloaded (best-effort)
	// after a successful install. Entries may start with "~/".
	ShellRCFiles []string `mapstructure:"shell_rc_files"`
}

// Load reads the configuration using Viper. It looks for an optional TOML
// file (explicit path, or the usual search paths) and environment variables
// with a PYBUILD_ prefix; a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("mirror_base_url", "https://www.python.org/ftp/python")
	v.SetDefault("sudo_path", "/usr/bin/sudo")
	v.SetDefault("package_manager", "apt-get")
	v.SetDefault("prerequisites", []string{
		"build-essential",
		"zlib1g-dev",
		"libncurses5-dev",
		"libgdbm-dev",
		"libnss3-dev",
		"libssl-dev",
		"libreadline-dev",
		"libffi-dev",
		"libsqlite3-dev",
		"libbz2-dev",
		"wget",
	})
	v.SetDefault("work_dir", ".")
	v.SetDefault("configure_flags", []string{"--enable-optimizations"})
	v.SetDefault("shell_rc_files", []string{"~/.bashrc", "~/.profile"})

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/pybuild/")
		v.AddConfigPath("$HOME/.pybuild")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("PYBUILD")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, cstmerr.NewFileIOError("failed to read config file", err)
		}
		// Config file not found; rely on defaults and environment variables.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, cstmerr.NewConfigError("failed to unmarshal config", err)
	}

	return &config, nil
}
