/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/uconfig"
)

const (
	ConfigSettingsSet = "settings"
	ConfigServerURL   = "server_url"
	ConfigTimeout     = "timeout"
	ConfigTheme       = "theme"
	ConfigLanguage    = "language"
	ConfigLogFile     = "log_file"
	ConfigDebug       = "debug"
	ConfigPrivateSet  = "private"
	ConfigDataDir     = "data_dir"

	DefaultServerURL = "http://127.0.0.1:8080"
)

// CLIConfig is the user's CLI configuration
type CLIConfig struct {
	C        interfaces.Config
	Settings interfaces.Parameters
	Private  interfaces.Parameters
	Dir      string
}

// setDefaults registers the settings and private sets with their defaults and constraints
func setDefaults(c interfaces.Config) (interfaces.Parameters, interfaces.Parameters) {
	sc := c.NewSet(ConfigSettingsSet)
	sc.SetConstraint(ConfigServerURL, 0, 0, DefaultServerURL)
	sc.SetConstraint(ConfigTimeout, 1, 300, 30) // seconds
	sc.SetConstraint(ConfigTheme, 0, 0, "system")
	sc.SetConstraint(ConfigLanguage, 0, 0, "en")
	sc.SetConstraint(ConfigLogFile, 0, 0, "") // no log file by default
	sc.SetConstraint(ConfigDebug, 0, 0, false)

	pc := c.NewSet(ConfigPrivateSet)
	pc.SetConstraint(ConfigDataDir, 0, 0, "") // config directory when empty
	return sc, pc
}

// Config loads or creates the configuration in dir, or in ~/.cardscan when
// dir is empty. Variables from <dir>/.env are loaded into the environment
// without overriding ones already set.
func Config(dir string) (*CLIConfig, error) {
	var err error
	if dir == "" {
		dir, err = uconfig.UserDir(ConfigDirName)
		if err != nil {
			return nil, err
		}
	} else if !uconfig.CreateDir(dir) {
		return nil, fmt.Errorf("unable to create %s", dir)
	}

	envFile := filepath.Join(dir, EnvFileName)
	if err = godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to read %s: %w", envFile, err)
	}

	c, err := uconfig.New()
	if err != nil {
		return nil, err
	}
	settings, private := setDefaults(c)

	file := filepath.Join(dir, ConfigFileName)
	if err = c.Load(file); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err = c.Save(file); err != nil {
			return nil, err
		}
	}

	return &CLIConfig{C: c, Settings: settings, Private: private, Dir: dir}, nil
}

// ServerURL returns the backend URL. The --server flag wins over the
// environment, which wins over the configuration file.
func (c *CLIConfig) ServerURL() string {
	url := ServerURL
	if url == "" {
		url = os.Getenv(EnvServer)
	}
	if url == "" {
		url = c.Settings.Get(ConfigServerURL).String()
	}
	return strings.TrimRight(url, "/")
}

func (c *CLIConfig) Timeout() time.Duration {
	return time.Duration(c.Settings.Get(ConfigTimeout).Int()) * time.Second
}

// DataDir returns the directory holding the credential store
func (c *CLIConfig) DataDir() string {
	if dir := c.Private.Get(ConfigDataDir).String(); dir != "" {
		return dir
	}
	return c.Dir
}

// Save writes the configuration back to its file
func (c *CLIConfig) Save() error {
	return c.C.Checkpoint()
}
