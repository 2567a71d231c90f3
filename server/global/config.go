/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import (
	"fmt"
	"path/filepath"

	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/uconfig"
)

type ServerConfig struct {
	C  interfaces.Config     // Config object
	SC interfaces.Parameters // Server configuration
	SP interfaces.Parameters // Server private configuration
}

// Config creates the configuration object, sets defaults, and loads the
// configuration from file. When file is empty the usual locations are
// searched and the first writable one is used if none exists.
func Config(file string) (*ServerConfig, error) {
	uc, err := uconfig.New()
	if err != nil {
		return &ServerConfig{}, err
	}
	c := &ServerConfig{C: uc}

	// Constraints must be registered before values are loaded
	c.SC, c.SP = setDefaults(uc)

	find := uconfig.WithFindOrCreate(UnixConfigFiles)
	if file != "" {
		find = uconfig.WithLoadOrCreate(file)
	}
	if err = find(uc); err != nil {
		return &ServerConfig{}, err
	}

	// The data path defaults to a directory next to the configuration file
	dPath := c.SC.Get(ConfigDataPath).String()
	if dPath == "" {
		dPath = filepath.Join(filepath.Dir(c.C.File()), "cardscan-data")
		c.SC.Set(ConfigDataPath, dPath)
	}

	// It could exist in the config file but have been deleted
	if !uconfig.CreateDir(dPath) {
		return &ServerConfig{}, fmt.Errorf("unable to open or create %s", dPath)
	}

	if err = c.C.Checkpoint(); err != nil {
		return &ServerConfig{}, fmt.Errorf("unable to checkpoint config: %w", err)
	}
	return c, nil
}

func (c *ServerConfig) Checkpoint() error {
	return c.C.Checkpoint()
}

// DBFile returns the path of the bbolt database
func (c *ServerConfig) DBFile() string {
	return filepath.Join(c.SC.Get(ConfigDataPath).String(), DBFileName)
}
