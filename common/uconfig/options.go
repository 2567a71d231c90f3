/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package uconfig

import (
	"errors"
	"fmt"
	"os"
)

// WithLoad loads filename and fails if it cannot be read
func WithLoad(filename string) func(*UConfig) error {
	return func(c *UConfig) error {
		return c.Load(filename)
	}
}

// WithLoadOrCreate loads filename, or saves an empty configuration there
// when it does not exist yet
func WithLoadOrCreate(filename string) func(*UConfig) error {
	return func(c *UConfig) error {
		err := c.Load(filename)
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return c.Save(filename)
	}
}

// WithFindOrCreate loads the first file in filenames that exists. If none
// exist, the configuration is saved to the first location that is writable.
func WithFindOrCreate(filenames []string) func(*UConfig) error {
	return func(c *UConfig) error {
		for _, filename := range filenames {
			if _, err := os.Stat(filename); err == nil {
				return c.Load(filename)
			}
		}

		for _, filename := range filenames {
			if err := c.Save(filename); err == nil {
				return nil
			}
		}
		return fmt.Errorf("could not create configuration file")
	}
}
