/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package uconfig stores named parameter sets in a JSON file
package uconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/uconfig/params"
)

var _ interfaces.Config = (*UConfig)(nil)

var ErrNoFile = errors.New("a filename is required")

// UConfig holds all configuration data
type UConfig struct {
	mu   sync.Mutex
	file string
	Sets map[string]*params.Params `json:"sets"`
}

// New returns an UConfig instance with options applied
func New(options ...func(*UConfig) error) (*UConfig, error) {
	c := &UConfig{Sets: make(map[string]*params.Params)}

	for _, op := range options {
		if err := op(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// File returns the path of the last loaded or saved file
func (c *UConfig) File() string {
	return c.file
}

// Load replaces the values of all sets with the contents of filename.
// Constraints registered with NewSet are kept.
func (c *UConfig) Load(filename string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if filename != "" {
		c.file = filename
	}
	if c.file == "" {
		return ErrNoFile
	}

	data, err := os.ReadFile(c.file)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", c.file, err)
	}

	var stored struct {
		Sets map[string]*params.Params `json:"sets"`
	}
	if err = json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("deserialization error: %w", err)
	}

	for name, set := range stored.Sets {
		if set == nil {
			continue
		}
		if set.Data == nil {
			set.Data = make(map[string]params.Element)
		}
		existing, ok := c.Sets[name]
		if !ok {
			c.Sets[name] = set
			continue
		}
		existing.Merge(set)
	}
	return nil
}

// Save writes the configuration to filename, or to the last used file
func (c *UConfig) Save(filename string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if filename != "" {
		c.file = filename
	}
	if c.file == "" {
		return ErrNoFile
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode to JSON: %w", err)
	}

	// Write to a temporary file and rename so a crash never leaves a partial file
	tmp, err := os.CreateTemp(filepath.Dir(c.file), ".config-*")
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not write file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not write file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("could not set permissions: %w", err)
	}
	return os.Rename(tmp.Name(), c.file)
}

// Checkpoint saves the configuration to the last loaded file
func (c *UConfig) Checkpoint() error {
	if c.file == "" {
		return errors.New("checkpoint requires a loaded configuration")
	}
	return c.Save("")
}

// GetSet returns the named set or nil
func (c *UConfig) GetSet(name string) interfaces.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()

	if set, ok := c.Sets[name]; ok {
		return set
	}
	return nil
}

// NewSet returns the named set, creating it when necessary
func (c *UConfig) NewSet(name string) interfaces.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.Sets[name]
	if !ok {
		set = params.New()
		c.Sets[name] = set
	}
	return set
}
