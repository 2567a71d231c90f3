//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

// Package data implements accounts, tokens, and contacts on top of the database
package data

import (
	"errors"
	"fmt"

	"github.com/CardScan/CardScan/common/crypto"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/server/db"
	"github.com/CardScan/CardScan/server/global"
	"github.com/CardScan/CardScan/server/mailer"
)

type Data struct {
	logger   interfaces.Logger
	conf     *global.ServerConfig
	database *db.DB
	mailer   mailer.Mailer
	jwtKey   []byte
}

// New creates a new Data instance
func New(conf *global.ServerConfig, logger interfaces.Logger) (*Data, error) {

	// Get or create the JWT key
	jwtKey := conf.SP.Get(global.ConfigJWTKey).Bytes()
	if len(jwtKey) == 0 {
		key, err := crypto.RandomToken(global.TokenLength)
		if err != nil {
			return nil, fmt.Errorf("unable to generate JWT key: %w", err)
		}

		// Save the key to the configuration
		conf.SP.Set(global.ConfigJWTKey, key)
		if err = conf.Checkpoint(); err != nil {
			return nil, fmt.Errorf("unable to save JWT key: %w", err)
		}
		jwtKey = []byte(key)
	}

	// Get database path. If it doesn't exist, it will be created by global.Config()
	if conf.SC.Get(global.ConfigDataPath).String() == "" {
		return nil, errors.New("database path missing from configuration")
	}

	m, err := newMailer(conf, logger)
	if err != nil {
		return nil, err
	}

	dbInstance, err := db.Open(conf.DBFile(), logger)
	if err != nil {
		return nil, fmt.Errorf("unable to open or create database: %w", err)
	}

	return &Data{
		logger:   logger,
		conf:     conf,
		database: dbInstance,
		mailer:   m,
		jwtKey:   jwtKey,
	}, nil
}

// newMailer sends through SendGrid when an API key and sender address are
// configured, and otherwise only logs outgoing email
func newMailer(conf *global.ServerConfig, logger interfaces.Logger) (mailer.Mailer, error) {
	apiKey := conf.SP.Get(global.ConfigSendGridKey).String()
	from := conf.SC.Get(global.ConfigMailFromAddress).String()
	if apiKey == "" || from == "" {
		return mailer.NewLog(logger), nil
	}

	m, err := mailer.NewSendGrid(apiKey,
		conf.SC.Get(global.ConfigSendGridHost).String(),
		conf.SC.Get(global.ConfigMailFromName).String(),
		from,
		logger)
	if err != nil {
		return nil, fmt.Errorf("unable to configure mail: %w", err)
	}
	return m, nil
}

// Close anything data-related that requires it
func (d *Data) Close() {
	if d == nil {
		return
	}
	if d.database != nil {
		d.database.Close()
	}
}
