//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/CardScan/CardScan/common"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/ulogger"
	"github.com/CardScan/CardScan/server/api"
	"github.com/CardScan/CardScan/server/global"
)

// Swaggo data
// @title CardScan Server
// @version 0.1
// @description Reference backend for the CardScan client
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	args := os.Args[1:]

	// An optional configuration file precedes the command
	configFile := ""
	if len(args) >= 2 && (args[0] == "-c" || args[0] == "--config") {
		configFile = args[1]
		args = args[2:]
	}

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch strings.ToLower(args[0]) {
	case "version":
		common.Banner(os.Stdout, global.Description, global.Version, global.Build)

	case "check":
		os.Exit(check(configFile))

	case "foreground":
		os.Exit(run(configFile))

	case "listen":
		if len(args) != 2 {
			fmt.Println("Usage: listen <address>")
			fmt.Printf("Example: %s listen 127.0.0.1:8080\n", global.Name)
			os.Exit(1)
		}

		address := args[1]
		if _, err := net.ResolveTCPAddr("tcp", address); err != nil {
			fmt.Printf("Invalid listen address: %v\n", err)
			os.Exit(1)
		}

		global.ListenOverride = address
		os.Exit(run(configFile))

	case "debug":
		global.Debug = true
		os.Exit(run(configFile))

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("Usage: %s [--config <file>] <check | foreground | debug | listen <address> | version>\n", global.Name)
}

// check displays the current configuration
func check(configFile string) int {
	conf, err := global.Config(configFile)
	if err != nil {
		fmt.Printf("Fatal config error: %v\n", err)
		return 1
	}

	settings := conf.SC.GetMap()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("Configuration file: %s\n\n", conf.C.File())
	for _, k := range keys {
		fmt.Printf("  %-20s %s\n", k, settings[k])
	}
	return 0
}

// run serves until SIGINT or SIGTERM and returns the exit code
func run(configFile string) int {
	conf, err := global.Config(configFile)
	if err != nil {
		fmt.Printf("Fatal config error: %v\n", err)
		return 1
	}

	logger, err := ulogger.New(
		ulogger.WithPrefix(global.LogName),
		ulogger.WithLogFile(conf.SC.Get(global.ConfigLogFile).String()),
		ulogger.WithLogStdout(conf.SC.Get(global.ConfigLogStdout).Bool()),
		ulogger.WithRetention(conf.SC.Get(global.ConfigLogRetention).Int()),
		ulogger.WithDebug(global.Debug))
	if err != nil {
		fmt.Printf("error creating logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, conf, logger)
}

func serve(ctx context.Context, conf *global.ServerConfig, logger interfaces.Logger) int {
	logger.Infof(2000, "Starting %s %s (%s)", global.Name, global.Version, global.Build)

	apiInstance := api.New(conf, logger)
	if err := apiInstance.Open(); err != nil {
		logger.Fatalf(2005, "unable to open data: %s", err.Error())
		return 1
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		apiInstance.Start()
	}()
	go apiInstance.Tasks(ctx, global.PruneTicker*time.Minute)

	select {
	case <-ctx.Done():
		logger.Infof(2090, "Shutdown requested")
	case <-done:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiInstance.Stop(shutdownCtx); err != nil {
		logger.Errorf(2093, "error stopping API: %s", err.Error())
	}
	<-done

	// Close the database and save the configuration
	apiInstance.Close()
	if err := conf.Checkpoint(); err != nil {
		logger.Errorf(2094, "error saving configuration: %s", err.Error())
	}
	logger.Infof(2095, "Stopped")
	return 0
}
