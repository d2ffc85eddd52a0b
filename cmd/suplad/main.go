// Command suplad is the SUPLA-lite home-automation server: it loads a
// static device/channel/scene registry, then accepts device and client
// connections and routes events between them.
//
// Grounded on the teacher's cmd/authn/main.go daemon entry point: flag-
// parsed config path, signal-driven shutdown, a background log-flush
// loop, nlog.Flush on exit.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/config"
	"github.com/suplalite/suplalite/conn"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/hk"
	"github.com/suplalite/suplalite/httpapi"
	"github.com/suplalite/suplalite/server"
	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/stats"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "path to the server's JSON configuration file")
}

func main() {
	flag.Parse()
	if configPath == "" {
		fmt.Fprintln(os.Stderr, "suplad: -config is required")
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		nlog.Errorf("suplad: %v", err)
		os.Exit(1)
	}
	if cfg.LogDir != "" {
		if err := nlog.SetOutput(cfg.LogDir, true); err != nil {
			fmt.Fprintf(os.Stderr, "suplad: log setup: %v\n", err)
			os.Exit(1)
		}
	}
	nlog.SetTitle("suplad")

	st := state.New()
	if err := config.Seed(st, &cfg.Registry); err != nil {
		nlog.Errorf("suplad: seeding world state: %v", err)
		os.Exit(1)
	}

	superuserHash, err := cfg.SuperuserPasswordHashBytes()
	if err != nil {
		nlog.Errorf("suplad: %v", err)
		os.Exit(1)
	}

	bus := event.NewBus()
	registry := conn.NewRegistry()
	conn.RegisterEventHandlers(bus, st, registry)

	metrics := stats.New()

	connCfg := conn.DefaultConfig()
	if cfg.ActivityTimeoutDefault != 0 {
		connCfg.ActivityTimeoutDefault = cfg.ActivityTimeoutDefault
	}
	if cfg.ActivityTimeoutMin != 0 {
		connCfg.ActivityTimeoutMin = cfg.ActivityTimeoutMin
	}
	if cfg.ActivityTimeoutMax != 0 {
		connCfg.ActivityTimeoutMax = cfg.ActivityTimeoutMax
	}
	if cfg.MinProtoVersion != 0 {
		connCfg.MinProtoVersion = cfg.MinProtoVersion
	}
	if cfg.LocationName != "" {
		connCfg.LocationName = cfg.LocationName
	}
	connCfg.SuperuserEmail = cfg.SuperuserEmail
	connCfg.SuperuserPasswordHash = superuserHash
	connCfg.APIURLBase64 = base64.StdEncoding.EncodeToString([]byte(cfg.APIURLBase))
	connCfg.Stats = metrics

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", httpapi.Handler(st))

	srv := server.New(server.Config{
		TCPAddr:    cfg.TCPAddr,
		TLSAddr:    cfg.TLSAddr,
		TLSCert:    cfg.TLSCert,
		TLSKey:     cfg.TLSKey,
		APIAddr:    cfg.APIAddr,
		Conn:       connCfg,
		Stats:      metrics,
		APIHandler: mux,
	}, st, bus, registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go hk.DefaultHK.Run(ctx)
	go logFlush(ctx)

	nlog.Infof("suplad: starting")
	err = srv.Run(ctx)
	nlog.Flush()
	if err != nil && ctx.Err() == nil {
		os.Exit(1)
	}
}

func logFlush(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			nlog.Flush()
		}
	}
}

