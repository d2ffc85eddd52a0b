// Package server wires the connection runtime, world state, and event
// bus together behind TCP/TLS listeners and an HTTPS API listener, and
// drives them all until shutdown.
//
// Grounded on the teacher's per-stream goroutine supervision style
// (conn's own errgroup of reader/event/watchdog tasks) generalized one
// level up: an errgroup of "accept on this listener forever" tasks plus
// the single process-wide server-event-queue drain, torn down together
// on first error or context cancellation — the same pattern aistore's
// xact package uses to run and jointly cancel a bounded worker set.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package server

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/conn"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/hk"
	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/stats"
)

// Config bounds the listeners a Server brings up. TLSAddr/APIAddr are
// optional: a zero value skips that listener entirely.
type Config struct {
	TCPAddr string
	TLSAddr string
	TLSCert string
	TLSKey  string
	APIAddr string

	Conn  conn.Config
	Stats *stats.Stats

	// APIHandler serves the HTTPS listener (icon API plus /metrics);
	// built by the caller so server stays independent of httpapi.
	APIHandler http.Handler
}

// Server owns every listener and live connection spawned from them.
type Server struct {
	cfg      Config
	state    *state.State
	bus      *event.Bus
	registry *conn.Registry

	mu    sync.Mutex
	conns map[*conn.Conn]struct{}
}

// New builds a Server. registry must be the same Registry instance
// passed to conn.RegisterEventHandlers for this world, since event
// handlers look up live connections through it.
func New(cfg Config, st *state.State, bus *event.Bus, registry *conn.Registry) *Server {
	return &Server{
		cfg:      cfg,
		state:    st,
		bus:      bus,
		registry: registry,
		conns:    make(map[*conn.Conn]struct{}),
	}
}

// Run brings up every configured listener and blocks until ctx is
// canceled or a listener fails irrecoverably; it then waits for every
// live connection to finish tearing down before returning.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.state.ServerEvents().Run(gctx, s.bus)
		return nil
	})

	if s.cfg.TCPAddr != "" {
		ln, err := net.Listen("tcp", s.cfg.TCPAddr)
		if err != nil {
			return err
		}
		nlog.Infof("server: listening for plain TCP on %s", s.cfg.TCPAddr)
		g.Go(func() error { return s.acceptLoop(gctx, ln) })
	}

	if s.cfg.TLSAddr != "" {
		cert, err := tls.LoadX509KeyPair(s.cfg.TLSCert, s.cfg.TLSKey)
		if err != nil {
			return err
		}
		ln, err := tls.Listen("tcp", s.cfg.TLSAddr, &tls.Config{Certificates: []tls.Certificate{cert}})
		if err != nil {
			return err
		}
		nlog.Infof("server: listening for TLS on %s", s.cfg.TLSAddr)
		g.Go(func() error { return s.acceptLoop(gctx, ln) })
	}

	if s.cfg.APIAddr != "" && s.cfg.APIHandler != nil {
		httpSrv := &http.Server{Addr: s.cfg.APIAddr, Handler: s.cfg.APIHandler}
		g.Go(func() error {
			nlog.Infof("server: listening for HTTPS API on %s", s.cfg.APIAddr)
			err := httpSrv.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	if s.cfg.Stats != nil {
		hk.Reg("stats-queue-depth", s.flushQueueDepth, 10*time.Second)
	}

	err := g.Wait()
	s.waitConns()
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		c, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		s.spawn(ctx, c)
	}
}

func (s *Server) spawn(ctx context.Context, c net.Conn) {
	cc := conn.New(c, s.state, s.bus, s.registry, s.cfg.Conn)
	s.mu.Lock()
	s.conns[cc] = struct{}{}
	s.mu.Unlock()

	go func() {
		cc.Run(ctx)
		s.mu.Lock()
		delete(s.conns, cc)
		s.mu.Unlock()
	}()
}

func (s *Server) waitConns() {
	for {
		s.mu.Lock()
		n := len(s.conns)
		s.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// flushQueueDepth samples every live connection's event-queue depth into
// the event_queue_depth gauge; registered with hk rather than run inline
// so the sampling cadence is independent of connection churn.
func (s *Server) flushQueueDepth() time.Duration {
	s.cfg.Stats.EventQueueDepth.WithLabelValues("server").Set(float64(s.state.ServerEvents().Len()))
	var clientDepth, deviceDepth int
	for _, cc := range s.registry.AllClients() {
		clientDepth += cc.QueueLen()
	}
	for _, cc := range s.registry.AllDevices() {
		deviceDepth += cc.QueueLen()
	}
	s.cfg.Stats.EventQueueDepth.WithLabelValues("client").Set(float64(clientDepth))
	s.cfg.Stats.EventQueueDepth.WithLabelValues("device").Set(float64(deviceDepth))
	return 10 * time.Second
}
