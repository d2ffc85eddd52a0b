// Package conn implements the per-connection state machine that binds
// the wire codec, packet stream, world state, and event bus together:
// reader loop, event loop, and activity watchdog running as sibling
// tasks under one errgroup.
//
// Grounded on the teacher's transport package's per-stream goroutine
// layout, generalized from aistore's fixed send/recv pair to three
// cooperating tasks coordinated by golang.org/x/sync/errgroup, the same
// primitive aistore's xact package uses to run a bounded set of
// concurrent workers and tear them all down together on first error.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teris-io/shortid"
	"golang.org/x/sync/errgroup"

	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/stats"
	"github.com/suplalite/suplalite/stream"
	"github.com/suplalite/suplalite/wire"
)

// ChannelEMinProtoVersion is the negotiated protocol version at or above
// which a client receives the wide-flags TSCChannelE pack shape instead of
// the legacy TSCChannelD shape (spec's channel-pack version split, open
// question resolved here: the source never exercises a client older than
// this, so the cutover point is arbitrary within the valid version range
// and documented in DESIGN.md rather than derived from any retrieved
// behavior).
const ChannelEMinProtoVersion = 12

// Role is the kind of peer a connection has become after registration.
type Role int

const (
	RoleUnregistered Role = iota
	RoleDevice
	RoleClient
)

// Phase is the connection's position in its lifecycle.
type Phase int

const (
	PhaseUnregistered Phase = iota
	PhaseRegisteredDevice
	PhaseRegisteredClient
	PhaseClosing
	PhaseClosed
)

// Config bounds the connection's activity-timeout negotiation and fixes
// the minimum accepted protocol version, mirroring the external
// interface's documented 30-240 second range and version-23 current
// protocol.
type Config struct {
	ActivityTimeoutDefault uint8
	ActivityTimeoutMin     uint8
	ActivityTimeoutMax     uint8
	MinProtoVersion        uint8

	// LocationName is the caption of the single synthetic location sent to
	// every client (this server has no real location entity).
	LocationName string

	// SuperuserEmail/SuperuserPasswordHash configure CS_SUPERUSER_AUTHORIZATION_REQUEST;
	// SuperuserPasswordHash is empty when superuser authorization is disabled.
	SuperuserEmail        string
	SuperuserPasswordHash []byte

	// APIURLBase64 is the base64-encoded icon-API base URL embedded in
	// issued OAuth tokens.
	APIURLBase64 string

	// Stats receives per-connection metrics (packets, latency, online
	// counts); nil disables instrumentation entirely.
	Stats *stats.Stats
}

func DefaultConfig() Config {
	return Config{
		ActivityTimeoutDefault: 30,
		ActivityTimeoutMin:     wire.ActivityTimeoutMin,
		ActivityTimeoutMax:     wire.ActivityTimeoutMax,
		MinProtoVersion:        wire.ProtoVersionMin,
		LocationName:           "home",
	}
}

// Conn is one accepted TCP/TLS peer. A newly constructed Conn is
// unregistered; Run blocks until the connection terminates for any
// reason (peer close, protocol violation, cancellation).
type Conn struct {
	id       string
	stream   *stream.Stream
	state    *state.State
	bus      *event.Bus
	registry *Registry
	cfg      Config

	mu              sync.Mutex
	phase           Phase
	entityID        uint32
	activityTimeout uint8
	protoVersion    uint8

	queue *event.Queue

	lastActivity atomic.Int64 // unix nanos
}

func New(c net.Conn, st *state.State, bus *event.Bus, registry *Registry, cfg Config) *Conn {
	id, _ := shortid.Generate()
	conn := &Conn{
		id:              id,
		stream:          stream.New(c, cfg.MinProtoVersion),
		state:           st,
		bus:             bus,
		registry:        registry,
		cfg:             cfg,
		phase:           PhaseUnregistered,
		activityTimeout: cfg.ActivityTimeoutDefault,
		queue:           event.NewQueue(event.ScopeServer, 0, 256),
	}
	conn.touch()
	return conn
}

func (c *Conn) ID() string { return c.id }

// ProtoVersion returns the protocol version negotiated at registration
// (zero if the connection has not registered yet).
func (c *Conn) ProtoVersion() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.protoVersion
}

// EnqueueEvent posts an event directly to this connection's own queue,
// used by server-scope fan-out handlers that address every connected
// client individually (e.g. CHANNEL_VALUE_CHANGED, DEVICE_CONNECTED).
func (c *Conn) EnqueueEvent(id event.ID, payload any) { c.queue.Enqueue(id, payload) }

// QueueLen reports the number of events currently buffered on this
// connection's queue, for depth instrumentation.
func (c *Conn) QueueLen() int { return c.queue.Len() }

func (c *Conn) touch() { c.lastActivity.Store(time.Now().UnixNano()) }

func (c *Conn) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Conn) EntityID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entityID
}

// Send encodes rec and writes it as callID's payload.
func (c *Conn) Send(ctx context.Context, callID wire.CallID, rec interface{ Encode(*wire.Encoder) }) error {
	e := wire.NewEncoder(64)
	rec.Encode(e)
	if c.cfg.Stats != nil {
		c.cfg.Stats.PacketsSent.WithLabelValues(callIDLabel(callID)).Inc()
	}
	return c.stream.Send(ctx, callID, e.Bytes())
}

// Run drives the connection until it terminates. It reports no error to
// its caller; termination reasons are logged instead, matching
// the error-handling design's "the server never crashes on peer
// misbehaviour" contract.
func (c *Conn) Run(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.readerLoop(gctx) })
	g.Go(func() error { return c.eventLoop(gctx) })
	g.Go(func() error { return c.watchdog(gctx) })

	if err := g.Wait(); err != nil {
		nlog.Infof("conn %s: closing: %v", c.id, err)
	}
	c.teardown()
}

func (c *Conn) teardown() {
	c.mu.Lock()
	phase := c.phase
	entityID := c.entityID
	c.phase = PhaseClosed
	c.mu.Unlock()

	switch phase {
	case PhaseRegisteredDevice:
		c.registry.RemoveDevice(entityID, c)
		if err := c.state.DeviceDisconnected(entityID); err != nil {
			nlog.Warningf("conn %s: device disconnect: %v", c.id, err)
		}
		c.state.ServerEvents().Enqueue(event.DeviceDisconnected, event.DeviceDisconnectedPayload{DeviceID: entityID})
		if c.cfg.Stats != nil {
			c.cfg.Stats.DevicesOnline.Dec()
		}
	case PhaseRegisteredClient:
		c.registry.RemoveClient(entityID, c)
		if err := c.state.ClientDisconnected(entityID); err != nil {
			nlog.Warningf("conn %s: client disconnect: %v", c.id, err)
		}
		c.state.ServerEvents().Enqueue(event.ClientDisconnected, event.ClientDisconnectedPayload{ClientID: entityID})
		if c.cfg.Stats != nil {
			c.cfg.Stats.ClientsOnline.Dec()
		}
	}
	c.stream.Close()
}

func (c *Conn) readerLoop(ctx context.Context) error {
	for {
		pkt, err := c.stream.Recv(ctx)
		if err != nil {
			return err
		}
		c.touch()
		if err := c.dispatch(ctx, pkt); err != nil {
			return err
		}
	}
}

func (c *Conn) eventLoop(ctx context.Context) error {
	c.queue.Run(ctx, c.bus)
	return ctx.Err()
}

func (c *Conn) watchdog(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			last := time.Unix(0, c.lastActivity.Load())
			timeout := time.Duration(c.activityTimeoutSnapshot()) * time.Second
			if time.Since(last) > timeout {
				return errs.NewNetwork("activity timeout")
			}
		}
	}
}

func (c *Conn) activityTimeoutSnapshot() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activityTimeout
}

func (c *Conn) setActivityTimeout(v uint8) uint8 {
	if v < c.cfg.ActivityTimeoutMin {
		v = c.cfg.ActivityTimeoutMin
	}
	if v > c.cfg.ActivityTimeoutMax {
		v = c.cfg.ActivityTimeoutMax
	}
	c.mu.Lock()
	c.activityTimeout = v
	c.mu.Unlock()
	return v
}

// bindRoute rebinds the connection's already-running event loop to a new
// (scope, owner); only called from the reader-loop goroutine at
// registration time, before any event the new scope cares about could
// possibly have been enqueued to this connection's queue.
func (c *Conn) bindRoute(scope event.Scope, owner uint32) {
	c.queue.Rebind(scope, owner)
}

// setProtoVersion records the protocol version carried by the packet that
// registered this connection, used later to pick the channel-pack shape.
func (c *Conn) setProtoVersion(v uint8) {
	c.mu.Lock()
	c.protoVersion = v
	c.mu.Unlock()
}
