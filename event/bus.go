// Package event implements the server's named event bus: per-scope FIFO
// queues, each drained by a single dedicated worker, dispatching to
// handlers registered at startup.
//
// Grounded on the hk package's periodic-callback registration contract,
// generalized from "periodic callback" to "queued, strictly-ordered
// callback": handlers are registered into an explicit, immutable-after-
// startup table rather than via decorator side effects.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package event

import (
	"context"
	"sync/atomic"

	"github.com/suplalite/suplalite/cmn/nlog"
)

// Scope is one of the three queue families: one server-wide queue, one
// queue per registered device, one queue per connected client.
type Scope int

const (
	ScopeServer Scope = iota
	ScopeDevice
	ScopeClient
)

func (s Scope) String() string {
	switch s {
	case ScopeServer:
		return "server"
	case ScopeDevice:
		return "device"
	case ScopeClient:
		return "client"
	default:
		return "unknown"
	}
}

// ID enumerates the closed set of events the server dispatches.
type ID int

const (
	DeviceConnected ID = iota
	DeviceDisconnected
	ClientConnected
	ClientDisconnected
	ChannelRegisterValue
	ChannelValueChanged
	ChannelSetValue
	GetChannelState
	DeviceConfig
	SendLocations
	SendChannels
	SendScenes
	ChannelStateResult
	DeviceConfigResult
)

// Event is one queued record: an id plus its typed payload. Payload is a
// concrete per-ID struct type (see payloads.go), type-asserted by
// handlers — an explicit alternative to reflective argument binding.
type Event struct {
	ID      ID
	Payload any
}

// Handler processes one dispatched event for a given owning entity id
// (0 for the server scope).
type Handler func(ctx context.Context, ownerID uint32, payload any)

// Bus holds the (scope, id) -> handlers table, built once at startup and
// treated as read-only thereafter; Register is not safe for concurrent use
// with Dispatch.
type Bus struct {
	handlers [3]map[ID][]Handler
}

func NewBus() *Bus {
	b := &Bus{}
	for i := range b.handlers {
		b.handlers[i] = make(map[ID][]Handler)
	}
	return b
}

// Register appends h to the ordered handler list for (scope, id). Handler
// i for an event completes before handler i+1 begins.
func (b *Bus) Register(scope Scope, id ID, h Handler) {
	b.handlers[scope][id] = append(b.handlers[scope][id], h)
}

func (b *Bus) dispatch(ctx context.Context, scope Scope, ownerID uint32, ev Event) {
	handlers := b.handlers[scope][ev.ID]
	if len(handlers) == 0 {
		nlog.Warningf("event: no handlers registered for scope=%s id=%d", scope, ev.ID)
		return
	}
	for _, h := range handlers {
		h(ctx, ownerID, ev.Payload)
	}
}

// Queue is a FIFO bound to one entity (or the server). A single worker,
// started by Run, drains it in strict enqueue order: the whole point of a
// dedicated worker per queue is that cross-queue ordering is unspecified
// but within-queue ordering is absolute.
type Queue struct {
	ch chan Event

	// scope/owner are read by the Run goroutine and may be updated by a
	// different goroutine exactly once, at registration (a connection's
	// queue starts out server-scoped and is rebound to its device/client
	// identity once registration succeeds) — atomic.Value avoids a mutex
	// for what is otherwise a single-writer-many-reads field.
	route atomic.Value // routeKey
}

type routeKey struct {
	scope Scope
	owner uint32
}

func NewQueue(scope Scope, owner uint32, bufSize int) *Queue {
	q := &Queue{ch: make(chan Event, bufSize)}
	q.route.Store(routeKey{scope: scope, owner: owner})
	return q
}

// Rebind changes the (scope, owner) used for events dispatched from this
// point on, without losing anything already buffered in the channel.
func (q *Queue) Rebind(scope Scope, owner uint32) {
	q.route.Store(routeKey{scope: scope, owner: owner})
}

func (q *Queue) currentRoute() routeKey { return q.route.Load().(routeKey) }

// Len reports the number of events currently buffered, for depth
// instrumentation.
func (q *Queue) Len() int { return len(q.ch) }

// Enqueue posts an event without waiting for it to be handled. The
// channel buffer is sized generously enough in practice that a full
// buffer indicates a stuck handler rather than ordinary load, so Enqueue
// logs and drops rather than blocking the caller indefinitely.
func (q *Queue) Enqueue(id ID, payload any) {
	select {
	case q.ch <- Event{ID: id, Payload: payload}:
	default:
		rt := q.currentRoute()
		nlog.Errorf("event: queue full (scope=%s owner=%d), dropping event %d", rt.scope, rt.owner, id)
	}
}

// Run drains the queue until ctx is done, dispatching each event through
// bus before accepting the next — the strict-ordering guarantee.
func (q *Queue) Run(ctx context.Context, bus *Bus) {
	for {
		select {
		case ev := <-q.ch:
			rt := q.currentRoute()
			bus.dispatch(ctx, rt.scope, rt.owner, ev)
		case <-ctx.Done():
			return
		}
	}
}
