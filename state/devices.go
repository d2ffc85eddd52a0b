/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package state

import (
	"github.com/suplalite/suplalite/cmn/debug"
	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/wire"
)

// Device is one configured peer: a fixed identity (GUID, manufacturer,
// product) established at startup, plus mutable connection state.
type Device struct {
	ID             uint32
	GUID           wire.GUID
	Name           string
	ManufacturerID uint32
	ProductID      uint32
	ChannelIDs     []uint32

	Online      bool
	ProtoVersion uint8
	Events      *event.Queue
}

// AddDevice registers a configured device at startup. Never called after
// the server has started accepting connections.
func (s *State) AddDevice(name string, guid wire.GUID, manufacturerID, productID uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.deviceByGUID[guid]; exists {
		debug.Assert(false, "duplicate device guid at configuration time")
	}

	s.nextDeviceID++
	id := s.nextDeviceID
	s.devices[id] = &Device{
		ID:             id,
		GUID:           guid,
		Name:           name,
		ManufacturerID: manufacturerID,
		ProductID:      productID,
	}
	s.deviceByGUID[guid] = id
	s.rememberGUID(guid)
	return id
}

// bindDeviceChannel appends a channel id to its owning device's ordered
// channel list. Called by AddChannel while the lock is already held.
func (s *State) bindDeviceChannel(deviceID, channelID uint32) {
	d := s.devices[deviceID]
	debug.Assert(d != nil, "bindDeviceChannel: unknown device")
	d.ChannelIDs = append(d.ChannelIDs, channelID)
}

func (s *State) GetDevice(id uint32) (Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[id]
	if !ok {
		return Device{}, errUnknownDevice(id)
	}
	return *d, nil
}

func (s *State) GetDeviceByGUID(guid wire.GUID) (Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.knownGUID(guid) {
		return Device{}, errs.NewNotFound("device guid %x", guid)
	}
	id, ok := s.deviceByGUID[guid]
	if !ok {
		return Device{}, errs.NewNotFound("device guid %x", guid)
	}
	return *s.devices[id], nil
}

// DeviceConnected atomically marks a device online and binds the
// connection's event sink. Returns false (without changing state) if the
// device is already online, so the connection runtime can reject a
// second concurrent registration for the same GUID.
func (s *State) DeviceConnected(deviceID uint32, protoVersion uint8, sink *event.Queue) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return false, errUnknownDevice(deviceID)
	}
	if d.Online {
		return false, nil
	}
	d.Online = true
	d.ProtoVersion = protoVersion
	d.Events = sink
	return true, nil
}

func (s *State) DeviceDisconnected(deviceID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return errUnknownDevice(deviceID)
	}
	d.Online = false
	d.Events = nil
	return nil
}

// GetDeviceEvents returns the event sink bound to an online device, or
// nil if the device is not currently connected.
func (s *State) GetDeviceEvents(deviceID uint32) *event.Queue {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return nil
	}
	return d.Events
}