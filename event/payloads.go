/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package event

import "github.com/suplalite/suplalite/wire"

// Payload types for each event ID. A handler registered for a given ID
// always receives the matching type; the mapping is enforced by
// convention at the two call sites (Enqueue, Register) rather than by the
// type system, mirroring the call_id -> record-type map used for wire
// dispatch.

type DeviceConnectedPayload struct {
	DeviceID uint32
}

type DeviceDisconnectedPayload struct {
	DeviceID uint32
}

type ClientConnectedPayload struct {
	ClientID uint32
}

type ClientDisconnectedPayload struct {
	ClientID uint32
}

// ChannelRegisterValuePayload fires once per channel when a device
// registers, carrying the device-supplied initial value.
type ChannelRegisterValuePayload struct {
	ChannelID uint32
	Value     [8]byte
}

type ChannelValueChangedPayload struct {
	ChannelID uint32
	Value     [8]byte
}

// ChannelSetValuePayload asks the owning device to apply a new value.
// SenderID is the client that requested it (0 for server-initiated
// changes), used to route SD_CHANNEL_SET_VALUE's sender_id field.
type ChannelSetValuePayload struct {
	ChannelID uint32
	Value     [8]byte
	SenderID  uint32
}

// GetChannelStatePayload asks the owning device to report channel state
// on behalf of ClientID.
type GetChannelStatePayload struct {
	ChannelID uint32
	ClientID  uint32
}

type DeviceConfigPayload struct {
	ChannelID           uint32
	ClientID            uint32
	Command             uint32
	SuperUserAuthorized bool
	Datatype            uint8
	Data                []byte
}

// SendLocationsPayload, SendChannelsPayload, SendScenesPayload carry no
// data; they simply trigger the matching pack push on a freshly
// registered client's queue.
type SendLocationsPayload struct{}
type SendChannelsPayload struct{}
type SendScenesPayload struct{}

// ChannelStateResultPayload carries a device's channel-state reply back
// to the client that asked for it.
type ChannelStateResultPayload struct {
	State wire.TSCChannelState
}

// DeviceConfigResultPayload carries a device's CALCFG reply back to the
// client that asked for it.
type DeviceConfigResultPayload struct {
	ChannelID uint32
	Command   uint32
	Result    wire.ResultCode
	Data      []byte
}