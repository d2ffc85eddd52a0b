/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package state

import (
	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/wire"
)

// Channel is one functional endpoint owned by exactly one device. Name is
// unique across the whole world, checked at AddChannel time.
type Channel struct {
	ID       uint32
	DeviceID uint32
	Number   uint8 // position within the owning device's channel list
	Name     string
	Caption  string
	Type     wire.ChannelType
	Func     wire.ChannelFunc
	Flags    uint64
	AltIcon  uint8
	UserIcon uint32 // 0 if this channel has no content-addressed icon

	Value     [8]byte
	LastValue *[8]byte // retained non-off value; currently meaningful for DIMMER only
	Config    any       // e.g. *wire.TChannelConfigGeneralPurposeMeasurement
}

// AddChannel registers a configured channel at startup. icons, if
// non-empty, is interned into the icon store and its content-addressed id
// becomes the channel's UserIcon.
func (s *State) AddChannel(
	deviceID uint32,
	name, caption string,
	typ wire.ChannelType,
	fn wire.ChannelFunc,
	flags uint64,
	altIcon uint8,
	icons [][]byte,
	config any,
) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.channelByName[name]; exists {
		return 0, errs.NewDuplicateRegistration("channel name " + name)
	}
	d, ok := s.devices[deviceID]
	if !ok {
		return 0, errUnknownDevice(deviceID)
	}

	var userIcon uint32
	if len(icons) > 0 {
		userIcon = s.icons.put(icons)
	}

	s.nextChannelID++
	id := s.nextChannelID
	s.channels[id] = &Channel{
		ID:       id,
		DeviceID: deviceID,
		Number:   uint8(len(d.ChannelIDs)),
		Name:     name,
		Caption:  caption,
		Type:     typ,
		Func:     fn,
		Flags:    flags,
		AltIcon:  altIcon,
		UserIcon: userIcon,
		Config:   config,
	}
	s.channelByName[name] = id
	s.bindDeviceChannel(deviceID, id)
	return id, nil
}

func (s *State) GetChannel(id uint32) (Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.channels[id]
	if !ok {
		return Channel{}, errUnknownChannel(id)
	}
	return *c, nil
}

func (s *State) GetChannelByName(name string) (Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.channelByName[name]
	if !ok {
		return Channel{}, errUnknownChannel(0)
	}
	return *s.channels[id], nil
}

// AllChannelIDs returns every configured channel id, in ascending order of
// assignment (registration order), for pack construction.
func (s *State) AllChannelIDs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint32, 0, len(s.channels))
	for i := uint32(1); i <= s.nextChannelID; i++ {
		if _, ok := s.channels[i]; ok {
			ids = append(ids, i)
		}
	}
	return ids
}

// SetChannelValue replaces a channel's opaque value. For DIMMER channels a
// non-zero brightness is additionally retained in LastValue, so that a
// later TURN_ON action can restore it (dimmer-memory invariant).
func (s *State) SetChannelValue(channelID uint32, value [8]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.channels[channelID]
	if !ok {
		return errUnknownChannel(channelID)
	}
	c.Value = value
	if c.Type == wire.ChannelTypeDimmer && !wire.IsZeroDimmerValue(value) {
		v := value
		c.LastValue = &v
	}
	return nil
}