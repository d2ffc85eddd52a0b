/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"context"

	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/stream"
	"github.com/suplalite/suplalite/wire"
)

// handleRegisterDevice implements DS_REGISTER_DEVICE_E: the device's GUID,
// manufacturer/product identity, and self-reported channel list must match
// the configured device exactly (same count, same type/function per
// index); any mismatch or an unknown GUID is rejected with ResultFalse and
// the connection is closed, matching a protocol violation rather than an
// ordinary request failure.
func handleRegisterDevice(ctx context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTDSRegisterDeviceE(d)
	if d.Err() != nil {
		return d.Err()
	}

	reject := func(reason string) error {
		nlog.Warningf("conn %s: register device rejected: %s", c.id, reason)
		c.Send(ctx, wire.CallSDRegisterDeviceResult, wire.TSDRegisterDeviceResult{
			ResultCode:      wire.ResultFalse,
			ActivityTimeout: c.cfg.ActivityTimeoutMin,
			Version:         wire.ProtoVersion,
			VersionMin:      wire.ProtoVersionMin,
		})
		return errs.NewNetwork("register device: " + reason)
	}

	dev, err := c.state.GetDeviceByGUID(req.GUID)
	if err != nil {
		return reject("unknown guid")
	}
	if dev.ManufacturerID != req.ManufacturerID || dev.ProductID != req.ProductID {
		return reject("manufacturer/product mismatch")
	}
	if len(req.Channels) != len(dev.ChannelIDs) {
		return reject("channel count mismatch")
	}
	for i, rc := range req.Channels {
		ch, err := c.state.GetChannel(dev.ChannelIDs[i])
		if err != nil || int(rc.Number) != i || ch.Type != rc.Type || ch.Func != rc.DefaultFunc {
			return reject("channel shape mismatch")
		}
	}

	ok, err := c.state.DeviceConnected(dev.ID, pkt.Version, c.queue)
	if err != nil {
		return reject(err.Error())
	}
	if !ok {
		return reject("already connected")
	}

	c.mu.Lock()
	c.phase = PhaseRegisteredDevice
	c.entityID = dev.ID
	c.mu.Unlock()
	c.setProtoVersion(pkt.Version)
	c.bindRoute(event.ScopeDevice, dev.ID)
	c.registry.SetDevice(dev.ID, c)
	if c.cfg.Stats != nil {
		c.cfg.Stats.DevicesOnline.Inc()
	}

	for i, rc := range req.Channels {
		chID := dev.ChannelIDs[i]
		if err := c.state.SetChannelValue(chID, rc.Value); err != nil {
			nlog.Warningf("conn %s: register device: %v", c.id, err)
			continue
		}
		c.state.ServerEvents().Enqueue(event.ChannelRegisterValue, event.ChannelRegisterValuePayload{
			ChannelID: chID, Value: rc.Value,
		})
	}
	c.state.ServerEvents().Enqueue(event.DeviceConnected, event.DeviceConnectedPayload{DeviceID: dev.ID})

	return c.Send(ctx, wire.CallSDRegisterDeviceResult, wire.TSDRegisterDeviceResult{
		ResultCode:      wire.ResultTrue,
		ActivityTimeout: c.activityTimeoutSnapshot(),
		Version:         wire.ProtoVersion,
		VersionMin:      wire.ProtoVersionMin,
	})
}

// deviceChannelValueChanged resolves the device-local channel number to a
// channel id, applies the new value, and fans the change out through the
// server event queue — shared by the plain and duration-carrying variants,
// which differ only in whether a transient validity window accompanies
// the value (this server ignores DurationMs, since nothing here expires
// values on a timer).
func (c *Conn) deviceChannelValueChanged(channelNumber uint8, value [8]byte) {
	dev, err := c.state.GetDevice(c.EntityID())
	if err != nil {
		nlog.Warningf("conn %s: channel value changed: %v", c.id, err)
		return
	}
	if int(channelNumber) >= len(dev.ChannelIDs) {
		nlog.Warningf("conn %s: channel value changed: channel number %d out of range", c.id, channelNumber)
		return
	}
	chID := dev.ChannelIDs[channelNumber]
	if err := c.state.SetChannelValue(chID, value); err != nil {
		nlog.Warningf("conn %s: channel value changed: %v", c.id, err)
		return
	}
	c.state.ServerEvents().Enqueue(event.ChannelValueChanged, event.ChannelValueChangedPayload{
		ChannelID: chID, Value: value,
	})
}

func handleDeviceChannelValueChanged(_ context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTDSDeviceChannelValue(d)
	if d.Err() != nil {
		return d.Err()
	}
	c.deviceChannelValueChanged(req.ChannelNumber, req.Value)
	return nil
}

func handleDeviceChannelValueChangedC(_ context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTDSDeviceChannelValueC(d)
	if d.Err() != nil {
		return d.Err()
	}
	c.deviceChannelValueChanged(req.ChannelNumber, req.Value)
	return nil
}

// handleChannelSetValueResult is a one-way device->server ack; a failed
// application is logged, never answered (there is no reply call for it).
func handleChannelSetValueResult(_ context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTDSChannelNewValueResult(d)
	if d.Err() != nil {
		return d.Err()
	}
	if !req.Success {
		nlog.Warningf("conn %s: device rejected channel set value for channel number %d", c.id, req.ChannelNumber)
	}
	return nil
}

// handleDeviceChannelStateResult forwards a device's channel-state reply
// to the client that originally asked for it (addressed by ReceiverID,
// which carries the requesting client's id end to end).
func handleDeviceChannelStateResult(_ context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTDSChannelState(d)
	if d.Err() != nil {
		return d.Err()
	}
	dev, err := c.state.GetDevice(c.EntityID())
	if err != nil {
		return nil
	}
	if int(req.ChannelNumber) >= len(dev.ChannelIDs) {
		nlog.Warningf("conn %s: channel state result: channel number %d out of range", c.id, req.ChannelNumber)
		return nil
	}
	clientEvents := c.state.GetClientEvents(req.ReceiverID)
	if clientEvents == nil {
		nlog.Warningf("conn %s: channel state result: client %d not connected", c.id, req.ReceiverID)
		return nil
	}
	clientEvents.Enqueue(event.ChannelStateResult, event.ChannelStateResultPayload{
		State: wire.TSCChannelState{
			ChannelID:      dev.ChannelIDs[req.ChannelNumber],
			MAC:            req.MAC,
			BatteryLevel:   req.BatteryLevel,
			BatteryPowered: req.BatteryPowered,
			WifiRSSI:       req.WifiRSSI,
			WifiSignalStr:  req.WifiSignalStr,
			UptimeSec:      req.UptimeSec,
			ConnUptimeSec:  req.ConnUptimeSec,
		},
	})
	return nil
}

// handleDeviceCalCfgResult forwards a device's CALCFG reply to the client
// that originally issued the request.
func handleDeviceCalCfgResult(_ context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTDSDeviceCalCfgResult(d)
	if d.Err() != nil {
		return d.Err()
	}
	dev, err := c.state.GetDevice(c.EntityID())
	if err != nil {
		return nil
	}
	if int(req.ChannelNumber) >= len(dev.ChannelIDs) {
		nlog.Warningf("conn %s: calcfg result: channel number %d out of range", c.id, req.ChannelNumber)
		return nil
	}
	clientEvents := c.state.GetClientEvents(req.ReceiverID)
	if clientEvents == nil {
		nlog.Warningf("conn %s: calcfg result: client %d not connected", c.id, req.ReceiverID)
		return nil
	}
	clientEvents.Enqueue(event.DeviceConfigResult, event.DeviceConfigResultPayload{
		ChannelID: dev.ChannelIDs[req.ChannelNumber],
		Command:   req.Command,
		Result:    req.Result,
		Data:      req.Data,
	})
	return nil
}
