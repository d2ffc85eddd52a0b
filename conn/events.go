/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"context"

	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/wire"
)

// RegisterEventHandlers wires every (scope, event id) pair the server
// dispatches. Some events are handled in two hops: a server-scope handler
// resolves the owning entity and re-enqueues the same event onto that
// entity's own queue, where a second, scope-specific handler performs the
// actual wire send — this indirection is what lets a single server-wide
// queue fan an event out to an arbitrary device or every connected client
// without the originating connection blocking on the send.
func RegisterEventHandlers(bus *event.Bus, st *state.State, reg *Registry) {
	registerServerHandlers(bus, st, reg)
	registerDeviceHandlers(bus, st, reg)
	registerClientHandlers(bus, st, reg)
}

func registerServerHandlers(bus *event.Bus, st *state.State, reg *Registry) {
	bus.Register(event.ScopeServer, event.DeviceConnected, func(_ context.Context, _ uint32, payload any) {
		for _, cc := range reg.AllClients() {
			cc.EnqueueEvent(event.DeviceConnected, payload)
		}
	})
	bus.Register(event.ScopeServer, event.DeviceDisconnected, func(_ context.Context, _ uint32, payload any) {
		for _, cc := range reg.AllClients() {
			cc.EnqueueEvent(event.DeviceDisconnected, payload)
		}
	})
	bus.Register(event.ScopeServer, event.ClientConnected, func(_ context.Context, _ uint32, payload any) {
		p := payload.(event.ClientConnectedPayload)
		nlog.Infof("client %d connected", p.ClientID)
	})
	bus.Register(event.ScopeServer, event.ClientDisconnected, func(_ context.Context, _ uint32, payload any) {
		p := payload.(event.ClientDisconnectedPayload)
		nlog.Infof("client %d disconnected", p.ClientID)
	})
	bus.Register(event.ScopeServer, event.ChannelRegisterValue, func(_ context.Context, _ uint32, payload any) {
		p := payload.(event.ChannelRegisterValuePayload)
		nlog.Infof("channel %d registered with initial value", p.ChannelID)
	})
	bus.Register(event.ScopeServer, event.ChannelValueChanged, func(_ context.Context, _ uint32, payload any) {
		for _, cc := range reg.AllClients() {
			cc.EnqueueEvent(event.ChannelValueChanged, payload)
		}
	})
	bus.Register(event.ScopeServer, event.ChannelSetValue, func(_ context.Context, _ uint32, payload any) {
		p := payload.(event.ChannelSetValuePayload)
		ch, err := st.GetChannel(p.ChannelID)
		if err != nil {
			nlog.Warningf("event: channel set value: %v", err)
			return
		}
		devEvents := st.GetDeviceEvents(ch.DeviceID)
		if devEvents == nil {
			nlog.Warningf("event: channel set value: device %d offline, dropping", ch.DeviceID)
			return
		}
		devEvents.Enqueue(event.ChannelSetValue, p)
	})
}

func registerDeviceHandlers(bus *event.Bus, st *state.State, reg *Registry) {
	bus.Register(event.ScopeDevice, event.ChannelSetValue, func(ctx context.Context, deviceID uint32, payload any) {
		p := payload.(event.ChannelSetValuePayload)
		ch, err := st.GetChannel(p.ChannelID)
		if err != nil {
			nlog.Warningf("event: channel set value: %v", err)
			return
		}
		dc := reg.GetDevice(deviceID)
		if dc == nil {
			return
		}
		dc.Send(ctx, wire.CallSDChannelSetValue, wire.TSDChannelNewValue{
			SenderID:      p.SenderID,
			ChannelNumber: ch.Number,
			DurationMs:    0,
			Value:         p.Value,
		})
	})

	bus.Register(event.ScopeDevice, event.GetChannelState, func(ctx context.Context, deviceID uint32, payload any) {
		p := payload.(event.GetChannelStatePayload)
		ch, err := st.GetChannel(p.ChannelID)
		if err != nil {
			nlog.Warningf("event: get channel state: %v", err)
			return
		}
		dc := reg.GetDevice(deviceID)
		if dc == nil {
			return
		}
		dc.Send(ctx, wire.CallCSDGetChannelState, wire.TSDChannelStateRequest{
			SenderID:      p.ClientID,
			ChannelNumber: ch.Number,
		})
	})

	bus.Register(event.ScopeDevice, event.DeviceConfig, func(ctx context.Context, deviceID uint32, payload any) {
		p := payload.(event.DeviceConfigPayload)
		ch, err := st.GetChannel(p.ChannelID)
		if err != nil {
			nlog.Warningf("event: device config: %v", err)
			return
		}
		client, err := st.GetClient(p.ClientID)
		if err != nil {
			nlog.Warningf("event: device config: %v", err)
			return
		}
		dc := reg.GetDevice(deviceID)
		if dc == nil {
			return
		}
		dc.Send(ctx, wire.CallSDDeviceCalCfgRequest, wire.TSDDeviceCalCfgRequest{
			SenderID:            p.ClientID,
			ChannelNumber:       ch.Number,
			Command:             p.Command,
			SuperUserAuthorized: client.Authorized,
			Datatype:            p.Datatype,
			Data:                p.Data,
		})
	})
}

func registerClientHandlers(bus *event.Bus, st *state.State, reg *Registry) {
	bus.Register(event.ScopeClient, event.SendLocations, func(ctx context.Context, clientID uint32, _ any) {
		cc := reg.GetClient(clientID)
		if cc == nil {
			return
		}
		cc.Send(ctx, wire.CallSCLocationPackUpdate, wire.TSCLocationPack{
			TotalLeft: 0,
			Items:     []wire.TSCLocation{{EOL: true, ID: 1, Caption: cc.cfg.LocationName}},
		})
	})

	bus.Register(event.ScopeClient, event.SendChannels, func(ctx context.Context, clientID uint32, _ any) {
		cc := reg.GetClient(clientID)
		if cc == nil {
			return
		}
		sendChannelPacks(ctx, cc, st)
	})

	bus.Register(event.ScopeClient, event.SendScenes, func(ctx context.Context, clientID uint32, _ any) {
		cc := reg.GetClient(clientID)
		if cc == nil {
			return
		}
		sendScenePacks(ctx, cc, st)
	})

	deviceConnectivity := func(ctx context.Context, clientID uint32, payload any) {
		var deviceID uint32
		switch p := payload.(type) {
		case event.DeviceConnectedPayload:
			deviceID = p.DeviceID
		case event.DeviceDisconnectedPayload:
			deviceID = p.DeviceID
		default:
			return
		}
		cc := reg.GetClient(clientID)
		if cc == nil {
			return
		}
		dev, err := st.GetDevice(deviceID)
		if err != nil {
			return
		}
		sendChannelValuePacks(ctx, cc, st, dev)
	}
	bus.Register(event.ScopeClient, event.DeviceConnected, deviceConnectivity)
	bus.Register(event.ScopeClient, event.DeviceDisconnected, deviceConnectivity)

	bus.Register(event.ScopeClient, event.ChannelValueChanged, func(ctx context.Context, clientID uint32, payload any) {
		p := payload.(event.ChannelValueChangedPayload)
		cc := reg.GetClient(clientID)
		if cc == nil {
			return
		}
		cc.Send(ctx, wire.CallSCChannelValuePackUpdateB, wire.TSCChannelValuePackB{
			TotalLeft: 0,
			Items: []wire.TSCChannelValueB{{
				EOL: true, ID: p.ChannelID, Online: true, Value: wire.NewChannelValueB(p.Value),
			}},
		})
	})

	bus.Register(event.ScopeClient, event.ChannelStateResult, func(ctx context.Context, clientID uint32, payload any) {
		p := payload.(event.ChannelStateResultPayload)
		cc := reg.GetClient(clientID)
		if cc == nil {
			return
		}
		cc.Send(ctx, wire.CallDSCChannelStateResult, p.State)
	})

	bus.Register(event.ScopeClient, event.DeviceConfigResult, func(ctx context.Context, clientID uint32, payload any) {
		p := payload.(event.DeviceConfigResultPayload)
		cc := reg.GetClient(clientID)
		if cc == nil {
			return
		}
		cc.Send(ctx, wire.CallSCDeviceCalCfgResult, wire.TSCDeviceCalCfgResult{
			ChannelID: p.ChannelID,
			Command:   p.Command,
			Result:    p.Result,
			Data:      p.Data,
		})
	})
}
