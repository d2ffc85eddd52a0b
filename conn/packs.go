/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"context"

	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/wire"
)

// sendChannelPacks batches every configured channel into SC_CHANNELPACK_UPDATE
// messages, choosing the wide-flags (E) or legacy (D) item shape from the
// connection's negotiated protocol version (see ChannelEMinProtoVersion).
// Each batch's last item carries EOL; an empty world still gets one
// (empty) terminating pack so the client's pack-count bookkeeping
// completes.
func sendChannelPacks(ctx context.Context, cc *Conn, st *state.State) {
	ids := st.AllChannelIDs()
	useWide := cc.ProtoVersion() >= ChannelEMinProtoVersion
	total := len(ids)

	if len(ids) == 0 {
		if useWide {
			cc.Send(ctx, wire.CallSCChannelPackUpdateE, wire.TSCChannelPackE{})
		} else {
			cc.Send(ctx, wire.CallSCChannelPackUpdateD, wire.TSCChannelPackD{})
		}
		return
	}

	for i := 0; i < len(ids); i += wire.ChannelPackMaxCount {
		batch := ids[i:min(i+wire.ChannelPackMaxCount, len(ids))]
		total -= len(batch)
		if useWide {
			items := make([]wire.TSCChannelE, len(batch))
			for j, id := range batch {
				items[j] = channelToE(st, id)
			}
			items[len(items)-1].EOL = true
			cc.Send(ctx, wire.CallSCChannelPackUpdateE, wire.TSCChannelPackE{TotalLeft: uint32(total), Items: items})
		} else {
			items := make([]wire.TSCChannelD, len(batch))
			for j, id := range batch {
				items[j] = channelToD(st, id)
			}
			items[len(items)-1].EOL = true
			cc.Send(ctx, wire.CallSCChannelPackUpdateD, wire.TSCChannelPackD{TotalLeft: uint32(total), Items: items})
		}
	}
}

func channelToD(st *state.State, id uint32) wire.TSCChannelD {
	ch, _ := st.GetChannel(id)
	dev, _ := st.GetDevice(ch.DeviceID)
	return wire.TSCChannelD{
		ID:              ch.ID,
		DeviceID:        ch.DeviceID,
		LocationID:      1,
		Type:            ch.Type,
		Func:            ch.Func,
		AltIcon:         ch.AltIcon,
		UserIcon:        ch.UserIcon,
		ManufacturerID:  dev.ManufacturerID,
		ProductID:       dev.ProductID,
		Flags:           uint32(wire.ChannelFlagChannelState),
		ProtocolVersion: dev.ProtoVersion,
		Online:          dev.Online,
		Value:           wire.NewChannelValueB(ch.Value),
		Caption:         ch.Caption,
	}
}

func channelToE(st *state.State, id uint32) wire.TSCChannelE {
	ch, _ := st.GetChannel(id)
	dev, _ := st.GetDevice(ch.DeviceID)
	return wire.TSCChannelE{
		ID:              ch.ID,
		DeviceID:        ch.DeviceID,
		LocationID:      1,
		Type:            ch.Type,
		Func:            ch.Func,
		AltIcon:         ch.AltIcon,
		UserIcon:        ch.UserIcon,
		ManufacturerID:  dev.ManufacturerID,
		ProductID:       dev.ProductID,
		Flags:           ch.Flags | uint64(wire.ChannelFlagChannelState),
		ProtocolVersion: dev.ProtoVersion,
		Online:          dev.Online,
		Value:           wire.NewChannelValueB(ch.Value),
		Caption:         ch.Caption,
	}
}

// sendScenePacks batches every configured scene into SC_SCENE_PACK_UPDATE
// messages, same EOL/empty-terminator convention as sendChannelPacks.
func sendScenePacks(ctx context.Context, cc *Conn, st *state.State) {
	ids := st.AllSceneIDs()
	total := len(ids)

	if len(ids) == 0 {
		cc.Send(ctx, wire.CallSCScenePackUpdate, wire.TSCScenePack{})
		return
	}

	for i := 0; i < len(ids); i += wire.ScenePackMaxCount {
		batch := ids[i:min(i+wire.ScenePackMaxCount, len(ids))]
		total -= len(batch)
		items := make([]wire.TSCScene, len(batch))
		for j, id := range batch {
			sc, _ := st.GetScene(id)
			items[j] = wire.TSCScene{ID: sc.ID, Caption: sc.Caption, AltIcon: sc.AltIcon, UserIcon: sc.UserIcon}
		}
		items[len(items)-1].EOL = true
		cc.Send(ctx, wire.CallSCScenePackUpdate, wire.TSCScenePack{TotalLeft: uint32(total), Items: items})
	}
}

// sendChannelValuePacks re-sends every channel of dev with its current
// online flag, batched by ChannelValuePackMaxCount. Both device-connected
// and device-disconnected fan-out to clients this way: a client always
// learns the fresh online state of all of a device's channels together,
// rather than receiving a separate connectivity notification.
func sendChannelValuePacks(ctx context.Context, cc *Conn, st *state.State, dev state.Device) {
	ids := dev.ChannelIDs
	total := len(ids)
	for i := 0; i < len(ids); i += wire.ChannelValuePackMaxCount {
		batch := ids[i:min(i+wire.ChannelValuePackMaxCount, len(ids))]
		total -= len(batch)
		items := make([]wire.TSCChannelValueB, len(batch))
		for j, id := range batch {
			ch, _ := st.GetChannel(id)
			items[j] = wire.TSCChannelValueB{ID: ch.ID, Online: dev.Online, Value: wire.NewChannelValueB(ch.Value)}
		}
		items[len(items)-1].EOL = true
		cc.Send(ctx, wire.CallSCChannelValuePackUpdateB, wire.TSCChannelValuePackB{TotalLeft: uint32(total), Items: items})
	}
}
