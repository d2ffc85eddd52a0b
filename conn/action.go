/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/wire"
)

// applyChannelAction computes and applies the new value for a RELAY or
// DIMMER channel action, returning the encoded value and whether the
// (channel type, action) combination is supported. It never mutates state
// on an unsupported combination.
func applyChannelAction(st *state.State, channelID uint32, action wire.ActionType) ([8]byte, bool) {
	ch, err := st.GetChannel(channelID)
	if err != nil {
		return [8]byte{}, false
	}

	switch ch.Type {
	case wire.ChannelTypeRelay:
		var v wire.RelayValue
		switch action {
		case wire.ActionTurnOn:
			v = wire.RelayValue{On: true}
		case wire.ActionTurnOff:
			v = wire.RelayValue{On: false}
		case wire.ActionToggle:
			v = wire.RelayValue{On: !wire.DecodeRelayValue(ch.Value).On}
		default:
			return [8]byte{}, false
		}
		val := v.Encode()
		if err := st.SetChannelValue(channelID, val); err != nil {
			return [8]byte{}, false
		}
		return val, true

	case wire.ChannelTypeDimmer:
		var val [8]byte
		switch action {
		case wire.ActionTurnOff:
			val = wire.DimmerValue{Brightness: 0}.Encode()
		case wire.ActionTurnOn:
			if ch.LastValue != nil {
				val = *ch.LastValue
			} else {
				val = wire.DimmerValue{Brightness: 100}.Encode()
			}
		default:
			return [8]byte{}, false
		}
		if err := st.SetChannelValue(channelID, val); err != nil {
			return [8]byte{}, false
		}
		return val, true

	default:
		return [8]byte{}, false
	}
}

func actionResult(code wire.ResultCode, req wire.TCSAction) wire.TSCActionExecutionResult {
	return wire.TSCActionExecutionResult{
		ResultCode:  code,
		ActionID:    req.ActionID,
		SubjectID:   req.SubjectID,
		SubjectType: req.SubjectType,
	}
}
