/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package conn

import (
	"testing"

	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/wire"
)

func newTestWorld(t *testing.T) (*state.State, uint32, uint32) {
	t.Helper()
	st := state.New()
	devID := st.AddDevice("dev", wire.GUID{1}, 1, 1)
	relayID, err := st.AddChannel(devID, "relay", "Relay", wire.ChannelTypeRelay, wire.ChannelFuncPowerSwitch, 0, 0, nil, nil)
	if err != nil {
		t.Fatalf("AddChannel(relay): %v", err)
	}
	dimmerID, err := st.AddChannel(devID, "dimmer", "Dimmer", wire.ChannelTypeDimmer, wire.ChannelFuncDimmer, 0, 0, nil, nil)
	if err != nil {
		t.Fatalf("AddChannel(dimmer): %v", err)
	}
	return st, relayID, dimmerID
}

func TestApplyChannelActionRelay(t *testing.T) {
	st, relayID, _ := newTestWorld(t)

	val, ok := applyChannelAction(st, relayID, wire.ActionTurnOn)
	if !ok || !wire.DecodeRelayValue(val).On {
		t.Fatalf("TURN_ON: got %v ok=%v", val, ok)
	}

	val, ok = applyChannelAction(st, relayID, wire.ActionToggle)
	if !ok || wire.DecodeRelayValue(val).On {
		t.Fatalf("TOGGLE off expected: got %v ok=%v", val, ok)
	}

	if _, ok := applyChannelAction(st, relayID, wire.ActionExecute); ok {
		t.Fatalf("EXECUTE should not apply to a relay channel")
	}
}

func TestApplyChannelActionDimmerRestoresLastValue(t *testing.T) {
	st, _, dimmerID := newTestWorld(t)

	val, ok := applyChannelAction(st, dimmerID, wire.ActionTurnOn)
	if !ok || wire.DecodeDimmerValue(val).Brightness != 100 {
		t.Fatalf("TURN_ON with no prior value should default to 100: got %+v", wire.DecodeDimmerValue(val))
	}

	if err := st.SetChannelValue(dimmerID, wire.DimmerValue{Brightness: 42}.Encode()); err != nil {
		t.Fatalf("SetChannelValue: %v", err)
	}

	val, ok = applyChannelAction(st, dimmerID, wire.ActionTurnOff)
	if !ok || wire.DecodeDimmerValue(val).Brightness != 0 {
		t.Fatalf("TURN_OFF should zero brightness: got %+v", wire.DecodeDimmerValue(val))
	}

	val, ok = applyChannelAction(st, dimmerID, wire.ActionTurnOn)
	if !ok || wire.DecodeDimmerValue(val).Brightness != 42 {
		t.Fatalf("TURN_ON should restore last non-zero brightness: got %+v", wire.DecodeDimmerValue(val))
	}
}

func TestApplyChannelActionUnknownChannel(t *testing.T) {
	st, _, _ := newTestWorld(t)
	if _, ok := applyChannelAction(st, 9999, wire.ActionTurnOn); ok {
		t.Fatalf("expected ok=false for an unknown channel id")
	}
}