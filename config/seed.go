/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package config

import (
	"encoding/base64"
	"fmt"

	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/wire"
)

// Seed populates a freshly constructed state.State from reg, in
// declaration order (devices before their channels, channels before
// scenes that reference them by name). It is only ever called once, at
// startup, before the server begins accepting connections.
func Seed(st *state.State, reg *Registry) error {
	for _, dc := range reg.Devices {
		guid, err := ParseGUID(dc.GUID)
		if err != nil {
			return err
		}
		deviceID := st.AddDevice(dc.Name, guid, dc.ManufacturerID, dc.ProductID)

		for _, cc := range dc.Channels {
			icons, err := decodeIcons(cc.Icons)
			if err != nil {
				return fmt.Errorf("config: device %q channel %q: %w", dc.Name, cc.Name, err)
			}
			var cfg any
			if cc.GeneralPurposeMeasurement != nil {
				g := cc.GeneralPurposeMeasurement
				cfg = &wire.TChannelConfigGeneralPurposeMeasurement{
					ValueDivider:      g.ValueDivider,
					ValueMultiplier:   g.ValueMultiplier,
					ValueAdded:        g.ValueAdded,
					ValuePrecision:    g.ValuePrecision,
					UnitBeforeValue:   g.UnitBeforeValue,
					UnitAfterValue:    g.UnitAfterValue,
					KeepHistory:       g.KeepHistory,
					ChartType:         g.ChartType,
					RefreshIntervalMs: g.RefreshIntervalMs,
				}
			}
			if _, err := st.AddChannel(deviceID, cc.Name, cc.Caption, cc.Type, cc.Func, cc.Flags, cc.AltIcon, icons, cfg); err != nil {
				return fmt.Errorf("config: device %q channel %q: %w", dc.Name, cc.Name, err)
			}
		}
	}

	for _, sc := range reg.Scenes {
		icons, err := decodeIcons(sc.Icons)
		if err != nil {
			return fmt.Errorf("config: scene %q: %w", sc.Name, err)
		}
		steps := make([]state.SceneStep, len(sc.Steps))
		for i, step := range sc.Steps {
			steps[i] = state.SceneStep{ChannelName: step.Channel, Action: step.Action}
		}
		st.AddScene(sc.Name, sc.Caption, steps, sc.AltIcon, icons)
	}
	return nil
}

func decodeIcons(encoded []string) ([][]byte, error) {
	if len(encoded) == 0 {
		return nil, nil
	}
	icons := make([][]byte, len(encoded))
	for i, s := range encoded {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid icon data: %w", err)
		}
		icons[i] = b
	}
	return icons, nil
}