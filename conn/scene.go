/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/state"
)

// executeScene runs a scene's steps in order: each step names a channel by
// its world-unique name and an action to apply to it, following the same
// per-channel-type action semantics as a direct CS_EXECUTE_ACTION against
// that channel. A step naming an unknown channel or an unsupported
// (channel type, action) pair is logged and skipped rather than aborting
// the whole scene — scenes are expected to span channels of differing
// type, and one misconfigured step should not block the rest.
func executeScene(st *state.State, sceneID uint32) error {
	sc, err := st.GetScene(sceneID)
	if err != nil {
		return err
	}
	for _, step := range sc.Steps {
		ch, err := st.GetChannelByName(step.ChannelName)
		if err != nil {
			nlog.Warningf("scene %d: unknown channel %q", sceneID, step.ChannelName)
			continue
		}
		val, ok := applyChannelAction(st, ch.ID, step.Action)
		if !ok {
			nlog.Warningf("scene %d: unsupported action %d for channel %q", sceneID, step.Action, step.ChannelName)
			continue
		}
		st.ServerEvents().Enqueue(event.ChannelSetValue, event.ChannelSetValuePayload{
			ChannelID: ch.ID,
			Value:     val,
			SenderID:  0,
		})
	}
	return nil
}
