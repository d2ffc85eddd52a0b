/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"context"
	"time"

	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/stream"
	"github.com/suplalite/suplalite/wire"
)

// handleRegisterClient implements CS_REGISTER_CLIENT_D. A client id is
// assigned (or reused, for a GUID already seen) on first sight; a second
// concurrent registration for the same client id is rejected, matching
// the same single-session invariant enforced for devices.
func handleRegisterClient(ctx context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTCSRegisterClientD(d)
	if d.Err() != nil {
		return d.Err()
	}

	clientID := c.state.RegisterClient(req.GUID)

	failResult := func() wire.TSCRegisterClientResultD {
		return wire.TSCRegisterClientResultD{
			ResultCode:      wire.ResultFalse,
			ClientID:        clientID,
			ChannelCount:    uint32(len(c.state.AllChannelIDs())),
			SceneCount:      uint32(len(c.state.AllSceneIDs())),
			ActivityTimeout: c.activityTimeoutSnapshot(),
			Version:         wire.ProtoVersion,
			VersionMin:      wire.ProtoVersionMin,
			ServerUnixTime:  uint32(time.Now().Unix()),
		}
	}

	ok, err := c.state.ClientConnected(clientID, c.queue)
	if err != nil || !ok {
		nlog.Warningf("conn %s: register client rejected: already connected", c.id)
		c.Send(ctx, wire.CallSCRegisterClientResultD, failResult())
		return errs.NewDuplicateRegistration("client")
	}

	c.mu.Lock()
	c.phase = PhaseRegisteredClient
	c.entityID = clientID
	c.mu.Unlock()
	c.setProtoVersion(pkt.Version)
	c.bindRoute(event.ScopeClient, clientID)
	c.registry.SetClient(clientID, c)
	if c.cfg.Stats != nil {
		c.cfg.Stats.ClientsOnline.Inc()
	}

	c.state.ServerEvents().Enqueue(event.ClientConnected, event.ClientConnectedPayload{ClientID: clientID})
	c.queue.Enqueue(event.SendLocations, event.SendLocationsPayload{})
	c.queue.Enqueue(event.SendChannels, event.SendChannelsPayload{})
	c.queue.Enqueue(event.SendScenes, event.SendScenesPayload{})

	return c.Send(ctx, wire.CallSCRegisterClientResultD, wire.TSCRegisterClientResultD{
		ResultCode:      wire.ResultTrue,
		ClientID:        clientID,
		LocationCount:   1,
		ChannelCount:    uint32(len(c.state.AllChannelIDs())),
		SceneCount:      uint32(len(c.state.AllSceneIDs())),
		ActivityTimeout: c.activityTimeoutSnapshot(),
		Version:         wire.ProtoVersion,
		VersionMin:      wire.ProtoVersionMin,
		ServerUnixTime:  uint32(time.Now().Unix()),
	})
}

// handleRegisterPNClientToken: push-notification tokens are not
// implemented by this server (no push transport exists), so the request
// is always answered negatively rather than silently accepted.
func handleRegisterPNClientToken(ctx context.Context, c *Conn, _ stream.Packet) error {
	return c.Send(ctx, wire.CallSCRegisterPNClientTokenResult, wire.TSCRegisterPNClientTokenResult{
		ResultCode: wire.ResultFalse,
	})
}

// handleOAuthTokenRequest issues an opaque token to any requester, since no
// real OAuth authorization server backs it; the reply is a failure only
// when generating the token itself fails.
func handleOAuthTokenRequest(ctx context.Context, c *Conn, _ stream.Packet) error {
	token, err := state.IssueOAuthToken(c.cfg.APIURLBase64)
	if err != nil {
		nlog.Errorf("conn %s: oauth token request: %v", c.id, err)
		return c.Send(ctx, wire.CallSCOAuthTokenRequestResult, wire.TSCOAuthTokenRequestResult{
			Result: wire.OAuthFailure,
		})
	}
	return c.Send(ctx, wire.CallSCOAuthTokenRequestResult, wire.TSCOAuthTokenRequestResult{
		Result: wire.OAuthSuccess,
		Token: wire.TSCOAuthToken{
			ExpiresIn: 300,
			Token:     append([]byte(token), 0),
		},
	})
}

// handleGetNext is a deliberate no-op: this server always proactively
// pushes every pack a client needs (locations, channels, scenes, value
// updates) as soon as it has something to send, so there is nothing for a
// pull request to fetch.
func handleGetNext(_ context.Context, _ *Conn, _ stream.Packet) error { return nil }

// handleExecuteAction implements CS_EXECUTE_ACTION for both subject types:
// CHANNEL (RELAY/DIMMER actions) and SCENE (EXECUTE only, running every
// step of the scene's script).
func handleExecuteAction(ctx context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTCSAction(d)
	if d.Err() != nil {
		return d.Err()
	}

	fail := func() error {
		return c.Send(ctx, wire.CallSCActionExecutionResult, actionResult(wire.ResultFalse, req))
	}

	switch req.SubjectType {
	case wire.SubjectChannel:
		val, ok := applyChannelAction(c.state, req.SubjectID, req.ActionID)
		if !ok {
			nlog.Warningf("conn %s: execute action: unsupported action %d on channel %d", c.id, req.ActionID, req.SubjectID)
			return fail()
		}
		c.state.ServerEvents().Enqueue(event.ChannelSetValue, event.ChannelSetValuePayload{
			ChannelID: req.SubjectID,
			Value:     val,
			SenderID:  c.EntityID(),
		})
		return c.Send(ctx, wire.CallSCActionExecutionResult, actionResult(wire.ResultTrue, req))

	case wire.SubjectScene:
		if req.ActionID != wire.ActionExecute {
			nlog.Warningf("conn %s: execute action: unsupported action %d on scene %d", c.id, req.ActionID, req.SubjectID)
			return fail()
		}
		if err := executeScene(c.state, req.SubjectID); err != nil {
			nlog.Warningf("conn %s: execute action: %v", c.id, err)
			return fail()
		}
		return c.Send(ctx, wire.CallSCActionExecutionResult, actionResult(wire.ResultTrue, req))

	default:
		return fail()
	}
}

// handleSetValue implements CS_SET_VALUE, a one-way direct value push
// (only Target=CHANNEL is supported; the request carries no result call).
func handleSetValue(_ context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTCSNewValue(d)
	if d.Err() != nil {
		return d.Err()
	}
	if req.Target != wire.TargetChannel {
		nlog.Warningf("conn %s: set value: unsupported target %d", c.id, req.Target)
		return nil
	}
	if _, err := c.state.GetChannel(req.ValueID); err != nil {
		nlog.Warningf("conn %s: set value: unknown channel %d", c.id, req.ValueID)
		return nil
	}
	if err := c.state.SetChannelValue(req.ValueID, req.Value); err != nil {
		nlog.Warningf("conn %s: set value: %v", c.id, err)
		return nil
	}
	c.state.ServerEvents().Enqueue(event.ChannelSetValue, event.ChannelSetValuePayload{
		ChannelID: req.ValueID,
		Value:     req.Value,
		SenderID:  0,
	})
	return nil
}

// handleGetChannelConfig answers directly from world state; channel
// configuration is not a device round trip in this server (only
// GENERAL_PURPOSE_MEASUREMENT carries a typed config payload today).
func handleGetChannelConfig(ctx context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTCSGetChannelConfigRequest(d)
	if d.Err() != nil {
		return d.Err()
	}

	ch, err := c.state.GetChannel(req.ChannelID)
	if err != nil {
		nlog.Warningf("conn %s: get channel config: unknown channel %d", c.id, req.ChannelID)
		return c.Send(ctx, wire.CallSCChannelConfigUpdateOrResult, wire.TSCChannelConfigUpdateOrResult{
			Result: wire.ConfigFalse,
			Config: wire.TSCSChannelConfig{ChannelID: req.ChannelID},
		})
	}

	var configBytes []byte
	if gpm, ok := ch.Config.(*wire.TChannelConfigGeneralPurposeMeasurement); ok && gpm != nil {
		e := wire.NewEncoder(64)
		gpm.Encode(e)
		configBytes = e.Bytes()
	}
	return c.Send(ctx, wire.CallSCChannelConfigUpdateOrResult, wire.TSCChannelConfigUpdateOrResult{
		Result: wire.ConfigTrue,
		Config: wire.TSCSChannelConfig{
			ChannelID:  ch.ID,
			Func:       ch.Func,
			ConfigType: wire.ConfigTypeDefault,
			Config:     configBytes,
		},
	})
}

// handleGetChannelState implements CSD_GET_CHANNEL_STATE client-side:
// forward the request to the owning device's queue, carrying this client's
// id so the eventual reply can be routed back.
func handleGetChannelState(_ context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTCSChannelStateRequest(d)
	if d.Err() != nil {
		return d.Err()
	}
	ch, err := c.state.GetChannel(req.ChannelID)
	if err != nil {
		nlog.Warningf("conn %s: get channel state: unknown channel %d", c.id, req.ChannelID)
		return nil
	}
	devEvents := c.state.GetDeviceEvents(ch.DeviceID)
	if devEvents == nil {
		nlog.Warningf("conn %s: get channel state: device %d offline", c.id, ch.DeviceID)
		return nil
	}
	devEvents.Enqueue(event.GetChannelState, event.GetChannelStatePayload{
		ChannelID: req.ChannelID,
		ClientID:  c.EntityID(),
	})
	return nil
}

// handleSuperuserAuthorizationRequest checks the submitted credentials
// against the configured superuser email/password hash. Superuser
// authorization is disabled (always UNAUTHORIZED) when no hash is
// configured.
func handleSuperuserAuthorizationRequest(ctx context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTCSSuperUserAuthorizationRequest(d)
	if d.Err() != nil {
		return d.Err()
	}

	result := wire.ResultUnauthorized
	if len(c.cfg.SuperuserPasswordHash) > 0 && req.Email == c.cfg.SuperuserEmail &&
		c.state.CheckSuperUserPassword(c.EntityID(), req.Password, c.cfg.SuperuserPasswordHash) {
		result = wire.ResultAuthorized
	}
	return c.Send(ctx, wire.CallSCSuperuserAuthorizationResult, wire.TSCSuperUserAuthorizationResult{Result: result})
}

// handleCalCfgRequest implements CS_DEVICE_CALCFG_REQUEST_B: forward to
// the owning device's queue, carrying this client's id.
func handleCalCfgRequest(_ context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTCSDeviceCalCfgRequestB(d)
	if d.Err() != nil {
		return d.Err()
	}
	ch, err := c.state.GetChannel(req.ChannelID)
	if err != nil {
		nlog.Warningf("conn %s: calcfg request: unknown channel %d", c.id, req.ChannelID)
		return nil
	}
	devEvents := c.state.GetDeviceEvents(ch.DeviceID)
	if devEvents == nil {
		nlog.Warningf("conn %s: calcfg request: device %d offline", c.id, ch.DeviceID)
		return nil
	}
	devEvents.Enqueue(event.DeviceConfig, event.DeviceConfigPayload{
		ChannelID: req.ChannelID,
		ClientID:  c.EntityID(),
		Command:   req.Command,
		Datatype:  req.Datatype,
		Data:      req.Data,
	})
	return nil
}
