/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"context"

	"github.com/suplalite/suplalite/stream"
	"github.com/suplalite/suplalite/wire"
)

// handlePingServer answers DCS_PING_SERVER with the same timestamp the
// peer sent, matching the external protocol's round-trip-only semantics.
func handlePingServer(ctx context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTDCSPingServer(d)
	if d.Err() != nil {
		return d.Err()
	}
	return c.Send(ctx, wire.CallSDCPingServerResult, wire.TSDCPingServerResult{Now: req.Now})
}

// handleGetRegistrationEnabled always reports both device and client
// registration as enabled: this server has no separate registration-gate
// configuration, registration is controlled purely by whether a matching
// GUID exists.
func handleGetRegistrationEnabled(ctx context.Context, c *Conn, _ stream.Packet) error {
	return c.Send(ctx, wire.CallSDCGetRegistrationEnabledResult, wire.TSDCRegistrationEnabled{
		ServerEnabled: 1,
		ClientEnabled: 1,
	})
}

func handleSetActivityTimeout(ctx context.Context, c *Conn, pkt stream.Packet) error {
	d := wire.NewDecoder(pkt.Payload)
	req := wire.DecodeTDCSSetActivityTimeout(d)
	if d.Err() != nil {
		return d.Err()
	}
	v := c.setActivityTimeout(req.ActivityTimeout)
	return c.Send(ctx, wire.CallSDCSetActivityTimeoutResult, wire.TSDCSetActivityTimeoutResult{
		ActivityTimeout: v,
		Min:             c.cfg.ActivityTimeoutMin,
		Max:             c.cfg.ActivityTimeoutMax,
	})
}
