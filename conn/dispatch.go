/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package conn

import (
	"context"
	"strconv"
	"time"

	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/stream"
	"github.com/suplalite/suplalite/wire"
)

// callHandler decodes and acts on one packet's payload. Returning a non-nil
// error terminates the connection (protocol violation, framing error,
// rejected registration); a request-level failure (unknown channel,
// unsupported action) is reported to the peer as a negative result and
// returns nil.
type callHandler func(ctx context.Context, c *Conn, pkt stream.Packet) error

// callHandlers is the call-id -> handler table, built once as a package
// variable rather than via per-call reflection or decorator registration.
var callHandlers = map[wire.CallID]callHandler{
	wire.CallDCSPingServer:               handlePingServer,
	wire.CallDCSGetRegistrationEnabled:   handleGetRegistrationEnabled,
	wire.CallDCSSetActivityTimeout:       handleSetActivityTimeout,
	wire.CallDSRegisterDeviceE:           handleRegisterDevice,
	wire.CallDSDeviceChannelValueChanged: handleDeviceChannelValueChanged,
	wire.CallDSDeviceChannelValueChangedC: handleDeviceChannelValueChangedC,
	wire.CallDSChannelSetValueResult:     handleChannelSetValueResult,
	wire.CallDSCChannelStateResult:       handleDeviceChannelStateResult,
	wire.CallDSDeviceCalCfgResult:        handleDeviceCalCfgResult,
	wire.CallCSRegisterClientD:           handleRegisterClient,
	wire.CallCSRegisterPNClientToken:     handleRegisterPNClientToken,
	wire.CallCSOAuthTokenRequest:         handleOAuthTokenRequest,
	wire.CallCSGetNext:                   handleGetNext,
	wire.CallCSExecuteAction:             handleExecuteAction,
	wire.CallCSSetValue:                  handleSetValue,
	wire.CallCSGetChannelConfig:          handleGetChannelConfig,
	wire.CallCSDGetChannelState:          handleGetChannelState,
	wire.CallCSSuperuserAuthorizationRequest: handleSuperuserAuthorizationRequest,
	wire.CallCSDeviceCalCfgRequestB:      handleCalCfgRequest,
}

// dispatch resolves pkt.CallID to its handler and runs it. An unknown call
// id is a protocol violation: the connection is closed.
func (c *Conn) dispatch(ctx context.Context, pkt stream.Packet) error {
	label := callIDLabel(pkt.CallID)
	if c.cfg.Stats != nil {
		c.cfg.Stats.PacketsReceived.WithLabelValues(label).Inc()
	}

	h, ok := callHandlers[pkt.CallID]
	if !ok {
		nlog.Warningf("conn %s: unknown call id %d", c.id, pkt.CallID)
		return errs.NewNetwork("unknown call id")
	}

	if c.cfg.Stats == nil {
		return h(ctx, c, pkt)
	}
	start := time.Now()
	err := h(ctx, c, pkt)
	c.cfg.Stats.HandlerLatency.WithLabelValues(label).Observe(time.Since(start).Seconds())
	return err
}

func callIDLabel(callID wire.CallID) string { return strconv.Itoa(int(callID)) }
