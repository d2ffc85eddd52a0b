/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package wire

// GUID is the opaque 16-byte device/client identifier, set at
// configuration time.
type GUID [16]byte

func DecodeGUID(d *Decoder) GUID {
	var g GUID
	copy(g[:], d.FixedBytes(16))
	return g
}

func (g GUID) Encode(e *Encoder) { e.FixedBytes(g[:], 16) }

// TimeVal mirrors a POSIX timeval: whole seconds plus microsecond remainder.
type TimeVal struct {
	Sec  uint32
	USec uint32
}

func DecodeTimeVal(d *Decoder) TimeVal {
	return TimeVal{Sec: d.U32(), USec: d.U32()}
}

func (v TimeVal) Encode(e *Encoder) {
	e.U32(v.Sec)
	e.U32(v.USec)
}

// ChannelValueB is the nested value shape carried by client-facing channel
// value records: the primary 8-byte opaque value, an 8-byte sub-value
// (unused by any channel type implemented here, always zero), and its type
// tag.
type ChannelValueB struct {
	Value        [8]byte
	SubValue     [8]byte
	SubValueType uint8
}

func DecodeChannelValueB(d *Decoder) ChannelValueB {
	var v ChannelValueB
	copy(v.Value[:], d.FixedBytes(8))
	copy(v.SubValue[:], d.FixedBytes(8))
	v.SubValueType = d.U8()
	return v
}

func (v ChannelValueB) Encode(e *Encoder) {
	e.FixedBytes(v.Value[:], 8)
	e.FixedBytes(v.SubValue[:], 8)
	e.U8(v.SubValueType)
}

func NewChannelValueB(value [8]byte) ChannelValueB {
	return ChannelValueB{Value: value}
}

//
// DCS_PING_SERVER <-> SDC_PING_SERVER_RESULT
//

type TDCSPingServer struct {
	Now TimeVal
}

func DecodeTDCSPingServer(d *Decoder) TDCSPingServer {
	return TDCSPingServer{Now: DecodeTimeVal(d)}
}

type TSDCPingServerResult struct {
	Now TimeVal
}

func (m TSDCPingServerResult) Encode(e *Encoder) { m.Now.Encode(e) }

//
// DCS_GET_REGISTRATION_ENABLED -> SDC_GET_REGISTRATION_ENABLED_RESULT
//

type TSDCRegistrationEnabled struct {
	ServerEnabled uint8
	ClientEnabled uint8
}

func (m TSDCRegistrationEnabled) Encode(e *Encoder) {
	e.U8(m.ServerEnabled)
	e.U8(m.ClientEnabled)
}

//
// DCS_SET_ACTIVITY_TIMEOUT -> SDC_SET_ACTIVITY_TIMEOUT_RESULT
//

type TDCSSetActivityTimeout struct {
	ActivityTimeout uint8
}

func DecodeTDCSSetActivityTimeout(d *Decoder) TDCSSetActivityTimeout {
	return TDCSSetActivityTimeout{ActivityTimeout: d.U8()}
}

type TSDCSetActivityTimeoutResult struct {
	ActivityTimeout uint8
	Min             uint8
	Max             uint8
}

func (m TSDCSetActivityTimeoutResult) Encode(e *Encoder) {
	e.U8(m.ActivityTimeout)
	e.U8(m.Min)
	e.U8(m.Max)
}

//
// CS_REGISTER_PN_CLIENT_TOKEN_RESULT
//

// TSCRegisterPNClientTokenResult answers CS_REGISTER_PN_CLIENT_TOKEN; this
// server has no push-notification transport, so it is always ResultFalse.
type TSCRegisterPNClientTokenResult struct {
	ResultCode ResultCode
}

func (m TSCRegisterPNClientTokenResult) Encode(e *Encoder) { e.U8(uint8(m.ResultCode)) }