/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package wire

// TDSDeviceChannelE is one entry of a device's self-reported channel list
// at registration time, checked index-by-index against the configured
// channel.
type TDSDeviceChannelE struct {
	Number      uint8
	Type        ChannelType
	DefaultFunc ChannelFunc
	Flags       uint32
	Value       [8]byte
}

func decodeTDSDeviceChannelE(d *Decoder) TDSDeviceChannelE {
	c := TDSDeviceChannelE{
		Number:      d.U8(),
		Type:        ChannelType(d.Enum16(validChannelType)),
		DefaultFunc: ChannelFunc(d.Enum16(validChannelFunc)),
		Flags:       d.U32(),
	}
	copy(c.Value[:], d.FixedBytes(8))
	return c
}

func encodeTDSDeviceChannelE(e *Encoder, c TDSDeviceChannelE) {
	e.U8(c.Number)
	e.U16(uint16(c.Type))
	e.U16(uint16(c.DefaultFunc))
	e.U32(c.Flags)
	e.FixedBytes(c.Value[:], 8)
}

const maxDeviceChannels = 64

// TDSRegisterDeviceE is DS_REGISTER_DEVICE_E's payload.
type TDSRegisterDeviceE struct {
	GUID           GUID
	Name           string
	SoftVer        string
	ServerName     string
	Flags          uint32
	ManufacturerID uint32
	ProductID      uint32
	Channels       []TDSDeviceChannelE
}

func DecodeTDSRegisterDeviceE(d *Decoder) TDSRegisterDeviceE {
	return TDSRegisterDeviceE{
		GUID:           DecodeGUID(d),
		Name:           d.FixedString(maxNameLen),
		SoftVer:        d.FixedString(maxSoftVer),
		ServerName:     d.FixedString(maxNameLen),
		Flags:          d.U32(),
		ManufacturerID: d.U32(),
		ProductID:      d.U32(),
		Channels:       Array(d, maxDeviceChannels, decodeTDSDeviceChannelE),
	}
}

func (m TDSRegisterDeviceE) Encode(e *Encoder) {
	m.GUID.Encode(e)
	e.FixedString(m.Name, maxNameLen)
	e.FixedString(m.SoftVer, maxSoftVer)
	e.FixedString(m.ServerName, maxNameLen)
	e.U32(m.Flags)
	e.U32(m.ManufacturerID)
	e.U32(m.ProductID)
	EncodeArray(e, m.Channels, encodeTDSDeviceChannelE)
}

// TSDRegisterDeviceResult is SD_REGISTER_DEVICE_RESULT's payload.
type TSDRegisterDeviceResult struct {
	ResultCode      ResultCode
	ActivityTimeout uint8
	Version         uint8
	VersionMin      uint8
}

func (m TSDRegisterDeviceResult) Encode(e *Encoder) {
	e.U8(uint8(m.ResultCode))
	e.U8(m.ActivityTimeout)
	e.U8(m.Version)
	e.U8(m.VersionMin)
}

func DecodeTSDRegisterDeviceResult(d *Decoder) TSDRegisterDeviceResult {
	return TSDRegisterDeviceResult{
		ResultCode:      ResultCode(d.Enum8(validResultCode)),
		ActivityTimeout: d.U8(),
		Version:         d.U8(),
		VersionMin:      d.U8(),
	}
}

// TDSDeviceChannelValue is DS_DEVICE_CHANNEL_VALUE_CHANGED's payload.
type TDSDeviceChannelValue struct {
	ChannelNumber uint8
	Value         [8]byte
}

func DecodeTDSDeviceChannelValue(d *Decoder) TDSDeviceChannelValue {
	v := TDSDeviceChannelValue{ChannelNumber: d.U8()}
	copy(v.Value[:], d.FixedBytes(8))
	return v
}

func (m TDSDeviceChannelValue) Encode(e *Encoder) {
	e.U8(m.ChannelNumber)
	e.FixedBytes(m.Value[:], 8)
}

// TDSDeviceChannelValueC is DS_DEVICE_CHANNEL_VALUE_CHANGED_C's payload: the
// same update with an explicit validity duration, used by devices that
// report transient (self-expiring) values.
type TDSDeviceChannelValueC struct {
	ChannelNumber uint8
	Value         [8]byte
	DurationMs    uint32
}

func DecodeTDSDeviceChannelValueC(d *Decoder) TDSDeviceChannelValueC {
	v := TDSDeviceChannelValueC{ChannelNumber: d.U8()}
	copy(v.Value[:], d.FixedBytes(8))
	v.DurationMs = d.U32()
	return v
}

func (m TDSDeviceChannelValueC) Encode(e *Encoder) {
	e.U8(m.ChannelNumber)
	e.FixedBytes(m.Value[:], 8)
	e.U32(m.DurationMs)
}

// TSDChannelNewValue is SD_CHANNEL_SET_VALUE's payload (server -> device).
type TSDChannelNewValue struct {
	SenderID      uint32
	ChannelNumber uint8
	DurationMs    uint32
	Value         [8]byte
}

func (m TSDChannelNewValue) Encode(e *Encoder) {
	e.U32(m.SenderID)
	e.U8(m.ChannelNumber)
	e.U32(m.DurationMs)
	e.FixedBytes(m.Value[:], 8)
}

func DecodeTSDChannelNewValue(d *Decoder) TSDChannelNewValue {
	v := TSDChannelNewValue{
		SenderID:      d.U32(),
		ChannelNumber: d.U8(),
		DurationMs:    d.U32(),
	}
	copy(v.Value[:], d.FixedBytes(8))
	return v
}

// TDSChannelNewValueResult is DS_CHANNEL_SET_VALUE_RESULT's payload
// (device -> server ack, one-way).
type TDSChannelNewValueResult struct {
	ChannelNumber uint8
	Success       bool
}

func DecodeTDSChannelNewValueResult(d *Decoder) TDSChannelNewValueResult {
	return TDSChannelNewValueResult{ChannelNumber: d.U8(), Success: d.Bool()}
}

func (m TDSChannelNewValueResult) Encode(e *Encoder) {
	e.U8(m.ChannelNumber)
	e.Bool(m.Success)
}

// TSDChannelStateRequest is CSD_GET_CHANNEL_STATE forwarded server -> device.
type TSDChannelStateRequest struct {
	SenderID      uint32
	ChannelNumber uint8
}

func (m TSDChannelStateRequest) Encode(e *Encoder) {
	e.U32(m.SenderID)
	e.U8(m.ChannelNumber)
}

func DecodeTSDChannelStateRequest(d *Decoder) TSDChannelStateRequest {
	return TSDChannelStateRequest{SenderID: d.U32(), ChannelNumber: d.U8()}
}

// TDSChannelState is DSC_CHANNEL_STATE_RESULT's device->server payload.
// The upstream protocol's full TDS_ChannelState_E carries many more
// optional diagnostic fields behind per-field validity flags; this
// implementation keeps a fixed, always-present subset (mac, receiver
// routing, battery, wifi link health, uptime) rather than reproducing the
// flag-gated optional-field scheme.
type TDSChannelState struct {
	ReceiverID       uint32
	ChannelNumber    uint8
	MAC              [6]byte
	BatteryLevel     uint8
	BatteryPowered   bool
	WifiRSSI         int8
	WifiSignalStr    uint8
	UptimeSec        uint32
	ConnUptimeSec    uint32
}

func DecodeTDSChannelState(d *Decoder) TDSChannelState {
	s := TDSChannelState{
		ReceiverID:    d.U32(),
		ChannelNumber: d.U8(),
	}
	copy(s.MAC[:], d.FixedBytes(6))
	s.BatteryLevel = d.U8()
	s.BatteryPowered = d.Bool()
	s.WifiRSSI = d.I8()
	s.WifiSignalStr = d.U8()
	s.UptimeSec = d.U32()
	s.ConnUptimeSec = d.U32()
	return s
}

func (m TDSChannelState) Encode(e *Encoder) {
	e.U32(m.ReceiverID)
	e.U8(m.ChannelNumber)
	e.FixedBytes(m.MAC[:], 6)
	e.U8(m.BatteryLevel)
	e.Bool(m.BatteryPowered)
	e.I8(m.WifiRSSI)
	e.U8(m.WifiSignalStr)
	e.U32(m.UptimeSec)
	e.U32(m.ConnUptimeSec)
}

// TCSChannelStateRequest is CSD_GET_CHANNEL_STATE's client->server payload.
type TCSChannelStateRequest struct {
	ChannelID uint32
}

func DecodeTCSChannelStateRequest(d *Decoder) TCSChannelStateRequest {
	return TCSChannelStateRequest{ChannelID: d.U32()}
}

func (m TCSChannelStateRequest) Encode(e *Encoder) { e.U32(m.ChannelID) }

// TSCChannelState is DSC_CHANNEL_STATE_RESULT's server->client payload:
// the device's TDSChannelState re-addressed by channel_id instead of the
// device-local channel number.
type TSCChannelState struct {
	ChannelID      uint32
	MAC            [6]byte
	BatteryLevel   uint8
	BatteryPowered bool
	WifiRSSI       int8
	WifiSignalStr  uint8
	UptimeSec      uint32
	ConnUptimeSec  uint32
}

func (m TSCChannelState) Encode(e *Encoder) {
	e.U32(m.ChannelID)
	e.FixedBytes(m.MAC[:], 6)
	e.U8(m.BatteryLevel)
	e.Bool(m.BatteryPowered)
	e.I8(m.WifiRSSI)
	e.U8(m.WifiSignalStr)
	e.U32(m.UptimeSec)
	e.U32(m.ConnUptimeSec)
}

func DecodeTSCChannelState(d *Decoder) TSCChannelState {
	s := TSCChannelState{ChannelID: d.U32()}
	copy(s.MAC[:], d.FixedBytes(6))
	s.BatteryLevel = d.U8()
	s.BatteryPowered = d.Bool()
	s.WifiRSSI = d.I8()
	s.WifiSignalStr = d.U8()
	s.UptimeSec = d.U32()
	s.ConnUptimeSec = d.U32()
	return s
}