/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package wire

// TCSRegisterClientD is CS_REGISTER_CLIENT_D's payload.
type TCSRegisterClientD struct {
	GUID       GUID
	Name       string
	SoftVer    string
	ServerName string
	Flags      uint32
}

func DecodeTCSRegisterClientD(d *Decoder) TCSRegisterClientD {
	return TCSRegisterClientD{
		GUID:       DecodeGUID(d),
		Name:       d.FixedString(maxNameLen),
		SoftVer:    d.FixedString(maxSoftVer),
		ServerName: d.FixedString(maxNameLen),
		Flags:      d.U32(),
	}
}

func (m TCSRegisterClientD) Encode(e *Encoder) {
	m.GUID.Encode(e)
	e.FixedString(m.Name, maxNameLen)
	e.FixedString(m.SoftVer, maxSoftVer)
	e.FixedString(m.ServerName, maxNameLen)
	e.U32(m.Flags)
}

// TSCRegisterClientResultD is SC_REGISTER_CLIENT_RESULT_D's payload.
type TSCRegisterClientResultD struct {
	ResultCode        ResultCode
	ClientID          uint32
	LocationCount     uint32
	ChannelCount      uint32
	ChannelGroupCount uint32
	SceneCount        uint32
	ActivityTimeout   uint8
	Version           uint8
	VersionMin        uint8
	ServerUnixTime    uint32
}

func (m TSCRegisterClientResultD) Encode(e *Encoder) {
	e.U8(uint8(m.ResultCode))
	e.U32(m.ClientID)
	e.U32(m.LocationCount)
	e.U32(m.ChannelCount)
	e.U32(m.ChannelGroupCount)
	e.U32(m.SceneCount)
	e.U8(m.ActivityTimeout)
	e.U8(m.Version)
	e.U8(m.VersionMin)
	e.U32(m.ServerUnixTime)
}

func DecodeTSCRegisterClientResultD(d *Decoder) TSCRegisterClientResultD {
	return TSCRegisterClientResultD{
		ResultCode:        ResultCode(d.Enum8(validResultCode)),
		ClientID:          d.U32(),
		LocationCount:     d.U32(),
		ChannelCount:      d.U32(),
		ChannelGroupCount: d.U32(),
		SceneCount:        d.U32(),
		ActivityTimeout:   d.U8(),
		Version:           d.U8(),
		VersionMin:        d.U8(),
		ServerUnixTime:    d.U32(),
	}
}

// TSCOAuthToken is the nested token carried by
// SC_OAUTH_TOKEN_REQUEST_RESULT: a random 86-char key, a literal '.', and
// the base64-encoded API URL, null-terminated — see
// state.IssueOAuthToken for the exact construction.
type TSCOAuthToken struct {
	ExpiresIn uint32
	Token     []byte
}

func (m TSCOAuthToken) Encode(e *Encoder) {
	e.U32(m.ExpiresIn)
	e.LenBytes(m.Token)
}

func DecodeTSCOAuthToken(d *Decoder) TSCOAuthToken {
	return TSCOAuthToken{ExpiresIn: d.U32(), Token: d.LenBytes(maxDataLen)}
}

// TSCOAuthTokenRequestResult is CS_OAUTH_TOKEN_REQUEST's reply.
type TSCOAuthTokenRequestResult struct {
	Result OAuthResultCode
	Token  TSCOAuthToken
}

func (m TSCOAuthTokenRequestResult) Encode(e *Encoder) {
	e.U8(uint8(m.Result))
	m.Token.Encode(e)
}

// TCSAction is CS_EXECUTE_ACTION's payload.
type TCSAction struct {
	ActionID    ActionType
	SubjectID   uint32
	SubjectType ActionSubjectType
	Param       []byte
}

func DecodeTCSAction(d *Decoder) TCSAction {
	return TCSAction{
		ActionID:    ActionType(d.U32()),
		SubjectID:   d.U32(),
		SubjectType: ActionSubjectType(d.Enum8(validSubjectType)),
		Param:       d.LenBytes(maxDataLen),
	}
}

func (m TCSAction) Encode(e *Encoder) {
	e.U32(uint32(m.ActionID))
	e.U32(m.SubjectID)
	e.U8(uint8(m.SubjectType))
	e.LenBytes(m.Param)
}

// TSCActionExecutionResult is SC_ACTION_EXECUTION_RESULT's payload.
type TSCActionExecutionResult struct {
	ResultCode  ResultCode
	ActionID    ActionType
	SubjectID   uint32
	SubjectType ActionSubjectType
}

func (m TSCActionExecutionResult) Encode(e *Encoder) {
	e.U8(uint8(m.ResultCode))
	e.U32(uint32(m.ActionID))
	e.U32(m.SubjectID)
	e.U8(uint8(m.SubjectType))
}

func DecodeTSCActionExecutionResult(d *Decoder) TSCActionExecutionResult {
	return TSCActionExecutionResult{
		ResultCode:  ResultCode(d.Enum8(validResultCode)),
		ActionID:    ActionType(d.U32()),
		SubjectID:   d.U32(),
		SubjectType: ActionSubjectType(d.Enum8(validSubjectType)),
	}
}

// TCSNewValue is CS_SET_VALUE's payload (one-way).
type TCSNewValue struct {
	Target  Target
	ValueID uint32
	Value   [8]byte
}

func DecodeTCSNewValue(d *Decoder) TCSNewValue {
	v := TCSNewValue{Target: Target(d.U8()), ValueID: d.U32()}
	copy(v.Value[:], d.FixedBytes(8))
	return v
}

func (m TCSNewValue) Encode(e *Encoder) {
	e.U8(uint8(m.Target))
	e.U32(m.ValueID)
	e.FixedBytes(m.Value[:], 8)
}

//
// Location / channel / scene packs (server -> client, event-driven)
//

type TSCLocation struct {
	EOL     bool
	ID      uint32
	Caption string
}

func (m TSCLocation) Encode(e *Encoder) {
	e.Bool(m.EOL)
	e.U32(m.ID)
	e.LenString(m.Caption)
}

type TSCLocationPack struct {
	TotalLeft uint32
	Items     []TSCLocation
}

func (m TSCLocationPack) Encode(e *Encoder) {
	e.U32(m.TotalLeft)
	EncodeArray(e, m.Items, func(e *Encoder, it TSCLocation) { it.Encode(e) })
}

// TSCChannelD is the pre-64-bit-flags channel shape, sent to clients whose
// negotiated protocol version predates the wider flags field. Both this
// and TSCChannelE coexist; which one a connection uses is chosen from the
// client's negotiated protocol version at registration time.
type TSCChannelD struct {
	EOL             bool
	ID              uint32
	DeviceID        uint32
	LocationID      uint32
	Type            ChannelType
	Func            ChannelFunc
	AltIcon         uint8
	UserIcon        uint32
	ManufacturerID  uint32
	ProductID       uint32
	Flags           uint32
	ProtocolVersion uint8
	Online          bool
	Value           ChannelValueB
	Caption         string
}

func (m TSCChannelD) Encode(e *Encoder) {
	e.Bool(m.EOL)
	e.U32(m.ID)
	e.U32(m.DeviceID)
	e.U32(m.LocationID)
	e.U16(uint16(m.Type))
	e.U16(uint16(m.Func))
	e.U8(m.AltIcon)
	e.U32(m.UserIcon)
	e.U32(m.ManufacturerID)
	e.U32(m.ProductID)
	e.U32(m.Flags)
	e.U8(m.ProtocolVersion)
	e.Bool(m.Online)
	m.Value.Encode(e)
	e.LenString(m.Caption)
}

type TSCChannelPackD struct {
	TotalLeft uint32
	Items     []TSCChannelD
}

func (m TSCChannelPackD) Encode(e *Encoder) {
	e.U32(m.TotalLeft)
	EncodeArray(e, m.Items, func(e *Encoder, it TSCChannelD) { it.Encode(e) })
}

// TSCChannelE is the wide-flags shape, sent to newer clients.
type TSCChannelE struct {
	EOL             bool
	ID              uint32
	DeviceID        uint32
	LocationID      uint32
	Type            ChannelType
	Func            ChannelFunc
	AltIcon         uint8
	UserIcon        uint32
	ManufacturerID  uint32
	ProductID       uint32
	Flags           uint64
	ProtocolVersion uint8
	Online          bool
	Value           ChannelValueB
	Caption         string
}

func (m TSCChannelE) Encode(e *Encoder) {
	e.Bool(m.EOL)
	e.U32(m.ID)
	e.U32(m.DeviceID)
	e.U32(m.LocationID)
	e.U16(uint16(m.Type))
	e.U16(uint16(m.Func))
	e.U8(m.AltIcon)
	e.U32(m.UserIcon)
	e.U32(m.ManufacturerID)
	e.U32(m.ProductID)
	e.U64(m.Flags)
	e.U8(m.ProtocolVersion)
	e.Bool(m.Online)
	m.Value.Encode(e)
	e.LenString(m.Caption)
}

type TSCChannelPackE struct {
	TotalLeft uint32
	Items     []TSCChannelE
}

func (m TSCChannelPackE) Encode(e *Encoder) {
	e.U32(m.TotalLeft)
	EncodeArray(e, m.Items, func(e *Encoder, it TSCChannelE) { it.Encode(e) })
}

type TSCScene struct {
	EOL      bool
	ID       uint32
	Caption  string
	AltIcon  uint8
	UserIcon uint32
}

func (m TSCScene) Encode(e *Encoder) {
	e.Bool(m.EOL)
	e.U32(m.ID)
	e.LenString(m.Caption)
	e.U8(m.AltIcon)
	e.U32(m.UserIcon)
}

type TSCScenePack struct {
	TotalLeft uint32
	Items     []TSCScene
}

func (m TSCScenePack) Encode(e *Encoder) {
	e.U32(m.TotalLeft)
	EncodeArray(e, m.Items, func(e *Encoder, it TSCScene) { it.Encode(e) })
}

type TSCChannelValueB struct {
	EOL    bool
	ID     uint32
	Online bool
	Value  ChannelValueB
}

func (m TSCChannelValueB) Encode(e *Encoder) {
	e.Bool(m.EOL)
	e.U32(m.ID)
	e.Bool(m.Online)
	m.Value.Encode(e)
}

type TSCChannelValuePackB struct {
	TotalLeft uint32
	Items     []TSCChannelValueB
}

func (m TSCChannelValuePackB) Encode(e *Encoder) {
	e.U32(m.TotalLeft)
	EncodeArray(e, m.Items, func(e *Encoder, it TSCChannelValueB) { it.Encode(e) })
}

//
// Channel config
//

type TCSGetChannelConfigRequest struct {
	ChannelID uint32
}

func DecodeTCSGetChannelConfigRequest(d *Decoder) TCSGetChannelConfigRequest {
	return TCSGetChannelConfigRequest{ChannelID: d.U32()}
}

func (m TCSGetChannelConfigRequest) Encode(e *Encoder) { e.U32(m.ChannelID) }

type TSCSChannelConfig struct {
	ChannelID  uint32
	Func       ChannelFunc
	ConfigType ConfigType
	Config     []byte
}

func (m TSCSChannelConfig) Encode(e *Encoder) {
	e.U32(m.ChannelID)
	e.U16(uint16(m.Func))
	e.U8(uint8(m.ConfigType))
	e.LenBytes(m.Config)
}

type TSCChannelConfigUpdateOrResult struct {
	Result ConfigResult
	Config TSCSChannelConfig
}

func (m TSCChannelConfigUpdateOrResult) Encode(e *Encoder) {
	e.U8(uint8(m.Result))
	m.Config.Encode(e)
}

// TChannelConfigGeneralPurposeMeasurement is the typed config payload for
// GENERAL_PURPOSE_MEASUREMENT channels; default_* mirrors the primary
// fields, matching original_source's handlers.py (no distinct "default"
// configuration is tracked separately in this server).
type TChannelConfigGeneralPurposeMeasurement struct {
	ValueDivider       int32
	ValueMultiplier    int32
	ValueAdded         int32
	ValuePrecision     uint8
	UnitBeforeValue    string
	UnitAfterValue     string
	NoSpaceBeforeValue bool
	NoSpaceAfterValue  bool
	KeepHistory        bool
	ChartType          GPMChartType
	RefreshIntervalMs  uint32
}

func (m TChannelConfigGeneralPurposeMeasurement) Encode(e *Encoder) {
	e.I32(m.ValueDivider)
	e.I32(m.ValueMultiplier)
	e.I32(m.ValueAdded)
	e.U8(m.ValuePrecision)
	e.FixedString(m.UnitBeforeValue, maxUnitLen)
	e.FixedString(m.UnitAfterValue, maxUnitLen)
	e.Bool(m.NoSpaceBeforeValue)
	e.Bool(m.NoSpaceAfterValue)
	e.Bool(m.KeepHistory)
	e.U8(uint8(m.ChartType))
	e.U32(m.RefreshIntervalMs)
	// default_* mirrors the primary fields on the wire.
	e.I32(m.ValueDivider)
	e.I32(m.ValueMultiplier)
	e.I32(m.ValueAdded)
	e.U8(m.ValuePrecision)
	e.FixedString(m.UnitBeforeValue, maxUnitLen)
	e.FixedString(m.UnitAfterValue, maxUnitLen)
}

func DecodeTChannelConfigGeneralPurposeMeasurement(d *Decoder) TChannelConfigGeneralPurposeMeasurement {
	m := TChannelConfigGeneralPurposeMeasurement{
		ValueDivider:       d.I32(),
		ValueMultiplier:    d.I32(),
		ValueAdded:         d.I32(),
		ValuePrecision:     d.U8(),
		UnitBeforeValue:    d.FixedString(maxUnitLen),
		UnitAfterValue:     d.FixedString(maxUnitLen),
		NoSpaceBeforeValue: d.Bool(),
		NoSpaceAfterValue:  d.Bool(),
		KeepHistory:        d.Bool(),
		ChartType:          GPMChartType(d.U8()),
		RefreshIntervalMs:  d.U32(),
	}
	_ = d.I32()
	_ = d.I32()
	_ = d.I32()
	_ = d.U8()
	_ = d.FixedString(maxUnitLen)
	_ = d.FixedString(maxUnitLen)
	return m
}

//
// Superuser authorization
//

type TCSSuperUserAuthorizationRequest struct {
	Email    string
	Password string
}

func DecodeTCSSuperUserAuthorizationRequest(d *Decoder) TCSSuperUserAuthorizationRequest {
	return TCSSuperUserAuthorizationRequest{
		Email:    d.LenString(maxEmailLen),
		Password: d.LenString(maxPasswdLen),
	}
}

func (m TCSSuperUserAuthorizationRequest) Encode(e *Encoder) {
	e.LenString(m.Email)
	e.LenString(m.Password)
}

type TSCSuperUserAuthorizationResult struct {
	Result ResultCode
}

func (m TSCSuperUserAuthorizationResult) Encode(e *Encoder) { e.U8(uint8(m.Result)) }

func DecodeTSCSuperUserAuthorizationResult(d *Decoder) TSCSuperUserAuthorizationResult {
	return TSCSuperUserAuthorizationResult{Result: ResultCode(d.Enum8(validResultCode))}
}

//
// CALCFG (device configuration round-trip)
//

type TCSDeviceCalCfgRequestB struct {
	ChannelID uint32
	Command   uint32
	Datatype  uint8
	Data      []byte
}

func DecodeTCSDeviceCalCfgRequestB(d *Decoder) TCSDeviceCalCfgRequestB {
	return TCSDeviceCalCfgRequestB{
		ChannelID: d.U32(),
		Command:   d.U32(),
		Datatype:  d.U8(),
		Data:      d.LenBytes(maxDataLen),
	}
}

func (m TCSDeviceCalCfgRequestB) Encode(e *Encoder) {
	e.U32(m.ChannelID)
	e.U32(m.Command)
	e.U8(m.Datatype)
	e.LenBytes(m.Data)
}

type TSDDeviceCalCfgRequest struct {
	SenderID            uint32
	ChannelNumber       uint8
	Command             uint32
	SuperUserAuthorized bool
	Datatype            uint8
	Data                []byte
}

func (m TSDDeviceCalCfgRequest) Encode(e *Encoder) {
	e.U32(m.SenderID)
	e.U8(m.ChannelNumber)
	e.U32(m.Command)
	e.Bool(m.SuperUserAuthorized)
	e.U8(m.Datatype)
	e.LenBytes(m.Data)
}

func DecodeTSDDeviceCalCfgRequest(d *Decoder) TSDDeviceCalCfgRequest {
	return TSDDeviceCalCfgRequest{
		SenderID:            d.U32(),
		ChannelNumber:       d.U8(),
		Command:             d.U32(),
		SuperUserAuthorized: d.Bool(),
		Datatype:            d.U8(),
		Data:                d.LenBytes(maxDataLen),
	}
}

type TDSDeviceCalCfgResult struct {
	ReceiverID    uint32
	ChannelNumber uint8
	Command       uint32
	Result        ResultCode
	Data          []byte
}

func DecodeTDSDeviceCalCfgResult(d *Decoder) TDSDeviceCalCfgResult {
	return TDSDeviceCalCfgResult{
		ReceiverID:    d.U32(),
		ChannelNumber: d.U8(),
		Command:       d.U32(),
		Result:        ResultCode(d.Enum8(validResultCode)),
		Data:          d.LenBytes(maxDataLen),
	}
}

func (m TDSDeviceCalCfgResult) Encode(e *Encoder) {
	e.U32(m.ReceiverID)
	e.U8(m.ChannelNumber)
	e.U32(m.Command)
	e.U8(uint8(m.Result))
	e.LenBytes(m.Data)
}

type TSCDeviceCalCfgResult struct {
	ChannelID uint32
	Command   uint32
	Result    ResultCode
	Data      []byte
}

func (m TSCDeviceCalCfgResult) Encode(e *Encoder) {
	e.U32(m.ChannelID)
	e.U32(m.Command)
	e.U8(uint8(m.Result))
	e.LenBytes(m.Data)
}