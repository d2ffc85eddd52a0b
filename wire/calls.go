/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package wire

// CallID identifies a packet payload's record type on the wire. Call ids
// are this server's own assignment: an internally coherent numbering
// rather than an attempt to match any particular upstream SUPLA build.
type CallID uint32

const (
	// Common (device or client <-> server)
	CallDCSPingServer CallID = 1000 + iota
	CallSDCPingServerResult
	CallDCSGetRegistrationEnabled
	CallSDCGetRegistrationEnabledResult
	CallDCSSetActivityTimeout
	CallSDCSetActivityTimeoutResult
)

const (
	// Device <-> server
	CallDSRegisterDeviceE CallID = 2000 + iota
	CallSDRegisterDeviceResult
	CallDSDeviceChannelValueChanged
	CallDSDeviceChannelValueChangedC
	CallSDChannelSetValue
	CallDSChannelSetValueResult
	CallCSDGetChannelState // also used client -> server, forwarded through the server to the owning device
	CallDSCChannelStateResult
	CallSDDeviceCalCfgRequest
	CallDSDeviceCalCfgResult
)

const (
	// Client <-> server
	CallCSRegisterClientD CallID = 3000 + iota
	CallSCRegisterClientResultD
	CallCSRegisterPNClientToken
	CallSCRegisterPNClientTokenResult
	CallCSOAuthTokenRequest
	CallSCOAuthTokenRequestResult
	CallCSGetNext
	CallCSExecuteAction
	CallSCActionExecutionResult
	CallCSSetValue
	CallCSGetChannelConfig
	CallSCChannelConfigUpdateOrResult
	CallSCLocationPackUpdate
	CallSCChannelPackUpdateD
	CallSCChannelPackUpdateE
	CallSCScenePackUpdate
	CallSCChannelValuePackUpdateB
	CallCSSuperuserAuthorizationRequest
	CallSCSuperuserAuthorizationResult
	CallCSDeviceCalCfgRequestB
	CallSCDeviceCalCfgResult
)