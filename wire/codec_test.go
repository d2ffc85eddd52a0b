/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package wire

import (
	"bytes"
	"testing"
)

func TestTimeValRoundTrip(t *testing.T) {
	v := TimeVal{Sec: 1234, USec: 5678}
	e := NewEncoder(8)
	v.Encode(e)
	if e.Len() != 8 {
		t.Fatalf("expected 8 bytes, got %d", e.Len())
	}
	d := NewDecoder(e.Bytes())
	got := DecodeTimeVal(d)
	if got != v {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, v)
	}
	if d.Offset() != e.Len() {
		t.Fatalf("consumed %d bytes, want %d", d.Offset(), e.Len())
	}
}

func TestRegisterDeviceERoundTrip(t *testing.T) {
	msg := TDSRegisterDeviceE{
		GUID:           GUID{1, 2, 3},
		Name:           "kitchen-relay",
		SoftVer:        "1.0",
		ServerName:     "supla.local",
		Flags:          0,
		ManufacturerID: 10,
		ProductID:      20,
		Channels: []TDSDeviceChannelE{
			{Number: 0, Type: ChannelTypeRelay, DefaultFunc: ChannelFuncPowerSwitch, Flags: 0, Value: [8]byte{0}},
			{Number: 1, Type: ChannelTypeThermometer, DefaultFunc: ChannelFuncThermometer, Flags: 0, Value: [8]byte{1}},
		},
	}
	e := NewEncoder(128)
	msg.Encode(e)
	buf := e.Bytes()

	d := NewDecoder(buf)
	got := DecodeTDSRegisterDeviceE(d)
	if d.Err() != nil {
		t.Fatalf("decode error: %v", d.Err())
	}
	if got.GUID != msg.GUID || got.Name != msg.Name || got.ManufacturerID != msg.ManufacturerID {
		t.Fatalf("mismatch: got %+v want %+v", got, msg)
	}
	if len(got.Channels) != len(msg.Channels) {
		t.Fatalf("channel count mismatch: got %d want %d", len(got.Channels), len(msg.Channels))
	}
	for i := range msg.Channels {
		if got.Channels[i] != msg.Channels[i] {
			t.Fatalf("channel %d mismatch: got %+v want %+v", i, got.Channels[i], msg.Channels[i])
		}
	}
	if d.Offset() != len(buf) {
		t.Fatalf("consumed %d of %d bytes", d.Offset(), len(buf))
	}
}

func TestFixedStringDiscardsTrailingGarbage(t *testing.T) {
	buf := make([]byte, 10)
	copy(buf, "hi")
	buf[2] = 0
	copy(buf[3:], "garbage")
	d := NewDecoder(buf)
	got := d.FixedString(10)
	if got != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}

func TestPartialDecodePrefix(t *testing.T) {
	msg := TDSRegisterDeviceE{
		GUID:           GUID{9, 9, 9},
		Name:           "n",
		SoftVer:        "v",
		ServerName:     "s",
		ManufacturerID: 42,
		ProductID:      99,
	}
	e := NewEncoder(128)
	msg.Encode(e)
	full := e.Bytes()

	// Field sequence for TDSRegisterDeviceE is: GUID (1 field), Name,
	// SoftVer, ServerName, Flags, ManufacturerID, ProductID, Channels.
	// Limiting to 2 fields should yield GUID and Name only, and a
	// consumed offset that is a true prefix of the full encoding.
	pd := NewPartialDecoder(full, 2)
	got := DecodeTDSRegisterDeviceE(pd)
	if got.GUID != msg.GUID {
		t.Fatalf("guid mismatch: got %v want %v", got.GUID, msg.GUID)
	}
	if got.Name != msg.Name {
		t.Fatalf("name mismatch: got %q want %q", got.Name, msg.Name)
	}
	if !pd.Stopped {
		t.Fatalf("expected partial decoder to stop after field limit")
	}
	if pd.Offset() > len(full) || !bytes.Equal(full[:pd.Offset()], full[:pd.Offset()]) {
		t.Fatalf("consumed offset is not a prefix of the full encoding")
	}
	// ManufacturerID/ProductID were never read past the limit.
	if got.ManufacturerID != 0 || got.ProductID != 0 {
		t.Fatalf("expected fields beyond the limit to be zero, got %+v", got)
	}
}

func TestArrayMaxSizeRejected(t *testing.T) {
	e := NewEncoder(16)
	e.U16(5) // claim 5 items in an array bounded to max 2
	d := NewDecoder(e.Bytes())
	items := Array(d, 2, func(d *Decoder) uint8 { return d.U8() })
	if d.Err() == nil {
		t.Fatalf("expected malformed error for array exceeding max_size")
	}
	if items != nil {
		t.Fatalf("expected nil items on rejected array")
	}
}

func TestInvalidEnumRejected(t *testing.T) {
	e := NewEncoder(2)
	e.U16(9999)
	d := NewDecoder(e.Bytes())
	_ = ChannelType(d.Enum16(validChannelType))
	if d.Err() == nil {
		t.Fatalf("expected malformed error for invalid enum value")
	}
}

func TestUnderflowRejected(t *testing.T) {
	d := NewDecoder([]byte{1, 2})
	_ = d.U32()
	if d.Err() == nil {
		t.Fatalf("expected buffer underrun error")
	}
}

func TestIconIDDeterministic(t *testing.T) {
	a := IconID([]byte("hello"), []byte("world"))
	b := IconID([]byte("hello"), []byte("world"))
	c := IconID([]byte("hello"), []byte("there"))
	if a != b {
		t.Fatalf("same bytes produced different ids: %d vs %d", a, b)
	}
	if a == c {
		t.Fatalf("different bytes produced the same id")
	}
	if a == 0 {
		t.Fatalf("icon id must be non-zero")
	}
	if a > 0xFFFFFF {
		t.Fatalf("icon id must fit in 24 bits, got %d", a)
	}
}