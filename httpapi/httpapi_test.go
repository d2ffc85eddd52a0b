/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package httpapi

import (
	"encoding/base64"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/wire"
)

func newTestState(t *testing.T) (*state.State, uint32, uint32) {
	t.Helper()
	st := state.New()
	devID := st.AddDevice("dev", wire.GUID{4}, 1, 1)
	iconA := [][]byte{[]byte("icon-a-bytes")}
	iconB := [][]byte{[]byte("icon-b-bytes")}
	id1, err := st.AddChannel(devID, "c1", "C1", wire.ChannelTypeRelay, wire.ChannelFuncPowerSwitch, 0, 0, iconA, nil)
	if err != nil {
		t.Fatalf("AddChannel: %v", err)
	}
	id2, err := st.AddChannel(devID, "c2", "C2", wire.ChannelTypeThermometer, wire.ChannelFuncThermometer, 0, 0, iconB, nil)
	if err != nil {
		t.Fatalf("AddChannel: %v", err)
	}
	ch1, _ := st.GetChannel(id1)
	ch2, _ := st.GetChannel(id2)
	return st, ch1.UserIcon, ch2.UserIcon
}

func TestUserIconsWithImages(t *testing.T) {
	st, id1, id2 := newTestState(t)
	h := Handler(st)

	req := httptest.NewRequest("GET", "/api/2.2.0/user-icons?ids="+itoa(id1)+","+itoa(id2)+"&include=images", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	wantA := base64.StdEncoding.EncodeToString([]byte("icon-a-bytes"))
	if !strings.Contains(body, wantA) {
		t.Fatalf("body %q missing expected base64 icon bytes %q", body, wantA)
	}
	if !strings.Contains(body, `"imagesDark"`) {
		t.Fatalf("body %q missing imagesDark key", body)
	}
}

func TestUserIconsWithoutImages(t *testing.T) {
	st, id1, _ := newTestState(t)
	h := Handler(st)

	req := httptest.NewRequest("GET", "/api/2.2.0/user-icons?ids="+itoa(id1), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if strings.Contains(rr.Body.String(), `"images"`) {
		t.Fatalf("body %q should omit images without include=images", rr.Body.String())
	}
}

func TestUserIconsMissingIDsReturnsAll(t *testing.T) {
	st, id1, id2 := newTestState(t)
	h := Handler(st)

	req := httptest.NewRequest("GET", "/api/2.2.0/user-icons", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, itoa(id1)) || !strings.Contains(body, itoa(id2)) {
		t.Fatalf("body %q should contain both configured icon ids", body)
	}
	if strings.Contains(body, `"images"`) {
		t.Fatalf("body %q should never include images when ids is omitted", body)
	}
}

func TestUnknownPathIsJSON404(t *testing.T) {
	st, _, _ := newTestState(t)
	h := Handler(st)

	req := httptest.NewRequest("GET", "/api/2.2.0/something-else", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != 404 {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if rr.Body.String() != `{"message":"Not found"}`+"\n" {
		t.Fatalf("body = %q, want JSON not-found message", rr.Body.String())
	}
}

func TestMalformedIDsAreSkipped(t *testing.T) {
	st, id1, _ := newTestState(t)
	h := Handler(st)

	req := httptest.NewRequest("GET", "/api/2.2.0/user-icons?ids=notanumber,"+itoa(id1), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), itoa(id1)) {
		t.Fatalf("body %q should still contain the valid id", rr.Body.String())
	}
}

func itoa(v uint32) string { return strconv.FormatUint(uint64(v), 10) }