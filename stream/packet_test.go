/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package stream

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/suplalite/suplalite/wire"
)

func TestSendRecvRoundTrip(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	sSend := New(c1, wire.ProtoVersionMin)
	sRecv := New(c2, wire.ProtoVersionMin)

	payload := []byte("hello world")
	done := make(chan error, 1)
	go func() {
		done <- sSend.Send(context.Background(), wire.CallDCSPingServer, payload)
	}()

	pkt, err := sRecv.Recv(context.Background())
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("send: %v", err)
	}
	if pkt.CallID != wire.CallDCSPingServer {
		t.Fatalf("call id mismatch: got %v", pkt.CallID)
	}
	if string(pkt.Payload) != string(payload) {
		t.Fatalf("payload mismatch: got %q", pkt.Payload)
	}
}

func TestRecvBadStartTag(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	go c1.Write([]byte("XXXXX"))
	s := New(c2, wire.ProtoVersionMin)
	_, err := s.Recv(context.Background())
	if err == nil {
		t.Fatalf("expected error for bad start tag")
	}
}

func TestRecvUnsupportedVersion(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	go func() {
		buf := append([]byte(tag), 0) // version 0, below any reasonable minimum
		buf = appendU32(buf, 1)
		buf = appendU32(buf, uint32(wire.CallDCSPingServer))
		buf = appendU32(buf, 0)
		buf = append(buf, tag...)
		c1.Write(buf)
	}()
	s := New(c2, wire.ProtoVersionMin+1)
	_, err := s.Recv(context.Background())
	if err == nil {
		t.Fatalf("expected proto version error")
	}
}

func TestRecvCancel(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	s := New(c2, wire.ProtoVersionMin)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Recv(ctx)
	if err == nil {
		t.Fatalf("expected recv to unblock on cancellation")
	}
}