// Package stream frames wire.Encoder/Decoder payloads onto a TCP (or TLS)
// byte stream using the fixed SUPLA packet header: start tag, protocol
// version, packet number, call id, payload length, payload, end tag.
//
// Grounded on the transport package's PDU framing (transport/pdu.go,
// transport/sendmsg.go): a half-duplex stream type with a dedicated send
// mutex and a cancelable receive path, adapted here from chunked object
// PDUs to SUPLA's fixed-header framing.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package stream

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/wire"
)

const (
	tag           = "SUPLA"
	tagLen        = 5
	headerLen     = tagLen + 1 + 4 + 4 + 4 // tag + version + packet# + call_id + payload_len
	trailerLen    = tagLen
	maxPayloadLen = 1 << 20 // 1 MiB bound on any single packet's payload
)

// Packet is one framed protocol message: a call id plus its already
// encoded payload bytes (decoding into a concrete wire record happens one
// layer up, in conn, which knows the call_id -> record-type mapping).
type Packet struct {
	Version   uint8
	Number    uint32
	CallID    wire.CallID
	Payload   []byte
}

// Stream frames packets over an underlying net.Conn. Sends are serialized
// by sendMu so the reader loop and event loop of a connection runtime can
// both emit without interleaving bytes.
type Stream struct {
	conn   net.Conn
	r      *bufio.Reader
	sendMu sync.Mutex

	minVersion uint8
	packetNum  uint32
}

func New(conn net.Conn, minVersion uint8) *Stream {
	return &Stream{
		conn:       conn,
		r:          bufio.NewReaderSize(conn, 64*1024),
		minVersion: minVersion,
	}
}

func (s *Stream) Close() error { return s.conn.Close() }

// Send writes one framed packet. At most one sender is active on the wire
// at a time.
func (s *Stream) Send(ctx context.Context, callID wire.CallID, payload []byte) error {
	if len(payload) > maxPayloadLen {
		return errs.NewNetwork("payload too large")
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	buf := make([]byte, 0, headerLen+len(payload)+trailerLen)
	buf = append(buf, tag...)
	buf = append(buf, wire.ProtoVersion)
	s.packetNum++
	buf = appendU32(buf, s.packetNum)
	buf = appendU32(buf, uint32(callID))
	buf = appendU32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	buf = append(buf, tag...)

	if dl, ok := ctx.Deadline(); ok {
		s.conn.SetWriteDeadline(dl)
	}
	_, err := s.conn.Write(buf)
	if err != nil {
		return errs.NewNetwork("write failed: " + err.Error())
	}
	return nil
}

// Recv reads and validates the next framed packet. It is cancelable via
// ctx: a done context interrupts the underlying read by forcing a past
// deadline on the connection, so a reader blocked in Recv always unblocks
// on cancellation.
func (s *Stream) Recv(ctx context.Context) (Packet, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.conn.SetReadDeadline(pastDeadline())
		case <-done:
		}
	}()

	var hdr [headerLen]byte
	if _, err := io.ReadFull(s.r, hdr[:tagLen]); err != nil {
		return Packet{}, wrapReadErr(err)
	}
	if string(hdr[:tagLen]) != tag {
		return Packet{}, errs.NewNetwork("incorrect start tag")
	}
	if _, err := io.ReadFull(s.r, hdr[tagLen:]); err != nil {
		return Packet{}, errs.NewNetwork("failed to decode header")
	}
	version := hdr[tagLen]
	if version < s.minVersion {
		return Packet{}, errs.NewNetwork("proto version not supported")
	}
	packetNum := binary.LittleEndian.Uint32(hdr[tagLen+1:])
	callID := binary.LittleEndian.Uint32(hdr[tagLen+5:])
	payloadLen := binary.LittleEndian.Uint32(hdr[tagLen+9:])
	if payloadLen > maxPayloadLen {
		return Packet{}, errs.NewNetwork("payload too large")
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(s.r, payload); err != nil {
		return Packet{}, wrapReadErr(err)
	}

	var end [trailerLen]byte
	if _, err := io.ReadFull(s.r, end[:]); err != nil {
		return Packet{}, wrapReadErr(err)
	}
	if string(end[:]) != tag {
		return Packet{}, errs.NewNetwork("incorrect end tag")
	}

	select {
	case <-ctx.Done():
		return Packet{}, ctx.Err()
	default:
	}

	return Packet{
		Version: version,
		Number:  packetNum,
		CallID:  wire.CallID(callID),
		Payload: payload,
	}, nil
}

func wrapReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errs.NewNetwork("eof")
	}
	return errs.NewNetwork(err.Error())
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}
