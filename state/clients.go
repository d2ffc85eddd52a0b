/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package state

import (
	"github.com/teris-io/shortid"
	"golang.org/x/crypto/bcrypt"

	"github.com/suplalite/suplalite/cmn/errs"
	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/wire"
)

// Client is a registered user-facing peer, created on first successful
// registration and kept for the process lifetime so reconnection reuses
// the same id.
type Client struct {
	ID   uint32
	GUID wire.GUID

	Authorized bool
	Connected  bool
	Events     *event.Queue
}

// RegisterClient returns the existing client id for guid, or creates one
// on first sight. Creation never fails; duplicate-active-session
// rejection is handled by ClientConnected.
func (s *State) RegisterClient(guid wire.GUID) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.knownGUID(guid) {
		if id, ok := s.clientByGUID[guid]; ok {
			return id
		}
	}
	s.nextClientID++
	id := s.nextClientID
	s.clients[id] = &Client{ID: id, GUID: guid}
	s.clientByGUID[guid] = id
	s.rememberGUID(guid)
	return id
}

// ClientConnected mirrors DeviceConnected: binds the event sink, rejects
// a second concurrent registration for the same client id.
func (s *State) ClientConnected(clientID uint32, sink *event.Queue) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return false, errUnknownClient(clientID)
	}
	if c.Connected {
		return false, nil
	}
	c.Connected = true
	c.Events = sink
	return true, nil
}

func (s *State) ClientDisconnected(clientID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return errUnknownClient(clientID)
	}
	c.Connected = false
	c.Events = nil
	c.Authorized = false
	return nil
}

func (s *State) GetClient(id uint32) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return Client{}, errUnknownClient(id)
	}
	return *c, nil
}

func (s *State) GetClientEvents(clientID uint32) *event.Queue {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil
	}
	return c.Events
}

// CheckSuperUserPassword verifies a plaintext password against the
// configured superuser bcrypt hash, marking the client authorized on
// success.
func (s *State) CheckSuperUserPassword(clientID uint32, password string, hash []byte) bool {
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[clientID]; ok {
		c.Authorized = true
	}
	return true
}

// IssueOAuthToken builds a random opaque token: an 86-character random
// key, a literal '.', and the base64-encoded API URL, matching the
// external wire shape; the server never validates or expires it beyond
// the activity of the owning connection — no real OAuth flow backs it.
func IssueOAuthToken(apiURLBase64 string) (string, error) {
	key, err := shortid.Generate()
	if err != nil {
		return "", errs.NewMalformed("oauth token generation failed: %v", err)
	}
	// shortid yields a short id; pad deterministically to the documented
	// 86-character key length by repeating until long enough, matching
	// the external contract without depending on a specific shortid
	// length (which is not configurable beyond its charset).
	for len(key) < 86 {
		more, err := shortid.Generate()
		if err != nil {
			return "", errs.NewMalformed("oauth token generation failed: %v", err)
		}
		key += more
	}
	key = key[:86]
	return key + "." + apiURLBase64, nil
}