// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// receive.go - inbound message handlers

package client

import (
	"encoding/base64"
	"sync/atomic"
	"time"

	"github.com/minchat/minchat/crypto"
)

func (s *Session) registerHandlers() {
	s.router.Handle(TypeMessage, s.onChatMessage)
	s.router.Handle(TypePing, s.onPing)
	s.router.Handle(TypePong, s.onPong)
	s.router.Handle(TypeTyping, s.onTypingNotice)
	s.router.Handle(TypeUserList, s.onUserList)
	s.router.Handle(TypeKeyExchange, s.onKeyExchange)
	s.router.Handle(TypeError, s.onServerError)
	s.router.HandleUnknown(s.onUnknownMessage)
}

// onMessage is called with every payload received on the active
// connection.  Malformed payloads are reported and discarded, they never
// terminate the connection.
func (s *Session) onMessage(raw []byte) {
	m, err := DecodeMessage(raw)
	if err != nil {
		s.log.Warningf("Discarding payload: %v", err)
		s.eventCh.In() <- &ProtocolErrorEvent{Err: err}
		return
	}
	s.router.Dispatch(m)
}

func (s *Session) onChatMessage(m *Message) {
	content := m.Content
	if cipher := s.sessionCipher(); cipher != nil {
		plaintext, err := cipher.Decrypt(m.Content)
		if err != nil {
			s.log.Warningf("Discarding message, decryption failure: %v", err)
			s.eventCh.In() <- &DecryptionFailureEvent{Err: err}
			return
		}
		content = plaintext
	}
	s.eventCh.In() <- &MessageReceivedEvent{
		Username:  m.Username,
		Content:   content,
		RoomID:    m.RoomID,
		Timestamp: m.Timestamp,
	}
}

// onPing replies to a server heartbeat.  Dispatch is serial with the read
// loop, so the pong is written before the next inbound payload is
// processed.
func (s *Session) onPing(m *Message) {
	s.log.Debugf("Received ping.")
	s.sendPong()
}

func (s *Session) onPong(m *Message) {
	s.log.Debugf("Received pong.")
	atomic.StoreInt64(&s.lastPong, time.Now().UnixNano())
}

func (s *Session) onTypingNotice(m *Message) {
	if m.IsTyping == nil {
		err := newProtocolError("typing notice without is_typing field")
		s.log.Warningf("Discarding payload: %v", err)
		s.eventCh.In() <- &ProtocolErrorEvent{Err: err}
		return
	}
	s.eventCh.In() <- &TypingNoticeEvent{
		Username: m.Username,
		IsTyping: *m.IsTyping,
	}
}

func (s *Session) onUserList(m *Message) {
	count := m.Count
	if count == 0 {
		count = len(m.Users)
	}
	s.eventCh.In() <- &UserListEvent{
		Users: m.Users,
		Count: count,
	}
}

// onKeyExchange unwraps the session key with the identity key and swaps
// in the resulting cipher.  A failed exchange leaves any previously
// established cipher in place.
func (s *Session) onKeyExchange(m *Message) {
	if m.SessionKey == "" {
		err := newProtocolError("key exchange without session key")
		s.log.Warningf("Discarding payload: %v", err)
		s.eventCh.In() <- &ProtocolErrorEvent{Err: err}
		return
	}
	envelope, err := base64.StdEncoding.DecodeString(m.SessionKey)
	if err != nil {
		s.log.Errorf("Failed to decode session key envelope: %v", err)
		s.eventCh.In() <- &KeyExchangeEvent{Err: err}
		return
	}
	keyMaterial, err := s.identity.UnwrapSessionKey(envelope)
	if err != nil {
		s.log.Errorf("Failed to unwrap session key: %v", err)
		s.eventCh.In() <- &KeyExchangeEvent{Err: err}
		return
	}
	cipher, err := crypto.NewSessionCipher(keyMaterial)
	if err != nil {
		s.log.Errorf("Failed to initialize session cipher: %v", err)
		s.eventCh.In() <- &KeyExchangeEvent{Err: err}
		return
	}
	s.setSessionCipher(cipher)
	s.log.Noticef("Session cipher established.")
	s.eventCh.In() <- &KeyExchangeEvent{}
}

func (s *Session) onServerError(m *Message) {
	s.log.Warningf("Server reported error: %v", m.Error)
	s.eventCh.In() <- &ServerErrorEvent{Message: m.Error}
}

func (s *Session) onUnknownMessage(tag string, m *Message) {
	s.log.Warningf("Received message with unknown type tag '%v'", tag)
	s.eventCh.In() <- &UnknownMessageEvent{Tag: tag}
}
