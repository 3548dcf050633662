// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// send.go - chat client send path

package client

import (
	"errors"
	"time"
)

// SendMessage delivers a chat message to the given room, an empty roomID
// selects DefaultRoom.  When no connection is available, or when the
// write fails, the message is queued and redelivered on the next
// established connection.  ErrQueueFull is returned when the queue cannot
// absorb the message, ErrSessionClosed after Disconnect.
func (s *Session) SendMessage(content, roomID string) error {
	if roomID == "" {
		roomID = DefaultRoom
	}

	// Submitting a message ends the current typing burst.
	s.TypingStopped()

	if s.State() == StateClosed {
		return ErrSessionClosed
	}

	conn := s.transport()
	if conn == nil {
		return s.enqueueMessage(content, roomID)
	}
	if err := s.writeMessage(conn, content, roomID); err != nil {
		s.log.Warningf("Failed to send message: %v, spooling for redelivery", err)
		return s.enqueueMessage(content, roomID)
	}
	s.eventCh.In() <- &MessageSentEvent{
		Content: content,
		RoomID:  roomID,
	}
	return nil
}

// SendTypingIndicator delivers a typing indicator for the account.
// Typing indicators are ephemeral, they are never queued, sending while
// disconnected returns ErrNotConnected.
func (s *Session) SendTypingIndicator(isTyping bool) error {
	conn := s.transport()
	if conn == nil {
		return ErrNotConnected
	}
	m := &Message{
		Type:     TypeTyping,
		IsTyping: &isTyping,
	}
	b, err := m.Encode()
	if err != nil {
		return err
	}
	return conn.WriteMessage(b)
}

// writeMessage encodes and writes one chat message.  The content is
// encrypted when a session cipher is established, every attempt produces
// a fresh token.
func (s *Session) writeMessage(conn Transport, content, roomID string) error {
	wireContent := content
	if cipher := s.sessionCipher(); cipher != nil {
		token, err := cipher.Encrypt(content)
		if err != nil {
			return err
		}
		wireContent = token
	}
	m := &Message{
		Type:    TypeMessage,
		Content: wireContent,
		RoomID:  roomID,
	}
	b, err := m.Encode()
	if err != nil {
		return err
	}
	return conn.WriteMessage(b)
}

func (s *Session) enqueueMessage(content, roomID string) error {
	qm := &QueuedMessage{
		Content:  content,
		RoomID:   roomID,
		QueuedAt: time.Now(),
	}
	if err := s.queue.Push(qm); err != nil {
		s.log.Warningf("Failed to queue message: %v", err)
		return err
	}
	s.eventCh.In() <- &MessageQueuedEvent{
		Content:  content,
		RoomID:   roomID,
		QueueLen: s.queue.Len(),
	}
	return nil
}

// sendQueuedMessages drains the egress queue over the given connection in
// FIFO order.  A message is only removed from the queue once its write
// succeeded, a failed write leaves it in place for the next connection.
func (s *Session) sendQueuedMessages(conn Transport) {
	for {
		qm, err := s.queue.Peek()
		if err != nil {
			// ErrQueueEmpty, the queue is drained.
			return
		}
		if qm == nil {
			s.fatalErrCh <- errors.New("impossible failure, got nil message from queue")
			return
		}
		if err = s.writeMessage(conn, qm.Content, qm.RoomID); err != nil {
			s.log.Warningf("Queue drain interrupted, %d messages remain: %v", s.queue.Len(), err)
			return
		}
		if _, err = s.queue.Pop(); err != nil {
			s.fatalErrCh <- errors.New("impossible failure to Pop from queue")
			return
		}
		s.eventCh.In() <- &MessageSentEvent{
			Content: qm.Content,
			RoomID:  qm.RoomID,
		}
	}
}

// sendKeyExchange announces the account's public key so the server can
// wrap a session key for this session.
func (s *Session) sendKeyExchange(conn Transport) error {
	m := &Message{
		Type:      TypeKeyExchange,
		PublicKey: s.identity.PublicKeyBase64(),
	}
	b, err := m.Encode()
	if err != nil {
		return err
	}
	return conn.WriteMessage(b)
}

// sendPong replies to a server heartbeat, a failed reply is left to the
// read loop to surface as a connection error.
func (s *Session) sendPong() {
	conn := s.transport()
	if conn == nil {
		return
	}
	m := &Message{Type: TypePong}
	b, err := m.Encode()
	if err == nil {
		err = conn.WriteMessage(b)
	}
	if err != nil {
		s.log.Debugf("Failed to send pong: %v", err)
	}
}
