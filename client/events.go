// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// events.go - session event types

package client

import (
	"fmt"
)

// Event is the generic event sent over EventSink.
type Event interface {
	// String returns a string representation of the Event.
	String() string
}

// ConnectionStatusEvent is the event sent when a connection status change
// is detected.
type ConnectionStatusEvent struct {
	// IsConnected is true iff the account is connected to the server.
	IsConnected bool

	// Err is the error encountered when connecting or by the connection
	// if any.
	Err error
}

// String returns a string representation of the ConnectionStatusEvent.
func (e *ConnectionStatusEvent) String() string {
	if !e.IsConnected {
		return fmt.Sprintf("ConnectionStatus: %v (%v)", e.IsConnected, e.Err)
	}
	return fmt.Sprintf("ConnectionStatus: %v", e.IsConnected)
}

// MessageQueuedEvent is the event sent when a message could not be
// delivered immediately and was spooled for a later attempt.
type MessageQueuedEvent struct {
	// Content is the plaintext of the queued message.
	Content string

	// RoomID is the room the message is addressed to.
	RoomID string

	// QueueLen is the queue depth after the message was accepted.
	QueueLen int
}

// String returns a string representation of the MessageQueuedEvent.
func (e *MessageQueuedEvent) String() string {
	return fmt.Sprintf("MessageQueued: %d queued for room %v", e.QueueLen, e.RoomID)
}

// MessageSentEvent is the event sent when a message has been handed to
// the server.
type MessageSentEvent struct {
	// Content is the plaintext of the sent message.
	Content string

	// RoomID is the room the message was addressed to.
	RoomID string
}

// String returns a string representation of the MessageSentEvent.
func (e *MessageSentEvent) String() string {
	return fmt.Sprintf("MessageSent: room %v", e.RoomID)
}

// MessageReceivedEvent is the event sent when a chat message arrives.
type MessageReceivedEvent struct {
	// Username is the display name of the sender.
	Username string

	// Content is the plaintext of the message.
	Content string

	// RoomID is the room the message was posted to.
	RoomID string

	// Timestamp is the server supplied timestamp, if any.
	Timestamp string
}

// String returns a string representation of the MessageReceivedEvent.
func (e *MessageReceivedEvent) String() string {
	return fmt.Sprintf("MessageReceived: %v in room %v", e.Username, e.RoomID)
}

// TypingNoticeEvent is the event sent when a peer starts or stops typing.
type TypingNoticeEvent struct {
	// Username is the display name of the peer.
	Username string

	// IsTyping is true iff the peer is currently typing.
	IsTyping bool
}

// String returns a string representation of the TypingNoticeEvent.
func (e *TypingNoticeEvent) String() string {
	return fmt.Sprintf("TypingNotice: %v typing: %v", e.Username, e.IsTyping)
}

// UserListEvent is the event sent when the server publishes the room
// roster.
type UserListEvent struct {
	// Users is the list of online display names.
	Users []string

	// Count is the roster size.
	Count int
}

// String returns a string representation of the UserListEvent.
func (e *UserListEvent) String() string {
	return fmt.Sprintf("UserList: %d online", e.Count)
}

// KeyExchangeEvent is the event sent when a key exchange completes.  Err
// is nil iff a session cipher was established.
type KeyExchangeEvent struct {
	// Err is the error encountered during the exchange, if any.
	Err error
}

// String returns a string representation of the KeyExchangeEvent.
func (e *KeyExchangeEvent) String() string {
	if e.Err != nil {
		return fmt.Sprintf("KeyExchange: failure: %v", e.Err)
	}
	return "KeyExchange: session established"
}

// ServerErrorEvent is the event sent when the server reports an error
// payload.
type ServerErrorEvent struct {
	// Message is the error text supplied by the server.
	Message string
}

// String returns a string representation of the ServerErrorEvent.
func (e *ServerErrorEvent) String() string {
	return fmt.Sprintf("ServerError: %v", e.Message)
}

// DecryptionFailureEvent is the event sent when an inbound chat message
// fails to decrypt and is discarded.
type DecryptionFailureEvent struct {
	// Err is the decryption error.
	Err error
}

// String returns a string representation of the DecryptionFailureEvent.
func (e *DecryptionFailureEvent) String() string {
	return fmt.Sprintf("DecryptionFailure: %v", e.Err)
}

// ProtocolErrorEvent is the event sent when an inbound payload cannot be
// parsed and is discarded.
type ProtocolErrorEvent struct {
	// Err is the parse error.
	Err error
}

// String returns a string representation of the ProtocolErrorEvent.
func (e *ProtocolErrorEvent) String() string {
	return fmt.Sprintf("ProtocolError: %v", e.Err)
}

// UnknownMessageEvent is the event sent when a payload carries a type tag
// the session has no handler for.
type UnknownMessageEvent struct {
	// Tag is the unrecognized type tag.
	Tag string
}

// String returns a string representation of the UnknownMessageEvent.
func (e *UnknownMessageEvent) String() string {
	return fmt.Sprintf("UnknownMessage: tag %v", e.Tag)
}
