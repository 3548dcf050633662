// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// message.go - chat wire messages

package client

import (
	"encoding/json"
	"time"
)

// DefaultRoom is the room messages are addressed to when the caller does
// not name one.
const DefaultRoom = "general"

// Wire message type tags.  Every payload exchanged with the server is a
// JSON object carrying one of these under its "type" key.
const (
	TypeMessage     = "message"
	TypePing        = "ping"
	TypePong        = "pong"
	TypeTyping      = "typing"
	TypeUserList    = "user_list"
	TypeKeyExchange = "key_exchange"
	TypeError       = "error"
)

// Message is the JSON envelope exchanged with the server.  Type is always
// present, the remaining fields are populated according to the type tag.
// Once a session cipher is established the Content of chat messages is a
// session token rather than plaintext.
type Message struct {
	Type      string   `json:"type"`
	Content   string   `json:"content,omitempty"`
	RoomID    string   `json:"room_id,omitempty"`
	Username  string   `json:"username,omitempty"`
	UserID    uint64   `json:"user_id,omitempty"`
	IsTyping  *bool    `json:"is_typing,omitempty"`
	Users     []string `json:"users,omitempty"`
	Count     int      `json:"count,omitempty"`
	PublicKey string   `json:"public_key,omitempty"`

	// SessionKey is the base64 encoding of the RSA-OAEP wrapped session
	// key carried by key_exchange payloads.
	SessionKey string `json:"session_key,omitempty"`

	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Encode serializes the message for the wire.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses an inbound payload.  Payloads that are not JSON
// objects or that lack a type tag are protocol errors.
func DecodeMessage(b []byte) (*Message, error) {
	m := new(Message)
	if err := json.Unmarshal(b, m); err != nil {
		return nil, newProtocolError("malformed payload: %v", err)
	}
	if m.Type == "" {
		return nil, newProtocolError("payload is missing its type tag")
	}
	return m, nil
}

// QueuedMessage is an outbound chat message awaiting delivery.  The
// plaintext is retained so that every delivery attempt encrypts fresh, a
// token is never reused across attempts.
type QueuedMessage struct {
	Content  string    `cbor:"content"`
	RoomID   string    `cbor:"room_id"`
	QueuedAt time.Time `cbor:"queued_at"`
}
