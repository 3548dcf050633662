// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// transport.go - websocket transport

package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const closeGracePeriod = 3 * time.Second

// Transport is a connected full duplex link to the server carrying one
// text payload per call.  ReadMessage blocks until a payload arrives or
// the link dies, WriteMessage is safe for concurrent use.
type Transport interface {
	// ReadMessage returns the next inbound payload.
	ReadMessage() ([]byte, error)

	// WriteMessage sends the given payload.
	WriteMessage([]byte) error

	// Close tears down the link.  Any blocked ReadMessage call is
	// unblocked with an error.
	Close() error
}

// DialFunc establishes a Transport to the given URL.  The dial is
// aborted when the context is canceled.
type DialFunc func(ctx context.Context, urlStr string, hdr http.Header) (Transport, error)

type wsTransport struct {
	conn *websocket.Conn

	// The websocket package permits at most one concurrent writer.
	writeMu sync.Mutex
}

func (t *wsTransport) ReadMessage() ([]byte, error) {
	_, b, err := t.conn.ReadMessage()
	return b, err
}

func (t *wsTransport) WriteMessage(b []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, b)
}

func (t *wsTransport) Close() error {
	t.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
	t.writeMu.Unlock()
	return t.conn.Close()
}

func dialWebsocket(ctx context.Context, urlStr string, hdr http.Header) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, urlStr, hdr)
	if err != nil {
		return nil, err
	}
	return &wsTransport{conn: conn}, nil
}
