// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is the error returned when an operation fails due to
	// the client not currently being connected to the server.
	ErrNotConnected = errors.New("client/conn: not connected to the server")

	// ErrSessionClosed is the error returned when an operation is attempted
	// on a session after Disconnect.
	ErrSessionClosed = errors.New("client/conn: session is closed")

	// ErrShutdown is the error returned when the connection is closed due
	// to a call to Shutdown().
	ErrShutdown = errors.New("shutdown requested")
)

// ConnectError is the error used to indicate that a connect attempt has
// failed.
type ConnectError struct {
	// Err is the original error that caused the connect attempt to fail.
	Err error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("client/conn: connect error: %v", e.Err)
}

// TransportError is the error used to indicate that an established
// connection has failed.  Transport errors are not fatal to the session,
// they trigger reconnection.
type TransportError struct {
	// Err is the original error that terminated the connection.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("client/conn: transport error: %v", e.Err)
}

// ProtocolError is the error used to indicate an inbound payload that
// violates the message contract.  Protocol errors are reported and the
// offending payload discarded, the connection survives.
type ProtocolError struct {
	// Err is the original error describing the violation.
	Err error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("client/conn: protocol error: %v", e.Err)
}

func newProtocolError(f string, a ...interface{}) error {
	return &ProtocolError{Err: fmt.Errorf(f, a...)}
}
