// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package client

// State is the connection lifecycle state of a Session.
type State int

const (
	// StateDisconnected is the initial state, before any connection
	// attempt, and the resting state after a failed attempt when
	// automatic reconnection is disabled.
	StateDisconnected State = iota

	// StateConnecting is the state while a dial attempt is in flight.
	StateConnecting

	// StateConnected is the state while an established connection is
	// carrying traffic.
	StateConnected

	// StateReconnecting is the state between a lost or failed connection
	// and the next automatic attempt.
	StateReconnecting

	// StateClosed is the terminal state entered by Disconnect.  A closed
	// session never transitions again.
	StateClosed
)

// String returns the lower case name of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
