// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typingFrame reads the next written payload and asserts it is a typing
// notice with the given value.
func typingFrame(t *testing.T, ft *fakeTransport, want bool) {
	t.Helper()
	m := ft.nextWritten(t)
	require.Equal(t, TypeTyping, m.Type)
	require.NotNil(t, m.IsTyping)
	require.Equal(t, want, *m.IsTyping)
}

func TestTypingDebounce(t *testing.T) {
	assert := assert.New(t)
	d := newFakeDialer()
	s := testSession(t, d, nil)

	require.NoError(t, s.Connect(context.Background()))
	awaitConnected(t, s)
	ft := d.nextConn(t)
	assert.Equal(TypeKeyExchange, ft.nextWritten(t).Type)

	// The first keystroke of a burst announces typing.
	s.TypingActivity()
	assert.Equal(`{"type":"typing","is_typing":true}`, string(ft.nextWrittenRaw(t)))

	// Further activity inside the debounce window is silent.
	for i := 0; i < 3; i++ {
		s.TypingActivity()
		ft.expectNoWrite(t, 200*time.Millisecond)
	}

	// Quiet for the debounce interval ends the burst.
	typingFrame(t, ft, false)

	// The next keystroke opens a fresh burst.
	s.TypingActivity()
	typingFrame(t, ft, true)

	// An explicit stop ends it immediately.
	s.TypingStopped()
	typingFrame(t, ft, false)

	// A stop outside a burst is a no-op.
	s.TypingStopped()
	ft.expectNoWrite(t, 200*time.Millisecond)
}

func TestTypingStopOnSubmit(t *testing.T) {
	assert := assert.New(t)
	d := newFakeDialer()
	s := testSession(t, d, nil)

	require.NoError(t, s.Connect(context.Background()))
	awaitConnected(t, s)
	ft := d.nextConn(t)
	assert.Equal(TypeKeyExchange, ft.nextWritten(t).Type)

	s.TypingActivity()
	typingFrame(t, ft, true)

	// Submitting a message ends the burst.  The stop notice and the
	// message itself are written by different goroutines, either order is
	// fine.
	require.NoError(t, s.SendMessage("done typing", ""))
	var sawMessage, sawStop bool
	for i := 0; i < 2; i++ {
		m := ft.nextWritten(t)
		switch m.Type {
		case TypeMessage:
			assert.Equal("done typing", m.Content)
			sawMessage = true
		case TypeTyping:
			require.NotNil(t, m.IsTyping)
			assert.False(*m.IsTyping)
			sawStop = true
		default:
			t.Fatalf("unexpected payload type %v", m.Type)
		}
	}
	assert.True(sawMessage)
	assert.True(sawStop)
}

func TestTypingIgnoredWhileOffline(t *testing.T) {
	assert := assert.New(t)
	d := newFakeDialer()
	s := testSession(t, d, nil)

	// No connection, nothing to announce on.
	s.TypingActivity()
	s.TypingStopped()

	require.NoError(t, s.Connect(context.Background()))
	awaitConnected(t, s)
	ft := d.nextConn(t)
	assert.Equal(TypeKeyExchange, ft.nextWritten(t).Type)

	// The offline activity does not leak onto the fresh connection.
	ft.expectNoWrite(t, 300*time.Millisecond)

	s.TypingActivity()
	typingFrame(t, ft, true)
}

func TestTypingClearedOnDisconnect(t *testing.T) {
	assert := assert.New(t)
	d := newFakeDialer()
	s := testSession(t, d, nil)

	require.NoError(t, s.Connect(context.Background()))
	awaitConnected(t, s)
	ft := d.nextConn(t)
	assert.Equal(TypeKeyExchange, ft.nextWritten(t).Type)

	s.TypingActivity()
	typingFrame(t, ft, true)

	// Drop the link mid-burst.  The typing state is cleared without a
	// stop notice, there is nothing to send it on.
	require.NoError(t, ft.Close())
	awaitDisconnected(t, s)

	ft2 := d.nextConn(t)
	awaitConnected(t, s)
	assert.Equal(TypeKeyExchange, ft2.nextWritten(t).Type)
	ft2.expectNoWrite(t, 300*time.Millisecond)

	// A keystroke after reconnecting announces a fresh burst, proving the
	// old one was cleared.
	s.TypingActivity()
	typingFrame(t, ft2, true)
}
