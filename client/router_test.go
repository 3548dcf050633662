// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minchat/minchat/core/log"
)

func TestRouterDispatch(t *testing.T) {
	assert := assert.New(t)
	logBackend, err := log.New("", "DEBUG", true)
	require.NoError(t, err)
	r := newRouter(logBackend.GetLogger("router_test"))

	var gotMessage, gotPing *Message
	r.Handle(TypeMessage, func(m *Message) { gotMessage = m })
	r.Handle(TypePing, func(m *Message) { gotPing = m })

	r.Dispatch(&Message{Type: TypeMessage, Content: "routed"})
	require.NotNil(t, gotMessage)
	assert.Equal("routed", gotMessage.Content)
	assert.Nil(gotPing)

	r.Dispatch(&Message{Type: TypePing})
	assert.NotNil(gotPing)
}

func TestRouterUnknownFallback(t *testing.T) {
	assert := assert.New(t)
	logBackend, err := log.New("", "DEBUG", true)
	require.NoError(t, err)
	r := newRouter(logBackend.GetLogger("router_test"))

	var handled, unknownTag string
	r.Handle(TypeMessage, func(m *Message) { handled = m.Type })
	r.HandleUnknown(func(tag string, m *Message) { unknownTag = tag })

	r.Dispatch(&Message{Type: "presence"})
	assert.Equal("presence", unknownTag)
	assert.Empty(handled)

	// A registered tag never reaches the fallback.
	unknownTag = ""
	r.Dispatch(&Message{Type: TypeMessage})
	assert.Equal(TypeMessage, handled)
	assert.Empty(unknownTag)
}

func TestRouterNoFallback(t *testing.T) {
	logBackend, err := log.New("", "DEBUG", true)
	require.NoError(t, err)
	r := newRouter(logBackend.GetLogger("router_test"))

	// Nothing registered at all, the message is logged and dropped.
	r.Dispatch(&Message{Type: "presence"})
}

func TestRouterReplaceHandler(t *testing.T) {
	assert := assert.New(t)
	logBackend, err := log.New("", "DEBUG", true)
	require.NoError(t, err)
	r := newRouter(logBackend.GetLogger("router_test"))

	var which string
	r.Handle(TypeMessage, func(m *Message) { which = "old" })
	r.Handle(TypeMessage, func(m *Message) { which = "new" })

	r.Dispatch(&Message{Type: TypeMessage})
	assert.Equal("new", which)
}
