// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// router.go - inbound message dispatch

package client

import (
	"gopkg.in/op/go-logging.v1"
)

// HandlerFunc handles one inbound message.
type HandlerFunc func(*Message)

// Router dispatches inbound messages by their type tag.  Registration
// happens before the read loop starts, dispatch is single threaded, so no
// locking is required.
type Router struct {
	log      *logging.Logger
	handlers map[string]HandlerFunc
	unknown  func(string, *Message)
}

func newRouter(log *logging.Logger) *Router {
	return &Router{
		log:      log,
		handlers: make(map[string]HandlerFunc),
	}
}

// Handle registers the handler for the given type tag, replacing any
// previous registration.
func (r *Router) Handle(typ string, fn HandlerFunc) {
	r.handlers[typ] = fn
}

// HandleUnknown registers the fallback invoked for type tags that have no
// handler.
func (r *Router) HandleUnknown(fn func(string, *Message)) {
	r.unknown = fn
}

// Dispatch routes the message to its handler.
func (r *Router) Dispatch(m *Message) {
	if fn, ok := r.handlers[m.Type]; ok {
		fn(m)
		return
	}
	if r.unknown != nil {
		r.unknown(m.Type, m)
		return
	}
	r.log.Warningf("Dropping message with unhandled type tag '%v'", m.Type)
}
