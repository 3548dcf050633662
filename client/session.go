// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// session.go - chat client session

package client

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/eapache/channels.v1"
	"gopkg.in/op/go-logging.v1"

	"github.com/minchat/minchat/client/config"
	"github.com/minchat/minchat/core/log"
	"github.com/minchat/minchat/core/worker"
	"github.com/minchat/minchat/crypto"
)

// Session is the struct type that keeps state for a given session.
type Session struct {
	worker.Worker

	cfg *config.Config
	log *logging.Logger

	identity *crypto.Identity
	dial     DialFunc
	dialURL  string

	fatalErrCh chan error
	opCh       chan workerOp
	connectCh  chan *connectRequest

	eventCh   channels.Channel
	EventSink chan Event

	cipherMu sync.RWMutex
	cipher   *crypto.SessionCipher

	stateMu sync.RWMutex
	state   State
	conn    Transport

	queue  *Queue
	router *Router

	// bo is owned by the connect loop.
	bo *backoff

	lastPong int64

	haltOnce sync.Once
}

// NewSession creates a session bound to the account in cfg.  The session
// spins up its workers immediately but makes no connection attempt until
// Connect is called.  A nil dial selects the websocket transport.
func NewSession(
	fatalErrCh chan error,
	logBackend *log.Backend,
	cfg *config.Config,
	identity *crypto.Identity,
	dial DialFunc) (*Session, error) {
	if cfg.Account == nil {
		return nil, errors.New("config: no Account block present")
	}
	if dial == nil {
		dial = dialWebsocket
	}

	clientLog := logBackend.GetLogger(fmt.Sprintf("minchat/session:%d", cfg.Account.UserID))

	s := &Session{
		cfg:        cfg,
		log:        clientLog,
		identity:   identity,
		dial:       dial,
		dialURL:    fmt.Sprintf("%s/ws?user_id=%d", cfg.Server.WebsocketURL(), cfg.Account.UserID),
		fatalErrCh: fatalErrCh,
		opCh:       make(chan workerOp, 8),
		connectCh:  make(chan *connectRequest, 1),
		eventCh:    channels.NewInfiniteChannel(),
		EventSink:  make(chan Event),
		queue:      new(Queue),
		bo: newBackoff(
			time.Duration(cfg.Debug.InitialReconnectDelay)*time.Second,
			time.Duration(cfg.Debug.MaxReconnectDelay)*time.Second),
	}
	s.router = newRouter(clientLog)
	s.registerHandlers()
	s.loadSpool()

	s.Go(s.eventSinkWorker)
	s.Go(s.worker)
	s.Go(s.connectLoop)

	return s, nil
}

func (s *Session) eventSinkWorker() {
	for {
		select {
		case <-s.HaltCh():
			s.log.Debugf("Event sink worker terminating gracefully.")
			return
		case e := <-s.eventCh.Out():
			select {
			case s.EventSink <- e.(Event):
			case <-s.HaltCh():
				s.log.Debugf("Event sink worker terminating gracefully.")
				return
			}
		}
	}
}

// onConnectionStatus is called by the connection machinery on every
// status transition, err is nil iff a connection was established.
func (s *Session) onConnectionStatus(err error) {
	s.log.Debugf("onConnectionStatus: %v", err)
	s.eventCh.In() <- &ConnectionStatusEvent{
		IsConnected: err == nil,
		Err:         err,
	}
	select {
	case s.opCh <- opConnStatusChanged{isConnected: err == nil}:
	case <-s.HaltCh():
	}
}

func (s *Session) sessionCipher() *crypto.SessionCipher {
	s.cipherMu.RLock()
	defer s.cipherMu.RUnlock()
	return s.cipher
}

func (s *Session) setSessionCipher(c *crypto.SessionCipher) {
	s.cipherMu.Lock()
	defer s.cipherMu.Unlock()
	s.cipher = c
}

// HasSessionCipher returns true iff a key exchange has established a
// session cipher.
func (s *Session) HasSessionCipher() bool {
	return s.sessionCipher() != nil
}

// QueueLen returns the number of messages awaiting delivery.
func (s *Session) QueueLen() int {
	return s.queue.Len()
}

// LastPong returns the arrival time of the most recent heartbeat reply,
// or the zero time if none was received.
func (s *Session) LastPong() time.Time {
	if t := atomic.LoadInt64(&s.lastPong); t != 0 {
		return time.Unix(0, t)
	}
	return time.Time{}
}

// Disconnect permanently closes the session.  A closed session cannot be
// reconnected, create a new Session instead.
func (s *Session) Disconnect() {
	s.Shutdown()
}

// Shutdown gracefully halts the session, spooling any undelivered
// messages to disk.  Shutdown and Disconnect are idempotent and safe to
// call concurrently.
func (s *Session) Shutdown() {
	s.haltOnce.Do(func() { s.halt() })
}

func (s *Session) halt() {
	s.log.Noticef("Starting graceful shutdown.")

	s.stateMu.Lock()
	s.state = StateClosed
	s.stateMu.Unlock()

	s.Halt()
	s.saveSpool()
	s.log.Noticef("Shutdown complete.")
}
