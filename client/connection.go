// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// connection.go - server connection management

package client

import (
	"context"
	"net/http"
	"time"
)

type connectRequest struct {
	ctx   context.Context
	errCh chan error
}

// Connect starts the connection machinery and blocks until the initial
// attempt resolves.  When automatic reconnection is enabled the machinery
// keeps the connection alive from then on, subsequent status transitions
// are delivered via EventSink.  Calling Connect while an attempt is in
// flight or a connection is established returns nil immediately, calling
// it on a closed session returns ErrSessionClosed.
func (s *Session) Connect(ctx context.Context) error {
	switch s.State() {
	case StateClosed:
		return ErrSessionClosed
	case StateDisconnected:
	default:
		// The connect loop already owns an attempt.
		return nil
	}

	req := &connectRequest{
		ctx:   ctx,
		errCh: make(chan error, 1),
	}
	select {
	case s.connectCh <- req:
	case <-s.HaltCh():
		return ErrShutdown
	default:
		// A previous request is still pending.
		return nil
	}

	select {
	case err := <-req.errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.HaltCh():
		return ErrShutdown
	}
}

func (s *Session) authHeader() http.Header {
	hdr := make(http.Header)
	hdr.Set("Authorization", "Bearer "+s.cfg.Account.Token)
	return hdr
}

func (s *Session) connectLoop() {
	defer s.log.Debugf("Terminating connect loop.")

	for {
		select {
		case <-s.HaltCh():
			return
		case req := <-s.connectCh:
			s.doConnectLoop(req)
		}
	}

	// NOTREACHED
}

// doConnectLoop runs connection attempts until the session halts or, when
// automatic reconnection is disabled, until the current attempt resolves.
// The outcome of the initial attempt is delivered to the requester,
// everything after that is reported via connection status events.
func (s *Session) doConnectLoop(req *connectRequest) {
	delivered := false
	deliver := func(err error) {
		if delivered {
			return
		}
		delivered = true
		req.errCh <- err
	}

	connectTimeout := time.Duration(s.cfg.Debug.ConnectTimeout) * time.Second

	for {
		s.setState(StateConnecting)

		parent := context.Background()
		if !delivered {
			parent = req.ctx
		}
		dialCtx, cancelFn := context.WithTimeout(parent, connectTimeout)
		go func() {
			select {
			case <-s.HaltCh():
				cancelFn()
			case <-dialCtx.Done():
			}
		}()

		s.log.Debugf("Dialing: %v", s.dialURL)
		conn, err := s.dial(dialCtx, s.dialURL, s.authHeader())
		cancelFn()
		select {
		case <-s.HaltCh():
			if conn != nil {
				conn.Close()
			}
			deliver(ErrShutdown)
			return
		default:
		}

		if err != nil {
			cErr := &ConnectError{Err: err}
			s.log.Warningf("Failed to connect to %v: %v", s.dialURL, err)
			s.onConnectionStatus(cErr)
			if s.cfg.Server.DisableReconnect {
				s.setState(StateDisconnected)
				deliver(cErr)
				return
			}
			s.setState(StateReconnecting)
			deliver(cErr)
			select {
			case <-time.After(s.bo.Next()):
			case <-s.HaltCh():
				return
			}
			continue
		}

		deliver(nil)
		s.onTransportConn(conn)

		// Connection torn down.
		select {
		case <-s.HaltCh():
			return
		default:
		}
		if s.State() == StateClosed {
			return
		}
		if s.cfg.Server.DisableReconnect {
			s.setState(StateDisconnected)
			return
		}
		s.setState(StateReconnecting)
		select {
		case <-time.After(s.bo.Next()):
		case <-s.HaltCh():
			return
		}
	}
}

// onTransportConn services an established connection until it dies, the
// session halts, or the server misbehaves.
func (s *Session) onTransportConn(conn Transport) {
	var connErr error

	defer func() {
		if connErr == nil {
			panic("BUG: connErr is nil on connection teardown.")
		}
		s.installConn(nil)
		conn.Close()
		s.onConnectionStatus(connErr)
		s.log.Debugf("Connection terminated: %v", connErr)
	}()

	s.installConn(conn)
	s.bo.Reset()
	s.onConnectionStatus(nil)

	// Announce our public key so the server can wrap a session key for us.
	if err := s.sendKeyExchange(conn); err != nil {
		s.log.Errorf("Failed to send key exchange: %v", err)
		connErr = &TransportError{Err: err}
		return
	}

	// Drain messages spooled while offline.
	s.sendQueuedMessages(conn)

	// Start the peer reader.
	readCh := make(chan interface{})
	readStopCh := make(chan interface{})
	defer close(readStopCh)
	go func() {
		defer close(readCh)
		for {
			b, err := conn.ReadMessage()
			if err != nil {
				select {
				case readCh <- err:
				case <-readStopCh:
				}
				return
			}
			select {
			case readCh <- b:
			case <-readStopCh:
				return
			}
		}
	}()

	for {
		select {
		case <-s.HaltCh():
			connErr = ErrShutdown
			return
		case tmp, ok := <-readCh:
			if !ok {
				connErr = newProtocolError("read worker terminated")
				return
			}
			switch v := tmp.(type) {
			case []byte:
				s.onMessage(v)
			case error:
				s.log.Debugf("Failed to receive payload: %v", v)
				connErr = &TransportError{Err: v}
				return
			}
		}
	}
}

func (s *Session) setState(st State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = st
	s.log.Debugf("Connection state: %v", st)
}

// State returns the connection state of the session.
func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// IsConnected returns true iff the session holds an established
// connection.
func (s *Session) IsConnected() bool {
	return s.State() == StateConnected
}

func (s *Session) installConn(conn Transport) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.conn = conn
	if conn != nil && s.state != StateClosed {
		s.state = StateConnected
	}
}

// transport returns the established connection, or nil when the session
// is not connected.
func (s *Session) transport() Transport {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.state != StateConnected {
		return nil
	}
	return s.conn
}
