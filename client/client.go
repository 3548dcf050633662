// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// Package client provides the minchat client library.
package client

import (
	"errors"
	"path/filepath"
	"sync"

	"gopkg.in/op/go-logging.v1"

	"github.com/minchat/minchat/client/config"
	"github.com/minchat/minchat/core/log"
	"github.com/minchat/minchat/core/worker"
	"github.com/minchat/minchat/crypto"
)

// Client bundles the long-term account state, the identity keypair and
// the logging backend shared by sessions.
type Client struct {
	worker.Worker

	cfg        *config.Config
	logBackend *log.Backend
	log        *logging.Logger
	fatalErrCh chan error
	haltOnce   *sync.Once

	identity *crypto.Identity

	session      *Session
	sessionMutex *sync.Mutex
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *config.Config {
	return c.cfg
}

// New creates a new Client with the provided configuration.  The identity
// keypair is loaded, or generated on first run, so that key store
// problems surface here rather than at connect time.
func New(cfg *config.Config) (*Client, error) {
	c := new(Client)
	c.cfg = cfg
	c.fatalErrCh = make(chan error)
	c.sessionMutex = new(sync.Mutex)
	c.haltOnce = new(sync.Once)

	if err := c.initLogging(); err != nil {
		return nil, err
	}

	var err error
	c.identity, err = crypto.LoadOrGenerateIdentity(cfg.DataDir, c.logBackend.GetLogger("minchat/identity"))
	if err != nil {
		return nil, err
	}

	// Start the fatal error watcher.
	// must not run under worker.Worker.Go because fatalErr calls Halt() which
	// blocks until all routines have returned, which would deadlock.
	go c.fatalErr()
	return c, nil
}

func (c *Client) fatalErr() {
	select {
	case <-c.HaltCh():
	case err, ok := <-c.fatalErrCh:
		if ok {
			c.log.Warningf("Shutting down due to error: %v", err)
			c.Shutdown()
		}
	}
}

func (c *Client) initLogging() error {
	f := c.cfg.Logging.File
	if !c.cfg.Logging.Disable && c.cfg.Logging.File != "" {
		if !filepath.IsAbs(f) {
			return errors.New("log file path must be absolute path")
		}
	}

	var err error
	c.logBackend, err = log.New(f, c.cfg.Logging.Level, c.cfg.Logging.Disable)
	if err == nil {
		c.log = c.logBackend.GetLogger("minchat/client")
	}
	return err
}

func (c *Client) GetBackendLog() *log.Backend {
	return c.logBackend
}

// GetLogger returns a new logger with the given name.
func (c *Client) GetLogger(name string) *logging.Logger {
	return c.logBackend.GetLogger(name)
}

// Identity returns the client's long-term identity keypair.
func (c *Client) Identity() *crypto.Identity {
	return c.identity
}

// Shutdown cleanly shuts down a given Client instance.
func (c *Client) Shutdown() {
	c.haltOnce.Do(func() { c.halt() })
}

func (c *Client) halt() {
	c.log.Noticef("Starting graceful shutdown.")
	c.sessionMutex.Lock()
	if c.session != nil {
		c.session.Shutdown()
	}
	c.sessionMutex.Unlock()
	close(c.fatalErrCh)
	c.Halt()
}

// NewSession creates the session for the configured account.  A Client
// carries at most one session, a nil dial selects the websocket
// transport.
func (c *Client) NewSession(dial DialFunc) (*Session, error) {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	if c.session != nil {
		return nil, errors.New("client: session already exists")
	}
	sess, err := NewSession(c.fatalErrCh, c.logBackend, c.cfg, c.identity, dial)
	if err != nil {
		return nil, err
	}
	c.session = sess
	return sess, nil
}

// Session returns the client's session, or nil before NewSession.
func (c *Client) Session() *Session {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	return c.session
}
