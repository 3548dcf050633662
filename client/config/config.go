// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config implements the configuration for the minchat client.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultDataDirName = ".minchat"
	defaultServerURL   = "ws://localhost:8000"
	defaultLogLevel    = "NOTICE"

	defaultConnectTimeout         = 30
	defaultInitialReconnectDelay  = 1
	defaultMaxReconnectDelay      = 60
	defaultTypingDebounceInterval = 3

	// serverURLEnv overrides Server.URL when set in the environment.
	serverURLEnv = "MINCHAT_SERVER_URL"
)

var defaultLogging = Logging{
	Disable: false,
	File:    "",
	Level:   defaultLogLevel,
}

// Logging is the logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool

	// File specifies the log file, if omitted stdout will be used.
	File string

	// Level specifies the log level.
	Level string
}

func (lCfg *Logging) validate() error {
	lvl := strings.ToUpper(lCfg.Level)
	switch lvl {
	case "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG":
	case "":
		lvl = defaultLogLevel
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", lCfg.Level)
	}
	lCfg.Level = lvl // Force uppercase.
	return nil
}

// Server is the chat server configuration.
type Server struct {
	// URL is the server base URL.  The ws and wss schemes are used as is,
	// http and https map onto their websocket equivalents at dial time.
	URL string

	// DisableReconnect disables automatic reconnection, so that a failed
	// or lost connection is surfaced to the caller instead of retried.
	DisableReconnect bool
}

// WebsocketURL returns the server URL with the scheme normalized to ws or
// wss and any trailing slashes removed.
func (sCfg *Server) WebsocketURL() string {
	u := strings.TrimRight(sCfg.URL, "/")
	switch {
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	}
	return u
}

func (sCfg *Server) validate() error {
	u, err := url.Parse(sCfg.URL)
	if err != nil {
		return fmt.Errorf("config: Server: URL is invalid: %v", err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("config: Server: URL scheme '%v' is invalid", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("config: Server: URL host is missing")
	}
	return nil
}

// Account is the chat account configuration.
type Account struct {
	// UserID is the numeric account identifier presented at handshake
	// time.
	UserID uint64

	// Token is the bearer credential presented at handshake time.
	Token string
}

func (aCfg *Account) validate() error {
	if aCfg.UserID == 0 {
		return errors.New("config: Account: UserID must be set")
	}
	if aCfg.Token == "" {
		return errors.New("config: Account: Token must be set")
	}
	return nil
}

// Debug is the debug configuration.
type Debug struct {
	// ConnectTimeout is the number of seconds that a dial is allowed to
	// take until it is canceled.
	ConnectTimeout int

	// InitialReconnectDelay is the reconnect backoff base in seconds.
	// After every failed connection attempt the delay doubles until it
	// reaches MaxReconnectDelay, and a successful connection resets it.
	InitialReconnectDelay int

	// MaxReconnectDelay is the reconnect backoff ceiling in seconds.
	MaxReconnectDelay int

	// TypingDebounceInterval is the number of seconds of input inactivity
	// after which the stop typing indicator is sent.
	TypingDebounceInterval int
}

func (d *Debug) fixup() {
	if d.ConnectTimeout == 0 {
		d.ConnectTimeout = defaultConnectTimeout
	}
	if d.InitialReconnectDelay == 0 {
		d.InitialReconnectDelay = defaultInitialReconnectDelay
	}
	if d.MaxReconnectDelay == 0 {
		d.MaxReconnectDelay = defaultMaxReconnectDelay
	}
	if d.TypingDebounceInterval == 0 {
		d.TypingDebounceInterval = defaultTypingDebounceInterval
	}
}

func (d *Debug) validate() error {
	switch {
	case d.ConnectTimeout < 0:
		return errors.New("config: Debug: ConnectTimeout must be positive")
	case d.InitialReconnectDelay < 0:
		return errors.New("config: Debug: InitialReconnectDelay must be positive")
	case d.MaxReconnectDelay < 0:
		return errors.New("config: Debug: MaxReconnectDelay must be positive")
	case d.MaxReconnectDelay < d.InitialReconnectDelay:
		return errors.New("config: Debug: MaxReconnectDelay is less than InitialReconnectDelay")
	case d.TypingDebounceInterval < 0:
		return errors.New("config: Debug: TypingDebounceInterval must be positive")
	}
	return nil
}

// Config is the top level client configuration.
type Config struct {
	// DataDir is the absolute path to the client's state directory, where
	// the identity keypair and the outbox spool live.  If omitted it
	// defaults to `.minchat` under the home directory.
	DataDir string

	Server  *Server
	Account *Account
	Logging *Logging
	Debug   *Debug
}

// FixupAndValidate applies defaults to config entries and validates the
// configuration sections.
func (c *Config) FixupAndValidate() error {
	// Handle missing sections if possible.
	if c.Server == nil {
		c.Server = &Server{URL: defaultServerURL}
	}
	if c.Logging == nil {
		c.Logging = &defaultLogging
	}
	if c.Debug == nil {
		c.Debug = new(Debug)
	}
	c.Debug.fixup()

	if u := os.Getenv(serverURLEnv); u != "" {
		c.Server.URL = u
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("config: failed to resolve home directory: %v", err)
		}
		c.DataDir = filepath.Join(home, defaultDataDirName)
	} else if !filepath.IsAbs(c.DataDir) {
		return fmt.Errorf("config: DataDir '%v' is not an absolute path", c.DataDir)
	}

	// Validate the various sections.
	if err := c.Server.validate(); err != nil {
		return err
	}
	if c.Account != nil {
		if err := c.Account.validate(); err != nil {
			return err
		}
	}
	if err := c.Logging.validate(); err != nil {
		return err
	}
	return c.Debug.validate()
}

// Load parses and validates the provided buffer b as a config file body and
// returns the Config.
func Load(b []byte) (*Config, error) {
	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses, and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
