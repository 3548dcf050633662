// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	assert := assert.New(t)
	t.Setenv(serverURLEnv, "")

	cfg, err := Load([]byte(""))
	require.NoError(t, err)

	assert.Equal(defaultServerURL, cfg.Server.URL)
	assert.False(cfg.Server.DisableReconnect)
	assert.Equal("NOTICE", cfg.Logging.Level)
	assert.False(cfg.Logging.Disable)
	assert.Equal(defaultConnectTimeout, cfg.Debug.ConnectTimeout)
	assert.Equal(defaultInitialReconnectDelay, cfg.Debug.InitialReconnectDelay)
	assert.Equal(defaultMaxReconnectDelay, cfg.Debug.MaxReconnectDelay)
	assert.Equal(defaultTypingDebounceInterval, cfg.Debug.TypingDebounceInterval)
	assert.NotEmpty(cfg.DataDir)
	assert.Nil(cfg.Account)
}

func TestLoadFull(t *testing.T) {
	assert := assert.New(t)
	t.Setenv(serverURLEnv, "")

	const doc = `
DataDir = "/var/lib/minchat"

[Server]
URL = "https://chat.example.com/"
DisableReconnect = true

[Account]
UserID = 42
Token = "sekrit"

[Logging]
File = "/tmp/minchat.log"
Level = "debug"

[Debug]
ConnectTimeout = 5
InitialReconnectDelay = 2
MaxReconnectDelay = 30
TypingDebounceInterval = 1
`
	cfg, err := Load([]byte(doc))
	require.NoError(t, err)

	assert.Equal("/var/lib/minchat", cfg.DataDir)
	assert.Equal("https://chat.example.com/", cfg.Server.URL)
	assert.True(cfg.Server.DisableReconnect)
	assert.Equal(uint64(42), cfg.Account.UserID)
	assert.Equal("sekrit", cfg.Account.Token)
	assert.Equal("DEBUG", cfg.Logging.Level)
	assert.Equal(5, cfg.Debug.ConnectTimeout)
	assert.Equal(2, cfg.Debug.InitialReconnectDelay)
	assert.Equal(30, cfg.Debug.MaxReconnectDelay)
	assert.Equal(1, cfg.Debug.TypingDebounceInterval)
}

func TestServerURLEnvOverride(t *testing.T) {
	assert := assert.New(t)
	t.Setenv(serverURLEnv, "wss://env.example.com")

	cfg, err := Load([]byte("[Server]\nURL = \"ws://file.example.com\"\n"))
	require.NoError(t, err)
	assert.Equal("wss://env.example.com", cfg.Server.URL)
}

func TestWebsocketURLMapping(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		url, expected string
	}{
		{"ws://localhost:8000", "ws://localhost:8000"},
		{"wss://chat.example.com", "wss://chat.example.com"},
		{"http://localhost:8000", "ws://localhost:8000"},
		{"https://chat.example.com", "wss://chat.example.com"},
		{"http://chat.example.com/", "ws://chat.example.com"},
		{"https://chat.example.com///", "wss://chat.example.com"},
	} {
		s := &Server{URL: tc.url}
		assert.Equal(tc.expected, s.WebsocketURL())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	assert := assert.New(t)

	_, err := Load([]byte("[Server]\nURL = \"ws://localhost:8000\"\nBogusKey = 1\n"))
	assert.Error(err)
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	assert := assert.New(t)

	_, err := Load([]byte("[Server\nURL ="))
	assert.Error(err)
}

func TestLoadRejectsBadScheme(t *testing.T) {
	assert := assert.New(t)
	t.Setenv(serverURLEnv, "")

	_, err := Load([]byte("[Server]\nURL = \"ftp://chat.example.com\"\n"))
	assert.Error(err)
}

func TestLoadRejectsRelativeDataDir(t *testing.T) {
	assert := assert.New(t)
	t.Setenv(serverURLEnv, "")

	_, err := Load([]byte("DataDir = \"relative/path\"\n"))
	assert.Error(err)
}

func TestAccountValidation(t *testing.T) {
	assert := assert.New(t)
	t.Setenv(serverURLEnv, "")

	_, err := Load([]byte("[Account]\nUserID = 0\nToken = \"tok\"\n"))
	assert.Error(err)

	_, err = Load([]byte("[Account]\nUserID = 7\nToken = \"\"\n"))
	assert.Error(err)

	cfg, err := Load([]byte("[Account]\nUserID = 7\nToken = \"tok\"\n"))
	assert.NoError(err)
	assert.Equal(uint64(7), cfg.Account.UserID)
}

func TestDebugValidation(t *testing.T) {
	assert := assert.New(t)
	t.Setenv(serverURLEnv, "")

	_, err := Load([]byte("[Debug]\nInitialReconnectDelay = 10\nMaxReconnectDelay = 5\n"))
	assert.Error(err)

	_, err = Load([]byte("[Debug]\nConnectTimeout = -1\n"))
	assert.Error(err)
}

func TestLoggingValidation(t *testing.T) {
	assert := assert.New(t)
	t.Setenv(serverURLEnv, "")

	_, err := Load([]byte("[Logging]\nLevel = \"SHOUTING\"\n"))
	assert.Error(err)

	cfg, err := Load([]byte("[Logging]\nLevel = \"info\"\n"))
	assert.NoError(err)
	assert.Equal("INFO", cfg.Logging.Level)
}
