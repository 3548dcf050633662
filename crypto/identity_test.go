// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/op/go-logging.v1"

	"github.com/minchat/minchat/core/log"
)

func testLogger(t *testing.T) *logging.Logger {
	b, err := log.New("", "DEBUG", true)
	require.NoError(t, err)
	return b.GetLogger("test")
}

func TestIdentityGenerateAndReload(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	id1, err := LoadOrGenerateIdentity(dir, testLogger(t))
	require.NoError(t, err)

	fi, err := os.Stat(filepath.Join(dir, privateKeyFile))
	require.NoError(t, err)
	assert.Equal(keyFileMode, fi.Mode().Perm())

	pem1, err := id1.PublicKeyPEM()
	require.NoError(t, err)

	// A second load must come back with the same keypair.
	id2, err := LoadOrGenerateIdentity(dir, testLogger(t))
	require.NoError(t, err)
	pem2, err := id2.PublicKeyPEM()
	require.NoError(t, err)
	assert.Equal(pem1, pem2)
}

func TestIdentityPublicKeyBase64(t *testing.T) {
	assert := assert.New(t)

	id, err := LoadOrGenerateIdentity(t.TempDir(), testLogger(t))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(id.PublicKeyBase64())
	require.NoError(t, err)

	blk, _ := pem.Decode(raw)
	require.NotNil(t, blk)
	assert.Equal("PUBLIC KEY", blk.Type)
}

func TestIdentityUnwrapSessionKey(t *testing.T) {
	assert := assert.New(t)

	id, err := LoadOrGenerateIdentity(t.TempDir(), testLogger(t))
	require.NoError(t, err)

	key, err := GenerateSessionKey()
	require.NoError(t, err)

	envelope, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, id.PublicKey(), key, nil)
	require.NoError(t, err)

	got, err := id.UnwrapSessionKey(envelope)
	assert.NoError(err)
	assert.Equal(key, got)
}

func TestIdentityUnwrapWrongKey(t *testing.T) {
	assert := assert.New(t)

	id1, err := LoadOrGenerateIdentity(t.TempDir(), testLogger(t))
	require.NoError(t, err)
	id2, err := LoadOrGenerateIdentity(t.TempDir(), testLogger(t))
	require.NoError(t, err)

	key, err := GenerateSessionKey()
	require.NoError(t, err)
	envelope, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, id2.PublicKey(), key, nil)
	require.NoError(t, err)

	_, err = id1.UnwrapSessionKey(envelope)
	assert.Error(err)
	_, ok := err.(*CryptoError)
	assert.True(ok)

	_, err = id1.UnwrapSessionKey([]byte("not an envelope"))
	assert.Error(err)
}

func TestIdentityCorruptStore(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, privateKeyFile), []byte("not a pem file"), keyFileMode)
	require.NoError(t, err)

	_, err = LoadOrGenerateIdentity(dir, testLogger(t))
	assert.Error(err)
	_, ok := err.(*KeyStoreError)
	assert.True(ok)

	// Valid PEM wrapping a non-key payload is still a key store error.
	blk := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte("garbage")})
	err = os.WriteFile(filepath.Join(dir, privateKeyFile), blk, keyFileMode)
	require.NoError(t, err)
	_, err = LoadOrGenerateIdentity(dir, testLogger(t))
	assert.Error(err)
	_, ok = err.(*KeyStoreError)
	assert.True(ok)
}
