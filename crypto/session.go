// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package crypto

import (
	"github.com/fernet/fernet-go"
)

// SessionCipher authenticates and encrypts message content under a single
// session key.  Tokens are self-describing: version, timestamp, random IV,
// ciphertext and MAC travel together, so every encryption of the same
// plaintext yields a distinct token.  The key binding is immutable, a key
// rotation is a new SessionCipher.
type SessionCipher struct {
	key *fernet.Key
}

// NewSessionCipher constructs a cipher from key material, either the raw 32
// byte key or its 44 byte base64url encoding as carried by key exchange
// payloads.
func NewSessionCipher(key []byte) (*SessionCipher, error) {
	if len(key) == 32 {
		k := new(fernet.Key)
		copy(k[:], key)
		return &SessionCipher{key: k}, nil
	}
	k, err := fernet.DecodeKey(string(key))
	if err != nil {
		return nil, newCryptoError("invalid session key: %v", err)
	}
	return &SessionCipher{key: k}, nil
}

// Encrypt returns the authenticated token for plaintext, with a fresh
// random IV drawn per call.
func (c *SessionCipher) Encrypt(plaintext string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(plaintext), c.key)
	if err != nil {
		return "", newCryptoError("encrypt failure: %v", err)
	}
	return string(tok), nil
}

// Decrypt verifies and decrypts a token produced by Encrypt.  Truncated,
// tampered and wrong-key tokens all fail identically with ErrInvalidToken.
func (c *SessionCipher) Decrypt(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{c.key})
	if msg == nil {
		return "", ErrInvalidToken
	}
	return string(msg), nil
}

// GenerateSessionKey returns fresh session key material in the 44 byte
// base64url form.  The client never generates its own session keys, this
// exists for tests and server-side tooling.
func GenerateSessionKey() ([]byte, error) {
	k := new(fernet.Key)
	if err := k.Generate(); err != nil {
		return nil, newCryptoError("failed to generate session key: %v", err)
	}
	return []byte(k.Encode()), nil
}
