// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// Package crypto provides the client's long-term identity keypair and the
// per-session message cipher.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"

	"gopkg.in/op/go-logging.v1"
)

const (
	privateKeyFile = "identity.pem"
	publicKeyFile  = "identity.pub"

	rsaKeyBits = 2048

	keyDirMode  = os.FileMode(0700)
	keyFileMode = os.FileMode(0600)
)

// Identity is the client's long-term RSA keypair.  The server wraps each
// session key to the public half, and the private half never leaves the
// process except as the PEM file under the data directory.
type Identity struct {
	log    *logging.Logger
	priv   *rsa.PrivateKey
	pubB64 string
}

// PublicKey returns the public half of the identity keypair.
func (i *Identity) PublicKey() *rsa.PublicKey {
	return &i.priv.PublicKey
}

// PublicKeyPEM returns the public key as a PKIX SubjectPublicKeyInfo PEM
// block, the serialization peers and servers are expected to consume.
func (i *Identity) PublicKeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&i.priv.PublicKey)
	if err != nil {
		return nil, newCryptoError("failed to marshal public key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// PublicKeyBase64 returns the base64 encoding of the public key PEM, the
// form carried in key exchange payloads.  It is computed once at load
// time.
func (i *Identity) PublicKeyBase64() string {
	return i.pubB64
}

// UnwrapSessionKey decrypts an RSA-OAEP wrapped session key envelope.
// OAEP uses SHA-256 for both the digest and the mask generation function.
// Failures are reported without distinguishing their cause.
func (i *Identity) UnwrapSessionKey(envelope []byte) ([]byte, error) {
	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, i.priv, envelope, nil)
	if err != nil {
		return nil, newCryptoError("session key unwrap failure")
	}
	return key, nil
}

// LoadOrGenerateIdentity loads the identity keypair from dataDir, generating
// and persisting a fresh 2048 bit keypair on first use.  The data directory
// is created owner-only, and the private key file is written mode 0600.  A
// present but malformed key file is a KeyStoreError, it is the caller's
// policy whether to remove the store and retry.
func LoadOrGenerateIdentity(dataDir string, log *logging.Logger) (*Identity, error) {
	if err := os.MkdirAll(dataDir, keyDirMode); err != nil {
		return nil, newKeyStoreError("failed to create data directory: %v", err)
	}

	i := &Identity{log: log}
	privPath := filepath.Join(dataDir, privateKeyFile)
	raw, err := os.ReadFile(privPath)
	switch {
	case err == nil:
		if i.priv, err = parsePrivateKeyPEM(raw); err != nil {
			return nil, err
		}
		log.Debugf("Loaded identity key: %v", privPath)
	case os.IsNotExist(err):
		if err = i.generate(dataDir); err != nil {
			return nil, err
		}
		log.Noticef("Generated new identity key: %v", privPath)
	default:
		return nil, newKeyStoreError("failed to read identity key: %v", err)
	}

	p, err := i.PublicKeyPEM()
	if err != nil {
		return nil, err
	}
	i.pubB64 = base64.StdEncoding.EncodeToString(p)
	return i, nil
}

func (i *Identity) generate(dataDir string) error {
	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return newCryptoError("failed to generate identity key: %v", err)
	}
	i.priv = priv

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return newKeyStoreError("failed to marshal identity key: %v", err)
	}
	blk := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	privPath := filepath.Join(dataDir, privateKeyFile)
	if err = os.WriteFile(privPath, blk, keyFileMode); err != nil {
		return newKeyStoreError("failed to write identity key: %v", err)
	}

	// The public half is re-derivable, persisting it is a convenience for
	// external tooling.
	pub, err := i.PublicKeyPEM()
	if err != nil {
		return err
	}
	pubPath := filepath.Join(dataDir, publicKeyFile)
	if err = os.WriteFile(pubPath, pub, keyFileMode); err != nil {
		return newKeyStoreError("failed to write public key: %v", err)
	}
	return nil
}

func parsePrivateKeyPEM(raw []byte) (*rsa.PrivateKey, error) {
	blk, _ := pem.Decode(raw)
	if blk == nil {
		return nil, newKeyStoreError("identity key file is not PEM")
	}
	k, err := x509.ParsePKCS8PrivateKey(blk.Bytes)
	if err != nil {
		return nil, newKeyStoreError("failed to parse identity key: %v", err)
	}
	priv, ok := k.(*rsa.PrivateKey)
	if !ok {
		return nil, newKeyStoreError("identity key is not an RSA key")
	}
	return priv, nil
}
