// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package crypto

import (
	"errors"
	"fmt"
)

// ErrInvalidToken is the error returned when a session token fails
// verification or decryption for any reason.  Callers are deliberately not
// told which.
var ErrInvalidToken = errors.New("crypto: invalid session token")

// CryptoError is the error used to indicate that a cryptographic operation
// has failed.
type CryptoError struct {
	// Err is the original error that caused the operation to fail.
	Err error
}

// Error implements the error interface.
func (e *CryptoError) Error() string {
	return fmt.Sprintf("crypto: %v", e.Err)
}

func newCryptoError(f string, a ...interface{}) error {
	return &CryptoError{Err: fmt.Errorf(f, a...)}
}

// KeyStoreError is the error used to indicate that the on-disk key store is
// unreadable or corrupt.  The caller decides whether to abort or to discard
// the store and regenerate.
type KeyStoreError struct {
	// Err is the original error that caused the load or store to fail.
	Err error
}

// Error implements the error interface.
func (e *KeyStoreError) Error() string {
	return fmt.Sprintf("crypto/keystore: %v", e.Err)
}

func newKeyStoreError(f string, a ...interface{}) error {
	return &KeyStoreError{Err: fmt.Errorf(f, a...)}
}
