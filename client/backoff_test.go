// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffSchedule(t *testing.T) {
	assert := assert.New(t)
	b := newBackoff(1*time.Second, 60*time.Second)

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		60 * time.Second,
		60 * time.Second,
	}
	for i, want := range expected {
		assert.Equal(want, b.Next(), "attempt %d", i)
	}

	b.Reset()
	assert.Equal(1*time.Second, b.Next())
	assert.Equal(2*time.Second, b.Next())
}

func TestBackoffCeiling(t *testing.T) {
	assert := assert.New(t)
	b := newBackoff(5*time.Second, 7*time.Second)

	assert.Equal(5*time.Second, b.Next())
	assert.Equal(7*time.Second, b.Next())
	assert.Equal(7*time.Second, b.Next())
}
