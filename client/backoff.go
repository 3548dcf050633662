// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

package client

import "time"

// backoff is the reconnect delay schedule: the delay doubles after every
// failed attempt until it reaches the ceiling, and a successful connection
// resets it to the base.  It is owned by the connect loop and is not safe
// for concurrent use.
type backoff struct {
	next time.Duration
	base time.Duration
	max  time.Duration
}

func newBackoff(base, max time.Duration) *backoff {
	return &backoff{
		next: base,
		base: base,
		max:  max,
	}
}

// Next returns the delay to wait before the upcoming attempt and advances
// the schedule.
func (b *backoff) Next() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > b.max {
		b.next = b.max
	}
	return d
}

// Reset returns the schedule to the base delay.
func (b *backoff) Reset() {
	b.next = b.base
}
