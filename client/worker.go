// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// worker.go - session worker

package client

import (
	"math"
	"time"
)

type workerOp interface{}

type opConnStatusChanged struct {
	isConnected bool
}

type opTypingActivity struct{}

type opTypingStop struct{}

// worker serializes the typing indicator state machine.  All transitions
// happen on this goroutine, so a stop notice is sent exactly once per
// typing burst no matter how submit, quiet timeout and disconnect
// interleave.
func (s *Session) worker() {
	const maxDuration = math.MaxInt64

	debounceInterval := time.Duration(s.cfg.Debug.TypingDebounceInterval) * time.Second
	debounceTimer := time.NewTimer(maxDuration)

	defer s.log.Debug("Session worker halted")
	defer debounceTimer.Stop()

	isConnected := false
	isTyping := false
	for {
		var debounceFired bool
		var qo workerOp

		// nextDebounce is installed into the timer at the bottom of the
		// loop, maxDuration parks it.
		nextDebounce := time.Duration(maxDuration)
		mustResetTimer := false

		select {
		case <-s.HaltCh():
			s.log.Debugf("Session worker terminating gracefully.")
			return
		case <-debounceTimer.C:
			debounceFired = true
		case qo = <-s.opCh:
		}

		if qo != nil {
			switch op := qo.(type) {
			case opConnStatusChanged:
				isConnected = op.isConnected
				if !isConnected && isTyping {
					// The stop notice has no link to travel on.
					isTyping = false
					mustResetTimer = true
				}
			case opTypingActivity:
				if isConnected {
					if !isTyping {
						isTyping = true
						s.sendTypingNotice(true)
					}
					nextDebounce = debounceInterval
					mustResetTimer = true
				}
			case opTypingStop:
				if isTyping {
					isTyping = false
					s.sendTypingNotice(false)
					mustResetTimer = true
				}
			default:
				s.log.Warningf("BUG: Worker received nonsensical op: %T", op)
			}
		} else if debounceFired {
			// Input has been quiet for the debounce interval.
			if isTyping {
				isTyping = false
				s.sendTypingNotice(false)
			}
		}

		if debounceFired {
			debounceTimer.Reset(nextDebounce)
		} else if mustResetTimer {
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(nextDebounce)
		}
	}

	// NOTREACHED
}
