// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// typing.go - typing indicator debounce API

package client

// TypingActivity records input activity for the typing indicator.  The
// first call after a quiet period sends a start typing notice, and a stop
// typing notice follows once no activity is recorded for the configured
// debounce interval.  Callers invoke this on every keystroke, the
// debounce collapses the stream into at most one notice per transition.
func (s *Session) TypingActivity() {
	select {
	case s.opCh <- opTypingActivity{}:
	case <-s.HaltCh():
	}
}

// TypingStopped immediately ends the typing state, sending a stop typing
// notice if one is outstanding.  It is called when the input line is
// submitted or cleared.
func (s *Session) TypingStopped() {
	select {
	case s.opCh <- opTypingStop{}:
	case <-s.HaltCh():
	}
}

// sendTypingNotice delivers a typing indicator to the server.  Typing
// indicators are ephemeral, a delivery failure is logged and dropped
// rather than queued.
func (s *Session) sendTypingNotice(isTyping bool) {
	if err := s.SendTypingIndicator(isTyping); err != nil {
		s.log.Debugf("Failed to send typing indicator: %v", err)
	}
}
