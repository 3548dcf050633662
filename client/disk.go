// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// disk.go - egress queue spool

package client

import (
	"fmt"
	"os"
	"path/filepath"
)

const spoolFile = "outbox.spool"

// saveSpool persists undelivered messages so they survive a restart.  An
// empty queue removes any stale spool.
func (s *Session) saveSpool() {
	fn := filepath.Join(s.cfg.DataDir, spoolFile)
	n := s.queue.Len()
	if n == 0 {
		if err := os.Remove(fn); err != nil && !os.IsNotExist(err) {
			s.log.Warningf("Failed to remove stale spool: %v", err)
		}
		return
	}
	blob, err := s.queue.MarshalBinary()
	if err != nil {
		s.log.Errorf("Failed to serialize spool: %v", err)
		return
	}
	if err = writeFileAtomic(fn, blob); err != nil {
		s.log.Errorf("Failed to write spool: %v", err)
		return
	}
	s.log.Noticef("Spooled %d undelivered messages.", n)
}

// loadSpool restores messages spooled by a previous run.  The spool is
// consumed on load, a corrupt spool is discarded.
func (s *Session) loadSpool() {
	fn := filepath.Join(s.cfg.DataDir, spoolFile)
	blob, err := os.ReadFile(fn)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		return
	default:
		s.log.Warningf("Failed to read spool: %v", err)
		return
	}
	if err = os.Remove(fn); err != nil {
		s.log.Warningf("Failed to remove spool after read: %v", err)
	}
	if err = s.queue.UnmarshalBinary(blob); err != nil {
		s.log.Warningf("Discarding corrupt spool: %v", err)
		return
	}
	s.log.Noticef("Restored %d undelivered messages from spool.", s.queue.Len())
}

func writeFileAtomic(fn string, b []byte) error {
	tmpFn := fmt.Sprintf("%s.tmp", fn)
	out, err := os.OpenFile(tmpFn, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err = out.Write(b); err != nil {
		out.Close()
		return err
	}
	if err = out.Sync(); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFn, fn)
}
