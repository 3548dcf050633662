// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// queue.go - client egress queue

package client

import (
	"errors"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// MaxQueueSize is the capacity of the egress queue.
const MaxQueueSize = 128

// ErrQueueFull is the error issued when the queue is full.
var ErrQueueFull = errors.New("queue is full")

// ErrQueueEmpty is the error issued when the queue is empty.
var ErrQueueEmpty = errors.New("queue is empty")

// Queue is our in-memory queue implementation used as our egress FIFO queue
// for messages sent by the client while the connection is down.
type Queue struct {
	sync.Mutex
	content   [MaxQueueSize]*QueuedMessage
	readHead  int
	writeHead int
	len       int
}

// Push pushes the given message onto the queue and returns nil
// on success, otherwise ErrQueueFull is returned.
func (q *Queue) Push(m *QueuedMessage) error {
	q.Lock()
	defer q.Unlock()
	if q.len >= MaxQueueSize {
		return ErrQueueFull
	}
	q.content[q.writeHead] = m
	q.writeHead = (q.writeHead + 1) % MaxQueueSize
	q.len++
	return nil
}

// Pop pops the next message off the queue and returns nil
// upon success, otherwise an error is returned.
func (q *Queue) Pop() (*QueuedMessage, error) {
	q.Lock()
	defer q.Unlock()
	if q.len <= 0 {
		return nil, ErrQueueEmpty
	}
	result := q.content[q.readHead]
	q.content[q.readHead] = nil
	q.readHead = (q.readHead + 1) % MaxQueueSize
	q.len--
	return result, nil
}

// Peek returns the next message from the queue without
// modifying the queue.
func (q *Queue) Peek() (*QueuedMessage, error) {
	q.Lock()
	defer q.Unlock()
	if q.len <= 0 {
		return nil, ErrQueueEmpty
	}
	result := q.content[q.readHead]
	return result, nil
}

// Len returns the number of messages in the queue.
func (q *Queue) Len() int {
	q.Lock()
	defer q.Unlock()
	return q.len
}

type queueDisk struct {
	Content   [MaxQueueSize]*QueuedMessage
	ReadHead  int
	WriteHead int
	Len       int
}

// MarshalBinary serializes the queue for the on-disk spool.
func (q *Queue) MarshalBinary() ([]byte, error) {
	q.Lock()
	defer q.Unlock()
	d := &queueDisk{
		Content:   q.content,
		ReadHead:  q.readHead,
		WriteHead: q.writeHead,
		Len:       q.len,
	}
	return cbor.Marshal(d)
}

// UnmarshalBinary restores a queue from its on-disk spool form.
func (q *Queue) UnmarshalBinary(data []byte) error {
	q.Lock()
	defer q.Unlock()
	d := new(queueDisk)
	if err := cbor.Unmarshal(data, d); err != nil {
		return err
	}
	q.content = d.Content
	q.readHead = d.ReadHead
	q.writeHead = d.WriteHead
	q.len = d.Len
	return nil
}
