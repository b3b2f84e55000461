// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// channelCapacity is the bounded capacity of each direction of a pipe.
// Bursts beyond it surface as iox.ErrWouldBlock to TrySend and as
// backoff inside Send.
const channelCapacity = 64

// sessionContext holds the lock-free transport for a single endpoint.
// Each direction is a single-producer single-consumer bounded queue;
// sendMu and recvMu keep that true when several goroutines share an
// endpoint.
type sessionContext struct {
	sendMu sync.Mutex
	recvMu sync.Mutex
	sendQ  *lfq.SPSC[string]
	recvQ  *lfq.SPSC[string]
	closed *atomix.Uint32
}

// Endpoint represents one side of an established message channel.
type Endpoint struct {
	ctx    sessionContext
	serial Serial
}

// Serial returns the serial number assigned to this endpoint's session.
func (ep *Endpoint) Serial() Serial {
	return ep.serial
}

// Closed reports whether either side has closed the pipe.
func (ep *Endpoint) Closed() bool {
	return ep.ctx.closed.Load() != 0
}

// Close closes the pipe for both sides. Messages already queued can
// still be received; further sends fail. Close is idempotent.
func (ep *Endpoint) Close() error {
	ep.ctx.closed.Add(1)
	return nil
}

// TrySend enqueues msg for the peer without blocking.
// Returns iox.ErrWouldBlock if the queue is full and ErrChannelClosed
// if the pipe has been closed.
func (ep *Endpoint) TrySend(msg string) error {
	if ep.Closed() {
		return ErrChannelClosed
	}
	ep.ctx.sendMu.Lock()
	defer ep.ctx.sendMu.Unlock()
	return ep.ctx.sendQ.Enqueue(&msg)
}

// Send enqueues msg for the peer, backing off while the queue is full.
// It waits for as long as the peer does not drain the queue; use
// SendContext to bound the wait.
func (ep *Endpoint) Send(msg string) error {
	return ep.SendContext(context.Background(), msg)
}

// SendContext is Send that gives up with ctx's error when ctx ends
// before the queue has room. The endpoint is not held while waiting,
// so one stalled sender does not block others past their own contexts.
func (ep *Endpoint) SendContext(ctx context.Context, msg string) error {
	var bo iox.Backoff
	for {
		err := ep.TrySend(msg)
		if !iox.IsWouldBlock(err) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		bo.Wait()
	}
}

// TryRecv dequeues the next message from the peer without blocking.
// Returns iox.ErrWouldBlock if nothing is queued. Once the pipe is
// closed and drained it returns ErrChannelClosed.
func (ep *Endpoint) TryRecv() (string, error) {
	ep.ctx.recvMu.Lock()
	defer ep.ctx.recvMu.Unlock()
	msg, err := ep.ctx.recvQ.Dequeue()
	if err == nil {
		return msg, nil
	}
	if iox.IsWouldBlock(err) && ep.Closed() {
		return "", ErrChannelClosed
	}
	return "", err
}

// Recv waits for the next message from the peer, backing off while the
// queue is empty. It returns early when ctx ends or the pipe is closed
// and drained.
func (ep *Endpoint) Recv(ctx context.Context) (string, error) {
	var bo iox.Backoff
	for {
		msg, err := ep.TryRecv()
		if err == nil || !iox.IsWouldBlock(err) {
			return msg, err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		bo.Wait()
	}
}

// endpointPair holds both endpoints, queues, and shared state
// in a single allocation.
type endpointPair struct {
	a      Endpoint
	b      Endpoint
	closed atomix.Uint32
	dataAB lfq.SPSC[string]
	dataBA lfq.SPSC[string]
}

// NewPipe creates a connected pair of endpoints. By convention the first
// is kept by the host and the second handed to the script runtime.
// Delivery is FIFO per direction; the two directions are independent.
func NewPipe() (*Endpoint, *Endpoint) {
	s := nextSerial()

	pair := &endpointPair{}
	pair.dataAB.Init(channelCapacity)
	pair.dataBA.Init(channelCapacity)

	pair.a.ctx.sendQ = &pair.dataAB
	pair.a.ctx.recvQ = &pair.dataBA
	pair.a.ctx.closed = &pair.closed
	pair.a.serial = s

	pair.b.ctx.sendQ = &pair.dataBA
	pair.b.ctx.recvQ = &pair.dataAB
	pair.b.ctx.closed = &pair.closed
	pair.b.serial = s
	return &pair.a, &pair.b
}
