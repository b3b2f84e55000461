// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"sync"
	"time"

	"code.hybscloud.com/kont"
)

// Outcome is the result of a call: Left carries the failure,
// Right the decoded value.
type Outcome = kont.Either[*Error, any]

// Future is the single-assignment outcome of one host-initiated call.
type Future struct {
	created time.Time
	done    chan struct{}

	mu  sync.Mutex
	id  string
	out Outcome
}

func newFuture() *Future {
	return &Future{created: time.Now(), done: make(chan struct{})}
}

// ID returns the call identifier, or "" while the call is still
// waiting for the runtime to become ready.
func (f *Future) ID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *Future) setID(id string) {
	f.mu.Lock()
	f.id = id
	f.mu.Unlock()
}

// Created returns the submission time.
func (f *Future) Created() time.Time {
	return f.created
}

// Done is closed once the outcome is assigned.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Outcome returns the outcome without waiting. ok is false while the
// call is still pending.
func (f *Future) Outcome() (out Outcome, ok bool) {
	select {
	case <-f.done:
		return f.out, true
	default:
		return out, false
	}
}

// Await waits for the outcome or for ctx to end. Ending ctx does not
// withdraw the call.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, wrapError(KindCanceled, ctx.Err(), "await")
	}
	if e, ok := f.out.GetLeft(); ok {
		return nil, e
	}
	v, _ := f.out.GetRight()
	return v, nil
}

// complete assigns the outcome. Only the first call has any effect.
func (f *Future) complete(out Outcome) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.done:
		return false
	default:
	}
	f.out = out
	close(f.done)
	return true
}

func (f *Future) fail(err *Error) bool {
	return f.complete(kont.Left[*Error, any](err))
}
