// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"sync"
)

// gate is the readiness barrier of one session. ready is closed by
// signal; retired is closed when a reload replaces the gate.
type gate struct {
	ready   chan struct{}
	retired chan struct{}
	signal  func() bool
	retire  func()
}

func newGate() *gate {
	g := &gate{
		ready:   make(chan struct{}),
		retired: make(chan struct{}),
	}
	var readyOnce, retireOnce sync.Once
	g.signal = func() (fired bool) {
		readyOnce.Do(func() {
			close(g.ready)
			fired = true
		})
		return fired
	}
	g.retire = func() {
		retireOnce.Do(func() { close(g.retired) })
	}
	return g
}

func (g *gate) isReady() bool {
	select {
	case <-g.ready:
		return true
	default:
		return false
	}
}

// wait suspends until the gate opens. A retired gate never opens:
// wait then returns ErrSessionReset. Ready takes precedence over
// retired so a gate that opened before being replaced still admits.
func (g *gate) wait(ctx context.Context) *Error {
	select {
	case <-g.ready:
		return nil
	default:
	}
	select {
	case <-g.ready:
		return nil
	case <-g.retired:
		return Errorf(KindSessionReset, "session reloaded before the runtime became ready")
	case <-ctx.Done():
		return wrapError(KindCanceled, ctx.Err(), "waiting for runtime readiness")
	}
}

// gates holds the gate of the current session.
type gates struct {
	mu  sync.Mutex
	cur *gate
}

func newGates() *gates {
	return &gates{cur: newGate()}
}

func (gs *gates) current() *gate {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.cur
}

// reset swaps in a fresh not-ready gate and retires the old one.
// Waiters on the old gate are never released by the new session.
func (gs *gates) reset() *gate {
	gs.mu.Lock()
	old := gs.cur
	gs.cur = newGate()
	gs.mu.Unlock()
	old.retire()
	return old
}
