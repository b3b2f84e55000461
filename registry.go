// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import "sync"

// registry maps outstanding host-initiated call ids to their futures.
// Lookup and removal happen under one lock so a future is handed out
// for resolution at most once.
type registry struct {
	mu      sync.Mutex
	pending map[string]*Future
}

func newRegistry() *registry {
	return &registry{pending: make(map[string]*Future)}
}

// register adds f under id. It fails with KindDuplicateID if id is
// already pending.
func (r *registry) register(id string, f *Future) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[id]; ok {
		return Errorf(KindDuplicateID, "id %s already pending", id)
	}
	r.pending[id] = f
	return nil
}

// take removes and returns the future for id.
func (r *registry) take(id string) (*Future, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	return f, ok
}

// resolve completes the pending call for id with out. It reports false
// if nothing was pending under id; the outcome is then discarded.
func (r *registry) resolve(id string, out Outcome) bool {
	f, ok := r.take(id)
	if !ok {
		return false
	}
	f.complete(out)
	return true
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
