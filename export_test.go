// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import "context"

type (
	Registry = registry
	Gates    = gates
	Gate     = gate
)

func NewRegistry() *Registry { return newRegistry() }

func (r *registry) Register(id string) (*Future, error) {
	f := newFuture()
	return f, r.register(id, f)
}

func (r *registry) Resolve(id string, out Outcome) bool { return r.resolve(id, out) }
func (r *registry) Len() int                             { return r.len() }

func NewGates() *Gates { return newGates() }

func (gs *gates) Current() *Gate { return gs.current() }
func (gs *gates) Reset()         { gs.reset() }

func (g *gate) Signal() bool { return g.signal() }
func (g *gate) Ready() bool  { return g.isReady() }

func (g *gate) Wait(ctx context.Context) error {
	if err := g.wait(ctx); err != nil {
		return err
	}
	return nil
}

// SignalReady opens the current gate without a runtime handshake.
func SignalReady(b *Bridge) { b.gates.current().signal() }
