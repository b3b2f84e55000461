// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"

	"go.uber.org/zap"
)

// Call invokes method on the script runtime and returns immediately.
// The request is sent once the runtime is ready; until then it waits
// without holding a worker. Every failure, including send failures, is
// delivered through the returned Future.
//
// The call belongs to the session current when Call is made: if that
// session is reloaded before its runtime becomes ready, the call is
// never sent.
//
// ctx bounds waiting for readiness, sending and the response. With a
// context that never ends and no WithCallTimeout, an unanswered call
// stays pending for the life of the bridge.
func (b *Bridge) Call(ctx context.Context, method string, args ...any) *Future {
	f := newFuture()
	b.cfg.metrics.Incr(bucketCall)
	cancel := context.CancelFunc(func() {})
	if b.cfg.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, b.cfg.timeout)
	}
	go b.submit(ctx, cancel, b.gates.current(), f, method, Args(args))
	return f
}

func (b *Bridge) submit(ctx context.Context, cancel context.CancelFunc, g *gate, f *Future, method string, args Args) {
	if err := g.wait(ctx); err != nil {
		defer cancel()
		if err.Kind == KindSessionReset && !b.cfg.failStale {
			b.log.Debug("call abandoned by session reset", zap.String("method", method))
			return
		}
		f.fail(err)
		return
	}

	id := b.ids.next()
	f.setID(id)
	text, err := Encode(Request{ID: id, Method: method, Args: args})
	if err != nil {
		cancel()
		f.fail(asError(err, KindMalformedEnvelope))
		return
	}
	if err := b.reg.register(id, f); err != nil {
		cancel()
		b.log.DPanic("call id already pending", zap.String("id", id), zap.String("method", method))
		f.fail(asError(err, KindDuplicateID))
		return
	}
	if err := b.sendText(ctx, text); err != nil {
		cancel()
		if pf, ok := b.reg.take(id); ok {
			if ctx.Err() != nil {
				pf.fail(wrapError(KindCanceled, ctx.Err(), "send call "+id))
			} else {
				pf.fail(asError(err, KindChannelNotReady))
			}
		}
		return
	}
	b.log.Debug("call sent", zap.String("id", id), zap.String("method", method))

	if ctx.Done() == nil {
		return
	}
	go func() {
		defer cancel()
		select {
		case <-f.Done():
		case <-ctx.Done():
			if pf, ok := b.reg.take(id); ok {
				pf.fail(wrapError(KindCanceled, ctx.Err(), "call "+id))
			}
		}
	}()
}
