// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"time"

	"code.hybscloud.com/kont"
	"go.uber.org/zap"
)

// dispatch hands msg to a worker, waiting for a free slot first.
// Arrival order is kept up to this point; completion order is not.
func (b *Bridge) dispatch(ctx context.Context, msg string) error {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	go func() {
		defer b.sem.Release(1)
		b.handle(ctx, msg)
	}()
	return nil
}

// handle processes one inbound message.
func (b *Bridge) handle(ctx context.Context, msg string) {
	start := time.Now()
	defer func() { b.cfg.metrics.Duration(bucketDispatch, time.Since(start)) }()

	env, err := Decode(msg)
	if err != nil {
		b.cfg.metrics.Incr(bucketMalformed)
		b.log.Warn("dropping malformed message", zap.Int("length", len(msg)), zap.Error(err))
		return
	}
	switch e := env.(type) {
	case Response:
		b.complete(e.ID, kont.Right[*Error, any](e.Value))
	case ErrorResponse:
		b.complete(e.ID, kont.Left[*Error, any](e.Err))
	case Request:
		b.serve(ctx, e)
	}
}

// complete resolves a pending host-initiated call. Outcomes for ids
// that are not pending are discarded.
func (b *Bridge) complete(id string, out Outcome) {
	if b.reg.resolve(id, out) {
		b.cfg.metrics.Incr(bucketResolve)
		return
	}
	b.cfg.metrics.Incr(bucketStale)
	b.log.Warn("no request for id", zap.String("id", id), zap.Error(ErrStaleResolution))
}

// serve answers one runtime-initiated request with exactly one response
// or error response carrying the request's id.
func (b *Bridge) serve(ctx context.Context, req Request) {
	value, failure := b.invoke(ctx, req)

	var reply Envelope = Response{ID: req.ID, Value: value}
	if failure != nil {
		reply = ErrorResponse{ID: req.ID, Err: failure}
	}
	text, err := Encode(reply)
	if err != nil {
		// result not representable as JSON
		failure = wrapError(KindHandlerFailure, err, "encode result of "+req.Method)
		text, err = Encode(ErrorResponse{ID: req.ID, Err: failure})
		if err != nil {
			b.log.Error("failed to encode reply", zap.String("id", req.ID), zap.Error(err))
			return
		}
	}
	if err := b.sendText(ctx, text); err != nil {
		b.log.Error("failed to send reply",
			zap.String("id", req.ID),
			zap.String("method", req.Method),
			zap.Error(err))
	}
}

// invoke runs the request against the session controls or the method
// table. A handler panic is recovered and reported as a failure.
func (b *Bridge) invoke(ctx context.Context, req Request) (value any, failure *Error) {
	defer func() {
		if r := recover(); r != nil {
			value, failure = nil, panicError(r)
			b.cfg.metrics.Incr(bucketHandlerFailure)
			b.log.Error("handler panicked", zap.String("method", req.Method), zap.Any("panic", r))
		}
	}()

	m, known := ParseMethod(req.Method)
	switch m {
	case MethodInit:
		if b.gates.current().signal() {
			b.log.Info("runtime ready")
		}
		return nil, nil
	case MethodReload:
		b.resetSession()
		if b.cfg.reloader == nil {
			return nil, nil
		}
		params, _ := req.Args.Map(0)
		if err := b.cfg.reloader(ctx, params); err != nil {
			return nil, b.failed(req, err)
		}
		return nil, nil
	}

	h, ok := b.cfg.handlers[m]
	if !known || !ok {
		b.cfg.metrics.Incr(bucketUnsupported)
		b.log.Info("unsupported method", zap.String("method", req.Method), zap.String("id", req.ID))
		return nil, Errorf(KindUnsupportedMethod, "unsupported method: %s", req.Method)
	}
	v, err := h.Handle(ctx, req.Args)
	if err != nil {
		return nil, b.failed(req, err)
	}
	return v, nil
}

func (b *Bridge) failed(req Request, err error) *Error {
	e := asHandlerError(err)
	b.cfg.metrics.Incr(bucketHandlerFailure)
	b.log.Info("handler failed",
		zap.String("method", req.Method),
		zap.String("kind", string(e.Kind)),
		zap.Error(err))
	return e
}
