// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"code.hybscloud.com/bridge"
	"code.hybscloud.com/iox"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const waitTimeout = 5 * time.Second

// runtime plays the script-runtime side of a bridge in tests.
// Only the test goroutine receives on it.
type runtime struct {
	tb  testing.TB
	ep  *bridge.Endpoint
	seq int
}

// startBridge builds a bridge with an observed logger, serves it until
// the test ends and establishes the channel.
func startBridge(tb testing.TB, opts ...bridge.Option) (*bridge.Bridge, *runtime, *observer.ObservedLogs) {
	tb.Helper()
	core, logs := observer.New(zap.DebugLevel)
	opts = append([]bridge.Option{bridge.WithLogger(zap.New(core))}, opts...)
	b := bridge.New(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Serve(ctx)
	}()
	tb.Cleanup(func() {
		cancel()
		<-done
		b.Close()
	})

	peer, err := b.Establish()
	if err != nil {
		tb.Fatalf("establish: %v", err)
	}
	return b, &runtime{tb: tb, ep: peer}, logs
}

func (r *runtime) send(env bridge.Envelope) {
	r.tb.Helper()
	text, err := bridge.Encode(env)
	if err != nil {
		r.tb.Fatalf("encode: %v", err)
	}
	if err := r.ep.Send(text); err != nil {
		r.tb.Fatalf("send: %v", err)
	}
}

func (r *runtime) sendText(text string) {
	r.tb.Helper()
	if err := r.ep.Send(text); err != nil {
		r.tb.Fatalf("send: %v", err)
	}
}

// request sends a runtime-initiated request and returns its id.
func (r *runtime) request(method string, args ...any) string {
	r.tb.Helper()
	id := strconv.Itoa(r.seq)
	r.seq++
	if args == nil {
		args = []any{}
	}
	r.send(bridge.Request{ID: id, Method: method, Args: args})
	return id
}

func (r *runtime) recv() bridge.Envelope {
	r.tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	text, err := r.ep.Recv(ctx)
	if err != nil {
		r.tb.Fatalf("recv: %v", err)
	}
	env, err := bridge.Decode(text)
	if err != nil {
		r.tb.Fatalf("decode %q: %v", text, err)
	}
	return env
}

// expectSilence fails if anything arrives within d.
func (r *runtime) expectSilence(d time.Duration) {
	r.tb.Helper()
	time.Sleep(d)
	text, err := r.ep.TryRecv()
	if !iox.IsWouldBlock(err) {
		r.tb.Fatalf("unexpected message %q (err=%v)", text, err)
	}
}

// handshake sends init and consumes its response.
func (r *runtime) handshake() {
	r.tb.Helper()
	id := r.request("init")
	env := r.recv()
	resp, ok := env.(bridge.Response)
	if !ok || resp.ID != id || resp.Value != nil {
		r.tb.Fatalf("init: got %#v, want null response for %s", env, id)
	}
}

func waitFor(tb testing.TB, what string, cond func() bool) {
	tb.Helper()
	deadline := time.Now().Add(waitTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			tb.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func await(tb testing.TB, f *bridge.Future) (any, error) {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	v, err := f.Await(ctx)
	if bridge.KindOf(err) == bridge.KindCanceled && ctx.Err() != nil {
		tb.Fatalf("future %s did not complete", f.ID())
	}
	return v, err
}
