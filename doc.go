// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bridge turns a single ordered text-message channel between a host
// process and an embedded script runtime into an asynchronous request/response
// protocol with calls flowing in both directions.
//
// # Architecture
//
//   - Transport: [NewPipe] creates a linked [Endpoint] pair backed by bounded lock-free
//     SPSC queues from [code.hybscloud.com/lfq], one per direction.
//   - Non-blocking: [Endpoint.TrySend] and [Endpoint.TryRecv] return
//     [code.hybscloud.com/iox.ErrWouldBlock] on backpressure; [Endpoint.Send] and
//     [Endpoint.Recv] wait past it with adaptive backoff.
//   - Codec: one JSON object per message, see [Request], [Response] and [ErrorResponse].
//   - Correlation: host-initiated calls are tracked by id until exactly one
//     response or error response resolves them.
//   - Readiness: host-initiated calls wait until the runtime has sent "init";
//     a reload swaps in a fresh gate so stale callers are never released by the
//     next session.
//   - Outcomes: every [Future] completes with a [code.hybscloud.com/kont.Either]
//     holding an [*Error] on the left or the decoded value on the right.
//
// # Lifecycle
//
//	b := bridge.New(bridge.WithHandlers(handlers), bridge.WithLogger(log))
//	go b.Serve(ctx)
//
//	peer, _ := b.Establish() // runtime asks for its end of the channel
//	// ... runtime sends {"type":"request","requestType":"init",...}
//
//	v, err := b.Call(ctx, "updateTheme", theme).Await(ctx)
//
// [Bridge.Serve] has the signature of a suture service, so a bridge can be
// added to a supervisor tree; [Bridge.ListenAndServe] runs it under its own.
package bridge
