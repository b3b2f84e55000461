// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"sync"

	"code.hybscloud.com/iox"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Bridge is the host side of a host/script-runtime channel. It owns the
// correlation registry, the readiness gate and the current endpoint;
// independent bridges share nothing but the session serial counter.
type Bridge struct {
	cfg   config
	id    string
	log   *zap.Logger
	ids   idSource
	reg   *registry
	gates *gates
	sem   *semaphore.Weighted

	mu      sync.Mutex
	ep      *Endpoint
	closed  bool
	swapped chan struct{}
}

// New returns a bridge with no channel established and the runtime not
// ready.
func New(opts ...Option) *Bridge {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	id := uuid.NewString()
	return &Bridge{
		cfg:     cfg,
		id:      id,
		log:     cfg.log.With(zap.String("bridge", id)),
		ids:     idSource{prefix: cfg.idPrefix},
		reg:     newRegistry(),
		gates:   newGates(),
		sem:     semaphore.NewWeighted(cfg.workers),
		swapped: make(chan struct{}, 1),
	}
}

// ID returns the instance id used in log fields.
func (b *Bridge) ID() string {
	return b.id
}

// Establish creates a fresh pipe, keeps the host end and returns the
// runtime end, also passing it to the handoff collaborator if one is
// configured. It is called when the runtime asks for its channel;
// calling it again replaces and closes the previous host endpoint.
// If the handoff fails the new pipe is discarded and the previous
// endpoint, if any, stays current.
func (b *Bridge) Establish() (*Endpoint, error) {
	if b.isClosed() {
		return nil, Errorf(KindChannelClosed, "bridge closed")
	}
	host, peer := NewPipe()

	if b.cfg.handoff != nil {
		if err := b.cfg.handoff(peer); err != nil {
			host.Close()
			b.log.Warn("failed to hand off runtime endpoint",
				zap.Uint32("session", host.Serial()),
				zap.Error(err))
			return nil, wrapError(KindChannelNotReady, err, "hand off runtime endpoint")
		}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		host.Close()
		return nil, Errorf(KindChannelClosed, "bridge closed")
	}
	old := b.ep
	b.ep = host
	b.mu.Unlock()

	if old != nil {
		old.Close()
	}
	select {
	case b.swapped <- struct{}{}:
	default:
	}
	b.log.Info("channel established", zap.Uint32("session", host.Serial()))
	return peer, nil
}

func (b *Bridge) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Bridge) endpoint() *Endpoint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ep
}

// sendText writes text to the current endpoint, waiting while the
// runtime is not draining it until ctx ends.
func (b *Bridge) sendText(ctx context.Context, text string) error {
	ep := b.endpoint()
	if ep == nil {
		return Errorf(KindChannelNotReady, "channel not established")
	}
	return ep.SendContext(ctx, text)
}

// Serve receives from the current endpoint and dispatches every message
// on a bounded worker until ctx ends. It follows re-establishment, so
// one Serve covers every session of the bridge. Serve has the signature
// of a suture.Service.
func (b *Bridge) Serve(ctx context.Context) error {
	var bo iox.Backoff
	for {
		ep := b.endpoint()
		if ep == nil {
			if err := b.awaitSwap(ctx); err != nil {
				return err
			}
			continue
		}

		msg, err := ep.TryRecv()
		switch {
		case err == nil:
			bo.Reset()
			if err := b.dispatch(ctx, msg); err != nil {
				return err
			}
		case iox.IsWouldBlock(err):
			if err := ctx.Err(); err != nil {
				return err
			}
			bo.Wait()
		default:
			// closed and drained
			if b.endpoint() != ep {
				continue
			}
			b.log.Debug("channel drained", zap.Uint32("session", ep.Serial()))
			if err := b.awaitSwap(ctx); err != nil {
				return err
			}
		}
	}
}

func (b *Bridge) awaitSwap(ctx context.Context) error {
	select {
	case <-b.swapped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether the runtime has completed startup in the
// current session.
func (b *Bridge) Ready() bool {
	return b.gates.current().isReady()
}

// WaitReady waits until the runtime has completed startup in the
// current session. It fails with KindSessionReset if the session is
// reloaded first.
func (b *Bridge) WaitReady(ctx context.Context) error {
	if err := b.gates.current().wait(ctx); err != nil {
		return err
	}
	return nil
}

// Pending returns the number of host-initiated calls awaiting a response.
func (b *Bridge) Pending() int {
	return b.reg.len()
}

// Reload starts a new session: the readiness gate is reset first, then
// the reloader collaborator restarts the runtime. Calls issued from now
// on wait for the new session's init.
func (b *Bridge) Reload(ctx context.Context, params map[string]any) error {
	b.resetSession()
	if b.cfg.reloader == nil {
		return nil
	}
	if err := b.cfg.reloader(ctx, params); err != nil {
		return asError(err, KindHandlerFailure)
	}
	return nil
}

func (b *Bridge) resetSession() {
	b.gates.reset()
	b.log.Info("session reset", zap.Int("pending", b.reg.len()))
}

// Close closes the current endpoint. Establish fails afterwards.
// Pending calls are left as they are.
func (b *Bridge) Close() error {
	b.mu.Lock()
	ep := b.ep
	b.closed = true
	b.mu.Unlock()
	if ep != nil {
		return ep.Close()
	}
	return nil
}
