// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"time"

	"go.uber.org/zap"
)

// defaultWorkers bounds how many inbound messages are processed at once.
const defaultWorkers = 64

// defaultIDPrefix is the side prefix of host-initiated call ids.
const defaultIDPrefix = "app"

type config struct {
	log       *zap.Logger
	metrics   Metrics
	handlers  Handlers
	reloader  Reloader
	handoff   func(*Endpoint) error
	idPrefix  string
	workers   int64
	timeout   time.Duration
	failStale bool
}

func defaultConfig() config {
	return config{
		log:      zap.NewNop(),
		metrics:  nopMetrics{},
		idPrefix: defaultIDPrefix,
		workers:  defaultWorkers,
	}
}

// Option configures a Bridge.
type Option func(*config)

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithHandlers sets the method table. The table is copied; later
// changes to hs have no effect.
func WithHandlers(hs Handlers) Option {
	return func(c *config) {
		c.handlers = make(Handlers, len(hs))
		for m, h := range hs {
			if h != nil {
				c.handlers[m] = h
			}
		}
	}
}

// WithReloader sets the collaborator that restarts the script runtime
// on reload.
func WithReloader(r Reloader) Option {
	return func(c *config) { c.reloader = r }
}

// WithHandoff sets the side channel through which Establish passes the
// runtime's end of a new pipe.
func WithHandoff(fn func(peer *Endpoint) error) Option {
	return func(c *config) { c.handoff = fn }
}

// WithIDPrefix sets the prefix of host-initiated call ids.
func WithIDPrefix(prefix string) Option {
	return func(c *config) { c.idPrefix = prefix }
}

// WithWorkers bounds concurrent processing of inbound messages.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = int64(n)
		}
	}
}

// WithCallTimeout fails host-initiated calls that have not completed
// within d of submission with KindCanceled. The default of zero leaves
// unanswered calls pending for the life of the bridge.
func WithCallTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithFailStaleCalls makes calls still waiting for readiness when the
// session is reloaded fail with KindSessionReset. By default they are
// abandoned and their futures never complete.
func WithFailStaleCalls(fail bool) Option {
	return func(c *config) { c.failStale = fail }
}
