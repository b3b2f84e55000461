// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"time"

	"go.uber.org/zap"
	"gopkg.in/alexcesaro/statsd.v2"
)

// Metric buckets.
const (
	bucketCall           = "call"
	bucketResolve        = "resolve"
	bucketStale          = "stale"
	bucketMalformed      = "malformed"
	bucketUnsupported    = "unsupported"
	bucketHandlerFailure = "handler.failure"
	bucketDispatch       = "dispatch"
)

// Metrics receives bridge counters and timings.
type Metrics interface {
	Incr(bucket string)
	Duration(bucket string, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) Incr(string)                    {}
func (nopMetrics) Duration(string, time.Duration) {}

// StatsdMetrics reports to a statsd daemon.
type StatsdMetrics struct{ *statsd.Client }

// NewStatsdMetrics returns Metrics backed by a statsd client at addr,
// with buckets prefixed by "bridge". If the client cannot be set up,
// the failure is logged and a no-op implementation is returned.
func NewStatsdMetrics(addr string, log *zap.Logger) Metrics {
	if log == nil {
		log = zap.NewNop()
	}
	c, err := statsd.New(
		statsd.Address(addr),
		statsd.Prefix("bridge"),
		statsd.FlushPeriod(250*time.Millisecond),
		statsd.ErrorHandler(func(err error) {
			log.Warn("failed to send metrics", zap.String("statsd", addr), zap.Error(err))
		}))
	if err != nil {
		log.Warn("setup failed for statsd metrics", zap.Error(err))
		return nopMetrics{}
	}
	return StatsdMetrics{c}
}

func (m StatsdMetrics) Incr(bucket string) {
	m.Client.Increment(bucket)
}

func (m StatsdMetrics) Duration(bucket string, d time.Duration) {
	m.Client.Timing(bucket, d.Milliseconds())
}
