// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"

	"github.com/thejerf/suture/v4"
	"go.uber.org/zap"
)

// String names the bridge in supervisor events.
func (b *Bridge) String() string {
	return "bridge-" + b.id
}

// ListenAndServe runs Serve under a supervisor that restarts it if it
// fails or panics, until ctx ends.
func (b *Bridge) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sup := suture.New(b.String(), suture.Spec{
		EventHook: b.onEvent,
	})
	sup.Add(b)
	return sup.Serve(ctx)
}

func (b *Bridge) onEvent(event suture.Event) {
	switch e := event.(type) {
	case suture.EventStopTimeout:
		b.log.Error("shutdown failed", zap.Stringer("event", e))
	case suture.EventServicePanic:
		b.log.Error("crashed",
			zap.String("panic", e.PanicMsg),
			zap.String("stack", e.Stacktrace))
	case suture.EventServiceTerminate:
		b.log.Warn("terminated",
			zap.Any("error", e.Err),
			zap.Bool("restarting", e.Restarting))
	case suture.EventBackoff:
		b.log.Info("paused", zap.Stringer("event", e))
	case suture.EventResume:
		b.log.Info("resumed", zap.Stringer("event", e))
	}
}
