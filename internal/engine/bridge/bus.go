package bridge

import (
	"context"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Bus carries events between the Go backend and the frontend map
type Bus interface {
	Emit(event string, data ...interface{})
	On(event string, cb func(data ...interface{})) (cancel func())
}

// wailsBus is the Wails runtime event bus
type wailsBus struct {
	ctx context.Context
}

// NewWailsBus returns a Bus over the Wails runtime of ctx, the context
// passed to the application's OnStartup hook
func NewWailsBus(ctx context.Context) Bus {
	return &wailsBus{ctx: ctx}
}

func (b *wailsBus) Emit(event string, data ...interface{}) {
	wailsRuntime.EventsEmit(b.ctx, event, data...)
}

func (b *wailsBus) On(event string, cb func(data ...interface{})) func() {
	return wailsRuntime.EventsOn(b.ctx, event, cb)
}
