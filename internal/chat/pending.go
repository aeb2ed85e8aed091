package chat

import (
	"context"
	"sync"
	"time"

	"github.com/studybuddy/backend/internal/llm"
)

// Pending is one in-flight generation call. It resolves exactly once: with
// the provider's reply, with context.DeadlineExceeded when the timeout
// fires first, or with context.Canceled after Cancel.
type Pending struct {
	done   chan struct{}
	once   sync.Once
	cancel context.CancelFunc
	timer  *time.Timer

	resp *llm.Response
	err  error
}

// Submit starts the call in the background.
func Submit(ctx context.Context, p llm.Provider, req llm.Request, timeout time.Duration) *Pending {
	callCtx, cancel := context.WithCancel(ctx)
	pd := &Pending{done: make(chan struct{}), cancel: cancel, timer: time.NewTimer(timeout)}

	go func() {
		select {
		case <-pd.timer.C:
			pd.resolve(nil, context.DeadlineExceeded)
		case <-pd.done:
		}
	}()

	go func() {
		resp, err := p.Generate(callCtx, req)
		pd.resolve(resp, err)
	}()
	return pd
}

func (p *Pending) resolve(resp *llm.Response, err error) {
	p.once.Do(func() {
		p.resp, p.err = resp, err
		p.timer.Stop()
		p.cancel()
		close(p.done)
	})
}

// Cancel abandons the call. It is a no-op once the call has resolved.
func (p *Pending) Cancel() {
	p.resolve(nil, context.Canceled)
}

// Done is closed when the call resolves.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the call resolves or ctx ends.
func (p *Pending) Wait(ctx context.Context) (*llm.Response, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
