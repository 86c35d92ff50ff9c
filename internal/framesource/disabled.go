package framesource

import (
	"context"
	"net/http"
	"sync"
)

// DisabledSource is a no-op Source implementation used when no detector is
// attached. It allows the server and admin routes to run without a frame
// stream. Subscribers are tracked so their channels can be deterministically
// closed on Unsubscribe() or Close(), allowing readers to unblock predictably
// during shutdown.
type DisabledSource struct {
	mu          sync.Mutex
	subscribers map[string]chan string
	closing     bool
}

func NewDisabledSource() *DisabledSource {
	return &DisabledSource{
		subscribers: make(map[string]chan string),
	}
}

func (d *DisabledSource) Subscribe() (string, chan string) {
	id := randomID()
	ch := make(chan string)

	d.mu.Lock()
	if d.closing {
		// If already closing, return a closed channel so callers don't block.
		close(ch)
		d.mu.Unlock()
		return id, ch
	}
	d.subscribers[id] = ch
	d.mu.Unlock()
	return id, ch
}

func (d *DisabledSource) Unsubscribe(id string) {
	d.mu.Lock()
	if ch, ok := d.subscribers[id]; ok {
		close(ch)
		delete(d.subscribers, id)
	}
	d.mu.Unlock()
}

func (d *DisabledSource) Monitor(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }

func (d *DisabledSource) Close() error {
	d.mu.Lock()
	if d.closing {
		d.mu.Unlock()
		return nil
	}
	d.closing = true
	for id, ch := range d.subscribers {
		close(ch)
		delete(d.subscribers, id)
	}
	d.mu.Unlock()
	return nil
}

func (d *DisabledSource) AttachAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/source-disabled", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("frame source disabled"))
	})
}
