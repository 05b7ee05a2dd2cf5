package serve

import (
	"fmt"
	"net/http"
	"sync"

	"git.home.luguber.info/inful/md2html/internal/metrics"
)

// LiveReloadHub manages SSE clients for rebuild broadcasts.
type LiveReloadHub struct {
	mu      sync.Mutex
	nextID  int
	clients map[int]chan string
	rec     metrics.Recorder
}

// NewLiveReloadHub creates a hub. A nil recorder falls back to noop.
func NewLiveReloadHub(rec metrics.Recorder) *LiveReloadHub {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &LiveReloadHub{clients: map[int]chan string{}, rec: rec}
}

// Broadcast notifies every connected client that a rebuild completed. Slow
// clients are skipped rather than blocked on.
func (h *LiveReloadHub) Broadcast(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- token:
		default:
		}
	}
}

// ServeHTTP implements the SSE endpoint at /livereload.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.clients[id] = ch
	h.mu.Unlock()
	h.rec.IncLiveReloadConnections()

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
	}()

	fmt.Fprintf(w, "event: hello\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case token := <-ch:
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", token)
			flusher.Flush()
		}
	}
}
