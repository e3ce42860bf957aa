package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// publishEvent emits a gateway event on the bus. Best-effort: a gateway
// without a bus still serves every request.
func (a *API) publishEvent(kind string, payload map[string]any) {
	if a.store.Bus == nil || kind == "" {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := a.store.Bus.Publish(eventSubjectPrefix+kind, data); err != nil {
		a.log.Warn().Err(err).Str("kind", kind).Msg("event publish failed")
	}
}

// handleEvents bridges bus events onto a server-sent event stream so browser
// clients can follow admin and market changes without polling.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	if a.store.Bus == nil {
		respondError(w, http.StatusServiceUnavailable, errors.New("events unavailable"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	msgs := make(chan *nats.Msg, 16)
	sub, err := a.store.Bus.ChanSubscribe(eventSubjectPrefix+">", msgs)
	if err != nil {
		a.log.Error().Err(err).Msg("event subscription failed")
		respondError(w, http.StatusServiceUnavailable, errors.New("events unavailable"))
		return
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-msgs:
			event := strings.TrimPrefix(msg.Subject, eventSubjectPrefix)
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, msg.Data)
			flusher.Flush()
		case <-keepalive.C:
			_, _ = fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
