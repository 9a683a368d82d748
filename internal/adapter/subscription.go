package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MKhiriev/go-stock-keeper/models"
)

// Subscribe implements [DocumentStore] by polling Query every pollInterval.
// A snapshot is delivered first, then only when the result changes; after a
// failed poll the next successful one is always delivered.
//
// Callbacks run on the polling goroutine, one at a time. Unsubscribe does
// not wait for a callback that is already running.
func (h *httpServerAdapter) Subscribe(ctx context.Context, q models.DocumentQuery, onSnapshot func([]models.Document), onError func(error)) Unsubscribe {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(h.pollInterval)
		defer ticker.Stop()

		var last []byte
		poll := func() {
			docs, err := h.Query(ctx, q)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				h.logger.Err(err).
					Str("func", "httpServerAdapter.Subscribe").
					Str("collection", q.Collection).
					Msg("subscription poll failed")
				last = nil
				if onError != nil {
					onError(err)
				}
				return
			}

			fingerprint, err := json.Marshal(docs)
			if err == nil && last != nil && bytes.Equal(fingerprint, last) {
				return
			}
			last = fingerprint
			onSnapshot(docs)
		}

		poll()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				poll()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}
