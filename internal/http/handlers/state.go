package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"daraja/internal/daraja"
)

// CurrentState returns the latest driver snapshot.
func CurrentState(driver *daraja.Driver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(driver.State())
	}
}

// StreamState pushes every state transition as server-sent events, starting
// with the latest snapshot, until the client disconnects.
func StreamState(driver *daraja.Driver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		states, cancel := driver.Subscribe()
		defer cancel()

		for {
			select {
			case <-r.Context().Done():
				return
			case st, ok := <-states:
				if !ok {
					return
				}
				payload, err := json.Marshal(st)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
