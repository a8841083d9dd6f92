package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"rugfork-backend/ledger"
	"rugfork-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupEventRoutes exposes the audit event log as a live SSE stream.
// EventSource clients authenticate via query param (they cannot set
// headers), so the gateway token is passed explicitly.
func SetupEventRoutes(app *fiber.App, events *ledger.EventLog, serviceToken string) {
	app.Get("/events/stream", middleware.SSEAuthMiddleware(serviceToken), func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		lastSeq := events.LastSeq()

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()

			// Initial keepalive (comment event)
			w.WriteString(":\n\n")
			w.Flush()

			for {
				select {
				case <-ticker.C:
					fresh := events.Since(lastSeq)
					if len(fresh) == 0 {
						continue
					}
					lastSeq = fresh[len(fresh)-1].Seq

					for _, ev := range fresh {
						payload, _ := json.Marshal(ev)
						fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
					}

					if err := w.Flush(); err != nil {
						// Client disconnected
						return
					}

				case <-c.Context().Done():
					return
				}
			}
		})

		return nil
	})
}
