// services/sse_notification_service.go
package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// StreamInterval is how often the SSE stream polls for new notifications.
var StreamInterval = 2 * time.Second

// StreamNotificationsSSE streams notifications created after the stream opened.
func (s *NotificationService) StreamNotificationsSSE(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	// The request context is recycled once the handler returns; the writer gets its own.
	cursor := time.Now()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(StreamInterval)
		defer ticker.Stop()

		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for range ticker.C {
			fresh, err := s.Repo.ListSince(context.Background(), userID, cursor)
			if err != nil {
				log.Printf("[SSE] query error for user %s: %v", userID, err)
				continue
			}

			if len(fresh) == 0 {
				// keepalive; a failed flush means the client went away
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return
				}
				continue
			}

			cursor = fresh[len(fresh)-1].CreatedAt
			for _, n := range fresh {
				payload, _ := json.Marshal(n)
				fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}
