package api

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// keepAliveInterval spaces out comment frames on idle streams so proxies
// do not close them.
var keepAliveInterval = 25 * time.Second

// streamEvents writes every value from ch as a server-sent event named
// event until ch closes or the client goes away.
func streamEvents[T any](c *gin.Context, event string, ch <-chan T) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case v, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(event, v)
			return true
		case <-ticker.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			return err == nil
		case <-c.Request.Context().Done():
			return false
		}
	})
}
