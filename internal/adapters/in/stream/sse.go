package stream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SSEHandler serves the dashboard event stream over Server-Sent Events.
// Each attached client gets the events committed while it is connected.
func SSEHandler(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set("Cache-Control", "no-cache")
		c.Response().Header().Set("Connection", "keep-alive")
		c.Response().WriteHeader(http.StatusOK)
		c.Response().Flush()

		session := hub.Attach()
		defer hub.Detach(session)

		ctx := c.Request().Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-session.C():
				if !ok {
					return nil
				}
				payload, err := json.Marshal(msg)
				if err != nil {
					return err
				}
				if _, err = fmt.Fprintf(c.Response(), "data: %s\n\n", payload); err != nil {
					return nil
				}
				c.Response().Flush()
			}
		}
	}
}
