package middleware

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that fell through every route.
const unmatchedRoute = "unmatched"

// Metrics counts finished requests by matched route and status code.
// Errors returned by handlers are counted with the status the app's error
// handler will use for them.
func Metrics(requests *prometheus.CounterVec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound {
			route = unmatchedRoute
		}

		requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		return err
	}
}
