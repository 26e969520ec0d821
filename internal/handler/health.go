package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Broker is the slice of the publisher the status endpoint inspects.
type Broker interface {
	IsConnected() bool
	Topic() string
}

// SequenceSource reports the number of the most recently generated work
// order; the generator satisfies it.
type SequenceSource interface {
	LastWorkOrderNumber() int
}

// Health returns a JSON status response. Reports 503 while the broker
// session is down so the endpoint doubles as a liveness probe.
func Health(b Broker, seq SequenceSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		mqttStatus := "connected"
		status := http.StatusOK
		if !b.IsConnected() {
			mqttStatus = "disconnected"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":            status == http.StatusOK,
			"mqtt":          mqttStatus,
			"topic":         b.Topic(),
			"last_sequence": seq.LastWorkOrderNumber(),
		})
	}
}
