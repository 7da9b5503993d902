package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementRenders holds one point per render attempt.
const MeasurementRenders = "renders"

// WriteRender records a render outcome.
//
// The point is tagged with origin and status and carries bytes and
// duration_ms fields. Writes are non-blocking; failures surface through
// SetOnError.
//
// Example:
//
//	client.WriteRender("request", "succeeded", 48213, 1200*time.Millisecond)
func (c *Client) WriteRender(origin, status string, bytes int, duration time.Duration) {
	tags := map[string]string{
		"origin": origin,
		"status": status,
	}
	c.WritePoint(MeasurementRenders, tags, map[string]any{
		"bytes":       bytes,
		"duration_ms": duration.Milliseconds(),
	})
}

// WritePoint writes a point stamped with the current time.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
