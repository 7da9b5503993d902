// Package influxdb writes render metrics to InfluxDB v2.
//
// Every render attempt produces one point in the "renders" measurement:
//
//	renders,origin=request,status=succeeded bytes=48213i,duration_ms=1200i
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteRender("api", "failed", 0, 3*time.Second)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// Writes are batched according to batch_size and flush_interval.
package influxdb
