// Package mqtt publishes render events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Render outcome events on resumed/render/<status>
//   - A retained online/offline status with Last Will and Testament
//
// # Topics
//
//	resumed/render/succeeded   one message per successful render
//	resumed/render/failed      one message per failed render
//	resumed/system/status      retained {"status":"online"|"offline",...}
//
// # Security Considerations
//
//   - Use TLS (cfg.Broker.TLS=true) when the broker is not on localhost
//   - Set credentials via RESUMED_MQTT_USERNAME / RESUMED_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	svc := render.New(render.Options{Publisher: mqtt.NewEventPublisher(client)})
package mqtt
