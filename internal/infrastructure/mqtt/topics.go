package mqtt

// TopicPrefix is the root of every topic this service publishes.
const TopicPrefix = "resumed"

// Topics provides builders for resumed MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.RenderEvent("failed") // "resumed/render/failed"
type Topics struct{}

// RenderEvent returns the topic for render outcome events.
//
// Example: resumed/render/succeeded
func (Topics) RenderEvent(status string) string {
	return TopicPrefix + "/render/" + status
}

// AllRenderEvents returns a wildcard matching every render event.
func (Topics) AllRenderEvents() string {
	return TopicPrefix + "/render/+"
}

// SystemStatus returns the retained online/offline status topic.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}
