package mqtt

import (
	"context"

	"github.com/texforge/resumed/internal/render"
)

// EventPublisher publishes render outcomes on resumed/render/<status>.
type EventPublisher struct {
	client *Client
}

// NewEventPublisher adapts c to render.Publisher.
func NewEventPublisher(c *Client) *EventPublisher {
	return &EventPublisher{client: c}
}

// PublishRenderEvent implements render.Publisher.
func (p *EventPublisher) PublishRenderEvent(ctx context.Context, ev render.Event) error {
	return p.client.PublishJSON(ctx, Topics{}.RenderEvent(string(ev.Status)), ev)
}
