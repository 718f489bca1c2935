package ecs

import (
	"github.com/phanxgames/stagehand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EventType is the Donburi event type for stagehand input events.
var EventType = events.NewEventType[stagehand.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Events are queued on EventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) stagehand.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(ev stagehand.Event) {
	EventType.Publish(s.world, ev)
}
