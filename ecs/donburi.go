package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/psys"
)

// SystemEventType is the Donburi event type for psys lifecycle events.
var SystemEventType = events.NewEventType[psys.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on SystemEventType and delivered by events.ProcessAllEvents or
// SystemEventType.ProcessEvents.
func NewDonburiSink(world donburi.World) psys.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event psys.Event) {
	SystemEventType.Publish(s.world, event)
}
