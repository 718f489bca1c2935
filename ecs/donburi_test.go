package ecs

import (
	"testing"

	"github.com/phanxgames/stagehand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []stagehand.Event
	EventType.Subscribe(world, func(w donburi.World, e stagehand.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(stagehand.Event{
		Kind:   stagehand.EventMouseDown,
		Pos:    stagehand.Vec2{X: 100, Y: 200},
		Button: stagehand.MouseButtonLeft,
	})
	sink.EmitEvent(stagehand.Event{Kind: stagehand.EventKeyDown, Key: "a", Code: 65})

	// Nothing is delivered until the queue is processed.
	if len(received) != 0 {
		t.Fatalf("delivered before ProcessEvents: %d", len(received))
	}
	EventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Kind != stagehand.EventMouseDown || e.Pos != (stagehand.Vec2{X: 100, Y: 200}) {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Kind != stagehand.EventKeyDown || e.Key != "a" {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	EventType.Subscribe(world, func(w donburi.World, e stagehand.Event) { count1++ })
	EventType.Subscribe(world, func(w donburi.World, e stagehand.Event) { count2++ })

	sink.EmitEvent(stagehand.Event{Kind: stagehand.EventMouseUp})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
