// Package ecs bridges stagehand input events into an ECS world.
//
// The primary adapter is [NewDonburiSink], which republishes every event the
// driver dispatches into a [Donburi] world as a typed event. Subscribe to
// [EventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	driver.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
