package protocol

import (
	"mesh_flood/internal/dataType"
)

// Timer is a pending callback handed out by a Scheduler.
type Timer interface {
	Cancel()
}

// Scheduler owns logical time. The node asks it to call back at an absolute
// time and reschedules itself on every firing.
type Scheduler interface {
	ScheduleAt(at dataType.SimTime, fire func(now dataType.SimTime)) Timer
}

// Transport delivers a message to the sender's neighbors after delay.
// Delivery is fire-and-forget.
type Transport interface {
	Dispatch(from dataType.Address, msg *dataType.ProtocolMessage, delay dataType.SimTime)
}

// Telemetry receives counts for observability only.
type Telemetry interface {
	MessageSent(node dataType.Address, msg *dataType.ProtocolMessage, now dataType.SimTime)
	MessageReceived(node dataType.Address, msg *dataType.ProtocolMessage, now dataType.SimTime)
	MessageRelayed(node dataType.Address, msg *dataType.ProtocolMessage, now dataType.SimTime)
	DuplicateDropped(node dataType.Address, msg *dataType.ProtocolMessage, now dataType.SimTime)
	MalformedDropped(node dataType.Address, now dataType.SimTime)
	RoutingTableSize(node dataType.Address, size int)
}

type nopTelemetry struct{}

func (nopTelemetry) MessageSent(dataType.Address, *dataType.ProtocolMessage, dataType.SimTime) {}
func (nopTelemetry) MessageReceived(dataType.Address, *dataType.ProtocolMessage, dataType.SimTime) {}
func (nopTelemetry) MessageRelayed(dataType.Address, *dataType.ProtocolMessage, dataType.SimTime) {}
func (nopTelemetry) DuplicateDropped(dataType.Address, *dataType.ProtocolMessage, dataType.SimTime) {}
func (nopTelemetry) MalformedDropped(dataType.Address, dataType.SimTime) {}
func (nopTelemetry) RoutingTableSize(dataType.Address, int) {}
