// Package events defines the session events emitted on the event bus.
//
// Available event types:
//   - OrdersEvent: orders added or advanced
//   - PlansScoredEvent: a scoring pass completed
//   - PlanSelectedEvent: an operator picked a plan
//   - CollisionEvent: a collision was handled by the recovery state machine
//   - TransferEvent: cargo of an order was transferred
//   - StrikeEvent: a helper received an integrity strike
package events
