package events

import (
	"time"

	"github.com/kilianp07/washroute/core/model"
)

// Event is implemented by every session event.
type Event interface {
	Kind() string
	At() time.Time
}

// OrdersEvent is published when orders are created or advanced.
// Action is "added" or "advanced". Orders holds the whole order book after
// the change.
type OrdersEvent struct {
	Action        string
	Orders        []model.Order
	ActiveHelpers int
	TotalHelpers  int
	Time          time.Time
}

func (e OrdersEvent) Kind() string  { return "orders" }
func (e OrdersEvent) At() time.Time { return e.Time }

// PlansScoredEvent carries the metrics of a scoring pass.
type PlansScoredEvent struct {
	Metrics []model.PlanMetrics
	Best    model.PlanID
	Time    time.Time
}

func (e PlansScoredEvent) Kind() string  { return "plans_scored" }
func (e PlansScoredEvent) At() time.Time { return e.Time }

// PlanSelectedEvent is published after a plan selection was recorded.
type PlanSelectedEvent struct {
	Entry     model.PlanHistoryEntry
	VehicleID string
	HelperID  string
	Time      time.Time
}

func (e PlanSelectedEvent) Kind() string  { return "plan_selected" }
func (e PlanSelectedEvent) At() time.Time { return e.Time }

// CollisionEvent reports the assignment created for a collision.
type CollisionEvent struct {
	Collision        model.CollisionEvent
	Assignment       model.DispatchAssignment
	Status           model.AssetTransferStatus
	SearchRadiusKm   float64
	BonusMultiplier  float64
	RescueEtaSeconds float64
	TrunkUnlocked    bool
	Time             time.Time
}

func (e CollisionEvent) Kind() string  { return "collision" }
func (e CollisionEvent) At() time.Time { return e.Time }

// TransferEvent is published when an order's cargo reaches the rescuer.
type TransferEvent struct {
	OrderID  string
	Attempts int
	Time     time.Time
}

func (e TransferEvent) Kind() string  { return "transfer" }
func (e TransferEvent) At() time.Time { return e.Time }

// StrikeEvent reports an integrity strike.
type StrikeEvent struct {
	OrderID  string
	HelperID string
	Reason   string
	Record   model.HelperIntegrity
	Time     time.Time
}

func (e StrikeEvent) Kind() string  { return "strike" }
func (e StrikeEvent) At() time.Time { return e.Time }
