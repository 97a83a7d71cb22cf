package model

import "time"

// AssetTransferStatus tracks the physical goods of an order during a
// vehicle incident recovery.
type AssetTransferStatus string

const (
	AssetPending               AssetTransferStatus = "Pending"
	AssetInRescue              AssetTransferStatus = "InRescue"
	AssetTransferred           AssetTransferStatus = "Transferred"
	AssetPendingRescue         AssetTransferStatus = "PendingRescue"
	AssetSearchingForNewHelper AssetTransferStatus = "SearchingForNewHelper"
)

// IsRescue reports whether the goods are currently being rescued.
func (s AssetTransferStatus) IsRescue() bool {
	return s == AssetInRescue || s == AssetPendingRescue || s == AssetSearchingForNewHelper
}

// DispatchAssignmentStatus is the state of one re-dispatch attempt.
type DispatchAssignmentStatus string

const (
	AssignmentEnRoute   DispatchAssignmentStatus = "EnRoute"
	AssignmentAtScene   DispatchAssignmentStatus = "AtScene"
	AssignmentCompleted DispatchAssignmentStatus = "Completed"
)

// DispatchAssignment binds a helper and a vehicle to an order for one attempt.
type DispatchAssignment struct {
	ID        string                   `json:"id"`
	OrderID   string                   `json:"order_id"`
	HelperID  string                   `json:"helper_id"`
	VehicleID string                   `json:"vehicle_id"`
	Attempt   int                      `json:"attempt"`
	Status    DispatchAssignmentStatus `json:"status"`
}

// RoutingEngineState is the dispatch recovery aggregate. It is replaced as a
// whole on every transition.
type RoutingEngineState struct {
	Assignments           []DispatchAssignment           `json:"assignments"`
	AssetStatus           map[string]AssetTransferStatus `json:"asset_status"`
	RescueEtaSeconds      map[string]float64             `json:"rescue_eta_seconds"`
	SearchRadiusKm        map[string]float64             `json:"search_radius_km"`
	RescueBonusMultiplier map[string]float64             `json:"rescue_bonus_multiplier"`
	TrunkUnlocked         map[string]bool                `json:"trunk_unlocked"`
}

// NewRoutingEngineState returns an empty aggregate.
func NewRoutingEngineState() RoutingEngineState {
	return RoutingEngineState{
		AssetStatus:           map[string]AssetTransferStatus{},
		RescueEtaSeconds:      map[string]float64{},
		SearchRadiusKm:        map[string]float64{},
		RescueBonusMultiplier: map[string]float64{},
		TrunkUnlocked:         map[string]bool{},
	}
}

// Clone deep-copies the aggregate.
func (s RoutingEngineState) Clone() RoutingEngineState {
	next := NewRoutingEngineState()
	next.Assignments = append([]DispatchAssignment(nil), s.Assignments...)
	for k, v := range s.AssetStatus {
		next.AssetStatus[k] = v
	}
	for k, v := range s.RescueEtaSeconds {
		next.RescueEtaSeconds[k] = v
	}
	for k, v := range s.SearchRadiusKm {
		next.SearchRadiusKm[k] = v
	}
	for k, v := range s.RescueBonusMultiplier {
		next.RescueBonusMultiplier[k] = v
	}
	for k, v := range s.TrunkUnlocked {
		next.TrunkUnlocked[k] = v
	}
	return next
}

// AssignmentsFor returns the assignments of an order in attempt order.
func (s RoutingEngineState) AssignmentsFor(orderID string) []DispatchAssignment {
	var res []DispatchAssignment
	for _, a := range s.Assignments {
		if a.OrderID == orderID {
			res = append(res, a)
		}
	}
	return res
}

// Status returns the asset status of an order, Pending when unknown.
func (s RoutingEngineState) Status(orderID string) AssetTransferStatus {
	if st, ok := s.AssetStatus[orderID]; ok {
		return st
	}
	return AssetPending
}

// CollisionEvent reports a vehicle incident interrupting a delivery.
type CollisionEvent struct {
	ID        string      `json:"id"`
	OrderID   string      `json:"order_id"`
	VehicleID string      `json:"vehicle_id"`
	Timestamp time.Time   `json:"timestamp"`
	Location  Coordinates `json:"location"`
}
