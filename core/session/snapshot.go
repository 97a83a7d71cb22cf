package session

import (
	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/recovery"
)

// Snapshot is a deep copy of the session state.
type Snapshot struct {
	Orders               []model.Order                    `json:"orders"`
	Integrity            map[string]model.HelperIntegrity `json:"integrity"`
	Routing              model.RoutingEngineState         `json:"routing"`
	History              []model.PlanHistoryEntry         `json:"history"`
	Weights              model.Weights                    `json:"weights"`
	Activity             []model.HelperActivity           `json:"activity"`
	Plans                []model.PlanMetrics              `json:"plans,omitempty"`
	Best                 model.PlanID                     `json:"best,omitempty"`
	Rescue               *recovery.Rescue                 `json:"rescue,omitempty"`
	HelpersHidden        bool                             `json:"helpers_hidden"`
	LastMissionVehicleID string                           `json:"last_mission_vehicle_id,omitempty"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Orders:               append([]model.Order(nil), s.orders...),
		Integrity:            s.ledger.Records(),
		Routing:              s.routing.Clone(),
		History:              append([]model.PlanHistoryEntry(nil), s.history...),
		Weights:              s.weights,
		Activity:             append([]model.HelperActivity(nil), s.activity...),
		HelpersHidden:        s.helpersHidden,
		LastMissionVehicleID: s.lastMissionVehicleID,
	}
	for i, o := range snap.Orders {
		if o.Rating != nil {
			snap.Orders[i].Rating = model.Rate(*o.Rating)
		}
	}
	if s.last != nil {
		snap.Plans = append([]model.PlanMetrics(nil), s.last.Metrics...)
		snap.Best = s.last.Best
	}
	if r, ok := recovery.Latest(s.routing); ok {
		snap.Rescue = &r
	}
	return snap
}
