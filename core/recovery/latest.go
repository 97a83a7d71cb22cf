package recovery

import (
	"fmt"

	"github.com/kilianp07/washroute/core/model"
)

// Rescue summarises the rescue of the order that received the most recent
// assignment.
type Rescue struct {
	OrderID       string                     `json:"order_id"`
	Assignments   []model.DispatchAssignment `json:"assignments"`
	Status        model.AssetTransferStatus  `json:"status"`
	EtaSeconds    *float64                   `json:"eta_seconds,omitempty"`
	TrunkUnlocked bool                       `json:"trunk_unlocked"`
}

// Current returns the assignment chain of the last dispatched order. ok is
// false when no assignment exists.
func (r Rescue) Current() (model.DispatchAssignment, bool) {
	if len(r.Assignments) == 0 {
		return model.DispatchAssignment{}, false
	}
	return r.Assignments[len(r.Assignments)-1], true
}

// Latest builds the Rescue of the last assigned order.
func Latest(s model.RoutingEngineState) (Rescue, bool) {
	if len(s.Assignments) == 0 {
		return Rescue{}, false
	}
	orderID := s.Assignments[len(s.Assignments)-1].OrderID
	r := Rescue{
		OrderID:       orderID,
		Assignments:   s.AssignmentsFor(orderID),
		Status:        s.Status(orderID),
		TrunkUnlocked: s.TrunkUnlocked[orderID],
	}
	if eta, ok := s.RescueEtaSeconds[orderID]; ok {
		r.EtaSeconds = &eta
	}
	return r, true
}

// FormatEta renders seconds as MM:SS.
func FormatEta(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
