package model

import (
	"encoding/json"
	"testing"
)

func TestOrderStatusProgression(t *testing.T) {
	st := StatusQueued
	want := []OrderStatus{StatusPickingUp, StatusProcessing, StatusDelivering, StatusCompleted, StatusCompleted}
	for i, w := range want {
		st = st.Next()
		if st != w {
			t.Fatalf("step %d: expected %s got %s", i, w, st)
		}
	}
}

func TestOrderStatusJSON(t *testing.T) {
	o := Order{ID: "o1", Status: StatusProcessing}
	b, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Order
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Status != StatusProcessing {
		t.Fatalf("expected Processing got %s", back.Status)
	}
	if _, err := ParseOrderStatus("Lost"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestCapOrdersTrimsOldest(t *testing.T) {
	var orders []Order
	for i := 0; i < 45; i++ {
		orders = append(orders, Order{ID: string(rune('a' + i%26))})
	}
	capped := CapOrders(orders, 40)
	if len(capped) != 40 {
		t.Fatalf("expected 40 got %d", len(capped))
	}
	if capped[0].ID != orders[5].ID {
		t.Fatalf("expected oldest trimmed")
	}
}

func TestRoutingStateCloneIsDeep(t *testing.T) {
	s := NewRoutingEngineState()
	s.AssetStatus["o1"] = AssetInRescue
	s.Assignments = append(s.Assignments, DispatchAssignment{ID: "a", OrderID: "o1", Attempt: 1})
	c := s.Clone()
	c.AssetStatus["o1"] = AssetTransferred
	c.Assignments[0].Status = AssignmentCompleted
	if s.AssetStatus["o1"] != AssetInRescue {
		t.Fatalf("clone shares asset map")
	}
	if s.Assignments[0].Status != "" {
		t.Fatalf("clone shares assignments")
	}
	if s.Status("missing") != AssetPending {
		t.Fatalf("expected Pending default")
	}
}

func TestWeightsNormalized(t *testing.T) {
	d, e := DefaultWeights().Normalized()
	if d < 0.714 || d > 0.715 || e < 0.285 || e > 0.286 {
		t.Fatalf("unexpected weights %v %v", d, e)
	}
	d, e = Weights{}.Normalized()
	if d != 0 || e != 0 {
		t.Fatalf("zero weights should normalise to zero")
	}
}
