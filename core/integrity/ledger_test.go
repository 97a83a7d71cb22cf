package integrity

import (
	"testing"

	"github.com/kilianp07/washroute/core/model"
)

func completed(id, helper, reason string) model.Order {
	return model.Order{ID: id, HelperID: helper, Status: model.StatusCompleted, RatingReason: reason, Rating: model.Rate(2)}
}

func TestApplyCompletedCountsOnce(t *testing.T) {
	l := NewLedger([]model.Helper{{ID: "h1"}, {ID: "h2"}})
	orders := []model.Order{
		completed("o1", "h1", "Poor folding"),
		completed("o2", "h2", ""),
		{ID: "o3", HelperID: "h1", Status: model.StatusDelivering, RatingReason: "No fragrance"},
	}
	next, strikes := l.ApplyCompleted(orders)
	if len(strikes) != 1 || strikes[0].HelperID != "h1" {
		t.Fatalf("expected one strike for h1, got %+v", strikes)
	}
	if got := next.Get("h1"); got.Score != 90 || got.Strikes != 1 || !got.HighValueEligible {
		t.Fatalf("unexpected record %+v", got)
	}
	if l.Get("h1").Score != 100 {
		t.Fatalf("receiver mutated")
	}
	again, strikes := next.ApplyCompleted(orders)
	if len(strikes) != 0 || again.Get("h1").Strikes != 1 {
		t.Fatalf("order accounted twice")
	}
	if !again.Accounted("o2") || again.Accounted("o3") {
		t.Fatalf("unexpected accounted set")
	}
}

func TestScoreMonotonicAndFloored(t *testing.T) {
	l := NewLedger(nil)
	prev := l.Get("h1")
	for i := 0; i < 15; i++ {
		var strikes []Strike
		l, strikes = l.ApplyCompleted([]model.Order{completed(string(rune('a'+i)), "h1", "No fragrance, Poor folding")})
		if len(strikes) != 1 {
			t.Fatalf("expected a strike on iteration %d", i)
		}
		cur := l.Get("h1")
		if cur.Score > prev.Score || cur.Strikes < prev.Strikes || cur.Score < 0 {
			t.Fatalf("non monotonic %+v -> %+v", prev, cur)
		}
		prev = cur
	}
	if prev.Score != 0 || prev.Strikes != 15 || prev.HighValueEligible {
		t.Fatalf("unexpected final record %+v", prev)
	}
}

func TestEligibilityLostOnThirdStrike(t *testing.T) {
	l := NewLedger([]model.Helper{{ID: "h1"}})
	l, _ = l.ApplyCompleted([]model.Order{completed("a", "h1", "Poor folding"), completed("b", "h1", "Poor folding")})
	if !l.Get("h1").HighValueEligible {
		t.Fatalf("two strikes should keep eligibility")
	}
	l, _ = l.ApplyCompleted([]model.Order{completed("c", "h1", "Poor folding")})
	if rec := l.Get("h1"); rec.HighValueEligible || rec.Score != 70 {
		t.Fatalf("expected ineligible at 70/3, got %+v", rec)
	}
}

func TestMissingRecordIsFresh(t *testing.T) {
	l := NewLedger(nil)
	if _, ok := l.Lookup("ghost"); ok {
		t.Fatalf("expected no stored record")
	}
	if l.Get("ghost") != model.FreshIntegrity() {
		t.Fatalf("expected fresh record")
	}
}
