package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/washroute/core/model"
)

type records map[string]model.HelperIntegrity

func (r records) Lookup(id string) (model.HelperIntegrity, bool) {
	rec, ok := r[id]
	return rec, ok
}

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestFlashDefaultsWithoutHistory(t *testing.T) {
	in := Input{
		Helpers:   []model.Helper{{ID: "H1"}},
		Now:       now,
		Routing:   model.NewRoutingEngineState(),
		Integrity: records{"H1": {Score: 100}},
	}
	stats := Flash(in)
	require.Len(t, stats, 1)
	s := stats[0]
	assert.InDelta(t, 1.2, s.FoldingScore, 1e-9)
	assert.InDelta(t, 1-110.0/290, s.RescueScore, 1e-9)
	assert.Equal(t, 1.0, s.IntegrityScore)
	assert.InDelta(t, 0.986, s.CombinedScore, 0.001)
	assert.Equal(t, 50.0, s.AvgEngagedMinutes)
	assert.Equal(t, 120.0, s.AvgRescueEtaSeconds)
}

func TestFlashRescueEtaAveragesPositiveEtas(t *testing.T) {
	routing := model.NewRoutingEngineState()
	routing.Assignments = []model.DispatchAssignment{
		{OrderID: "o1", HelperID: "H1"},
		{OrderID: "o2", HelperID: "H1"},
		{OrderID: "o3", HelperID: "H1"},
		{OrderID: "o1", HelperID: "H2"},
	}
	routing.RescueEtaSeconds["o1"] = 10
	routing.RescueEtaSeconds["o2"] = 30
	routing.RescueEtaSeconds["o3"] = 0
	stats := Flash(Input{Helpers: []model.Helper{{ID: "H1"}}, Routing: routing})
	require.Len(t, stats, 1)
	assert.Equal(t, 20.0, stats[0].AvgRescueEtaSeconds)
	assert.InDelta(t, 1-10.0/290, stats[0].RescueScore, 1e-9)
}

func TestFlashIgnoresCompletedOrders(t *testing.T) {
	orders := []model.Order{
		{ID: "o1", HelperID: "H1", Status: model.StatusCompleted, CreatedAt: now.Add(-2 * time.Hour)},
	}
	stats := Flash(Input{Helpers: []model.Helper{{ID: "H1"}}, Orders: orders, Now: now})
	assert.Equal(t, 50.0, stats[0].AvgEngagedMinutes)
	assert.Equal(t, 60.0, stats[0].AvgTargetMinutes)
}

func TestPremiumNeatness(t *testing.T) {
	orders := []model.Order{
		{ID: "a", HelperID: "H1", Status: model.StatusCompleted},
		{ID: "b", HelperID: "H1", Status: model.StatusCompleted, Rating: model.Rate(3)},
		{ID: "c", HelperID: "H1", Status: model.StatusCompleted, Rating: model.Rate(5), RatingReason: "No fragrance"},
		{ID: "d", HelperID: "H1", Status: model.StatusCompleted, Rating: model.Rate(4)},
		{ID: "e", HelperID: "H1", Status: model.StatusDelivering, Rating: model.Rate(1)},
	}
	in := Input{
		Helpers:   []model.Helper{{ID: "H1"}, {ID: "H2"}},
		Orders:    orders,
		Integrity: records{"H1": {Score: 80, Strikes: 2}},
	}
	stats := Premium(in)
	require.Len(t, stats, 2)
	assert.Equal(t, 0.5, stats[0].NeatnessScore)
	assert.Equal(t, 0.8, stats[0].IntegrityScore)
	assert.Equal(t, 2, stats[0].Strikes)
	assert.InDelta(t, 0.62, stats[0].QualityScore, 1e-9)
	assert.Equal(t, 1.0, stats[1].NeatnessScore)
	assert.Equal(t, 1.0, stats[1].QualityScore)
}

func TestBestFlashTieKeepsFirst(t *testing.T) {
	stats := []FlashStats{
		{Helper: model.Helper{ID: "a"}, CombinedScore: 0.5},
		{Helper: model.Helper{ID: "b"}, CombinedScore: 0.7},
		{Helper: model.Helper{ID: "c"}, CombinedScore: 0.7},
	}
	best, ok := BestFlash(stats)
	require.True(t, ok)
	assert.Equal(t, "b", best.Helper.ID)

	stats = append(stats, FlashStats{Helper: model.Helper{ID: "d"}, CombinedScore: 0.95})
	best, _ = BestFlash(stats)
	assert.Equal(t, "d", best.Helper.ID)

	_, ok = BestFlash(nil)
	assert.False(t, ok)
}

func TestBestPremiumPools(t *testing.T) {
	stats := []PremiumStats{
		{Helper: model.Helper{ID: "striker"}, IntegrityScore: 0.9, NeatnessScore: 1, QualityScore: 0.96, Strikes: 1},
		{Helper: model.Helper{ID: "clean"}, IntegrityScore: 0.9, NeatnessScore: 0.5, QualityScore: 0.66},
	}
	best, ok := BestPremium(stats)
	require.True(t, ok)
	assert.Equal(t, "clean", best.Helper.ID, "strike-free pool wins over higher quality")

	stats = append(stats, PremiumStats{Helper: model.Helper{ID: "strict"}, IntegrityScore: 1, NeatnessScore: 1, QualityScore: 0.9, Strikes: 1})
	best, _ = BestPremium(stats)
	assert.Equal(t, "strict", best.Helper.ID)

	all := []PremiumStats{
		{Helper: model.Helper{ID: "x"}, QualityScore: 0.3, Strikes: 2},
		{Helper: model.Helper{ID: "y"}, QualityScore: 0.4, Strikes: 1},
	}
	best, _ = BestPremium(all)
	assert.Equal(t, "y", best.Helper.ID)
}

func TestIsNegativeReason(t *testing.T) {
	assert.True(t, IsNegativeReason("Poor folding"))
	assert.True(t, IsNegativeReason("late, No fragrance"))
	assert.False(t, IsNegativeReason("poor folding"))
	assert.False(t, IsNegativeReason(""))
}
