package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/washroute/core/model"
)

func TestLatestEmpty(t *testing.T) {
	_, ok := Latest(model.NewRoutingEngineState())
	assert.False(t, ok)
}

func TestLatestFollowsLastAssignment(t *testing.T) {
	s := model.NewRoutingEngineState()
	s.Assignments = []model.DispatchAssignment{
		{OrderID: "a", Attempt: 1},
		{OrderID: "b", Attempt: 1},
		{OrderID: "a", Attempt: 2, HelperID: "helper_02"},
	}
	s.AssetStatus["a"] = model.AssetSearchingForNewHelper
	s.RescueEtaSeconds["a"] = 125
	s.TrunkUnlocked["a"] = true

	r, ok := Latest(s)
	require.True(t, ok)
	assert.Equal(t, "a", r.OrderID)
	assert.Len(t, r.Assignments, 2)
	assert.Equal(t, model.AssetSearchingForNewHelper, r.Status)
	require.NotNil(t, r.EtaSeconds)
	assert.Equal(t, 125.0, *r.EtaSeconds)
	assert.True(t, r.TrunkUnlocked)
	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "helper_02", cur.HelperID)
}

func TestFormatEta(t *testing.T) {
	assert.Equal(t, "00:05", FormatEta(5))
	assert.Equal(t, "03:00", FormatEta(180))
	assert.Equal(t, "02:05", FormatEta(125))
}
