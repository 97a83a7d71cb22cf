package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/planner"
)

func execute(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.Bytes()
}

func TestPlansPrintsScoredPlans(t *testing.T) {
	var res planner.Result
	require.NoError(t, json.Unmarshal(execute(t, "plans", "--batch", "3", "--seed", "9"), &res))
	assert.NotEmpty(t, res.Metrics)
	assert.NotEmpty(t, res.Best)
}

func TestStressPrintsTransferredRouting(t *testing.T) {
	var out stressOutput
	require.NoError(t, json.Unmarshal(execute(t, "stress"), &out))
	require.NotEmpty(t, out.OrderID)
	assert.Len(t, out.Routing.AssignmentsFor(out.OrderID), 3)
	assert.Equal(t, model.AssetTransferred, out.Routing.Status(out.OrderID))
	require.NotNil(t, out.Rescue)
	assert.Equal(t, out.OrderID, out.Rescue.OrderID)
}
