package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/washroute/app"
	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/recovery"
	"github.com/kilianp07/washroute/core/sim"
	"github.com/kilianp07/washroute/infra/logger"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run the collision stress chain against one order and print the routing state",
	RunE:  runStress,
}

func init() {
	rootCmd.AddCommand(stressCmd)
}

type stressOutput struct {
	OrderID string                   `json:"order_id"`
	Routing model.RoutingEngineState `json:"routing"`
	Rescue  *recovery.Rescue         `json:"rescue,omitempty"`
	Eta     string                   `json:"eta,omitempty"`
}

func runStress(cmd *cobra.Command, args []string) error {
	cfg, err := loadOneShot()
	if err != nil {
		return err
	}
	sess, gen, _ := app.NewSession(cfg, nil, logger.New("session"))
	now := time.Now()
	batch := gen.Batch(1, now, cfg.Simulation.HomeMode)
	if len(batch) == 0 {
		return fmt.Errorf("roster produced no orders")
	}
	sess.AddOrders(now, batch...)

	orderID := batch[0].ID
	r := sess.Roster()
	ev := sim.StressCollision(orderID, r, now)
	for _, opts := range sim.StressSteps(r) {
		sess.HandleCollision(ev, opts)
	}
	state := sess.MarkAssetTransferCompleted(orderID, now)

	out := stressOutput{OrderID: orderID, Routing: state}
	if rescue, ok := recovery.Latest(state); ok {
		out.Rescue = &rescue
		if rescue.EtaSeconds != nil {
			out.Eta = recovery.FormatEta(*rescue.EtaSeconds)
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
