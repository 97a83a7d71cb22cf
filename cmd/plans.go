package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/washroute/app"
	"github.com/kilianp07/washroute/config"
	"github.com/kilianp07/washroute/infra/logger"
)

var (
	plansBatch int
	plansSeed  uint64
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Generate one batch of orders and print the scored plans",
	RunE:  runPlans,
}

func init() {
	plansCmd.Flags().IntVarP(&plansBatch, "batch", "b", 0, "orders to generate (default simulation.batch_size)")
	plansCmd.Flags().Uint64Var(&plansSeed, "seed", 0, "random seed (default simulation.seed)")
	rootCmd.AddCommand(plansCmd)
}

func loadOneShot() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, nil
}

func runPlans(cmd *cobra.Command, args []string) error {
	cfg, err := loadOneShot()
	if err != nil {
		return err
	}
	if plansSeed != 0 {
		cfg.Simulation.Seed = plansSeed
	}
	n := cfg.Simulation.BatchSize
	if plansBatch > 0 {
		n = plansBatch
	}
	sess, gen, _ := app.NewSession(cfg, nil, logger.New("session"))
	now := time.Now()
	sess.AddOrders(now, gen.Batch(n, now, cfg.Simulation.HomeMode)...)
	res := sess.ScorePlans(now)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
