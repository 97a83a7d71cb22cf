package config

import (
	"fmt"
	"time"
)

// SimulationConfig drives the order generator and the run loop.
type SimulationConfig struct {
	// Seed feeds the random source. Zero picks a time-based seed.
	Seed          uint64        `json:"seed"`
	Tick          time.Duration `json:"tick"`
	OrderInterval time.Duration `json:"order_interval"`
	// OrderIntervalMax widens OrderInterval into a uniform range.
	OrderIntervalMax time.Duration  `json:"order_interval_max"`
	BatchSize        int            `json:"batch_size"`
	OrderCap         int            `json:"order_cap"`
	HomeMode         bool           `json:"home_mode"`
	StressTest       bool           `json:"stress_test"`
	Activity         ActivityConfig `json:"activity"`
}

// ActivityConfig bounds the number of active helpers. Zero values are
// resolved against the roster size by the simulation.
type ActivityConfig struct {
	Initial  int           `json:"initial"`
	Min      int           `json:"min"`
	Max      int           `json:"max"`
	Interval time.Duration `json:"interval"`
}

func (c *SimulationConfig) SetDefaults() {
	if c.Tick <= 0 {
		c.Tick = 5 * time.Second
	}
	if c.OrderInterval <= 0 {
		c.OrderInterval = 45 * time.Second
	}
	if c.OrderIntervalMax < c.OrderInterval {
		c.OrderIntervalMax = c.OrderInterval + 30*time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.OrderCap <= 0 {
		c.OrderCap = 40
	}
	if c.Activity.Interval <= 0 {
		c.Activity.Interval = 30 * time.Second
	}
}

func (c SimulationConfig) Validate() error {
	if c.BatchSize < 0 || c.OrderCap < 0 {
		return fmt.Errorf("batch_size and order_cap must not be negative")
	}
	a := c.Activity
	if a.Min < 0 || a.Max < 0 || a.Initial < 0 {
		return fmt.Errorf("activity bounds must not be negative")
	}
	if a.Max > 0 && a.Min > a.Max {
		return fmt.Errorf("activity min %d exceeds max %d", a.Min, a.Max)
	}
	if a.Initial > 0 && a.Max > 0 && a.Initial > a.Max {
		return fmt.Errorf("activity initial %d exceeds max %d", a.Initial, a.Max)
	}
	return nil
}
