package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Seed             int64   `toml:"seed"`
	Ticks            int     `toml:"ticks"`
	TickInterval     string  `toml:"tick_interval"`
	ListenAddr       string  `toml:"listen_addr"`
	ModelPath        string  `toml:"model_path"`
	PilotAggression  float64 `toml:"pilot_aggression"`
	Learning         bool    `toml:"learning"`
	LatencyBudget    string  `toml:"latency_budget"`
	FailureTolerance float64 `toml:"failure_tolerance"`
	RecoveryCooldown string  `toml:"recovery_cooldown"`
}

type simConfig struct {
	Seed             int64
	Ticks            int
	TickInterval     time.Duration
	ListenAddr       string
	ModelPath        string
	PilotAggression  float64
	Learning         bool
	LatencyBudget    time.Duration
	FailureTolerance float64
	RecoveryCooldown time.Duration
}

func defaultSimConfig() simConfig {
	return simConfig{
		Seed:             1,
		Ticks:            1000,
		TickInterval:     10 * time.Millisecond,
		ListenAddr:       ":8090",
		PilotAggression:  0.5,
		Learning:         true,
		LatencyBudget:    2 * time.Millisecond,
		FailureTolerance: 0.1,
		RecoveryCooldown: 2 * time.Second,
	}
}

func loadSimConfig(path string) (simConfig, error) {
	cfg := defaultSimConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return simConfig{}, fmt.Errorf("load sim config: %w", err)
	}

	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}

	if meta.IsDefined("ticks") {
		if raw.Ticks <= 0 {
			return simConfig{}, fmt.Errorf("sim config: ticks must be positive, got %d", raw.Ticks)
		}
		cfg.Ticks = raw.Ticks
	}

	if meta.IsDefined("tick_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.TickInterval))
		if err != nil {
			return simConfig{}, fmt.Errorf("parse tick_interval: %w", err)
		}
		cfg.TickInterval = d
	}

	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}

	if meta.IsDefined("model_path") {
		cfg.ModelPath = strings.TrimSpace(raw.ModelPath)
	}

	if meta.IsDefined("pilot_aggression") {
		cfg.PilotAggression = raw.PilotAggression
	}

	if meta.IsDefined("learning") {
		cfg.Learning = raw.Learning
	}

	if meta.IsDefined("latency_budget") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.LatencyBudget))
		if err != nil {
			return simConfig{}, fmt.Errorf("parse latency_budget: %w", err)
		}
		cfg.LatencyBudget = d
	}

	if meta.IsDefined("failure_tolerance") {
		cfg.FailureTolerance = raw.FailureTolerance
	}

	if meta.IsDefined("recovery_cooldown") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RecoveryCooldown))
		if err != nil {
			return simConfig{}, fmt.Errorf("parse recovery_cooldown: %w", err)
		}
		cfg.RecoveryCooldown = d
	}

	return cfg, nil
}
