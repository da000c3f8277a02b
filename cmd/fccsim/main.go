// fccsim drives the flight-control core against a synthetic flight session:
// state and pilot input are generated from a seeded source, fed through the
// core once per tick, and the resulting commands are checked by the failure
// recovery coordinator. A small HTTP surface exposes session status and
// metrics while the session runs.
package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/katya-aviation/neurofcc/internal/fcc"
	"github.com/katya-aviation/neurofcc/internal/learner"
	"github.com/katya-aviation/neurofcc/internal/observability"
	"github.com/katya-aviation/neurofcc/internal/recovery"
	"github.com/katya-aviation/neurofcc/internal/synth"
)

var configPath = flag.String("config", "", "Path to TOML config (optional)")

func main() {
	flag.Parse()
	logger := observability.InitLogger("fccsim")

	cfg, err := loadSimConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	lrn := learner.New(learner.DefaultConfig(), rng)
	lrn.SetAggression(cfg.PilotAggression)

	coreCfg := fcc.DefaultConfig()
	coreCfg.LatencyBudget = cfg.LatencyBudget
	coreCfg.Learner = lrn
	coreCfg.Logger = logger.With().Str("component", "fcc").Logger()
	core, err := fcc.NewCore(coreCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("core init")
	}
	core.EnableLearning(cfg.Learning)

	recCfg := recovery.DefaultConfig()
	recCfg.Tolerance = cfg.FailureTolerance
	recCfg.Cooldown = cfg.RecoveryCooldown
	recCfg.Logger = logger.With().Str("component", "recovery").Logger()
	coord, err := recovery.New(core, recCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("recovery init")
	}

	board := &statusBoard{}
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: newRouter(logger, board),
	}
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("status server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("status server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runSession(ctx, logger, cfg, core, coord, lrn, synth.New(cfg.Seed), board)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("status server shutdown")
	}
}

func runSession(
	ctx context.Context,
	logger zerolog.Logger,
	cfg simConfig,
	core *fcc.Core,
	coord *recovery.Coordinator,
	lrn *learner.Learner,
	gen *synth.Generator,
	board *statusBoard,
) {
	traj := fcc.TrajectoryCommand{
		DesiredAirspeed: 150,
		DesiredAltitude: 5000,
	}

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	for tick := 0; tick < cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			logger.Info().Int("tick", tick).Msg("session interrupted")
			return
		case now := <-ticker.C:
			applySchedule(logger, core, tick)

			state, input := gen.Next(now)
			cmd := core.ProcessControl(state, input, traj)
			coord.DetectFailure(state, cmd)

			// Scheduled retrains run here, after the latency-budgeted call.
			core.Maintain()

			board.publish(sessionStatus{
				Tick:            tick,
				Mode:            core.Mode(),
				Healthy:         core.SystemHealthy(),
				Confidence:      core.Confidence(),
				EmergencyActive: core.EmergencyActive(),
				LearningEnabled: core.LearningEnabled(),
				WarningCount:    len(core.Warnings()),
				RecentWarnings:  lastN(core.Warnings(), 3),
				LastCommand:     cmd,
				SurfaceHealth:   coord.SurfaceHealth(),
				TS:              now,
			})

			if tick%100 == 0 {
				logger.Info().
					Int("tick", tick).
					Str("mode", string(core.Mode())).
					Bool("healthy", core.SystemHealthy()).
					Float64("confidence", core.Confidence()).
					Int("warnings", len(core.Warnings())).
					Int("samples", lrn.Samples()).
					Msg("session status")
			}
		}
	}

	if coord.FailureDetected() {
		logger.Warn().Str("failure", coord.FailureType()).Msg("unrecovered failure at session end")
		coord.ExecuteRecoveryProcedure()
	}

	if cfg.ModelPath != "" {
		if err := lrn.SaveModel(cfg.ModelPath); err != nil {
			logger.Error().Err(err).Msg("save behavior model")
		} else {
			logger.Info().Str("path", cfg.ModelPath).Msg("behavior model saved")
		}
	}

	logger.Info().
		Bool("healthy", core.SystemHealthy()).
		Float64("confidence", core.Confidence()).
		Bool("emergency", core.EmergencyActive()).
		Bool("model_trained", lrn.Trained()).
		Msg("session complete")
}

// applySchedule walks the session through the interesting mode transitions.
func applySchedule(logger zerolog.Logger, core *fcc.Core, tick int) {
	switch tick {
	case 100:
		logger.Info().Msg("switching to neuro-assisted mode")
		core.SetMode(fcc.ModeNeuroAssist)
	case 300:
		logger.Info().Msg("switching to autopilot mode")
		core.SetMode(fcc.ModeAutopilot)
	case 500:
		logger.Info().Msg("simulating high g-load emergency")
		core.TriggerEmergency("high g-load")
	case 550:
		logger.Info().Msg("clearing emergency")
		core.ClearEmergency()
	case 700:
		logger.Info().Msg("calibrating pilot behavior")
		core.CalibratePilotBehavior()
	}
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
