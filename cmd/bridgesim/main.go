// Headless physics runner: loads a config and a scene, ticks the bridge and
// streams response batches to the configured telemetry sink.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"physbridge/internal/components"
	"physbridge/internal/config"
	"physbridge/internal/engine"
	"physbridge/internal/physics"
	"physbridge/internal/scene"
	"physbridge/internal/telemetry"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	cfgPath := flag.String("config", "", "TOML config file (defaults when empty)")
	scenePath := flag.String("scene", "pendulum", "YAML scene file, or one of: pendulum, snake, spider")
	fast := flag.Bool("fast", false, "tick as fast as possible instead of in real time")
	start := flag.Bool("run", false, "start running even if the config starts stopped")
	flag.Parse()

	if err := run(*cfgPath, *scenePath, *fast, *start); err != nil {
		fmt.Fprintln(os.Stderr, "bridgesim:", err)
		os.Exit(1)
	}
}

func run(cfgPath, scenePath string, fast, start bool) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	logger := cfg.Log.Logger(os.Stderr)
	slog.SetDefault(logger)

	s := engine.NewScene("bridgesim")
	if err := populate(s, scenePath); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := physics.NewPhysicsWorld(s, cfg.PhysicsOptions(logger))
	if start {
		w.RequestRun(physics.Run)
	}
	sink, err := openSink(ctx, cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	if sink != nil {
		defer sink.Close()
		telemetry.Attach(w, sink, logger)
	}

	logger.Info("simulation starting",
		"scene", scenePath, "entities", s.Len(), "dt", cfg.Simulation.Timestep,
		"state", w.State(), "telemetry", cfg.Telemetry.Mode)

	dt := cfg.Simulation.Timestep
	var ticker *time.Ticker
	if !fast {
		ticker = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
	}

	var errCount int
	var busy time.Duration
	for cfg.Simulation.MaxTicks == 0 || w.Ticks() < cfg.Simulation.MaxTicks {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return summarize(logger, w, errCount, busy)
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			break
		}
		report := w.Tick(dt)
		errCount += len(report.Errors)
		busy += report.Duration
	}
	return summarize(logger, w, errCount, busy)
}

func summarize(logger *slog.Logger, w *physics.PhysicsWorld, errCount int, busy time.Duration) error {
	var avg time.Duration
	if n := w.Ticks(); n > 0 {
		avg = busy / time.Duration(n)
	}
	logger.Info("simulation finished",
		"ticks", w.Ticks(), "bodies", w.BodyCount(), "errors", errCount, "avg_tick", avg)
	return nil
}

func populate(s *engine.Scene, name string) error {
	switch name {
	case "pendulum":
		scene.Pendulum(s, rl.Vector3{Y: 2}, 1)
	case "snake":
		scene.Snake(s, "snake", rl.Vector3{Y: 1}, 8)
	case "spider":
		scene.Spider(s, "spider", rl.Vector3{Y: 1.5}, 6)
	default:
		if _, err := scene.Load(s, name); err != nil {
			return err
		}
		return nil
	}
	ground := s.Spawn("ground")
	ground.Transform.Position = rl.Vector3{Y: -0.5}
	components.BodyBundle{
		Body:  components.NewRigidBody(components.Fixed),
		Shape: components.NewCuboidShape(rl.Vector3{X: 20, Y: 0.5, Z: 20}),
	}.Insert(ground)
	return nil
}

func openSink(ctx context.Context, t config.Telemetry, logger *slog.Logger) (telemetry.Sink, error) {
	switch t.Mode {
	case config.TelemetryStdout:
		// hide os.Stdout's Close so closing the sink leaves stdout open
		return telemetry.NewJSONLines(struct{ io.Writer }{os.Stdout}), nil
	case config.TelemetryTCP:
		srv, err := telemetry.ListenTCP(t.Addr, logger)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := srv.Serve(ctx); err != nil {
				logger.Error("telemetry server stopped", "err", err)
			}
		}()
		logger.Info("telemetry listening", "addr", srv.Addr())
		return srv, nil
	case config.TelemetryWebSocket:
		hub := telemetry.NewWebSocketHub(logger)
		mux := http.NewServeMux()
		mux.Handle(t.Path, hub)
		httpSrv := &http.Server{Addr: t.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("telemetry server stopped", "err", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpSrv.Close()
		}()
		logger.Info("telemetry listening", "addr", t.Addr, "path", t.Path)
		return hub, nil
	}
	return nil, nil
}
