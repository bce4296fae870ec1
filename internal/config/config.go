// Package config loads the simulator's TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"physbridge/internal/physics"
	"physbridge/internal/solver"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Simulation Simulation `toml:"simulation"`
	Solver     Solver     `toml:"solver"`
	Telemetry  Telemetry  `toml:"telemetry"`
	Log        Log        `toml:"log"`
}

type Simulation struct {
	Timestep     float64    `toml:"timestep"`
	Gravity      [3]float32 `toml:"gravity"`
	StartRunning bool       `toml:"start_running"`
	// MaxTicks stops the runner after this many ticks; 0 runs until interrupted.
	MaxTicks        uint64 `toml:"max_ticks"`
	DespawnEntities bool   `toml:"despawn_entities"`
}

type Solver struct {
	Iterations           int     `toml:"iterations"`
	PositionIterations   int     `toml:"position_iterations"`
	Baumgarte            float64 `toml:"baumgarte"`
	AllowedPenetration   float64 `toml:"allowed_penetration"`
	RestitutionThreshold float64 `toml:"restitution_threshold"`
}

type TelemetryMode string

const (
	TelemetryNone      TelemetryMode = "none"
	TelemetryStdout    TelemetryMode = "stdout"
	TelemetryTCP       TelemetryMode = "tcp"
	TelemetryWebSocket TelemetryMode = "websocket"
)

type Telemetry struct {
	Mode TelemetryMode `toml:"mode"`
	Addr string        `toml:"addr"`
	// Path is the websocket endpoint.
	Path string `toml:"path"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() Config {
	p := solver.DefaultIntegrationParameters()
	return Config{
		Simulation: Simulation{
			Timestep: p.Dt,
			Gravity:  [3]float32{0, -9.81, 0},
		},
		Solver: Solver{
			Iterations:           p.Iterations,
			PositionIterations:   p.PositionIterations,
			Baumgarte:            p.Baumgarte,
			AllowedPenetration:   p.AllowedPenetration,
			RestitutionThreshold: p.RestitutionThreshold,
		},
		Telemetry: Telemetry{Mode: TelemetryNone, Addr: "127.0.0.1:7400", Path: "/physics"},
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value; unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var sm *toml.StrictMissingError
		if errors.As(err, &sm) {
			return Config{}, fmt.Errorf("parse config: %s", sm.String())
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Simulation.Timestep <= 0 || c.Simulation.Timestep > 1 {
		errs = append(errs, fmt.Errorf("simulation.timestep must be in (0, 1], got %v", c.Simulation.Timestep))
	}
	if c.Solver.Iterations < 1 {
		errs = append(errs, fmt.Errorf("solver.iterations must be at least 1, got %d", c.Solver.Iterations))
	}
	if c.Solver.PositionIterations < 0 {
		errs = append(errs, fmt.Errorf("solver.position_iterations must not be negative"))
	}
	if c.Solver.Baumgarte < 0 || c.Solver.Baumgarte > 1 {
		errs = append(errs, fmt.Errorf("solver.baumgarte must be in [0, 1], got %v", c.Solver.Baumgarte))
	}
	if c.Solver.AllowedPenetration < 0 || c.Solver.RestitutionThreshold < 0 {
		errs = append(errs, errors.New("solver tolerances must not be negative"))
	}
	switch c.Telemetry.Mode {
	case TelemetryNone, TelemetryStdout:
	case TelemetryTCP, TelemetryWebSocket:
		if c.Telemetry.Addr == "" {
			errs = append(errs, fmt.Errorf("telemetry.addr is required for mode %q", c.Telemetry.Mode))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown telemetry.mode %q", c.Telemetry.Mode))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Logger builds the process logger described by the [log] section.
func (l Log) Logger(out io.Writer) *slog.Logger {
	lvl, _ := l.SlogLevel()
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// PhysicsOptions converts the configuration into bridge options.
func (c Config) PhysicsOptions(logger *slog.Logger) physics.Options {
	opts := physics.DefaultOptions()
	g := c.Simulation.Gravity
	opts.Gravity = rl.Vector3{X: g[0], Y: g[1], Z: g[2]}
	opts.StartRunning = c.Simulation.StartRunning
	opts.DespawnEntities = c.Simulation.DespawnEntities
	opts.Params.Dt = c.Simulation.Timestep
	opts.Params.Iterations = c.Solver.Iterations
	opts.Params.PositionIterations = c.Solver.PositionIterations
	opts.Params.Baumgarte = c.Solver.Baumgarte
	opts.Params.AllowedPenetration = c.Solver.AllowedPenetration
	opts.Params.RestitutionThreshold = c.Solver.RestitutionThreshold
	opts.Logger = logger
	return opts
}

// Marshal renders c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
