// Stress test timing bridge ticks as the number of bodies grows.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"physbridge/internal/components"
	"physbridge/internal/engine"
	"physbridge/internal/physics"
	"physbridge/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	dt         = 1.0 / 60
	warmup     = 30
	iterations = 120
)

func main() {
	// Test various object counts
	for _, count := range []int{50, 100, 250, 500, 1000} {
		testTick(count)
	}
}

func testTick(count int) {
	rng := rand.New(rand.NewSource(42)) // Consistent results
	s := engine.NewScene("stress")

	ground := s.Spawn("ground")
	ground.Transform.Position = rl.Vector3{Y: -0.5}
	components.BodyBundle{
		Body:  components.NewRigidBody(components.Fixed),
		Shape: components.NewCuboidShape(rl.Vector3{X: 100, Y: 0.5, Z: 100}),
	}.Insert(ground)

	// Spawn in a box whose size scales with count to keep density reasonable
	spawnSize := float32(10.0) + float32(count)/20.0
	for i := 0; i < count; i++ {
		g := s.Spawn(fmt.Sprintf("ball_%d", i))
		g.Transform.Position = rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: 1 + rng.Float32()*spawnSize,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		}
		components.BodyBundle{
			Body:  components.NewRigidBody(components.Dynamic),
			Shape: components.NewSphereShape(0.25 + rng.Float32()*0.25),
		}.Insert(g)
	}
	// a few multibodies so joints are part of the load
	for i := 0; i < count/50; i++ {
		scene.Snake(s, fmt.Sprintf("snake_%d", i), rl.Vector3{X: float32(i) * 2, Y: spawnSize + 2}, 6)
	}

	opts := physics.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	opts.StartRunning = true
	w := physics.NewPhysicsWorld(s, opts)

	for i := 0; i < warmup; i++ {
		w.Tick(dt)
	}

	var collisions int
	w.Responses.AddListener(func(b physics.ResponseBatch) {
		collisions += len(b.Collisions())
	})

	start := time.Now()
	var worst time.Duration
	for i := 0; i < iterations; i++ {
		r := w.Tick(dt)
		worst = max(worst, r.Duration)
	}
	avg := time.Since(start) / iterations

	fmt.Printf("%5d bodies: avg %8v | worst %8v | %5d collision events | %.1f ticks/frame budget\n",
		w.BodyCount(), avg.Round(time.Microsecond), worst.Round(time.Microsecond),
		collisions, float64(time.Second/60)/float64(avg))
}
