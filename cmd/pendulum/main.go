// Runs a revolute pendulum: it swings while running and holds its pose once
// paused. Prints the arm position as it goes.
package main

import (
	"fmt"
	"os"

	"physbridge/internal/engine"
	"physbridge/internal/physics"
	"physbridge/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	dt         = 1.0 / 60
	swingTicks = 120
	pauseTicks = 60
)

func main() {
	s := engine.NewScene("pendulum")
	_, arm := scene.Pendulum(s, rl.Vector3{}, 1)
	w := physics.NewPhysicsWorld(s, physics.DefaultOptions())

	rest := arm.Transform.Position
	w.RequestRun(physics.Run)
	for i := 0; i < swingTicks; i++ {
		report := w.Tick(dt)
		for _, err := range report.Errors {
			fmt.Fprintln(os.Stderr, "pendulum:", err)
		}
		if i%10 == 0 {
			p := arm.Transform.Position
			fmt.Printf("tick %4d  %-8s arm (%+.3f, %+.3f, %+.3f)\n", report.Tick, w.State(), p.X, p.Y, p.Z)
		}
	}
	swung := arm.Transform.Position

	w.RequestRun(physics.Pause)
	for i := 0; i < pauseTicks; i++ {
		w.Tick(dt)
	}
	held := arm.Transform.Position

	fmt.Printf("moved %.3f while running, %.6f while paused\n",
		rl.Vector3Distance(rest, swung), rl.Vector3Distance(swung, held))
	if rest == swung || swung != held {
		os.Exit(1)
	}
}
