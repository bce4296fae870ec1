package physics

import "time"

// TickReport summarizes one tick.
type TickReport struct {
	Tick    uint64
	Stepped bool
	// Errors holds the construction errors of this tick.
	Errors   []error
	Batch    ResponseBatch
	Duration time.Duration
}

// Tick runs every system once in a fixed order and advances the solver by dt
// if the world is Running. The response batch is delivered to listeners once,
// and only when it is not empty.
func (w *PhysicsWorld) Tick(dt float64) TickReport {
	start := time.Now()
	w.tick++
	report := TickReport{Tick: w.tick}

	w.applyRunRequests()
	w.processDespawns()

	report.Errors = append(report.Errors, w.SyncNewBodies()...)
	report.Errors = append(report.Errors, w.AttachColliders()...)
	report.Errors = append(report.Errors, w.SyncJoints()...)

	w.ApplyGravityScales()
	w.ApplyForces()
	w.ApplyImpulses()
	report.Errors = append(report.Errors, w.ApplyMotorCommands()...)

	if w.state == Running {
		w.solver.Step(dt)
		report.Stepped = true
	}
	w.writeBackPoses()

	w.ClassifyMultibodies()
	w.AggregateMass()
	w.translateCollisions()

	report.Batch = ResponseBatch{Tick: w.tick, Events: w.pending}
	w.pending = nil
	if !report.Batch.Empty() {
		w.Responses.Invoke(report.Batch)
	}
	report.Duration = time.Since(start)
	return report
}
