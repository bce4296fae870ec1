// Package physics bridges the engine's entities to the rigid-body solver.
//
// A PhysicsWorld owns the solver and every entity to handle index. The host
// calls Tick once per frame; each tick syncs new bodies, colliders and joints
// into the solver, applies actuators, steps while running, and then reads
// poses, multibody topology, masses and collisions back into components.
package physics

import (
	"log/slog"

	"physbridge/internal/conv"
	"physbridge/internal/engine"
	"physbridge/internal/solver"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Options configure a PhysicsWorld.
type Options struct {
	Gravity rl.Vector3
	Params  solver.IntegrationParameters
	// StartRunning begins in the Running state instead of Stopped.
	StartRunning bool
	// DespawnEntities also removes despawned entities from the scene, not
	// just their physics components.
	DespawnEntities bool
	Logger          *slog.Logger
}

// DefaultOptions returns earth gravity and the default solver parameters.
func DefaultOptions() Options {
	return Options{
		Gravity: rl.Vector3{X: 0, Y: -9.81, Z: 0},
		Params:  solver.DefaultIntegrationParameters(),
	}
}

// PhysicsWorld is the bridge between one engine scene and one solver world.
type PhysicsWorld struct {
	scene  *engine.Scene
	solver *solver.World
	opts   Options
	log    *slog.Logger

	bodies *EntityBodyHandleMap

	colliders         map[engine.Entity]solver.ColliderHandle
	colliderEntity    map[solver.ColliderHandle]engine.Entity
	colliderGraveyard map[solver.ColliderHandle]engine.Entity

	joints      map[engine.Entity]solver.JointHandle
	jointEntity map[solver.JointHandle]engine.Entity

	// entities whose spawn was rejected; reported once, never retried
	rejectedBodies  map[engine.Entity]bool
	rejectedShapes  map[engine.Entity]rejectedShape
	rejectedJoints  map[engine.Entity]bool
	reportedOrphans map[solver.Handle]bool

	state       SimState
	tick        uint64
	runRequests engine.EventQueue[RunRequest]
	despawns    engine.EventQueue[DespawnMultibody]
	motors      engine.EventQueue[MotorCommand]

	pending []Response
	errs    []error

	// Responses is invoked once per tick with a non-empty batch.
	Responses engine.EventWithArg[ResponseBatch]
}

func NewPhysicsWorld(scene *engine.Scene, opts Options) *PhysicsWorld {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "physics")

	w := &PhysicsWorld{
		scene:             scene,
		solver:            solver.NewWorld(conv.Vec3ToSolver(opts.Gravity), opts.Params, logger),
		opts:              opts,
		log:               logger,
		bodies:            NewEntityBodyHandleMap(),
		colliders:         make(map[engine.Entity]solver.ColliderHandle),
		colliderEntity:    make(map[solver.ColliderHandle]engine.Entity),
		colliderGraveyard: make(map[solver.ColliderHandle]engine.Entity),
		joints:            make(map[engine.Entity]solver.JointHandle),
		jointEntity:       make(map[solver.JointHandle]engine.Entity),
		rejectedBodies:    make(map[engine.Entity]bool),
		rejectedShapes:    make(map[engine.Entity]rejectedShape),
		rejectedJoints:    make(map[engine.Entity]bool),
		reportedOrphans:   make(map[solver.Handle]bool),
	}
	if opts.StartRunning {
		w.state = Running
	}
	return w
}

// Scene returns the scene the world reads entities from.
func (w *PhysicsWorld) Scene() *engine.Scene { return w.scene }

// Solver exposes the underlying solver for queries. Mutating it directly
// bypasses the entity bookkeeping.
func (w *PhysicsWorld) Solver() *solver.World { return w.solver }

// Bodies returns the entity to body handle index.
func (w *PhysicsWorld) Bodies() *EntityBodyHandleMap { return w.bodies }

// Lookup returns the solver body of an entity.
func (w *PhysicsWorld) Lookup(e engine.Entity) (solver.BodyHandle, bool) {
	return w.bodies.Handle(e)
}

// BodyCount returns the number of bodies in the solver.
func (w *PhysicsWorld) BodyCount() int { return w.solver.BodyCount() }

// Gravity returns the world gravity in engine coordinates.
func (w *PhysicsWorld) Gravity() rl.Vector3 { return conv.Vec3ToEngine(w.solver.Gravity) }

// SetGravity changes gravity from the next step on.
func (w *PhysicsWorld) SetGravity(g rl.Vector3) {
	w.solver.Gravity = conv.Vec3ToSolver(g)
}

// Ticks returns the number of completed ticks.
func (w *PhysicsWorld) Ticks() uint64 { return w.tick }

// entities iterates the scene in spawn order.
func (w *PhysicsWorld) entities() []*engine.GameObject {
	return w.scene.Snapshot()
}

func (w *PhysicsWorld) configuration(err *ConfigurationError) {
	w.log.Error("rejected physics input", "entity", err.Entity, "op", err.Op, "err", err.Err)
	w.errs = append(w.errs, err)
}

func (w *PhysicsWorld) consistency(err *ConsistencyError) {
	w.log.Warn("physics bookkeeping inconsistent", "entity", err.Entity, "handle", err.Handle, "reason", err.Reason)
}

// takeErrors returns construction errors collected since the last call.
func (w *PhysicsWorld) takeErrors() []error {
	out := w.errs
	w.errs = nil
	return out
}

func (w *PhysicsWorld) colliderOwner(h solver.ColliderHandle) (engine.Entity, bool) {
	if e, ok := w.colliderEntity[h]; ok {
		return e, true
	}
	e, ok := w.colliderGraveyard[h]
	return e, ok
}

// Raycast returns the entity whose collider the ray hits first.
func (w *PhysicsWorld) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	hit, ok := w.solver.CastRay(conv.PointToSolver(origin), conv.Vec3ToSolver(direction), float64(maxDistance))
	if !ok {
		return RaycastHit{}, false
	}
	e, ok := w.colliderEntity[hit.Collider]
	if !ok {
		return RaycastHit{}, false
	}
	return RaycastHit{
		Entity:   e,
		Point:    conv.PointToEngine(hit.Point),
		Normal:   conv.Vec3ToEngine(hit.Normal),
		Distance: float32(hit.Distance),
	}, true
}

type RaycastHit struct {
	Entity   engine.Entity
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}
