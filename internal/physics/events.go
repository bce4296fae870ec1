package physics

import (
	"physbridge/internal/components"
	"physbridge/internal/engine"
	"physbridge/internal/solver"
)

type ResponseKind string

const (
	KindRigidBodySpawned ResponseKind = "rigid_body_spawned"
	KindMultibodySpawned ResponseKind = "multibody_spawned"
	KindDespawned        ResponseKind = "despawned"
	KindCollision        ResponseKind = "collision"
	KindJointMotor       ResponseKind = "joint_motor"
	KindStateChanged     ResponseKind = "state_changed"
)

type RigidBodySpawned struct {
	ID     engine.Entity `json:"id"`
	Name   string        `json:"name"`
	Handle uint64        `json:"handle"`
}

// JointInfo describes one joint of a multibody, as reported to telemetry.
type JointInfo struct {
	Name   string             `json:"name"`
	Entity engine.Entity      `json:"entity"`
	Kind   string             `json:"kind"`
	Axis   [3]float32         `json:"axis"`
	Limits *components.Limits `json:"limits,omitempty"`
}

// MultibodySpawned is emitted once when a multibody root is classified.
// Joints is keyed by solver joint handle id.
type MultibodySpawned struct {
	ID     engine.Entity        `json:"id"`
	Name   string               `json:"name"`
	Joints map[uint64]JointInfo `json:"joints"`
}

type Despawned struct {
	ID   engine.Entity `json:"id"`
	Name string        `json:"name"`
}

type CollisionKind string

const (
	CollisionStarted CollisionKind = "started"
	CollisionStopped CollisionKind = "stopped"
)

// CollisionEvent is a solver collision event translated to entities.
type CollisionEvent struct {
	Kind    CollisionKind `json:"kind"`
	Entity1 engine.Entity `json:"entity1"`
	Entity2 engine.Entity `json:"entity2"`
	Sensor  bool          `json:"sensor,omitempty"`
	Removed bool          `json:"removed,omitempty"`
}

// JointMotorEvent reports a motor command that reached the solver.
type JointMotorEvent struct {
	Joint    engine.Entity `json:"joint"`
	Mode     MotorMode     `json:"mode"`
	Target   float32       `json:"target"`
	MaxForce float32       `json:"max_force"`
}

type StateChanged struct {
	State SimState `json:"state"`
}

// Response is one entry of a ResponseBatch. Exactly one payload is set,
// matching Kind.
type Response struct {
	Kind      ResponseKind      `json:"kind"`
	Body      *RigidBodySpawned `json:"body,omitempty"`
	Multibody *MultibodySpawned `json:"multibody,omitempty"`
	Despawned *Despawned        `json:"despawned,omitempty"`
	Collision *CollisionEvent   `json:"collision,omitempty"`
	Motor     *JointMotorEvent  `json:"motor,omitempty"`
	State     *StateChanged     `json:"state,omitempty"`
}

// ResponseBatch is everything the core produced during one tick.
type ResponseBatch struct {
	Tick   uint64     `json:"tick"`
	Events []Response `json:"events"`
}

func (b ResponseBatch) Empty() bool { return len(b.Events) == 0 }

// Collisions returns the collision events of the batch.
func (b ResponseBatch) Collisions() []CollisionEvent {
	var out []CollisionEvent
	for _, r := range b.Events {
		if r.Collision != nil {
			out = append(out, *r.Collision)
		}
	}
	return out
}

func (w *PhysicsWorld) respond(r Response) {
	w.pending = append(w.pending, r)
}

// translateCollisions drains solver collision events and maps collider
// handles to entities. Colliders removed earlier this tick resolve through
// the graveyard.
func (w *PhysicsWorld) translateCollisions() {
	for _, ev := range w.solver.DrainCollisionEvents() {
		e1, ok1 := w.colliderOwner(ev.Collider1)
		e2, ok2 := w.colliderOwner(ev.Collider2)
		if !ok1 || !ok2 {
			missing := ev.Collider1
			if ok1 {
				missing = ev.Collider2
			}
			w.consistency(&ConsistencyError{
				Handle: solver.Handle(missing),
				Reason: "collision event for a collider no entity owns",
			})
			continue
		}
		kind := CollisionStarted
		if ev.Kind == solver.CollisionStopped {
			kind = CollisionStopped
		}
		w.respond(Response{Kind: KindCollision, Collision: &CollisionEvent{
			Kind:    kind,
			Entity1: e1,
			Entity2: e2,
			Sensor:  ev.Flags.Has(solver.FlagSensor),
			Removed: ev.Flags.Has(solver.FlagRemoved),
		}})
	}
	clear(w.colliderGraveyard)
}
