package solver

// ColliderHandle addresses a Collider in a World.
type ColliderHandle Handle

func (h ColliderHandle) String() string { return Handle(h).String() }
func (h ColliderHandle) ID() uint64     { return Handle(h).ID() }

type Collider struct {
	Shape Shape
	// Offset is the collider pose relative to its parent body.
	Offset      Isometry
	Restitution float64
	Friction    float64
	Density     float64
	// Sensor colliders report collision events but never generate contact forces.
	Sensor bool
	// ActiveEvents enables Started/Stopped collision events for this collider.
	ActiveEvents bool
	UserData     uint64

	parent BodyHandle
}

// NewCollider returns a collider with unit density and the default material.
func NewCollider(shape Shape) Collider {
	return Collider{
		Shape:        shape,
		Offset:       IdentityIsometry(),
		Friction:     0.5,
		Density:      1,
		ActiveEvents: true,
	}
}

// Parent returns the body the collider is attached to.
func (c *Collider) Parent() BodyHandle { return c.parent }
