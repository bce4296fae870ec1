package components

import (
	"physbridge/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// changeFlag marks a component as modified since the physics systems last
// consumed it. Components start out changed.
type changeFlag struct {
	clean bool
}

// MarkChanged flags the component for the next tick. Setters call it; code
// that writes fields directly must call it too.
func (c *changeFlag) MarkChanged() { c.clean = false }

// Changed reports whether the component has unconsumed changes.
func (c *changeFlag) Changed() bool { return !c.clean }

// Consume returns whether the component changed and clears the flag.
func (c *changeFlag) Consume() bool {
	changed := !c.clean
	c.clean = true
	return changed
}

// GravityScale multiplies world gravity for one body.
type GravityScale struct {
	engine.BaseComponent
	changeFlag
	Value   float32
	initial float32
}

func NewGravityScale(v float32) *GravityScale {
	return &GravityScale{Value: v, initial: v}
}

func (g *GravityScale) Set(v float32) {
	g.Value = v
	g.MarkChanged()
}

// Initial returns the value the component was created with.
func (g *GravityScale) Initial() float32 { return g.initial }

// Reset restores the value the component was created with.
func (g *GravityScale) Reset() {
	g.Set(g.initial)
}

// Force is a continuous force and torque on a body. With ResetForces set the
// body's accumulated force is cleared before Vec is added, so the same value
// set every tick replaces rather than compounds.
type Force struct {
	engine.BaseComponent
	changeFlag
	Vec         rl.Vector3
	Torque      rl.Vector3
	ResetForces bool
}

func NewForce(vec rl.Vector3, reset bool) *Force {
	return &Force{Vec: vec, ResetForces: reset}
}

func (f *Force) Set(vec, torque rl.Vector3) {
	f.Vec = vec
	f.Torque = torque
	f.MarkChanged()
}

// Impulse is applied once per change.
type Impulse struct {
	engine.BaseComponent
	changeFlag
	Vec           rl.Vector3
	TorqueImpulse rl.Vector3
}

func NewImpulse(vec rl.Vector3) *Impulse {
	return &Impulse{Vec: vec}
}

func (i *Impulse) Set(vec, torque rl.Vector3) {
	i.Vec = vec
	i.TorqueImpulse = torque
	i.MarkChanged()
}
