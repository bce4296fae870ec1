package components

import (
	"errors"

	"physbridge/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("RigidBody", rigidBodyFromProps)
	engine.RegisterComponent("Collider", colliderFromProps)
	engine.RegisterComponent("PhysicalProperties", materialFromProps)
	engine.RegisterComponent("GravityScale", gravityScaleFromProps)
	engine.RegisterComponent("Force", forceFromProps)
	engine.RegisterComponent("Impulse", impulseFromProps)
}

func vec3Prop(props map[string]any, key string) (rl.Vector3, error) {
	v, _, err := engine.Vector3Prop(props, key)
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}, err
}

func rigidBodyFromProps(props map[string]any) (engine.Component, error) {
	s, err := engine.StringProp(props, "type", "dynamic")
	if err != nil {
		return nil, err
	}
	t, err := ParseBodyType(s)
	if err != nil {
		return nil, err
	}
	rb := NewRigidBody(t)
	lin, err1 := engine.Float32Prop(props, "linear_damping", 0)
	ang, err2 := engine.Float32Prop(props, "angular_damping", 0)
	if err := errors.Join(err1, err2); err != nil {
		return nil, err
	}
	rb.LinearDamping, rb.AngularDamping = lin, ang
	return rb, nil
}

func colliderFromProps(props map[string]any) (engine.Component, error) {
	s, err := engine.StringProp(props, "shape", "sphere")
	if err != nil {
		return nil, err
	}
	kind, err := ParseShapeKind(s)
	if err != nil {
		return nil, err
	}
	c := &ColliderShape{Shape: Shape{Kind: kind}}
	var errs [4]error
	c.Radius, errs[0] = engine.Float32Prop(props, "radius", 0.5)
	c.HalfHeight, errs[1] = engine.Float32Prop(props, "half_height", 0.5)
	c.HalfExtents, errs[2] = vec3Prop(props, "half_extents")
	c.Offset, errs[3] = vec3Prop(props, "offset")
	if err := errors.Join(errs[:]...); err != nil {
		return nil, err
	}
	if _, ok := props["half_extents"]; !ok {
		c.HalfExtents = rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}
	}
	return c, nil
}

func materialFromProps(props map[string]any) (engine.Component, error) {
	m := DefaultPhysicalProperties()
	var errs [4]error
	m.Restitution, errs[0] = engine.Float32Prop(props, "restitution", m.Restitution)
	m.Friction, errs[1] = engine.Float32Prop(props, "friction", m.Friction)
	m.Density, errs[2] = engine.Float32Prop(props, "density", m.Density)
	m.Sensor, errs[3] = engine.BoolProp(props, "sensor", false)
	if err := errors.Join(errs[:]...); err != nil {
		return nil, err
	}
	return m, nil
}

func gravityScaleFromProps(props map[string]any) (engine.Component, error) {
	v, err := engine.Float32Prop(props, "value", 1)
	if err != nil {
		return nil, err
	}
	return NewGravityScale(v), nil
}

func forceFromProps(props map[string]any) (engine.Component, error) {
	vec, err1 := vec3Prop(props, "vec")
	torque, err2 := vec3Prop(props, "torque")
	reset, err3 := engine.BoolProp(props, "reset", true)
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}
	f := NewForce(vec, reset)
	f.Torque = torque
	return f, nil
}

func impulseFromProps(props map[string]any) (engine.Component, error) {
	vec, err1 := vec3Prop(props, "vec")
	torque, err2 := vec3Prop(props, "torque")
	if err := errors.Join(err1, err2); err != nil {
		return nil, err
	}
	i := NewImpulse(vec)
	i.TorqueImpulse = torque
	return i, nil
}
