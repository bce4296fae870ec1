// Package scene loads YAML spawn files into an engine scene and builds the
// stock multibodies used by the runners.
package scene

import (
	"errors"
	"fmt"
	"os"

	"physbridge/internal/components"
	"physbridge/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// --- YAML types ---

type File struct {
	Objects []ObjectDef `yaml:"objects"`
}

type ObjectDef struct {
	Name     string     `yaml:"name"`
	Tags     []string   `yaml:"tags,omitempty"`
	Position [3]float32 `yaml:"position"`
	// Rotation is a quaternion x, y, z, w; omitted means identity.
	Rotation *[4]float32 `yaml:"rotation,omitempty"`

	Body         map[string]any `yaml:"body,omitempty"`
	Collider     map[string]any `yaml:"collider,omitempty"`
	Material     map[string]any `yaml:"material,omitempty"`
	GravityScale *float32       `yaml:"gravity_scale,omitempty"`
	Joint        *JointDef      `yaml:"joint,omitempty"`
	// Components lists any other registered component by name.
	Components []ComponentDef `yaml:"components,omitempty"`
}

type ComponentDef struct {
	Type  string         `yaml:"type"`
	Props map[string]any `yaml:"props,omitempty"`
}

type AnchorDef struct {
	Position [3]float32  `yaml:"position"`
	Rotation *[4]float32 `yaml:"rotation,omitempty"`
}

type MotorDef struct {
	TargetPos float32 `yaml:"target_pos,omitempty"`
	TargetVel float32 `yaml:"target_vel,omitempty"`
	Stiffness float32 `yaml:"stiffness,omitempty"`
	Damping   float32 `yaml:"damping,omitempty"`
	MaxForce  float32 `yaml:"max_force,omitempty"`
}

type JointDef struct {
	Kind            string      `yaml:"kind"`
	Parent          string      `yaml:"parent"`
	ParentAnchor    AnchorDef   `yaml:"parent_anchor"`
	ChildAnchor     AnchorDef   `yaml:"child_anchor"`
	Axis            [3]float32  `yaml:"axis,omitempty"`
	Limits          *[2]float32 `yaml:"limits,omitempty"`
	Motor           *MotorDef   `yaml:"motor,omitempty"`
	ContactsEnabled bool        `yaml:"contacts_enabled,omitempty"`
}

func vec(v [3]float32) rl.Vector3 { return rl.Vector3{X: v[0], Y: v[1], Z: v[2]} }

func quat(q *[4]float32) rl.Quaternion {
	if q == nil {
		return rl.QuaternionIdentity()
	}
	return rl.Quaternion{X: q[0], Y: q[1], Z: q[2], W: q[3]}
}

// --- Loading ---

// Load reads a spawn file and adds its objects to s.
func Load(s *engine.Scene, path string) ([]*engine.GameObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Decode(s, data)
}

// Decode parses a spawn file and adds its objects to s. Joint parents are
// resolved by name after every object is built, so a child may appear before
// its parent. On any error nothing is added to s.
func Decode(s *engine.Scene, data []byte) ([]*engine.GameObject, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	objs := make([]*engine.GameObject, len(f.Objects))
	byName := make(map[string]*engine.GameObject, len(f.Objects))
	var errs []error
	for i, def := range f.Objects {
		g, err := buildObject(def)
		if err != nil {
			errs = append(errs, fmt.Errorf("object %d (%q): %w", i, def.Name, err))
			continue
		}
		if def.Name != "" {
			if _, dup := byName[def.Name]; dup {
				errs = append(errs, fmt.Errorf("object %d: duplicate name %q", i, def.Name))
				continue
			}
			byName[def.Name] = g
		}
		objs[i] = g
	}

	for i, def := range f.Objects {
		if def.Joint == nil || objs[i] == nil {
			continue
		}
		parent, ok := byName[def.Joint.Parent]
		if !ok {
			errs = append(errs, fmt.Errorf("object %q: joint parent %q not found", def.Name, def.Joint.Parent))
			continue
		}
		j, err := buildJoint(*def.Joint, parent)
		if err != nil {
			errs = append(errs, fmt.Errorf("object %q: %w", def.Name, err))
			continue
		}
		objs[i].AddComponent(j)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	for _, g := range objs {
		s.AddGameObject(g)
	}
	return objs, nil
}

func buildObject(def ObjectDef) (*engine.GameObject, error) {
	g := engine.NewGameObject(def.Name)
	g.Tags = def.Tags
	g.Transform = engine.NewTransform(vec(def.Position), quat(def.Rotation))

	named := []struct {
		name  string
		props map[string]any
	}{
		{"RigidBody", def.Body},
		{"Collider", def.Collider},
		{"PhysicalProperties", def.Material},
	}
	for _, n := range named {
		if n.props == nil {
			continue
		}
		c, err := engine.CreateComponent(n.name, n.props)
		if err != nil {
			return nil, err
		}
		g.AddComponent(c)
	}
	if def.Collider != nil && def.Material == nil {
		g.AddComponent(components.DefaultPhysicalProperties())
	}
	if def.GravityScale != nil {
		g.AddComponent(components.NewGravityScale(*def.GravityScale))
	}
	for _, cd := range def.Components {
		props := cd.Props
		if props == nil {
			props = map[string]any{}
		}
		c, err := engine.CreateComponent(cd.Type, props)
		if err != nil {
			return nil, err
		}
		g.AddComponent(c)
	}
	return g, nil
}

func buildJoint(def JointDef, parent *engine.GameObject) (*components.Joint, error) {
	kind, err := components.ParseJointKind(def.Kind)
	if err != nil {
		return nil, err
	}
	pa := components.Anchor{Position: vec(def.ParentAnchor.Position), Rotation: quat(def.ParentAnchor.Rotation)}
	ca := components.Anchor{Position: vec(def.ChildAnchor.Position), Rotation: quat(def.ChildAnchor.Rotation)}

	var j *components.Joint
	switch kind {
	case components.FixedJoint:
		j = components.NewFixedJoint(parent, pa, ca)
	case components.RevoluteJoint:
		j = components.NewRevoluteJoint(parent, pa, ca, vec(def.Axis))
	case components.PrismaticJoint:
		j = components.NewPrismaticJoint(parent, pa, ca, vec(def.Axis))
	case components.SphericalJoint:
		j = components.NewSphericalJoint(parent, pa, ca)
	}
	if def.Limits != nil {
		j.WithLimits(def.Limits[0], def.Limits[1])
	}
	if def.Motor != nil {
		j.WithMotor(components.Motor(*def.Motor))
	}
	j.ContactsEnabled = def.ContactsEnabled
	return j, nil
}

// --- Saving ---

// Export describes the physics components of every object in s. Runtime
// components such as handles and masses are not written.
func Export(s *engine.Scene) File {
	var f File
	for _, g := range s.GameObjects {
		rot := g.Transform.Rotation
		def := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: [3]float32{g.Transform.Position.X, g.Transform.Position.Y, g.Transform.Position.Z},
			Rotation: &[4]float32{rot.X, rot.Y, rot.Z, rot.W},
		}
		if rb, ok := engine.TryGetComponent[*components.RigidBody](g); ok {
			def.Body = map[string]any{
				"type":            rb.Type.String(),
				"linear_damping":  rb.LinearDamping,
				"angular_damping": rb.AngularDamping,
			}
		}
		if cs, ok := engine.TryGetComponent[*components.ColliderShape](g); ok {
			def.Collider = map[string]any{
				"shape":        cs.Kind.String(),
				"radius":       cs.Radius,
				"half_height":  cs.HalfHeight,
				"half_extents": []any{cs.HalfExtents.X, cs.HalfExtents.Y, cs.HalfExtents.Z},
				"offset":       []any{cs.Offset.X, cs.Offset.Y, cs.Offset.Z},
			}
		}
		if m, ok := engine.TryGetComponent[*components.ColliderPhysicalProperties](g); ok {
			def.Material = map[string]any{
				"restitution": m.Restitution,
				"friction":    m.Friction,
				"density":     m.Density,
				"sensor":      m.Sensor,
			}
		}
		if gs, ok := engine.TryGetComponent[*components.GravityScale](g); ok {
			v := gs.Value
			def.GravityScale = &v
		}
		if j, ok := engine.TryGetComponent[*components.Joint](g); ok {
			def.Joint = exportJoint(s, j)
		}
		f.Objects = append(f.Objects, def)
	}
	return f
}

func exportJoint(s *engine.Scene, j *components.Joint) *JointDef {
	anchor := func(a components.Anchor) AnchorDef {
		return AnchorDef{
			Position: [3]float32{a.Position.X, a.Position.Y, a.Position.Z},
			Rotation: &[4]float32{a.Rotation.X, a.Rotation.Y, a.Rotation.Z, a.Rotation.W},
		}
	}
	def := &JointDef{
		Kind:            j.Kind.String(),
		ParentAnchor:    anchor(j.ParentAnchor),
		ChildAnchor:     anchor(j.ChildAnchor),
		Axis:            [3]float32{j.Axis.X, j.Axis.Y, j.Axis.Z},
		ContactsEnabled: j.ContactsEnabled,
	}
	if p := j.Parent.Get(s); p != nil {
		def.Parent = p.Name
	}
	if j.Limits != nil {
		def.Limits = &[2]float32{j.Limits.Min, j.Limits.Max}
	}
	if j.Motor != nil {
		m := MotorDef(*j.Motor)
		def.Motor = &m
	}
	return def
}

// Save writes the physics description of s to path.
func Save(s *engine.Scene, path string) error {
	data, err := yaml.Marshal(Export(s))
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
