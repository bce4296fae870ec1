package physics

import (
	"strconv"

	"physbridge/internal/components"
	"physbridge/internal/engine"
	"physbridge/internal/solver"
)

// linkName is the entity name, or its id when it has none.
func linkName(g *engine.GameObject) string {
	if g.Name != "" {
		return g.Name
	}
	return strconv.FormatUint(uint64(g.UID), 10)
}

// pendingJoint reports whether g declares a joint the solver does not have
// yet. Such bodies are classified once the joint exists.
func (w *PhysicsWorld) pendingJoint(g *engine.GameObject) bool {
	if !engine.HasComponent[*components.Joint](g) {
		return false
	}
	_, created := w.joints[g.UID]
	return !created && !w.rejectedJoints[g.UID]
}

type linkMap struct {
	root   engine.Entity
	joints map[string]engine.Entity
	info   map[uint64]JointInfo
	size   int
}

// ClassifyMultibodies attaches MultibodyRoot or MultiBodyChild to every body
// that has neither. A body without joints becomes the root of a one-link
// multibody. Classified bodies are never revisited, so joints added or
// removed later leave the components stale.
func (w *PhysicsWorld) ClassifyMultibodies() {
	cache := make(map[solver.BodyHandle]*linkMap)
	for _, g := range w.entities() {
		hc, ok := engine.TryGetComponent[*components.RigidBodyHandle](g)
		if !ok || w.pendingJoint(g) ||
			engine.HasComponent[*components.MultibodyRoot](g) ||
			engine.HasComponent[*components.MultiBodyChild](g) {
			continue
		}

		mb := w.solver.Joints().MultibodyOf(hc.Handle)
		rootHandle := mb.Root()
		lm, ok := cache[rootHandle]
		if !ok {
			lm = w.buildLinkMap(mb)
			cache[rootHandle] = lm
		}
		if lm == nil {
			continue
		}

		if rootHandle == hc.Handle {
			g.AddComponent(&components.MultibodyRoot{Name: linkName(g), Joints: lm.joints})
			if lm.size > 1 {
				w.respond(Response{Kind: KindMultibodySpawned, Multibody: &MultibodySpawned{
					ID:     g.UID,
					Name:   linkName(g),
					Joints: lm.info,
				}})
			}
			w.log.Debug("multibody root classified", "entity", g.UID, "links", lm.size)
			continue
		}
		g.AddComponent(&components.MultiBodyChild{Root: lm.root, Joints: lm.joints})
	}
}

// buildLinkMap resolves every link of mb to its entity. Links without an
// entity are logged and skipped; a multibody whose root has no entity cannot
// be classified and yields nil.
func (w *PhysicsWorld) buildLinkMap(mb solver.Multibody) *linkMap {
	lm := &linkMap{
		joints: make(map[string]engine.Entity, len(mb.Links)),
		info:   make(map[uint64]JointInfo),
	}
	for i, link := range mb.Links {
		e, ok := w.bodies.Entity(link.Body)
		var g *engine.GameObject
		if ok {
			g = w.scene.FindByUID(e)
		}
		if g == nil {
			w.orphan(link.Body, "multibody link has no entity")
			if i == 0 {
				return nil
			}
			continue
		}
		if i == 0 {
			lm.root = e
		}

		name := linkName(g)
		if prev, taken := lm.joints[name]; taken && prev != e {
			name = name + "#" + strconv.FormatUint(uint64(e), 10)
		}
		lm.joints[name] = e
		lm.size++

		if link.HasParent {
			lm.info[link.Joint.ID()] = jointInfo(name, g)
		}
	}
	return lm
}

func jointInfo(name string, g *engine.GameObject) JointInfo {
	info := JointInfo{Name: name, Entity: g.UID}
	if jc, ok := engine.TryGetComponent[*components.Joint](g); ok {
		info.Kind = jc.Kind.String()
		info.Axis = [3]float32{jc.Axis.X, jc.Axis.Y, jc.Axis.Z}
		if jc.Limits != nil {
			l := *jc.Limits
			info.Limits = &l
		}
	}
	return info
}

// orphan logs a body the registry does not know, once per handle.
func (w *PhysicsWorld) orphan(h solver.BodyHandle, reason string) {
	if w.reportedOrphans[solver.Handle(h)] {
		return
	}
	w.reportedOrphans[solver.Handle(h)] = true
	w.consistency(&ConsistencyError{Handle: solver.Handle(h), Reason: reason})
}

// AggregateMass attaches Mass and MultibodyMass to every body that lacks
// MultibodyMass. MultibodyMass sums every body reachable through joints.
// Values are computed once and not refreshed when the topology changes.
func (w *PhysicsWorld) AggregateMass() {
	for _, g := range w.entities() {
		hc, ok := engine.TryGetComponent[*components.RigidBodyHandle](g)
		if !ok || w.pendingJoint(g) || engine.HasComponent[*components.MultibodyMass](g) {
			continue
		}
		body, ok := w.solver.Body(hc.Handle)
		if !ok {
			w.consistency(&ConsistencyError{Entity: g.UID, Handle: solver.Handle(hc.Handle), Reason: "handle does not resolve"})
			continue
		}
		g.AddComponent(&components.Mass{Value: float32(body.Mass())})
		g.AddComponent(&components.MultibodyMass{Value: float32(w.multibodyMass(hc.Handle))})
	}
}

// multibodyMass is a depth-first sum over the joint graph that never walks
// back along the edge it arrived through.
func (w *PhysicsWorld) multibodyMass(h solver.BodyHandle) float64 {
	joints := w.solver.Joints()
	var sum func(b, from solver.BodyHandle, hasFrom bool) float64
	sum = func(b, from solver.BodyHandle, hasFrom bool) float64 {
		total := 0.0
		if body, ok := w.solver.Body(b); ok {
			total = body.Mass()
		} else {
			w.orphan(b, "joint references a missing body")
		}
		for _, next := range joints.AttachedBodies(b) {
			if hasFrom && next == from {
				continue
			}
			total += sum(next, b, true)
		}
		return total
	}
	return sum(h, solver.BodyHandle{}, false)
}
