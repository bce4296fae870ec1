package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrJointCycle is returned when a joint would close a loop in the joint graph.
	ErrJointCycle = errors.New("joint would create a cycle")
	// ErrJointParent is returned when the child body already has a parent joint.
	ErrJointParent = errors.New("child body already has a parent joint")
	// ErrUnknownBody is returned for handles that do not resolve.
	ErrUnknownBody = errors.New("unknown rigid body")
)

// JointHandle addresses a joint in a JointSet.
type JointHandle Handle

func (h JointHandle) String() string { return Handle(h).String() }
func (h JointHandle) ID() uint64     { return Handle(h).ID() }

type jointEntry struct {
	parent BodyHandle
	child  BodyHandle
	joint  GenericJoint
}

// JointSet stores joints as a forest: every body has at most one parent
// joint, and the joint graph never contains a cycle. Each tree is a
// multibody whose root is the body without a parent.
type JointSet struct {
	joints   Arena[jointEntry]
	parentOf map[BodyHandle]JointHandle
	children map[BodyHandle][]JointHandle
}

func newJointSet() JointSet {
	return JointSet{
		parentOf: make(map[BodyHandle]JointHandle),
		children: make(map[BodyHandle][]JointHandle),
	}
}

// Len returns the number of joints.
func (js *JointSet) Len() int { return js.joints.Len() }

// Get returns the joint and its two bodies.
func (js *JointSet) Get(h JointHandle) (joint *GenericJoint, parent, child BodyHandle, ok bool) {
	e, ok := js.joints.Get(Handle(h))
	if !ok {
		return nil, BodyHandle{}, BodyHandle{}, false
	}
	return &e.joint, e.parent, e.child, true
}

// ParentJoint returns the joint connecting b to its parent.
func (js *JointSet) ParentJoint(b BodyHandle) (JointHandle, bool) {
	h, ok := js.parentOf[b]
	return h, ok
}

// Root follows parent joints up from b.
func (js *JointSet) Root(b BodyHandle) BodyHandle {
	for {
		jh, ok := js.parentOf[b]
		if !ok {
			return b
		}
		e, ok := js.joints.Get(Handle(jh))
		if !ok {
			return b
		}
		b = e.parent
	}
}

// insert links child under parent. The caller checks that both bodies exist.
func (js *JointSet) insert(parent, child BodyHandle, j GenericJoint) (JointHandle, error) {
	if parent == child {
		return JointHandle{}, fmt.Errorf("%w: body %v joined to itself", ErrJointCycle, parent)
	}
	if _, has := js.parentOf[child]; has {
		return JointHandle{}, fmt.Errorf("%w: body %v", ErrJointParent, child)
	}
	if js.Root(parent) == child {
		return JointHandle{}, fmt.Errorf("%w: body %v is an ancestor of %v", ErrJointCycle, child, parent)
	}
	h := JointHandle(js.joints.Insert(jointEntry{parent: parent, child: child, joint: j}))
	js.parentOf[child] = h
	js.children[parent] = append(js.children[parent], h)
	return h, nil
}

// remove deletes a joint; the child's subtree becomes its own multibody.
func (js *JointSet) remove(h JointHandle) bool {
	e, ok := js.joints.Remove(Handle(h))
	if !ok {
		return false
	}
	delete(js.parentOf, e.child)
	kids := js.children[e.parent]
	for i, k := range kids {
		if k == h {
			js.children[e.parent] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	if len(js.children[e.parent]) == 0 {
		delete(js.children, e.parent)
	}
	return true
}

// removeBody deletes every joint attached to b and returns their handles.
func (js *JointSet) removeBody(b BodyHandle) []JointHandle {
	var removed []JointHandle
	if h, ok := js.parentOf[b]; ok {
		js.remove(h)
		removed = append(removed, h)
	}
	for _, h := range append([]JointHandle(nil), js.children[b]...) {
		js.remove(h)
		removed = append(removed, h)
	}
	return removed
}

// AttachedBodies returns the bodies sharing a joint with b: its parent first,
// then its children in insertion order.
func (js *JointSet) AttachedBodies(b BodyHandle) []BodyHandle {
	var out []BodyHandle
	if h, ok := js.parentOf[b]; ok {
		if e, ok := js.joints.Get(Handle(h)); ok {
			out = append(out, e.parent)
		}
	}
	for _, h := range js.children[b] {
		if e, ok := js.joints.Get(Handle(h)); ok {
			out = append(out, e.child)
		}
	}
	return out
}

// Linked reports whether a and b share a joint, and that joint.
func (js *JointSet) Linked(a, b BodyHandle) (JointHandle, bool) {
	if h, ok := js.parentOf[a]; ok {
		if e, ok := js.joints.Get(Handle(h)); ok && e.parent == b {
			return h, true
		}
	}
	if h, ok := js.parentOf[b]; ok {
		if e, ok := js.joints.Get(Handle(h)); ok && e.parent == a {
			return h, true
		}
	}
	return JointHandle{}, false
}

// Each calls fn for every joint in handle order.
func (js *JointSet) Each(fn func(h JointHandle, parent, child BodyHandle, j *GenericJoint)) {
	js.joints.Each(func(h Handle, e *jointEntry) {
		fn(JointHandle(h), e.parent, e.child, &e.joint)
	})
}

// MultibodyLink is one body of a multibody. The root link has no parent joint.
type MultibodyLink struct {
	Body       BodyHandle
	Parent     BodyHandle
	Joint      JointHandle
	HasParent  bool
	ParentLink int
}

// Multibody is a tree of bodies connected by joints. Links[0] is the root;
// parents always precede their children.
type Multibody struct {
	Links []MultibodyLink
}

// Root returns the root body handle.
func (m Multibody) Root() BodyHandle { return m.Links[0].Body }

// LinkOf returns the index of the link for body b.
func (m Multibody) LinkOf(b BodyHandle) (int, bool) {
	for i, l := range m.Links {
		if l.Body == b {
			return i, true
		}
	}
	return 0, false
}

// MultibodyOf returns the multibody containing b. A body without joints is a
// multibody of a single root link.
func (js *JointSet) MultibodyOf(b BodyHandle) Multibody {
	root := js.Root(b)
	mb := Multibody{Links: []MultibodyLink{{Body: root, ParentLink: -1}}}
	for i := 0; i < len(mb.Links); i++ {
		cur := mb.Links[i].Body
		for _, jh := range js.children[cur] {
			e, ok := js.joints.Get(Handle(jh))
			if !ok {
				continue
			}
			mb.Links = append(mb.Links, MultibodyLink{
				Body:       e.child,
				Parent:     cur,
				Joint:      jh,
				HasParent:  true,
				ParentLink: i,
			})
		}
	}
	return mb
}
