package engine

// GameObjectRef is a weak reference to a GameObject by UID. It never keeps
// the target alive and resolves to nil once the target is despawned.
//
// Joints use it to name their parent body:
//
//	joint.Parent = engine.RefTo(parent)
//	if p := joint.Parent.Get(scene); p != nil {
//	    // parent is still alive
//	}
type GameObjectRef struct {
	UID Entity // 0 = none
}

// RefTo returns a reference to g. A nil g gives an empty reference.
func RefTo(g *GameObject) GameObjectRef {
	var r GameObjectRef
	r.Set(g)
	return r
}

// Get resolves the reference to the actual GameObject.
// Returns nil if the reference is empty (UID = 0) or if the GameObject doesn't exist.
func (r GameObjectRef) Get(scene *Scene) *GameObject {
	if r.UID == 0 || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

// IsValid returns true if the reference points to something (UID != 0).
// Note: This doesn't check if the GameObject actually exists in the scene.
func (r GameObjectRef) IsValid() bool {
	return r.UID != 0
}

// Set sets the reference to point to the given GameObject.
// Pass nil to clear the reference.
func (r *GameObjectRef) Set(g *GameObject) {
	if g == nil {
		r.UID = 0
	} else {
		r.UID = g.UID
	}
}

// Clear clears the reference (sets UID to 0).
func (r *GameObjectRef) Clear() {
	r.UID = 0
}
