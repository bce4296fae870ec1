package engine

// Scene is the host application's entity store. It owns entity lifetime; the
// physics bridge only attaches and removes components.
type Scene struct {
	Name        string
	GameObjects []*GameObject
	uidMap      map[Entity]*GameObject
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		uidMap:      make(map[Entity]*GameObject),
	}
}

// Spawn creates a GameObject, adds it to the scene and returns it.
func (s *Scene) Spawn(name string) *GameObject {
	g := NewGameObject(name)
	s.AddGameObject(g)
	return g
}

func (s *Scene) AddGameObject(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[Entity]*GameObject)
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
}

func (s *Scene) RemoveGameObject(g *GameObject) {
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			delete(s.uidMap, g.UID)
			g.Scene = nil
			return
		}
	}
}

// Despawn removes the entity with the given id. It returns false if the id is unknown.
func (s *Scene) Despawn(id Entity) bool {
	g := s.FindByUID(id)
	if g == nil {
		return false
	}
	s.RemoveGameObject(g)
	return true
}

// FindByUID is an O(1) lookup.
func (s *Scene) FindByUID(id Entity) *GameObject {
	if id == 0 || s.uidMap == nil {
		return nil
	}
	return s.uidMap[id]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

// Snapshot returns a copy of the object list, safe to iterate while the scene
// is being modified.
func (s *Scene) Snapshot() []*GameObject {
	out := make([]*GameObject, len(s.GameObjects))
	copy(out, s.GameObjects)
	return out
}

// Len returns the number of live entities.
func (s *Scene) Len() int {
	return len(s.GameObjects)
}
