package engine

// Component is anything that can be attached to a GameObject. Components are
// plain data; systems in other packages read and write them.
type Component interface {
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}

// Entity returns the owning entity, or 0 when the component is detached.
func (b *BaseComponent) Entity() Entity {
	if b.gameObject == nil {
		return 0
	}
	return b.gameObject.UID
}
