package engine

import "testing"

type mockComponent struct {
	BaseComponent
	Speed float32
}

func mockFactory(props map[string]any) (Component, error) {
	speed, err := Float32Prop(props, "speed", 1)
	if err != nil {
		return nil, err
	}
	return &mockComponent{Speed: speed}, nil
}

func TestRegisterComponent(t *testing.T) {
	componentRegistry = map[string]ComponentFactory{}

	RegisterComponent("Mock", mockFactory)

	if _, exists := componentRegistry["Mock"]; !exists {
		t.Error("Component not registered")
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	componentRegistry = map[string]ComponentFactory{}

	RegisterComponent("Duplicate", mockFactory)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()

	RegisterComponent("Duplicate", mockFactory)
}

func TestCreateComponent(t *testing.T) {
	componentRegistry = map[string]ComponentFactory{}
	RegisterComponent("Mock", mockFactory)

	c, err := CreateComponent("Mock", map[string]any{"speed": 2.5})
	if err != nil {
		t.Fatalf("CreateComponent: %v", err)
	}
	mock, ok := c.(*mockComponent)
	if !ok {
		t.Fatalf("Expected *mockComponent, got %T", c)
	}
	if mock.Speed != 2.5 {
		t.Errorf("Expected speed 2.5, got %f", mock.Speed)
	}

	if _, err := CreateComponent("Missing", nil); err == nil {
		t.Error("Expected error for unknown component")
	}

	if _, err := CreateComponent("Mock", map[string]any{"speed": "fast"}); err == nil {
		t.Error("Expected error for non-numeric property")
	}
}

func TestRegisteredComponentsSorted(t *testing.T) {
	componentRegistry = map[string]ComponentFactory{}
	RegisterComponent("Zeta", mockFactory)
	RegisterComponent("Alpha", mockFactory)

	names := RegisteredComponents()
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Zeta" {
		t.Errorf("Expected [Alpha Zeta], got %v", names)
	}
}

func TestVector3Prop(t *testing.T) {
	v, ok, err := Vector3Prop(map[string]any{"axis": []any{1, 0.5, -2}}, "axis")
	if err != nil || !ok {
		t.Fatalf("Vector3Prop: ok=%v err=%v", ok, err)
	}
	if v != [3]float32{1, 0.5, -2} {
		t.Errorf("Unexpected vector %v", v)
	}

	_, ok, err = Vector3Prop(map[string]any{}, "axis")
	if ok || err != nil {
		t.Error("Missing key should be ok=false without error")
	}

	_, _, err = Vector3Prop(map[string]any{"axis": []any{1, 2}}, "axis")
	if err == nil {
		t.Error("Expected error for short list")
	}
}
