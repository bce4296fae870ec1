package engine

import (
	"fmt"
	"sort"
)

// ComponentFactory builds a component from loosely typed properties, as
// decoded from a scene file.
type ComponentFactory func(props map[string]any) (Component, error)

var componentRegistry = map[string]ComponentFactory{}

// RegisterComponent registers a named component factory. Registering the same
// name twice is a programming error and panics.
func RegisterComponent(name string, factory ComponentFactory) {
	if _, exists := componentRegistry[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	componentRegistry[name] = factory
}

// CreateComponent looks up a registered component by name and creates it with the given props.
func CreateComponent(name string, props map[string]any) (Component, error) {
	factory, ok := componentRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown component %q", name)
	}
	c, err := factory(props)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", name, err)
	}
	return c, nil
}

// RegisteredComponents returns a sorted list of all registered component names.
func RegisteredComponents() []string {
	names := make([]string, 0, len(componentRegistry))
	for name := range componentRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Float32Prop reads a numeric property, accepting the integer and float types
// produced by YAML and JSON decoders.
func Float32Prop(props map[string]any, key string, def float32) (float32, error) {
	v, ok := props[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return float32(n), nil
	case float32:
		return n, nil
	case int:
		return float32(n), nil
	case int64:
		return float32(n), nil
	default:
		return def, fmt.Errorf("property %q: expected number, got %T", key, v)
	}
}

// Vector3Prop reads a three-element numeric list property.
func Vector3Prop(props map[string]any, key string) ([3]float32, bool, error) {
	var out [3]float32
	v, ok := props[key]
	if !ok {
		return out, false, nil
	}
	list, ok := v.([]any)
	if !ok || len(list) != 3 {
		return out, false, fmt.Errorf("property %q: expected list of 3 numbers", key)
	}
	for i, item := range list {
		f, err := Float32Prop(map[string]any{"v": item}, "v", 0)
		if err != nil {
			return out, false, fmt.Errorf("property %q[%d]: %w", key, i, err)
		}
		out[i] = f
	}
	return out, true, nil
}

// StringProp reads a string property.
func StringProp(props map[string]any, key, def string) (string, error) {
	v, ok := props[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("property %q: expected string, got %T", key, v)
	}
	return s, nil
}

// BoolProp reads a boolean property.
func BoolProp(props map[string]any, key string, def bool) (bool, error) {
	v, ok := props[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return def, fmt.Errorf("property %q: expected bool, got %T", key, v)
	}
	return b, nil
}
