package main

import (
	"go/parser"
	"go/token"
	"testing"
)

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Buoyancy":      "buoyancy",
		"DragForce":     "drag_force",
		"WindZoneForce": "wind_zone_force",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderParses(t *testing.T) {
	src, err := render("DragForce")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := parser.ParseFile(token.NewFileSet(), "drag_force.go", src, 0)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	if f.Name.Name != "components" {
		t.Errorf("package = %q, want components", f.Name.Name)
	}
}

func TestRenderRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "lower", "Has Space", "Dash-ed"} {
		if _, err := render(name); err == nil {
			t.Errorf("render(%q) succeeded, want error", name)
		}
	}
}
