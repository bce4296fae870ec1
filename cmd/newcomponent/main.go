// Scaffolds a data component registered for use in scene files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
)

const componentsDir = "internal/components"

var tmpl = template.Must(template.New("component").Parse(`package components

import "physbridge/internal/engine"

type {{.Name}} struct {
	engine.BaseComponent
	Value float32
}

func init() {
	engine.RegisterComponent("{{.Name}}", {{.Lower}}FromProps)
}

func {{.Lower}}FromProps(props map[string]any) (engine.Component, error) {
	v, err := engine.Float32Prop(props, "value", 0)
	if err != nil {
		return nil, err
	}
	return &{{.Name}}{Value: v}, nil
}
`))

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run ./cmd/newcomponent <ComponentName>\n")
		fmt.Fprintf(os.Stderr, "Example: go run ./cmd/newcomponent Buoyancy\n")
		os.Exit(1)
	}

	name := os.Args[1]
	src, err := render(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(componentsDir, toSnakeCase(name)+".go")
	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", outPath)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, src, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", outPath)
	fmt.Printf("Component %q registered. Add it to a scene object:\n\n", name)
	fmt.Printf("    components:\n")
	fmt.Printf("      - type: %s\n", name)
	fmt.Printf("        props: {value: 1.0}\n")
}

func render(name string) ([]byte, error) {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return nil, fmt.Errorf("component name must start with an uppercase letter")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return nil, fmt.Errorf("component name %q is not a Go identifier", name)
		}
	}
	var b strings.Builder
	err := tmpl.Execute(&b, struct{ Name, Lower string }{
		Name:  name,
		Lower: string(unicode.ToLower(rune(name[0]))) + name[1:],
	})
	return []byte(b.String()), err
}

func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
