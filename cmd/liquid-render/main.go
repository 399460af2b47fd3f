// Command liquid-render renders a template file against a YAML or JSON
// context file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	liquid "github.com/fluentpage/liquid-go"
)

func main() {
	templatePath := flag.String("template", "", "template file to render")
	contextPath := flag.String("context", "", "YAML or JSON context file (optional)")
	output := flag.String("output", "", "output file (stdout if empty)")
	strict := flag.Bool("strict", false, "fail on undefined variables")
	mode := flag.String("mode", "lax", "parse mode: lax or strict")
	flag.Parse()

	if *templatePath == "" {
		log.Fatal("missing -template")
	}

	source, err := os.ReadFile(*templatePath)
	if err != nil {
		log.Fatalf("failed to read template: %v", err)
	}

	assigns := map[string]any{}
	if *contextPath != "" {
		assigns, err = loadContext(*contextPath)
		if err != nil {
			log.Fatalf("failed to load context: %v", err)
		}
	}

	env := liquid.NewEnvironment()
	env.SetStrictVariables(*strict)
	switch strings.ToLower(*mode) {
	case "lax":
	case "strict":
		env.SetParseMode(liquid.ParseModeStrict)
	default:
		log.Fatalf("unknown parse mode %q", *mode)
	}

	tmpl, err := env.TemplateFromNamedString(filepath.Base(*templatePath), string(source))
	if err != nil {
		log.Fatalf("failed to parse template: %v", err)
	}

	result, err := tmpl.Render(assigns)
	if err != nil {
		log.Fatalf("failed to render: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result), 0o644); err != nil {
			log.Fatalf("failed to write output: %v", err)
		}
		fmt.Printf("rendered to %s\n", *output)
		return
	}
	fmt.Print(result)
}

// loadContext reads a render context file, auto-detecting the format by
// extension.
func loadContext(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported context file extension: %s", filepath.Ext(path))
	}
	return m, nil
}
