// Command check_boundaries enforces the hexagonal layering of contexts/:
// services never import each other, and the inner layers stay free of
// adapters and runtime infrastructure.
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "contentflow"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists what a layer may import besides the standard library.
// Third-party imports are rejected for any layer with a rule.
type layerRule struct {
	allowed func(servicePrefix string) []string
}

var layerRules = map[string]layerRule{
	"domain": {allowed: func(service string) []string {
		return []string{service + "/domain"}
	}},
	"ports": {allowed: func(service string) []string {
		return []string{service + "/domain", service + "/ports", modulePath + "/contracts"}
	}},
	"application": {allowed: func(service string) []string {
		return []string{service + "/application", service + "/domain", service + "/ports", modulePath + "/contracts"}
	}},
}

func main() {
	violations, err := collectViolations("contexts")
	if err != nil {
		fmt.Fprintf(os.Stderr, "walk contexts: %v\n", err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) ([]violation, error) {
	var violations []violation
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(filepath.Dir(root), path)
		if err != nil {
			return err
		}
		// contexts/<context>/<service>/<layer>/...
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}
		service := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		violations = append(violations, validateFile(path, rel, parts[3], service)...)
		return nil
	})
	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})
	return violations, err
}

func validateFile(path string, rel string, layer string, service string) []violation {
	file := filepath.ToSlash(rel)
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: file, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range parsed.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line
		if rule := checkImport(layer, service, importPath); rule != "" {
			violations = append(violations, violation{File: file, Line: line, Import: importPath, Rule: rule})
		}
	}
	return violations
}

// checkImport returns the broken rule, or "" when the import is fine.
func checkImport(layer string, service string, importPath string) string {
	if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, service) {
		return "services must not import each other"
	}
	rule, ok := layerRules[layer]
	if !ok || isStdlib(importPath) {
		return ""
	}
	switch {
	case strings.Contains(importPath, "/adapters/"):
		return layer + " must not import adapters"
	case hasPrefix(importPath, modulePath+"/internal"):
		return layer + " must not import runtime infrastructure"
	case !isAllowed(importPath, rule.allowed(service)):
		return layer + " import is outside explicit allowlist"
	}
	return ""
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
