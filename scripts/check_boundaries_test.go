package main

import "testing"

func TestCheckImport(t *testing.T) {
	const upload = "contentflow/contexts/content-studio/upload-service"
	tests := []struct {
		name       string
		layer      string
		importPath string
		want       string
	}{
		{"stdlib in domain", "domain", "strings", ""},
		{"own entities in domain", "domain", upload + "/domain/entities", ""},
		{"ports in domain", "domain", upload + "/ports", "domain import is outside explicit allowlist"},
		{"third party in application", "application", "github.com/google/uuid", "application import is outside explicit allowlist"},
		{"contracts in application", "application", "contentflow/contracts/gen/events/v1", ""},
		{"adapter in application", "application", upload + "/adapters/memory", "application must not import adapters"},
		{"platform in ports", "ports", "contentflow/internal/platform/objectstore", "ports must not import runtime infrastructure"},
		{"platform in adapters", "adapters", "contentflow/internal/platform/objectstore", ""},
		{"sibling service", "adapters", "contentflow/contexts/content-studio/approval-service/ports", "services must not import each other"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := checkImport(tc.layer, upload, tc.importPath); got != tc.want {
				t.Fatalf("checkImport(%q, %q) = %q, want %q", tc.layer, tc.importPath, got, tc.want)
			}
		})
	}
}

func TestRepositoryRespectsBoundaries(t *testing.T) {
	violations, err := collectViolations("../contexts")
	if err != nil {
		t.Fatalf("collectViolations: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %+v", violations)
	}
}
