package partition_test

import (
	"testing"

	"github.com/tldrx/cmdref/internal/catalog"
	"github.com/tldrx/cmdref/internal/partition"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		cmdName     string
		description string
		expected    string
	}{
		{name: "web by name", cmdName: "nginx", expected: "development-web"},
		{name: "web by description", cmdName: "curl", description: "Transfer data via HTTP", expected: "development-web"},
		{name: "database", cmdName: "psql", description: "PostgreSQL interactive terminal", expected: "development-database"},
		{name: "mongo beats go", cmdName: "mongosh", expected: "development-database"},
		{name: "containers", cmdName: "kubectl", description: "Control Kubernetes clusters", expected: "development-containers"},
		{name: "docker beats git", cmdName: "docker-git-sync", expected: "development-containers"},
		{name: "git", cmdName: "tig", description: "Text-mode interface for git", expected: "development-git"},
		{name: "build", cmdName: "cmake", expected: "development-build"},
		{name: "ant substring", cmdName: "pants", expected: "development-build"},
		{name: "languages", cmdName: "pip", description: "Python package installer", expected: "development-languages"},
		{name: "go substring", cmdName: "cargo", expected: "development-languages"},
		{name: "catch all", cmdName: "strace", description: "Trace system calls", expected: "development-tools"},
		{name: "empty fields", expected: "development-tools"},
		{name: "case insensitive", cmdName: "HELM", expected: "development-containers"},
		{name: "api beats database", cmdName: "dbapi", expected: "development-web"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := catalog.Command{Name: tt.cmdName, Description: tt.description, Category: "development"}
			if got := partition.Classify(cmd); got != tt.expected {
				t.Errorf("Classify(%q, %q) = %s, expected %s", tt.cmdName, tt.description, got, tt.expected)
			}
		})
	}
}

func TestDevelopmentBuckets_PriorityOrder(t *testing.T) {
	want := []string{
		"development-web",
		"development-database",
		"development-containers",
		"development-git",
		"development-build",
		"development-languages",
	}
	if len(partition.DevelopmentBuckets) != len(want) {
		t.Fatalf("Expected %d buckets, got %d", len(want), len(partition.DevelopmentBuckets))
	}
	for i, bucket := range partition.DevelopmentBuckets {
		if bucket.Name != want[i] {
			t.Errorf("Bucket %d: expected %s, got %s", i, want[i], bucket.Name)
		}
	}
}
