package deps_test

import (
	"testing"

	"fslkit/internal/deps"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "Shell", Command: "sh", Description: "POSIX shell"},
		{Name: "Ghost", Command: "definitely-not-a-binary-xyz"},
		{Name: "Blank", Command: "  "},
	})
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("expected sh to be available: %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Fatalf("expected ghost binary to be missing with detail: %+v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Fatalf("expected unconfigured detail: %+v", statuses[2])
	}
}

func TestCheckDirAccess(t *testing.T) {
	dir := t.TempDir()
	status := deps.CheckDirAccess("Working directory", dir)
	if !status.Available {
		t.Fatalf("expected temp dir to be accessible: %+v", status)
	}

	status = deps.CheckDirAccess("Missing", dir+"/nope")
	if status.Available {
		t.Fatalf("expected missing dir to be inaccessible: %+v", status)
	}

	status = deps.CheckDirAccess("Blank", "")
	if status.Available || status.Detail != "path not configured" {
		t.Fatalf("expected unconfigured detail: %+v", status)
	}
}
