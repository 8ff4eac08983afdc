package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"fslkit/internal/config"
)

// Requirement defines an external binary fslkit relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckDirAccess verifies read/write/traverse permissions on a directory.
func CheckDirAccess(name, path string) Status {
	status := Status{Name: name, Command: path}
	if strings.TrimSpace(path) == "" {
		status.Detail = "path not configured"
		return status
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("%s (insufficient permissions: %v)", path, err)
		return status
	}
	status.Available = true
	status.Detail = fmt.Sprintf("%s (read/write ok)", path)
	return status
}

// CheckTools evaluates the five FSL tool binaries for the given config.
// Both the CLI status command and run preflight use this to avoid
// duplicating the requirements list.
func CheckTools(cfg *config.Config) []Status {
	requirements := []Requirement{
		{Name: "BET", Command: cfg.Tools.BET, Description: "Skull stripping"},
		{Name: "FAST", Command: cfg.Tools.FAST, Description: "Tissue segmentation and bias correction"},
		{Name: "FLIRT", Command: cfg.Tools.FLIRT, Description: "Linear registration"},
		{Name: "MCFLIRT", Command: cfg.Tools.MCFLIRT, Description: "Motion correction"},
		{Name: "FNIRT", Command: cfg.Tools.FNIRT, Description: "Non-linear registration"},
	}
	return CheckBinaries(requirements)
}
