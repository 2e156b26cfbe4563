package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool is an external binary the spool transport shells out to.
type Tool struct {
	Role     string
	Binary   string
	Purpose  string
	Optional bool
}

// Report is the PATH lookup result for one Tool.
type Report struct {
	Tool
	Path string
	Err  error
}

// Available reports whether the binary resolved.
func (r Report) Available() bool { return r.Err == nil && r.Path != "" }

// Detail is the resolved path, or why the lookup failed.
func (r Report) Detail() string {
	if r.Available() {
		return r.Path
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return "not resolved"
}

// Resolve looks every tool up on PATH. Absolute binaries are checked as is.
func Resolve(tools []Tool) []Report {
	reports := make([]Report, 0, len(tools))
	for _, tool := range tools {
		tool.Binary = strings.TrimSpace(tool.Binary)
		tool.Purpose = strings.TrimSpace(tool.Purpose)
		report := Report{Tool: tool}
		if tool.Binary == "" {
			report.Err = fmt.Errorf("%s command not configured", tool.Role)
			reports = append(reports, report)
			continue
		}
		path, err := exec.LookPath(tool.Binary)
		if err != nil {
			report.Err = fmt.Errorf("binary %q not found", tool.Binary)
		} else {
			report.Path = path
		}
		reports = append(reports, report)
	}
	return reports
}

// Missing returns the required tools that did not resolve.
func Missing(reports []Report) []Report {
	var missing []Report
	for _, r := range reports {
		if !r.Optional && !r.Available() {
			missing = append(missing, r)
		}
	}
	return missing
}
