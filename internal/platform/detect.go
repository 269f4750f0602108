package platform

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

// InstallStatus indicates whether a tool's MCP config is present.
type InstallStatus string

const (
	// StatusInstalled indicates the tool's config file exists.
	StatusInstalled InstallStatus = "installed"

	// StatusNotInstalled indicates neither the config file nor its directory exists.
	StatusNotInstalled InstallStatus = "not_installed"

	// StatusPartial indicates the config directory exists but the file does not,
	// e.g. the tool is installed but no MCP server was ever configured.
	StatusPartial InstallStatus = "partial"
)

// DetectionResult contains information about a detected tool.
type DetectionResult struct {
	// Tool is the catalog entry.
	Tool Tool

	// ConfigPath is the resolved config file path. It is always set when the
	// base directory is known, even if the file does not exist.
	ConfigPath string

	// Status indicates the installation state of the tool.
	Status InstallStatus
}

// DetectTool checks whether a tool's config file exists and returns
// detection info. Returns nil if id is not a known tool.
func (l Locator) DetectTool(id string) *DetectionResult {
	t, ok := ByID(id)
	if !ok {
		return nil
	}

	configPath := l.ConfigPath(t)

	status := StatusNotInstalled
	switch {
	case configPath == "":
	case fileutil.Exists(configPath):
		status = StatusInstalled
	case dirExists(filepath.Dir(configPath)):
		status = StatusPartial
	}

	return &DetectionResult{
		Tool:       t,
		ConfigPath: configPath,
		Status:     status,
	}
}

// DetectAll returns detection results for all known tools in catalog order.
func (l Locator) DetectAll() []*DetectionResult {
	results := make([]*DetectionResult, 0, len(catalog))
	for _, id := range SupportedTools() {
		if result := l.DetectTool(id); result != nil {
			results = append(results, result)
		}
	}
	return results
}

// DetectInstalled returns only tools whose config file exists, in catalog order.
func (l Locator) DetectInstalled() []*DetectionResult {
	all := l.DetectAll()
	installed := make([]*DetectionResult, 0, len(all))

	for _, result := range all {
		if result.Status == StatusInstalled {
			installed = append(installed, result)
		}
	}

	return installed
}

// dirExists returns true if the path exists and is a directory.
func dirExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}
