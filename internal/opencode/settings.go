package opencode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SettingsFileName is the name of the opencode settings file.
const SettingsFileName = "opencode.json"

// SettingsStatus is the state of a project's opencode settings.
type SettingsStatus int

const (
	// StatusFound means the file exists and parses.
	StatusFound SettingsStatus = iota
	// StatusMissing means the project has no settings file; opencode uses its defaults.
	StatusMissing
	// StatusInvalid means the file exists but is not valid JSON.
	StatusInvalid
)

// String returns a human-readable representation of the status.
func (s SettingsStatus) String() string {
	switch s {
	case StatusFound:
		return "Found"
	case StatusMissing:
		return "Missing"
	case StatusInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Settings holds the opencode.json fields occtl reports on.
type Settings struct {
	Schema string `json:"$schema,omitempty"`
	Model  string `json:"model,omitempty"`
	Theme  string `json:"theme,omitempty"`

	filePath string
}

// FilePath returns the file the settings were loaded from.
func (s *Settings) FilePath() string { return s.filePath }

// SettingsCheckResult is the outcome of CheckInDir.
type SettingsCheckResult struct {
	Status   SettingsStatus
	Message  string
	FilePath string
}

// Load reads opencode.json from projectDir. A missing file is reported
// through os.IsNotExist on the returned error.
func Load(projectDir string) (*Settings, error) {
	path := filepath.Join(projectDir, SettingsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Settings{filePath: path}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// CheckInDir reports whether projectDir carries a usable opencode.json.
func CheckInDir(projectDir string) SettingsCheckResult {
	path := filepath.Join(projectDir, SettingsFileName)
	s, err := Load(projectDir)
	switch {
	case err == nil:
		msg := "found " + s.FilePath()
		if s.Model != "" {
			msg += " (model " + s.Model + ")"
		}
		return SettingsCheckResult{Status: StatusFound, Message: msg, FilePath: s.FilePath()}
	case os.IsNotExist(err):
		return SettingsCheckResult{Status: StatusMissing, Message: "no " + SettingsFileName + " in project, using opencode defaults"}
	default:
		return SettingsCheckResult{Status: StatusInvalid, Message: err.Error(), FilePath: path}
	}
}
