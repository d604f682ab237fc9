package launchd

import (
	"fmt"
	"os"

	"howett.net/plist"
)

// Definition is the typed subset of a launchd job definition file that this
// package reads back for display. Keys it does not model, and keys whose
// launchd type varies (such as the dictionary form of KeepAlive), are
// ignored.
type Definition struct {
	Label                string            `plist:"Label"`
	Disabled             bool              `plist:"Disabled"`
	Program              string            `plist:"Program"`
	ProgramArguments     []string          `plist:"ProgramArguments"`
	WorkingDirectory     string            `plist:"WorkingDirectory"`
	EnvironmentVariables map[string]string `plist:"EnvironmentVariables"`
	RunAtLoad            bool              `plist:"RunAtLoad"`
	StandardOutPath      string            `plist:"StandardOutPath"`
	StandardErrorPath    string            `plist:"StandardErrorPath"`
}

// Command returns the executable invocation the definition describes:
// ProgramArguments when present, otherwise the bare Program.
func (d *Definition) Command() []string {
	if len(d.ProgramArguments) > 0 {
		return d.ProgramArguments
	}
	if d.Program != "" {
		return []string{d.Program}
	}
	return nil
}

// ReadDefinition parses the job definition file at path. Both XML and binary
// plist encodings are accepted.
func ReadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition: %w", err)
	}

	var def Definition
	if _, err := plist.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing definition %s: %w", path, err)
	}
	return &def, nil
}
