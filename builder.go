package launchd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"howett.net/plist"
)

// JobBuilder provides a fluent interface for creating launchd job definition
// files with program arguments, environment variables, output redirection,
// and scheduling settings.
type JobBuilder struct {
	// Label is the job label; it is also the definition file's base name
	Label string
	// Dir is the definition directory the file will be written into
	Dir string
	// Cmd is the command and arguments to execute
	Cmd []string
	// Cwd is the working directory for the job
	Cwd string
	// Umask sets the file mode creation mask
	Umask fs.FileMode
	// Env contains environment variables for the job
	Env map[string]string
	// Nice value for process priority
	Nice int
	// RunAtLoad starts the job as soon as it is bootstrapped
	RunAtLoad bool
	// KeepAlive restarts the job whenever it exits
	KeepAlive bool
	// Disabled registers the job disabled by default
	Disabled bool
	// StdoutPath is an optional path to redirect standard output
	StdoutPath string
	// StderrPath is an optional path to redirect standard error
	StderrPath string
}

// launchdPlist is the serialized shape of a job definition file. Zero-valued
// optional keys are omitted so the written plist stays minimal.
type launchdPlist struct {
	Label                string            `plist:"Label"`
	Disabled             bool              `plist:"Disabled,omitempty"`
	ProgramArguments     []string          `plist:"ProgramArguments"`
	WorkingDirectory     string            `plist:"WorkingDirectory,omitempty"`
	EnvironmentVariables map[string]string `plist:"EnvironmentVariables,omitempty"`
	Umask                int               `plist:"Umask,omitempty"`
	Nice                 int               `plist:"Nice,omitempty"`
	RunAtLoad            bool              `plist:"RunAtLoad,omitempty"`
	KeepAlive            bool              `plist:"KeepAlive,omitempty"`
	StandardOutPath      string            `plist:"StandardOutPath,omitempty"`
	StandardErrorPath    string            `plist:"StandardErrorPath,omitempty"`
}

// NewJobBuilder creates a new JobBuilder writing into the given definition
// directory.
func NewJobBuilder(label, dir string) *JobBuilder {
	return &JobBuilder{
		Label: label,
		Dir:   dir,
		Env:   make(map[string]string),
	}
}

// WithCmd sets the command to execute
func (b *JobBuilder) WithCmd(cmd []string) *JobBuilder {
	b.Cmd = cmd
	return b
}

// WithCwd sets the working directory
func (b *JobBuilder) WithCwd(cwd string) *JobBuilder {
	b.Cwd = cwd
	return b
}

// WithUmask sets the file mode creation mask
func (b *JobBuilder) WithUmask(umask fs.FileMode) *JobBuilder {
	b.Umask = umask
	return b
}

// WithEnv adds an environment variable
func (b *JobBuilder) WithEnv(key, value string) *JobBuilder {
	b.Env[key] = value
	return b
}

// WithNice sets the process priority adjustment
func (b *JobBuilder) WithNice(nice int) *JobBuilder {
	b.Nice = nice
	return b
}

// WithRunAtLoad starts the job as soon as it is bootstrapped
func (b *JobBuilder) WithRunAtLoad(run bool) *JobBuilder {
	b.RunAtLoad = run
	return b
}

// WithKeepAlive restarts the job whenever it exits
func (b *JobBuilder) WithKeepAlive(keep bool) *JobBuilder {
	b.KeepAlive = keep
	return b
}

// WithDisabled registers the job disabled by default
func (b *JobBuilder) WithDisabled(disabled bool) *JobBuilder {
	b.Disabled = disabled
	return b
}

// WithStdoutPath sets a path to redirect standard output
func (b *JobBuilder) WithStdoutPath(path string) *JobBuilder {
	b.StdoutPath = path
	return b
}

// WithStderrPath sets a path to redirect standard error
func (b *JobBuilder) WithStderrPath(path string) *JobBuilder {
	b.StderrPath = path
	return b
}

// Path returns the definition file path the builder writes to
func (b *JobBuilder) Path() string {
	return filepath.Join(b.Dir, b.Label+DefinitionExt)
}

// Build writes the job definition file. The write is atomic, so launchd and
// any definition watcher only ever observe a complete file.
func (b *JobBuilder) Build() error {
	if b.Label == "" {
		return fmt.Errorf("job label not specified")
	}
	if b.Dir == "" {
		return fmt.Errorf("definition directory not specified")
	}
	if len(b.Cmd) == 0 {
		return fmt.Errorf("command not specified")
	}

	payload := launchdPlist{
		Label:             b.Label,
		Disabled:          b.Disabled,
		ProgramArguments:  b.Cmd,
		WorkingDirectory:  b.Cwd,
		Umask:             int(b.Umask),
		Nice:              b.Nice,
		RunAtLoad:         b.RunAtLoad,
		KeepAlive:         b.KeepAlive,
		StandardOutPath:   b.StdoutPath,
		StandardErrorPath: b.StderrPath,
	}
	if len(b.Env) > 0 {
		payload.EnvironmentVariables = b.Env
	}

	data, err := plist.MarshalIndent(payload, plist.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("encoding definition: %w", err)
	}

	if err := os.MkdirAll(b.Dir, DirMode); err != nil {
		return fmt.Errorf("creating definition directory: %w", err)
	}

	if err := renameio.WriteFile(b.Path(), data, FileMode); err != nil {
		return fmt.Errorf("writing definition: %w", err)
	}

	return nil
}
