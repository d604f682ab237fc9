package launchd

import (
	"fmt"
	"time"
)

// Tool constants
const (
	// DefaultLaunchctlPath is the default path to the launchctl binary
	DefaultLaunchctlPath = "launchctl"

	// PrintSubcommand is the launchctl subcommand used for all queries
	PrintSubcommand = "print"

	// DefinitionExt is the file extension of launchd job definition files
	DefinitionExt = ".plist"

	// DefaultConcurrency is the default number of concurrent per-job detail
	// queries issued during a snapshot load. 1 preserves strictly sequential
	// querying in listing order.
	DefaultConcurrency = 1

	// DefaultWatchDebounce is the default debounce time for definition
	// directory watching
	DefaultWatchDebounce = 250 * time.Millisecond

	// DefaultPollInterval is the default interval between state queries
	// while waiting for a job to reach a state
	DefaultPollInterval = 500 * time.Millisecond
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode = 0o755

	// FileMode is the default mode for created definition files
	FileMode = 0o644
)

// Operation represents a job control operation passed to launchctl
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpStart starts the job
	OpStart
	// OpStop stops the job
	OpStop
	// OpEnable enables the job in its domain
	OpEnable
	// OpDisable disables the job in its domain
	OpDisable
	// OpPrint represents a describe query (domain or job)
	OpPrint
)

// Operation string constants
const (
	opUnknownStr = "unknown"
	opStartStr   = "start"
	opStopStr    = "stop"
	opEnableStr  = "enable"
	opDisableStr = "disable"
	opPrintStr   = "print"
)

// String returns the launchctl verb for this operation
func (op Operation) String() string {
	switch op {
	case OpStart:
		return opStartStr
	case OpStop:
		return opStopStr
	case OpEnable:
		return opEnableStr
	case OpDisable:
		return opDisableStr
	case OpPrint:
		return opPrintStr
	default:
		return opUnknownStr
	}
}

// Actionable reports whether the operation is a job action verb rather
// than a query
func (op Operation) Actionable() bool {
	switch op {
	case OpStart, OpStop, OpEnable, OpDisable:
		return true
	default:
		return false
	}
}

// ParseOperation converts a launchctl verb into an Operation.
// It accepts exactly the verbs RunAction supports.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case opStartStr:
		return OpStart, nil
	case opStopStr:
		return OpStop, nil
	case opEnableStr:
		return OpEnable, nil
	case opDisableStr:
		return OpDisable, nil
	default:
		return OpUnknown, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
}
