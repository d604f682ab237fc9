package launchd

import (
	"os/exec"
	"runtime"
	"sync"
	"testing"
)

// toolAvailabilityCache caches the results of tool availability checks
// to avoid repeated exec.LookPath calls during test execution
var (
	toolAvailabilityCache = make(map[string]bool)
	toolAvailabilityMu    sync.RWMutex

	launchctlAvailable bool
	launchctlOnce      sync.Once
)

// checkToolCached returns whether a tool is available, using cache
func checkToolCached(toolName string) bool {
	toolAvailabilityMu.RLock()
	if available, ok := toolAvailabilityCache[toolName]; ok {
		toolAvailabilityMu.RUnlock()
		return available
	}
	toolAvailabilityMu.RUnlock()

	toolAvailabilityMu.Lock()
	defer toolAvailabilityMu.Unlock()

	if available, ok := toolAvailabilityCache[toolName]; ok {
		return available
	}

	_, err := exec.LookPath(toolName)
	available := err == nil
	toolAvailabilityCache[toolName] = available
	return available
}

// RequireTool skips the test if the tool is not available in PATH.
// This should be used for any test that depends on external binaries.
func RequireTool(t *testing.T, toolName string) {
	t.Helper()
	if !checkToolCached(toolName) {
		t.Skipf("%s not found in PATH, skipping test (install it to run this test)", toolName)
	}
}

// RequireNotShort skips the test if running in short mode.
// Use this for integration tests that take longer to run.
func RequireNotShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// RequireDarwin skips the test if not running on macOS, where launchd lives
func RequireDarwin(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "darwin" {
		t.Skip("test requires macOS")
	}
}

// RequireLaunchctl ensures the real launchctl binary is available
func RequireLaunchctl(t *testing.T) {
	t.Helper()
	RequireDarwin(t)
	launchctlOnce.Do(func() {
		launchctlAvailable = checkToolCached(DefaultLaunchctlPath)
	})
	if !launchctlAvailable {
		t.Skip("launchctl not found in PATH, skipping test")
	}
}
