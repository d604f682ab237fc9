//go:build linux || darwin

package launchd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeLaunchctl emulates the subset of launchctl behavior the pipeline
// depends on: listing output, per-job describes, action verbs, stderr on
// unknown targets, and a deliberately slow target for timeout tests.
const fakeLaunchctl = `#!/bin/sh
cmd="$1"
target="$2"
case "$cmd $target" in
"print user/501")
	printf 'com.apple.xpc.launchd.domain.user.501 = {\n'
	printf '\tservices = {\n'
	printf '\t\t553\t-\tcom.a.one\n'
	printf '\t\t-\t0\tcom.a.two\n'
	printf '\t}\n'
	printf '}\n'
	;;
"print user/501/com.a.one")
	printf '\tpath = /Library/LaunchAgents/com.a.one.plist\n\tstate = running\n'
	;;
"print user/501/com.a.two")
	printf '\tpath = /Users/me/Library/LaunchAgents/com.a.two.plist\n\tstate = waiting\n'
	;;
"print slow/0")
	exec sleep 10
	;;
"start com.a.one")
	printf 'started\n'
	;;
"stop com.a.bad")
	printf 'Boot-out failed: 5: Input/output error\n' >&2
	exit 5
	;;
*)
	printf 'Could not find service "%s" in domain for uid: 501\n' "$target" >&2
	exit 113
	;;
esac
`

// LaunchctlScriptSuite drives the real exec path against a scripted
// stand-in for launchctl.
type LaunchctlScriptSuite struct {
	suite.Suite
	tempDir  string
	toolPath string
}

func (s *LaunchctlScriptSuite) SetupSuite() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "go-launchd-test-*")
	require.NoError(s.T(), err, "Failed to create temp directory")

	s.toolPath = filepath.Join(s.tempDir, "launchctl")
	require.NoError(s.T(), os.WriteFile(s.toolPath, []byte(fakeLaunchctl), 0o755))
}

func (s *LaunchctlScriptSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// TestLaunchctlScript exercises the pipeline through a real subprocess
func TestLaunchctlScript(t *testing.T) {
	suite.Run(t, new(LaunchctlScriptSuite))
}

func (s *LaunchctlScriptSuite) TestLoadSnapshot() {
	l := NewLister(WithLaunchctlPath(s.toolPath), WithUID(501))

	snap, err := l.LoadSnapshot(context.Background(), DomainUser)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, snap.Len())

	records := snap.Records()
	require.Equal(s.T(), "com.a.one", records[0].Label)
	require.Equal(s.T(), "/Library/LaunchAgents/com.a.one.plist", records[0].Path)
	require.Equal(s.T(), "running", records[0].State)
	require.Equal(s.T(), "com.a.two", records[1].Label)
	require.Equal(s.T(), "waiting", records[1].State)

	detail, ok := snap.Detail("com.a.two")
	require.True(s.T(), ok)
	require.Contains(s.T(), detail, "state = waiting")
}

func (s *LaunchctlScriptSuite) TestLoadSnapshotUnknownDomain() {
	l := NewLister(WithLaunchctlPath(s.toolPath), WithUID(999))

	snap, err := l.LoadSnapshot(context.Background(), DomainUser)
	require.Nil(s.T(), snap)

	var terr *ToolError
	require.ErrorAs(s.T(), err, &terr)
	require.Contains(s.T(), terr.Stderr, "Could not find service")
}

func (s *LaunchctlScriptSuite) TestRunAction() {
	l := NewLister(WithLaunchctlPath(s.toolPath))

	out, err := l.RunAction(context.Background(), OpStart, "com.a.one")
	require.NoError(s.T(), err)
	require.Contains(s.T(), out, "started")

	_, err = l.RunAction(context.Background(), OpStop, "com.a.bad")
	var aerr *ActionError
	require.ErrorAs(s.T(), err, &aerr)
	require.Equal(s.T(), OpStop, aerr.Op)
	require.Equal(s.T(), "com.a.bad", aerr.Label)
	require.Contains(s.T(), aerr.Stderr, "Boot-out failed")
}

func (s *LaunchctlScriptSuite) TestExecRunnerCapturesExitCode() {
	r := NewExecRunner(s.toolPath)

	res, err := r.Run(context.Background(), "stop", "com.a.bad")
	require.NoError(s.T(), err, "non-zero exit is recorded, not escalated")
	require.Equal(s.T(), 5, res.ExitCode)
	require.Contains(s.T(), res.Stderr, "Boot-out failed")
	require.Empty(s.T(), res.Stdout)
}

func (s *LaunchctlScriptSuite) TestExecRunnerTimeout() {
	r := NewExecRunner(s.toolPath)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, "print", "slow/0")
	require.ErrorIs(s.T(), err, context.DeadlineExceeded)
	require.Less(s.T(), time.Since(start), 5*time.Second)
}

func (s *LaunchctlScriptSuite) TestExecRunnerMissingBinary() {
	r := NewExecRunner(filepath.Join(s.tempDir, "no-such-tool"))

	_, err := r.Run(context.Background(), "print", "user/501")
	require.Error(s.T(), err)
}
