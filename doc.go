// Package launchd provides a Go library for inspecting and controlling
// launchd jobs by driving the launchctl command-line tool.
//
// The core functionality centers around the Lister type, which loads a
// snapshot of the jobs registered in a launchd domain and runs actions
// against individual jobs:
//
//	lister := launchd.NewLister()
//
//	// Load the jobs registered for the current user
//	snap, err := lister.LoadSnapshot(context.Background(), launchd.DomainUser)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range snap.Records() {
//	    fmt.Printf("%s\t%s\t%s\n", r.Label, r.State, r.Path)
//	}
//
//	// Restart a job
//	out, err := lister.RunAction(context.Background(), launchd.OpStop, "com.example.agent")
//
// # Views for Display
//
// The View type derives a filtered, sorted record sequence from a snapshot
// for table-style display. It recomputes from the unmodified snapshot on
// every setting change, so clearing a filter always restores the full
// listing:
//
//	view := launchd.NewView(snap)
//	rows := view.SetFilter("com.example")
//	rows = view.SetSort(launchd.ColumnState, false)
//
// # Manager for Bulk Operations
//
// The Manager type is provided as a convenience for applications that act on
// many jobs at once. It's particularly useful for:
//
//   - Acting on every row of a filtered view
//   - Login/logout agent sweeps
//   - Testing frameworks that manage multiple jobs
//
// If your application only acts on single jobs, you may not need the
// Manager. It's designed to be optional - the Lister type provides all core
// functionality.
//
//	manager := launchd.NewManager(
//	    launchd.WithConcurrency(5),
//	    launchd.WithTimeout(10 * time.Second),
//	)
//
//	// Stop multiple jobs concurrently
//	err = manager.Stop(ctx, "com.example.web", "com.example.db", "com.example.cache")
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - One isolated parsing boundary for launchctl's undocumented output
//   - Snapshots that are replaced wholesale, never mutated in place
//   - Context-aware operations with optional timeouts
//   - Type safety (no string-based domain or operation codes)
//
// launchctl's print output is explicitly not a stable interface, so every
// pattern matched against it lives in a single file and degrades to an
// empty listing rather than an error when the format drifts. Actions and
// queries report tool failures through typed errors that carry the tool's
// own error text verbatim.
package launchd
