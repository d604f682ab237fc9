package launchd

import (
	"errors"
	"testing"
)

func viewFixture() *Snapshot {
	return &Snapshot{
		Domain: DomainUser,
		records: []JobRecord{
			{Label: "com.example.webserver", Path: "/Library/LaunchAgents/com.example.webserver.plist", State: "running"},
			{Label: "com.example.backup", Path: "/Users/me/Library/LaunchAgents/com.example.backup.plist", State: "waiting"},
			{Label: "com.apple.progressd", Path: "/System/Library/LaunchAgents/com.apple.progressd.plist", State: "running"},
			{Label: "org.tool.updater", Path: "/Library/LaunchDaemons/org.tool.updater.plist", State: "not running"},
		},
	}
}

func labelsOf(records []JobRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Label
	}
	return out
}

func assertLabels(t *testing.T, got []JobRecord, want ...string) {
	t.Helper()
	gotLabels := labelsOf(got)
	if len(gotLabels) != len(want) {
		t.Fatalf("got %v, want %v", gotLabels, want)
	}
	for i := range want {
		if gotLabels[i] != want[i] {
			t.Fatalf("got %v, want %v", gotLabels, want)
		}
	}
}

func TestViewFilter(t *testing.T) {
	v := NewView(viewFixture())

	t.Run("empty_filter_selects_all", func(t *testing.T) {
		assertLabels(t, v.Records(),
			"com.example.webserver", "com.example.backup", "com.apple.progressd", "org.tool.updater")
	})

	t.Run("label_match_ignores_case", func(t *testing.T) {
		assertLabels(t, v.SetFilter("WEB"), "com.example.webserver")
	})

	t.Run("path_match_is_case_sensitive", func(t *testing.T) {
		// "Daemons" appears only in the updater's path, never in a label
		assertLabels(t, v.SetFilter("Daemons"), "org.tool.updater")

		if got := v.SetFilter("daemons"); len(got) != 0 {
			t.Errorf("lowercased path text matched %v, want nothing", labelsOf(got))
		}
	})

	t.Run("clearing_restores_full_listing", func(t *testing.T) {
		v.SetFilter("WEB")
		assertLabels(t, v.SetFilter(""),
			"com.example.webserver", "com.example.backup", "com.apple.progressd", "org.tool.updater")
	})

	t.Run("no_match", func(t *testing.T) {
		if got := v.SetFilter("zzz-not-there"); len(got) != 0 {
			t.Errorf("got %v, want empty", labelsOf(got))
		}
		v.SetFilter("")
	})
}

func TestViewFilterDoesNotTouchSnapshot(t *testing.T) {
	snap := viewFixture()
	v := NewView(snap)

	v.SetFilter("backup")
	if snap.Len() != 4 {
		t.Fatalf("snapshot shrank to %d records under filtering", snap.Len())
	}
	assertLabels(t, v.SetFilter(""),
		"com.example.webserver", "com.example.backup", "com.apple.progressd", "org.tool.updater")
}

func TestViewSort(t *testing.T) {
	v := NewView(viewFixture())

	t.Run("by_label_ascending", func(t *testing.T) {
		assertLabels(t, v.SetSort(ColumnLabel, false),
			"com.apple.progressd", "com.example.backup", "com.example.webserver", "org.tool.updater")
	})

	t.Run("by_label_descending", func(t *testing.T) {
		assertLabels(t, v.SetSort(ColumnLabel, true),
			"org.tool.updater", "com.example.webserver", "com.example.backup", "com.apple.progressd")
	})

	t.Run("stable_on_equal_keys", func(t *testing.T) {
		// webserver and progressd share state "running"; their snapshot
		// order must survive the sort.
		assertLabels(t, v.SetSort(ColumnState, false),
			"org.tool.updater", "com.example.webserver", "com.apple.progressd", "com.example.backup")
	})

	t.Run("repeat_sort_is_idempotent", func(t *testing.T) {
		first := v.SetSort(ColumnState, false)
		second := v.SetSort(ColumnState, false)
		assertLabels(t, second, labelsOf(first)...)
	})
}

func TestViewFilterAndSortCompose(t *testing.T) {
	v := NewView(viewFixture())

	v.SetSort(ColumnLabel, false)
	got := v.SetFilter("example")
	assertLabels(t, got, "com.example.backup", "com.example.webserver")

	// Clearing the filter keeps the sort
	assertLabels(t, v.SetFilter(""),
		"com.apple.progressd", "com.example.backup", "com.example.webserver", "org.tool.updater")
}

func TestViewSetSnapshotRetainsSettings(t *testing.T) {
	v := NewView(viewFixture())
	v.SetFilter("example")
	v.SetSort(ColumnLabel, true)

	next := &Snapshot{
		Domain: DomainUser,
		records: []JobRecord{
			{Label: "com.example.zeta", Path: "/tmp/z.plist", State: "running"},
			{Label: "com.example.alpha", Path: "/tmp/a.plist", State: "waiting"},
			{Label: "com.other.job", Path: "/tmp/o.plist", State: "running"},
		},
	}

	assertLabels(t, v.SetSnapshot(next), "com.example.zeta", "com.example.alpha")
}

func TestViewRecordsIsACopy(t *testing.T) {
	v := NewView(viewFixture())

	got := v.Records()
	got[0].Label = "mutated"

	if v.Records()[0].Label != "com.example.webserver" {
		t.Error("mutating the returned slice leaked into the view")
	}
}

func TestViewNilSnapshot(t *testing.T) {
	v := NewView(nil)

	if v.Len() != 0 {
		t.Errorf("Len() = %d, want 0", v.Len())
	}
	if got := v.SetFilter("x"); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestParseColumn(t *testing.T) {
	tests := []struct {
		input   string
		want    Column
		wantErr bool
	}{
		{input: "label", want: ColumnLabel},
		{input: "path", want: ColumnPath},
		{input: "state", want: ColumnState},
		{input: "State", want: ColumnState},
		{input: "pid", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColumn(tt.input)

			if tt.wantErr {
				if !errors.Is(err, ErrUnknownColumn) {
					t.Errorf("error = %v, want ErrUnknownColumn", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColumn(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColumnString(t *testing.T) {
	if ColumnLabel.String() != "label" || ColumnPath.String() != "path" || ColumnState.String() != "state" {
		t.Error("column names must match their parseable forms")
	}
}
