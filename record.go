package launchd

import "time"

// JobRecord is one registered job in a domain snapshot. Records are plain
// values; copying one never shares state with the snapshot it came from.
type JobRecord struct {
	// Label is the job identifier, unique within a snapshot
	Label string
	// Path is the absolute path to the job's backing definition file
	Path string
	// State is the free-text run state as reported by the tool. It is
	// opaque to this package; no behavior branches on its value.
	State string
}

// Snapshot is the complete ordered record set for one domain at one point in
// time, together with the verbatim describe text captured for each queried
// label. A refresh produces a new Snapshot rather than mutating an old one.
type Snapshot struct {
	// Domain is the management domain the snapshot was taken from
	Domain Domain
	// TakenAt is when the load completed
	TakenAt time.Time

	records []JobRecord
	details map[string]string
}

// Records returns the job records in tool-reported order. The returned slice
// is a copy; callers may reorder or trim it freely.
func (s *Snapshot) Records() []JobRecord {
	out := make([]JobRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of job records in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Detail returns the verbatim describe output captured for a label during
// the load. The detail cache is rebuilt from scratch on every load, so
// labels known only to earlier snapshots report false. Labels dropped from
// Records for lacking an absolute definition path still carry their detail
// text here.
func (s *Snapshot) Detail(label string) (string, bool) {
	text, ok := s.details[label]
	return text, ok
}

// Labels returns the labels of the snapshot's records in order.
func (s *Snapshot) Labels() []string {
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Label
	}
	return out
}
