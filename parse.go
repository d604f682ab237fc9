package launchd

import (
	"regexp"
	"strings"
)

// Markers delimiting the blocks of interest in launchctl print output. The
// output format is explicitly undocumented and unstable, so every pattern
// this package matches against it lives in this file.
const (
	servicesMarker   = "services = {\n"
	propertiesMarker = "properties = {\n"
	blockTerminator  = "\t}"
)

var (
	pathPattern          = regexp.MustCompile(`(?m)^\s+path =\s(.*)$`)
	statePattern         = regexp.MustCompile(`(?m)^\s+state =\s(.*)$`)
	systemServicePattern = regexp.MustCompile(`(?m)^\s+system service =\s(.*)$`)
)

// parseServiceLabels extracts the job labels from a domain describe. The
// services block opens after servicesMarker and ends at the first
// blockTerminator; each line inside it is a tab-separated triple whose last
// field is the label. Output without an opening marker describes a domain
// with no registered jobs.
func parseServiceLabels(output string) []string {
	start := strings.Index(output, servicesMarker)
	if start < 0 {
		return nil
	}
	block := output[start+len(servicesMarker):]
	if end := strings.Index(block, blockTerminator); end >= 0 {
		block = block[:end]
	}

	var labels []string
	for _, line := range strings.Split(block, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		labels = append(labels, fields[len(fields)-1])
	}
	return labels
}

// jobDetail holds the fields scraped from a per-job describe.
type jobDetail struct {
	// Path is the job's backing definition file, empty when the describe
	// reported none
	Path string
	// State is the free-text run state, empty when the describe reported none
	State string
}

// parseJobDetail extracts the first path and state lines from a per-job
// describe. Both fields are optional in the tool output and are left empty
// when absent. Whatever follows the key is captured verbatim, including a
// relative path; the caller decides what to keep.
func parseJobDetail(text string) jobDetail {
	var d jobDetail
	if m := pathPattern.FindStringSubmatch(text); m != nil {
		d.Path = m[1]
	}
	if m := statePattern.FindStringSubmatch(text); m != nil {
		d.State = m[1]
	}
	return d
}

// isSystemService reports whether a per-job describe marks the job as an
// OS-provided service in its properties block. The flag appears either as a
// "system service = 1" assignment or as a bare "system service" entry.
func isSystemService(text string) bool {
	start := strings.Index(text, propertiesMarker)
	if start < 0 {
		return false
	}
	block := text[start+len(propertiesMarker):]
	if end := strings.Index(block, "}"); end >= 0 {
		block = block[:end]
	}
	if m := systemServicePattern.FindStringSubmatch(block); m != nil {
		return strings.HasPrefix(strings.TrimSpace(m[1]), "1")
	}
	return strings.Contains(block, "system service")
}
