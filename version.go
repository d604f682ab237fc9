package launchd

// Version is the current version of the go-launchd library
const Version = "1.0.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Tool is the control tool this library drives
	Tool string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version: Version,
		Tool:    "launchctl",
	}
}
