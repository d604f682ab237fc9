package launchd

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Domain represents a launchd management domain that jobs are registered in
type Domain int

const (
	// DomainUnknown represents an unrecognized domain
	DomainUnknown Domain = iota
	// DomainUser is the per-user domain (background agents for a uid)
	DomainUser
	// DomainSystem is the system-wide domain (daemons, no uid)
	DomainSystem
	// DomainGUI is the per-user GUI session domain
	DomainGUI
)

// Domain string constants
const (
	domainUnknownStr = "unknown"
	domainUserStr    = "user"
	domainSystemStr  = "system"
	domainGUIStr     = "gui"
)

// String returns the launchctl name of the domain
func (d Domain) String() string {
	switch d {
	case DomainUser:
		return domainUserStr
	case DomainSystem:
		return domainSystemStr
	case DomainGUI:
		return domainGUIStr
	default:
		return domainUnknownStr
	}
}

// ParseDomain converts a domain name into a Domain. Names are matched
// case-insensitively, so both "GUI" and "gui" are accepted.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(s) {
	case domainUserStr:
		return DomainUser, nil
	case domainSystemStr:
		return DomainSystem, nil
	case domainGUIStr:
		return DomainGUI, nil
	default:
		return DomainUnknown, fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
}

// Target returns the launchctl domain target for a print query. The system
// domain has no uid component; user and gui domains are scoped to the given
// uid.
func (d Domain) Target(uid int) string {
	if d == DomainSystem {
		return domainSystemStr
	}
	return fmt.Sprintf("%s/%d", d, uid)
}

// JobTarget returns the launchctl service target for a single job in this
// domain.
func (d Domain) JobTarget(uid int, label string) string {
	return d.Target(uid) + "/" + label
}

// DefinitionDirs returns the directories launchd reads job definitions from
// for this domain, in search order. home is the invoking user's home
// directory; it is only used for the per-user agent directory.
//
// Per launchd(8):
//
//	~/Library/LaunchAgents         Per-user agents provided by the user.
//	/Library/LaunchAgents          Per-user agents provided by the administrator.
//	/Library/LaunchDaemons         System-wide daemons provided by the administrator.
//	/System/Library/LaunchAgents   Per-user agents provided by Apple.
//	/System/Library/LaunchDaemons  System-wide daemons provided by Apple.
func (d Domain) DefinitionDirs(home string) []string {
	switch d {
	case DomainSystem:
		return []string{
			"/Library/LaunchDaemons",
			"/System/Library/LaunchDaemons",
		}
	case DomainUser, DomainGUI:
		return []string{
			filepath.Join(home, "Library", "LaunchAgents"),
			"/Library/LaunchAgents",
			"/System/Library/LaunchAgents",
		}
	default:
		return nil
	}
}
