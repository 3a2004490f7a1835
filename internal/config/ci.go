package config

import "github.com/gkampitakis/ciinfo"

// InCI reports whether earthscan runs under a CI provider.
func InCI() bool {
	return ciinfo.IsCI
}

// CIName returns the detected CI provider name, or empty string if not in CI.
func CIName() string {
	if !ciinfo.IsCI {
		return ""
	}
	return ciinfo.Name
}
