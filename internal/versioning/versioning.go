// Package versioning names the version schemes descriptors can be ordered
// with and implements the one debian predicate extraction relies on.
package versioning

import (
	"regexp"
	"strings"
)

// Scheme identifiers understood by the update tool. An empty scheme means
// the default (semver-like) comparator.
const (
	Ubuntu = "ubuntu"
	Debian = "debian"
)

var debianNumericRe = regexp.MustCompile(`^\d+(?:\.\d+){0,2}$`)

var debianCodenames = map[string]bool{
	"buzz": true, "rex": true, "bo": true, "hamm": true, "slink": true,
	"potato": true, "woody": true, "sarge": true, "etch": true, "lenny": true,
	"squeeze": true, "wheezy": true, "jessie": true, "stretch": true,
	"buster": true, "bullseye": true, "bookworm": true, "trixie": true,
	"forky": true,
}

// Rolling aliases that always point at a concrete release.
var debianRolling = map[string]bool{
	"stable":       true,
	"oldstable":    true,
	"oldoldstable": true,
}

// IsDebianVersion reports whether v is a debian release: a numeric version
// with up to three parts, a release codename or a rolling alias.
func IsDebianVersion(v string) bool {
	if v == "" {
		return false
	}
	if debianNumericRe.MatchString(v) {
		return true
	}
	v = strings.ToLower(v)
	return debianCodenames[v] || debianRolling[v]
}
