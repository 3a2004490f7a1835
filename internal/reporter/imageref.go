package reporter

import (
	"github.com/distribution/reference"

	"github.com/tinovyatkin/earthscan/internal/dependency"
)

// imageRef wraps a parsed image reference for display purposes.
type imageRef struct {
	named reference.Named
}

// parseImageRef parses the pull reference of d. Returns nil if it cannot
// be parsed, e.g. for skipped descriptors.
func parseImageRef(d dependency.Descriptor) *imageRef {
	name := d.LookupName()
	if name == "" {
		return nil
	}
	named, err := reference.ParseNormalizedNamed(name)
	if err != nil {
		return nil
	}
	return &imageRef{named: named}
}

// Domain returns the registry domain (e.g., "docker.io", "gcr.io").
func (r *imageRef) Domain() string {
	return reference.Domain(r.named)
}

// Path returns the repository path without the domain.
func (r *imageRef) Path() string {
	return reference.Path(r.named)
}
