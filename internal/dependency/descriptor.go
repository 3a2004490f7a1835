// Package dependency turns a fully substituted image reference into the
// descriptor an update tool acts on.
package dependency

// DockerDatasource identifies the image registry datasource.
const DockerDatasource = "docker"

// SkipReason marks a reference that was intentionally not resolved.
type SkipReason string

const (
	// SkipInvalidValue is used for empty references.
	SkipInvalidValue SkipReason = "invalid-value"
	// SkipContainsVariable is used when a variable could not be substituted.
	SkipContainsVariable SkipReason = "contains-variable"
)

// Descriptor is one image dependency found in a build file. Empty strings
// mean the field is absent.
type Descriptor struct {
	DepName       string     `json:"depName,omitempty"`
	PackageName   string     `json:"packageName,omitempty"`
	CurrentValue  string     `json:"currentValue,omitempty"`
	CurrentDigest string     `json:"currentDigest,omitempty"`
	Datasource    string     `json:"datasource,omitempty"`
	Versioning    string     `json:"versioning,omitempty"`
	DepType       string     `json:"depType,omitempty"`
	SkipReason    SkipReason `json:"skipReason,omitempty"`
	// ReplaceString is always a verbatim substring of the file.
	ReplaceString             string `json:"replaceString,omitempty"`
	AutoReplaceStringTemplate string `json:"autoReplaceStringTemplate,omitempty"`
	// Offset is the byte offset of ReplaceString in the content the
	// descriptor was extracted from.
	Offset int `json:"-"`
}

// Skipped reports whether the descriptor carries a skip reason.
func (d Descriptor) Skipped() bool {
	return d.SkipReason != ""
}

// LookupName returns the name to query the datasource with.
func (d Descriptor) LookupName() string {
	if d.PackageName != "" {
		return d.PackageName
	}
	return d.DepName
}

func skipped(reason SkipReason, replaceString string) Descriptor {
	return Descriptor{SkipReason: reason, ReplaceString: replaceString}
}
