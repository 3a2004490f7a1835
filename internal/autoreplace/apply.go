package autoreplace

import (
	_ "crypto/sha256" // register digest algorithms
	_ "crypto/sha512"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/distribution/reference"
	"github.com/opencontainers/go-digest"

	"github.com/tinovyatkin/earthscan/internal/dependency"
)

var (
	// ErrSkipped is returned when asked to update a skipped descriptor.
	ErrSkipped = errors.New("dependency is skipped")
	// ErrReplaceStringNotFound is returned when the content no longer
	// contains the descriptor's replace string.
	ErrReplaceStringNotFound = errors.New("replace string not found in content")
	// ErrInvalidValue is returned for a new value that is not a valid tag.
	ErrInvalidValue = errors.New("invalid tag")
	// ErrInvalidDigest is returned for a new digest that does not parse.
	ErrInvalidDigest = errors.New("invalid digest")
)

// Render executes the descriptor's auto-replace template with the given
// new value and digest. Either may be empty.
func Render(d dependency.Descriptor, newValue, newDigest string) (string, error) {
	tmpl, err := template.New("autoReplace").Option("missingkey=error").Parse(d.AutoReplaceStringTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing auto-replace template: %w", err)
	}

	var b strings.Builder
	err = tmpl.Execute(&b, dependency.TemplateData{
		DepName:     d.DepName,
		PackageName: d.PackageName,
		NewValue:    newValue,
		NewDigest:   newDigest,
	})
	if err != nil {
		return "", fmt.Errorf("rendering auto-replace template: %w", err)
	}
	return b.String(), nil
}

// Apply rewrites content so that d points at newValue and newDigest. The
// replace string is expected at d.Offset; when content has shifted since
// extraction, the first occurrence at or after d.Offset is used instead.
// Text before d.Offset is never rewritten, and the rest of content is
// returned unchanged.
func Apply(content string, d dependency.Descriptor, newValue, newDigest string) (string, error) {
	if d.Skipped() {
		return "", fmt.Errorf("%s: %w", d.ReplaceString, ErrSkipped)
	}
	if newValue != "" && reference.TagRegexp.FindString(newValue) != newValue {
		return "", fmt.Errorf("%q: %w", newValue, ErrInvalidValue)
	}
	if newDigest != "" {
		if _, err := digest.Parse(newDigest); err != nil {
			return "", fmt.Errorf("%q: %w: %w", newDigest, ErrInvalidDigest, err)
		}
	}

	i := locate(content, d)
	if i < 0 {
		return "", fmt.Errorf("%q: %w", d.ReplaceString, ErrReplaceStringNotFound)
	}

	replacement, err := Render(d, newValue, newDigest)
	if err != nil {
		return "", err
	}
	return content[:i] + replacement + content[i+len(d.ReplaceString):], nil
}

// locate returns the byte offset of d's replace string in content, or -1.
func locate(content string, d dependency.Descriptor) int {
	if d.ReplaceString == "" || d.Offset < 0 || d.Offset > len(content) {
		return -1
	}
	i := strings.Index(content[d.Offset:], d.ReplaceString)
	if i < 0 {
		return -1
	}
	return d.Offset + i
}
