// Package extractor runs the full extraction pipeline over one build file.
package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/tinovyatkin/earthscan/internal/autoreplace"
	"github.com/tinovyatkin/earthscan/internal/dependency"
	"github.com/tinovyatkin/earthscan/internal/earthfile"
)

// Extract returns the image dependencies referenced by content. It returns
// nil when the file references no images at all, which callers treat as
// "not a relevant file". Extract has no side effects beyond debug logging
// and is safe for concurrent use.
func Extract(content string, registryAliases map[string]string) []dependency.Descriptor {
	if !utf8.ValidString(content) {
		logrus.Debug("content is not valid UTF-8, skipping file")
		return nil
	}

	lineFeed := earthfile.LineFeed(content)
	lines := earthfile.SplitLines(content)
	logical := earthfile.LogicalLines(lines)
	vars := earthfile.BuildVarTable(logical)
	offsets := earthfile.LineOffsets(lines, lineFeed)

	var deps []dependency.Descriptor
	for _, ll := range logical {
		for _, c := range earthfile.Candidates(ll) {
			at := imageOffset(content, c, offsets)
			if d, ok := describe(c, at, vars, registryAliases, lines, lineFeed); ok {
				deps = append(deps, d)
			}
		}
	}
	return deps
}

// imageOffset returns the byte offset of c.Image in content. Files mixing
// line terminators can shift the column; the line start is used then.
func imageOffset(content string, c earthfile.Candidate, offsets []int) int {
	start := offsets[c.Line]
	if at := start + c.Column; at <= len(content) && strings.HasPrefix(content[at:], c.Image) {
		return at
	}
	return start
}

func describe(
	c earthfile.Candidate,
	at int,
	vars earthfile.VarTable,
	registryAliases map[string]string,
	lines []string,
	lineFeed string,
) (dependency.Descriptor, bool) {
	log := logrus.WithFields(logrus.Fields{
		"target": c.Target,
		"image":  c.Image,
		"line":   c.Range.Start + 1,
	})

	resolved := vars.Resolve(c.Image, c.Range)
	if resolved.Image == "scratch" {
		log.Debug("image resolves to scratch, ignoring")
		return dependency.Descriptor{}, false
	}

	d := dependency.FromImage(resolved.Image, registryAliases)
	d.DepType = c.Target
	if d.Skipped() {
		// The resolved text may not appear in the file; point at what does.
		d.ReplaceString = c.Image
		d.AutoReplaceStringTemplate = ""
		d.Offset = at
		log.WithField("reason", d.SkipReason).Debug("skipping image reference")
		return d, true
	}

	d.Offset = at
	if i := strings.Index(c.Image, d.ReplaceString); i > 0 {
		d.Offset += i
	}
	autoreplace.Synthesize(&d, resolved.Ranges, lines, lineFeed)
	log.WithFields(logrus.Fields{
		"depName":      d.DepName,
		"currentValue": d.CurrentValue,
	}).Debug("found image dependency")
	return d, true
}
