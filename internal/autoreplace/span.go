// Package autoreplace computes the text span an update has to rewrite and
// applies updates to file content.
package autoreplace

import (
	"sort"
	"strings"

	"github.com/tinovyatkin/earthscan/internal/dependency"
	"github.com/tinovyatkin/earthscan/internal/earthfile"
)

// Synthesize widens the replace string of d when its value was assembled
// from several places in the file. ranges lists every line range that
// contributed to d, the instruction's own range first. lines are the
// file's physical lines and lineFeed its terminator. A widened replace
// string starts at the first line of the span, and d.Offset moves there.
func Synthesize(d *dependency.Descriptor, ranges []earthfile.LineRange, lines []string, lineFeed string) {
	if d.Skipped() || len(ranges) <= 1 {
		return
	}

	kept := rangesContaining(ranges, lines, d.CurrentValue, d.CurrentDigest)
	if len(kept) == 0 {
		kept = append([]earthfile.LineRange(nil), ranges...)
	}
	span := merge(kept)
	if span.Start < 0 || span.End >= len(lines) {
		return
	}

	d.ReplaceString = strings.Join(lines[span.Start:span.End+1], lineFeed)
	d.Offset = earthfile.LineOffsets(lines, lineFeed)[span.Start]
	// The terminator keeps the span unique; the last line of a file may
	// not have one.
	if d.CurrentDigest == "" && span.End+1 < len(lines) {
		d.ReplaceString += lineFeed
	}
	d.AutoReplaceStringTemplate = dependency.ReplaceStringTemplate(*d)
}

// rangesContaining keeps the ranges whose lines literally contain value or
// digest.
func rangesContaining(ranges []earthfile.LineRange, lines []string, value, digest string) []earthfile.LineRange {
	var kept []earthfile.LineRange
	for _, r := range ranges {
		for n := r.Start; n <= r.End && n < len(lines); n++ {
			if (value != "" && strings.Contains(lines[n], value)) ||
				(digest != "" && strings.Contains(lines[n], digest)) {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

// merge returns the smallest range covering all of ranges.
func merge(ranges []earthfile.LineRange) earthfile.LineRange {
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	span := ranges[0]
	for _, r := range ranges[1:] {
		span.End = max(span.End, r.End)
	}
	return span
}
