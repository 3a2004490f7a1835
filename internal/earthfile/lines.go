package earthfile

import (
	"regexp"
	"strings"
)

// BaseTarget is the target name attributed to instructions that appear
// before the first target header.
const BaseTarget = "base"

var (
	targetHeaderRe = regexp.MustCompile(`^([^\s#]\S*):\s*$`)
	continuationRe = regexp.MustCompile(`\\\s*$`)
)

// LineRange is an inclusive, 0-indexed range of physical lines.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether line n falls inside the range.
func (r LineRange) Contains(n int) bool {
	return n >= r.Start && n <= r.End
}

// LogicalLine is one instruction, possibly spanning several physical lines.
type LogicalLine struct {
	Range LineRange
	// Text is the verbatim physical lines joined with "\n".
	Text string
	// Target is the name of the target block the line belongs to.
	Target string
}

// Folded returns the instruction with comment lines removed and escaped
// newlines turned into spaces, so matchers can work on a single line.
func (l LogicalLine) Folded() string {
	physical := strings.Split(l.Text, "\n")
	parts := make([]string, 0, len(physical))
	for i, line := range physical {
		if i > 0 && isComment(line) {
			continue
		}
		line = strings.TrimRight(line, "\r")
		line = continuationRe.ReplaceAllString(line, "")
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// IsTargetHeader reports whether the logical line opens a new target block.
func (l LogicalLine) IsTargetHeader() (string, bool) {
	m := targetHeaderRe.FindStringSubmatch(strings.TrimRight(l.Text, "\r"))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// LineFeed returns the line terminator used by content: "\r\n" when it
// occurs anywhere, "\n" otherwise.
func LineFeed(content string) string {
	if strings.Contains(content, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// SplitLines splits content into physical lines on its line terminator.
func SplitLines(content string) []string {
	return strings.Split(content, LineFeed(content))
}

// LineOffsets returns the byte offset at which each physical line starts.
func LineOffsets(lines []string, lineFeed string) []int {
	offsets := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		offsets[i] = pos
		pos += len(line) + len(lineFeed)
	}
	return offsets
}

// LogicalLines folds continuation lines and tags every instruction with the
// target block it belongs to. Blank lines and standalone comments are
// returned as well; matchers simply ignore them.
func LogicalLines(lines []string) []LogicalLine {
	var out []LogicalLine
	target := BaseTarget

	for i := 0; i < len(lines); {
		end := i
		if !isComment(lines[i]) {
			for end+1 < len(lines) && continues(lines, i, end) && !isTargetHeader(lines[end+1]) {
				end++
			}
		}

		ll := LogicalLine{
			Range: LineRange{Start: i, End: end},
			Text:  strings.Join(lines[i:end+1], "\n"),
		}
		if name, ok := ll.IsTargetHeader(); ok {
			target = name
		}
		ll.Target = target
		out = append(out, ll)

		i = end + 1
	}
	return out
}

// continues reports whether the logical line spanning lines[start:end+1]
// carries on to the next physical line.
func continues(lines []string, start, end int) bool {
	if end > start && isComment(lines[end]) {
		return true
	}
	return continuationRe.MatchString(lines[end])
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

func isTargetHeader(line string) bool {
	return targetHeaderRe.MatchString(strings.TrimRight(line, "\r"))
}
