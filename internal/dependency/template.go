package dependency

import (
	"sort"
	"strings"
)

// TemplateData is the value auto-replace templates are executed against.
type TemplateData struct {
	DepName     string
	PackageName string
	NewValue    string
	NewDigest   string
}

// Placeholders render to nothing when the corresponding new value is empty.
const (
	NewValuePlaceholder        = `{{with .NewValue}}{{.}}{{end}}`
	NewDigestPlaceholder       = `{{with .NewDigest}}@{{.}}{{end}}`
	bareNewDigestPlaceholder   = `{{with .NewDigest}}{{.}}{{end}}`
	depNameTemplate            = `{{.DepName}}{{with .NewValue}}:{{.}}{{end}}` + NewDigestPlaceholder
	packageNameTemplate        = `{{.PackageName}}{{with .NewValue}}:{{.}}{{end}}` + NewDigestPlaceholder
	templateDelimiterLeft      = "{{"
	escapedTemplateDelimLeft   = `{{"{{"}}`
	valueBoundaryPrecedingChar = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_.-"
)

type substitution struct {
	start, end  int
	placeholder string
}

// ReplaceStringTemplate builds a template over the descriptor's replace
// string: the current digest and value are swapped for placeholders and
// every other byte is kept literally.
func ReplaceStringTemplate(d Descriptor) string {
	text := d.ReplaceString
	var subs []substitution

	digestStart, digestEnd := -1, -1
	if d.CurrentDigest != "" {
		if i := strings.Index(text, "@"+d.CurrentDigest); i >= 0 {
			digestStart, digestEnd = i, i+1+len(d.CurrentDigest)
			subs = append(subs, substitution{digestStart, digestEnd, NewDigestPlaceholder})
		} else if i := strings.Index(text, d.CurrentDigest); i >= 0 {
			digestStart, digestEnd = i, i+len(d.CurrentDigest)
			subs = append(subs, substitution{digestStart, digestEnd, bareNewDigestPlaceholder})
		}
	}

	if d.CurrentValue != "" {
		if i := valueIndex(text, d.CurrentValue, digestStart, digestEnd); i >= 0 {
			placeholder := NewValuePlaceholder
			if d.CurrentDigest == "" {
				placeholder += NewDigestPlaceholder
			}
			subs = append(subs, substitution{i, i + len(d.CurrentValue), placeholder})
		}
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].start < subs[j].start })

	var b strings.Builder
	pos := 0
	for _, s := range subs {
		b.WriteString(escapeTemplateText(text[pos:s.start]))
		b.WriteString(s.placeholder)
		pos = s.end
	}
	b.WriteString(escapeTemplateText(text[pos:]))
	return b.String()
}

// valueIndex finds value in text outside [skipStart, skipEnd). An
// occurrence that starts a token is preferred over one glued to a name,
// so "node18:18" places the value after the colon.
func valueIndex(text, value string, skipStart, skipEnd int) int {
	first := -1
	for offset := 0; offset <= len(text)-len(value); {
		i := strings.Index(text[offset:], value)
		if i < 0 {
			break
		}
		i += offset
		offset = i + 1

		if skipStart >= 0 && i < skipEnd && i+len(value) > skipStart {
			continue
		}
		if i == 0 || !strings.ContainsRune(valueBoundaryPrecedingChar, rune(text[i-1])) {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	return first
}

func escapeTemplateText(s string) string {
	return strings.ReplaceAll(s, templateDelimiterLeft, escapedTemplateDelimLeft)
}
