package earthfile

import (
	"regexp"
	"strings"
)

// VariableMarker introduces a build variable reference.
const VariableMarker = "$"

// varRefRe matches $NAME, ${NAME} and ${NAME:...}, with an optional
// leading escape that belongs to the token.
var varRefRe = regexp.MustCompile(`\\?\$(?:\{([A-Za-z_][A-Za-z0-9_]*)(?::[^}]*)?\}|([A-Za-z_][A-Za-z0-9_]*))`)

// Resolved is a candidate after variable substitution.
type Resolved struct {
	Image string
	// Ranges lists the candidate's own range first, then the range of every
	// declaration that was substituted, in order of first use.
	Ranges []LineRange
}

// Resolve substitutes every declared variable referenced by image. Tokens
// naming undeclared variables are left untouched.
func (t VarTable) Resolve(image string, own LineRange) Resolved {
	res := Resolved{Image: image, Ranges: []LineRange{own}}
	if !strings.Contains(image, VariableMarker) {
		return res
	}

	res.Image = varRefRe.ReplaceAllStringFunc(image, func(token string) string {
		m := varRefRe.FindStringSubmatch(token)
		name := m[1]
		if name == "" {
			name = m[2]
		}
		d, ok := t.Lookup(name)
		if !ok {
			return token
		}
		res.Ranges = appendRange(res.Ranges, d.Range)
		return d.Value
	})
	return res
}

func appendRange(ranges []LineRange, r LineRange) []LineRange {
	for _, existing := range ranges {
		if existing == r {
			return ranges
		}
	}
	return append(ranges, r)
}
