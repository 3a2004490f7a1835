package earthfile

import (
	"regexp"
	"strings"
)

// Declaration keywords; LET and SET are Earthly-only.
const (
	keywordArg = "arg"
	keywordLet = "let"
	keywordSet = "set"
)

var declRe = regexp.MustCompile(`(?i)^\s*(` + keywordArg + `|` + keywordLet + `|` + keywordSet + `)` +
	`((?:\s+--[\w-]+(?:=\S*)?)*)` +
	`\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s*=\s*(.*?))?\s*$`)

// Declaration is a build variable declared with ARG, LET or SET.
type Declaration struct {
	Name  string
	Value string
	Range LineRange
}

// VarTable maps variable names to their last declaration in a file.
// It is built once by BuildVarTable and only read afterwards.
type VarTable struct {
	decls map[string]Declaration
}

// BuildVarTable scans every logical line for declarations. A later
// declaration of the same name replaces the earlier one.
func BuildVarTable(lines []LogicalLine) VarTable {
	decls := make(map[string]Declaration)
	for _, ll := range lines {
		if d, ok := parseDeclaration(ll); ok {
			decls[d.Name] = d
		}
	}
	return VarTable{decls: decls}
}

// Lookup returns the declaration for name.
func (t VarTable) Lookup(name string) (Declaration, bool) {
	d, ok := t.decls[name]
	return d, ok
}

// Len returns the number of declared names.
func (t VarTable) Len() int {
	return len(t.decls)
}

func parseDeclaration(ll LogicalLine) (Declaration, bool) {
	m := declRe.FindStringSubmatch(ll.Folded())
	if m == nil {
		return Declaration{}, false
	}
	return Declaration{
		Name:  m[3],
		Value: declarationValue(m[4]),
		Range: ll.Range,
	}, true
}

// declarationValue takes the first value token, keeping a quoted value
// together, and strips one layer of surrounding double quotes.
func declarationValue(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	token := raw
	if j := strings.IndexAny(raw, " \t"); j >= 0 {
		token = raw[:j]
		if raw[0] == '"' {
			if q := closingQuote(raw); q > 0 {
				token = raw[:q+1]
			}
		}
	}

	if len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"' {
		return token[1 : len(token)-1]
	}
	return token
}

// closingQuote returns the index of the double quote closing s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
