package earthfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func varTable(content string) VarTable {
	return BuildVarTable(LogicalLines(SplitLines(content)))
}

func TestBuildVarTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		varName   string
		wantValue string
		wantRange LineRange
	}{
		{"arg", "ARG BASE=golang:1.20", "BASE", "golang:1.20", LineRange{0, 0}},
		{"global flag", "ARG --global TAG=3.18", "TAG", "3.18", LineRange{0, 0}},
		{"required flag", "ARG --required TAG", "TAG", "", LineRange{0, 0}},
		{"quoted", `ARG TAG="3.18"`, "TAG", "3.18", LineRange{0, 0}},
		{"quoted with space", `ARG MSG="a b" trailing`, "MSG", "a b", LineRange{0, 0}},
		{"let", "  LET VERSION = 1.2.3", "VERSION", "1.2.3", LineRange{0, 0}},
		{"set", "  SET VERSION=2.0", "VERSION", "2.0", LineRange{0, 0}},
		{"lowercase keyword", "arg tag=edge", "tag", "edge", LineRange{0, 0}},
		{"no value is empty", "ARG EMPTY", "EMPTY", "", LineRange{0, 0}},
		{"explicit empty", "ARG EMPTY=", "EMPTY", "", LineRange{0, 0}},
		{"variable kept as typed", "ARG REF=$OTHER:1", "REF", "$OTHER:1", LineRange{0, 0}},
		{"continuation with comment", "ARG \\\n  # the base image\n  BASE=alpine:3.18", "BASE", "alpine:3.18", LineRange{0, 2}},
		{"later wins", "ARG TAG=1\nbuild:\n  SET TAG=2", "TAG", "2", LineRange{2, 2}},
		{"only one quote layer", `ARG Q=""x""`, "Q", `"x"`, LineRange{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, ok := varTable(tt.content).Lookup(tt.varName)
			require.True(t, ok, "declaration not found")
			assert.Equal(t, tt.varName, d.Name)
			assert.Equal(t, tt.wantValue, d.Value)
			assert.Equal(t, tt.wantRange, d.Range)
		})
	}
}

func TestBuildVarTable_NotDeclarations(t *testing.T) {
	t.Parallel()

	vars := varTable("RUN ARG=1\nENV FOO=bar\n# ARG COMMENTED=1\nARGS X=1\nFROM alpine:3.18")
	assert.Equal(t, 0, vars.Len())
}
