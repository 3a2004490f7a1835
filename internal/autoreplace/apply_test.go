package autoreplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinovyatkin/earthscan/internal/dependency"
	"github.com/tinovyatkin/earthscan/internal/earthfile"
)

const otherDigest = "sha256:fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		image     string
		newValue  string
		newDigest string
		want      string
	}{
		{"same value", "alpine:3.18", "3.18", "", "alpine:3.18"},
		{"new value", "alpine:3.18", "3.19", "", "alpine:3.19"},
		{"new digest", "alpine:3.18", "3.18", otherDigest, "alpine:3.18@" + otherDigest},
		{"no value", "alpine:3.18", "", "", "alpine"},
		{"package name kept", "amd64/busybox:1.36", "1.37", "", "amd64/busybox:1.37"},
		{"digest replaced", "alpine:3.18@" + testDigest, "3.19", otherDigest, "alpine:3.19@" + otherDigest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Render(dependency.FromImage(tt.image, nil), tt.newValue, tt.newDigest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_BadTemplate(t *testing.T) {
	t.Parallel()

	_, err := Render(dependency.Descriptor{AutoReplaceStringTemplate: "{{.NewValue"}, "1", "")
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	t.Parallel()

	content := "VERSION 0.8\nFROM alpine:3.18\nRUN apk add curl\n"
	d := dependency.FromImage("alpine:3.18", nil)

	got, err := Apply(content, d, "3.19", "")
	require.NoError(t, err)
	assert.Equal(t, "VERSION 0.8\nFROM alpine:3.19\nRUN apk add curl\n", got)

	got, err = Apply(content, d, "3.18", otherDigest)
	require.NoError(t, err)
	assert.Equal(t, "VERSION 0.8\nFROM alpine:3.18@"+otherDigest+"\nRUN apk add curl\n", got)
}

func TestApply_Offset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		offset  int
		want    string
	}{
		{
			name:    "longer image containing the name",
			content: "FROM myalpine:3.18\nFROM alpine:3.18\n",
			offset:  24,
			want:    "FROM myalpine:3.18\nFROM alpine:3.19\n",
		},
		{
			name:    "comment repeating the image",
			content: "# pinned to alpine:3.18 upstream\nFROM alpine:3.18\n",
			offset:  38,
			want:    "# pinned to alpine:3.18 upstream\nFROM alpine:3.19\n",
		},
		{
			name:    "text shifted after extraction",
			content: "RUN echo alpine:3.18\nVERSION 0.8\nFROM alpine:3.18\n",
			offset:  21,
			want:    "RUN echo alpine:3.18\nVERSION 0.8\nFROM alpine:3.19\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := dependency.FromImage("alpine:3.18", nil)
			d.Offset = tt.offset

			got, err := Apply(tt.content, d, "3.19", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_SynthesizedSpan(t *testing.T) {
	t.Parallel()

	content := "VERSION 0.8\nARG GO_VERSION=1.22\n\nbuild:\n  FROM golang:$GO_VERSION\n"
	lines := earthfile.SplitLines(content)
	d := dependency.FromImage("golang:1.22", nil)
	Synthesize(&d, []earthfile.LineRange{{Start: 4, End: 4}, {Start: 1, End: 1}}, lines, "\n")
	require.Equal(t, "ARG GO_VERSION=1.22\n", d.ReplaceString)

	got, err := Apply(content, d, "1.23", "")
	require.NoError(t, err)
	assert.Equal(t, "VERSION 0.8\nARG GO_VERSION=1.23\n\nbuild:\n  FROM golang:$GO_VERSION\n", got)
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	content := "FROM alpine:3.18\n"
	d := dependency.FromImage("alpine:3.18", nil)

	_, err := Apply(content, d, "-bad", "")
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = Apply(content, d, "3.19", "sha256:abc")
	require.ErrorIs(t, err, ErrInvalidDigest)

	_, err = Apply("FROM busybox\n", d, "3.19", "")
	require.ErrorIs(t, err, ErrReplaceStringNotFound)

	past := d
	past.Offset = 6
	_, err = Apply(content, past, "3.19", "")
	require.ErrorIs(t, err, ErrReplaceStringNotFound, "text before the offset is never rewritten")

	past.Offset = len(content) + 1
	_, err = Apply(content, past, "3.19", "")
	require.ErrorIs(t, err, ErrReplaceStringNotFound)

	skipped := dependency.Descriptor{SkipReason: dependency.SkipContainsVariable, ReplaceString: "$BASE"}
	_, err = Apply("FROM $BASE\n", skipped, "1", "")
	require.ErrorIs(t, err, ErrSkipped)
}
