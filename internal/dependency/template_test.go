package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceStringTemplate(t *testing.T) {
	t.Parallel()

	const valueAndDigest = NewValuePlaceholder + NewDigestPlaceholder

	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			name: "value only",
			d:    Descriptor{ReplaceString: "ARG TAG=3.18\n", CurrentValue: "3.18"},
			want: "ARG TAG=" + valueAndDigest + "\n",
		},
		{
			name: "value and digest",
			d:    Descriptor{ReplaceString: "alpine:3.18@sha256:abc", CurrentValue: "3.18", CurrentDigest: "sha256:abc"},
			want: "alpine:" + NewValuePlaceholder + NewDigestPlaceholder,
		},
		{
			name: "digest without at sign",
			d:    Descriptor{ReplaceString: "ARG TAG=3.18\nARG DIGEST=sha256:abc", CurrentValue: "3.18", CurrentDigest: "sha256:abc"},
			want: "ARG TAG=" + NewValuePlaceholder + "\nARG DIGEST=" + bareNewDigestPlaceholder,
		},
		{
			name: "value glued to name is skipped",
			d:    Descriptor{ReplaceString: "node18:18", CurrentValue: "18"},
			want: "node18:" + valueAndDigest,
		},
		{
			name: "value only inside a name",
			d:    Descriptor{ReplaceString: "node18", CurrentValue: "18"},
			want: "node" + valueAndDigest,
		},
		{
			name: "value is not searched inside the digest",
			d:    Descriptor{ReplaceString: "app@sha256:1a2b\nARG V=1", CurrentValue: "1", CurrentDigest: "sha256:1a2b"},
			want: "app" + NewDigestPlaceholder + "\nARG V=" + NewValuePlaceholder,
		},
		{
			name: "no value or digest",
			d:    Descriptor{ReplaceString: "alpine"},
			want: "alpine",
		},
		{
			name: "template delimiters are escaped",
			d:    Descriptor{ReplaceString: "LABEL {{x}} alpine:1", CurrentValue: "1"},
			want: `LABEL {{"{{"}}x}} alpine:` + valueAndDigest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ReplaceStringTemplate(tt.d))
		})
	}
}
