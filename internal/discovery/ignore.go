package discovery

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/moby/patternmatcher/ignorefile"
)

// Earthly reads .earthlyignore, or the older .earthignore when the former
// is absent.
var ignoreFileNames = []string{
	".earthlyignore",
	".earthignore",
}

// LoadIgnoreFile returns the patterns of the ignore file in dir together
// with that file's path. Both are empty when dir has no ignore file. An
// existing .earthlyignore shadows .earthignore even when it holds no
// patterns.
func LoadIgnoreFile(dir string) ([]string, string, error) {
	for _, name := range ignoreFileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		patterns, err := ignorefile.ReadAll(bytes.NewReader(data))
		if err != nil {
			return nil, "", err
		}
		return patterns, path, nil
	}
	return nil, "", nil
}
