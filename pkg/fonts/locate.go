package fonts

import (
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"

	"github.com/matzehuels/qlabel/pkg/errors"
)

// Locate resolves a configured font file to a readable path.
//
// Absolute paths are used as-is. Relative names are tried against each of
// dirs in order and finally against the system font directories.
func Locate(file string, dirs ...string) (string, error) {
	if err := errors.ValidatePath(file); err != nil {
		return "", err
	}

	if filepath.IsAbs(file) {
		if _, err := os.Stat(file); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "font file %s", file)
		}
		return file, nil
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, file)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	path, err := findfont.Find(file)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "font file %s not found", file)
	}
	return path, nil
}
