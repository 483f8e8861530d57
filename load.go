// Package bindjoin joins binding tables evaluated from N-Quads files.
//
//spellchecker:words bindjoin
package bindjoin

//spellchecker:words errors path filepath
import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// cspell:words nquads

var errWrongArgCount = errors.New("need exactly three arguments")

// FindSource finds the nquads file and the left and right patterns in the given arguments.
// The first argument is either the path to an nquads file, or a directory containing exactly one '*.nq' file.
//
// FindSource does not guarantee that contents are loadable.
func FindSource(argv ...string) (nq, left, right string, err error) {
	if len(argv) != 3 {
		return "", "", "", errWrongArgCount
	}
	nq, left, right = argv[0], argv[1], argv[2]

	isDir, err := isDirectory(nq)
	if err != nil {
		return "", "", "", err
	}

	if isDir {
		base := nq

		nqs, err := filepath.Glob(filepath.Join(base, "*.nq"))
		if err != nil {
			return "", "", "", err
		}
		if len(nqs) != 1 {
			return "", "", "", fmt.Errorf("need exactly one '*.nq' in %q, but got %d", base, len(nqs))
		}
		nq = nqs[0]
	}

	// check for a regular file
	ok, err := isFile(nq)
	if err != nil {
		return "", "", "", err
	}
	if !ok {
		return "", "", "", fmt.Errorf("%q is not a regular file", nq)
	}

	return nq, left, right, nil
}

func isDirectory(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsDir(), nil
}

// isFile checks if path is a regular file.
func isFile(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsRegular(), nil
}
