// Package checklist represents an entire output directory as a single
// reproducible checksum manifest file. Notebooks that write many files per
// run get one checklist target instead of an enumeration of every produced
// file, and downstream consumers can verify the bundle with plain
// "md5sum -c checklist.chk".
package checklist

import (
	"crypto/md5"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// fileName is the fixed checklist filename. File is the single place the
// convention is defined; producers and consumers both go through it.
const fileName = "checklist.chk"

// NotADirectoryError reports a checklist request against a path that does
// not exist or is not a directory. It is distinguishable from generic I/O
// errors so callers can decide whether "directory not yet created" is
// expected on a first run.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("not a directory: %s", e.Path)
}

// File returns the checklist path for a directory.
func File(directory string) string {
	return filepath.Join(directory, fileName)
}

// Generate writes a checklist covering every file under directory,
// recursively, excluding checklist files themselves. Files are listed in
// lexicographic path order with one line per file:
//
//	MD5 (relative/path) = <hex digest>
//
// Generating a checklist over an unchanged directory produces byte-identical
// output, which is what lets the checklist serve as a dependency-graph
// target.
func Generate(directory string) (string, error) {
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return "", &NotADirectoryError{Path: directory}
	}

	var lines strings.Builder
	err = filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == fileName {
			return nil
		}

		digest, err := fileMD5(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(directory, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(&lines, "MD5 (%s) = %s\n", filepath.ToSlash(rel), digest)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generating checklist for %s: %w", directory, err)
	}

	out := File(directory)
	if err := os.WriteFile(out, []byte(lines.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing checklist %s: %w", out, err)
	}
	return out, nil
}

func fileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
