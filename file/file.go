package file

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// OutDir is where outputs go when no directory is given.
	OutDir = "."
)

// Input is a document read from disk.
type Input struct {
	// Name is the base name of the file.
	Name string
	Path string
	Data []byte
}

// ReadInput reads the file at path.
func ReadInput(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, err
	}
	return Input{Name: filepath.Base(path), Path: path, Data: data}, nil
}

// WriteOutput writes data as name under dir, creating dir as needed.
func WriteOutput(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, data, 0o644)
}

// SplitOnExt splits name at its last dot. The extension is returned
// without the dot and is empty when name has no dot.
func SplitOnExt(name string) (string, string) {
	dot := strings.LastIndex(name, ".")
	if dot == -1 {
		return name, ""
	}
	return name[:dot], name[dot+1:]
}

var fromFirstDot = regexp.MustCompile(`(\..*)?$`)

// ReplaceExt drops everything from the first dot of name and appends ext.
func ReplaceExt(name, ext string) string {
	return fromFirstDot.ReplaceAllLiteralString(name, ext)
}

// StripExt drops the last extension of name.
func StripExt(name string) string {
	start, _ := SplitOnExt(name)
	return start
}

// CleanedName is the name of the cleaned version of name.
func CleanedName(name string) string {
	start, ext := SplitOnExt(name)
	if ext == "" {
		return start + "-cleaned"
	}
	return start + "-cleaned." + ext
}
